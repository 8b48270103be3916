package platform

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/tilewm/core/internal/sa/proto"
)

// saSession dials the SA control socket on demand and speaks the wire
// protocol in internal/sa/proto (spec.md §4.6.4), routing Socket's
// SA-gated commands out through the SA client to the in-Dock payload
// instead of the compositor bridge's JSON-RPC dump/command channel.
//
// The payload server (internal/sa/payload.Server) answers exactly one
// framed request per connection and closes (see its handleConn), so a
// session dials fresh for every command; only the handshake's
// capability bitmask is cached, to let CreateSpace/DestroySpace fail
// fast without a round trip when the payload reports it lacks the
// function pointer for them.
type saSession struct {
	path    string
	timeout time.Duration

	mu         sync.Mutex
	handshaked bool
	caps       proto.Capability
}

func newSASession(socketPath string, timeout time.Duration) *saSession {
	return &saSession{path: socketPath, timeout: timeout}
}

func (s *saSession) dial(ctx context.Context) (net.Conn, error) {
	d := net.Dialer{Timeout: s.timeout}
	conn, err := d.DialContext(ctx, "unix", s.path)
	if err != nil {
		return nil, fmt.Errorf("sa: dial %s: %w", s.path, err)
	}
	return conn, nil
}

// capabilities returns the payload's handshake capability bitmask,
// dialing and handshaking once and caching the result.
func (s *saSession) capabilities(ctx context.Context) (proto.Capability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handshaked {
		return s.caps, nil
	}
	conn, err := s.dial(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()
	resp, err := proto.NewClient(conn).Handshake(ctx)
	if err != nil {
		return 0, fmt.Errorf("sa: handshake: %w", err)
	}
	s.caps = resp.Capabilities
	s.handshaked = true
	return s.caps, nil
}

// request dials a fresh connection, sends f, and returns the payload's
// single reply frame.
func (s *saSession) request(ctx context.Context, f proto.Frame) (proto.Frame, error) {
	conn, err := s.dial(ctx)
	if err != nil {
		return proto.Frame{}, err
	}
	defer conn.Close()
	reply, err := proto.NewClient(conn).Request(ctx, f)
	if err != nil {
		return proto.Frame{}, fmt.Errorf("sa: request opcode 0x%02x: %w", f.Opcode, err)
	}
	return reply, nil
}

// ackOK decodes the payload's one-byte success/failure response.
func ackOK(f proto.Frame) bool {
	return len(f.Payload) == 1 && f.Payload[0] == 1
}
