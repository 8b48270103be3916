package proto

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"
)

// Client speaks the SA control protocol over a connected UNIX socket to
// the payload injected into the host process (spec.md §4.6.4). It never
// blocks longer than NormalTimeout for an operation with no reply value,
// or ResponseTimeout for one that carries a response.
type Client struct {
	mu   sync.Mutex
	conn net.Conn
}

const (
	NormalTimeout   = 500 * time.Millisecond
	ResponseTimeout = 1 * time.Second
)

func NewClient(conn net.Conn) *Client {
	return &Client{conn: conn}
}

// Send writes f and returns without waiting for a reply, honoring
// NormalTimeout as the write deadline.
func (c *Client) Send(ctx context.Context, f Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	deadline := time.Now().Add(NormalTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("proto: set write deadline: %w", err)
	}
	return WriteFrame(c.conn, f)
}

// Request writes f and waits for exactly one reply frame, honoring
// ResponseTimeout.
func (c *Client) Request(ctx context.Context, f Frame) (Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	deadline := time.Now().Add(ResponseTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return Frame{}, fmt.Errorf("proto: set deadline: %w", err)
	}
	if err := WriteFrame(c.conn, f); err != nil {
		return Frame{}, err
	}
	reply, err := ReadFrame(c.conn)
	if err != nil {
		return Frame{}, fmt.Errorf("proto: read reply: %w", err)
	}
	return reply, nil
}

// Handshake performs the initial capability exchange.
func (c *Client) Handshake(ctx context.Context) (HandshakeResponse, error) {
	reply, err := c.Request(ctx, Frame{Opcode: OpHandshake})
	if err != nil {
		return HandshakeResponse{}, err
	}
	resp, ok := DecodeHandshakeResponse(reply.Payload)
	if !ok {
		return HandshakeResponse{}, fmt.Errorf("proto: malformed handshake response")
	}
	return resp, nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}
