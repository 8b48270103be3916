package payload

import (
	"context"
	"fmt"
	"math"
	"net"
	"os"

	"github.com/tilewm/core/internal/sa/pattern"
	"github.com/tilewm/core/internal/sa/proto"
)

const (
	ackFailure byte = 0
	ackSuccess byte = 1
)

// Server is the detached listener spec.md §4.6.5 describes: it accepts
// one control-socket connection at a time, reads one framed message,
// dispatches it to a handler, writes the response, and closes.
type Server struct {
	listener net.Listener
	queue    *MainQueue
	caller   HostCaller
	spaces   *spaceRegistry
	caps     proto.Capability
}

// Listen creates the SA control socket at socketPath (mode 0600, per
// spec.md §6) and returns a Server ready to Serve.
func Listen(socketPath string, caller HostCaller, caps proto.Capability) (*Server, error) {
	_ = os.Remove(socketPath)
	l, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("payload: listen on %s: %w", socketPath, err)
	}
	if err := os.Chmod(socketPath, 0o600); err != nil {
		l.Close()
		return nil, fmt.Errorf("payload: chmod %s: %w", socketPath, err)
	}
	return &Server{
		listener: l,
		queue:    NewMainQueue(),
		caller:   caller,
		spaces:   newSpaceRegistry(),
		caps:     caps,
	}, nil
}

// Serve runs the accept loop until ctx is canceled or the listener
// errors. Connections are handled one at a time, never concurrently.
func (s *Server) Serve(ctx context.Context) error {
	s.queue.Start(ctx)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("payload: accept: %w", err)
		}
		s.handleConn(conn)
	}
}

func (s *Server) Close() error {
	return s.listener.Close()
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	req, err := proto.ReadFrame(conn)
	if err != nil {
		return
	}
	resp := s.dispatch(req)
	_ = proto.WriteFrame(conn, resp)
}

// dispatch runs req's handler synchronously on the main queue and
// builds the reply frame. Decode failures and handler errors both
// collapse to a failure ack, matching spec.md §4.6.4's "any failure
// reports and returns" policy.
func (s *Server) dispatch(req proto.Frame) proto.Frame {
	var payload []byte
	s.queue.Run(func() {
		payload = s.handle(req)
	})
	return proto.Frame{Opcode: req.Opcode, Payload: payload}
}

func (s *Server) handle(req proto.Frame) []byte {
	switch req.Opcode {
	case proto.OpHandshake:
		return proto.EncodeHandshakeResponse(proto.HandshakeResponse{Version: "1", Capabilities: s.caps})

	case proto.OpSpaceFocus:
		sid, ok := proto.DecodeU64(req.Payload)
		if !ok {
			return ack(false)
		}
		ptr, found := s.spaces.pointer(sid)
		if !found {
			return ack(false)
		}
		_, err := s.caller.Call(pattern.TargetMoveSpace, ptr)
		return ack(err == nil)

	case proto.OpSpaceCreate:
		displaySid, ok := proto.DecodeU64(req.Payload)
		if !ok {
			return proto.EncodeSpaceCreateResponse(0, proto.DiagNoGlobal)
		}
		return s.handleSpaceCreate(displaySid)

	case proto.OpSpaceDestroy:
		sid, ok := proto.DecodeU64(req.Payload)
		if !ok {
			return ack(false)
		}
		return s.handleSpaceDestroy(sid)

	case proto.OpSpaceMove:
		r, ok := proto.DecodeSpaceMove(req.Payload)
		if !ok {
			return ack(false)
		}
		srcPtr, ok1 := s.spaces.pointer(r.Src)
		dstPtr, ok2 := s.spaces.pointer(r.Dst)
		if !ok1 || !ok2 {
			return ack(false)
		}
		focus := uint64(0)
		if r.Focus {
			focus = 1
		}
		_, err := s.caller.Call(pattern.TargetMoveSpace, srcPtr, dstPtr, r.Prev, focus)
		return ack(err == nil)

	case proto.OpWindowMove:
		r, ok := proto.DecodeWindowMove(req.Payload)
		if !ok {
			return ack(false)
		}
		err := s.caller.Window(req.Opcode, uint64(r.WindowID), uint64(uint32(r.X)), uint64(uint32(r.Y)))
		return ack(err == nil)

	case proto.OpWindowOpacity:
		r, ok := proto.DecodeWindowOpacity(req.Payload)
		if !ok {
			return ack(false)
		}
		err := s.caller.Window(req.Opcode, uint64(r.WindowID), uint64(math.Float32bits(r.Alpha)))
		return ack(err == nil)

	case proto.OpWindowLayer:
		r, ok := proto.DecodeWindowLayer(req.Payload)
		if !ok {
			return ack(false)
		}
		err := s.caller.Window(req.Opcode, uint64(r.WindowID), uint64(uint32(r.Level)))
		return ack(err == nil)

	case proto.OpWindowSticky, proto.OpWindowShadow:
		r, ok := proto.DecodeWindowBoolFlag(req.Payload)
		if !ok {
			return ack(false)
		}
		on := uint64(0)
		if r.On {
			on = 1
		}
		err := s.caller.Window(req.Opcode, uint64(r.WindowID), on)
		return ack(err == nil)

	case proto.OpWindowOrder:
		r, ok := proto.DecodeWindowOrder(req.Payload)
		if !ok {
			return ack(false)
		}
		err := s.caller.Window(req.Opcode, uint64(r.A), uint64(uint32(r.Relation)), uint64(r.B))
		return ack(err == nil)

	case proto.OpWindowToSpace:
		r, ok := proto.DecodeWindowToSpace(req.Payload)
		if !ok {
			return ack(false)
		}
		err := s.caller.Window(req.Opcode, r.SpaceID, uint64(r.WindowID))
		return ack(err == nil)

	default:
		return ack(false)
	}
}

func (s *Server) handleSpaceCreate(displaySid uint64) []byte {
	if !s.caps.Has(proto.CapSpaceCreate) {
		return proto.EncodeSpaceCreateResponse(0, proto.DiagNoFunctionPointer)
	}
	dockSpaces, err := s.caller.Global(pattern.TargetDockSpaces)
	if err != nil || dockSpaces == 0 {
		return proto.EncodeSpaceCreateResponse(0, proto.DiagNoGlobal)
	}
	newPtr, err := s.caller.Call(pattern.TargetAddSpace, dockSpaces, displaySid)
	if err != nil || newPtr == 0 {
		return proto.EncodeSpaceCreateResponse(0, proto.DiagUnchangedCount)
	}
	s.caller.Retain(newPtr)
	sid := s.spaces.add(newPtr)
	return proto.EncodeSpaceCreateResponse(sid, 0)
}

func (s *Server) handleSpaceDestroy(sid uint64) []byte {
	ptr, found := s.spaces.remove(sid)
	if !found {
		return ack(false)
	}
	_, err := s.caller.Call(pattern.TargetRemoveSpace, ptr)
	s.caller.Release(ptr)
	return ack(err == nil)
}

func ack(ok bool) []byte {
	if ok {
		return []byte{ackSuccess}
	}
	return []byte{ackFailure}
}
