package payload

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/tilewm/core/internal/sa/pattern"
	"github.com/tilewm/core/internal/sa/proto"
)

type fakeCaller struct {
	globals  map[pattern.Target]uint64
	calls    []pattern.Target
	failCall bool
	nextPtr  uint64
	released []uint64
}

func newFakeCaller() *fakeCaller {
	return &fakeCaller{
		globals: map[pattern.Target]uint64{pattern.TargetDockSpaces: 0xD0C0, pattern.TargetDppm: 0xDADA},
		nextPtr: 0x9000,
	}
}

func (c *fakeCaller) Call(fn pattern.Target, args ...uint64) (uint64, error) {
	c.calls = append(c.calls, fn)
	if c.failCall {
		return 0, errTest
	}
	if fn == pattern.TargetAddSpace {
		c.nextPtr++
		return c.nextPtr, nil
	}
	return 1, nil
}

func (c *fakeCaller) Global(g pattern.Target) (uint64, error) {
	return c.globals[g], nil
}

func (c *fakeCaller) Window(op proto.Opcode, args ...uint64) error {
	return nil
}

func (c *fakeCaller) Retain(ptr uint64) {}
func (c *fakeCaller) Release(ptr uint64) {
	c.released = append(c.released, ptr)
}

type testError string

func (e testError) Error() string { return string(e) }

const errTest = testError("forced failure")

func startTestServer(t *testing.T, caller *fakeCaller, caps proto.Capability) (string, func()) {
	t.Helper()
	socketPath := filepath.Join(t.TempDir(), "sa.socket")
	srv, err := Listen(socketPath, caller, caps)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go srv.Serve(ctx)
	return socketPath, func() { cancel(); srv.Close() }
}

func roundTrip(t *testing.T, socketPath string, req proto.Frame) proto.Frame {
	t.Helper()
	conn, err := net.DialTimeout("unix", socketPath, time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if err := proto.WriteFrame(conn, req); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(time.Second))
	resp, err := proto.ReadFrame(conn)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	return resp
}

func TestServerHandshakeReportsCapabilities(t *testing.T) {
	caller := newFakeCaller()
	socketPath, stop := startTestServer(t, caller, proto.CapSpaceCreate|proto.CapSpaceMove)
	defer stop()

	resp := roundTrip(t, socketPath, proto.Frame{Opcode: proto.OpHandshake})
	decoded, ok := proto.DecodeHandshakeResponse(resp.Payload)
	if !ok {
		t.Fatalf("could not decode handshake response")
	}
	if !decoded.Capabilities.Has(proto.CapSpaceCreate) || !decoded.Capabilities.Has(proto.CapSpaceMove) {
		t.Errorf("got capabilities %v", decoded.Capabilities)
	}
	if decoded.Capabilities.Has(proto.CapSpaceDestroy) {
		t.Errorf("did not expect CapSpaceDestroy to be reported")
	}
}

func TestServerSpaceCreateRegistersNewSpace(t *testing.T) {
	caller := newFakeCaller()
	socketPath, stop := startTestServer(t, caller, proto.CapSpaceCreate)
	defer stop()

	resp := roundTrip(t, socketPath, proto.Frame{Opcode: proto.OpSpaceCreate, Payload: proto.EncodeU64(7)})
	sid, diag, ok := proto.DecodeSpaceCreateResponse(resp.Payload)
	if !ok || sid == 0 || diag != 0 {
		t.Errorf("got sid=%d diag=%d ok=%v, want a nonzero sid and no diagnostic", sid, diag, ok)
	}
}

func TestServerSpaceCreateFailsWithoutCapability(t *testing.T) {
	caller := newFakeCaller()
	socketPath, stop := startTestServer(t, caller, 0)
	defer stop()

	resp := roundTrip(t, socketPath, proto.Frame{Opcode: proto.OpSpaceCreate, Payload: proto.EncodeU64(7)})
	sid, diag, ok := proto.DecodeSpaceCreateResponse(resp.Payload)
	if !ok || sid != 0 || diag != proto.DiagNoFunctionPointer {
		t.Errorf("got sid=%d diag=%d ok=%v, want sid=0 diag=DiagNoFunctionPointer", sid, diag, ok)
	}
}

func TestServerSpaceDestroyReleasesTrackedPointer(t *testing.T) {
	caller := newFakeCaller()
	socketPath, stop := startTestServer(t, caller, proto.CapSpaceCreate|proto.CapSpaceDestroy)
	defer stop()

	createResp := roundTrip(t, socketPath, proto.Frame{Opcode: proto.OpSpaceCreate, Payload: proto.EncodeU64(1)})
	sid, _, _ := proto.DecodeSpaceCreateResponse(createResp.Payload)

	destroyResp := roundTrip(t, socketPath, proto.Frame{Opcode: proto.OpSpaceDestroy, Payload: proto.EncodeU64(sid)})
	if len(destroyResp.Payload) != 1 || destroyResp.Payload[0] != ackSuccess {
		t.Errorf("expected a success ack, got %v", destroyResp.Payload)
	}
	if len(caller.released) != 1 {
		t.Errorf("expected exactly one release call, got %d", len(caller.released))
	}
}

func TestServerWindowOpacityAcksSuccess(t *testing.T) {
	caller := newFakeCaller()
	socketPath, stop := startTestServer(t, caller, 0)
	defer stop()

	req := proto.Frame{Opcode: proto.OpWindowOpacity, Payload: proto.EncodeWindowOpacity(proto.WindowOpacityRequest{WindowID: 1, Alpha: 0.8})}
	resp := roundTrip(t, socketPath, req)
	if len(resp.Payload) != 1 || resp.Payload[0] != ackSuccess {
		t.Errorf("expected a success ack, got %v", resp.Payload)
	}
}

func TestServerUnknownOpcodeAcksFailure(t *testing.T) {
	caller := newFakeCaller()
	socketPath, stop := startTestServer(t, caller, 0)
	defer stop()

	resp := roundTrip(t, socketPath, proto.Frame{Opcode: proto.Opcode(0xEE)})
	if len(resp.Payload) != 1 || resp.Payload[0] != ackFailure {
		t.Errorf("expected a failure ack for an unknown opcode, got %v", resp.Payload)
	}
}
