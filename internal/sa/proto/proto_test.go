package proto

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"
)

func TestWriteFrameThenReadFrameRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	want := Frame{Opcode: OpWindowOpacity, Payload: EncodeWindowOpacity(WindowOpacityRequest{WindowID: 7, Alpha: 0.5})}
	if err := WriteFrame(&buf, want); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if got.Opcode != want.Opcode || !bytes.Equal(got.Payload, want.Payload) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestReadFrameRejectsZeroLength(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0, 0})
	if _, err := ReadFrame(buf); err == nil {
		t.Errorf("expected an error for a zero-length frame")
	}
}

func TestWriteFrameRejectsOversizedPayload(t *testing.T) {
	f := Frame{Opcode: OpWindowMove, Payload: make([]byte, MaxFrameLength)}
	if err := WriteFrame(&bytes.Buffer{}, f); err == nil {
		t.Errorf("expected an error for an oversized frame")
	}
}

func TestCapabilityHasChecksAllBits(t *testing.T) {
	caps := CapSpaceCreate | CapSpaceMove
	if !caps.Has(CapSpaceCreate) {
		t.Errorf("expected CapSpaceCreate to be set")
	}
	if caps.Has(CapSpaceDestroy) {
		t.Errorf("did not expect CapSpaceDestroy to be set")
	}
	if !caps.Has(CapSpaceCreate | CapSpaceMove) {
		t.Errorf("expected the combined mask to be set")
	}
}

func TestEncodeDecodeSpaceCreateResponseRoundTrips(t *testing.T) {
	payload := EncodeSpaceCreateResponse(42, 0)
	sid, diag, ok := DecodeSpaceCreateResponse(payload)
	if !ok || sid != 42 || diag != 0 {
		t.Errorf("got sid=%d diag=%d ok=%v, want sid=42 diag=0 ok=true", sid, diag, ok)
	}
}

func TestEncodeDecodeSpaceCreateResponseReportsDiagnostic(t *testing.T) {
	payload := EncodeSpaceCreateResponse(0, DiagNoFunctionPointer)
	sid, diag, ok := DecodeSpaceCreateResponse(payload)
	if !ok || sid != 0 || diag != DiagNoFunctionPointer {
		t.Errorf("got sid=%d diag=%d ok=%v, want sid=0 diag=%d ok=true", sid, diag, ok, DiagNoFunctionPointer)
	}
}

func TestEncodeDecodeWindowMoveRoundTrips(t *testing.T) {
	want := WindowMoveRequest{WindowID: 9, X: -120, Y: 340}
	got, ok := DecodeWindowMove(EncodeWindowMove(want))
	if !ok || got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestEncodeDecodeSpaceMoveRoundTrips(t *testing.T) {
	want := SpaceMoveRequest{Src: 1, Dst: 2, Prev: 3, Focus: true}
	got, ok := DecodeSpaceMove(EncodeSpaceMove(want))
	if !ok || got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestClientHandshakeDecodesCapabilities(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()

	go func() {
		f, err := ReadFrame(serverConn)
		if err != nil || f.Opcode != OpHandshake {
			return
		}
		resp := EncodeHandshakeResponse(HandshakeResponse{Version: "1", Capabilities: CapSpaceCreate | CapSpaceDestroy})
		_ = WriteFrame(serverConn, Frame{Opcode: OpHandshake, Payload: resp})
	}()

	c := NewClient(clientConn)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	resp, err := c.Handshake(ctx)
	if err != nil {
		t.Fatalf("Handshake: %v", err)
	}
	if resp.Version != "1" || !resp.Capabilities.Has(CapSpaceCreate) || !resp.Capabilities.Has(CapSpaceDestroy) {
		t.Errorf("got %+v", resp)
	}
}
