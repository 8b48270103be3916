package proto

import (
	"encoding/binary"
	"math"
)

// The handshake response is a version string followed by a 4-byte
// little-endian capability bitmask.
type HandshakeResponse struct {
	Version      string
	Capabilities Capability
}

func EncodeHandshakeResponse(r HandshakeResponse) []byte {
	out := append([]byte(r.Version), 0)
	caps := make([]byte, 4)
	binary.LittleEndian.PutUint32(caps, uint32(r.Capabilities))
	return append(out, caps...)
}

func DecodeHandshakeResponse(payload []byte) (HandshakeResponse, bool) {
	nul := -1
	for i, b := range payload {
		if b == 0 {
			nul = i
			break
		}
	}
	if nul < 0 || len(payload) < nul+1+4 {
		return HandshakeResponse{}, false
	}
	caps := binary.LittleEndian.Uint32(payload[nul+1 : nul+5])
	return HandshakeResponse{Version: string(payload[:nul]), Capabilities: Capability(caps)}, true
}

// space_focus and space_destroy carry a single u64 space id, packed by
// EncodeU64/DecodeU64; space_move and each window_* opcode get their own
// encode/decode pair, so callers never hand-index a byte slice.

func EncodeU64(sid uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, sid)
	return b
}

func DecodeU64(payload []byte) (uint64, bool) {
	if len(payload) < 8 {
		return 0, false
	}
	return binary.LittleEndian.Uint64(payload), true
}

type SpaceMoveRequest struct {
	Src, Dst, Prev uint64
	Focus          bool
}

func EncodeSpaceMove(r SpaceMoveRequest) []byte {
	b := make([]byte, 25)
	binary.LittleEndian.PutUint64(b[0:8], r.Src)
	binary.LittleEndian.PutUint64(b[8:16], r.Dst)
	binary.LittleEndian.PutUint64(b[16:24], r.Prev)
	if r.Focus {
		b[24] = 1
	}
	return b
}

func DecodeSpaceMove(payload []byte) (SpaceMoveRequest, bool) {
	if len(payload) < 25 {
		return SpaceMoveRequest{}, false
	}
	return SpaceMoveRequest{
		Src:   binary.LittleEndian.Uint64(payload[0:8]),
		Dst:   binary.LittleEndian.Uint64(payload[8:16]),
		Prev:  binary.LittleEndian.Uint64(payload[16:24]),
		Focus: payload[24] != 0,
	}, true
}

type WindowMoveRequest struct {
	WindowID uint32
	X, Y     int32
}

func EncodeWindowMove(r WindowMoveRequest) []byte {
	b := make([]byte, 12)
	binary.LittleEndian.PutUint32(b[0:4], r.WindowID)
	binary.LittleEndian.PutUint32(b[4:8], uint32(r.X))
	binary.LittleEndian.PutUint32(b[8:12], uint32(r.Y))
	return b
}

func DecodeWindowMove(payload []byte) (WindowMoveRequest, bool) {
	if len(payload) < 12 {
		return WindowMoveRequest{}, false
	}
	return WindowMoveRequest{
		WindowID: binary.LittleEndian.Uint32(payload[0:4]),
		X:        int32(binary.LittleEndian.Uint32(payload[4:8])),
		Y:        int32(binary.LittleEndian.Uint32(payload[8:12])),
	}, true
}

type WindowOpacityRequest struct {
	WindowID uint32
	Alpha    float32
}

func EncodeWindowOpacity(r WindowOpacityRequest) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint32(b[0:4], r.WindowID)
	binary.LittleEndian.PutUint32(b[4:8], math.Float32bits(r.Alpha))
	return b
}

func DecodeWindowOpacity(payload []byte) (WindowOpacityRequest, bool) {
	if len(payload) < 8 {
		return WindowOpacityRequest{}, false
	}
	return WindowOpacityRequest{
		WindowID: binary.LittleEndian.Uint32(payload[0:4]),
		Alpha:    math.Float32frombits(binary.LittleEndian.Uint32(payload[4:8])),
	}, true
}

type WindowLayerRequest struct {
	WindowID uint32
	Level    int32
}

func EncodeWindowLayer(r WindowLayerRequest) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint32(b[0:4], r.WindowID)
	binary.LittleEndian.PutUint32(b[4:8], uint32(r.Level))
	return b
}

func DecodeWindowLayer(payload []byte) (WindowLayerRequest, bool) {
	if len(payload) < 8 {
		return WindowLayerRequest{}, false
	}
	return WindowLayerRequest{
		WindowID: binary.LittleEndian.Uint32(payload[0:4]),
		Level:    int32(binary.LittleEndian.Uint32(payload[4:8])),
	}, true
}

type WindowBoolFlagRequest struct {
	WindowID uint32
	On       bool
}

func EncodeWindowBoolFlag(r WindowBoolFlagRequest) []byte {
	b := make([]byte, 5)
	binary.LittleEndian.PutUint32(b[0:4], r.WindowID)
	if r.On {
		b[4] = 1
	}
	return b
}

func DecodeWindowBoolFlag(payload []byte) (WindowBoolFlagRequest, bool) {
	if len(payload) < 5 {
		return WindowBoolFlagRequest{}, false
	}
	return WindowBoolFlagRequest{
		WindowID: binary.LittleEndian.Uint32(payload[0:4]),
		On:       payload[4] != 0,
	}, true
}

type WindowOrderRequest struct {
	A, B     uint32
	Relation int32
}

func EncodeWindowOrder(r WindowOrderRequest) []byte {
	b := make([]byte, 12)
	binary.LittleEndian.PutUint32(b[0:4], r.A)
	binary.LittleEndian.PutUint32(b[4:8], uint32(r.Relation))
	binary.LittleEndian.PutUint32(b[8:12], r.B)
	return b
}

func DecodeWindowOrder(payload []byte) (WindowOrderRequest, bool) {
	if len(payload) < 12 {
		return WindowOrderRequest{}, false
	}
	return WindowOrderRequest{
		A:        binary.LittleEndian.Uint32(payload[0:4]),
		Relation: int32(binary.LittleEndian.Uint32(payload[4:8])),
		B:        binary.LittleEndian.Uint32(payload[8:12]),
	}, true
}

type WindowToSpaceRequest struct {
	SpaceID  uint64
	WindowID uint32
}

func EncodeWindowToSpace(r WindowToSpaceRequest) []byte {
	b := make([]byte, 12)
	binary.LittleEndian.PutUint64(b[0:8], r.SpaceID)
	binary.LittleEndian.PutUint32(b[8:12], r.WindowID)
	return b
}

func DecodeWindowToSpace(payload []byte) (WindowToSpaceRequest, bool) {
	if len(payload) < 12 {
		return WindowToSpaceRequest{}, false
	}
	return WindowToSpaceRequest{
		SpaceID:  binary.LittleEndian.Uint64(payload[0:8]),
		WindowID: binary.LittleEndian.Uint32(payload[8:12]),
	}, true
}

// EncodeSpaceCreateResponse packs the new space id, or a failure
// (0, diag in the top nibble) per spec.md §4.6.4.
func EncodeSpaceCreateResponse(newSpaceID uint64, diag SpaceCreateDiagnostic) []byte {
	if newSpaceID == 0 && diag != 0 {
		newSpaceID = uint64(diag) << 60
	}
	return EncodeU64(newSpaceID)
}

// DecodeSpaceCreateResponse splits the diagnostic nibble back out when
// the low bits are zero (failure case).
func DecodeSpaceCreateResponse(payload []byte) (spaceID uint64, diag SpaceCreateDiagnostic, ok bool) {
	v, ok := DecodeU64(payload)
	if !ok {
		return 0, 0, false
	}
	if v>>60 != 0 && v&((1<<60)-1) == 0 {
		return 0, SpaceCreateDiagnostic(v >> 60), true
	}
	return v, 0, true
}
