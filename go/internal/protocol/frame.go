package protocol

import (
	"encoding/binary"
	"fmt"
)

// Frame is the decoded, in-memory form of one 7-byte radio frame.
// It never relies on the Go memory layout; Bytes and Decode do all packing.
type Frame struct {
	Dest    Role
	Src     Role
	Command Command
	Hi      byte
	Lo      byte
}

// Encode builds a frame carrying a big-endian 16-bit payload.
func Encode(dest, src Role, cmd Command, payload uint16) Frame {
	f := Frame{Dest: dest, Src: src, Command: cmd}
	f.SetPayload(payload)
	return f
}

// Payload returns the hi/lo bytes as one big-endian value.
func (f Frame) Payload() uint16 {
	return uint16(f.Hi)<<8 | uint16(f.Lo)
}

// SetPayload splits v into the hi/lo bytes.
func (f *Frame) SetPayload(v uint16) {
	f.Hi = byte(v >> 8)
	f.Lo = byte(v)
}

// Bytes serializes the frame and appends its checksum.
func (f Frame) Bytes() []byte {
	data := make([]byte, FrameSize)
	data[0] = Marker
	data[1] = byte(f.Dest)
	data[2] = byte(f.Src)
	data[3] = byte(f.Command)
	binary.BigEndian.PutUint16(data[4:6], f.Payload())
	data[6] = CRC8(data[:6])
	return data
}

// Decode validates and unpacks a raw frame. Every failure wraps ErrInvalidFrame.
func Decode(data []byte) (Frame, error) {
	if len(data) != FrameSize {
		return Frame{}, fmt.Errorf("%w: %w (got %d bytes)", ErrInvalidFrame, ErrFrameLength, len(data))
	}
	if data[0] != Marker {
		return Frame{}, fmt.Errorf("%w: %w (got 0x%02X)", ErrInvalidFrame, ErrFrameMarker, data[0])
	}
	if sum := CRC8(data[:6]); sum != data[6] {
		return Frame{}, fmt.Errorf("%w: %w (want 0x%02X, got 0x%02X)", ErrInvalidFrame, ErrFrameChecksum, sum, data[6])
	}

	return Frame{
		Dest:    Role(data[1]),
		Src:     Role(data[2]),
		Command: Command(data[3]),
		Hi:      data[4],
		Lo:      data[5],
	}, nil
}

// IsGo reports whether the frame is the one-shot go-signal.
func (f Frame) IsGo() bool {
	return f.Command == CmdVibrate && f.Lo == VibrateGo
}

func (f Frame) String() string {
	return fmt.Sprintf("%s %s->%s payload=0x%04X", f.Command, f.Src, f.Dest, f.Payload())
}
