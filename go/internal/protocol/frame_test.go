package protocol

import (
	"bytes"
	"errors"
	"testing"
)

func TestCRC8(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want byte
	}{
		{"empty", nil, 0x00},
		{"check string", []byte("123456789"), 0xA1},
		{"countdown 3 broadcast", []byte{0x0A, 0xFF, 0x00, 0x25, 0x00, 0x03}, 0x45},
		{"go signal", []byte{0x0A, 0xFF, 0x00, 0x23, 0x00, 0xFF}, 0x43},
		{"reaction 180ms", []byte{0x0A, 0x00, 0x01, 0x26, 0x00, 0xB4}, 0x56},
		{"penalty", []byte{0x0A, 0x00, 0x02, 0x26, 0xFF, 0xFF}, 0x39},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CRC8(tt.data); got != tt.want {
				t.Errorf("CRC8() = 0x%02X, want 0x%02X", got, tt.want)
			}
		})
	}
}

func TestEncodeLayout(t *testing.T) {
	got := Encode(RoleBroadcast, RoleHost, CmdCountdown, 3).Bytes()
	want := []byte{0x0A, 0xFF, 0x00, 0x25, 0x00, 0x03, 0x45}
	if !bytes.Equal(got, want) {
		t.Fatalf("Bytes() = % X, want % X", got, want)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	roles := []Role{RoleHost, RolePeer1, RolePeer2, RolePeer3, RolePeer4, RoleBroadcast}
	commands := []Command{CmdAck, CmdJoin, CmdGameStart, CmdVibrate, CmdIdle, CmdCountdown, CmdReaction, CmdShake, 0x7E}
	payloads := []uint16{0, 1, 0x00FF, 0x0100, 180, 0xFFFE, PenaltyTime}

	for _, dest := range roles {
		for _, src := range roles {
			for _, cmd := range commands {
				for _, p := range payloads {
					in := Encode(dest, src, cmd, p)
					out, err := Decode(in.Bytes())
					if err != nil {
						t.Fatalf("Decode(%v) error = %v", in, err)
					}
					if out != in {
						t.Fatalf("Decode() = %+v, want %+v", out, in)
					}
					if out.Payload() != p {
						t.Fatalf("Payload() = %d, want %d", out.Payload(), p)
					}
				}
			}
		}
	}
}

func TestDecodeRejects(t *testing.T) {
	valid := Encode(RoleHost, RolePeer1, CmdReaction, 250).Bytes()

	badMarker := append([]byte(nil), valid...)
	badMarker[0] = 0x0B
	badMarker[6] = CRC8(badMarker[:6])

	badCRC := append([]byte(nil), valid...)
	badCRC[6] ^= 0xFF

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"nil", nil, ErrFrameLength},
		{"short", valid[:6], ErrFrameLength},
		{"long", append(append([]byte(nil), valid...), 0x00), ErrFrameLength},
		{"marker", badMarker, ErrFrameMarker},
		{"checksum", badCRC, ErrFrameChecksum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if !errors.Is(err, ErrInvalidFrame) {
				t.Fatalf("Decode() error = %v, want ErrInvalidFrame", err)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeSingleBitCorruption(t *testing.T) {
	frames := []Frame{
		Encode(RoleBroadcast, RoleHost, CmdVibrate, VibrateGo),
		Encode(RoleHost, RolePeer3, CmdReaction, 4321),
		Encode(RolePeer2, RoleHost, CmdAck, 0),
		Encode(RoleHost, RolePeer4, CmdShake, PenaltyTime),
	}

	for _, f := range frames {
		valid := f.Bytes()
		for i := 0; i < 6; i++ {
			for bit := 0; bit < 8; bit++ {
				data := append([]byte(nil), valid...)
				data[i] ^= 1 << bit
				if _, err := Decode(data); !errors.Is(err, ErrInvalidFrame) {
					t.Errorf("%v: flipping byte %d bit %d decoded without error", f, i, bit)
				}
			}
		}
	}
}

func TestSetPayload(t *testing.T) {
	var f Frame
	f.SetPayload(0xABCD)
	if f.Hi != 0xAB || f.Lo != 0xCD {
		t.Errorf("SetPayload() hi=0x%02X lo=0x%02X, want 0xAB 0xCD", f.Hi, f.Lo)
	}
	if f.Payload() != 0xABCD {
		t.Errorf("Payload() = 0x%04X, want 0xABCD", f.Payload())
	}
}

func TestIsGo(t *testing.T) {
	if !Encode(RoleBroadcast, RoleHost, CmdVibrate, VibrateGo).IsGo() {
		t.Error("VIBRATE 0x00FF should be the go-signal")
	}
	if Encode(RoleBroadcast, RoleHost, CmdVibrate, 20).IsGo() {
		t.Error("VIBRATE 20 should be a plain vibration")
	}
	if Encode(RoleBroadcast, RoleHost, CmdCountdown, VibrateGo).IsGo() {
		t.Error("COUNTDOWN should never be the go-signal")
	}
}
