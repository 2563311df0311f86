package link

import (
	"bytes"
	"errors"
	"sync"
	"testing"
)

type inbox struct {
	mu     sync.Mutex
	frames [][]byte
}

func (b *inbox) receive(data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frames = append(b.frames, data)
}

func (b *inbox) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.frames)
}

func TestAirBroadcastsToOthers(t *testing.T) {
	air, err := NewAir(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	host, peer1, peer2 := air.Radio("host"), air.Radio("peer1"), air.Radio("peer2")

	var hostIn, in1, in2 inbox
	for r, b := range map[*SimRadio]*inbox{host: &hostIn, peer1: &in1, peer2: &in2} {
		if err := r.Listen(b.receive); err != nil {
			t.Fatal(err)
		}
	}

	frame := []byte{0x0A, 0xFF, 0x00, 0x24, 0x00, 0x00, 0x00}
	if err := host.Tx(frame); err != nil {
		t.Fatalf("Tx() error = %v", err)
	}
	frame[3] = 0x99

	if hostIn.count() != 0 {
		t.Error("sender heard its own transmission")
	}
	for name, b := range map[string]*inbox{"peer1": &in1, "peer2": &in2} {
		if b.count() != 1 {
			t.Fatalf("%s received %d frames, want 1", name, b.count())
		}
		if b.frames[0][3] != 0x24 {
			t.Errorf("%s frame aliased the sender buffer", name)
		}
	}
	if log := host.TxLog(); len(log) != 1 || !bytes.Equal(log[0][:3], frame[:3]) {
		t.Errorf("TxLog() = %v", log)
	}
}

func TestAirDrops(t *testing.T) {
	tests := []struct {
		name     string
		dropPct  int
		min, max int
	}{
		{"lossless", 0, 1000, 1000},
		{"dead channel", 100, 0, 0},
		{"lossy", 30, 550, 850},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			air, err := NewAir(tt.dropPct, 1337)
			if err != nil {
				t.Fatal(err)
			}
			tx, rx := air.Radio("tx"), air.Radio("rx")
			var in inbox
			rx.Listen(in.receive)

			for i := 0; i < 1000; i++ {
				tx.Tx([]byte{byte(i)})
			}
			if got := in.count(); got < tt.min || got > tt.max {
				t.Errorf("delivered %d, want between %d and %d", got, tt.min, tt.max)
			}
		})
	}
}

func TestAirFilter(t *testing.T) {
	air, _ := NewAir(0, 1)
	tx, a, b := air.Radio("tx"), air.Radio("a"), air.Radio("b")
	var inA, inB inbox
	a.Listen(inA.receive)
	b.Listen(inB.receive)

	air.SetFilter(func(from, to *SimRadio, data []byte) bool {
		return to.Name() != "b"
	})
	tx.Tx([]byte{1})

	if inA.count() != 1 || inB.count() != 0 {
		t.Errorf("a=%d b=%d, want 1 and 0", inA.count(), inB.count())
	}
}

func TestSimRadioClose(t *testing.T) {
	air, _ := NewAir(0, 1)
	tx, rx := air.Radio("tx"), air.Radio("rx")
	var in inbox
	rx.Listen(in.receive)
	rx.Close()

	tx.Tx([]byte{1})
	if in.count() != 0 {
		t.Error("closed radio still receives")
	}
	if err := rx.Tx([]byte{1}); !errors.Is(err, ErrClosed) {
		t.Errorf("Tx() after Close error = %v, want ErrClosed", err)
	}
}

func TestNewAirRejectsBadDrop(t *testing.T) {
	if _, err := NewAir(101, 1); err == nil {
		t.Error("NewAir(101) should fail")
	}
}

func TestSubject(t *testing.T) {
	if got := Subject(6); got != "duel.air.ch6" {
		t.Errorf("Subject(6) = %q", got)
	}
}
