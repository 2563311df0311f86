package link

import (
	"os"
	"testing"
	"time"
)

// Runs against a live server only when NATS_TEST_URL is set.
func TestNATSRadio(t *testing.T) {
	url := os.Getenv("NATS_TEST_URL")
	if url == "" {
		t.Skip("NATS_TEST_URL not set")
	}

	cfg := DefaultNATSConfig()
	cfg.URL = url
	cfg.Channel = 42

	a, err := DialNATS(cfg)
	if err != nil {
		t.Fatalf("DialNATS() error = %v", err)
	}
	defer a.Close()
	b, err := DialNATS(cfg)
	if err != nil {
		t.Fatalf("DialNATS() error = %v", err)
	}
	defer b.Close()

	gotA := make(chan []byte, 1)
	gotB := make(chan []byte, 1)
	a.Listen(func(d []byte) { gotA <- d })
	b.Listen(func(d []byte) { gotB <- d })
	a.Conn().Flush()
	b.Conn().Flush()

	if err := a.Tx([]byte{0x0A}); err != nil {
		t.Fatalf("Tx() error = %v", err)
	}

	select {
	case d := <-gotB:
		if len(d) != 1 || d[0] != 0x0A {
			t.Errorf("received %v", d)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("frame not delivered")
	}
	select {
	case <-gotA:
		t.Error("sender heard its own frame")
	case <-time.After(100 * time.Millisecond):
	}
}
