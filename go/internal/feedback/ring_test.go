package feedback

import (
	"testing"
	"time"

	"github.com/mcdev12/reactionduel/go/internal/game"
)

type countingStrip struct {
	frames int
	last   []Color
}

func (s *countingStrip) Show(pixels []Color) {
	s.frames++
	s.last = append([]Color(nil), pixels...)
}

func TestWheel(t *testing.T) {
	tests := []struct {
		pos  uint8
		want Color
	}{
		{0, RGB(255, 0, 0)},
		{85, RGB(0, 255, 0)},
		{170, RGB(0, 0, 255)},
	}
	for _, tt := range tests {
		if got := Wheel(tt.pos); got != tt.want {
			t.Errorf("Wheel(%d) = %06X, want %06X", tt.pos, got, tt.want)
		}
	}
}

func TestPlayerRing(t *testing.T) {
	want := []int{0, 1, 3, 4}
	for p, ring := range want {
		if got := PlayerRing(p); got != ring {
			t.Errorf("PlayerRing(%d) = %d, want %d", p, got, ring)
		}
	}
}

func TestRingStatus(t *testing.T) {
	strip := &countingStrip{}
	r := NewRing(strip)
	r.SetMode(game.AmbientStatus, [game.MaxPlayers]game.Light{game.LightGreen, game.LightRed, game.LightOff, game.LightYellow})
	r.Tick(t0)

	px := r.Pixels()
	checks := map[int]Color{
		0:                    ColorGreen,
		PixelsPerRing:        ColorRed,
		3 * PixelsPerRing:    ColorOff,
		4*PixelsPerRing + 11: ColorYellow,
	}
	for i, want := range checks {
		if px[i] != want {
			t.Errorf("pixel %d = %06X, want %06X", i, px[i], want)
		}
	}
	if px[CenterRing*PixelsPerRing] == ColorOff {
		t.Error("centre ring should carry the rainbow")
	}
	if strip.frames != 1 {
		t.Errorf("strip frames = %d, want 1", strip.frames)
	}
}

func TestRingCountdownBlink(t *testing.T) {
	strip := &countingStrip{}
	r := NewRing(strip)
	r.SetMode(game.AmbientCountdown, [game.MaxPlayers]game.Light{})

	r.Tick(t0)
	if r.Pixels()[0] != ColorRed {
		t.Fatalf("first blink pixel = %06X, want red", r.Pixels()[0])
	}
	r.Tick(t0.Add(100 * time.Millisecond))
	if r.Pixels()[0] != ColorRed {
		t.Errorf("blink toggled early")
	}
	r.Tick(t0.Add(250 * time.Millisecond))
	if r.Pixels()[0] != ColorOff {
		t.Errorf("blink did not toggle after 250ms")
	}
	if strip.frames != 2 {
		t.Errorf("strip frames = %d, want 2", strip.frames)
	}
}

func TestRingGoAndOff(t *testing.T) {
	r := NewRing(nil)
	r.SetMode(game.AmbientGo, [game.MaxPlayers]game.Light{})
	r.Tick(t0)
	for i, c := range r.Pixels() {
		if c != ColorGreen {
			t.Fatalf("pixel %d = %06X, want green", i, c)
		}
	}
	r.SetMode(game.AmbientOff, [game.MaxPlayers]game.Light{})
	r.Tick(t0)
	if r.Pixels()[30] != ColorOff {
		t.Error("off mode left pixels lit")
	}
}

func TestRingRainbowSteps(t *testing.T) {
	r := NewRing(nil)
	r.SetMode(game.AmbientRainbow, [game.MaxPlayers]game.Light{})
	r.Tick(t0)
	first := r.Pixels()[0]
	r.Tick(t0.Add(10 * time.Millisecond))
	if r.Pixels()[0] != first {
		t.Error("rainbow advanced before its step")
	}
	r.Tick(t0.Add(50 * time.Millisecond))
	if r.Pixels()[0] == first {
		t.Error("rainbow did not advance")
	}
}
