package feedback

import (
	"time"

	"github.com/mcdev12/reactionduel/go/internal/game"
)

// LED ring geometry: five rings of twelve pixels. Rings 0, 1, 3 and 4 belong
// to players; ring 2 sits in the centre.
const (
	PixelCount    = 60
	PixelsPerRing = 12
	RingCount     = PixelCount / PixelsPerRing
	CenterRing    = 2

	rainbowStep = 50 * time.Millisecond
	blinkStep   = 250 * time.Millisecond
)

// Color is a packed 0xRRGGBB value.
type Color uint32

const (
	ColorOff    Color = 0x000000
	ColorRed    Color = 0xFF0000
	ColorGreen  Color = 0x00FF00
	ColorYellow Color = 0xFFFF00
)

func RGB(r, g, b uint8) Color {
	return Color(r)<<16 | Color(g)<<8 | Color(b)
}

// Wheel maps 0..255 onto a red-blue-green colour wheel.
func Wheel(pos uint8) Color {
	pos = 255 - pos
	switch {
	case pos < 85:
		return RGB(255-pos*3, 0, pos*3)
	case pos < 170:
		pos -= 85
		return RGB(0, pos*3, 255-pos*3)
	default:
		pos -= 170
		return RGB(pos*3, 255-pos*3, 0)
	}
}

// PlayerRing returns the ring index of a player slot.
func PlayerRing(player int) int {
	if player < 2 {
		return player
	}
	return player + 1
}

// Strip receives a full frame of pixels.
type Strip interface {
	Show(pixels []Color)
}

// Ring animates the LED rings. SetMode and Tick are called from the tick loop.
type Ring struct {
	strip Strip

	mode   game.AmbientMode
	lights [game.MaxPlayers]game.Light
	pixels [PixelCount]Color

	offset   uint8
	blink    bool
	lastStep time.Time
	dirty    bool
}

func NewRing(strip Strip) *Ring {
	return &Ring{strip: strip, dirty: true}
}

func (r *Ring) SetMode(mode game.AmbientMode, lights [game.MaxPlayers]game.Light) {
	r.mode = mode
	r.lights = lights
	r.lastStep = time.Time{}
	r.blink = false
	r.dirty = true
}

func (r *Ring) Mode() game.AmbientMode { return r.mode }

// Pixels returns a copy of the last rendered frame.
func (r *Ring) Pixels() []Color {
	out := make([]Color, PixelCount)
	copy(out, r.pixels[:])
	return out
}

// Tick renders the next animation frame when one is due.
func (r *Ring) Tick(now time.Time) {
	switch r.mode {
	case game.AmbientOff:
		r.fill(ColorOff)

	case game.AmbientRainbow:
		if !r.due(now, rainbowStep) {
			break
		}
		for i := range r.pixels {
			r.pixels[i] = Wheel(uint8(i*256/PixelCount) + r.offset)
		}
		r.offset++
		r.dirty = true

	case game.AmbientStatus:
		for p, l := range r.lights {
			r.setRing(PlayerRing(p), lightColor(l))
		}
		if r.due(now, rainbowStep) {
			r.setRing(CenterRing, Wheel(r.offset))
			r.offset++
		}

	case game.AmbientCountdown:
		if !r.due(now, blinkStep) {
			break
		}
		r.blink = !r.blink
		if r.blink {
			r.fill(ColorRed)
		} else {
			r.fill(ColorOff)
		}

	case game.AmbientGo:
		r.fill(ColorGreen)
	}

	if r.dirty && r.strip != nil {
		r.strip.Show(r.pixels[:])
	}
	r.dirty = false
}

func (r *Ring) due(now time.Time, step time.Duration) bool {
	if !r.lastStep.IsZero() && now.Sub(r.lastStep) < step {
		return false
	}
	r.lastStep = now
	return true
}

func (r *Ring) fill(c Color) {
	for i := range r.pixels {
		r.set(i, c)
	}
}

func (r *Ring) setRing(ring int, c Color) {
	start := ring * PixelsPerRing
	for i := start; i < start+PixelsPerRing; i++ {
		r.set(i, c)
	}
}

func (r *Ring) set(i int, c Color) {
	if r.pixels[i] != c {
		r.pixels[i] = c
		r.dirty = true
	}
}

func lightColor(l game.Light) Color {
	switch l {
	case game.LightGreen:
		return ColorGreen
	case game.LightRed:
		return ColorRed
	case game.LightYellow:
		return ColorYellow
	}
	return ColorOff
}
