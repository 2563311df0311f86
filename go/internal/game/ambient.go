package game

// AmbientMode selects the LED ring animation.
type AmbientMode int

const (
	AmbientOff AmbientMode = iota
	AmbientRainbow
	AmbientStatus
	AmbientCountdown
	AmbientGo
)

func (m AmbientMode) String() string {
	switch m {
	case AmbientOff:
		return "off"
	case AmbientRainbow:
		return "rainbow"
	case AmbientStatus:
		return "status"
	case AmbientCountdown:
		return "countdown"
	case AmbientGo:
		return "go"
	}
	return "unknown"
}

// Light is the colour of one player's ring in status mode.
type Light int

const (
	LightOff Light = iota
	LightGreen
	LightRed
	LightYellow
)
