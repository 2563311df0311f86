package game

// Sound identifies one audio clip.
type Sound int

const (
	SoundNum1        Sound = 1
	SoundNum2        Sound = 2
	SoundNum3        Sound = 3
	SoundNum4        Sound = 4
	SoundNum10       Sound = 5
	SoundNum15       Sound = 6
	SoundNum20       Sound = 7
	SoundGetReady    Sound = 8
	SoundCountdownGo Sound = 9
	SoundPlayer      Sound = 10
	SoundJoined      Sound = 11
	SoundFastest     Sound = 14
	SoundPressToJoin Sound = 15
	SoundReaction    Sound = 17
	SoundShakeIt     Sound = 19
	SoundGameOver    Sound = 22
	SoundWins        Sound = 23
	SoundBeep        Sound = 24
	SoundError       Sound = 25
	SoundTick        Sound = 26
	SoundVictory     Sound = 27
)

var soundFiles = [...]string{
	"",
	"1.mp3",
	"2.mp3",
	"3.mp3",
	"4.mp3",
	"10.mp3",
	"15.mp3",
	"20.mp3",
	"ready.mp3",
	"321go.mp3",
	"player.mp3",
	"joined.mp3",
	"disc.mp3",
	"slowest.mp3",
	"fastest.mp3",
	"join.mp3",
	"rule.mp3",
	"reaction.mp3",
	"react_i.mp3",
	"shake.mp3",
	"willshk.mp3",
	"times.mp3",
	"over.mp3",
	"wins.mp3",
	"beep.mp3",
	"error.mp3",
	"tick.mp3",
	"victory.mp3",
	"click.mp3",
}

// File returns the asset file name, or "" for an unknown id.
func (s Sound) File() string {
	if s <= 0 || int(s) >= len(soundFiles) {
		return ""
	}
	return soundFiles[s]
}

// NumberSound returns the clip for a spoken small number (1-4, 10, 15, 20).
func NumberSound(n int) (Sound, bool) {
	switch n {
	case 1:
		return SoundNum1, true
	case 2:
		return SoundNum2, true
	case 3:
		return SoundNum3, true
	case 4:
		return SoundNum4, true
	case 10:
		return SoundNum10, true
	case 15:
		return SoundNum15, true
	case 20:
		return SoundNum20, true
	}
	return 0, false
}
