package feedback

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/mcdev12/reactionduel/go/internal/game"
)

// DefaultQueueSize matches the firmware's sound queue depth.
const DefaultQueueSize = 8

var ErrAssetMissing = errors.New("sound asset missing")

// Speaker plays one clip and reports how long it lasts. It must not block.
type Speaker interface {
	Play(path string) (time.Duration, error)
}

// AudioQueue plays sounds one after another. Enqueue never blocks: when the
// queue is full the sound is dropped and logged.
type AudioQueue struct {
	dir     string
	size    int
	speaker Speaker
	logger  zerolog.Logger

	queue   []game.Sound
	playing bool
	until   time.Time
}

func NewAudioQueue(dir string, size int, speaker Speaker, logger zerolog.Logger) *AudioQueue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &AudioQueue{
		dir:     dir,
		size:    size,
		speaker: speaker,
		logger:  logger.With().Str("sink", "audio").Logger(),
		queue:   make([]game.Sound, 0, size),
	}
}

func (q *AudioQueue) Enqueue(s game.Sound) {
	if len(q.queue) >= q.size {
		q.logger.Warn().Int("sound", int(s)).Msg("audio queue full, dropping sound")
		return
	}
	q.queue = append(q.queue, s)
	q.logger.Debug().Str("file", s.File()).Msg("queued sound")
}

// Pending is the number of queued sounds not yet started.
func (q *AudioQueue) Pending() int { return len(q.queue) }

// Tick starts the next queued sound once the current one has finished.
// Unknown or missing clips are logged and skipped.
func (q *AudioQueue) Tick(now time.Time) {
	if q.playing && now.Before(q.until) {
		return
	}
	q.playing = false

	for len(q.queue) > 0 {
		s := q.queue[0]
		q.queue = q.queue[1:]

		file := s.File()
		if file == "" {
			q.logger.Warn().Int("sound", int(s)).Msg("unknown sound id")
			continue
		}
		length, err := q.speaker.Play(filepath.Join(q.dir, file))
		if err != nil {
			q.logger.Warn().Err(err).Str("file", file).Msg("sound skipped")
			continue
		}
		q.playing = true
		q.until = now.Add(length)
		return
	}
}

// AssetSpeaker checks that a clip exists and logs it instead of decoding it.
// Every clip is assumed to last ClipLength.
type AssetSpeaker struct {
	ClipLength time.Duration
	Logger     zerolog.Logger
}

func (s AssetSpeaker) Play(path string) (time.Duration, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, fmt.Errorf("%w: %s", ErrAssetMissing, path)
	}
	s.Logger.Info().Str("file", filepath.Base(path)).Msg("playing sound")
	return s.ClipLength, nil
}

// ListAssets logs every file in dir so a missing upload is obvious at start-up.
func ListAssets(dir string, logger zerolog.Logger) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn().Err(err).Str("dir", dir).Msg("cannot read sound assets")
		return
	}
	count := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		count++
		logger.Debug().Str("file", e.Name()).Msg("sound asset")
	}
	if count == 0 {
		logger.Warn().Str("dir", dir).Msg("no sound assets found")
		return
	}
	logger.Info().Int("files", count).Str("dir", dir).Msg("sound assets loaded")
}
