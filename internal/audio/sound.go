package audio

import (
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
)

// Sound is a decoded sound ready for playback.
type Sound struct {
	lib    *Library
	src    string
	buffer *beep.Buffer
	volume float64
	onEnd  func(id int)
}

// Play starts a playback of the sound and returns its id. Plays of the same
// or different sounds overlap.
func (s *Sound) Play() int {
	return s.lib.play(s)
}

// Src returns the source the sound was loaded from.
func (s *Sound) Src() string {
	return s.src
}

// Duration returns the length of the sound.
func (s *Sound) Duration() time.Duration {
	return s.buffer.Format().SampleRate.D(s.buffer.Len())
}

func volumeEffect(streamer beep.Streamer, volume float64) beep.Streamer {
	return &effects.Volume{
		Streamer: streamer,
		Base:     2,
		Volume:   gainExponent(volume),
		Silent:   volume == 0,
	}
}
