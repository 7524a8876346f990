package audio

import (
	"fmt"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// Output is the device sounds are mixed into.
type Output interface {
	Init(sampleRate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Close()
}

// speakerOutput plays through the system speaker.
type speakerOutput struct{}

func (speakerOutput) Init(sampleRate beep.SampleRate, bufferSize int) error {
	if err := speaker.Init(sampleRate, bufferSize); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}
	return nil
}

func (speakerOutput) Play(s beep.Streamer) {
	speaker.Play(s)
}

func (speakerOutput) Close() {
	speaker.Close()
}

// bufferSizeFor returns a buffer size giving roughly 100ms of latency.
func bufferSizeFor(sampleRate beep.SampleRate) int {
	return sampleRate.N(100 * time.Millisecond)
}
