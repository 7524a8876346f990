package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

var (
	// ErrNoSource is returned when a sound is created without any source.
	ErrNoSource = errors.New("no sound source")

	// ErrUnsupportedFormat is returned for files that are not WAV, OGG, or MP3.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// Library owns the output device and the global volume.
type Library struct {
	mu     sync.Mutex
	logger *slog.Logger
	output Output

	// Volume control (0.0 to 1.0)
	volume float64

	// Whether the output has been initialized
	initialized bool

	// Sample rate the output was initialized with
	sampleRate beep.SampleRate

	playID int
}

// Option configures a Library.
type Option func(*Library)

// WithOutput replaces the system speaker.
func WithOutput(o Output) Option {
	return func(l *Library) {
		l.output = o
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Library) {
		l.logger = logger
	}
}

// New creates an audio library playing through the system speaker.
func New(opts ...Option) *Library {
	l := &Library{
		volume:     1.0,
		sampleRate: beep.SampleRate(44100),
		output:     speakerOutput{},
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// SetVolume sets the global volume (0.0 to 1.0).
func (l *Library) SetVolume(volume float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.volume = clampVolume(volume)
	l.logger.Debug("volume set", "volume", l.volume)
}

// Volume returns the global volume.
func (l *Library) Volume() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.volume
}

// SoundOptions describes a sound to load.
type SoundOptions struct {
	// Src lists candidate files. The first one that decodes is used.
	Src []string

	// Volume scales the global volume for this sound. Nil means 1.0.
	Volume *float64

	// OnEnd is called with the play id when a playback finishes. It runs on
	// the output's mixing goroutine and must not block.
	OnEnd func(id int)
}

// NewSound loads and decodes a sound. Nothing is cached: every call reads
// the file again.
func (l *Library) NewSound(opts SoundOptions) (*Sound, error) {
	if len(opts.Src) == 0 {
		return nil, ErrNoSource
	}

	var errs []error
	for _, src := range opts.Src {
		buffer, err := l.load(src)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		volume := 1.0
		if opts.Volume != nil {
			volume = clampVolume(*opts.Volume)
		}

		return &Sound{
			lib:    l,
			src:    src,
			buffer: buffer,
			volume: volume,
			onEnd:  opts.OnEnd,
		}, nil
	}

	return nil, fmt.Errorf("no playable source in %v: %w", opts.Src, errors.Join(errs...))
}

// load reads and decodes a sound file into a buffer.
func (l *Library) load(path string) (*beep.Buffer, error) {
	path = expandPath(path)
	ext := strings.ToLower(filepath.Ext(path))

	var decode func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)
	switch ext {
	case ".wav":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) }
	case ".ogg":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return vorbis.Decode(f) }
	case ".mp3":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) }
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sound file: %w", err)
	}
	defer func() { _ = f.Close() }()

	streamer, format, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode sound %q: %w", path, err)
	}
	defer func() { _ = streamer.Close() }()

	if err := l.ensureInitialized(format.SampleRate); err != nil {
		return nil, err
	}

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)

	l.logger.Debug("loaded sound", "path", path, "samples", buffer.Len())
	return buffer, nil
}

// ensureInitialized initializes the output on first use.
func (l *Library) ensureInitialized(sampleRate beep.SampleRate) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.initialized {
		return nil
	}

	if err := l.output.Init(sampleRate, bufferSizeFor(sampleRate)); err != nil {
		return err
	}

	l.sampleRate = sampleRate
	l.initialized = true
	l.logger.Debug("output initialized", "sample_rate", sampleRate)
	return nil
}

// Close stops all playback and releases the output.
func (l *Library) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.initialized {
		l.output.Close()
		l.initialized = false
	}
	l.logger.Debug("audio library closed")
}

// play schedules buffer on the output and returns the play id.
func (l *Library) play(s *Sound) int {
	l.mu.Lock()
	l.playID++
	id := l.playID
	volume := l.volume * s.volume
	sampleRate := l.sampleRate
	l.mu.Unlock()

	var streamer beep.Streamer = s.buffer.Streamer(0, s.buffer.Len())

	if s.buffer.Format().SampleRate != sampleRate {
		streamer = beep.Resample(4, s.buffer.Format().SampleRate, sampleRate, streamer)
	}

	if volume < 1.0 {
		streamer = volumeEffect(streamer, volume)
	}

	streamer = beep.Seq(streamer, beep.Callback(func() {
		l.logger.Debug("sound finished", "id", id, "src", s.src)
		if s.onEnd != nil {
			s.onEnd(id)
		}
	}))

	l.output.Play(streamer)
	l.logger.Debug("sound playing", "id", id, "src", s.src, "volume", volume)
	return id
}

func clampVolume(volume float64) float64 {
	if volume < 0 {
		return 0
	}
	if volume > 1 {
		return 1
	}
	return volume
}

// expandPath expands ~ to home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// gainExponent converts a linear volume (0-1) to a base-2 exponent.
func gainExponent(volume float64) float64 {
	if volume <= 0 {
		return -100 // Effectively silent
	}
	return math.Log2(volume)
}
