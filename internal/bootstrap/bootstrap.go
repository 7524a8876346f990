// Package bootstrap wires the sound pad application to the audio library.
//
// Start locates the mount node, initializes the application on it and
// subscribes to the EmitSound port. Each notification is logged and plays a
// freshly loaded sound. The payload is only logged: the sound source is
// fixed by configuration, and plays are never queued, deduplicated or
// cancelled.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jmylchreest/soundport/internal/app"
	"github.com/jmylchreest/soundport/internal/audio"
	"github.com/jmylchreest/soundport/internal/mount"
)

// DefaultSoundSrc is the sample played for every notification.
var DefaultSoundSrc = []string{"interface3.wav"}

// ErrNoLibrary is returned when Start is called without an audio library.
var ErrNoLibrary = errors.New("no audio library")

// SoundLoader creates playable sounds. *audio.Library implements it.
type SoundLoader interface {
	NewSound(opts audio.SoundOptions) (*audio.Sound, error)
}

// Options configure Start.
type Options struct {
	Document  *mount.Document
	Selector  string
	Library   SoundLoader
	Logger    *slog.Logger
	SoundSrc  []string
	Title     string
	Pads      []string
	AltScreen bool
}

// Bootstrap is a started application with its sound subscription.
type Bootstrap struct {
	app    *app.App
	lib    SoundLoader
	logger *slog.Logger

	mu       sync.RWMutex
	soundSrc []string

	unsubscribe func()
}

// Start performs the startup wiring. A missing mount node is fatal.
func Start(ctx context.Context, opts Options) (*Bootstrap, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Library == nil {
		return nil, ErrNoLibrary
	}
	selector := opts.Selector
	if selector == "" {
		selector = mount.DefaultSelector
	}
	soundSrc := opts.SoundSrc
	if len(soundSrc) == 0 {
		soundSrc = DefaultSoundSrc
	}

	node, err := opts.Document.QuerySelector(selector)
	if err != nil {
		return nil, fmt.Errorf("failed to locate mount point: %w", err)
	}

	a, err := app.Init(ctx, app.Flags{
		Node:      node,
		Title:     opts.Title,
		Pads:      opts.Pads,
		AltScreen: opts.AltScreen,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}

	b := &Bootstrap{
		app:      a,
		lib:      opts.Library,
		logger:   logger,
		soundSrc: append([]string(nil), soundSrc...),
	}
	b.unsubscribe = a.Ports.EmitSound.Subscribe(b.onEmitSound)

	logger.Debug("application started", "selector", selector, "sound_src", soundSrc)
	return b, nil
}

// onEmitSound handles one EmitSound notification.
func (b *Bootstrap) onEmitSound(soundToPlay string) {
	b.logger.Info("playing sound", "sound", soundToPlay)

	b.mu.RLock()
	src := b.soundSrc
	b.mu.RUnlock()

	sound, err := b.lib.NewSound(audio.SoundOptions{Src: src})
	if err != nil {
		b.logger.Warn("failed to load sound", "src", src, "error", err)
		return
	}
	sound.Play()
}

// SetSoundSrc replaces the sound played for later notifications.
func (b *Bootstrap) SetSoundSrc(src []string) {
	if len(src) == 0 {
		src = DefaultSoundSrc
	}

	b.mu.Lock()
	b.soundSrc = append([]string(nil), src...)
	b.mu.Unlock()

	b.logger.Debug("sound source updated", "sound_src", src)
}

// App returns the running application.
func (b *Bootstrap) App() *app.App {
	return b.app
}

// Wait blocks until the application exits.
func (b *Bootstrap) Wait() error {
	return b.app.Wait()
}

// Stop quits the application and waits for it to exit.
func (b *Bootstrap) Stop() error {
	b.app.Quit()
	err := b.app.Wait()
	b.unsubscribe()
	return err
}
