// Package main provides the CLI entrypoint for soundport.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/soundport/internal/audio"
	"github.com/jmylchreest/soundport/internal/bootstrap"
	"github.com/jmylchreest/soundport/internal/config"
	"github.com/jmylchreest/soundport/internal/mount"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
		logFile    string
	}
	logger    *slog.Logger
	logCloser io.Closer
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "soundport",
	Short: "Terminal sound pad",
	Long: `soundport mounts an interactive sound pad in the terminal.

Every pad you play is logged and triggers playback of the configured
sample. Plays overlap freely; nothing is queued or deduplicated.

Key bindings:
  j/k, ↑/↓       Select pad
  enter, space   Play
  ?              Toggle help
  q              Quit`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return setupLogger()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
	RunE: runPads,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/soundport/config.toml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.logFile, "log-file", "",
		`Log destination, "-" for stderr (default: ~/.local/state/soundport/soundport.log)`)
}

// setupLogger configures the global slog logger. The pad owns the terminal,
// so logs go to a file unless stderr is requested.
func setupLogger() error {
	dest := cfg.Log.File
	if globalOpts.logFile != "" {
		dest = globalOpts.logFile
	}

	var w io.Writer = os.Stderr
	if dest != "-" {
		if dest == "" {
			if err := config.EnsureStateDir(); err != nil {
				return fmt.Errorf("failed to create state directory: %w", err)
			}
			dest = config.LogPath()
		}
		f, err := os.OpenFile(dest, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		logCloser = f
	}

	l, err := newLogger(w, cfg, globalOpts.verbose)
	if err != nil {
		return err
	}

	logger = l
	slog.SetDefault(logger)
	return nil
}

// newLogger builds a text logger at the configured level.
func newLogger(w io.Writer, c *config.Config, verbose bool) (*slog.Logger, error) {
	level, err := config.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// newLibrary creates the audio library with the configured volume.
func newLibrary(c *config.Config) *audio.Library {
	lib := audio.New(audio.WithLogger(logger))
	lib.SetVolume(c.VolumeFraction())
	return lib
}

func runPads(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lib := newLibrary(cfg)
	defer lib.Close()

	b, err := bootstrap.Start(ctx, bootstrap.Options{
		Document:  mount.Terminal(),
		Selector:  cfg.Mount.Selector,
		Library:   lib,
		Logger:    logger,
		SoundSrc:  cfg.Audio.Src,
		Title:     cfg.App.Title,
		Pads:      cfg.App.Pads,
		AltScreen: cfg.Mount.AltScreen,
	})
	if err != nil {
		return err
	}

	watcher, err := config.NewWatcher(globalOpts.configPath, func(c *config.Config) {
		lib.SetVolume(c.VolumeFraction())
		b.SetSoundSrc(c.Audio.Src)
		logger.Info("config reloaded", "volume", c.Audio.Volume, "sound_src", c.Audio.Src)
	}, logger)
	if err != nil {
		logger.Warn("failed to create config watcher", "error", err)
	} else {
		if err := watcher.Start(); err != nil {
			logger.Warn("failed to start config watcher", "error", err)
		}
		// Stop also releases the watcher when Start failed.
		defer func() { _ = watcher.Stop() }()
	}

	return b.Wait()
}
