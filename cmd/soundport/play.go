package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/soundport/internal/audio"
)

var playOpts struct {
	volume int
}

var playCmd = &cobra.Command{
	Use:   "play [file...]",
	Short: "Play the configured sample once",
	Long: `Play a sound through the same audio path the pad uses, then exit.

With no arguments the configured audio.src list is used. When several files
are given they are tried in order and the first playable one is played.`,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().IntVar(&playOpts.volume, "volume", -1,
		"Volume 0-100 (default: audio.volume from config)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	src := cfg.Audio.Src
	if len(args) > 0 {
		src = args
	}

	lib := newLibrary(cfg)
	defer lib.Close()
	if playOpts.volume >= 0 {
		lib.SetVolume(float64(playOpts.volume) / 100.0)
	}

	done := make(chan struct{})
	sound, err := lib.NewSound(audio.SoundOptions{
		Src:   src,
		OnEnd: func(int) { close(done) },
	})
	if err != nil {
		return err
	}

	logger.Info("playing sound", "sound", sound.Src())
	sound.Play()

	select {
	case <-done:
	case <-time.After(sound.Duration() + time.Second):
		return fmt.Errorf("playback of %s did not finish", sound.Src())
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "played %s (%s)\n", sound.Src(), sound.Duration().Round(time.Millisecond))
	return nil
}
