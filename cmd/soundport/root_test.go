package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/soundport/internal/config"
)

func TestNewLogger_DefaultConfigLogsPlayingSound(t *testing.T) {
	var buf bytes.Buffer
	l, err := newLogger(&buf, config.DefaultConfig(), false)
	require.NoError(t, err)

	l.Info("playing sound", "sound", "beep")

	assert.Equal(t, 1, strings.Count(buf.String(), `msg="playing sound"`))
	assert.Contains(t, buf.String(), "sound=beep")
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		verbose   bool
		wantInfo  bool
		wantDebug bool
	}{
		{"default", "", false, true, false},
		{"warn", "warn", false, false, false},
		{"verbose_overrides", "warn", true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := config.DefaultConfig()
			c.Log.Level = tt.level

			var buf bytes.Buffer
			l, err := newLogger(&buf, c, tt.verbose)
			require.NoError(t, err)

			l.Info("info line")
			l.Debug("debug line")
			assert.Equal(t, tt.wantInfo, strings.Contains(buf.String(), "info line"))
			assert.Equal(t, tt.wantDebug, strings.Contains(buf.String(), "debug line"))
		})
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	c := config.DefaultConfig()
	c.Log.Level = "loud"

	_, err := newLogger(&bytes.Buffer{}, c, false)
	assert.Error(t, err)
}
