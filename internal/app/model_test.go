package app

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNew_DefaultPads(t *testing.T) {
	m := New("pads", nil, nil)

	assert.Equal(t, DefaultPads, m.pads)
	assert.Equal(t, "beep", m.Selected())
	assert.Nil(t, m.Init())
}

func TestUpdate_Navigation(t *testing.T) {
	m := New("pads", []string{"beep", "click", "chime"}, nil)

	tests := []struct {
		name string
		key  tea.KeyMsg
		want string
	}{
		{"up_at_top_stays", tea.KeyMsg{Type: tea.KeyUp}, "beep"},
		{"down", tea.KeyMsg{Type: tea.KeyDown}, "click"},
		{"j", keyRunes("j"), "chime"},
		{"down_at_bottom_stays", keyRunes("j"), "chime"},
		{"k", keyRunes("k"), "click"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, cmd := m.Update(tt.key)
			m = updated.(Model)
			assert.Nil(t, cmd)
			assert.Equal(t, tt.want, m.Selected())
		})
	}
}

func TestUpdate_PlayEmitsSelectedPad(t *testing.T) {
	var emitted []string
	m := New("pads", []string{"beep", "click"}, func(s string) { emitted = append(emitted, s) })

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	updated, _ = updated.Update(tea.KeyMsg{Type: tea.KeyDown})
	updated, _ = updated.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = updated.(Model)

	assert.Equal(t, []string{"beep", "click"}, emitted)
	assert.Equal(t, 2, m.Plays())
	require.Len(t, m.Recent(), 2)
	assert.Equal(t, "click", m.Recent()[0].Sound, "newest first")
	assert.Equal(t, "beep", m.Recent()[1].Sound)
}

func TestUpdate_RecentIsBounded(t *testing.T) {
	m := New("pads", nil, nil)

	var updated tea.Model = m
	for range maxRecent + 3 {
		updated, _ = updated.Update(tea.KeyMsg{Type: tea.KeyEnter})
	}
	m = updated.(Model)

	assert.Equal(t, maxRecent+3, m.Plays())
	assert.Len(t, m.Recent(), maxRecent)
}

func TestUpdate_QuitKeys(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
	}{
		{"q key", keyRunes("q")},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cmd := New("pads", nil, nil).Update(tt.key)
			require.NotNil(t, cmd)
			_, isQuit := cmd().(tea.QuitMsg)
			assert.True(t, isQuit, "expected tea.QuitMsg")
		})
	}
}

func TestView(t *testing.T) {
	m := New("My Pads", []string{"beep", "click"}, nil)
	m.now = func() time.Time { return time.Unix(1000, 0) }

	view := m.View()
	assert.Contains(t, view, "My Pads")
	assert.Contains(t, view, "> beep")
	assert.Contains(t, view, "  click")
	assert.Contains(t, view, "0 sounds played")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	view = updated.View()
	assert.Contains(t, view, "1 sound played")
	assert.Contains(t, view, "now")

	updated, _ = updated.Update(keyRunes("?"))
	assert.Contains(t, updated.View(), "down")
}

func TestProgram_EmitsAndQuits(t *testing.T) {
	emitted := make(chan string, 4)
	m := New("pads", []string{"beep", "click"}, func(s string) { emitted <- s })

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("click"))
	}, teatest.WithDuration(2*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	tm.Send(tea.KeyMsg{Type: tea.KeyDown})
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	tm.Send(keyRunes("q"))

	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
	final := tm.FinalModel(t).(Model)

	assert.Equal(t, 2, final.Plays())
	assert.Equal(t, "beep", <-emitted)
	assert.Equal(t, "click", <-emitted)
}
