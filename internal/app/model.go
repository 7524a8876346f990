package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/oklog/ulid/v2"
)

// maxRecent is the number of emissions kept for display.
const maxRecent = 5

// DefaultPads are the pads shown when none are configured.
var DefaultPads = []string{"beep", "click", "chime", "pop"}

// Emission is one notification sent on the sound port.
type Emission struct {
	ID    ulid.ULID
	Sound string
	At    time.Time
}

// Model is the sound pad model.
type Model struct {
	title  string
	pads   []string
	cursor int

	// emit feeds the outbound port. It is called from Update so that port
	// order matches key order.
	emit func(string)

	plays  int
	recent []Emission

	keys     KeyMap
	help     help.Model
	fullHelp bool

	width  int
	height int
	now    func() time.Time
}

// New creates a sound pad model.
func New(title string, pads []string, emit func(string)) Model {
	if len(pads) == 0 {
		pads = DefaultPads
	}
	if emit == nil {
		emit = func(string) {}
	}

	return Model{
		title: title,
		pads:  append([]string(nil), pads...),
		emit:  emit,
		keys:  DefaultKeyMap(),
		help:  help.New(),
		now:   time.Now,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.fullHelp = !m.fullHelp
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.pads)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Play):
		return m.play(m.pads[m.cursor]), nil
	}

	return m, nil
}

// play records an emission and sends it on the port.
func (m Model) play(sound string) Model {
	e := Emission{ID: ulid.Make(), Sound: sound, At: m.now()}

	m.plays++
	recent := make([]Emission, 0, maxRecent)
	recent = append(recent, e)
	for _, r := range m.recent {
		if len(recent) == maxRecent {
			break
		}
		recent = append(recent, r)
	}
	m.recent = recent

	m.emit(sound)
	return m
}

// Selected returns the pad under the cursor.
func (m Model) Selected() string {
	return m.pads[m.cursor]
}

// Plays returns how many sounds were emitted.
func (m Model) Plays() int {
	return m.plays
}

// Recent returns the latest emissions, newest first.
func (m Model) Recent() []Emission {
	return m.recent
}

// View renders the sound pad.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)
	selectedStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("10"))
	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "\n")

	for i, pad := range m.pads {
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> "+pad) + "\n")
			continue
		}
		b.WriteString("  " + pad + "\n")
	}

	b.WriteString("\n" + dimStyle.Render(fmt.Sprintf("%s played", pluralize(m.plays, "sound"))) + "\n")
	for _, e := range m.recent {
		line := fmt.Sprintf("  %s  %-8s %s", e.ID.String()[20:], e.Sound, humanize.RelTime(e.At, m.now(), "ago", "from now"))
		b.WriteString(dimStyle.Render(line) + "\n")
	}

	b.WriteString("\n")
	if m.fullHelp {
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return b.String()
}

func pluralize(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%s %ss", humanize.Comma(int64(n)), word)
}
