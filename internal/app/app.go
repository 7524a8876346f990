// Package app provides the sound pad application. It is a bubbletea program
// mounted onto a mount.Node that reports the pads a user plays on its
// EmitSound port.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/soundport/internal/mount"
	"github.com/jmylchreest/soundport/internal/port"
)

// DefaultTitle is shown when no title is configured.
const DefaultTitle = "soundport"

// ErrNoNode is returned when the application is initialized without a node.
var ErrNoNode = errors.New("no mount node")

// Flags configure the application at init.
type Flags struct {
	Node      *mount.Node
	Title     string
	Pads      []string
	AltScreen bool
}

// Ports are the outbound streams of the application.
type Ports struct {
	// EmitSound carries the name of each pad the user plays.
	EmitSound *port.Port[string]
}

// App is a running application.
type App struct {
	Ports Ports

	ctx     context.Context
	program *tea.Program
	done    chan struct{}

	mu  sync.Mutex
	err error
}

// Init starts the application on flags.Node and returns immediately.
func Init(ctx context.Context, flags Flags) (*App, error) {
	if flags.Node == nil {
		return nil, ErrNoNode
	}
	if flags.Title == "" {
		flags.Title = DefaultTitle
	}

	emitSound := port.New[string]("emitSound")
	m := New(flags.Title, flags.Pads, func(s string) { emitSound.Send(s) })

	opts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithInput(flags.Node.In),
		tea.WithOutput(flags.Node.Out),
	}
	if flags.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}

	a := &App{
		Ports:   Ports{EmitSound: emitSound},
		ctx:     ctx,
		program: tea.NewProgram(m, opts...),
		done:    make(chan struct{}),
	}

	go a.run()
	return a, nil
}

func (a *App) run() {
	defer close(a.done)

	_, err := a.program.Run()
	a.Ports.EmitSound.Close()

	if errors.Is(err, tea.ErrProgramKilled) && a.ctx.Err() != nil {
		err = nil
	}
	if err != nil {
		err = fmt.Errorf("application exited: %w", err)
	}

	a.mu.Lock()
	a.err = err
	a.mu.Unlock()
}

// Quit asks the application to exit.
func (a *App) Quit() {
	select {
	case <-a.done:
	default:
		a.program.Quit()
	}
}

// Done is closed when the application has exited.
func (a *App) Done() <-chan struct{} {
	return a.done
}

// Wait blocks until the application exits and returns its error.
func (a *App) Wait() error {
	<-a.done

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}
