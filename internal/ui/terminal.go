package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/ledpanel/internal/input"
	"github.com/muurk/ledpanel/internal/logging"
	"github.com/muurk/ledpanel/internal/render"
	"github.com/muurk/ledpanel/internal/state"
)

// frameMsg carries one redraw from the event loop into the program
type frameMsg struct {
	frame render.Frame
	snap  state.Snapshot
}

// panelModel is the Bubble Tea model behind Terminal
type panelModel struct {
	queue *input.Queue
	keys  panelKeyMap
	help  help.Model

	frame render.Frame
	snap  state.Snapshot
	drawn bool

	Width  int
	Height int
}

func newPanelModel(q *input.Queue) panelModel {
	return panelModel{
		queue: q,
		keys:  newPanelKeyMap(),
		help:  help.New(),
	}
}

// Init implements tea.Model
func (m panelModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m panelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.frame = msg.frame
		m.snap = msg.snap
		m.drawn = true

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if msg.String() == "?" {
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		if k, ok := m.keys.lookup(msg); ok {
			m.queue.Push(input.Press(k))
		}
	}

	return m, nil
}

// View implements tea.Model
func (m panelModel) View() string {
	if !m.drawn {
		return "\n  Starting...\n"
	}

	screen := PanelScreenStyle.Render(strings.Join(render.Rasterize(m.frame, PanelColumns, PanelRows), "\n"))

	statusStyle := StatusErrorStyle
	if m.snap.Connected {
		statusStyle = StatusOKStyle
	}
	status := statusStyle.Render(m.snap.StatusText)

	return lipgloss.JoinVertical(lipgloss.Left, screen, status, m.help.View(m.keys)) + "\n"
}

// Terminal is the interactive panel surface. It implements loop.Display and
// produces keyboard events into an input.Queue. The queue is closed when the
// program exits, which ends the event loop.
type Terminal struct {
	program *tea.Program
	queue   *input.Queue
	done    chan struct{}

	mu  sync.Mutex
	err error
}

// NewTerminal creates a terminal surface feeding q. Options are passed to
// tea.NewProgram.
func NewTerminal(q *input.Queue, opts ...tea.ProgramOption) *Terminal {
	return &Terminal{
		program: tea.NewProgram(newPanelModel(q), opts...),
		queue:   q,
		done:    make(chan struct{}),
	}
}

// Start runs the program on its own goroutine
func (t *Terminal) Start() {
	go func() {
		defer close(t.done)
		defer t.queue.Close()

		if _, err := t.program.Run(); err != nil {
			logging.Error("Terminal program failed", zap.Error(err))
			t.mu.Lock()
			t.err = err
			t.mu.Unlock()
		}
	}()
}

// Draw implements loop.Display. It returns once the program has accepted the
// frame, or immediately if the program has exited.
func (t *Terminal) Draw(frame render.Frame, snap state.Snapshot) {
	t.program.Send(frameMsg{frame: frame, snap: snap})
}

// Stop quits the program, restores the terminal and returns the program's
// error, if any.
func (t *Terminal) Stop() error {
	t.program.Quit()
	<-t.done

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}
