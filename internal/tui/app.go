// Package tui implements a live status view over the daemon's IPC socket.
package tui

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/ribbonwm/internal/engine"
	"github.com/1broseidon/ribbonwm/internal/ipc"
)

const pollInterval = 500 * time.Millisecond

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(14)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	tileStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			BorderForeground(lipgloss.Color("62"))

	fullTileStyle = tileStyle.Copy().
			BorderForeground(lipgloss.Color("205"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)

type statusMsg engine.Status

type errMsg struct{ err error }

type tickMsg time.Time

type sentMsg struct{ err error }

// Model is the bubbletea model for the status view.
type Model struct {
	socket string
	status *engine.Status
	err    error
	width  int
}

// New creates a status view polling the given daemon socket.
func New(socket string) Model {
	return Model{socket: socket}
}

// Run starts the status view and blocks until the user quits.
func Run(socket string) error {
	p := tea.NewProgram(New(socket), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return fetchStatus(m.socket)
}

func fetchStatus(socket string) tea.Cmd {
	return func() tea.Msg {
		client, err := ipc.NewClient(socket)
		if err != nil {
			return errMsg{err}
		}
		defer client.Close()

		data, err := client.GetStatus()
		if err != nil {
			return errMsg{err}
		}

		var s engine.Status
		if err := json.Unmarshal(data, &s); err != nil {
			return errMsg{err}
		}
		return statusMsg(s)
	}
}

// sendCommand enqueues one ribbon command on the daemon. The next poll
// picks up the resulting state.
func sendCommand(socket, name string) tea.Cmd {
	return func() tea.Msg {
		client, err := ipc.NewClient(socket)
		if err != nil {
			return sentMsg{err}
		}
		defer client.Close()
		return sentMsg{client.Send(name, 0)}
	}
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "left", "h":
			return m, sendCommand(m.socket, "pan_left")
		case "right", "l":
			return m, sendCommand(m.socket, "pan_right")
		case "up", "k":
			return m, sendCommand(m.socket, "pan_row_up")
		case "down", "j":
			return m, sendCommand(m.socket, "pan_row_down")
		case "r":
			return m, sendCommand(m.socket, "force_recalc")
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case statusMsg:
		s := engine.Status(msg)
		m.status = &s
		m.err = nil
		return m, tick()

	case errMsg:
		m.err = msg.err
		m.status = nil
		return m, tick()

	case sentMsg:
		if msg.err != nil {
			m.err = msg.err
		}
		return m, fetchStatus(m.socket)

	case tickMsg:
		return m, fetchStatus(m.socket)
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("ribbonwm"))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errStyle.Render(fmt.Sprintf("Cannot reach daemon: %v", m.err)))
		b.WriteString(helpStyle.Render("\nStart it with: ribbonwm daemon"))
		b.WriteString(helpStyle.Render("\nq quit"))
		return b.String()
	}
	if m.status == nil {
		b.WriteString(valueStyle.Render("Connecting..."))
		return b.String()
	}

	s := m.status
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	row("Windows", fmt.Sprintf("%d managed, %d floating", s.Managed, s.Floating))
	row("Strategy", s.Strategy)
	row("Row", fmt.Sprintf("%d", s.Row))
	row("Offset", fmt.Sprintf("%d / %d", s.OffsetX, s.MaxOffset))
	row("Screen", fmt.Sprintf("%dx%d", s.Screen.Width, s.Screen.Height))
	row("Margins", fmt.Sprintf("%d/%d", s.MarginH, s.MarginV))
	row("Opacity", fmt.Sprintf("%d", s.Opacity))
	if s.Animating {
		row("State", "animating")
	} else {
		row("State", "idle")
	}

	if len(s.Windows) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderRibbon(s))
	}

	b.WriteString(helpStyle.Render("←/→ pan  ↑/↓ row  r recalc  q quit"))
	return b.String()
}

// renderRibbon draws each row of tiles as a strip of boxes, truncated to
// the terminal width.
func (m Model) renderRibbon(s *engine.Status) string {
	rows := make(map[int][]engine.WindowStatus)
	maxRow := 0
	for _, w := range s.Windows {
		rows[w.Row] = append(rows[w.Row], w)
		if w.Row > maxRow {
			maxRow = w.Row
		}
	}

	var b strings.Builder
	for r := 0; r <= maxRow; r++ {
		tiles := rows[r]
		if len(tiles) == 0 {
			continue
		}

		boxes := make([]string, 0, len(tiles))
		for _, w := range tiles {
			label := fmt.Sprintf("0x%x", w.ID)
			if w.Size == "full" {
				boxes = append(boxes, fullTileStyle.Render(label+" ██"))
			} else {
				boxes = append(boxes, tileStyle.Render(label+" █"))
			}
		}

		line := lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
		if m.width > 0 {
			line = lipgloss.NewStyle().MaxWidth(m.width).Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
