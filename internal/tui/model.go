package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mt4110/quickcut/internal/runner"
	"github.com/mt4110/quickcut/internal/watcher"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A0A0A0"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87"))
)

type state int

const (
	statePending state = iota
	stateSkipped
	stateCutting
	stateDone
	stateFailed
)

type targetRow struct {
	name   string
	state  state
	done   int
	total  int
	detail string
}

// DoneMsg tells the model the run is over. Err is nil on success.
type DoneMsg struct {
	Err error
}

type Model struct {
	controlFile string
	targets     []targetRow
	index       map[string]int
	history     []string
	finished    bool
	err         error

	sub chan interface{} // Subscription to runner/watcher events
}

// NewModel shows targets as pending until events arrive on sub.
func NewModel(controlFile string, targets []string, sub chan interface{}) Model {
	m := Model{
		controlFile: controlFile,
		index:       make(map[string]int, len(targets)),
		sub:         sub,
	}
	for _, t := range targets {
		m.index[t] = len(m.targets)
		m.targets = append(m.targets, targetRow{name: t})
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return waitForActivity(m.sub)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case runner.TargetSkippedEvent:
		m.row(msg.Target).state = stateSkipped
		m.history = append([]string{"⏭ Skipped: " + msg.Target}, m.history...)

	case runner.TargetStartEvent:
		r := m.row(msg.Target)
		r.state = stateCutting
		r.total = msg.Cuts
		r.done = 0

	case runner.SegmentDoneEvent:
		r := m.row(msg.Target)
		r.done = msg.Index
		r.total = msg.Total

	case runner.TargetDoneEvent:
		r := m.row(msg.Target)
		r.state = stateDone
		if msg.Path == "" {
			r.detail = fmt.Sprintf("%d segments", len(msg.Segments))
		}
		m.history = append([]string{"✅ Done: " + msg.Target}, m.history...)

	case runner.FailureEvent:
		r := m.row(msg.Target)
		r.state = stateFailed
		r.detail = msg.Err.Error()
		m.history = append([]string{"❌ Failed: " + msg.Target}, m.history...)

	case watcher.PassStartEvent:
		for i := range m.targets {
			m.targets[i].state = statePending
			m.targets[i].detail = ""
		}
		m.history = append([]string{"🔄 Reloading: " + msg.ControlFile}, m.history...)

	case watcher.PassDoneEvent:
		if msg.Err != nil {
			m.history = append([]string{"❌ " + firstLine(msg.Err.Error())}, m.history...)
		}

	case DoneMsg:
		m.finished = true
		m.err = msg.Err
		return m, nil

	default:
		return m, nil
	}
	return m, waitForActivity(m.sub)
}

// row returns the row for target, adding it when the control file grew
// while watching.
func (m *Model) row(target string) *targetRow {
	i, ok := m.index[target]
	if !ok {
		i = len(m.targets)
		m.index[target] = i
		m.targets = append(m.targets, targetRow{name: target})
	}
	return &m.targets[i]
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("✂ quickcut") + "\n\n")
	b.WriteString("Control file: " + m.controlFile + "\n\n")

	if len(m.targets) == 0 {
		b.WriteString(statusStyle.Render("  (no targets)") + "\n")
	}
	for _, t := range m.targets {
		b.WriteString(fmt.Sprintf("  %-3s %s %s\n", t.icon(), t.name, statusStyle.Render(t.status())))
	}

	if len(m.history) > 0 {
		b.WriteString("\nHistory:\n")
		for _, h := range m.history {
			b.WriteString("  " + h + "\n")
		}
	}

	if m.finished {
		if m.err != nil {
			b.WriteString("\n" + errStyle.Render("error: "+firstLine(m.err.Error())) + "\n")
		} else {
			b.WriteString("\n✅ All done\n")
		}
	}
	b.WriteString("\n[q] quit\n")
	return b.String()
}

func (t targetRow) icon() string {
	switch t.state {
	case stateSkipped:
		return "⏭"
	case stateCutting:
		return "✂"
	case stateDone:
		return "✅"
	case stateFailed:
		return "❌"
	default:
		return "·"
	}
}

func (t targetRow) status() string {
	switch t.state {
	case stateSkipped:
		return "exists, skipped"
	case stateCutting:
		return fmt.Sprintf("cutting %d/%d", t.done, t.total)
	case stateDone:
		if t.detail != "" {
			return t.detail
		}
		return "merged"
	case stateFailed:
		return firstLine(t.detail)
	default:
		return "pending"
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func waitForActivity(sub chan interface{}) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}
