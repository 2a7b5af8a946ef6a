// Package ui renders live build progress in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"supra/internal/session"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	statusStyles = map[session.EventKind]lipgloss.Style{
		session.EventQueued:  lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		session.EventWorking: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		session.EventDone:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		session.EventError:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		session.EventSkipped: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	}
)

const statusWidth = 10

// unitRow is the display state of one unit file.
type unitRow struct {
	path string
	unit string
	kind session.EventKind
}

func (r unitRow) settled() bool {
	return r.kind == session.EventDone || r.kind == session.EventError || r.kind == session.EventSkipped
}

type progressModel struct {
	title   string
	events  <-chan session.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []unitRow
	byPath  map[string]int
	width   int
	done    bool
}

type eventMsg session.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model listing every file with the
// state of its unit. The model quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan session.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = statusStyles[session.EventWorking]

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	rows := make([]unitRow, len(files))
	byPath := make(map[string]int, len(files))
	for i, f := range files {
		rows[i] = unitRow{path: f, kind: session.EventQueued}
		byPath[f] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    rows,
		byPath:  byPath,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(session.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// next waits for one session event.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) apply(ev session.Event) tea.Cmd {
	i, ok := m.byPath[ev.Path]
	if !ok {
		return nil
	}
	m.rows[i].kind = ev.Kind
	if ev.Unit != "" {
		m.rows[i].unit = ev.Unit
	}
	return m.bar.SetPercent(m.fraction())
}

// fraction counts a compiling unit as half done.
func (m *progressModel) fraction() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range m.rows {
		switch {
		case r.settled():
			sum++
		case r.kind == session.EventWorking:
			sum += 0.5
		}
	}
	return sum / float64(len(m.rows))
}

func (m *progressModel) counts() map[session.EventKind]int {
	out := make(map[session.EventKind]int, 5)
	for _, r := range m.rows {
		out[r.kind]++
	}
	return out
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.header()))
	b.WriteString("\n\n")

	unitWidth := 0
	for _, r := range m.rows {
		unitWidth = max(unitWidth, runewidth.StringWidth(r.unit))
	}
	pathWidth := max(m.width-statusWidth-unitWidth-6, 20)
	for _, r := range m.rows {
		status := statusStyles[r.kind].Render(fmt.Sprintf("%*s", statusWidth, statusLabel(r.kind)))
		unit := runewidth.FillRight(r.unit, unitWidth)
		fmt.Fprintf(&b, "  %s %s %s\n", status, unit, faintStyle.Render(truncate(r.path, pathWidth)))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// header reads "⠋ building 3/5, 1 failed, 1 skipped".
func (m *progressModel) header() string {
	c := m.counts()
	settled := c[session.EventDone] + c[session.EventError] + c[session.EventSkipped]
	parts := []string{fmt.Sprintf("%s %d/%d", m.title, settled, len(m.rows))}
	if n := c[session.EventError]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", n))
	}
	if n := c[session.EventSkipped]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", n))
	}
	line := strings.Join(parts, ", ")
	if m.done {
		return "done: " + line
	}
	return m.spinner.View() + " " + line
}

func statusLabel(kind session.EventKind) string {
	if kind == session.EventWorking {
		return "compiling"
	}
	return kind.String()
}

func truncate(value string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(value) <= width:
		return value
	case width <= 3:
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
