package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"fullyhacks/internal/api"
)

// maxRows is how many recent requests the monitor keeps on screen.
const maxRows = 20

type monitorModel struct {
	title   string
	events  <-chan api.Event
	spinner spinner.Model
	rows    []api.Event
	total   int
	errors  int
	width   int
	done    bool
}

type eventMsg api.Event
type doneMsg struct{}

// NewMonitorModel returns a Bubble Tea model that lists requests served by
// the API as they arrive. It quits when events is closed.
func NewMonitorModel(title string, events <-chan api.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	return &monitorModel{
		title:   title,
		events:  events,
		spinner: sp,
		width:   80,
	}
}

func (m *monitorModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.record(api.Event(msg))
		return m, m.listenForEvent()
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
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
		}
		return m, nil
	}
	return m, nil
}

func (m *monitorModel) record(ev api.Event) {
	m.total++
	if ev.Status >= 400 {
		m.errors++
	}
	m.rows = append(m.rows, ev)
	if len(m.rows) > maxRows {
		m.rows = m.rows[len(m.rows)-maxRows:]
	}
}

func (m *monitorModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s (%d requests, %d errors)", m.title, m.total, m.errors)
	if m.done {
		header = "stopped: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	pathWidth := m.width - 30
	if pathWidth < 20 {
		pathWidth = 20
	}
	for _, ev := range m.rows {
		status := styleStatus(ev.Status).Render(fmt.Sprintf("%3d", ev.Status))
		line := fmt.Sprintf("  %s %-6s %s %8s", status, ev.Method,
			runewidth.FillRight(truncate(ev.Path, pathWidth), pathWidth),
			ev.Elapsed.Round(time.Microsecond))
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.rows) == 0 {
		b.WriteString("  waiting for requests...\n")
	}
	b.WriteString("\n  press q to hide the monitor\n")
	return b.String()
}

func (m *monitorModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func styleStatus(status int) lipgloss.Style {
	switch {
	case status >= 500:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case status >= 400:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	case status >= 300:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
