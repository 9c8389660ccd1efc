package hostapp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hwerle/tagtrack/internal/device"
	"github.com/hwerle/tagtrack/internal/journal"
)

const maxConsoleLines = 500

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#04B575")).
			Padding(0, 1)

	runningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

type deviceLineMsg string

type linkErrMsg struct{ err error }

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the host companion UI: a console of device lines on the
// left, the live project table on the right, and one input box that
// answers name prompts (and, in demo mode, presents tags).
type Model struct {
	link   device.HostLink
	store  *journal.Store
	demo   *Demo
	logger *slog.Logger

	mirror  *Mirror
	console []string

	viewport viewport.Model
	projects table.Model
	input    textinput.Model

	namePending bool
	lastTag     string
	linkErr     error
	width       int
	height      int
	ready       bool
}

func newModel(link device.HostLink, store *journal.Store, demo *Demo, logger *slog.Logger) Model {
	input := textinput.New()
	input.Placeholder = inputPlaceholder(demo, false)
	input.CharLimit = 48
	input.Focus()

	columns := []table.Column{
		{Title: "Project", Width: 20},
		{Title: "Status", Width: 8},
		{Title: "Total", Width: 10},
		{Title: "Session", Width: 10},
	}
	projects := table.New(
		table.WithColumns(columns),
		table.WithHeight(12),
	)

	return Model{
		link:     link,
		store:    store,
		demo:     demo,
		logger:   logger,
		mirror:   NewMirror(),
		viewport: viewport.New(60, 16),
		projects: projects,
		input:    input,
	}
}

func inputPlaceholder(demo *Demo, namePending bool) string {
	if namePending {
		return "project name (enter to send)"
	}
	if demo != nil {
		return "tag id to scan, e.g. aa:bb (ctrl+a = admin)"
	}
	return "waiting for device"
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		return m, nil

	case tickMsg:
		m.refreshTable(time.Now())
		return m, tickCmd()

	case deviceLineMsg:
		m.handleLine(string(msg))
		return m, nil

	case linkErrMsg:
		m.linkErr = msg.err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			m.submitInput()
			return m, nil
		case "ctrl+a":
			if m.demo != nil {
				m.demo.Present(m.demo.AdminTag())
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) resize() {
	consoleWidth := m.width/2 - 4
	if consoleWidth < 30 {
		consoleWidth = 30
	}
	consoleHeight := m.height - 8
	if consoleHeight < 5 {
		consoleHeight = 5
	}
	m.viewport.Width = consoleWidth
	m.viewport.Height = consoleHeight
	m.input.Width = m.width - 10
	m.refreshConsole()
}

func (m *Model) submitInput() {
	value := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if value == "" {
		return
	}

	if m.namePending {
		if err := m.link.WriteLine(value); err != nil {
			m.linkErr = err
			return
		}
		m.namePending = false
		m.input.Placeholder = inputPlaceholder(m.demo, false)
		return
	}

	if m.demo != nil {
		id, err := device.ParseTagID(value)
		if err != nil {
			m.console = append(m.console, fmt.Sprintf("host: not a tag id: %s", value))
			m.refreshConsole()
			return
		}
		m.demo.Present(id)
	}
}

func (m *Model) handleLine(line string) {
	m.console = append(m.console, line)
	if len(m.console) > maxConsoleLines {
		m.console = m.console[len(m.console)-maxConsoleLines:]
	}
	m.refreshConsole()

	now := time.Now()
	ev := ParseLine(line)
	m.mirror.Apply(ev, now)
	m.journalEvent(ev, now)

	switch ev.Kind {
	case KindPrompt:
		m.namePending = true
		m.input.Placeholder = inputPlaceholder(m.demo, true)
	case KindDetected, KindUnknown:
		m.lastTag = ev.Tag
	}
	m.refreshTable(now)
}

func (m *Model) journalEvent(ev DeviceEvent, now time.Time) {
	if m.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := m.store.AppendEvent(ctx, journal.Event{
		ReceivedAt: now,
		Kind:       string(ev.Kind),
		Tag:        ev.Tag,
		Project:    ev.Project,
		Detail:     ev.Raw,
	})
	if err == nil {
		switch ev.Kind {
		case KindStarted:
			err = m.store.OpenSession(ctx, ev.Project, now)
		case KindPaused, KindDeleted:
			err = m.store.CloseSession(ctx, ev.Project, now)
		}
	}
	if err != nil && m.logger != nil {
		m.logger.Warn("journal write failed", "error", err)
	}
}

func (m *Model) refreshConsole() {
	m.viewport.SetContent(strings.Join(m.console, "\n"))
	m.viewport.GotoBottom()
}

func (m *Model) refreshTable(now time.Time) {
	mirrorRows := m.mirror.Rows(now)
	rows := make([]table.Row, 0, len(mirrorRows))
	for _, r := range mirrorRows {
		status := "paused"
		if r.Running {
			status = "running"
		}
		rows = append(rows, table.Row{
			r.Name,
			status,
			formatHMS(r.Total),
			formatHMS(r.Session),
		})
	}
	m.projects.SetRows(rows)
}

func formatHMS(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}

	title := titleStyle.Width(m.width).Render("tagtrack — RFID project time")

	console := boxStyle.Render(m.viewport.View())

	right := []string{boxStyle.Render(m.projects.View())}
	if m.demo != nil {
		panel := m.demo.Panel()
		right = append(right, panelStyle.Render(panel[0]+"\n"+panel[1]))
	}
	rightColumn := lipgloss.JoinVertical(lipgloss.Left, right...)

	body := lipgloss.JoinHorizontal(lipgloss.Top, console, rightColumn)

	status := fmt.Sprintf("last tag: %s", orDash(m.lastTag))
	if running, ok := m.mirror.Running(); ok {
		status += "  " + runningStyle.Render("▶ "+running)
	}
	if m.linkErr != nil {
		status += "  " + errorStyle.Render("link error: "+m.linkErr.Error())
	}

	footer := statusStyle.Render("enter: send  ctrl+a: admin tag  esc: quit")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		body,
		m.input.View(),
		statusStyle.Render(status),
		footer,
	)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
