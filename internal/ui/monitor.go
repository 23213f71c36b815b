package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kazehome/melair/internal/controller"
)

// StatusClient is the controller surface the monitor needs
type StatusClient interface {
	FetchStatus(ctx context.Context) error
	Snapshot() *controller.DeviceStateSnapshot
}

// Messages for async operations
type statusFetchedMsg struct {
	err error
}

type pollTickMsg time.Time

// monitorKeyMap defines key bindings for the monitor screen
type monitorKeyMap struct {
	Refresh key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k monitorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k monitorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Refresh, k.Quit},
	}
}

func newMonitorKeyMap() monitorKeyMap {
	return monitorKeyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh now"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// MonitorModel is a live device state view that polls the adapter on a
// fixed interval and re-renders after every response.
type MonitorModel struct {
	client   StatusClient
	host     string
	interval time.Duration

	spinner spinner.Model
	help    help.Model
	keys    monitorKeyMap

	width  int
	height int

	fetching   bool
	updates    int
	lastUpdate time.Time
	lastErr    error
}

// NewMonitorModel creates a monitor polling the given client. The interval
// must be positive.
func NewMonitorModel(client StatusClient, host string, interval time.Duration) MonitorModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(PrimaryColor)

	width, height := GetTerminalSize()

	return MonitorModel{
		client:   client,
		host:     host,
		interval: interval,
		spinner:  s,
		help:     help.New(),
		keys:     newMonitorKeyMap(),
		width:    width,
		height:   height,
	}
}

// Init implements tea.Model
func (m MonitorModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCmd())
}

// fetchCmd runs one status poll. The request timeout is the poll interval
// so a stuck request cannot pile up behind the next tick.
func (m MonitorModel) fetchCmd() tea.Cmd {
	client := m.client
	timeout := m.interval
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return statusFetchedMsg{err: client.FetchStatus(ctx)}
	}
}

func (m MonitorModel) scheduleTick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return pollTickMsg(t)
	})
}

// Update implements tea.Model
func (m MonitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			if !m.fetching {
				m.fetching = true
				return m, m.fetchCmd()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if m.width < MinTerminalWidth {
			m.width = MinTerminalWidth
		}
		if m.width > MaxContentWidth {
			m.width = MaxContentWidth
		}
		m.height = msg.Height
		return m, nil

	case statusFetchedMsg:
		m.fetching = false
		m.lastErr = msg.err
		if msg.err == nil {
			m.updates++
			m.lastUpdate = time.Now()
		}
		return m, m.scheduleTick()

	case pollTickMsg:
		if m.fetching {
			return m, m.scheduleTick()
		}
		m.fetching = true
		return m, m.fetchCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model
func (m MonitorModel) View() string {
	header := NewHeader("Live Monitor", "melair-ctl monitor", map[string]string{
		"Host": m.host,
		"Poll": m.interval.String(),
	}).SetWidth(m.width).Render()

	body := RenderStatusReport(m.client.Snapshot(), m.width)

	var statusLine string
	switch {
	case m.fetching:
		statusLine = MonitorFooterStyle.Render(m.spinner.View() + " polling...")
	case m.lastErr != nil:
		statusLine = ErrorMessageStyle.Render(fmt.Sprintf("  %s %v", FailureMarker, m.lastErr))
	case !m.lastUpdate.IsZero():
		statusLine = MonitorFooterStyle.Render(fmt.Sprintf("%s updated %s (%d polls)",
			SuccessMarker, m.lastUpdate.Format("15:04:05"), m.updates))
	default:
		statusLine = MonitorFooterStyle.Render("waiting for first response...")
	}

	helpLine := MonitorFooterStyle.Render(m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, header, body, statusLine, helpLine) + "\n"
}

// RunMonitor runs the live monitor until the user quits
func RunMonitor(client StatusClient, host string, interval time.Duration) error {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	p := tea.NewProgram(NewMonitorModel(client, host, interval), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
