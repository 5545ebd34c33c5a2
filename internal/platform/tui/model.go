package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/quadball/internal/core"
	"github.com/vovakirdan/quadball/internal/lang"
	"github.com/vovakirdan/quadball/internal/playback"
	"github.com/vovakirdan/quadball/internal/referee"
)

// Layout constants
const (
	minFieldRows = 9
	maxFieldRows = 25
	sidebarWidth = 36
	feedLines    = 8
	maxSpeed     = 16
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	overlayStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(0, 2)
)

// WatchModel replays a script tick by tick with a top-down field view,
// the notice feed and the standings.
type WatchModel struct {
	script  *playback.Script
	opts    playback.Options
	session *playback.Session
	catalog *lang.Catalog

	screen    *core.Screen
	standings table.Model
	keys      WatchKeyMap
	help      help.Model

	width    int
	height   int
	speed    int // session steps per frame
	paused   bool
	quitting bool
}

// NewWatchModel creates a viewer for script. The session is started
// immediately so setup errors surface here.
func NewWatchModel(script *playback.Script, opts playback.Options, catalog *lang.Catalog, width, height int) (WatchModel, error) {
	sess, err := playback.NewSession(script, opts)
	if err != nil {
		return WatchModel{}, err
	}
	if catalog == nil {
		catalog = lang.English()
	}

	h := help.New()
	h.ShowAll = false

	m := WatchModel{
		script:  script,
		opts:    opts,
		session: sess,
		catalog: catalog,
		screen:  core.NewScreen(0, 0),
		keys:    DefaultWatchKeyMap(),
		help:    h,
		speed:   1,
		standings: table.New(
			table.WithColumns([]table.Column{
				{Title: "Seat", Width: 4},
				{Title: "Player", Width: 14},
				{Title: "Tally", Width: 6},
			}),
			table.WithHeight(referee.MaxPlayers+1),
		),
	}
	m.resize(width, height)
	m.refreshStandings()
	return m, nil
}

// Init starts the tick loop.
func (m WatchModel) Init() tea.Cmd {
	return tickCmd(m.opts.TickRate)
}

// Update handles messages and updates the model state.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m WatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused

	case key.Matches(msg, m.keys.Step):
		if m.paused {
			m.session.Step()
			m.refreshStandings()
		}

	case key.Matches(msg, m.keys.Faster):
		m.speed = min(m.speed*2, maxSpeed)

	case key.Matches(msg, m.keys.Slower):
		m.speed = max(m.speed/2, 1)

	case key.Matches(msg, m.keys.Restart):
		if sess, err := playback.NewSession(m.script, m.opts); err == nil {
			m.session = sess
			m.refreshStandings()
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// handleTick advances the replay. The tick loop keeps running after the
// match ends so restart works.
func (m WatchModel) handleTick() (tea.Model, tea.Cmd) {
	if !m.paused {
		for range m.speed {
			if !m.session.Step() {
				break
			}
		}
		m.refreshStandings()
	}
	return m, tickCmd(m.opts.TickRate)
}

func (m *WatchModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	rows := min(max(height-3, minFieldRows), maxFieldRows)
	if rows%2 == 0 {
		rows-- // odd sizes keep the mid-lines centered
	}
	cols := 2*rows - 1
	if avail := width - sidebarWidth - 2; cols > avail && avail >= minFieldRows {
		cols = avail
		if cols%2 == 0 {
			cols--
		}
	}
	m.screen.Resize(cols, rows)
}

func (m *WatchModel) refreshStandings() {
	seats := make(map[string]core.Quadrant)
	for _, p := range m.session.Players() {
		seats[p.Name] = p.Seat
	}

	var rows []table.Row
	for _, s := range m.session.Referee().Ledger().Standings() {
		rows = append(rows, table.Row{seats[s.Name].String(), s.Name, strconv.Itoa(s.Score)})
	}
	m.standings.SetRows(rows)
}

func (m WatchModel) projection() core.Projection {
	return core.Projection{
		Field:  m.session.Referee().Field(),
		Width:  m.screen.Width(),
		Height: m.screen.Height(),
	}
}

// View renders the field with the sidebar and help line.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	drawMatch(m.screen, m.projection(), m.session)
	field := RenderScreen(m.screen)

	body := lipgloss.JoinHorizontal(lipgloss.Top, field, "  ", m.sidebar())
	if over := m.overlay(); over != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, over)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.help.View(m.keys))
}

func (m WatchModel) sidebar() string {
	ref := m.session.Referee()

	status := ref.State().String()
	switch {
	case m.paused:
		status += " (paused)"
	case m.speed > 1:
		status += fmt.Sprintf(" (x%d)", m.speed)
	}

	lines := []string{
		titleStyle.Render(m.script.Name),
		dimStyle.Render(fmt.Sprintf("t=%s  %s", m.session.Now().Truncate(10*time.Millisecond), status)),
		dimStyle.Render(fmt.Sprintf("match point %d  combo %d", ref.Rules().MatchPoint, ref.Ledger().ComboLength())),
		"",
		m.standings.View(),
		"",
	}

	events := m.session.Events()
	start := max(len(events)-feedLines, 0)
	for _, ev := range events[start:] {
		if ev.Notice.Overlay {
			continue
		}
		text := fmt.Sprintf("%6s %s", ev.At.Truncate(100*time.Millisecond), m.catalog.Render(ev.Notice))
		lines = append(lines, styleFor(ev.Notice.Color).Render(truncate(text, sidebarWidth)))
	}

	return lipgloss.NewStyle().Width(sidebarWidth).Render(strings.Join(lines, "\n"))
}

// overlay returns the screen-space notice, if any.
func (m WatchModel) overlay() string {
	events := m.session.Events()
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Notice.Overlay {
			return overlayStyle.Render(m.catalog.Render(events[i].Notice))
		}
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Session returns the replay currently shown.
func (m WatchModel) Session() *playback.Session {
	return m.session
}

// Watch runs the viewer in the local terminal.
func Watch(script *playback.Script, opts playback.Options, catalog *lang.Catalog, width, height int) error {
	model, err := NewWatchModel(script, opts, catalog, width, height)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
