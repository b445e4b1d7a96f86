package models

import (
	"context"
	"fmt"
	"time"

	"github.com/allbin/go-serialping/internal/logging"
	"github.com/allbin/go-serialping/internal/metrics"
	"github.com/allbin/go-serialping/internal/session"
	"github.com/allbin/go-serialping/internal/tui/components"
	"github.com/allbin/go-serialping/internal/tui/keys"
	"github.com/allbin/go-serialping/internal/tui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// InputMode represents the current input mode (vim-like)
type InputMode int

const (
	InputModeNormal InputMode = iota
	InputModeInsert
)

func (m InputMode) String() string {
	if m == InputModeInsert {
		return "INSERT"
	}
	return "NORMAL"
}

// ConnectedMsg reports the result of opening the port
type ConnectedMsg struct {
	Conn session.Conn
	Err  error
}

// ExchangeDoneMsg carries every reply drained for one request
type ExchangeDoneMsg struct {
	Replies []session.Reply
	Err     error
}

// Connect is the full-screen front-end for the request/response cycle. At
// most one exchange is in flight; requests typed meanwhile are refused.
type Connect struct {
	portPath string
	baudRate int
	open     session.Opener
	settings session.Settings

	ctx    context.Context
	cancel context.CancelFunc

	conn      session.Conn
	exchanger *session.Exchanger
	busy      bool
	ready     bool
	inputMode InputMode

	transcript *components.Transcript
	statusBar  *components.StatusBar
	input      *components.Input
	help       help.Model
	keys       keys.ConnectKeys

	now func() time.Time
}

func NewConnect(parent context.Context, portPath string, baudRate int, frame string, open session.Opener, settings session.Settings) *Connect {
	ctx, cancel := context.WithCancel(parent)
	return &Connect{
		portPath:   portPath,
		baudRate:   baudRate,
		open:       open,
		settings:   settings,
		ctx:        ctx,
		cancel:     cancel,
		transcript: components.NewTranscript(0, 0),
		statusBar:  components.NewStatusBar(portPath, baudRate, frame),
		input:      components.NewInput(),
		help:       help.New(),
		keys:       keys.NewConnectKeys(),
		now:        time.Now,
	}
}

func (m *Connect) Init() tea.Cmd {
	path, baud, open := m.portPath, m.baudRate, m.open
	return func() tea.Msg {
		conn, err := open(path, baud)
		return ConnectedMsg{Conn: conn, Err: err}
	}
}

// Close cancels any exchange in flight and releases the port. It is safe
// to call more than once.
func (m *Connect) Close() {
	m.cancel()
	if m.conn == nil {
		return
	}
	if err := m.conn.Close(); err != nil {
		logging.L().Warn().Err(err).Str("port", m.portPath).Msg("close_failed")
	}
	m.conn = nil
	m.exchanger = nil
	m.statusBar.SetStatus(styles.StatusClosed)
}

func (m *Connect) Busy() bool {
	return m.busy
}

func (m *Connect) Entries() []components.Entry {
	return m.transcript.Entries()
}

func (m *Connect) notice(format string, args ...any) {
	m.transcript.Add(components.Entry{
		Time: m.now(),
		Kind: components.EntryNotice,
		Text: fmt.Sprintf(format, args...),
	})
}

func (m *Connect) exchange(line string) tea.Cmd {
	ctx, ex := m.ctx, m.exchanger
	return func() tea.Msg {
		var replies []session.Reply
		err := ex.Exchange(ctx, line, func(r session.Reply) {
			replies = append(replies, r)
		})
		return ExchangeDoneMsg{Replies: replies, Err: err}
	}
}

func (m *Connect) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// input box (3) + status bar (1) + transcript border (1)
		m.transcript.SetSize(msg.Width, max(msg.Height-5, 1))
		m.input.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.help.Width = msg.Width
		m.ready = true
		return m, m.transcript.Update(msg)

	case ConnectedMsg:
		return m, m.connected(msg)

	case ExchangeDoneMsg:
		m.exchangeDone(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.inputMode == InputModeInsert {
		return m, m.input.Update(msg)
	}
	return m, nil
}

func (m *Connect) connected(msg ConnectedMsg) tea.Cmd {
	if msg.Err != nil {
		logging.L().Error().Err(msg.Err).Str("port", m.portPath).Msg("open_failed")
		m.statusBar.SetFailed(msg.Err)
		m.notice("NOT CONNECTED: %v", msg.Err)
		return nil
	}
	if m.ctx.Err() != nil {
		// quit before the open completed
		_ = msg.Conn.Close()
		return nil
	}

	m.conn = msg.Conn
	m.exchanger = session.NewExchanger(msg.Conn, m.settings)
	m.statusBar.SetStatus(styles.StatusIdle)
	m.notice("CONNECTED %s at %d baud", m.portPath, m.baudRate)
	logging.L().Info().Str("port", m.portPath).Int("baud", m.baudRate).Msg("port_opened")

	m.inputMode = InputModeInsert
	m.input.Focus()
	return nil
}

func (m *Connect) exchangeDone(msg ExchangeDoneMsg) {
	m.busy = false
	for _, r := range msg.Replies {
		m.transcript.Add(components.Entry{Time: m.now(), Kind: components.EntryReply, Reply: r})
	}
	if m.conn == nil {
		return
	}
	m.statusBar.SetStatus(styles.StatusIdle)
	if msg.Err != nil && m.ctx.Err() == nil {
		m.notice("Error: %v", msg.Err)
	}
}

func (m *Connect) quit() (tea.Model, tea.Cmd) {
	m.Close()
	return m, tea.Quit
}

func (m *Connect) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}

	if m.inputMode == InputModeInsert {
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.inputMode = InputModeNormal
			m.input.Blur()
			return m, nil
		case key.Matches(msg, m.keys.Enter):
			return m.submit()
		case key.Matches(msg, m.keys.Up):
			m.input.NavigateHistoryUp()
			return m, nil
		case key.Matches(msg, m.keys.Down):
			m.input.NavigateHistoryDown()
			return m, nil
		case key.Matches(msg, m.keys.ToggleSendMode):
			m.input.ToggleSendingMode()
			return m, nil
		}
		return m, m.input.Update(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.InsertMode):
		m.inputMode = InputModeInsert
		m.input.Focus()
	case key.Matches(msg, m.keys.Clear):
		m.transcript.Clear()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.ToggleHex):
		m.transcript.ToggleHex()
	case key.Matches(msg, m.keys.ToggleText):
		m.transcript.ToggleText()
	case key.Matches(msg, m.keys.GotoTop):
		m.transcript.GotoTop()
	case key.Matches(msg, m.keys.GotoBottom):
		m.transcript.GotoBottom()
	case key.Matches(msg, m.keys.ToggleSendMode):
		m.input.ToggleSendingMode()
	}
	return m, nil
}

// submit sends the input line following the line driver's rules: empty
// lines are ignored and the exit keyword closes the session
func (m *Connect) submit() (tea.Model, tea.Cmd) {
	raw := m.input.Value()
	if raw == "" {
		return m, nil
	}
	if m.input.SendingMode() == components.SendingModeText && raw == session.DefaultExitKeyword {
		return m.quit()
	}
	if m.exchanger == nil {
		m.notice("not connected")
		return m, nil
	}
	if m.busy {
		m.notice("waiting for the previous reply")
		return m, nil
	}

	line, err := m.input.Request()
	if err != nil {
		m.notice("Invalid hex input: %v", err)
		return m, nil
	}

	m.transcript.Add(components.Entry{Time: m.now(), Kind: components.EntrySent, Text: raw})
	m.input.AddToHistory(raw)
	m.input.SetValue("")
	m.busy = true
	m.statusBar.SetStatus(styles.StatusAwaiting)
	return m, m.exchange(line)
}

func (m *Connect) View() string {
	content := "Initializing..."
	if m.ready {
		content = m.transcript.View()
	}

	insert := m.inputMode == InputModeInsert
	parts := []string{
		styles.ContentBorderStyle.Render(content),
		m.input.View(insert),
		m.statusBar.View(insert, m.input.SendingMode(), metrics.Snap(), m.now().Format("15:04:05")),
	}
	if m.help.ShowAll {
		parts = append(parts, m.help.View(m.keys))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
