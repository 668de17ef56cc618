// Package tui implements the ipxctl dashboard: a bubbletea program that
// renders the live request/cache counters streamed over the admin
// websocket.
package tui

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/websocket"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	valueStyle = lipgloss.NewStyle().Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// snapshot mirrors internal/ipxserver's adminSnapshot wire format.
type snapshot struct {
	SessionID    string `json:"session_id"`
	Time         string `json:"time"`
	Requests     int64  `json:"requests"`
	CacheHits    int64  `json:"cache_hits"`
	CacheMiss    int64  `json:"cache_miss"`
	Errors       int64  `json:"errors"`
	LogRotations int64  `json:"log_rotations"`
}

type snapshotMsg snapshot
type connErrMsg struct{ err error }

type model struct {
	addr string
	conn *websocket.Conn
	last snapshot
	err  error
}

// Run dials addr's /admin/ws endpoint and runs the dashboard until the
// user quits.
func Run(addr string) error {
	m := &model{addr: addr}
	p := tea.NewProgram(m)
	_, err := p.Run()
	return err
}

func (m *model) Init() tea.Cmd {
	return m.connect
}

func (m *model) connect() tea.Msg {
	wsURL := toWSURL(m.addr)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return connErrMsg{err: err}
	}
	m.conn = conn
	return m.readNext()
}

func (m *model) readNext() tea.Msg {
	if m.conn == nil {
		return connErrMsg{err: fmt.Errorf("not connected")}
	}
	_, raw, err := m.conn.ReadMessage()
	if err != nil {
		return connErrMsg{err: err}
	}
	var s snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return connErrMsg{err: err}
	}
	return snapshotMsg(s)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.conn != nil {
				_ = m.conn.Close()
			}
			return m, tea.Quit
		}
	case snapshotMsg:
		m.last = snapshot(msg)
		m.err = nil
		return m, m.readNext
	case connErrMsg:
		m.err = msg.err
		return m, tea.Tick(2*time.Second, func(time.Time) tea.Msg { return m.connect() })
	}
	return m, nil
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("ipx dashboard") + "\n")
	b.WriteString(labelStyle.Render(m.addr) + "\n\n")
	if m.err != nil {
		b.WriteString(errStyle.Render("connection error: "+m.err.Error()) + "\n")
	}
	b.WriteString(row("session", m.last.SessionID))
	b.WriteString(row("updated", m.last.Time))
	b.WriteString(row("requests", fmt.Sprintf("%d", m.last.Requests)))
	b.WriteString(row("cache hits", fmt.Sprintf("%d", m.last.CacheHits)))
	b.WriteString(row("cache misses", fmt.Sprintf("%d", m.last.CacheMiss)))
	b.WriteString(row("errors", fmt.Sprintf("%d", m.last.Errors)))
	b.WriteString(row("log rotations", fmt.Sprintf("%d", m.last.LogRotations)))
	b.WriteString("\n" + labelStyle.Render("press q to quit"))
	return b.String()
}

func row(label, value string) string {
	return fmt.Sprintf("%s %s\n", labelStyle.Render(label+":"), valueStyle.Render(value))
}

func toWSURL(addr string) string {
	a := strings.TrimSpace(addr)
	if !strings.Contains(a, "://") {
		a = "http://" + a
	}
	u, err := url.Parse(a)
	if err != nil {
		return "ws://" + addr + "/admin/ws"
	}
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = "/admin/ws"
	return u.String()
}
