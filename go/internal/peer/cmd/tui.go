package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mcdev12/reactionduel/go/internal/game"
	"github.com/mcdev12/reactionduel/go/internal/node"
	"github.com/mcdev12/reactionduel/go/internal/protocol"
)

const redrawEvery = 50 * time.Millisecond

type (
	screenMsg    string
	countdownMsg int
	reportMsg    uint16
	buzzMsg      time.Duration
	redrawMsg    time.Time
)

const (
	screenIdle      screenMsg = "idle"
	screenCountdown screenMsg = "countdown"
	screenGo        screenMsg = "go"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")).Padding(0, 1)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#7D56F4")).Padding(1, 4).Width(36).Align(lipgloss.Center)
	goStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	waitStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	badStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// model is the handheld screen. It only reacts to messages sent by the node
// loop, so it never reads peer state directly.
type model struct {
	role    protocol.Role
	buttons *node.Buttons

	screen    screenMsg
	countdown int
	last      uint16
	reported  bool
	buzzUntil time.Time
	now       time.Time
}

func newModel(role protocol.Role, buttons *node.Buttons) model {
	return model{role: role, buttons: buttons, screen: screenIdle}
}

func redraw() tea.Cmd {
	return tea.Tick(redrawEvery, func(t time.Time) tea.Msg { return redrawMsg(t) })
}

func (m model) Init() tea.Cmd {
	return redraw()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "enter":
			m.buttons.Tap()
		case "s":
			m.buttons.Shake(1)
		}
	case screenMsg:
		m.screen = msg
		if msg == screenGo {
			m.reported = false
		}
	case countdownMsg:
		m.screen = screenCountdown
		m.countdown = int(msg)
		m.reported = false
	case reportMsg:
		m.last = uint16(msg)
		m.reported = true
		m.screen = screenIdle
	case buzzMsg:
		m.buzzUntil = time.Now().Add(time.Duration(msg))
	case redrawMsg:
		m.now = time.Time(msg)
		return m, redraw()
	}
	return m, nil
}

func (m model) View() string {
	var body string
	switch m.screen {
	case screenGo:
		body = goStyle.Render("GO! PRESS!")
	case screenCountdown:
		body = waitStyle.Render(fmt.Sprintf("%d", m.countdown))
	default:
		body = "waiting for host"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("REACTION DUEL " + strings.ToUpper(m.role.String())))
	b.WriteString("\n\n")

	lines := []string{body}
	if m.reported {
		lines = append(lines, "", resultLine(m.last))
	}
	if m.now.Before(m.buzzUntil) {
		lines = append(lines, "", badStyle.Render("~ bzzz ~"))
	}
	b.WriteString(boxStyle.Render(strings.Join(lines, "\n")))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("space: press • s: shake • q: quit"))
	b.WriteString("\n")
	return b.String()
}

func resultLine(ms uint16) string {
	if ms == protocol.PenaltyTime {
		return badStyle.Render("penalty")
	}
	return fmt.Sprintf("last: %d ms", ms)
}

// programSink forwards node output to the running program.
type programSink struct {
	p *tea.Program
}

func (s programSink) ShowIdle()                    { s.p.Send(screenIdle) }
func (s programSink) ShowCountdown(n int)          { s.p.Send(countdownMsg(n)) }
func (s programSink) ShowGo()                      { s.p.Send(screenGo) }
func (s programSink) ShowResults(game.ShowResults) {}
func (s programSink) ShowFinal(game.ShowFinal)     {}
func (s programSink) SetPlayerActive(int, bool)    {}
func (s programSink) Vibrate(d time.Duration)      { s.p.Send(buzzMsg(d)) }
func (s programSink) Report(ms uint16)             { s.p.Send(reportMsg(ms)) }
