package feedback

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/mcdev12/reactionduel/go/internal/game"
	"github.com/mcdev12/reactionduel/go/internal/protocol"
)

// TerminalPresenter draws the spectator screen with pterm. With a live area
// the screen is redrawn in place; otherwise each frame is appended to out.
type TerminalPresenter struct {
	board *Board
	area  *pterm.AreaPrinter
	out   io.Writer
}

// NewTerminalPresenter starts an in-place area when out is nil.
func NewTerminalPresenter(out io.Writer) (*TerminalPresenter, error) {
	p := &TerminalPresenter{board: NewBoard(), out: out}
	if out == nil {
		area, err := pterm.DefaultArea.WithFullscreen().Start()
		if err != nil {
			return nil, fmt.Errorf("start terminal area: %w", err)
		}
		p.area = area
	}
	return p, nil
}

func (p *TerminalPresenter) Stop() {
	if p.area != nil {
		p.area.Stop()
	}
}

func (p *TerminalPresenter) ShowIdle()           { p.draw(p.board.ShowIdle()) }
func (p *TerminalPresenter) ShowCountdown(n int) { p.draw(p.board.ShowCountdown(n)) }
func (p *TerminalPresenter) ShowGo()             { p.draw(p.board.ShowGo()) }

func (p *TerminalPresenter) ShowResults(r game.ShowResults) { p.draw(p.board.ShowResults(r)) }

func (p *TerminalPresenter) ShowFinal(f game.ShowFinal) { p.draw(p.board.ShowFinal(f)) }

func (p *TerminalPresenter) SetPlayerActive(player int, active bool) {
	p.draw(p.board.SetPlayerActive(player, active))
}

func (p *TerminalPresenter) draw(v View) {
	screen := Render(v)
	if p.area != nil {
		p.area.Update(screen)
		return
	}
	fmt.Fprintln(p.out, screen)
}

// Render lays out one view as terminal panels.
func Render(v View) string {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)

	var title, body string
	switch v.Screen {
	case ScreenCountdown:
		title = pterm.LightYellow("|GET READY|")
		body = pterm.LightYellow(fmt.Sprintf("%d", v.Countdown))
	case ScreenGo:
		title = pterm.LightGreen("|GO|")
		body = pterm.BgGreen.Sprintf("  PRESS NOW  ")
	case ScreenResults:
		title = pterm.LightCyan(fmt.Sprintf("|ROUND %d|", v.Round))
		body = winnerLine(v.Winner)
	case ScreenFinal:
		title = pterm.LightGreen("|GAME OVER|")
		body = championsLine(v.Champions)
	default:
		title = pterm.LightYellow("|REACTION DUEL|")
		body = pterm.Sprintfln("Waiting for the host")
	}

	var players []pterm.Panel
	for i := 0; i < game.MaxPlayers; i++ {
		if !v.Active[i] {
			continue
		}
		players = append(players, pterm.Panel{Data: playerBox(i, v)})
	}

	rows := [][]pterm.Panel{{{Data: pbox.WithTitle(title).WithTitleTopCenter().Sprint(body)}}}
	if len(players) > 0 {
		rows = append(rows, players)
	}
	out, err := pterm.DefaultPanel.WithPanels(rows).Srender()
	if err != nil {
		return body
	}
	return out
}

func playerBox(i int, v View) string {
	pbox := pterm.DefaultBox.WithHorizontalPadding(2)
	r := v.Players[i]

	var status string
	switch {
	case v.Screen != ScreenResults && v.Screen != ScreenFinal:
		status = pterm.LightGreen("ready")
	case !r.Finished:
		status = pterm.Gray("no report")
	case r.Penalized():
		status = pterm.LightRed("penalty")
	case i == v.Winner:
		status = pterm.BgGreen.Sprintf("%d ms", r.Time)
	default:
		status = fmt.Sprintf("%d ms", r.Time)
	}

	name := protocol.PeerRole(i).String()
	return pbox.WithTitle(name).WithTitleTopLeft().Sprintf("%s\nwins: %d", status, v.Scores[i])
}

func winnerLine(winner int) string {
	if winner == game.NoWinner {
		return pterm.LightRed("No winner")
	}
	return pterm.Sprintfln("%s wins!", pterm.LightCyan(protocol.PeerRole(winner).String()))
}

func championsLine(champions []int) string {
	if len(champions) == 0 {
		return pterm.LightRed("Nobody scored")
	}
	names := make([]string, len(champions))
	for i, c := range champions {
		names[i] = pterm.LightCyan(protocol.PeerRole(c).String())
	}
	return pterm.Sprintfln("Champion: %s", strings.Join(names, ", "))
}
