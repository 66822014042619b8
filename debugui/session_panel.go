package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/planetdrop/session"
)

// ScoreGrant is what the score button adds.
const ScoreGrant = session.ScoreGrant

// SessionPanel shows the live game state and the debug actions: granting
// score, forcing the next rank and restarting.
type SessionPanel struct {
	game    Game
	lastErr string
}

func NewSessionPanel(game Game) SessionPanel {
	return SessionPanel{game: game}
}

func (sp *SessionPanel) Render() {
	if !imgui.BeginV("Session", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	g := sp.game
	imgui.Text(fmt.Sprintf("Score: %d (best %d)", g.Score(), g.Best()))
	imgui.Text(fmt.Sprintf("State: %s", stateLabel(g.GameOver(), g.InDanger())))
	imgui.Text(fmt.Sprintf("Shake: %s", shakeLabel(g.Shaking(), g.ShakeEnabled())))
	imgui.Text(fmt.Sprintf("Next: %s", g.Upcoming().Name))
	imgui.Text(fmt.Sprintf("Pieces: %d", len(g.Pieces())))

	imgui.Separator()
	if imgui.Button(fmt.Sprintf("+%d score", ScoreGrant)) {
		g.AddScore(ScoreGrant)
	}
	imgui.SameLine()
	if imgui.Button("Reset") {
		g.Reset()
	}

	if imgui.TreeNodeStr("Set next rank") {
		current := g.Upcoming().Index
		for _, rank := range g.Ranks().All() {
			label := fmt.Sprintf("%d %s %s", rank.Index, rank.Name, rank.Label)
			if imgui.SelectableBoolV(label, rank.Index == current, imgui.SelectableFlagsNone, imgui.NewVec2(0, 0)) {
				sp.setUpcoming(rank.Index)
			}
		}
		imgui.TreePop()
	}

	if sp.lastErr != "" {
		imgui.Separator()
		imgui.Text(sp.lastErr)
	}

	imgui.End()
}

func (sp *SessionPanel) setUpcoming(index int) {
	if err := sp.game.SetUpcoming(index); err != nil {
		sp.lastErr = err.Error()
		return
	}
	sp.lastErr = ""
}

func stateLabel(gameOver, inDanger bool) string {
	switch {
	case gameOver:
		return "GAME OVER"
	case inDanger:
		return "danger"
	default:
		return "playing"
	}
}

func shakeLabel(active, enabled bool) string {
	switch {
	case active:
		return "shaking"
	case enabled:
		return "ready"
	default:
		return "disabled"
	}
}
