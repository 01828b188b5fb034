package engine

import (
	"fmt"
	"strings"
)

// DebugReport renders a plain-text situation report suitable for pasting
// into a bug ticket: match config, director state, the scoreboard, and a
// deep-dive on the selected unit if one is given.
func (e *Engine) DebugReport(selected UnitID) string {
	var sb strings.Builder

	sb.WriteString("=== MATCH DEBUG REPORT ===\n")
	fmt.Fprintf(&sb, "mode=%s map=%s difficulty=%s seed=%d\n",
		e.modeTag, e.cfg.MapType, e.cfg.Difficulty, e.cfg.Seed)
	fmt.Fprintf(&sb, "t=%.1fs scale=%.2f paused=%v state=%d\n",
		float64(e.Now())/1000, e.clock.Scale(), e.clock.Paused(), e.state)
	fmt.Fprintf(&sb, "phase=%s alive=%d board=%dx%d\n",
		e.director.phase, e.AliveAgents(), e.width, e.height)
	if rem := e.ArmisticeRemaining(); rem > 0 {
		fmt.Fprintf(&sb, "armistice=%.1fs\n", float64(rem)/1000)
	}
	if e.gameOver != nil {
		fmt.Fprintf(&sb, "game over: winner=%s horde=%v\n", e.gameOver.WinnerName, e.gameOver.HordeWin)
	}

	sb.WriteString("\n--- scoreboard ---\n")
	for _, row := range e.Leaderboard() {
		mark := " "
		if row.Human {
			mark = "*"
		}
		fmt.Fprintf(&sb, "%s %-12s mat=%-3d kills=%d\n", mark, row.Name, row.Material, row.Kills)
	}

	if u := e.store.Unit(selected); u != nil {
		sb.WriteString("\n--- selected unit ---\n")
		sb.WriteString(e.unitReport(u))
	}
	return sb.String()
}

func (e *Engine) unitReport(u *Unit) string {
	var sb strings.Builder
	owner := e.store.Player(u.Owner)
	fmt.Fprintf(&sb, "unit %d: %s at %v dead=%v zombie=%v\n", u.ID, u.Type, u.Pos, u.Dead, u.Zombie)
	fmt.Fprintf(&sb, "owner: %s (eliminated=%v)\n", playerName(owner), owner != nil && owner.Eliminated)
	if owner != nil && !owner.Human && !owner.NPC {
		fmt.Fprintf(&sb, "ai: state=%s target=%d personality=%s lane=%d\n",
			owner.AIState, owner.TargetID, owner.Personality, owner.LanePhase)
		fmt.Fprintf(&sb, "economy: credits=%d material=%d peak=%d\n",
			owner.Credits, owner.Material, owner.PeakMaterial)
	}
	now := e.Now()
	moves := e.ValidMoves(u, now, true)
	fmt.Fprintf(&sb, "cooldown ready=%v valid moves=%d\n", e.cooldownReady(u, now), len(moves))
	if threat := e.tileThreatenedBy(u.Pos, u.Owner); threat != nil {
		fmt.Fprintf(&sb, "threatened by %s of %s at %v\n",
			threat.Type, playerName(e.store.Player(threat.Owner)), threat.Pos)
	}
	return sb.String()
}
