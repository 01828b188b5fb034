package engine

// The director watches the body count and tightens the screws. Phases are a
// one-way ratchet keyed to live agents: as the field thins, bots see further,
// drift toward the centre, and finally abandon diplomacy altogether.

type DirectorPhase int

const (
	PhaseChaos DirectorPhase = iota
	PhaseHunt
	PhaseConvergence
	PhaseSuddenDeath
)

func (p DirectorPhase) String() string {
	switch p {
	case PhaseChaos:
		return "Chaos"
	case PhaseHunt:
		return "Hunt"
	case PhaseConvergence:
		return "Convergence"
	case PhaseSuddenDeath:
		return "SuddenDeath"
	default:
		return "Unknown"
	}
}

type director struct {
	phase        DirectorPhase
	subsidyClock VirtualTime
	boredomArmed bool
}

// InfiniteVision lifts the bot vision cap from Hunt onward.
func (d *director) InfiniteVision() bool { return d.phase >= PhaseHunt }

// CenterGravity biases roaming bots toward the board centre from
// Convergence onward.
func (d *director) CenterGravity() bool { return d.phase >= PhaseConvergence }

// TotalWar voids alliances in the endgame: everyone is a valid target.
func (d *director) TotalWar() bool { return d.phase == PhaseSuddenDeath }

func (e *Engine) updateDirector(dt VirtualTime) {
	d := &e.director
	alive := e.AliveAgents()

	var want DirectorPhase
	switch {
	case alive <= e.bal.Director.SuddenDeathAt:
		want = PhaseSuddenDeath
	case alive <= e.bal.Director.ConvergenceAt:
		want = PhaseConvergence
	case alive <= e.bal.Director.HuntAt:
		want = PhaseHunt
	default:
		want = PhaseChaos
	}
	if want > d.phase {
		d.phase = want
		e.log.Info("director phase change", "phase", d.phase, "alive", alive)
	}

	if d.TotalWar() {
		for _, p := range e.store.Players() {
			if len(p.Allies) > 0 {
				p.Allies = map[PlayerID]bool{}
				p.Diplomacy = DiploAtWar
			}
		}
	}

	if alive < e.bal.Director.SubsidyBelow {
		d.subsidyClock += dt
		if d.subsidyClock >= VirtualTime(e.bal.Director.SubsidyIntervalMs) {
			d.subsidyClock = 0
			for _, p := range e.store.Players() {
				if p.Eliminated || p.NPC {
					continue
				}
				p.Credits += e.bal.Director.SubsidyCredits
			}
		}
	}

	e.checkBoredom()
}

// checkBoredom watches how long the human has gone without a fight. Past the
// threshold, two of the nearest hostile bots are pointed straight at them.
func (e *Engine) checkBoredom() {
	d := &e.director
	human := e.store.Player(e.humanID)
	if human == nil || human.Eliminated {
		return
	}
	idle := e.clock.Now() - e.humanLastCombat
	if idle < VirtualTime(e.bal.Director.BoredomMs) {
		d.boredomArmed = true
		return
	}
	if !d.boredomArmed {
		return
	}
	d.boredomArmed = false

	king := e.store.LiveKing(e.humanID)
	if king == nil {
		return
	}
	type cand struct {
		p    *Player
		dist int
	}
	var cands []cand
	for _, p := range e.store.Players() {
		if p.Human || p.NPC || p.Eliminated || p.AlliedWith(e.humanID) {
			continue
		}
		bk := e.store.LiveKing(p.ID)
		if bk == nil {
			continue
		}
		cands = append(cands, cand{p, bk.Pos.Manhattan(king.Pos)})
	}
	for i := 1; i < len(cands); i++ {
		for j := i; j > 0 && cands[j].dist < cands[j-1].dist; j-- {
			cands[j], cands[j-1] = cands[j-1], cands[j]
		}
	}
	sent := 0
	for _, c := range cands {
		if sent >= 2 {
			break
		}
		c.p.AIState = AIVendetta
		c.p.TargetID = e.humanID
		sent++
	}
	if sent > 0 {
		e.log.Debug("boredom redirect", "hunters", sent, "idle_ms", float64(idle))
	}
}

// Phase reports the current director phase, for the HUD and debug report.
func (e *Engine) Phase() DirectorPhase { return e.director.phase }
