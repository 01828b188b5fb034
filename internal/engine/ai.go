package engine

import "sort"

// duelHonorFloor is the population at or below which bots stop respecting
// each other's duels with the human and pile in.
const duelHonorFloor = 4

// Bot decision loop. Every activation a bot does exactly one thing: save its
// king, buy a unit, or move a single piece. Which piece moves where falls out
// of a weighted scorer; the weights live in the balance file so tuning never
// means recompiling.

// botUpdate runs one bot's full think cycle. Called from the tick loop on a
// time-sliced cursor so only a fifth of the population thinks per tick.
func (e *Engine) botUpdate(p *Player) {
	now := e.clock.Now()
	if now < p.NextAction {
		return
	}
	if e.modeTag == ModeSandbox && !e.sandboxSim {
		return
	}

	defer func() {
		p.NextAction = now + e.effectiveDelay(p)
	}()

	if e.safetyChecksEnabled() && e.kingSafetyMove(p, now) {
		return
	}
	e.botPurchase(p)
	e.acquireTarget(p)
	e.tacticalMove(p, now)
}

// safetyChecksEnabled reports whether caution runs at all this match moment:
// the easiest difficulty never second-guesses, and total war strips caution
// from everyone.
func (e *Engine) safetyChecksEnabled() bool {
	return e.cfg.Difficulty != Easy && !e.director.TotalWar()
}

// effectiveDelay is the think interval until the bot's next activation.
// Bots far from their target skip the delay outright so empty ground is
// crossed quickly; bots fighting the human never think faster than the
// human-facing floor, while bot-on-bot fights run at a flat pace that
// vanishes in sudden death.
func (e *Engine) effectiveDelay(p *Player) VirtualTime {
	if e.attract {
		return 0
	}
	if e.modeTag == ModeSandbox && e.sandboxSim {
		return VirtualTime(e.bal.AI.SandboxDelayMs)
	}
	var base VirtualTime
	humanFacing := e.humanID != NoPlayer && p.TargetID == e.humanID
	if humanFacing {
		switch e.cfg.Difficulty {
		case Easy:
			base = VirtualTime(e.bal.AI.DelayEasyMs)
		case Hard:
			base = VirtualTime(e.bal.AI.DelayHardMs)
		default:
			base = VirtualTime(e.bal.AI.DelayMediumMs)
		}
		// Late phases tighten up on the human too.
		if e.director.phase >= PhaseConvergence {
			base *= 0.6
		}
	} else {
		base = VirtualTime(e.bal.AI.BotDelayMs)
		if e.director.phase == PhaseSuddenDeath {
			return 0
		}
	}
	if p.Personality == Aggressor {
		base *= 0.8
	}
	if d := e.targetDistance(p); d > e.bal.AI.TravelDistance {
		// Travel APM: a faraway goal means open ground, not a fight.
		return 0
	}
	if humanFacing && base < VirtualTime(e.bal.AI.HumanFloorMs) {
		base = VirtualTime(e.bal.AI.HumanFloorMs)
	}
	return base
}

func (e *Engine) targetDistance(p *Player) int {
	tk := e.store.LiveKing(p.TargetID)
	k := e.store.LiveKing(p.ID)
	if tk == nil || k == nil {
		return 0
	}
	return k.Pos.Manhattan(tk.Pos)
}

// kingSafetyMove pre-empts everything else: a threatened king either steps
// to a safe tile or a defender captures the attacker. Returns true if the
// activation was spent on it.
func (e *Engine) kingSafetyMove(p *Player, now VirtualTime) bool {
	king := e.store.LiveKing(p.ID)
	if king == nil {
		return false
	}
	threat := e.tileThreatenedBy(king.Pos, p.ID)
	if threat == nil {
		return false
	}
	e.speak(p.ID, chatPanic)
	// Counter-capture first: any piece that can take the attacker, takes it.
	for _, uid := range e.store.LiveRoster(p.ID) {
		u := e.store.Unit(uid)
		if u == nil || u.Dead {
			continue
		}
		for _, mv := range e.ValidMoves(u, now, true) {
			if mv == threat.Pos {
				return e.moveUnit(u, mv, now)
			}
		}
	}
	// Otherwise run: pick the king move that is off the attacker's menu.
	best := GridPos{-1, -1}
	bestDist := -1
	for _, mv := range e.ValidMoves(king, now, true) {
		if e.tileThreatenedBy(mv, p.ID) != nil {
			continue
		}
		d := mv.Chebyshev(threat.Pos)
		if d > bestDist {
			best, bestDist = mv, d
		}
	}
	if bestDist >= 0 {
		return e.moveUnit(king, best, now)
	}
	return false
}

// acquireTarget walks the priority chain and leaves the result in TargetID.
func (e *Engine) acquireTarget(p *Player) {
	if p.AIState == AIVendetta {
		if t := e.store.Player(p.TargetID); t != nil && !t.Eliminated {
			return
		}
		p.AIState = AIRoaming
		p.TargetID = NoPlayer
	}

	if t := e.store.Player(p.TargetID); t != nil && !t.Eliminated {
		// No churn while the current target lives and the bot isn't idle.
		if p.AIState != AIRoaming || e.rng.Float64() > e.bal.AI.RetargetChance {
			return
		}
	}

	king := e.store.LiveKing(p.ID)
	if king == nil {
		return
	}
	type cand struct {
		id    PlayerID
		score float64
	}
	// Duel honor: bots already brawling with the human are off the menu,
	// until so few remain that everyone fights everyone.
	honor := e.AliveAgents() > duelHonorFloor
	var cands []cand
	for _, q := range e.store.Players() {
		if q.ID == p.ID || q.Eliminated || q.NPC || p.AlliedWith(q.ID) {
			continue
		}
		if honor && q.ID != e.humanID && q.TargetID == e.humanID {
			continue
		}
		qk := e.store.LiveKing(q.ID)
		if qk == nil {
			continue
		}
		dist := king.Pos.Manhattan(qk.Pos)
		if !e.director.InfiniteVision() && dist > e.bal.AI.VisionRange {
			continue
		}
		score := float64(dist) * e.bal.AI.TargetDistanceWeight
		if q.Human {
			score -= e.bal.AI.HumanTargetBonus * float64(e.cfg.Difficulty)
			if score < 0 {
				score = 0
			}
		}
		score -= float64(q.Material) * e.bal.AI.WeakTargetWeight
		cands = append(cands, cand{q.ID, score})
	}
	if len(cands) == 0 {
		// Manhunt: nearest living agent, vision be damned.
		p.TargetID = e.nearestAgent(p.ID, king.Pos)
		return
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score < cands[j].score
		}
		return cands[i].id < cands[j].id
	})
	// Weighted pick among the closest three keeps packs from dogpiling one
	// victim in lockstep.
	n := len(cands)
	if n > 3 {
		n = 3
	}
	roll := e.rng.Float64()
	switch {
	case roll < 0.6 || n == 1:
		p.TargetID = cands[0].id
	case roll < 0.85 || n == 2:
		p.TargetID = cands[1].id
	default:
		p.TargetID = cands[2].id
	}
}

func (e *Engine) nearestAgent(self PlayerID, from GridPos) PlayerID {
	best := NoPlayer
	bestDist := 0
	for _, q := range e.store.Players() {
		if q.ID == self || q.Eliminated || q.NPC {
			continue
		}
		qk := e.store.LiveKing(q.ID)
		if qk == nil {
			continue
		}
		d := from.Manhattan(qk.Pos)
		if best == NoPlayer || d < bestDist {
			best, bestDist = q.ID, d
		}
	}
	return best
}

// modeObjective is implemented by modes that put standing objectives on the
// board. Bots march on those ahead of any enemy agent.
type modeObjective interface {
	Objective(e *Engine, p *Player) (GridPos, bool)
}

// aiGoal is where the bot's army is marching this activation. Mode
// objectives (the horde, vault hoards) outrank agent targets.
func (e *Engine) aiGoal(p *Player) (GridPos, bool) {
	if m, ok := e.mode.(modeObjective); ok {
		if pos, found := m.Objective(e, p); found {
			return pos, true
		}
	}
	if tk := e.store.LiveKing(p.TargetID); tk != nil {
		return tk.Pos, true
	}
	if e.director.CenterGravity() {
		return GridPos{e.width / 2, e.height / 2}, true
	}
	return GridPos{}, false
}

// nearestObjectiveUnit scans for the closest live unit matching keep, within
// the bot's vision unless the director has opened the map up.
func (e *Engine) nearestObjectiveUnit(p *Player, keep func(*Unit) bool) (GridPos, bool) {
	king := e.store.LiveKing(p.ID)
	if king == nil {
		return GridPos{}, false
	}
	var best GridPos
	bestDist := -1
	for _, u := range e.store.Units() {
		if u.Dead || !keep(u) {
			continue
		}
		d := king.Pos.Manhattan(u.Pos)
		if !e.director.InfiniteVision() && d > e.bal.AI.VisionRange {
			continue
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = u.Pos, d
		}
	}
	return best, bestDist >= 0
}

// tacticalMove picks one piece and moves it. Pieces are offered in lane
// order (centre, left, right on successive activations) then by distance to
// the goal; small armies move their laggards first so the pack stays tight.
func (e *Engine) tacticalMove(p *Player, now VirtualTime) {
	goal, ok := e.aiGoal(p)
	if !ok {
		return
	}
	king := e.store.LiveKing(p.ID)
	if king == nil {
		return
	}

	lane := p.LanePhase
	p.LanePhase = (p.LanePhase + 1) % 3

	roster := e.store.LiveRoster(p.ID)
	var units []*Unit
	for _, uid := range roster {
		u := e.store.Unit(uid)
		if u == nil || u.Dead {
			continue
		}
		if !e.cooldownReady(u, now) {
			continue
		}
		if !e.inLane(u.Pos, king.Pos, goal, lane) && u.Type != King {
			continue
		}
		units = append(units, u)
	}
	if len(units) == 0 {
		return
	}
	tight := len(roster) <= e.bal.AI.TightPackSize
	sort.SliceStable(units, func(i, j int) bool {
		di, dj := units[i].Pos.Manhattan(goal), units[j].Pos.Manhattan(goal)
		if tight {
			return di > dj // laggards first keeps the pack together
		}
		return di < dj
	})

	for _, u := range units {
		if mv, score, found := e.bestMove(p, u, goal, now); found && score > e.bal.AI.MinMoveScore {
			e.moveUnit(u, mv, now)
			return
		}
	}
}

// inLane buckets a piece into one of three advance lanes by its lateral
// offset from the king-to-goal axis.
func (e *Engine) inLane(pos, from, goal GridPos, lane int) bool {
	dx, dy := goal.X-from.X, goal.Y-from.Y
	// Cross product sign of (goal-from) x (pos-from) says which side of the
	// axis the piece stands on.
	cross := dx*(pos.Y-from.Y) - dy*(pos.X-from.X)
	switch lane {
	case 1:
		return cross < 0
	case 2:
		return cross > 0
	default:
		return true // centre lane takes everyone
	}
}

// bestMove scores every legal move of u and returns the winner.
func (e *Engine) bestMove(p *Player, u *Unit, goal GridPos, now VirtualTime) (GridPos, float64, bool) {
	moves := e.ValidMoves(u, now, true)
	if len(moves) == 0 {
		return GridPos{}, 0, false
	}
	var best GridPos
	bestScore := 0.0
	found := false
	for _, mv := range moves {
		s := e.scoreMove(p, u, mv, goal)
		if !found || s > bestScore {
			best, bestScore, found = mv, s, true
		}
	}
	return best, bestScore, found
}

// scoreMove is the additive heuristic. Every term has a named weight in the
// balance file.
func (e *Engine) scoreMove(p *Player, u *Unit, mv GridPos, goal GridPos) float64 {
	ai := &e.bal.AI
	score := 0.0

	if victim := e.store.UnitAt(mv); victim != nil {
		val := float64(victim.Type.MaterialValue())
		if victim.Type == King {
			val = ai.KingCaptureValue
		}
		if victim.Type == Vault {
			val = ai.VaultCaptureValue
		}
		w := ai.CaptureWeight
		if e.director.TotalWar() {
			w *= ai.TotalWarCaptureFactor
		}
		score += val * w
		if e.cfg.Difficulty == Easy {
			// Easy bots are pure material goblins: any capture dominates.
			return score * ai.EasyGreedFactor
		}
	}

	// Local retarget: the nearest hostile to this piece dominates its pull,
	// so a flank skirmish is not abandoned for the army's distant goal.
	if foe := e.nearestHostileUnit(u.Pos, p); foe != nil {
		localGain := u.Pos.Manhattan(foe.Pos) - mv.Manhattan(foe.Pos)
		score += float64(localGain) * ai.LocalAlignWeight
	}

	gain := u.Pos.Manhattan(goal) - mv.Manhattan(goal)
	score += float64(gain) * ai.ApproachWeight

	if e.safetyChecksEnabled() && p.TargetID == e.humanID {
		if e.tileThreatenedBy(mv, p.ID) != nil {
			score -= float64(u.Type.MaterialValue()) * ai.ThreatPenalty
		}
	}

	friends := e.adjacentFriends(mv, p.ID, u.ID)
	if friends > 0 {
		score += ai.ShieldBonus
	}
	if friends > ai.StackLimit {
		score -= ai.StackPenalty * float64(friends-ai.StackLimit)
	}

	if u.Type == Knight && !e.director.TotalWar() && mv.X != goal.X && mv.Y != goal.Y {
		score += ai.FlankBonus
	}

	score += e.rng.Float64() * ai.JitterWeight
	return score
}

// nearestHostileUnit is the closest live unit p's pieces may lawfully hit:
// enemies, neutral vaults, the horde, but never allies.
func (e *Engine) nearestHostileUnit(from GridPos, p *Player) *Unit {
	var best *Unit
	bestDist := 0
	for _, u := range e.store.Units() {
		if u.Dead || u.Owner == p.ID || p.AlliedWith(u.Owner) {
			continue
		}
		d := from.Manhattan(u.Pos)
		if best == nil || d < bestDist {
			best, bestDist = u, d
		}
	}
	return best
}

func (e *Engine) adjacentFriends(pos GridPos, owner PlayerID, except UnitID) int {
	n := 0
	for _, off := range kingOffsets {
		u := e.store.UnitAt(GridPos{pos.X + off[0], pos.Y + off[1]})
		if u != nil && u.Owner == owner && u.ID != except {
			n++
		}
	}
	return n
}

// zombieUpdate shambles every horde unit toward its nearest living victim.
// The horde ignores lanes, scoring, and credits; hunger is the whole plan.
func (e *Engine) zombieUpdate() {
	now := e.clock.Now()
	horde := e.store.Player(e.zombieID)
	if horde == nil {
		return
	}
	if now < horde.NextAction {
		return
	}
	horde.NextAction = now + VirtualTime(e.bal.Zombies.ShambleDelayMs)

	for _, uid := range e.store.LiveRoster(e.zombieID) {
		z := e.store.Unit(uid)
		if z == nil || z.Dead || !e.cooldownReady(z, now) {
			continue
		}
		prey := e.nearestPrey(z.Pos)
		if prey == nil {
			continue
		}
		var best GridPos
		bestDist := -1
		for _, mv := range e.ValidMoves(z, now, true) {
			d := mv.Manhattan(prey.Pos)
			if bestDist < 0 || d < bestDist {
				best, bestDist = mv, d
			}
		}
		if bestDist >= 0 && bestDist < z.Pos.Manhattan(prey.Pos) {
			e.moveUnit(z, best, now)
		}
	}
}

func (e *Engine) nearestPrey(from GridPos) *Unit {
	var best *Unit
	bestDist := 0
	for _, u := range e.store.Units() {
		if u.Dead || u.Zombie || u.Type == Vault {
			continue
		}
		if p := e.store.Player(u.Owner); p == nil || p.NPC {
			continue
		}
		d := from.Manhattan(u.Pos)
		if best == nil || d < bestDist {
			best, bestDist = u, d
		}
	}
	return best
}
