package engine

import "sort"

// Alliance and war relations. Alliances are kept as cliques: every member of
// a merged group lists every other member in Allies, so membership checks
// never need graph walks. Wars are symmetric pair sets propagated across both
// packs at declaration time.

// allianceGroup returns the player and every ally reachable from it,
// sorted by ID for deterministic iteration.
func (e *Engine) allianceGroup(id PlayerID) []PlayerID {
	seen := map[PlayerID]bool{id: true}
	queue := []PlayerID{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		p := e.store.Player(cur)
		if p == nil {
			continue
		}
		for ally := range p.Allies {
			if !seen[ally] {
				seen[ally] = true
				queue = append(queue, ally)
			}
		}
	}
	group := make([]PlayerID, 0, len(seen))
	for pid := range seen {
		group = append(group, pid)
	}
	sort.Slice(group, func(i, j int) bool { return group[i] < group[j] })
	return group
}

func (e *Engine) kingsInRange(a, b PlayerID) bool {
	ka := e.store.LiveKing(a)
	kb := e.store.LiveKing(b)
	if ka == nil || kb == nil {
		return false
	}
	return ka.Pos.Chebyshev(kb.Pos) <= e.bal.Diplomacy.ProximityRadius
}

func (e *Engine) diplomacyActive(a, b PlayerID) bool {
	if e.modeTag != ModeDiplomacy || a == b {
		return false
	}
	pa, pb := e.store.Player(a), e.store.Player(b)
	if pa == nil || pb == nil || pa.Eliminated || pb.Eliminated || pa.NPC || pb.NPC {
		return false
	}
	return true
}

// FormAlliance merges the two players' alliance groups into one clique.
// Kings must be close enough to shake on it. Any standing wars between the
// merging groups are purged, then every standing war of either group is
// inherited by the whole merged pack.
func (e *Engine) FormAlliance(a, b PlayerID) bool {
	if !e.diplomacyActive(a, b) || !e.kingsInRange(a, b) {
		return false
	}
	pa := e.store.Player(a)
	if pa.AlliedWith(b) {
		return false
	}
	merged := append(e.allianceGroup(a), e.allianceGroup(b)...)
	inGroup := make(map[PlayerID]bool, len(merged))
	for _, pid := range merged {
		inGroup[pid] = true
	}
	for _, pid := range merged {
		p := e.store.Player(pid)
		if p == nil {
			continue
		}
		for _, other := range merged {
			if other != pid {
				p.Allies[other] = true
				delete(p.Enemies, other)
			}
		}
		p.Diplomacy = DiploAllied
	}
	// Inherit each other's wars pack-wide.
	enemies := map[PlayerID]bool{}
	for _, pid := range merged {
		p := e.store.Player(pid)
		for en := range p.Enemies {
			if !inGroup[en] {
				enemies[en] = true
			}
		}
	}
	for _, pid := range merged {
		p := e.store.Player(pid)
		for en := range enemies {
			p.Enemies[en] = true
			if ep := e.store.Player(en); ep != nil {
				ep.Enemies[pid] = true
			}
		}
	}
	for _, pid := range []PlayerID{a, b} {
		if king := e.store.LiveKing(pid); king != nil {
			e.emit(Event{Type: EventAlliance, Pos: king.Pos, Actor: a, Victim: b})
		}
	}
	e.speak(a, chatAllianceFormed)
	e.speak(b, chatAllianceFormed)
	e.log.Info("alliance formed", "a", playerName(e.store.Player(a)), "b", playerName(e.store.Player(b)), "size", len(merged))
	return true
}

// DeclareWar sets symmetric hostility between the full packs of both sides
// and severs any alliances that cross the new front line. Idle members of
// either pack pick up a vendetta against the opposing principal so the war
// starts immediately rather than on the next roaming retarget.
func (e *Engine) DeclareWar(a, b PlayerID) bool {
	if !e.diplomacyActive(a, b) {
		return false
	}
	packA := e.allianceGroup(a)
	packB := e.allianceGroup(b)
	inB := make(map[PlayerID]bool, len(packB))
	for _, pid := range packB {
		inB[pid] = true
	}
	for _, pid := range packA {
		if inB[pid] {
			// Declaring war inside one's own pack means leaving it first.
			e.leaveAlliance(a)
			packA = []PlayerID{a}
			packB = e.allianceGroup(b)
			break
		}
	}
	for _, pa := range packA {
		ppa := e.store.Player(pa)
		if ppa == nil {
			continue
		}
		for _, pb := range packB {
			ppb := e.store.Player(pb)
			if ppb == nil {
				continue
			}
			delete(ppa.Allies, pb)
			delete(ppb.Allies, pa)
			ppa.Enemies[pb] = true
			ppb.Enemies[pa] = true
		}
		ppa.Diplomacy = DiploAtWar
	}
	for _, pb := range packB {
		if p := e.store.Player(pb); p != nil {
			p.Diplomacy = DiploAtWar
		}
	}
	e.assignVendettas(packA, b)
	e.assignVendettas(packB, a)
	if king := e.store.LiveKing(a); king != nil {
		e.emit(Event{Type: EventWar, Pos: king.Pos, Actor: a, Victim: b})
	}
	e.speak(a, chatWarDeclared)
	e.log.Info("war declared", "a", playerName(e.store.Player(a)), "b", playerName(e.store.Player(b)))
	return true
}

// BreakAlliance is a war declaration against a current ally.
func (e *Engine) BreakAlliance(a, b PlayerID) bool {
	pa := e.store.Player(a)
	if pa == nil || !pa.AlliedWith(b) {
		return false
	}
	return e.DeclareWar(a, b)
}

func (e *Engine) leaveAlliance(id PlayerID) {
	p := e.store.Player(id)
	if p == nil {
		return
	}
	for ally := range p.Allies {
		if ap := e.store.Player(ally); ap != nil {
			delete(ap.Allies, id)
		}
	}
	p.Allies = map[PlayerID]bool{}
	if len(p.Enemies) == 0 {
		p.Diplomacy = DiploNeutral
	}
}

func (e *Engine) assignVendettas(pack []PlayerID, target PlayerID) {
	for _, pid := range pack {
		p := e.store.Player(pid)
		if p == nil || p.Human || p.AIState != AIRoaming {
			continue
		}
		p.AIState = AIVendetta
		p.TargetID = target
	}
}

// courtAlliances runs one matchmaking pass: every unallied bot proposes to
// the nearest fellow bot whose king stands within handshake range. The
// receiving side weighs the offer in HandleAllianceRequest; the human is
// never courted, only courting.
func (e *Engine) courtAlliances() {
	for _, pid := range e.botOrder {
		p := e.store.Player(pid)
		if p == nil || p.Eliminated || len(p.Allies) > 0 {
			continue
		}
		king := e.store.LiveKing(pid)
		if king == nil {
			continue
		}
		mate := NoPlayer
		bestDist := 0
		for _, q := range e.store.Players() {
			if q.ID == pid || q.Eliminated || q.NPC || q.Human || p.Enemies[q.ID] {
				continue
			}
			qk := e.store.LiveKing(q.ID)
			if qk == nil {
				continue
			}
			d := king.Pos.Chebyshev(qk.Pos)
			if d > e.bal.Diplomacy.ProximityRadius {
				continue
			}
			if mate == NoPlayer || d < bestDist || (d == bestDist && q.ID < mate) {
				mate, bestDist = q.ID, d
			}
		}
		if mate != NoPlayer {
			e.HandleAllianceRequest(mate, pid)
		}
	}
}

// nearestDiplomat returns the living agent whose king stands closest to id's
// king. inRangeOnly restricts to handshake range; skipAllies drops current
// allies from consideration.
func (e *Engine) nearestDiplomat(id PlayerID, inRangeOnly, skipAllies bool) PlayerID {
	king := e.store.LiveKing(id)
	p := e.store.Player(id)
	if king == nil || p == nil {
		return NoPlayer
	}
	best := NoPlayer
	bestDist := 0
	for _, q := range e.store.Players() {
		if q.ID == id || q.Eliminated || q.NPC {
			continue
		}
		if skipAllies && p.AlliedWith(q.ID) {
			continue
		}
		qk := e.store.LiveKing(q.ID)
		if qk == nil {
			continue
		}
		d := king.Pos.Chebyshev(qk.Pos)
		if inRangeOnly && d > e.bal.Diplomacy.ProximityRadius {
			continue
		}
		if best == NoPlayer || d < bestDist || (d == bestDist && q.ID < best) {
			best, bestDist = q.ID, d
		}
	}
	return best
}

// ProposeAlliance routes a human alliance offer to the nearest unallied bot
// king in handshake range; the bot decides. False when nobody is close
// enough or the bot declines.
func (e *Engine) ProposeAlliance() bool {
	if e.humanID == NoPlayer {
		return false
	}
	target := e.nearestDiplomat(e.humanID, true, true)
	if target == NoPlayer {
		return false
	}
	return e.HandleAllianceRequest(target, e.humanID)
}

// DeclareWarNearest has the human turn on the closest agent. Against a
// current ally this is a clean break-and-declare.
func (e *Engine) DeclareWarNearest() bool {
	if e.humanID == NoPlayer {
		return false
	}
	target := e.nearestDiplomat(e.humanID, false, false)
	if target == NoPlayer {
		return false
	}
	if p := e.store.Player(e.humanID); p != nil && p.AlliedWith(target) {
		return e.BreakAlliance(e.humanID, target)
	}
	return e.DeclareWar(e.humanID, target)
}

// HandleAllianceRequest resolves a human (or scripted) alliance offer against
// a bot. The bot weighs the armistice clock, its own army size, and its
// personality; turtles pair up readily, aggressors mostly go it alone.
func (e *Engine) HandleAllianceRequest(bot, requester PlayerID) bool {
	if !e.diplomacyActive(bot, requester) || !e.kingsInRange(bot, requester) {
		return false
	}
	if len(e.allianceGroup(bot))+len(e.allianceGroup(requester)) > e.bal.Diplomacy.MaxAllianceSize {
		return false
	}
	p := e.store.Player(bot)
	chance := e.bal.Diplomacy.AcceptBase
	if e.ArmisticeRemaining() > 0 {
		chance += e.bal.Diplomacy.AcceptArmisticeBonus
	}
	if len(e.store.LiveRoster(bot)) < e.bal.Diplomacy.SmallArmyThreshold {
		chance += e.bal.Diplomacy.AcceptSmallArmyBonus
	}
	switch p.Personality {
	case Turtle:
		chance += e.bal.Diplomacy.AcceptTurtleBonus
	case Aggressor:
		chance -= e.bal.Diplomacy.AcceptAggressorMalus
	}
	if e.rng.Float64() >= chance {
		e.speak(bot, chatAllianceRejected)
		return false
	}
	return e.FormAlliance(bot, requester)
}
