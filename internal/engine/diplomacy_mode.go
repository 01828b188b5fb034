package engine

import "fmt"

// diplomacyMode enforces the opening armistice and the no-friendly-fire rule
// for alliances, and runs the periodic courtship pass that has lonely bots
// proposing to their neighbours. Alliance and war bookkeeping itself lives
// in diplomacy.go.
type diplomacyMode struct {
	armistice  VirtualTime // remaining, counts down to 0
	courtClock VirtualTime
}

func (m *diplomacyMode) Init(e *Engine) {
	m.armistice = VirtualTime(e.bal.Diplomacy.ArmisticeMs)
}

func (m *diplomacyMode) Update(e *Engine, dt VirtualTime) {
	if m.armistice > 0 {
		m.armistice -= dt
		if m.armistice <= 0 {
			m.armistice = 0
			if e.log != nil {
				e.log.Info("armistice over")
			}
		}
	}
	m.courtClock += dt
	if interval := VirtualTime(e.bal.Diplomacy.CheckIntervalMs); interval > 0 && m.courtClock >= interval {
		m.courtClock = 0
		e.courtAlliances()
	}
}

// HandleDeath turns an unprovoked kill into a formal war: blood between two
// parties with no standing relation drags both packs in.
func (m *diplomacyMode) HandleDeath(victim, attacker *Unit, e *Engine) bool {
	vp := e.store.Player(victim.Owner)
	ap := e.store.Player(attacker.Owner)
	if vp != nil && ap != nil && !vp.NPC && !ap.NPC {
		if !vp.Enemies[attacker.Owner] && !vp.AlliedWith(attacker.Owner) {
			e.DeclareWar(victim.Owner, attacker.Owner)
		}
	}
	return false
}

func (m *diplomacyMode) CanAttack(attacker, target *Unit, e *Engine) bool {
	if attacker.Owner == target.Owner {
		return false
	}
	// Neutral pieces (vaults) are fair game even under armistice.
	if tp := e.store.Player(target.Owner); tp != nil && tp.NPC {
		return true
	}
	if m.armistice > 0 {
		return false
	}
	ap := e.store.Player(attacker.Owner)
	if ap != nil && ap.AlliedWith(target.Owner) {
		return false
	}
	return true
}

func (m *diplomacyMode) HandleElimination(p *Player, e *Engine) {
	// Drop the eliminated agent from every live relation set so group merges
	// never resurrect it.
	for _, other := range e.store.Players() {
		delete(other.Allies, p.ID)
		delete(other.Enemies, p.ID)
	}
}

func (m *diplomacyMode) HUD(e *Engine) HUDData {
	if m.armistice > 0 {
		secs := int(m.armistice / 1000)
		return HUDData{Label: "ARMISTICE", Value: fmt.Sprintf("%d:%02d", secs/60, secs%60), Color: "#7fb4e0"}
	}
	wars := 0
	for _, p := range e.store.Players() {
		wars += len(p.Enemies)
	}
	return HUDData{Label: "WARS", Value: fmt.Sprintf("%d", wars/2), Color: "#d05050"}
}

// ArmisticeRemaining returns the virtual time left on the diplomacy-mode
// armistice, or 0 in other modes.
func (e *Engine) ArmisticeRemaining() VirtualTime {
	if m, ok := e.mode.(*diplomacyMode); ok {
		return m.armistice
	}
	return 0
}
