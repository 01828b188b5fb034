package engine

import "fmt"

// zombiesMode maintains a wave timer that leaks zombie reinforcements onto
// the board rim, and converts kills by zombie-owned units instead of
// resolving them: the victim joins the horde with 1 HP and no loot is paid.
// Zombies may attack and be attacked by everyone, alliances included.
type zombiesMode struct {
	wave      int
	waveClock VirtualTime
}

func (m *zombiesMode) Init(e *Engine) {
	// Seed the first wave immediately so the pressure is visible from the
	// opening seconds.
	m.spawnWave(e)
}

func (m *zombiesMode) Update(e *Engine, dt VirtualTime) {
	m.waveClock += dt
	if m.waveClock >= VirtualTime(e.bal.Zombies.WaveIntervalMs) {
		m.waveClock = 0
		m.spawnWave(e)
	}
}

// spawnWave places the next wave of zombie pawns (and, from wave 3 on, the
// odd knight) on free rim tiles.
func (m *zombiesMode) spawnWave(e *Engine) {
	m.wave++
	count := e.bal.Zombies.WaveBase + m.wave*e.bal.Zombies.WaveGrowth
	for i := 0; i < count; i++ {
		pos, ok := e.randomRimTile()
		if !ok {
			break
		}
		t := Pawn
		if m.wave >= 3 && e.rng.Intn(4) == 0 {
			t = Knight
		}
		u := e.store.SpawnUnit(e.zombieID, t, pos)
		u.Zombie = true
		e.emit(Event{Type: EventSpawn, Pos: pos, Actor: e.zombieID, Unit: u.ID})
	}
	if e.log != nil {
		e.log.Debug("zombie wave", "wave", m.wave, "spawned", count)
	}
}

func (m *zombiesMode) HandleDeath(victim, attacker *Unit, e *Engine) bool {
	if attacker.Owner != e.zombieID {
		return false
	}
	if victim.Type == Vault {
		return false // vaults crumble normally, they cannot shamble
	}
	former := e.store.Player(victim.Owner)
	wasKing := victim.Type == King
	e.convertToZombie(victim)
	if wasKing {
		// A shambling king is still a dead king for its old owner.
		e.cascadeElimination(former, e.zombieID, e.clock.Now())
	}
	return true
}

// convertToZombie reassigns a unit to the zombie faction in place: ownership
// flips, HP resets to 1, and the death flag is cleared so the unit stays in
// the spatial index.
func (e *Engine) convertToZombie(victim *Unit) {
	now := e.clock.Now()
	if owner := e.store.Player(victim.Owner); owner != nil {
		e.addMaterial(owner, -victim.Type.MaterialValue(), now)
	}
	victim.Owner = e.zombieID
	victim.Zombie = true
	victim.HP = 1
	victim.Dead = false
	if z := e.store.Player(e.zombieID); z != nil {
		z.Units = append(z.Units, victim.ID)
	}
	e.emit(Event{Type: EventConversion, Pos: victim.Pos, Actor: e.zombieID, Unit: victim.ID})
}

func (m *zombiesMode) CanAttack(attacker, target *Unit, e *Engine) bool {
	if attacker.Owner == target.Owner {
		return false
	}
	// The horde ignores diplomacy in both directions.
	if attacker.Owner == e.zombieID || target.Owner == e.zombieID {
		return true
	}
	ap := e.store.Player(attacker.Owner)
	if ap != nil && ap.AlliedWith(target.Owner) {
		return false
	}
	return true
}

func (m *zombiesMode) HandleElimination(p *Player, e *Engine) {}

// Objective points every bot at the nearest shambler it can see. Thinning
// the horde outranks squabbling with other agents.
func (m *zombiesMode) Objective(e *Engine, p *Player) (GridPos, bool) {
	return e.nearestObjectiveUnit(p, func(u *Unit) bool { return u.Zombie })
}

func (m *zombiesMode) HUD(e *Engine) HUDData {
	return HUDData{Label: "WAVE", Value: fmt.Sprintf("%d", m.wave), Color: "#7fba4c"}
}
