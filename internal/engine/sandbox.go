package engine

// sandboxMode is the free-build playground. The clock starts frozen so the
// board can be painted in peace; toggling simulation releases every bot with
// an aggressive temperament and near-zero think delay.
type sandboxMode struct{}

func (m *sandboxMode) Init(e *Engine) {
	e.clock.SetPaused(true)
	e.sandboxSim = false
	// Painting starts from a blank slate: the deployed armies and their
	// material are cleared, leaving only terrain.
	for _, u := range e.store.Units() {
		if u.Dead {
			continue
		}
		if p := e.store.Player(u.Owner); p != nil && p.NPC {
			continue
		}
		e.store.KillUnit(u)
	}
	for _, p := range e.store.Players() {
		if !p.NPC {
			p.Material = 0
		}
	}
}

func (m *sandboxMode) Update(e *Engine, dt VirtualTime) {}

func (m *sandboxMode) HandleDeath(victim, attacker *Unit, e *Engine) bool {
	return false
}

func (m *sandboxMode) CanAttack(attacker, target *Unit, e *Engine) bool {
	return attacker.Owner != target.Owner
}

func (m *sandboxMode) HandleElimination(p *Player, e *Engine) {}

func (m *sandboxMode) HUD(e *Engine) HUDData {
	if e.sandboxSim {
		return HUDData{Label: "SIM", Value: "RUNNING", Color: "#70d070"}
	}
	return HUDData{Label: "SIM", Value: "PAUSED", Color: "#c0c0c0"}
}

// SetSimulate flips the sandbox between edit and battle. Entering battle
// unfreezes the clock and makes every bot hunt at once.
func (e *Engine) SetSimulate(on bool) {
	if e.modeTag != ModeSandbox || e.sandboxSim == on {
		return
	}
	e.sandboxSim = on
	e.clock.SetPaused(!on)
	if on {
		for _, p := range e.store.Players() {
			if p.Human || p.NPC || p.Eliminated {
				continue
			}
			p.Personality = Aggressor
		}
		e.log.Info("sandbox simulation started")
	} else {
		e.log.Info("sandbox simulation paused")
	}
}

// PaintUnit places a unit of the given type for owner at pos. Only in
// sandbox mode, only on free passable tiles.
func (e *Engine) PaintUnit(owner PlayerID, t UnitType, pos GridPos) bool {
	if e.modeTag != ModeSandbox {
		return false
	}
	if !e.onBoard(pos) || e.terrain.IsBlocking(pos.X, pos.Y) {
		return false
	}
	if e.store.UnitAt(pos) != nil {
		return false
	}
	p := e.store.Player(owner)
	if p == nil {
		return false
	}
	u := e.store.SpawnUnit(owner, t, pos)
	e.addMaterial(p, u.Type.MaterialValue(), e.clock.Now())
	e.emit(Event{Type: EventSpawn, Pos: pos, Actor: owner, Unit: u.ID})
	return true
}

// EraseUnit removes whatever stands on pos. Kings are erasable too; the
// sandbox never cascades eliminations for it.
func (e *Engine) EraseUnit(pos GridPos) bool {
	if e.modeTag != ModeSandbox {
		return false
	}
	u := e.store.UnitAt(pos)
	if u == nil {
		return false
	}
	if p := e.store.Player(u.Owner); p != nil {
		e.addMaterial(p, -u.Type.MaterialValue(), e.clock.Now())
	}
	e.store.KillUnit(u)
	return true
}
