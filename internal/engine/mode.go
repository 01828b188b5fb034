package engine

import "fmt"

// Mode is the pluggable rule-variant strategy. Exactly one Mode instance is
// selected at match init and consulted by the resolver for attack permission
// and death interception, and by the tick loop for mode-specific timers.
type Mode interface {
	// Init runs once after the board and players exist.
	Init(e *Engine)
	// Update advances mode-specific timers by dt virtual milliseconds.
	Update(e *Engine, dt VirtualTime)
	// HandleDeath may intercept a lethal hit on victim. Returning true
	// suppresses the standard kill/loot resolution entirely.
	HandleDeath(victim, attacker *Unit, e *Engine) bool
	// CanAttack gates a prospective attack between two live units.
	CanAttack(attacker, target *Unit, e *Engine) bool
	// HandleElimination observes a player elimination (roster cascade done).
	HandleElimination(p *Player, e *Engine)
	// HUD returns the mode-specific label/value/colour for the presentation
	// layer.
	HUD(e *Engine) HUDData
}

// newMode is the dispatch table from config tag to strategy. Unknown modes
// are a caller contract violation and fail match init.
func newMode(tag GameMode) (Mode, error) {
	switch tag {
	case ModeStandard, ModeBullet:
		return &standardMode{}, nil
	case ModeAdventure:
		return &adventureMode{}, nil
	case ModeZombies:
		return &zombiesMode{}, nil
	case ModeDiplomacy:
		return &diplomacyMode{}, nil
	case ModeSandbox:
		return &sandboxMode{}, nil
	default:
		return nil, fmt.Errorf("engine: unknown game mode %d", tag)
	}
}

// standardMode has no special rules: any cross-team attack is permitted
// (allies excepted) and deaths always fall through to standard loot. It also
// owns the periodic vault drop shared with adventure.
type standardMode struct {
	vaultClock VirtualTime
}

func (m *standardMode) Init(e *Engine) {}

func (m *standardMode) Update(e *Engine, dt VirtualTime) {
	m.vaultClock += dt
	if interval := VirtualTime(e.bal.Economy.VaultIntervalMs); interval > 0 && m.vaultClock >= interval {
		m.vaultClock = 0
		e.spawnVault()
	}
}

func (m *standardMode) HandleDeath(victim, attacker *Unit, e *Engine) bool {
	return false
}

func (m *standardMode) CanAttack(attacker, target *Unit, e *Engine) bool {
	if attacker.Owner == target.Owner {
		return false
	}
	ap := e.store.Player(attacker.Owner)
	if ap != nil && ap.AlliedWith(target.Owner) {
		return false
	}
	return true
}

func (m *standardMode) HandleElimination(p *Player, e *Engine) {}

func (m *standardMode) HUD(e *Engine) HUDData {
	return HUDData{Label: "ALIVE", Value: fmt.Sprintf("%d", e.AliveAgents()), Color: "#e8e8e8"}
}

// adventureMode is standard rules with a vault-rich board: more frequent
// drops and an opening seeding of vaults, which the AI prioritises.
type adventureMode struct {
	standardMode
}

func (m *adventureMode) Init(e *Engine) {
	for i := 0; i < e.bal.Economy.AdventureVaults; i++ {
		e.spawnVault()
	}
}

func (m *adventureMode) Update(e *Engine, dt VirtualTime) {
	// Vaults drop at double cadence in adventure.
	m.standardMode.Update(e, dt*2)
}

// Objective sends bots at the nearest visible vault before any rival.
func (m *adventureMode) Objective(e *Engine, p *Player) (GridPos, bool) {
	return e.nearestObjectiveUnit(p, func(u *Unit) bool { return u.Type == Vault })
}

func (m *adventureMode) HUD(e *Engine) HUDData {
	n := 0
	for _, u := range e.store.Units() {
		if !u.Dead && u.Type == Vault {
			n++
		}
	}
	return HUDData{Label: "VAULTS", Value: fmt.Sprintf("%d", n), Color: "#e0c040"}
}
