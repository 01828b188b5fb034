package engine

// Unit is a single piece on the board. Units are owned by the Store and
// referenced everywhere else by UnitID; the spatial index maps position to id.
// A unit occupies at most one cell, and a dead unit is never indexed.
type Unit struct {
	ID           UnitID
	Owner        PlayerID
	Type         UnitType
	Pos          GridPos
	LastMoveTime VirtualTime
	HP           int
	Dead         bool
	Zombie       bool
}

// AIState is a bot's coarse behavioural mode.
type AIState int

const (
	AIRoaming  AIState = iota // free target acquisition
	AIVendetta                // locked onto an assigned target
	AIDefend                  // king under threat, repositioning
)

func (s AIState) String() string {
	switch s {
	case AIRoaming:
		return "roaming"
	case AIVendetta:
		return "vendetta"
	case AIDefend:
		return "defend"
	default:
		return "unknown"
	}
}

// DiplomacyState summarises an agent's current diplomatic posture.
type DiplomacyState int

const (
	DiploNeutral DiplomacyState = iota
	DiploAllied
	DiploAtWar
)

func (s DiplomacyState) String() string {
	switch s {
	case DiploNeutral:
		return "neutral"
	case DiploAllied:
		return "allied"
	case DiploAtWar:
		return "at_war"
	default:
		return "unknown"
	}
}

// Player is one competitor: the human agent or an autonomous bot. Players are
// created at match init and flagged eliminated rather than deleted, so every
// PlayerID stays valid for the whole match. NPC players (the neutral vault
// holder, the zombie faction) own units but never act, score, or count as
// survivors.
type Player struct {
	ID    PlayerID
	Name  string
	Color string
	Human bool
	NPC   bool

	Eliminated bool
	Units      []UnitID

	// Economy.
	Credits        int
	TotalCollected int

	// Score.
	Material     int
	PeakMaterial int
	ScoreStamp   VirtualTime // last material change, leaderboard tie-break

	// Combat counters.
	Kills       int
	KingsKilled int

	// AI bookkeeping.
	AIState      AIState
	TargetID     PlayerID
	Personality  Personality
	NextAction   VirtualTime // earliest virtual time of the next AI activation
	LastAIAction VirtualTime
	LanePhase    int // round-robins center → left → right
	LastChat     VirtualTime

	// Diplomacy.
	Allies    map[PlayerID]bool
	Enemies   map[PlayerID]bool
	Diplomacy DiplomacyState
}

// newPlayer builds a player with empty relation sets and no target.
func newPlayer(id PlayerID, name, color string) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		Color:    color,
		TargetID: NoPlayer,
		LastChat: -chatCooldownMs, // free to speak from the opening tick
		Allies:   make(map[PlayerID]bool),
		Enemies:  make(map[PlayerID]bool),
	}
}

// AlliedWith reports whether other is in this player's alliance group.
func (p *Player) AlliedWith(other PlayerID) bool {
	return p.Allies[other]
}

// HostileTo reports whether other is a declared enemy.
func (p *Player) HostileTo(other PlayerID) bool {
	return p.Enemies[other]
}

// Coin is a credit pickup sitting on a tile, keyed by position in the store.
type Coin struct {
	ID    int
	Pos   GridPos
	Value int
}
