// Package engine implements the Chess Royale simulation core: entities,
// terrain, movement and capture resolution, game-mode strategies, the bot
// AI director, and the virtual clock that drives them. The package has no
// rendering or input dependencies; a presentation layer drives it through
// the command/query surface on Engine and drains its event queue.
package engine

import "fmt"

// UnitID is a stable handle into the unit store.
type UnitID int

// PlayerID is a stable handle into the player store.
type PlayerID int

// NoPlayer marks an absent player reference (no target, no killer, ...).
const NoPlayer PlayerID = -1

// NoUnit marks an absent unit reference.
const NoUnit UnitID = -1

// GridPos is an integer board coordinate.
type GridPos struct {
	X, Y int
}

// String renders the canonical "x,y" form used in events and logs.
func (p GridPos) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

// Manhattan returns the L1 distance to q.
func (p GridPos) Manhattan(q GridPos) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

// Chebyshev returns the L∞ distance to q (king-move distance).
func (p GridPos) Chebyshev(q GridPos) int {
	dx := abs(p.X - q.X)
	dy := abs(p.Y - q.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// UnitType identifies the movement pattern and value of a unit.
type UnitType int

const (
	Pawn UnitType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	Vault // neutral treasure piece: never moves, pays a bounty when captured
	unitTypeCount
)

func (t UnitType) String() string {
	switch t {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	case Vault:
		return "vault"
	default:
		return "unknown"
	}
}

// MaterialValue returns the scoring value transferred to a killer.
// Kings and vaults score through bounties instead.
func (t UnitType) MaterialValue() int {
	switch t {
	case Pawn:
		return 1
	case Knight, Bishop:
		return 3
	case Rook:
		return 5
	case Queen:
		return 9
	default:
		return 0
	}
}

// Difficulty scales bot reaction delay, vision, and safety behaviour.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// GameMode selects the rule variant for a match.
type GameMode int

const (
	ModeStandard GameMode = iota
	ModeBullet
	ModeDiplomacy
	ModeZombies
	ModeSandbox
	ModeAdventure
)

func (m GameMode) String() string {
	switch m {
	case ModeStandard:
		return "standard"
	case ModeBullet:
		return "bullet"
	case ModeDiplomacy:
		return "diplomacy"
	case ModeZombies:
		return "zombies"
	case ModeSandbox:
		return "sandbox"
	case ModeAdventure:
		return "adventure"
	default:
		return "unknown"
	}
}

// MapType selects a terrain generation profile.
type MapType int

const (
	MapPlains MapType = iota
	MapForest
	MapDesert
	MapTundra
	MapArchipelago
)

func (m MapType) String() string {
	switch m {
	case MapPlains:
		return "plains"
	case MapForest:
		return "forest"
	case MapDesert:
		return "desert"
	case MapTundra:
		return "tundra"
	case MapArchipelago:
		return "archipelago"
	default:
		return "unknown"
	}
}

// Personality biases a bot's purchasing, diplomacy, and chat.
type Personality int

const (
	Aggressor   Personality = iota // hunts constantly, resists alliances
	Turtle                         // defends its king, welcomes alliances
	Opportunist                    // chases coins and vaults, flips targets
	Raider                         // roams wide, favours cheap fast pieces
	personalityCount
)

func (p Personality) String() string {
	switch p {
	case Aggressor:
		return "aggressor"
	case Turtle:
		return "turtle"
	case Opportunist:
		return "opportunist"
	case Raider:
		return "raider"
	default:
		return "unknown"
	}
}

// MatchConfig is the caller-supplied configuration for one match.
type MatchConfig struct {
	HumanColor string // hex colour for the human agent's pieces
	Difficulty Difficulty
	GameMode   GameMode
	MapType    MapType
	BotCount   int   // autonomous agents to spawn (0 picks the mode default)
	Seed       int64 // 0 = derive from wall clock at init
}

// MatchState is the coarse lifecycle of a match.
type MatchState int

const (
	MatchNotStarted MatchState = iota
	MatchRunning
	MatchGameOver
)

func (s MatchState) String() string {
	switch s {
	case MatchNotStarted:
		return "not_started"
	case MatchRunning:
		return "running"
	case MatchGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// HUDData is the mode-specific label/value/colour triple surfaced to the
// presentation layer each frame.
type HUDData struct {
	Label string
	Value string
	Color string
}
