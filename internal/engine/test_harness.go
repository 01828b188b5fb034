package engine

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/Garsondee/chess-royale/internal/config"
)

// TestMatch is a headless match harness used by tests and the report tool.
// It wraps a real Engine, feeds it fixed-size ticks, and translates the
// drained event stream into a queryable MatchLog. Options either tweak the
// match setup or script an exact board, which is what the movement and
// resolver scenarios need.
type TestMatch struct {
	E   *Engine
	Log *MatchLog

	// TickMs is the wall-ms fed per Tick call. Defaults to 16.
	TickMs float64

	cfg      MatchConfig
	bal      *config.Balance
	verbose  bool
	scripted bool
	script   []scriptedUnit
}

type scriptedUnit struct {
	playerIdx int // 0 = human seat, 1.. = bots in order
	t         UnitType
	pos       GridPos
}

// MatchOption is a builder function applied during TestMatch construction.
type MatchOption func(*TestMatch)

// WithSeed sets the deterministic RNG seed.
func WithSeed(seed int64) MatchOption {
	return func(tm *TestMatch) { tm.cfg.Seed = seed }
}

// WithMode selects the game mode.
func WithMode(mode GameMode) MatchOption {
	return func(tm *TestMatch) { tm.cfg.GameMode = mode }
}

// WithBots sets the bot count.
func WithBots(n int) MatchOption {
	return func(tm *TestMatch) { tm.cfg.BotCount = n }
}

// WithMap selects the terrain profile.
func WithMap(m MapType) MatchOption {
	return func(tm *TestMatch) { tm.cfg.MapType = m }
}

// WithDifficulty sets bot difficulty.
func WithDifficulty(d Difficulty) MatchOption {
	return func(tm *TestMatch) { tm.cfg.Difficulty = d }
}

// WithBalance lets a test mutate the balance sheet before match init.
func WithBalance(mutate func(*config.Balance)) MatchOption {
	return func(tm *TestMatch) { mutate(tm.bal) }
}

// WithVerbose records per-move entries in the match log.
func WithVerbose(v bool) MatchOption {
	return func(tm *TestMatch) { tm.verbose = v }
}

// WithScriptedBoard wipes the generated armies after init so the board holds
// exactly the units placed via WithUnit. Terrain stays.
func WithScriptedBoard() MatchOption {
	return func(tm *TestMatch) { tm.scripted = true }
}

// WithUnit scripts one unit onto the board. playerIdx 0 is the human seat,
// 1..N the bots in creation order. Implies nothing by itself; combine with
// WithScriptedBoard.
func WithUnit(playerIdx int, t UnitType, pos GridPos) MatchOption {
	return func(tm *TestMatch) {
		tm.script = append(tm.script, scriptedUnit{playerIdx, t, pos})
	}
}

// NewTestMatch constructs a running match from the options. It panics on
// setup errors: a broken harness is a test bug, not a condition to handle.
func NewTestMatch(opts ...MatchOption) *TestMatch {
	bal, err := config.Default()
	if err != nil {
		panic(fmt.Sprintf("test harness: default balance: %v", err))
	}
	tm := &TestMatch{
		TickMs: 16,
		bal:    bal,
		cfg: MatchConfig{
			HumanColor: "#d0d0d0",
			Difficulty: Medium,
			GameMode:   ModeStandard,
			MapType:    MapPlains,
			BotCount:   7,
			Seed:       1,
		},
	}
	for _, o := range opts {
		o(tm)
	}

	logger := log.New(io.Discard)
	logger.SetLevel(log.FatalLevel)
	e, err := NewEngine(tm.cfg, tm.bal, logger)
	if err != nil {
		panic(fmt.Sprintf("test harness: new engine: %v", err))
	}
	tm.E = e
	tm.Log = NewMatchLog(tm.verbose)

	if tm.scripted {
		tm.wipeArmies()
		for _, su := range tm.script {
			tm.placeScripted(su)
		}
	}
	return tm
}

// wipeArmies removes every non-NPC unit spawned by match init, along with
// the starting coin scatter, so scripted boards are fully deterministic.
func (tm *TestMatch) wipeArmies() {
	for pos := range tm.E.store.Coins() {
		tm.E.store.TakeCoin(pos)
	}
	for _, u := range tm.E.store.Units() {
		if u.Dead {
			continue
		}
		owner := tm.E.store.Player(u.Owner)
		if owner != nil && owner.NPC {
			continue
		}
		tm.E.store.KillUnit(u)
		if owner != nil {
			tm.E.addMaterial(owner, -u.Type.MaterialValue(), 0)
		}
	}
}

func (tm *TestMatch) placeScripted(su scriptedUnit) {
	id := tm.playerAt(su.playerIdx)
	if id == NoPlayer {
		panic(fmt.Sprintf("test harness: no player at index %d", su.playerIdx))
	}
	// Scripted boards override terrain: carve the tile open if needed.
	if tm.E.terrain.IsBlocking(su.pos.X, su.pos.Y) {
		tm.E.terrain[su.pos] = tileFor(TileGrass)
	}
	if tm.E.store.UnitAt(su.pos) != nil {
		panic(fmt.Sprintf("test harness: tile %v occupied", su.pos))
	}
	tm.E.store.SpawnUnit(id, su.t, su.pos)
	if p := tm.E.store.Player(id); p != nil {
		tm.E.addMaterial(p, su.t.MaterialValue(), 0)
	}
}

// playerAt maps a script index to a player ID: 0 is the human seat, 1..N
// the bots in order.
func (tm *TestMatch) playerAt(idx int) PlayerID {
	if idx == 0 {
		return tm.E.humanID
	}
	if idx-1 < len(tm.E.botOrder) {
		return tm.E.botOrder[idx-1]
	}
	return NoPlayer
}

// Player returns the player at a script index.
func (tm *TestMatch) Player(idx int) *Player {
	return tm.E.store.Player(tm.playerAt(idx))
}

// RunTicks advances the match n ticks, draining events into the log.
func (tm *TestMatch) RunTicks(n int) {
	for i := 0; i < n; i++ {
		tm.E.Tick(tm.TickMs)
		tm.drain()
	}
}

// RunUntil ticks until predicate returns true or maxTicks elapse. Returns
// the number of ticks run.
func (tm *TestMatch) RunUntil(predicate func(*TestMatch) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		if predicate(tm) {
			return i
		}
		tm.E.Tick(tm.TickMs)
		tm.drain()
	}
	return maxTicks
}

// RunMs advances virtual time by at least ms, assuming unit time scale.
func (tm *TestMatch) RunMs(ms float64) {
	ticks := int(ms/tm.TickMs) + 1
	tm.RunTicks(ticks)
}

func (tm *TestMatch) drain() {
	for _, ev := range tm.E.ConsumeEvents() {
		tm.record(ev)
	}
}

func (tm *TestMatch) record(ev Event) {
	name := "--"
	if p := tm.E.store.Player(ev.Actor); p != nil {
		name = p.Name
	}
	switch ev.Type {
	case EventAttack:
		tm.Log.AddVerbose(ev.Time, name, "combat", "attack", fmt.Sprintf("at %v", ev.Pos), 0)
	case EventDeath:
		victim := "--"
		if p := tm.E.store.Player(ev.Victim); p != nil {
			victim = p.Name
		}
		tm.Log.Add(ev.Time, name, "combat", "kill", fmt.Sprintf("unit of %s at %v", victim, ev.Pos), float64(ev.Unit))
	case EventConversion:
		tm.Log.Add(ev.Time, name, "mode", "conversion", fmt.Sprintf("at %v", ev.Pos), float64(ev.Unit))
	case EventCoinPickup:
		tm.Log.Add(ev.Time, name, "economy", "coin", fmt.Sprintf("at %v", ev.Pos), 0)
	case EventSpawn:
		tm.Log.AddVerbose(ev.Time, name, "unit", "spawn", fmt.Sprintf("at %v", ev.Pos), float64(ev.Unit))
	case EventVaultSpawn:
		tm.Log.Add(ev.Time, name, "economy", "vault_spawn", fmt.Sprintf("at %v", ev.Pos), 0)
	case EventChat:
		tm.Log.AddVerbose(ev.Time, name, "chat", "line", ev.Text, 0)
	case EventAlliance:
		other := "--"
		if p := tm.E.store.Player(ev.Victim); p != nil {
			other = p.Name
		}
		tm.Log.Add(ev.Time, name, "diplomacy", "alliance", "with "+other, 0)
	case EventWar:
		other := "--"
		if p := tm.E.store.Player(ev.Victim); p != nil {
			other = p.Name
		}
		tm.Log.Add(ev.Time, name, "diplomacy", "war", "against "+other, 0)
	}
}
