package engine

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Garsondee/chess-royale/internal/config"
)

const (
	spawnSeparation   = 12  // minimum Chebyshev distance between starting kings
	spawnPlaceTries   = 400 // attempts before giving up on a well-spread layout
	leaderboardSize   = 8
	botTimeSliceCount = 5 // fraction of the bot population that thinks per tick
)

var botNames = []string{
	"Vex", "Korrin", "Ashward", "Petrichor", "Dunmore", "Halvard", "Quill",
	"Sable", "Ostrander", "Fenwick", "Marrow", "Tessellate", "Greywind",
	"Calder", "Ixtab", "Noxley", "Thorne", "Umbra", "Valeward", "Wrenfield",
	"Yarrow", "Zephyrine", "Bramblack", "Cindermaw", "Dravven", "Ebonhart",
	"Frostmere", "Gloamspire", "Hexworth", "Ironmoor", "Juniper", "Kestrel",
}

var botColors = []string{
	"#e06c75", "#61afef", "#98c379", "#c678dd", "#d19a66", "#56b6c2",
	"#be5046", "#7f9f7f", "#dca3a3", "#8cd0d3", "#f0dfaf", "#94bff3",
	"#cc9393", "#5f7f5f", "#dfaf8f", "#93e0e3",
}

// GameOverInfo is the cached end-of-match verdict. Winner is NoPlayer when
// the horde or mutual annihilation ends the match.
type GameOverInfo struct {
	Over       bool
	Winner     PlayerID
	WinnerName string
	HordeWin   bool
	Time       VirtualTime
	LastKiller *KillerSnapshot
}

// LeaderboardEntry is one scoreboard row.
type LeaderboardEntry struct {
	ID       PlayerID
	Name     string
	Color    string
	Material int
	Kills    int
	Human    bool
	Allied   bool
}

// Engine is the headless match simulation. It owns the virtual clock, the
// entity store, terrain, the active game mode, the director, and every bot
// brain. The presentation layer talks to it exclusively through commands
// (IssueMove, BuyUnit, ...), queries (ValidMoves, Leaderboard, ...), and the
// drained event stream.
type Engine struct {
	cfg  MatchConfig
	bal  *config.Balance
	log  *log.Logger
	rng  *rand.Rand
	clock Clock

	store   *Store
	terrain TerrainMap
	width   int
	height  int

	mode    Mode
	modeTag GameMode
	state   MatchState

	director    director
	events      []Event
	speedFactor float64

	humanID  PlayerID
	zombieID PlayerID
	// neutralID owns vaults so the resolver never special-cases ownerless
	// units.
	neutralID PlayerID

	botOrder []PlayerID
	aiCursor int

	humanLastCombat VirtualTime
	lastKiller      *KillerSnapshot
	sandboxSim      bool
	attract         bool
	gameOver        *GameOverInfo
}

// defaultBotCount is the roster size a zero BotCount falls back to: sandbox
// wants a single sparring partner, every other mode fills the field.
func defaultBotCount(tag GameMode) int {
	if tag == ModeSandbox {
		return 1
	}
	return 12
}

// NewEngine builds and fully populates a match. It fails fast on a config
// the simulation cannot honour rather than limping into a broken board.
func NewEngine(cfg MatchConfig, bal *config.Balance, logger *log.Logger) (*Engine, error) {
	if bal == nil {
		return nil, fmt.Errorf("engine: nil balance")
	}
	if cfg.BotCount == 0 {
		cfg.BotCount = defaultBotCount(cfg.GameMode)
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.BotCount < 1 || cfg.BotCount > len(botNames) {
		return nil, fmt.Errorf("engine: bot count %d out of range [1,%d]", cfg.BotCount, len(botNames))
	}
	mode, err := newMode(cfg.GameMode)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	e := &Engine{
		cfg:         cfg,
		bal:         bal,
		log:         logger,
		rng:         rand.New(rand.NewSource(cfg.Seed)), // #nosec G404 -- deterministic sim, not crypto
		clock:       NewClock(),
		store:       NewStore(),
		width:       bal.Board.Width,
		height:      bal.Board.Height,
		mode:        mode,
		modeTag:     cfg.GameMode,
		state:       MatchNotStarted,
		speedFactor: 1.0,
		humanID:     NoPlayer,
		zombieID:    NoPlayer,
		neutralID:   NoPlayer,
	}
	if cfg.GameMode == ModeBullet {
		e.speedFactor = bal.BulletSpeedFactor
	}
	if e.width < 16 || e.height < 16 {
		return nil, fmt.Errorf("engine: board %dx%d too small", e.width, e.height)
	}

	e.setupFactions()
	if err := e.setupBoard(); err != nil {
		return nil, err
	}
	e.mode.Init(e)
	e.state = MatchRunning
	e.log.Info("match start",
		"mode", cfg.GameMode, "map", cfg.MapType,
		"bots", cfg.BotCount, "seed", cfg.Seed)
	return e, nil
}

// NewShowcase builds an attract-mode match: all bots, no human seat, used by
// the menu background and the headless report tool.
func NewShowcase(bal *config.Balance, logger *log.Logger, seed int64) (*Engine, error) {
	cfg := MatchConfig{
		HumanColor: "#d0d0d0",
		Difficulty: Medium,
		GameMode:   ModeStandard,
		MapType:    MapPlains,
		BotCount:   12,
		Seed:       seed,
	}
	e, err := newEngineAttract(cfg, bal, logger)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func newEngineAttract(cfg MatchConfig, bal *config.Balance, logger *log.Logger) (*Engine, error) {
	e, err := NewEngine(cfg, bal, logger)
	if err != nil {
		return nil, err
	}
	e.attract = true
	// The human seat becomes one more bot.
	if p := e.store.Player(e.humanID); p != nil {
		p.Human = false
		e.botOrder = append(e.botOrder, p.ID)
	}
	e.humanID = NoPlayer
	return e, nil
}

// setupFactions creates the human, the bots, and the NPC factions. NPC
// players carry units (vaults, the horde) but never appear on the
// leaderboard or in the alive count.
func (e *Engine) setupFactions() {
	human := e.store.AddPlayer("You", e.cfg.HumanColor)
	human.Human = true
	e.humanID = human.ID

	nameIdx := e.rng.Perm(len(botNames))
	for i := 0; i < e.cfg.BotCount; i++ {
		p := e.store.AddPlayer(botNames[nameIdx[i]], botColors[i%len(botColors)])
		p.Personality = Personality(e.rng.Intn(int(personalityCount)))
		e.botOrder = append(e.botOrder, p.ID)
	}

	neutral := e.store.AddPlayer("Caches", "#a0a0a0")
	neutral.NPC = true
	e.neutralID = neutral.ID

	if e.modeTag == ModeZombies {
		horde := e.store.AddPlayer("The Shambling", "#6a8f5f")
		horde.NPC = true
		e.zombieID = horde.ID
	}
}

// setupBoard picks spawn centres, generates terrain protecting them, then
// deploys every faction's starting army.
func (e *Engine) setupBoard() error {
	agents := append([]PlayerID{e.humanID}, e.botOrder...)
	centers := e.pickSpawnCenters(len(agents))
	if len(centers) < len(agents) {
		return fmt.Errorf("engine: only %d spawn sites for %d agents", len(centers), len(agents))
	}
	e.terrain = GenerateTerrain(e.cfg.MapType, e.width, e.height, centers, e.cfg.Seed)

	for i, pid := range agents {
		if err := e.deployArmy(pid, centers[i]); err != nil {
			return err
		}
	}
	if e.modeTag != ModeSandbox {
		e.scatterStartingCoins()
	}
	return nil
}

// scatterStartingCoins seeds the map with loose coins so early scouting pays.
func (e *Engine) scatterStartingCoins() {
	want := e.bal.Economy.CoinScatter * 2
	for try := 0; try < spawnPlaceTries && want > 0; try++ {
		pos := GridPos{X: e.rng.Intn(e.width), Y: e.rng.Intn(e.height)}
		if e.terrain.IsBlocking(pos.X, pos.Y) || e.store.UnitAt(pos) != nil || e.store.CoinAt(pos) != nil {
			continue
		}
		e.store.DropCoin(pos, e.bal.Economy.CoinValue)
		want--
	}
}

// pickSpawnCenters scatters n spawn sites with a minimum separation,
// relaxing the separation if the board cannot fit them all.
func (e *Engine) pickSpawnCenters(n int) []GridPos {
	margin := 4
	sep := spawnSeparation
	var centers []GridPos
	for sep >= 4 {
		centers = centers[:0]
		for try := 0; try < spawnPlaceTries && len(centers) < n; try++ {
			pos := GridPos{
				X: margin + e.rng.Intn(e.width-2*margin),
				Y: margin + e.rng.Intn(e.height-2*margin),
			}
			ok := true
			for _, c := range centers {
				if pos.Chebyshev(c) < sep {
					ok = false
					break
				}
			}
			if ok {
				centers = append(centers, pos)
			}
		}
		if len(centers) >= n {
			return centers
		}
		sep -= 2
	}
	return centers
}

// deployArmy places the configured loadout around a spawn centre: king dead
// centre, the rest spiralling outward on free passable tiles.
func (e *Engine) deployArmy(id PlayerID, center GridPos) error {
	loadout := []struct {
		t UnitType
		n int
	}{
		{King, 1},
		{Queen, e.bal.Army.Queens},
		{Rook, e.bal.Army.Rooks},
		{Bishop, e.bal.Army.Bishops},
		{Knight, e.bal.Army.Knights},
		{Pawn, e.bal.Army.Pawns},
	}
	tiles := e.spiralTiles(center)
	ti := 0
	p := e.store.Player(id)
	for _, entry := range loadout {
		for i := 0; i < entry.n; i++ {
			for ti < len(tiles) && (e.terrain.IsBlocking(tiles[ti].X, tiles[ti].Y) || e.store.UnitAt(tiles[ti]) != nil) {
				ti++
			}
			if ti >= len(tiles) {
				return fmt.Errorf("engine: no room to deploy %s for player %d", entry.t, id)
			}
			u := e.store.SpawnUnit(id, entry.t, tiles[ti])
			e.addMaterial(p, u.Type.MaterialValue(), 0)
			ti++
		}
	}
	return nil
}

// spiralTiles lists on-board tiles by increasing Chebyshev ring around
// center, center first.
func (e *Engine) spiralTiles(center GridPos) []GridPos {
	var tiles []GridPos
	maxR := spawnProtectRadius
	for r := 0; r <= maxR; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if abs(dx) != r && abs(dy) != r {
					continue // interior already covered by smaller ring
				}
				pos := GridPos{center.X + dx, center.Y + dy}
				if e.onBoard(pos) {
					tiles = append(tiles, pos)
				}
			}
		}
	}
	return tiles
}

// Tick advances the simulation by realDtMs wall milliseconds. The virtual
// clock applies pause and time-scale; everything downstream sees only
// virtual time. One fifth of the bot population thinks per tick.
func (e *Engine) Tick(realDtMs float64) {
	if e.state != MatchRunning {
		return
	}
	before := e.clock.Now()
	e.clock.Advance(realDtMs)
	dt := e.clock.Now() - before
	if dt <= 0 {
		return
	}

	e.mode.Update(e, dt)
	e.updateDirector(dt)

	for i, pid := range e.botOrder {
		if i%botTimeSliceCount != e.aiCursor {
			continue
		}
		p := e.store.Player(pid)
		if p == nil || p.Eliminated {
			continue
		}
		e.botUpdate(p)
	}
	e.aiCursor = (e.aiCursor + 1) % botTimeSliceCount

	if e.modeTag == ModeZombies {
		e.zombieUpdate()
	}

	e.checkGameOver()
}

// AliveAgents counts live scoreboard players: humans and bots, never NPC
// factions.
func (e *Engine) AliveAgents() int {
	n := 0
	for _, p := range e.store.Players() {
		if !p.NPC && !p.Eliminated {
			n++
		}
	}
	return n
}

func (e *Engine) checkGameOver() {
	if e.gameOver != nil || e.modeTag == ModeSandbox {
		return
	}
	alive := e.AliveAgents()
	if alive > 1 {
		return
	}
	info := &GameOverInfo{
		Over:       true,
		Winner:     NoPlayer,
		Time:       e.clock.Now(),
		LastKiller: e.lastKiller,
	}
	if alive == 1 {
		for _, p := range e.store.Players() {
			if !p.NPC && !p.Eliminated {
				info.Winner = p.ID
				info.WinnerName = p.Name
				break
			}
		}
	} else if e.modeTag == ModeZombies {
		info.HordeWin = true
		info.WinnerName = "The Shambling"
	}
	e.gameOver = info
	e.state = MatchGameOver
	e.log.Info("match over", "winner", info.WinnerName, "t", float64(info.Time))
}

// GameOver returns the cached verdict, or nil while the match runs. The
// verdict never changes once set.
func (e *Engine) GameOver() *GameOverInfo { return e.gameOver }

// IssueMove executes a human move order. The engine revalidates rather than
// trusting the client's idea of legality.
func (e *Engine) IssueMove(player PlayerID, unit UnitID, dst GridPos) bool {
	if e.state != MatchRunning || player != e.humanID {
		return false
	}
	u := e.store.Unit(unit)
	if u == nil || u.Dead || u.Owner != player {
		return false
	}
	now := e.clock.Now()
	for _, mv := range e.ValidMoves(u, now, true) {
		if mv == dst {
			return e.moveUnit(u, dst, now)
		}
	}
	return false
}

// Resign concedes the human's seat. The roster falls without crediting a
// killer.
func (e *Engine) Resign() {
	if e.state != MatchRunning || e.humanID == NoPlayer {
		return
	}
	p := e.store.Player(e.humanID)
	if p == nil || p.Eliminated {
		return
	}
	e.log.Info("human resigned")
	e.cascadeElimination(p, NoPlayer, e.clock.Now())
	e.checkGameOver()
}

// SetPaused pauses or resumes the virtual clock. Sandbox edit mode overrides
// resume until simulation is toggled on.
func (e *Engine) SetPaused(paused bool) {
	if e.modeTag == ModeSandbox && !e.sandboxSim && !paused {
		return
	}
	e.clock.SetPaused(paused)
}

// SetTimeScale adjusts simulation speed. Values are clamped to a sane range.
func (e *Engine) SetTimeScale(scale float64) {
	if scale < 0.1 {
		scale = 0.1
	}
	if scale > 8 {
		scale = 8
	}
	e.clock.SetScale(scale)
}

// Leaderboard returns the top surviving rows by material; material ties go
// to whoever scored most recently. The human row is always present even when
// outside the cut.
func (e *Engine) Leaderboard() []LeaderboardEntry {
	var rows []*Player
	for _, p := range e.store.Players() {
		if p.NPC || p.Eliminated {
			continue
		}
		rows = append(rows, p)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Material != b.Material {
			return a.Material > b.Material
		}
		if a.ScoreStamp != b.ScoreStamp {
			return a.ScoreStamp > b.ScoreStamp
		}
		return a.ID < b.ID
	})

	out := make([]LeaderboardEntry, 0, leaderboardSize)
	humanIn := false
	for _, p := range rows {
		if len(out) >= leaderboardSize {
			break
		}
		out = append(out, e.boardEntry(p))
		if p.Human {
			humanIn = true
		}
	}
	if !humanIn && e.humanID != NoPlayer {
		if p := e.store.Player(e.humanID); p != nil && !p.Eliminated {
			if len(out) == leaderboardSize {
				out = out[:leaderboardSize-1]
			}
			out = append(out, e.boardEntry(p))
		}
	}
	return out
}

func (e *Engine) boardEntry(p *Player) LeaderboardEntry {
	return LeaderboardEntry{
		ID:       p.ID,
		Name:     p.Name,
		Color:    p.Color,
		Material: p.Material,
		Kills:    p.Kills,
		Human:    p.Human,
		Allied:   e.humanID != NoPlayer && p.AlliedWith(e.humanID),
	}
}

// HUD assembles the status strip: mode-specific readout, director phase, and
// the human's credit balance.
func (e *Engine) HUD() []HUDData {
	hud := []HUDData{e.mode.HUD(e)}
	hud = append(hud, HUDData{Label: "PHASE", Value: e.director.phase.String(), Color: "#e0c070"})
	if p := e.store.Player(e.humanID); p != nil && !p.NPC {
		hud = append(hud, HUDData{Label: "CREDITS", Value: fmt.Sprintf("%d", p.Credits), Color: "#f0dfaf"})
	}
	return hud
}

// spawnVault drops a neutral vault on a random free tile and announces it.
func (e *Engine) spawnVault() {
	pos, ok := e.randomFreeTile()
	if !ok {
		return
	}
	u := e.store.SpawnUnit(e.neutralID, Vault, pos)
	e.emit(Event{Type: EventVaultSpawn, Pos: pos, Actor: e.neutralID, Unit: u.ID})
	e.log.Debug("vault spawned", "pos", pos)
}

func (e *Engine) randomFreeTile() (GridPos, bool) {
	for try := 0; try < 200; try++ {
		pos := GridPos{e.rng.Intn(e.width), e.rng.Intn(e.height)}
		if e.terrain.IsBlocking(pos.X, pos.Y) || e.store.UnitAt(pos) != nil {
			continue
		}
		return pos, true
	}
	return GridPos{}, false
}

// randomRimTile picks a free tile on the outermost open ring of the board,
// used for zombie wave entry points.
func (e *Engine) randomRimTile() (GridPos, bool) {
	for try := 0; try < 200; try++ {
		var pos GridPos
		switch e.rng.Intn(4) {
		case 0:
			pos = GridPos{e.rng.Intn(e.width), 0}
		case 1:
			pos = GridPos{e.rng.Intn(e.width), e.height - 1}
		case 2:
			pos = GridPos{0, e.rng.Intn(e.height)}
		default:
			pos = GridPos{e.width - 1, e.rng.Intn(e.height)}
		}
		if e.terrain.IsBlocking(pos.X, pos.Y) || e.store.UnitAt(pos) != nil {
			continue
		}
		return pos, true
	}
	return GridPos{}, false
}

// Read-side accessors for the presentation layer and tests.

func (e *Engine) Now() VirtualTime      { return e.clock.Now() }
func (e *Engine) Width() int            { return e.width }
func (e *Engine) Height() int           { return e.height }
func (e *Engine) Terrain() TerrainMap   { return e.terrain }
func (e *Engine) Store() *Store         { return e.store }
func (e *Engine) HumanID() PlayerID     { return e.humanID }
func (e *Engine) State() MatchState     { return e.state }
func (e *Engine) ModeTag() GameMode     { return e.modeTag }
func (e *Engine) Paused() bool          { return e.clock.Paused() }
func (e *Engine) TimeScale() float64    { return e.clock.Scale() }
func (e *Engine) Attract() bool         { return e.attract }
func (e *Engine) Config() MatchConfig   { return e.cfg }
func (e *Engine) Balance() *config.Balance { return e.bal }
