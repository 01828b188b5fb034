package engine

import (
	"testing"

	"github.com/Garsondee/chess-royale/internal/config"
)

func TestNewEngineRejectsBadConfig(t *testing.T) {
	bal, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		name string
		cfg  MatchConfig
	}{
		{"negative bots", MatchConfig{GameMode: ModeStandard, BotCount: -1, Seed: 1}},
		{"too many bots", MatchConfig{GameMode: ModeStandard, BotCount: 999, Seed: 1}},
		{"unknown mode", MatchConfig{GameMode: GameMode(42), BotCount: 4, Seed: 1}},
	}
	for _, tc := range cases {
		if _, err := NewEngine(tc.cfg, bal, nil); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
	if _, err := NewEngine(MatchConfig{GameMode: ModeStandard, BotCount: 4, Seed: 1}, nil, nil); err == nil {
		t.Error("nil balance: expected error")
	}
}

func TestNewEngineFillsZeroValues(t *testing.T) {
	bal, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	e, err := NewEngine(MatchConfig{GameMode: ModeStandard}, bal, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(e.botOrder); got != defaultBotCount(ModeStandard) {
		t.Fatalf("bot roster: got %d, want %d", got, defaultBotCount(ModeStandard))
	}
	if e.cfg.Seed == 0 {
		t.Fatal("seed left unset")
	}

	sandbox, err := NewEngine(MatchConfig{GameMode: ModeSandbox}, bal, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(sandbox.botOrder); got != 1 {
		t.Fatalf("sandbox roster: got %d bots, want 1", got)
	}
}

func TestMatchSetupDeploysEveryFaction(t *testing.T) {
	tm := NewTestMatch(WithBots(6), WithSeed(3))
	for idx := 0; idx <= 6; idx++ {
		p := tm.Player(idx)
		if p == nil {
			t.Fatalf("missing player %d", idx)
		}
		if tm.E.Store().LiveKing(p.ID) == nil {
			t.Fatalf("player %d deployed without a king", idx)
		}
		wantArmy := 1 + tm.E.Balance().Army.Pawns + tm.E.Balance().Army.Knights +
			tm.E.Balance().Army.Bishops + tm.E.Balance().Army.Rooks + tm.E.Balance().Army.Queens
		if got := len(tm.E.Store().LiveRoster(p.ID)); got != wantArmy {
			t.Fatalf("player %d army: got %d units, want %d", idx, got, wantArmy)
		}
	}
}

func TestSameSeedSameSetup(t *testing.T) {
	a := NewTestMatch(WithSeed(77), WithBots(5))
	b := NewTestMatch(WithSeed(77), WithBots(5))
	for id, ua := range a.E.Store().Units() {
		ub := b.E.Store().Unit(id)
		if ub == nil || ua.Pos != ub.Pos || ua.Type != ub.Type {
			t.Fatalf("unit %d differs between identical seeds", id)
		}
	}
}

func TestLeaderboardOrdersAndKeepsHuman(t *testing.T) {
	tm := NewTestMatch(WithBots(12), WithBalance(slowBots))
	// Spread material so the ordering is nontrivial; the human sinks to
	// the bottom.
	now := tm.E.Now()
	for idx := 1; idx <= 12; idx++ {
		p := tm.Player(idx)
		tm.E.addMaterial(p, idx*3, now)
	}
	human := tm.Player(0)
	tm.E.addMaterial(human, -human.Material, now)

	rows := tm.E.Leaderboard()
	if len(rows) != leaderboardSize {
		t.Fatalf("leaderboard size: got %d, want %d", len(rows), leaderboardSize)
	}
	for i := 1; i < len(rows)-1; i++ {
		if rows[i].Material > rows[i-1].Material {
			t.Fatalf("row %d out of order: %d above %d", i, rows[i-1].Material, rows[i].Material)
		}
	}
	if !rows[len(rows)-1].Human {
		t.Fatal("human row missing from a board it did not earn")
	}
}

func TestLeaderboardTieBreaksByRecentStamp(t *testing.T) {
	tm := NewTestMatch(WithBots(3), WithBalance(slowBots))
	a, b := tm.Player(1), tm.Player(2)
	tm.E.addMaterial(a, 50-a.Material, 1000)
	tm.E.addMaterial(b, 50-b.Material, 2000)

	rows := tm.E.Leaderboard()
	posA, posB := -1, -1
	for i, row := range rows {
		switch row.ID {
		case a.ID:
			posA = i
		case b.ID:
			posB = i
		}
	}
	if posA == -1 || posB == -1 || posB > posA {
		t.Fatalf("fresher stamp should rank higher: a at %d, b at %d", posA, posB)
	}
}

func TestLeaderboardDropsEliminated(t *testing.T) {
	tm := NewTestMatch(WithBots(3), WithBalance(slowBots))
	fallen := tm.Player(1)
	tm.E.addMaterial(fallen, 200, tm.E.Now())
	tm.E.cascadeElimination(fallen, NoPlayer, tm.E.Now())

	for _, row := range tm.E.Leaderboard() {
		if row.ID == fallen.ID {
			t.Fatal("eliminated agent still listed")
		}
	}
}

func TestGameOverWhenOneRemains(t *testing.T) {
	tm := NewTestMatch(WithBots(2), WithBalance(slowBots))
	if tm.E.GameOver() != nil {
		t.Fatal("match over before it began")
	}
	tm.E.cascadeElimination(tm.Player(1), NoPlayer, tm.E.Now())
	tm.E.cascadeElimination(tm.Player(2), NoPlayer, tm.E.Now())
	tm.RunTicks(1)

	over := tm.E.GameOver()
	if over == nil || !over.Over {
		t.Fatal("no verdict with one agent standing")
	}
	if over.Winner != tm.E.HumanID() {
		t.Fatalf("winner: got %d, want human %d", over.Winner, tm.E.HumanID())
	}
	if tm.E.State() != MatchGameOver {
		t.Fatal("state not terminal")
	}
	// The verdict is cached: further ticks do not change it.
	tm.RunTicks(5)
	if got := tm.E.GameOver(); got != over {
		t.Fatal("verdict changed after match end")
	}
}

func TestResignEliminatesHuman(t *testing.T) {
	tm := NewTestMatch(WithBots(3), WithBalance(slowBots))
	tm.E.Resign()
	if !tm.Player(0).Eliminated {
		t.Fatal("resign did not eliminate the human")
	}
	if tm.E.GameOver() != nil && tm.E.GameOver().Winner == tm.E.HumanID() {
		t.Fatal("resigned human won")
	}
}

func TestIssueMoveRevalidates(t *testing.T) {
	tm := NewTestMatch(
		WithBalance(slowBots),
		WithScriptedBoard(),
		WithUnit(0, King, GridPos{5, 5}),
		WithUnit(0, Rook, GridPos{20, 20}),
		WithUnit(1, King, GridPos{50, 50}),
	)
	rook := tm.E.Store().UnitAt(GridPos{20, 20})
	rook.LastMoveTime = -1e6

	if tm.E.IssueMove(tm.E.HumanID(), rook.ID, GridPos{21, 21}) {
		t.Fatal("accepted an illegal rook diagonal")
	}
	if tm.E.IssueMove(tm.Player(1).ID, rook.ID, GridPos{22, 20}) {
		t.Fatal("accepted an order from the wrong seat")
	}
	if !tm.E.IssueMove(tm.E.HumanID(), rook.ID, GridPos{22, 20}) {
		t.Fatal("rejected a legal rook slide")
	}
	if got := tm.E.Store().UnitAt(GridPos{22, 20}); got == nil || got.ID != rook.ID {
		t.Fatal("rook did not arrive")
	}
}

func TestShowcaseHasNoHumanSeat(t *testing.T) {
	bal, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	e, err := NewShowcase(bal, nil, 9)
	if err != nil {
		t.Fatal(err)
	}
	if !e.Attract() {
		t.Fatal("showcase not in attract mode")
	}
	if e.HumanID() != NoPlayer {
		t.Fatal("showcase kept a human seat")
	}
	humans := 0
	for _, p := range e.Store().Players() {
		if p.Human {
			humans++
		}
	}
	if humans != 0 {
		t.Fatalf("%d human-flagged players in showcase", humans)
	}
	e.Tick(16)
}

func TestBuyUnitChecksTileAndCredits(t *testing.T) {
	tm := NewTestMatch(WithBots(2), WithBalance(slowBots))
	human := tm.Player(0)
	human.Credits = 0

	tiles := tm.E.ValidSpawnTiles(human.ID)
	if len(tiles) == 0 {
		t.Fatal("no spawn tiles near a live king")
	}
	if tm.E.BuyUnit(human.ID, Pawn, tiles[0]) {
		t.Fatal("bought a unit with no credits")
	}
	human.Credits = tm.E.UnitCost(Queen)
	if tm.E.BuyUnit(human.ID, Queen, GridPos{0, 0}) {
		t.Fatal("bought onto a tile outside spawn range")
	}
	if !tm.E.BuyUnit(human.ID, Queen, tiles[0]) {
		t.Fatal("legal purchase refused")
	}
	if human.Credits != 0 {
		t.Fatalf("credits not spent: %d", human.Credits)
	}
	if got := tm.E.Store().UnitAt(tiles[0]); got == nil || got.Type != Queen {
		t.Fatal("queen not on the requested tile")
	}
}

func TestBotPurchaseTightensAgainstHuman(t *testing.T) {
	tm := NewTestMatch(
		WithBots(2),
		WithBalance(func(b *config.Balance) {
			slowBots(b)
			b.AI.ArmyCap = 30
			b.AI.ArmyCapVsHuman = 1
		}),
		WithScriptedBoard(),
		WithUnit(0, King, GridPos{5, 5}),
		WithUnit(1, King, GridPos{30, 30}),
		WithUnit(2, King, GridPos{55, 55}),
	)
	bot := tm.Player(1)
	bot.Credits = 1000

	bot.TargetID = tm.E.HumanID()
	tm.E.botPurchase(bot)
	if got := len(tm.E.Store().LiveRoster(bot.ID)); got != 1 {
		t.Fatalf("human-facing bot reinforced past the tight cap: %d units", got)
	}

	bot.TargetID = tm.Player(2).ID
	tm.E.botPurchase(bot)
	if got := len(tm.E.Store().LiveRoster(bot.ID)); got != 2 {
		t.Fatalf("bot-facing purchase blocked: %d units", got)
	}
}

func TestBotSpawnsAvoidThreatenedTiles(t *testing.T) {
	tm := NewTestMatch(
		WithBots(2),
		WithBalance(slowBots),
		WithScriptedBoard(),
		WithUnit(0, King, GridPos{5, 5}),
		WithUnit(0, Rook, GridPos{28, 20}), // sweeps the row in front of the king
		WithUnit(1, King, GridPos{20, 20}),
		WithUnit(2, King, GridPos{55, 55}),
	)
	bot := tm.Player(1)

	exposed := false
	for _, tile := range tm.E.ValidSpawnTiles(bot.ID) {
		if tm.E.tileThreatenedBy(tile, bot.ID) != nil {
			exposed = true
			break
		}
	}
	if !exposed {
		t.Fatal("setup: no spawn tile under threat")
	}
	for _, tile := range tm.E.spawnTilesTowardTarget(bot) {
		if foe := tm.E.tileThreatenedBy(tile, bot.ID); foe != nil {
			t.Fatalf("tile %v offered under threat from unit %d", tile, foe.ID)
		}
	}
}
