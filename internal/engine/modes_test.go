package engine

import (
	"testing"

	"github.com/Garsondee/chess-royale/internal/config"
)

// slowBots raises every AI delay far past the test horizon so scripted
// boards stay exactly as placed.
func slowBots(b *config.Balance) {
	b.AI.DelayEasyMs = 1 << 30
	b.AI.DelayMediumMs = 1 << 30
	b.AI.DelayHardMs = 1 << 30
	b.AI.BotDelayMs = 1 << 30
	b.AI.TravelDistance = 1 << 30
}

func TestUnknownModeFailsInit(t *testing.T) {
	if _, err := newMode(GameMode(99)); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestZombieKillConvertsInsteadOfLooting(t *testing.T) {
	tm := NewTestMatch(
		WithMode(ModeZombies),
		WithScriptedBoard(),
		WithUnit(0, King, GridPos{5, 5}),
		WithUnit(1, King, GridPos{50, 50}),
		WithUnit(1, Knight, GridPos{23, 20}),
	)
	bot := tm.Player(1)
	botMat := bot.Material

	z := tm.E.Store().SpawnUnit(tm.E.zombieID, Pawn, GridPos{22, 20})
	z.Zombie = true

	if !tm.E.moveUnit(z, GridPos{23, 20}, 1e6) {
		t.Fatal("zombie attack refused")
	}

	victim := tm.E.Store().UnitAt(GridPos{23, 20})
	if victim == nil {
		t.Fatal("converted unit vanished from the board")
	}
	if victim.Owner != tm.E.zombieID || !victim.Zombie || victim.Dead {
		t.Fatalf("victim not converted: owner=%d zombie=%v dead=%v", victim.Owner, victim.Zombie, victim.Dead)
	}
	// No loot: the zombie stays put, the victim's owner only loses material.
	if got := tm.E.Store().UnitAt(GridPos{22, 20}); got == nil || got.ID != z.ID {
		t.Fatal("zombie relocated on conversion kill")
	}
	if bot.Material != botMat-Knight.MaterialValue() {
		t.Fatalf("victim material: got %d, want %d", bot.Material, botMat-Knight.MaterialValue())
	}
	if horde := tm.E.Store().Player(tm.E.zombieID); horde.Material != 0 {
		t.Fatalf("horde should not score material, got %d", horde.Material)
	}
}

func TestZombieKingConversionEliminatesOwner(t *testing.T) {
	tm := NewTestMatch(
		WithMode(ModeZombies),
		WithScriptedBoard(),
		WithUnit(0, King, GridPos{5, 5}),
		WithUnit(1, King, GridPos{23, 20}),
		WithUnit(1, Pawn, GridPos{40, 40}),
	)
	bot := tm.Player(1)
	z := tm.E.Store().SpawnUnit(tm.E.zombieID, Pawn, GridPos{22, 20})
	z.Zombie = true

	if !tm.E.moveUnit(z, GridPos{23, 20}, 1e6) {
		t.Fatal("zombie attack refused")
	}
	if !bot.Eliminated {
		t.Fatal("owner survived king conversion")
	}
	// The converted king shambles on under new management.
	king := tm.E.Store().UnitAt(GridPos{23, 20})
	if king == nil || king.Owner != tm.E.zombieID || king.Dead {
		t.Fatal("converted king did not join the horde")
	}
}

func TestZombieWavesGrow(t *testing.T) {
	tm := NewTestMatch(
		WithMode(ModeZombies),
		WithSeed(5),
		WithBalance(slowBots),
	)
	countZombies := func() int {
		n := 0
		for _, u := range tm.E.Store().Units() {
			if !u.Dead && u.Zombie {
				n++
			}
		}
		return n
	}
	first := countZombies()
	if first == 0 {
		t.Fatal("no zombies after init wave")
	}
	tm.RunMs(float64(tm.E.Balance().Zombies.WaveIntervalMs) + 1000)
	if countZombies() <= first {
		t.Fatalf("wave did not grow the horde: %d then %d", first, countZombies())
	}
}

func TestArmisticeBlocksThenAllowsAttacks(t *testing.T) {
	tm := NewTestMatch(
		WithMode(ModeDiplomacy),
		WithBalance(slowBots),
		WithScriptedBoard(),
		WithUnit(0, King, GridPos{5, 5}),
		WithUnit(0, Rook, GridPos{20, 20}),
		WithUnit(1, King, GridPos{50, 50}),
		WithUnit(1, Pawn, GridPos{23, 20}),
	)
	rook := tm.E.Store().UnitAt(GridPos{20, 20})

	if tm.E.moveUnit(rook, GridPos{23, 20}, 1e6) {
		t.Fatal("attack permitted during armistice")
	}

	// Vaults are exempt even under armistice.
	tm.E.Store().SpawnUnit(tm.E.neutralID, Vault, GridPos{20, 23})
	if !tm.E.moveUnit(rook, GridPos{20, 23}, 1e6) {
		t.Fatal("vault attack blocked during armistice")
	}

	tm.RunMs(float64(tm.E.Balance().Diplomacy.ArmisticeMs) + 1000)
	if tm.E.ArmisticeRemaining() != 0 {
		t.Fatalf("armistice still live after %dms", tm.E.Balance().Diplomacy.ArmisticeMs)
	}
	pawnTile := GridPos{23, 20}
	rook = tm.E.Store().Unit(rook.ID)
	later := tm.E.Now() + 1
	tm.E.Store().MoveUnit(rook, GridPos{22, 20})
	if !tm.E.moveUnit(rook, pawnTile, later) {
		t.Fatal("attack still blocked after armistice")
	}
}

func TestSandboxStartsFrozenAndPaints(t *testing.T) {
	tm := NewTestMatch(
		WithMode(ModeSandbox),
		WithScriptedBoard(),
		WithUnit(0, King, GridPos{5, 5}),
		WithUnit(1, King, GridPos{50, 50}),
	)
	if !tm.E.Paused() {
		t.Fatal("sandbox should start with a frozen clock")
	}
	human := tm.E.HumanID()
	if !tm.E.PaintUnit(human, Queen, GridPos{10, 10}) {
		t.Fatal("paint refused on a free tile")
	}
	if tm.E.PaintUnit(human, Pawn, GridPos{10, 10}) {
		t.Fatal("painted over an occupied tile")
	}
	if !tm.E.EraseUnit(GridPos{10, 10}) {
		t.Fatal("erase refused")
	}
	if tm.E.Store().UnitAt(GridPos{10, 10}) != nil {
		t.Fatal("unit survived erase")
	}

	// Resume is ignored until simulation is toggled on.
	tm.E.SetPaused(false)
	if !tm.E.Paused() {
		t.Fatal("edit-mode sandbox resumed without SetSimulate")
	}
	tm.E.SetSimulate(true)
	if tm.E.Paused() {
		t.Fatal("simulate did not release the clock")
	}
}

func TestAdventureSeedsVaults(t *testing.T) {
	tm := NewTestMatch(WithMode(ModeAdventure), WithSeed(11))
	vaults := 0
	for _, u := range tm.E.Store().Units() {
		if !u.Dead && u.Type == Vault {
			vaults++
		}
	}
	if want := tm.E.Balance().Economy.AdventureVaults; vaults != want {
		t.Fatalf("adventure vaults: got %d, want %d", vaults, want)
	}
}
