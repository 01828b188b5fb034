package engine

import (
	"strings"
	"testing"
)

// checkWorldConsistent asserts the structural invariants that must hold at
// any point in any mode: one unit per tile, a coherent spatial index, no
// negative scores, and no live units on eliminated rosters.
func checkWorldConsistent(t *testing.T, tm *TestMatch) {
	t.Helper()
	e := tm.E

	live := 0
	for _, u := range e.Store().Units() {
		if u.Dead {
			continue
		}
		live++
		got := e.Store().UnitAt(u.Pos)
		if got == nil || got.ID != u.ID {
			t.Fatalf("index mismatch at %v: unit %d not resolvable", u.Pos, u.ID)
		}
		if e.Terrain().IsBlocking(u.Pos.X, u.Pos.Y) {
			t.Fatalf("unit %d standing in blocking terrain at %v", u.ID, u.Pos)
		}
	}
	if idx := e.Store().Index().Len(); idx != live {
		t.Fatalf("index holds %d entries for %d live units", idx, live)
	}

	for _, p := range e.Store().Players() {
		if p.Material < 0 {
			t.Fatalf("player %s has negative material %d", p.Name, p.Material)
		}
		if p.Eliminated && !p.NPC {
			if n := len(e.Store().LiveRoster(p.ID)); n != 0 {
				t.Fatalf("eliminated %s still fields %d units", p.Name, n)
			}
		}
	}
}

func TestStandardBotMatchRunsConsistently(t *testing.T) {
	tm := NewTestMatch(WithSeed(21), WithBots(10), WithVerbose(true))
	for i := 0; i < 20; i++ {
		tm.RunTicks(250)
		checkWorldConsistent(t, tm)
		if tm.E.GameOver() != nil {
			break
		}
	}
	if tm.Log.CountCategory("combat", "kill") == 0 {
		t.Fatal("eighty virtual seconds of battle royale without a single kill")
	}
}

func TestZombiesMatchPressureMounts(t *testing.T) {
	tm := NewTestMatch(WithMode(ModeZombies), WithSeed(8), WithBots(6))
	tm.RunTicks(3000)
	checkWorldConsistent(t, tm)
	if tm.Log.CountCategory("mode", "conversion") == 0 && tm.E.GameOver() == nil {
		zombies := 0
		for _, u := range tm.E.Store().Units() {
			if !u.Dead && u.Zombie {
				zombies++
			}
		}
		if zombies == 0 {
			t.Fatal("no zombies on the board after 48 virtual seconds")
		}
	}
}

func TestDiplomacyMatchHoldsArmistice(t *testing.T) {
	tm := NewTestMatch(WithMode(ModeDiplomacy), WithSeed(13), WithBots(8), WithVerbose(true))
	// Run out half the armistice: not one kill of a non-NPC unit may land.
	armistice := float64(tm.E.Balance().Diplomacy.ArmisticeMs)
	tm.RunMs(armistice / 2)
	checkWorldConsistent(t, tm)
	for _, entry := range tm.Log.Filter("combat", "kill") {
		// Vault raids are the only legal violence while the truce holds.
		if !strings.Contains(entry.Value, "Caches") {
			t.Fatalf("kill during armistice: %s", entry.String())
		}
	}
}

func TestMatchLogQueries(t *testing.T) {
	ml := NewMatchLog(false)
	ml.Add(1000, "Vex", "combat", "kill", "unit of Korrin at 3,4", 7)
	ml.Add(2000, "Vex", "diplomacy", "war", "against Korrin", 0)
	ml.Add(3000, "Korrin", "combat", "kill", "unit of Vex at 5,5", 9)

	if got := ml.CountCategory("combat", "kill"); got != 2 {
		t.Fatalf("CountCategory: got %d, want 2", got)
	}
	if got := len(ml.FilterPlayer("Vex")); got != 2 {
		t.Fatalf("FilterPlayer: got %d, want 2", got)
	}
	last, ok := ml.LastOf("combat", "kill")
	if !ok || last.Player != "Korrin" {
		t.Fatalf("LastOf returned %+v", last)
	}
	if !ml.HasEntry("diplomacy", "war", "Korrin") {
		t.Fatal("HasEntry missed the war line")
	}
	if ml.HasEntry("diplomacy", "alliance", "") {
		t.Fatal("HasEntry invented an alliance")
	}
	ml.AddVerbose(4000, "Vex", "unit", "spawn", "at 1,1", 0)
	if len(ml.Entries()) != 3 {
		t.Fatal("verbose entry recorded on a quiet log")
	}
}
