package engine

import (
	"testing"

	"github.com/Garsondee/chess-royale/internal/config"
)

// diploMatch builds a diplomacy-mode match with idle bots and kings parked
// close enough to negotiate.
func diploMatch(t *testing.T, opts ...MatchOption) *TestMatch {
	t.Helper()
	base := []MatchOption{
		WithMode(ModeDiplomacy),
		WithBalance(slowBots),
		WithScriptedBoard(),
		WithUnit(0, King, GridPos{20, 20}),
		WithUnit(1, King, GridPos{24, 20}),
		WithUnit(2, King, GridPos{20, 24}),
		WithUnit(3, King, GridPos{24, 24}),
		WithUnit(4, King, GridPos{50, 50}), // far away, out of proximity
	}
	return NewTestMatch(append(base, opts...)...)
}

func TestFormAllianceMergesCliques(t *testing.T) {
	tm := diploMatch(t)
	a, b, c := tm.Player(1), tm.Player(2), tm.Player(3)

	if !tm.E.FormAlliance(a.ID, b.ID) {
		t.Fatal("first alliance refused")
	}
	if !a.AlliedWith(b.ID) || !b.AlliedWith(a.ID) {
		t.Fatal("alliance not symmetric")
	}

	// b allies c: all three must end up in one clique.
	if !tm.E.FormAlliance(b.ID, c.ID) {
		t.Fatal("second alliance refused")
	}
	if !a.AlliedWith(c.ID) || !c.AlliedWith(a.ID) {
		t.Fatal("clique merge did not connect a and c")
	}
}

func TestFormAllianceRequiresProximity(t *testing.T) {
	tm := diploMatch(t)
	near, far := tm.Player(1), tm.Player(4)
	if tm.E.FormAlliance(near.ID, far.ID) {
		t.Fatal("alliance formed across the map")
	}
}

func TestDeclareWarPropagatesAcrossPacks(t *testing.T) {
	tm := diploMatch(t)
	a, b, c, d := tm.Player(1), tm.Player(2), tm.Player(3), tm.Player(4)

	if !tm.E.FormAlliance(a.ID, b.ID) {
		t.Fatal("pack one refused")
	}
	if !tm.E.FormAlliance(c.ID, d.ID) {
		// c and d are out of proximity; move d's king next door first.
		king := tm.E.Store().LiveKing(d.ID)
		tm.E.Store().MoveUnit(king, GridPos{26, 24})
		if !tm.E.FormAlliance(c.ID, d.ID) {
			t.Fatal("pack two refused after repositioning")
		}
	}

	if !tm.E.DeclareWar(a.ID, c.ID) {
		t.Fatal("war declaration refused")
	}
	for _, x := range []*Player{a, b} {
		for _, y := range []*Player{c, d} {
			if !x.HostileTo(y.ID) || !y.HostileTo(x.ID) {
				t.Fatalf("war did not propagate between %s and %s", x.Name, y.Name)
			}
		}
	}
	// Intra-pack alliances survive the war.
	if !a.AlliedWith(b.ID) || !c.AlliedWith(d.ID) {
		t.Fatal("war dissolved the packs themselves")
	}
	// Idle pack members pick up a vendetta against the opposing principal.
	if b.AIState != AIVendetta || b.TargetID != c.ID {
		t.Fatalf("pack member not redirected: state=%v target=%d", b.AIState, b.TargetID)
	}
}

func TestBreakAllianceIsWar(t *testing.T) {
	tm := diploMatch(t)
	a, b := tm.Player(1), tm.Player(2)
	if !tm.E.FormAlliance(a.ID, b.ID) {
		t.Fatal("alliance refused")
	}
	if !tm.E.BreakAlliance(a.ID, b.ID) {
		t.Fatal("break refused")
	}
	if a.AlliedWith(b.ID) {
		t.Fatal("alliance survived the break")
	}
	if !a.HostileTo(b.ID) {
		t.Fatal("break did not declare war")
	}
}

func TestAllianceRequestRespectsSizeCap(t *testing.T) {
	tm := diploMatch(t, WithBalance(func(b *config.Balance) {
		b.Diplomacy.MaxAllianceSize = 2
		b.Diplomacy.AcceptBase = 1.0
	}))
	a, b, c := tm.Player(1), tm.Player(2), tm.Player(3)
	if !tm.E.FormAlliance(a.ID, b.ID) {
		t.Fatal("alliance refused")
	}
	if tm.E.HandleAllianceRequest(a.ID, c.ID) {
		t.Fatal("request accepted past the size cap")
	}
}

func TestCourtshipPairsLonelyBots(t *testing.T) {
	tm := diploMatch(t, WithBalance(func(b *config.Balance) {
		b.Diplomacy.CheckIntervalMs = 100
		b.Diplomacy.AcceptBase = 1.0
		// Hold the director in Chaos so total war cannot dissolve the pairs.
		b.Director.HuntAt = 0
		b.Director.ConvergenceAt = 0
		b.Director.SuddenDeathAt = 0
	}))
	tm.RunMs(500)

	for idx := 1; idx <= 3; idx++ {
		if p := tm.Player(idx); len(p.Allies) == 0 {
			t.Fatalf("%s still lonely after the courtship passes", p.Name)
		}
	}
	if human := tm.Player(0); len(human.Allies) != 0 {
		t.Fatal("a bot courted the human")
	}
	if far := tm.Player(4); len(far.Allies) != 0 {
		t.Fatal("out-of-range bot found a partner")
	}
}

func TestHumanProposesAllianceToNearestKing(t *testing.T) {
	tm := diploMatch(t, WithBalance(func(b *config.Balance) {
		b.Diplomacy.AcceptBase = 1.0
	}))
	if !tm.E.ProposeAlliance() {
		t.Fatal("certain-acceptance offer refused")
	}
	human, mate := tm.Player(0), tm.Player(1)
	if !human.AlliedWith(mate.ID) || !mate.AlliedWith(human.ID) {
		t.Fatal("alliance not recorded with the nearest bot")
	}
}

func TestHumanDeclaresWarOnNearestAgent(t *testing.T) {
	tm := diploMatch(t)
	if !tm.E.DeclareWarNearest() {
		t.Fatal("war declaration refused")
	}
	human, foe := tm.Player(0), tm.Player(1)
	if !human.HostileTo(foe.ID) || !foe.HostileTo(human.ID) {
		t.Fatal("no hostility with the nearest agent")
	}
}

func TestUnprovokedKillStartsWar(t *testing.T) {
	tm := NewTestMatch(
		WithMode(ModeDiplomacy),
		WithBalance(func(b *config.Balance) {
			slowBots(b)
			b.Diplomacy.ArmisticeMs = 0
		}),
		WithScriptedBoard(),
		WithUnit(0, King, GridPos{5, 5}),
		WithUnit(1, King, GridPos{50, 50}),
		WithUnit(1, Rook, GridPos{20, 20}),
		WithUnit(2, King, GridPos{55, 55}),
		WithUnit(2, Pawn, GridPos{23, 20}),
	)
	a, b := tm.Player(1), tm.Player(2)
	rook := tm.E.Store().UnitAt(GridPos{20, 20})
	if !tm.E.moveUnit(rook, GridPos{23, 20}, 1e6) {
		t.Fatal("capture refused")
	}
	if !a.HostileTo(b.ID) || !b.HostileTo(a.ID) {
		t.Fatal("first blood between strangers did not start a war")
	}
}

func TestAllianceRequestChanceExtremes(t *testing.T) {
	always := diploMatch(t, WithBalance(func(b *config.Balance) {
		b.Diplomacy.AcceptBase = 1.0
	}))
	if !always.E.HandleAllianceRequest(always.Player(1).ID, always.E.HumanID()) {
		t.Fatal("certain-acceptance request refused")
	}

	never := diploMatch(t, WithBalance(func(b *config.Balance) {
		b.Diplomacy.AcceptBase = 0
		b.Diplomacy.AcceptArmisticeBonus = 0
		b.Diplomacy.AcceptSmallArmyBonus = 0
		b.Diplomacy.AcceptTurtleBonus = 0
	}))
	if never.E.HandleAllianceRequest(never.Player(1).ID, never.E.HumanID()) {
		t.Fatal("zero-chance request accepted")
	}
}
