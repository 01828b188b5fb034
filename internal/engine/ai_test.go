package engine

import (
	"testing"

	"github.com/Garsondee/chess-royale/internal/config"
)

func TestScoreMovePrefersCapture(t *testing.T) {
	tm := NewTestMatch(
		WithBalance(slowBots),
		WithScriptedBoard(),
		WithUnit(0, King, GridPos{5, 5}),
		WithUnit(1, King, GridPos{50, 50}),
		WithUnit(1, Rook, GridPos{20, 20}),
		WithUnit(0, Queen, GridPos{23, 20}),
	)
	bot := tm.Player(1)
	rook := tm.E.Store().UnitAt(GridPos{20, 20})
	goal := GridPos{5, 5}

	capture := tm.E.scoreMove(bot, rook, GridPos{23, 20}, goal)
	quiet := tm.E.scoreMove(bot, rook, GridPos{19, 20}, goal)
	if capture <= quiet {
		t.Fatalf("queen capture scored %.2f, quiet move %.2f", capture, quiet)
	}
}

func TestScoreMovePenalizesThreatenedTiles(t *testing.T) {
	tm := NewTestMatch(
		WithBalance(slowBots),
		WithScriptedBoard(),
		WithUnit(0, King, GridPos{5, 5}),
		WithUnit(0, Rook, GridPos{26, 23}), // threatens column x=26
		WithUnit(1, King, GridPos{50, 50}),
		WithUnit(1, Queen, GridPos{24, 20}),
	)
	bot := tm.Player(1)
	bot.TargetID = tm.E.HumanID() // caution only applies when human-facing
	queen := tm.E.Store().UnitAt(GridPos{24, 20})
	goal := GridPos{5, 5}

	threatened := tm.E.scoreMove(bot, queen, GridPos{26, 20}, goal)
	safe := tm.E.scoreMove(bot, queen, GridPos{24, 19}, goal)
	if threatened >= safe {
		t.Fatalf("threatened tile scored %.2f, safe tile %.2f", threatened, safe)
	}
}

func TestBestMoveAdvancesTowardGoal(t *testing.T) {
	tm := NewTestMatch(
		WithBalance(func(b *config.Balance) {
			slowBots(b)
			b.AI.JitterWeight = 0 // deterministic scoring
		}),
		WithScriptedBoard(),
		WithUnit(0, King, GridPos{5, 5}),
		WithUnit(1, King, GridPos{50, 50}),
		WithUnit(1, Knight, GridPos{30, 30}),
	)
	bot := tm.Player(1)
	knight := tm.E.Store().UnitAt(GridPos{30, 30})
	goal := GridPos{5, 5}

	mv, _, found := tm.E.bestMove(bot, knight, goal, 1e6)
	if !found {
		t.Fatal("no move found on an open board")
	}
	if mv.Manhattan(goal) >= knight.Pos.Manhattan(goal) {
		t.Fatalf("best move %v does not approach goal from %v", mv, knight.Pos)
	}
}

func TestKingSafetyPreemptsEverything(t *testing.T) {
	tm := NewTestMatch(
		WithBalance(slowBots),
		WithScriptedBoard(),
		WithUnit(0, King, GridPos{5, 5}),
		WithUnit(0, Rook, GridPos{24, 20}), // threatens the bot king's file
		WithUnit(1, King, GridPos{24, 24}),
	)
	bot := tm.Player(1)
	king := tm.E.Store().LiveKing(bot.ID)
	if tm.E.tileThreatenedBy(king.Pos, bot.ID) == nil {
		t.Fatal("setup: bot king should be threatened")
	}

	now := VirtualTime(1e6)
	if !tm.E.kingSafetyMove(bot, now) {
		t.Fatal("king safety move not taken")
	}
	king = tm.E.Store().LiveKing(bot.ID)
	if tm.E.tileThreatenedBy(king.Pos, bot.ID) != nil {
		t.Fatalf("king still threatened after safety move, at %v", king.Pos)
	}
}

func TestKingSafetyPrefersCounterCapture(t *testing.T) {
	tm := NewTestMatch(
		WithBalance(slowBots),
		WithScriptedBoard(),
		WithUnit(0, King, GridPos{5, 5}),
		WithUnit(0, Rook, GridPos{24, 20}),   // threatens the bot king
		WithUnit(1, King, GridPos{24, 24}),
		WithUnit(1, Queen, GridPos{20, 20}), // can take the rook along the row
	)
	bot := tm.Player(1)
	now := VirtualTime(1e6)
	if !tm.E.kingSafetyMove(bot, now) {
		t.Fatal("king safety move not taken")
	}
	if got := tm.E.Store().UnitAt(GridPos{24, 20}); got == nil || got.Type != Queen || got.Owner != bot.ID {
		t.Fatal("queen did not counter-capture the attacker")
	}
}

func TestEffectiveDelayFloorsAgainstHuman(t *testing.T) {
	tm := NewTestMatch(
		WithDifficulty(Hard),
		WithBalance(func(b *config.Balance) {
			b.AI.DelayHardMs = 10
			b.AI.BotDelayMs = 10
			b.AI.HumanFloorMs = 100
			b.AI.TravelDistance = 1 << 30
		}),
	)
	bot := tm.Player(1)
	bot.Personality = Opportunist
	bot.TargetID = tm.E.HumanID()
	if d := tm.E.effectiveDelay(bot); d < 100 {
		t.Fatalf("human-facing delay %v under the floor", d)
	}
	bot.TargetID = tm.Player(2).ID
	if d := tm.E.effectiveDelay(bot); d >= 100 {
		t.Fatalf("bot-facing delay %v should be under the floor", d)
	}
}

func TestScoreMoveChasesNearestLocalEnemy(t *testing.T) {
	tm := NewTestMatch(
		WithBalance(func(b *config.Balance) {
			slowBots(b)
			b.AI.JitterWeight = 0
		}),
		WithScriptedBoard(),
		WithUnit(0, King, GridPos{5, 5}),
		WithUnit(0, Pawn, GridPos{33, 30}), // skirmisher right next door
		WithUnit(1, King, GridPos{50, 50}),
		WithUnit(1, Rook, GridPos{30, 30}),
	)
	bot := tm.Player(1)
	rook := tm.E.Store().UnitAt(GridPos{30, 30})
	goal := GridPos{5, 5} // the army's global goal is off to the north-west

	toward := tm.E.scoreMove(bot, rook, GridPos{32, 30}, goal)
	away := tm.E.scoreMove(bot, rook, GridPos{28, 30}, goal)
	if toward <= away {
		t.Fatalf("rook ignored the adjacent fight: toward %.2f, away %.2f", toward, away)
	}
}

func TestTargetingHonorsHumanDuels(t *testing.T) {
	tm := NewTestMatch(
		WithBots(6),
		WithBalance(func(b *config.Balance) {
			slowBots(b)
			b.AI.VisionRange = 1 << 30
		}),
	)
	human := tm.E.HumanID()
	p := tm.Player(1)
	for i := 2; i <= 6; i++ {
		tm.Player(i).TargetID = human
	}
	tm.E.acquireTarget(p)
	if p.TargetID != human {
		t.Fatalf("every bot was duelling the human, expected p to pick the human, got %d", p.TargetID)
	}
}

func TestDuelHonorTargetsLastOpponent(t *testing.T) {
	tm := NewTestMatch(
		WithBots(2),
		WithBalance(slowBots),
	)
	// Eliminate the human: two bots remain.
	tm.E.cascadeElimination(tm.Player(0), NoPlayer, 0)

	a, b := tm.Player(1), tm.Player(2)
	tm.E.acquireTarget(a)
	tm.E.acquireTarget(b)
	if a.TargetID != b.ID || b.TargetID != a.ID {
		t.Fatalf("duelists not locked on: a→%d b→%d", a.TargetID, b.TargetID)
	}
}

func TestGoalMarchesOnZombieHorde(t *testing.T) {
	tm := NewTestMatch(
		WithMode(ModeZombies),
		WithBalance(func(b *config.Balance) {
			slowBots(b)
			b.AI.VisionRange = 1 << 30
		}),
		WithScriptedBoard(),
		WithUnit(0, King, GridPos{5, 5}),
		WithUnit(1, King, GridPos{20, 20}),
	)
	z := tm.E.Store().SpawnUnit(tm.E.zombieID, Pawn, GridPos{30, 20})
	z.Zombie = true

	bot := tm.Player(1)
	bot.TargetID = tm.E.HumanID() // the horde still outranks the duel
	goal, ok := tm.E.aiGoal(bot)
	if !ok || goal != z.Pos {
		t.Fatalf("goal: got %v (ok=%v), want the zombie at %v", goal, ok, z.Pos)
	}
}

func TestGoalMarchesOnVaults(t *testing.T) {
	tm := NewTestMatch(
		WithMode(ModeAdventure),
		WithBalance(func(b *config.Balance) {
			slowBots(b)
			b.AI.VisionRange = 1 << 30
			b.Economy.AdventureVaults = 0 // place the hoard by hand
		}),
		WithScriptedBoard(),
		WithUnit(0, King, GridPos{5, 5}),
		WithUnit(1, King, GridPos{20, 20}),
	)
	vault := tm.E.Store().SpawnUnit(tm.E.neutralID, Vault, GridPos{34, 20})

	bot := tm.Player(1)
	goal, ok := tm.E.aiGoal(bot)
	if !ok || goal != vault.Pos {
		t.Fatalf("goal: got %v (ok=%v), want the vault at %v", goal, ok, vault.Pos)
	}
}

func TestEasyDifficultySkipsCaution(t *testing.T) {
	tm := NewTestMatch(
		WithDifficulty(Easy),
		WithBalance(func(b *config.Balance) {
			slowBots(b)
			b.AI.JitterWeight = 0
		}),
		WithScriptedBoard(),
		WithUnit(0, King, GridPos{5, 5}),
		WithUnit(0, Rook, GridPos{26, 23}), // threatens column x=26
		WithUnit(1, King, GridPos{50, 50}),
		WithUnit(1, Queen, GridPos{24, 20}),
	)
	if tm.E.safetyChecksEnabled() {
		t.Fatal("easy difficulty should never second-guess")
	}
	bot := tm.Player(1)
	bot.TargetID = tm.E.HumanID()
	queen := tm.E.Store().UnitAt(GridPos{24, 20})
	goal := GridPos{5, 5}

	threatened := tm.E.scoreMove(bot, queen, GridPos{26, 20}, goal)
	safe := tm.E.scoreMove(bot, queen, GridPos{24, 19}, goal)
	if threatened < safe {
		t.Fatalf("easy bot still flinched: threatened %.2f, safe %.2f", threatened, safe)
	}
}

func TestTotalWarStripsCaution(t *testing.T) {
	tm := NewTestMatch(
		WithBots(4),
		WithBalance(func(b *config.Balance) {
			slowBots(b)
			b.Director.SuddenDeathAt = 10 // total war from the first tick
			b.Director.BoredomMs = 1 << 30
		}),
	)
	tm.RunTicks(1)
	if !tm.E.director.TotalWar() {
		t.Fatal("setup: expected total war")
	}
	if tm.E.safetyChecksEnabled() {
		t.Fatal("total war should strip caution from everyone")
	}
}

func TestZombieShamblesTowardPrey(t *testing.T) {
	tm := NewTestMatch(
		WithMode(ModeZombies),
		WithBalance(slowBots),
		WithScriptedBoard(),
		WithUnit(0, King, GridPos{5, 5}),
		WithUnit(1, King, GridPos{50, 50}),
	)
	z := tm.E.Store().SpawnUnit(tm.E.zombieID, Pawn, GridPos{30, 30})
	z.Zombie = true
	z.LastMoveTime = -1e6 // off cooldown

	prey := tm.E.nearestPrey(z.Pos)
	before := z.Pos.Manhattan(prey.Pos)
	tm.RunMs(float64(tm.E.Balance().Zombies.ShambleDelayMs) * 3)
	z = tm.E.Store().Unit(z.ID)
	after := z.Pos.Manhattan(prey.Pos)
	if after >= before {
		t.Fatalf("zombie did not close distance: %d then %d", before, after)
	}
}
