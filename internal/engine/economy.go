package engine

import "sort"

// Credits buy reinforcements. Costs scale off chess material value so the
// economy and the scoreboard speak the same currency.

// UnitCost returns the credit price of a unit type, or 0 for types that
// cannot be bought.
func (e *Engine) UnitCost(t UnitType) int {
	switch t {
	case Pawn, Knight, Bishop, Rook, Queen:
		return t.MaterialValue() * e.bal.Economy.UnitCostPerPoint
	default:
		return 0
	}
}

// ValidSpawnTiles lists the free passable tiles within spawn reach of the
// player's king, sorted by distance to the king so the caller can pick the
// snuggest one first. No king, no reinforcements.
func (e *Engine) ValidSpawnTiles(id PlayerID) []GridPos {
	king := e.store.LiveKing(id)
	if king == nil {
		return nil
	}
	r := e.bal.Economy.SpawnRadius
	var tiles []GridPos
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			pos := GridPos{king.Pos.X + dx, king.Pos.Y + dy}
			if !e.onBoard(pos) || e.terrain.IsBlocking(pos.X, pos.Y) {
				continue
			}
			if e.store.UnitAt(pos) != nil {
				continue
			}
			tiles = append(tiles, pos)
		}
	}
	sort.Slice(tiles, func(i, j int) bool {
		di, dj := tiles[i].Chebyshev(king.Pos), tiles[j].Chebyshev(king.Pos)
		if di != dj {
			return di < dj
		}
		if tiles[i].Y != tiles[j].Y {
			return tiles[i].Y < tiles[j].Y
		}
		return tiles[i].X < tiles[j].X
	})
	return tiles
}

// BuyUnit purchases a unit for the player at pos. The tile must be a valid
// spawn tile and the credit balance must cover the price.
func (e *Engine) BuyUnit(id PlayerID, t UnitType, pos GridPos) bool {
	p := e.store.Player(id)
	if p == nil || p.Eliminated {
		return false
	}
	cost := e.UnitCost(t)
	if cost <= 0 || p.Credits < cost {
		return false
	}
	ok := false
	for _, tile := range e.ValidSpawnTiles(id) {
		if tile == pos {
			ok = true
			break
		}
	}
	if !ok {
		return false
	}
	p.Credits -= cost
	u := e.store.SpawnUnit(id, t, pos)
	e.addMaterial(p, t.MaterialValue(), e.clock.Now())
	e.emit(Event{Type: EventSpawn, Pos: pos, Actor: id, Unit: u.ID})
	return true
}

// botPurchase spends a bot's credits if its army is under the cap — a
// stricter one when the bot is hunting the human. Early phases buy cheap
// bodies; from Convergence on the mix shifts to heavy pieces so the endgame
// armies hit harder.
func (e *Engine) botPurchase(p *Player) {
	limit := e.bal.AI.ArmyCap
	if e.humanID != NoPlayer && p.TargetID == e.humanID {
		limit = e.bal.AI.ArmyCapVsHuman
	}
	if len(e.store.LiveRoster(p.ID)) >= limit {
		return
	}
	var want UnitType
	late := e.director.CenterGravity()
	roll := e.rng.Float64()
	switch {
	case late && roll < 0.35:
		want = Queen
	case late && roll < 0.65:
		want = Rook
	case roll < 0.45:
		want = Pawn
	case roll < 0.75:
		want = Knight
	default:
		want = Bishop
	}
	cost := e.UnitCost(want)
	if p.Credits < cost {
		// Settle for a pawn rather than hoard.
		want = Pawn
		if cost = e.UnitCost(want); p.Credits < cost {
			return
		}
	}
	tiles := e.spawnTilesTowardTarget(p)
	for _, tile := range tiles {
		if e.BuyUnit(p.ID, want, tile) {
			return
		}
	}
}

// spawnTilesTowardTarget orders a bot's spawn tiles so reinforcements appear
// on the side of the king facing the current target, dropping tiles already
// under enemy threat while safety checks apply.
func (e *Engine) spawnTilesTowardTarget(p *Player) []GridPos {
	tiles := e.ValidSpawnTiles(p.ID)
	if e.safetyChecksEnabled() {
		safe := tiles[:0]
		for _, tile := range tiles {
			if e.tileThreatenedBy(tile, p.ID) == nil {
				safe = append(safe, tile)
			}
		}
		tiles = safe
	}
	tk := e.store.LiveKing(p.TargetID)
	if tk == nil {
		return tiles
	}
	goal := tk.Pos
	sort.SliceStable(tiles, func(i, j int) bool {
		return tiles[i].Manhattan(goal) < tiles[j].Manhattan(goal)
	})
	return tiles
}
