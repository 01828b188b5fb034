package engine

// slideMaxRange caps rook/bishop/queen rays. The board is large enough that
// unbounded rays would let queens snipe across the whole map.
const slideMaxRange = 8

// Base move cooldowns in virtual milliseconds, divided by the mode speed
// factor at query time.
var baseCooldowns = [unitTypeCount]VirtualTime{
	Pawn:   800,
	Knight: 1100,
	Bishop: 1100,
	Rook:   1300,
	Queen:  1600,
	King:   900,
	Vault:  0, // vaults never move
}

// moveCooldown returns the effective cooldown for a unit type under the
// match's speed factor.
func (e *Engine) moveCooldown(t UnitType) VirtualTime {
	return VirtualTime(float64(baseCooldowns[t]) / e.speedFactor)
}

// cooldownReady reports whether the unit may act at virtual time now.
func (e *Engine) cooldownReady(u *Unit, now VirtualTime) bool {
	return now-u.LastMoveTime >= e.moveCooldown(u.Type)
}

var (
	cardinalOffsets = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonalOffsets = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	kingOffsets     = [8][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	knightOffsets = [8][2]int{
		{1, 2}, {2, 1}, {2, -1}, {1, -2},
		{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
	}
)

// onBoard reports whether pos is inside the playfield.
func (e *Engine) onBoard(pos GridPos) bool {
	return pos.X >= 0 && pos.X < e.width && pos.Y >= 0 && pos.Y < e.height
}

// passable reports whether pos is on the board and not terrain-blocked.
func (e *Engine) passable(pos GridPos) bool {
	return e.onBoard(pos) && !e.terrain.IsBlocking(pos.X, pos.Y)
}

// captureTarget resolves the occupant of pos for a prospective attacker.
// Returns (occupant, capturable): occupant nil means the cell is vacant;
// capturable false with a non-nil occupant means the ray/step is blocked.
func (e *Engine) captureTarget(attacker *Unit, pos GridPos) (*Unit, bool) {
	occ := e.store.UnitAt(pos)
	if occ == nil {
		return nil, false
	}
	if occ.Owner == attacker.Owner {
		return occ, false
	}
	return occ, e.mode.CanAttack(attacker, occ, e)
}

// ValidMoves enumerates the legal destinations for a unit at virtual time now.
// When checkCooldown is true a unit still on cooldown has no legal moves.
// Pawns have the asymmetric rule: cardinal steps only onto empty tiles,
// diagonal steps only onto capturable enemies.
func (e *Engine) ValidMoves(u *Unit, now VirtualTime, checkCooldown bool) []GridPos {
	if u == nil || u.Dead || u.Type == Vault {
		return nil
	}
	if checkCooldown && !e.cooldownReady(u, now) {
		return nil
	}

	var out []GridPos
	switch u.Type {
	case King:
		for _, off := range kingOffsets {
			dst := GridPos{u.Pos.X + off[0], u.Pos.Y + off[1]}
			if !e.passable(dst) {
				continue
			}
			occ, capturable := e.captureTarget(u, dst)
			if occ == nil || capturable {
				out = append(out, dst)
			}
		}
	case Pawn:
		for _, off := range cardinalOffsets {
			dst := GridPos{u.Pos.X + off[0], u.Pos.Y + off[1]}
			if !e.passable(dst) {
				continue
			}
			if e.store.UnitAt(dst) == nil {
				out = append(out, dst)
			}
		}
		for _, off := range diagonalOffsets {
			dst := GridPos{u.Pos.X + off[0], u.Pos.Y + off[1]}
			if !e.passable(dst) {
				continue
			}
			occ, capturable := e.captureTarget(u, dst)
			if occ != nil && capturable {
				out = append(out, dst)
			}
		}
	case Knight:
		for _, off := range knightOffsets {
			dst := GridPos{u.Pos.X + off[0], u.Pos.Y + off[1]}
			if !e.passable(dst) {
				continue
			}
			occ, capturable := e.captureTarget(u, dst)
			if occ == nil || capturable {
				out = append(out, dst)
			}
		}
	case Rook:
		out = e.slideMoves(u, cardinalOffsets[:])
	case Bishop:
		out = e.slideMoves(u, diagonalOffsets[:])
	case Queen:
		out = append(e.slideMoves(u, cardinalOffsets[:]), e.slideMoves(u, diagonalOffsets[:])...)
	}
	return out
}

// slideMoves ray-casts along the given axis set up to slideMaxRange, stopping
// at the first occupant (included if capturable) or terrain obstruction.
func (e *Engine) slideMoves(u *Unit, dirs [][2]int) []GridPos {
	var out []GridPos
	for _, d := range dirs {
		for step := 1; step <= slideMaxRange; step++ {
			dst := GridPos{u.Pos.X + d[0]*step, u.Pos.Y + d[1]*step}
			if !e.passable(dst) {
				break
			}
			occ, capturable := e.captureTarget(u, dst)
			if occ != nil {
				if capturable {
					out = append(out, dst)
				}
				break
			}
			out = append(out, dst)
		}
	}
	return out
}

// threatens reports whether unit u could capture pos on its next move,
// ignoring cooldown. Sliding pieces require an unobstructed ray. Used by the
// AI king-safety and destination-safety checks.
func (e *Engine) threatens(u *Unit, pos GridPos) bool {
	if u == nil || u.Dead || u.Type == Vault {
		return false
	}
	dx := pos.X - u.Pos.X
	dy := pos.Y - u.Pos.Y
	switch u.Type {
	case King:
		return kingThreatens(u.Pos, pos)
	case Pawn:
		return abs(dx) == 1 && abs(dy) == 1
	case Knight:
		return (abs(dx) == 1 && abs(dy) == 2) || (abs(dx) == 2 && abs(dy) == 1)
	case Rook:
		if dx != 0 && dy != 0 {
			return false
		}
		return e.clearRay(u.Pos, pos)
	case Bishop:
		if abs(dx) != abs(dy) {
			return false
		}
		return e.clearRay(u.Pos, pos)
	case Queen:
		if dx != 0 && dy != 0 && abs(dx) != abs(dy) {
			return false
		}
		return e.clearRay(u.Pos, pos)
	}
	return false
}

// kingThreatens is the adjacency refinement for threatens with King movers.
func kingThreatens(from, to GridPos) bool {
	return from != to && from.Chebyshev(to) == 1
}

// clearRay reports whether the straight line strictly between from and to is
// free of units and blocking terrain, and within sliding range.
func (e *Engine) clearRay(from, to GridPos) bool {
	dx := sign(to.X - from.X)
	dy := sign(to.Y - from.Y)
	dist := from.Chebyshev(to)
	if dist == 0 || dist > slideMaxRange {
		return false
	}
	cur := from
	for i := 1; i < dist; i++ {
		cur = GridPos{cur.X + dx, cur.Y + dy}
		if !e.passable(cur) {
			return false
		}
		if e.store.UnitAt(cur) != nil {
			return false
		}
	}
	return e.passable(to)
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// tileThreatenedBy returns a live unit hostile to owner that threatens pos,
// or nil when the tile is safe. Which threatener comes back is unspecified;
// callers only need one.
func (e *Engine) tileThreatenedBy(pos GridPos, owner PlayerID) *Unit {
	for _, u := range e.store.Units() {
		if u.Dead || u.Owner == owner || u.Type == Vault {
			continue
		}
		if p := e.store.Player(u.Owner); p != nil && p.AlliedWith(owner) {
			continue
		}
		if e.threatens(u, pos) {
			return u
		}
	}
	return nil
}
