package engine

// Store owns the canonical entity collections for a match: units, players,
// and coins, plus the spatial index that mirrors live unit positions. All
// mutation funnels through the engine; the store itself only offers handle
// bookkeeping so it stays trivially snapshot-able under single-threaded use.
type Store struct {
	units   map[UnitID]*Unit
	players map[PlayerID]*Player
	coins   map[GridPos]*Coin
	index   SpatialIndex

	nextUnit   UnitID
	nextPlayer PlayerID
	nextCoin   int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		units:   make(map[UnitID]*Unit),
		players: make(map[PlayerID]*Player),
		coins:   make(map[GridPos]*Coin),
		index:   NewSpatialIndex(),
	}
}

// Unit returns the unit for id, or nil.
func (s *Store) Unit(id UnitID) *Unit {
	return s.units[id]
}

// Player returns the player for id, or nil.
func (s *Store) Player(id PlayerID) *Player {
	return s.players[id]
}

// CoinAt returns the coin at pos, or nil.
func (s *Store) CoinAt(pos GridPos) *Coin {
	return s.coins[pos]
}

// UnitAt resolves the spatial index at pos to a live unit. Stale entries
// (dead or missing units) are repaired inline and reported as vacant — the
// self-healing contract the resolver relies on.
func (s *Store) UnitAt(pos GridPos) *Unit {
	id, ok := s.index.Get(pos)
	if !ok {
		return nil
	}
	u := s.units[id]
	if u == nil || u.Dead || u.Pos != pos {
		s.index.Delete(pos)
		return nil
	}
	return u
}

// AddPlayer creates and registers a new player.
func (s *Store) AddPlayer(name, color string) *Player {
	p := newPlayer(s.nextPlayer, name, color)
	s.players[p.ID] = p
	s.nextPlayer++
	return p
}

// SpawnUnit creates a unit for owner at pos, indexes it, and appends it to the
// owner's roster. The caller must have validated that pos is free.
func (s *Store) SpawnUnit(owner PlayerID, t UnitType, pos GridPos) *Unit {
	u := &Unit{
		ID:    s.nextUnit,
		Owner: owner,
		Type:  t,
		Pos:   pos,
		HP:    1,
	}
	s.nextUnit++
	s.units[u.ID] = u
	s.index.Set(pos, u.ID)
	if p := s.players[owner]; p != nil {
		p.Units = append(p.Units, u.ID)
	}
	return u
}

// KillUnit marks a unit dead and removes it from the index. Roster slices keep
// the id; liveness is always read from the unit itself.
func (s *Store) KillUnit(u *Unit) {
	if u == nil || u.Dead {
		return
	}
	u.Dead = true
	u.HP = 0
	if id, ok := s.index.Get(u.Pos); ok && id == u.ID {
		s.index.Delete(u.Pos)
	}
}

// MoveUnit relocates a live unit and keeps the index consistent.
func (s *Store) MoveUnit(u *Unit, to GridPos) {
	if id, ok := s.index.Get(u.Pos); ok && id == u.ID {
		s.index.Delete(u.Pos)
	}
	u.Pos = to
	s.index.Set(to, u.ID)
}

// DropCoin places a coin at pos, replacing any coin already there.
func (s *Store) DropCoin(pos GridPos, value int) *Coin {
	c := &Coin{ID: s.nextCoin, Pos: pos, Value: value}
	s.nextCoin++
	s.coins[pos] = c
	return c
}

// TakeCoin removes and returns the coin at pos, or nil.
func (s *Store) TakeCoin(pos GridPos) *Coin {
	c := s.coins[pos]
	if c != nil {
		delete(s.coins, pos)
	}
	return c
}

// Players returns the player map for iteration. Callers must not add or
// remove entries.
func (s *Store) Players() map[PlayerID]*Player {
	return s.players
}

// Units returns the unit map for iteration. Callers must not add or remove
// entries.
func (s *Store) Units() map[UnitID]*Unit {
	return s.units
}

// Coins returns the coin map for iteration.
func (s *Store) Coins() map[GridPos]*Coin {
	return s.coins
}

// Index exposes the spatial index for queries.
func (s *Store) Index() SpatialIndex {
	return s.index
}

// LiveRoster returns the ids of a player's non-dead units.
func (s *Store) LiveRoster(id PlayerID) []UnitID {
	p := s.players[id]
	if p == nil {
		return nil
	}
	out := make([]UnitID, 0, len(p.Units))
	for _, uid := range p.Units {
		// Ownership can change (conversion); the roster slice is append-only.
		if u := s.units[uid]; u != nil && !u.Dead && u.Owner == id {
			out = append(out, uid)
		}
	}
	return out
}

// LiveKing returns a player's king if it is alive, else nil.
func (s *Store) LiveKing(id PlayerID) *Unit {
	p := s.players[id]
	if p == nil {
		return nil
	}
	for _, uid := range p.Units {
		if u := s.units[uid]; u != nil && !u.Dead && u.Owner == id && u.Type == King {
			return u
		}
	}
	return nil
}
