package engine

// SpatialIndex maps grid coordinates to the occupying unit. Movement, capture,
// vision scans, and AI threat checks all go through this instead of scanning
// the full unit collection. Every resolver path that moves or kills a unit
// must update the index in the same operation — dead units never appear here.
type SpatialIndex map[GridPos]UnitID

// NewSpatialIndex returns an empty index.
func NewSpatialIndex() SpatialIndex {
	return make(SpatialIndex)
}

// Set records id as the occupant of pos.
func (si SpatialIndex) Set(pos GridPos, id UnitID) {
	si[pos] = id
}

// Get returns the occupant of pos, or (NoUnit, false) when vacant.
func (si SpatialIndex) Get(pos GridPos) (UnitID, bool) {
	id, ok := si[pos]
	if !ok {
		return NoUnit, false
	}
	return id, true
}

// Delete clears pos.
func (si SpatialIndex) Delete(pos GridPos) {
	delete(si, pos)
}

// Len returns the number of occupied cells.
func (si SpatialIndex) Len() int {
	return len(si)
}
