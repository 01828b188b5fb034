package engine

// TileType identifies the special terrain occupying a cell. Cells without an
// entry in the terrain map are plain grass.
type TileType int

const (
	TileGrass TileType = iota
	TileWall
	TileForest
	TileWater
	TileSand
	TileSnow
)

func (t TileType) String() string {
	switch t {
	case TileGrass:
		return "grass"
	case TileWall:
		return "wall"
	case TileForest:
		return "forest"
	case TileWater:
		return "water"
	case TileSand:
		return "sand"
	case TileSnow:
		return "snow"
	default:
		return "unknown"
	}
}

// Blocking reports whether the tile type obstructs movement and spawning.
func (t TileType) Blocking() bool {
	return t == TileWall || t == TileWater
}

// Tile is one generated terrain cell. Icon and Color are opaque presentation
// hints; the core only reads the type.
type Tile struct {
	Type  TileType
	Icon  string
	Color string
}

// TerrainMap is the sparse set of non-grass tiles for a match, immutable once
// generated.
type TerrainMap map[GridPos]Tile

// IsBlocking reports whether (x,y) is obstructed terrain. Off-board cells are
// the caller's concern; absent cells are open grass.
func (tm TerrainMap) IsBlocking(x, y int) bool {
	t, ok := tm[GridPos{x, y}]
	return ok && t.Type.Blocking()
}

// spawnProtectRadius is the Chebyshev radius around each spawn centre kept
// clear of generated terrain so every agent starts on open ground.
const spawnProtectRadius = 4

// terrainProfile holds the per-map-type noise thresholds and tile choices.
type terrainProfile struct {
	denseScale   float64  // broad vegetation/field layer
	outcropScale float64  // tighter obstruction layer
	denseType    TileType // tile placed where the dense layer is high
	denseThresh  float64
	blockType    TileType // tile placed where the outcrop layer is high
	blockThresh  float64
	accentType   TileType // sparse flavour tile from the combined band
	accentThresh float64
}

func profileFor(mapType MapType) terrainProfile {
	switch mapType {
	case MapForest:
		return terrainProfile{
			denseScale: 0.09, outcropScale: 0.15,
			denseType: TileForest, denseThresh: 0.58,
			blockType: TileWall, blockThresh: 0.80,
			accentType: TileWater, accentThresh: 0.86,
		}
	case MapDesert:
		return terrainProfile{
			denseScale: 0.07, outcropScale: 0.14,
			denseType: TileSand, denseThresh: 0.52,
			blockType: TileWall, blockThresh: 0.82,
			accentType: TileForest, accentThresh: 0.90,
		}
	case MapTundra:
		return terrainProfile{
			denseScale: 0.08, outcropScale: 0.13,
			denseType: TileSnow, denseThresh: 0.55,
			blockType: TileWall, blockThresh: 0.81,
			accentType: TileWater, accentThresh: 0.88,
		}
	case MapArchipelago:
		return terrainProfile{
			denseScale: 0.05, outcropScale: 0.16,
			denseType: TileWater, denseThresh: 0.62,
			blockType: TileWall, blockThresh: 0.88,
			accentType: TileSand, accentThresh: 0.82,
		}
	default: // MapPlains
		return terrainProfile{
			denseScale: 0.10, outcropScale: 0.16,
			denseType: TileForest, denseThresh: 0.70,
			blockType: TileWall, blockThresh: 0.84,
			accentType: TileWater, accentThresh: 0.90,
		}
	}
}

func tileFor(t TileType) Tile {
	switch t {
	case TileWall:
		return Tile{Type: TileWall, Icon: "⛰", Color: "#6b6b6b"}
	case TileForest:
		return Tile{Type: TileForest, Icon: "🌲", Color: "#2e7d32"}
	case TileWater:
		return Tile{Type: TileWater, Icon: "🌊", Color: "#1e6fb8"}
	case TileSand:
		return Tile{Type: TileSand, Icon: "🏜", Color: "#c2a45a"}
	case TileSnow:
		return Tile{Type: TileSnow, Icon: "❄", Color: "#cfe8ef"}
	default:
		return Tile{Type: TileGrass, Icon: "", Color: "#3a5a3a"}
	}
}

// GenerateTerrain builds the sparse tile set for a match. Two independently
// seeded noise layers (field density and rock outcrop) decide per cell whether
// special terrain appears; cells within spawnProtectRadius of any spawn centre
// are skipped so starting zones stay fair. Identical inputs always produce an
// identical tile set.
func GenerateTerrain(mapType MapType, width, height int, spawnCenters []GridPos, seed int64) TerrainMap {
	prof := profileFor(mapType)

	state := uint64(seed)
	denseSeed := int64(splitmix64(&state))
	outcropSeed := int64(splitmix64(&state))

	tm := make(TerrainMap)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if nearSpawn(x, y, spawnCenters) {
				continue
			}
			dense := valueNoise2D(float64(x)*prof.denseScale, float64(y)*prof.denseScale, denseSeed)
			outcrop := valueNoise2D(float64(x)*prof.outcropScale, float64(y)*prof.outcropScale, outcropSeed)

			switch {
			case outcrop > prof.blockThresh:
				tm[GridPos{x, y}] = tileFor(prof.blockType)
			case dense > prof.denseThresh:
				tm[GridPos{x, y}] = tileFor(prof.denseType)
			case dense > prof.accentThresh*0.92 && outcrop > prof.accentThresh:
				tm[GridPos{x, y}] = tileFor(prof.accentType)
			}
		}
	}
	return tm
}

func nearSpawn(x, y int, centers []GridPos) bool {
	p := GridPos{x, y}
	for _, c := range centers {
		if p.Chebyshev(c) <= spawnProtectRadius {
			return true
		}
	}
	return false
}
