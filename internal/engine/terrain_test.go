package engine

import "testing"

func TestGenerateTerrainDeterministic(t *testing.T) {
	centers := []GridPos{{8, 8}, {40, 40}}
	a := GenerateTerrain(MapForest, 48, 48, centers, 1234)
	b := GenerateTerrain(MapForest, 48, 48, centers, 1234)
	if len(a) != len(b) {
		t.Fatalf("tile counts differ: %d vs %d", len(a), len(b))
	}
	for pos, tile := range a {
		if b[pos].Type != tile.Type {
			t.Fatalf("tile %v differs between identical seeds: %v vs %v", pos, tile.Type, b[pos].Type)
		}
	}

	c := GenerateTerrain(MapForest, 48, 48, centers, 1235)
	same := 0
	for pos, tile := range a {
		if c[pos].Type == tile.Type {
			same++
		}
	}
	if same == len(a) {
		t.Fatal("different seeds produced identical terrain")
	}
}

func TestGenerateTerrainProtectsSpawns(t *testing.T) {
	centers := []GridPos{{10, 10}, {50, 50}, {10, 50}}
	tm := GenerateTerrain(MapArchipelago, 64, 64, centers, 7)
	for _, c := range centers {
		for dy := -spawnProtectRadius; dy <= spawnProtectRadius; dy++ {
			for dx := -spawnProtectRadius; dx <= spawnProtectRadius; dx++ {
				x, y := c.X+dx, c.Y+dy
				if x < 0 || y < 0 || x >= 64 || y >= 64 {
					continue
				}
				if tm.IsBlocking(x, y) {
					t.Fatalf("blocking tile %d,%d inside protected radius of spawn %v", x, y, c)
				}
			}
		}
	}
}

func TestTerrainProfilesBlockOnlyWallsAndWater(t *testing.T) {
	for _, mt := range []MapType{MapPlains, MapForest, MapDesert, MapTundra, MapArchipelago} {
		tm := GenerateTerrain(mt, 32, 32, []GridPos{{16, 16}}, 99)
		for pos, tile := range tm {
			blocking := tile.Type == TileWall || tile.Type == TileWater
			if tm.IsBlocking(pos.X, pos.Y) != blocking {
				t.Fatalf("%v: tile %v type %v blocking mismatch", mt, pos, tile.Type)
			}
		}
	}
}
