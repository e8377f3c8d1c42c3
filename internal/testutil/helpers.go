package testutil

import (
	"math"
	"testing"

	"github.com/kxvxnc/terrain-gen/internal/chunkmap"
	"github.com/kxvxnc/terrain-gen/internal/config"
	"github.com/kxvxnc/terrain-gen/internal/heightfield"
	"github.com/kxvxnc/terrain-gen/internal/terrain"
)

// ApproxEqual reports whether two floats are within tolerance of each
// other.
func ApproxEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// DefaultTerrainConfig returns a terrain configuration with the stock
// defaults and the given seed, so tests share one canonical shape.
func DefaultTerrainConfig(seed int64) config.TerrainConfig {
	return config.TerrainConfig{
		Seed:           seed,
		ChunkSize:      10,
		RenderDistance: 3,
		GridDivisions:  15,
		HeightScale:    2.5,
		NoiseScale:     0.1,
	}
}

// BuildChunk builds one chunk through the real noise and factory
// pipeline, for tests that need realistic geometry rather than a stub.
func BuildChunk(t *testing.T, seed int64, coord chunkmap.Coord) *terrain.Chunk {
	t.Helper()

	cfg := DefaultTerrainConfig(seed)
	field := heightfield.New(cfg)
	return terrain.NewFactory(cfg, field).BuildChunk(coord)
}
