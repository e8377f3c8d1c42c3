package terrain

import (
	"github.com/kxvxnc/terrain-gen/internal/chunkmap"
	"github.com/kxvxnc/terrain-gen/internal/config"
)

// Sampler provides terrain height lookups in absolute world coordinates.
// heightfield.Field satisfies it; tests substitute flat or analytic surfaces.
type Sampler interface {
	HeightAt(x, z float64) float64
}

// Factory builds chunks from a height sampler. It holds no chunk state of its
// own: building the same coordinate twice yields identical geometry, so the
// streaming layer is free to evict and rebuild chunks at will.
type Factory struct {
	size      float64
	divisions int
	sampler   Sampler
}

// NewFactory creates a chunk factory for the configured chunk size and grid
// resolution.
func NewFactory(cfg config.TerrainConfig, sampler Sampler) *Factory {
	return &Factory{
		size:      cfg.ChunkSize,
		divisions: cfg.GridDivisions,
		sampler:   sampler,
	}
}

// ChunkSize returns the world-space edge length of built chunks.
func (f *Factory) ChunkSize() float64 {
	return f.size
}

// BuildChunk samples the height lattice for the chunk at coord and assembles
// its wireframe geometry. Heights are sampled at absolute world positions:
// lattice point (ix, iz) samples ((cx + ix/divisions) * size,
// (cz + iz/divisions) * size). The shared edge of two adjacent chunks is
// sampled at bit-identical world coordinates by both, which is what makes
// chunk boundaries seamless.
//
// Deterministic and total: no I/O, no failure mode, no error return.
func (f *Factory) BuildChunk(coord chunkmap.Coord) *Chunk {
	side := f.divisions + 1
	heights := make([]float64, side*side)

	for iz := 0; iz < side; iz++ {
		worldZ := (float64(coord.CZ) + float64(iz)/float64(f.divisions)) * f.size
		for ix := 0; ix < side; ix++ {
			worldX := (float64(coord.CX) + float64(ix)/float64(f.divisions)) * f.size
			heights[iz*side+ix] = f.sampler.HeightAt(worldX, worldZ)
		}
	}

	return AssembleChunk(coord, f.size, f.divisions, heights)
}
