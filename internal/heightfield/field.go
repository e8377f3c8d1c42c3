package heightfield

import (
	"github.com/aquilax/go-perlin"

	"github.com/kxvxnc/terrain-gen/internal/config"
)

// Perlin generator parameters: alpha=2, beta=2, n=3 octaves give smooth
// terrain-like noise in roughly [-1, 1].
const (
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = 3
)

// Field is the world height function. It wraps a gradient-noise generator
// seeded exactly once at construction; the same Field (or any Field built from
// the same seed) returns identical heights for identical inputs, forever.
//
// Heights are sampled in absolute world coordinates. Chunks never sample in
// local space, which is what keeps geometry seamless across chunk boundaries:
// two chunks asking about the same world position get the same answer.
type Field struct {
	noise       *perlin.Perlin
	seed        int64
	heightScale float64
	noiseScale  float64
}

// New creates a height field from the terrain configuration. The seed is
// fixed for the lifetime of the Field; there is no reseeding.
func New(cfg config.TerrainConfig) *Field {
	return &Field{
		noise:       perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, cfg.Seed),
		seed:        cfg.Seed,
		heightScale: cfg.HeightScale,
		noiseScale:  cfg.NoiseScale,
	}
}

// HeightAt returns the terrain height at world position (x, z):
// HeightScale * noise3D(x*NoiseScale, 0, z*NoiseScale).
// Total over all finite inputs, deterministic, and continuous; there is no
// failure mode and no error return.
func (f *Field) HeightAt(x, z float64) float64 {
	return f.heightScale * f.noise.Noise3D(x*f.noiseScale, 0, z*f.noiseScale)
}

// Seed returns the seed the field was built with, so a run can be reproduced.
func (f *Field) Seed() int64 {
	return f.seed
}
