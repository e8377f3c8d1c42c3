package heightfield

import (
	"math"
	"testing"

	"github.com/kxvxnc/terrain-gen/internal/config"
)

func testConfig(seed int64) config.TerrainConfig {
	return config.TerrainConfig{
		Seed:           seed,
		ChunkSize:      10,
		RenderDistance: 3,
		GridDivisions:  15,
		HeightScale:    2.5,
		NoiseScale:     0.1,
	}
}

func TestHeightAtDeterministic(t *testing.T) {
	field := New(testConfig(42))

	positions := []struct{ x, z float64 }{
		{0, 0}, {1.5, -3.25}, {123.456, 789.012}, {-55.5, 17.3}, {0.001, -0.001},
	}

	for _, p := range positions {
		first := field.HeightAt(p.x, p.z)
		for i := 0; i < 5; i++ {
			if got := field.HeightAt(p.x, p.z); got != first {
				t.Errorf("HeightAt(%v, %v) call %d = %v, expected %v", p.x, p.z, i+2, got, first)
			}
		}
	}
}

func TestHeightAtSameSeedSameTerrain(t *testing.T) {
	// Two fields built from the same seed are the same terrain, bit for bit.
	a := New(testConfig(1337))
	b := New(testConfig(1337))

	for x := -50.0; x <= 50.0; x += 7.3 {
		for z := -50.0; z <= 50.0; z += 5.1 {
			ha := a.HeightAt(x, z)
			hb := b.HeightAt(x, z)
			if ha != hb {
				t.Fatalf("HeightAt(%v, %v): field a = %v, field b = %v", x, z, ha, hb)
			}
		}
	}
}

func TestHeightAtDifferentSeeds(t *testing.T) {
	a := New(testConfig(1))
	b := New(testConfig(2))

	differs := false
	for x := 0.5; x < 100 && !differs; x += 3.7 {
		for z := 0.5; z < 100; z += 4.3 {
			if a.HeightAt(x, z) != b.HeightAt(x, z) {
				differs = true
				break
			}
		}
	}
	if !differs {
		t.Error("seeds 1 and 2 produced identical terrain over the sampled region")
	}
}

func TestHeightScaleIsLinear(t *testing.T) {
	// HeightScale is a pure output multiplier: it must not change the shape
	// of the terrain, only its amplitude.
	base := testConfig(7)
	base.HeightScale = 1.0
	tall := testConfig(7)
	tall.HeightScale = 3.0

	a := New(base)
	b := New(tall)

	for x := -20.0; x <= 20.0; x += 2.6 {
		for z := -20.0; z <= 20.0; z += 3.4 {
			ha := a.HeightAt(x, z)
			hb := b.HeightAt(x, z)
			if math.Abs(hb-3.0*ha) > 1e-12 {
				t.Fatalf("HeightAt(%v, %v): scale 3 gave %v, expected %v", x, z, hb, 3.0*ha)
			}
		}
	}
}

func TestHeightAtContinuity(t *testing.T) {
	// The surface is continuous: nearby samples have nearby heights. With
	// NoiseScale=0.1 a step of 1e-4 world units moves the noise input by
	// 1e-5, so the height difference must be tiny.
	field := New(testConfig(99))

	const step = 1e-4
	const maxDelta = 1e-2
	for x := -30.0; x <= 30.0; x += 4.9 {
		for z := -30.0; z <= 30.0; z += 6.1 {
			h := field.HeightAt(x, z)
			hx := field.HeightAt(x+step, z)
			hz := field.HeightAt(x, z+step)
			if math.Abs(hx-h) > maxDelta {
				t.Errorf("discontinuity along X at (%v, %v): %v vs %v", x, z, h, hx)
			}
			if math.Abs(hz-h) > maxDelta {
				t.Errorf("discontinuity along Z at (%v, %v): %v vs %v", x, z, h, hz)
			}
		}
	}
}

func TestHeightAtBounded(t *testing.T) {
	// Octave noise stays within a small constant factor of [-1, 1], so
	// heights stay within a few multiples of HeightScale.
	cfg := testConfig(2024)
	field := New(cfg)

	bound := cfg.HeightScale * 2
	for x := -200.0; x <= 200.0; x += 11.3 {
		for z := -200.0; z <= 200.0; z += 13.7 {
			h := field.HeightAt(x, z)
			if math.Abs(h) > bound {
				t.Errorf("HeightAt(%v, %v) = %v, beyond expected bound %v", x, z, h, bound)
			}
		}
	}
}

func TestSeed(t *testing.T) {
	field := New(testConfig(-12345))
	if got := field.Seed(); got != -12345 {
		t.Errorf("Seed() = %d, expected %d", got, -12345)
	}
}
