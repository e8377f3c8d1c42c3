package testutil

import (
	"testing"

	"github.com/kxvxnc/terrain-gen/internal/chunkmap"
)

func TestApproxEqual(t *testing.T) {
	tests := []struct {
		name      string
		a, b      float64
		tolerance float64
		expected  bool
	}{
		{"equal values", 1.5, 1.5, 0, true},
		{"within tolerance", 1.5, 1.5004, 0.001, true},
		{"at tolerance boundary", 1.0, 1.001, 0.001, true},
		{"beyond tolerance", 1.0, 1.01, 0.001, false},
		{"negative values", -2.5, -2.5005, 0.001, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApproxEqual(tt.a, tt.b, tt.tolerance); got != tt.expected {
				t.Errorf("ApproxEqual(%v, %v, %v) = %v, expected %v",
					tt.a, tt.b, tt.tolerance, got, tt.expected)
			}
		})
	}
}

func TestDefaultTerrainConfig(t *testing.T) {
	cfg := DefaultTerrainConfig(42)

	if cfg.Seed != 42 {
		t.Errorf("Seed = %d, expected 42", cfg.Seed)
	}
	if cfg.ChunkSize != 10 {
		t.Errorf("ChunkSize = %v, expected 10", cfg.ChunkSize)
	}
	if cfg.RenderDistance != 3 {
		t.Errorf("RenderDistance = %d, expected 3", cfg.RenderDistance)
	}
	if cfg.GridDivisions != 15 {
		t.Errorf("GridDivisions = %d, expected 15", cfg.GridDivisions)
	}
}

func TestBuildChunk(t *testing.T) {
	coord := chunkmap.Coord{CX: 3, CZ: -2}
	chunk := BuildChunk(t, 42, coord)

	if chunk.Coord != coord {
		t.Errorf("Coord = %v, expected %v", chunk.Coord, coord)
	}
	if chunk.Divisions != 15 {
		t.Errorf("Divisions = %d, expected 15", chunk.Divisions)
	}
	if len(chunk.Strips) != 32 {
		t.Errorf("len(Strips) = %d, expected 32", len(chunk.Strips))
	}

	// Same seed and coordinate must reproduce identical geometry.
	again := BuildChunk(t, 42, coord)
	for i := range chunk.Heights {
		if chunk.Heights[i] != again.Heights[i] {
			t.Fatalf("height %d differs between identical builds", i)
		}
	}
}

func TestRecordingScene(t *testing.T) {
	scene := NewRecordingScene()
	chunk := BuildChunk(t, 1, chunkmap.Coord{CX: 0, CZ: 0})

	scene.AddChunk(chunk)
	if !scene.Resident[chunk.Coord] {
		t.Error("Chunk not recorded as resident after AddChunk")
	}
	if scene.Adds != 1 {
		t.Errorf("Adds = %d, expected 1", scene.Adds)
	}

	scene.RemoveChunk(chunk.Coord)
	if scene.Resident[chunk.Coord] {
		t.Error("Chunk still resident after RemoveChunk")
	}
	if scene.Removes != 1 {
		t.Errorf("Removes = %d, expected 1", scene.Removes)
	}
}

func TestFlatGround(t *testing.T) {
	ground := FlatGround{Height: 4.5}

	if h := ground.HeightAt(0, 0); h != 4.5 {
		t.Errorf("HeightAt(0,0) = %v, expected 4.5", h)
	}
	if h := ground.HeightAt(-1000, 1000); h != 4.5 {
		t.Errorf("HeightAt(-1000,1000) = %v, expected 4.5", h)
	}
}
