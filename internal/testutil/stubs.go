package testutil

import (
	"github.com/kxvxnc/terrain-gen/internal/chunkmap"
	"github.com/kxvxnc/terrain-gen/internal/terrain"
)

// RecordingScene mirrors chunk add/remove calls into a set so tests can
// check a display layer stays consistent with the cache driving it.
type RecordingScene struct {
	Resident map[chunkmap.Coord]bool
	Adds     int
	Removes  int
}

// NewRecordingScene creates an empty recording scene.
func NewRecordingScene() *RecordingScene {
	return &RecordingScene{Resident: make(map[chunkmap.Coord]bool)}
}

// AddChunk records the chunk as visible.
func (s *RecordingScene) AddChunk(chunk *terrain.Chunk) {
	s.Resident[chunk.Coord] = true
	s.Adds++
}

// RemoveChunk records the chunk as no longer visible.
func (s *RecordingScene) RemoveChunk(coord chunkmap.Coord) {
	delete(s.Resident, coord)
	s.Removes++
}

// FlatGround is a terrain stub with the same height everywhere.
type FlatGround struct {
	Height float64
}

// HeightAt returns the configured height regardless of position.
func (g FlatGround) HeightAt(x, z float64) float64 {
	return g.Height
}
