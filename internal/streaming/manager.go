package streaming

import (
	"log"
	"sort"

	"github.com/kxvxnc/terrain-gen/internal/chunkmap"
	"github.com/kxvxnc/terrain-gen/internal/config"
	"github.com/kxvxnc/terrain-gen/internal/terrain"
)

// Builder constructs the chunk for a grid coordinate. *terrain.Factory
// satisfies it; tests substitute counting or stub builders.
type Builder interface {
	BuildChunk(coord chunkmap.Coord) *terrain.Chunk
}

// Scene is the display side of streaming. The manager registers every chunk
// it creates and unregisters every chunk it evicts; the scene owns whatever
// GPU or draw-list resources back the chunk and releases them on removal.
type Scene interface {
	AddChunk(chunk *terrain.Chunk)
	RemoveChunk(coord chunkmap.Coord)
}

// Manager keeps the resident chunk set centered on the walker. It owns the
// chunk cache outright: nothing else creates, stores, or evicts chunks, and
// there is no package-level state, so independent managers can coexist (tests
// run several at once).
//
// The manager is frame-driven and single-threaded: the host loop calls
// Update once per frame from one goroutine. It is not safe for concurrent
// use and takes no locks.
type Manager struct {
	builder   Builder
	scene     Scene
	chunkSize float64
	radius    int

	chunks  map[chunkmap.Coord]*terrain.Chunk
	tick    uint64
	elapsed float64
}

// Delta describes what one Update changed. Added and Removed are empty on
// the (common) ticks where the walker stayed within its current chunk.
type Delta struct {
	Tick     uint64           `json:"tick"`
	Center   chunkmap.Coord   `json:"center"`
	Added    []chunkmap.Coord `json:"added,omitempty"`
	Removed  []chunkmap.Coord `json:"removed,omitempty"`
	Resident int              `json:"resident"`
}

// Empty reports whether the update changed the resident set at all.
func (d Delta) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// NewManager builds a streaming manager instance. A nil scene is allowed and
// leaves the manager cache-only, which is how most tests run it.
func NewManager(cfg config.TerrainConfig, builder Builder, scene Scene) *Manager {
	return &Manager{
		builder:   builder,
		scene:     scene,
		chunkSize: cfg.ChunkSize,
		radius:    cfg.RenderDistance,
		chunks:    make(map[chunkmap.Coord]*terrain.Chunk),
	}
}

// Update advances the resident set to the window around the reference
// position (the walker's world X/Z). It builds and registers every window
// chunk that is missing, then evicts and unregisters every resident chunk
// outside the window. After Update returns, the resident set is exactly the
// (2*radius+1)^2 window around the current center.
//
// Update is idempotent for a fixed position: calling it again without moving
// builds nothing and evicts nothing.
func (m *Manager) Update(dt float64, refX, refZ float64) Delta {
	m.tick++
	m.elapsed += dt

	center := chunkmap.CoordAt(refX, refZ, m.chunkSize)

	var added []chunkmap.Coord
	for _, coord := range chunkmap.Window(center, m.radius) {
		if _, resident := m.chunks[coord]; resident {
			continue
		}
		chunk := m.builder.BuildChunk(coord)
		m.chunks[coord] = chunk
		if m.scene != nil {
			m.scene.AddChunk(chunk)
		}
		added = append(added, coord)
	}

	// Evict against the same center the window was computed from, so a
	// single Update can never both add and evict the same coordinate.
	var removed []chunkmap.Coord
	for coord := range m.chunks {
		if chunkmap.Chebyshev(coord, center) > m.radius {
			removed = append(removed, coord)
		}
	}
	sortCoords(removed)
	for _, coord := range removed {
		delete(m.chunks, coord)
		if m.scene != nil {
			m.scene.RemoveChunk(coord)
		}
	}

	delta := Delta{
		Tick:     m.tick,
		Center:   center,
		Added:    added,
		Removed:  removed,
		Resident: len(m.chunks),
	}
	if !delta.Empty() {
		log.Printf("[Stream] tick=%d center=%s added=%d removed=%d resident=%d",
			delta.Tick, delta.Center, len(delta.Added), len(delta.Removed), delta.Resident)
	}
	return delta
}

// Has reports whether the chunk at coord is currently resident.
func (m *Manager) Has(coord chunkmap.Coord) bool {
	_, ok := m.chunks[coord]
	return ok
}

// Chunk returns the resident chunk at coord, if any.
func (m *Manager) Chunk(coord chunkmap.Coord) (*terrain.Chunk, bool) {
	chunk, ok := m.chunks[coord]
	return chunk, ok
}

// Resident returns the resident coordinates in row-major order.
func (m *Manager) Resident() []chunkmap.Coord {
	coords := make([]chunkmap.Coord, 0, len(m.chunks))
	for coord := range m.chunks {
		coords = append(coords, coord)
	}
	sortCoords(coords)
	return coords
}

// Len returns the number of resident chunks.
func (m *Manager) Len() int {
	return len(m.chunks)
}

// Tick returns the number of updates performed so far.
func (m *Manager) Tick() uint64 {
	return m.tick
}

// Elapsed returns the total simulation time passed to Update.
func (m *Manager) Elapsed() float64 {
	return m.elapsed
}

// Radius returns the configured streaming radius in chunks.
func (m *Manager) Radius() int {
	return m.radius
}

// ChunkSize returns the world-unit edge length of one chunk.
func (m *Manager) ChunkSize() float64 {
	return m.chunkSize
}

// sortCoords orders coordinates row-major (CZ, then CX), matching the window
// iteration order, so logs and telemetry stay stable across runs.
func sortCoords(coords []chunkmap.Coord) {
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].CZ != coords[j].CZ {
			return coords[i].CZ < coords[j].CZ
		}
		return coords[i].CX < coords[j].CX
	})
}
