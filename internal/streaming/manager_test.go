package streaming

import (
	"testing"

	"github.com/kxvxnc/terrain-gen/internal/chunkmap"
	"github.com/kxvxnc/terrain-gen/internal/heightfield"
	"github.com/kxvxnc/terrain-gen/internal/terrain"
	"github.com/kxvxnc/terrain-gen/internal/testutil"
)

// countingBuilder produces minimal chunks and counts how often each
// coordinate is built.
type countingBuilder struct {
	builds map[chunkmap.Coord]int
}

func newCountingBuilder() *countingBuilder {
	return &countingBuilder{builds: make(map[chunkmap.Coord]int)}
}

func (b *countingBuilder) BuildChunk(coord chunkmap.Coord) *terrain.Chunk {
	b.builds[coord]++
	return terrain.AssembleChunk(coord, 10, 1, []float64{0, 0, 0, 0})
}

func newTestManager(radius int, scene Scene) (*Manager, *countingBuilder) {
	builder := newCountingBuilder()
	cfg := testutil.DefaultTerrainConfig(1)
	cfg.RenderDistance = radius
	return NewManager(cfg, builder, scene), builder
}

// assertWindowResident checks the core invariant: the resident set equals the
// window around center, in both directions.
func assertWindowResident(t *testing.T, m *Manager, center chunkmap.Coord) {
	t.Helper()
	window := chunkmap.Window(center, m.Radius())
	if m.Len() != len(window) {
		t.Fatalf("resident count = %d, expected %d", m.Len(), len(window))
	}
	for _, coord := range window {
		if !m.Has(coord) {
			t.Errorf("window coordinate %v is not resident", coord)
		}
	}
	for _, coord := range m.Resident() {
		if !chunkmap.WindowContains(center, m.Radius(), coord) {
			t.Errorf("resident coordinate %v is outside the window around %v", coord, center)
		}
	}
}

func TestUpdateFillsWindow(t *testing.T) {
	scene := testutil.NewRecordingScene()
	m, builder := newTestManager(3, scene)

	delta := m.Update(0.016, 0, 0)

	center := chunkmap.Coord{CX: 0, CZ: 0}
	assertWindowResident(t, m, center)

	if delta.Center != center {
		t.Errorf("delta center = %v, expected %v", delta.Center, center)
	}
	if len(delta.Added) != 49 {
		t.Errorf("first update added %d chunks, expected 49", len(delta.Added))
	}
	if len(delta.Removed) != 0 {
		t.Errorf("first update removed %d chunks, expected 0", len(delta.Removed))
	}
	if delta.Resident != 49 {
		t.Errorf("delta resident = %d, expected 49", delta.Resident)
	}
	if scene.Adds != 49 || scene.Removes != 0 {
		t.Errorf("scene saw %d adds and %d removes, expected 49 and 0", scene.Adds, scene.Removes)
	}
	for coord, n := range builder.builds {
		if n != 1 {
			t.Errorf("chunk %v built %d times on first fill", coord, n)
		}
	}
}

func TestUpdateRecentersWindowOnMove(t *testing.T) {
	// Radius 1 walk: from the origin the window is the 9 chunks around
	// (0,0); after moving to x=25 the center is chunk (2,0) and the window
	// slides to cx 1..3, evicting the cx -1 and 0 columns.
	scene := testutil.NewRecordingScene()
	m, _ := newTestManager(1, scene)

	m.Update(0.016, 0, 0)
	if m.Len() != 9 {
		t.Fatalf("resident after first update = %d, expected 9", m.Len())
	}
	for cz := -1; cz <= 1; cz++ {
		for cx := -1; cx <= 1; cx++ {
			if !m.Has(chunkmap.Coord{CX: cx, CZ: cz}) {
				t.Errorf("chunk (%d,%d) should be resident around the origin", cx, cz)
			}
		}
	}

	delta := m.Update(0.016, 25, 0)

	wantCenter := chunkmap.Coord{CX: 2, CZ: 0}
	if delta.Center != wantCenter {
		t.Fatalf("center after move = %v, expected %v", delta.Center, wantCenter)
	}
	assertWindowResident(t, m, wantCenter)

	for cz := -1; cz <= 1; cz++ {
		for cx := 1; cx <= 3; cx++ {
			if !m.Has(chunkmap.Coord{CX: cx, CZ: cz}) {
				t.Errorf("chunk (%d,%d) should be resident after the move", cx, cz)
			}
		}
		for _, cx := range []int{-1, 0} {
			if m.Has(chunkmap.Coord{CX: cx, CZ: cz}) {
				t.Errorf("chunk (%d,%d) should have been evicted", cx, cz)
			}
			if !containsCoord(delta.Removed, chunkmap.Coord{CX: cx, CZ: cz}) {
				t.Errorf("delta.Removed missing (%d,%d)", cx, cz)
			}
		}
	}

	// Kept column cx=1 must not appear in either list
	for cz := -1; cz <= 1; cz++ {
		kept := chunkmap.Coord{CX: 1, CZ: cz}
		if containsCoord(delta.Added, kept) || containsCoord(delta.Removed, kept) {
			t.Errorf("chunk %v was kept but appears in the delta", kept)
		}
	}
	if len(delta.Added) != 6 || len(delta.Removed) != 6 {
		t.Errorf("delta added %d removed %d, expected 6 and 6", len(delta.Added), len(delta.Removed))
	}
}

func TestUpdateIdempotent(t *testing.T) {
	scene := testutil.NewRecordingScene()
	m, builder := newTestManager(2, scene)

	m.Update(0.016, 4, -7)
	buildsAfterFirst := totalBuilds(builder)
	addsAfterFirst := scene.Adds

	delta := m.Update(0.016, 4, -7)

	if !delta.Empty() {
		t.Errorf("second identical update produced a non-empty delta: %+v", delta)
	}
	if totalBuilds(builder) != buildsAfterFirst {
		t.Errorf("second identical update built chunks: %d then %d", buildsAfterFirst, totalBuilds(builder))
	}
	if scene.Adds != addsAfterFirst || scene.Removes != 0 {
		t.Errorf("second identical update touched the scene: adds=%d removes=%d", scene.Adds, scene.Removes)
	}
	if delta.Tick != 2 {
		t.Errorf("delta tick = %d, expected 2", delta.Tick)
	}
}

func TestUpdateNoDuplicateBuilds(t *testing.T) {
	// Wander within one chunk: the window never changes, so nothing may be
	// rebuilt no matter how many updates run.
	m, builder := newTestManager(3, nil)

	positions := []struct{ x, z float64 }{
		{0, 0}, {3, 3}, {9.9, 0.1}, {5, 5}, {0.5, 9.5}, {9.9, 9.9},
	}
	for _, p := range positions {
		m.Update(0.016, p.x, p.z)
	}

	for coord, n := range builder.builds {
		if n != 1 {
			t.Errorf("chunk %v built %d times while continuously resident", coord, n)
		}
	}
}

func TestUpdateEvictionComplete(t *testing.T) {
	// After every update of a long wandering walk, nothing outside the
	// window may remain resident.
	m, _ := newTestManager(2, nil)

	walk := []struct{ x, z float64 }{
		{0, 0}, {15, 0}, {35, -12}, {35, -48}, {-3, -48}, {-120, 200}, {-120, 200}, {0, 0},
	}
	for _, p := range walk {
		m.Update(0.016, p.x, p.z)
		center := chunkmap.CoordAt(p.x, p.z, 10)
		assertWindowResident(t, m, center)
	}
}

func TestUpdateTeleport(t *testing.T) {
	// A jump much farther than the window slides replaces the entire
	// resident set in one tick.
	scene := testutil.NewRecordingScene()
	m, _ := newTestManager(1, scene)

	m.Update(0.016, 0, 0)
	delta := m.Update(0.016, 1000, -1000)

	if len(delta.Added) != 9 || len(delta.Removed) != 9 {
		t.Errorf("teleport delta added %d removed %d, expected 9 and 9", len(delta.Added), len(delta.Removed))
	}
	assertWindowResident(t, m, chunkmap.Coord{CX: 100, CZ: -100})
	if len(scene.Resident) != m.Len() {
		t.Errorf("scene has %d chunks, cache has %d", len(scene.Resident), m.Len())
	}
}

func TestUpdateBoundaryPositions(t *testing.T) {
	// A reference exactly on a chunk boundary belongs to the higher-indexed
	// chunk; just below it, to the lower one.
	testCases := []struct {
		name     string
		x, z     float64
		expected chunkmap.Coord
	}{
		{"Origin", 0, 0, chunkmap.Coord{CX: 0, CZ: 0}},
		{"On positive boundary", 10, 0, chunkmap.Coord{CX: 1, CZ: 0}},
		{"Below positive boundary", 9.9999, 0, chunkmap.Coord{CX: 0, CZ: 0}},
		{"Negative position", -0.0001, -0.0001, chunkmap.Coord{CX: -1, CZ: -1}},
		{"On negative boundary", -10, 0, chunkmap.Coord{CX: -1, CZ: 0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, _ := newTestManager(1, nil)
			delta := m.Update(0.016, tc.x, tc.z)
			if delta.Center != tc.expected {
				t.Errorf("center for (%v, %v) = %v, expected %v", tc.x, tc.z, delta.Center, tc.expected)
			}
			assertWindowResident(t, m, tc.expected)
		})
	}
}

func TestUpdateRadiusZero(t *testing.T) {
	m, _ := newTestManager(0, nil)

	m.Update(0.016, 5, 5)
	if m.Len() != 1 || !m.Has(chunkmap.Coord{CX: 0, CZ: 0}) {
		t.Fatalf("radius 0 should keep exactly the center chunk, resident = %v", m.Resident())
	}

	delta := m.Update(0.016, 15, 5)
	if m.Len() != 1 || !m.Has(chunkmap.Coord{CX: 1, CZ: 0}) {
		t.Fatalf("radius 0 after move should keep only (1,0), resident = %v", m.Resident())
	}
	if len(delta.Added) != 1 || len(delta.Removed) != 1 {
		t.Errorf("radius 0 move delta added %d removed %d, expected 1 and 1", len(delta.Added), len(delta.Removed))
	}
}

func TestUpdateNilScene(t *testing.T) {
	m, _ := newTestManager(2, nil)

	m.Update(0.016, 0, 0)
	m.Update(0.016, 50, 50)

	assertWindowResident(t, m, chunkmap.Coord{CX: 5, CZ: 5})
}

func TestUpdateSceneMirrorsCache(t *testing.T) {
	scene := testutil.NewRecordingScene()
	m, _ := newTestManager(2, scene)

	walk := []struct{ x, z float64 }{
		{0, 0}, {22, 7}, {22, 31}, {-14, 31}, {-14, -64}, {3, 3},
	}
	for _, p := range walk {
		m.Update(0.016, p.x, p.z)

		if len(scene.Resident) != m.Len() {
			t.Fatalf("after move to (%v,%v): scene has %d chunks, cache has %d", p.x, p.z, len(scene.Resident), m.Len())
		}
		for _, coord := range m.Resident() {
			if !scene.Resident[coord] {
				t.Errorf("chunk %v resident in cache but missing from scene", coord)
			}
		}
	}
}

func TestUpdateChunkAccessors(t *testing.T) {
	m, _ := newTestManager(1, nil)
	m.Update(0.016, 0, 0)

	chunk, ok := m.Chunk(chunkmap.Coord{CX: 1, CZ: -1})
	if !ok || chunk == nil {
		t.Fatal("Chunk() did not return a resident chunk")
	}
	if chunk.Coord != (chunkmap.Coord{CX: 1, CZ: -1}) {
		t.Errorf("Chunk() returned chunk for %v", chunk.Coord)
	}
	if _, ok := m.Chunk(chunkmap.Coord{CX: 9, CZ: 9}); ok {
		t.Error("Chunk() reported a non-resident coordinate as present")
	}

	if got := m.Tick(); got != 1 {
		t.Errorf("Tick() = %d, expected 1", got)
	}
	if got := m.Elapsed(); got != 0.016 {
		t.Errorf("Elapsed() = %v, expected 0.016", got)
	}
}

func TestResidentOrder(t *testing.T) {
	m, _ := newTestManager(1, nil)
	m.Update(0.016, 0, 0)

	resident := m.Resident()
	expected := chunkmap.Window(chunkmap.Coord{CX: 0, CZ: 0}, 1)
	if len(resident) != len(expected) {
		t.Fatalf("Resident() returned %d coords, expected %d", len(resident), len(expected))
	}
	for i := range expected {
		if resident[i] != expected[i] {
			t.Errorf("Resident()[%d] = %v, expected %v", i, resident[i], expected[i])
		}
	}
}

func TestUpdateWithRealFactory(t *testing.T) {
	// End to end with the real height field and chunk factory: stream a walk
	// and verify resident chunks carry full geometry.
	cfg := testutil.DefaultTerrainConfig(2024)
	cfg.RenderDistance = 2
	factory := terrain.NewFactory(cfg, heightfield.New(cfg))
	m := NewManager(cfg, factory, nil)

	m.Update(0.016, 0, 0)
	m.Update(0.016, 28, -13)

	center := chunkmap.CoordAt(28, -13, cfg.ChunkSize)
	assertWindowResident(t, m, center)

	for _, coord := range m.Resident() {
		chunk, ok := m.Chunk(coord)
		if !ok {
			t.Fatalf("resident coordinate %v has no chunk", coord)
		}
		if len(chunk.Strips) != 2*(cfg.GridDivisions+1) {
			t.Errorf("chunk %v has %d strips, expected %d", coord, len(chunk.Strips), 2*(cfg.GridDivisions+1))
		}
	}
}

func totalBuilds(b *countingBuilder) int {
	n := 0
	for _, c := range b.builds {
		n += c
	}
	return n
}

func containsCoord(coords []chunkmap.Coord, target chunkmap.Coord) bool {
	for _, c := range coords {
		if c == target {
			return true
		}
	}
	return false
}
