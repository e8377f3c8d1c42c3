package terrain

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/kxvxnc/terrain-gen/internal/chunkmap"
)

// LineStrip is a polyline: consecutive vertices are connected by line
// segments, so a strip of n vertices draws n-1 segments.
type LineStrip []mgl64.Vec3

// Chunk is one square tile of terrain wireframe. It is immutable after
// creation: the factory builds it once and the streaming layer only moves it
// in and out of the resident set.
//
// Geometry is stored in chunk-local coordinates: vertex X and Z lie in
// [0, Size], and Origin carries the world placement translation
// (CX*Size, 0, CZ*Size). Vertex heights were sampled at absolute world
// positions, so a chunk rendered at its Origin lines up exactly with its
// neighbors.
type Chunk struct {
	// Coord is the chunk's position on the chunk grid.
	Coord chunkmap.Coord
	// Origin is the world-space translation of the chunk's minimum corner.
	Origin mgl64.Vec3
	// Size is the world-space edge length of the chunk.
	Size float64
	// Divisions is the number of grid cells per axis; the sampled lattice is
	// (Divisions+1) x (Divisions+1) points.
	Divisions int
	// Heights holds the sampled lattice, row-major by Z:
	// Heights[iz*(Divisions+1)+ix] is the height at lattice point (ix, iz).
	Heights []float64
	// Strips holds the renderable wireframe: two transposed families of
	// polylines, 2*(Divisions+1) strips of Divisions+1 vertices each. The
	// first Divisions+1 strips sweep X at constant Z, the rest sweep Z at
	// constant X.
	Strips []LineStrip
}

// LatticeSide returns the number of lattice points per axis, Divisions+1.
func (c *Chunk) LatticeSide() int {
	return c.Divisions + 1
}

// LatticeHeight returns the sampled height at lattice point (ix, iz).
// Both indices must be in [0, Divisions].
func (c *Chunk) LatticeHeight(ix, iz int) float64 {
	return c.Heights[iz*(c.Divisions+1)+ix]
}

// VertexCount returns the total number of vertices across all strips.
func (c *Chunk) VertexCount() int {
	n := 0
	for _, s := range c.Strips {
		n += len(s)
	}
	return n
}

// AssembleChunk builds a Chunk from an already-sampled height lattice.
// The factory uses it after sampling; the geometry codec uses it to rebuild a
// chunk from a decoded lattice, since both strip families are fully
// determined by the heights. heights must hold (divisions+1)^2 values in
// row-major Z order; the slice is retained, not copied.
//
// Local offsets are normalized-index based: lattice point i sits at
// (i/divisions)*size, so point 0 is exactly 0 and point divisions is exactly
// size. Two adjacent chunks therefore place their shared-edge vertices at the
// identical world position.
func AssembleChunk(coord chunkmap.Coord, size float64, divisions int, heights []float64) *Chunk {
	side := divisions + 1
	originX, originZ := coord.Origin(size)

	chunk := &Chunk{
		Coord:     coord,
		Origin:    mgl64.Vec3{originX, 0, originZ},
		Size:      size,
		Divisions: divisions,
		Heights:   heights,
		Strips:    make([]LineStrip, 0, 2*side),
	}

	// Local offset of each lattice index along one axis
	offsets := make([]float64, side)
	for i := 0; i < side; i++ {
		offsets[i] = float64(i) / float64(divisions) * size
	}

	// First family: one strip per Z row, sweeping X
	for iz := 0; iz < side; iz++ {
		strip := make(LineStrip, side)
		for ix := 0; ix < side; ix++ {
			strip[ix] = mgl64.Vec3{offsets[ix], heights[iz*side+ix], offsets[iz]}
		}
		chunk.Strips = append(chunk.Strips, strip)
	}

	// Second family: one strip per X column, sweeping Z
	for ix := 0; ix < side; ix++ {
		strip := make(LineStrip, side)
		for iz := 0; iz < side; iz++ {
			strip[iz] = mgl64.Vec3{offsets[ix], heights[iz*side+ix], offsets[iz]}
		}
		chunk.Strips = append(chunk.Strips, strip)
	}

	return chunk
}
