package chunkmap

import (
	"fmt"
	"math"
)

// Coord identifies a terrain chunk by its integer position on the chunk grid.
// CX counts chunks along world X, CZ along world Z; chunk (0,0) spans world
// [0,ChunkSize) on both axes, chunk (-1,0) spans [-ChunkSize,0) on X, and so on.
// Coord is a value type with structural equality, so it is used directly as a
// map key without any string encoding.
type Coord struct {
	CX int `json:"cx"`
	CZ int `json:"cz"`
}

// String returns the coordinate as "(cx,cz)" for log lines.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.CX, c.CZ)
}

// Origin returns the world-space position of the chunk's minimum corner:
// (CX*chunkSize, CZ*chunkSize). All vertices of the chunk lie within
// [originX, originX+chunkSize] x [originZ, originZ+chunkSize].
func (c Coord) Origin(chunkSize float64) (x, z float64) {
	return float64(c.CX) * chunkSize, float64(c.CZ) * chunkSize
}

// CoordAt returns the coordinate of the chunk containing world position (x, z).
// Uses floor division so negative positions map correctly: x=-0.5 with
// chunkSize=10 is chunk -1, not chunk 0. A position exactly on a boundary
// belongs to the higher-indexed chunk (floor semantics).
func CoordAt(x, z, chunkSize float64) Coord {
	return Coord{
		CX: int(math.Floor(x / chunkSize)),
		CZ: int(math.Floor(z / chunkSize)),
	}
}

// Chebyshev returns the L-infinity distance between two chunk coordinates in
// chunk units: max(|dx|, |dz|). A square window of radius r around a center
// contains exactly the coordinates with Chebyshev distance <= r.
func Chebyshev(a, b Coord) int {
	dx := absInt(a.CX - b.CX)
	dz := absInt(a.CZ - b.CZ)
	if dx > dz {
		return dx
	}
	return dz
}

// Window returns every chunk coordinate within Chebyshev distance radius of
// center, inclusive: the (2*radius+1)^2 coordinates of the square window.
// The order is deterministic (row-major: CZ ascending, then CX ascending).
// A radius of 0 returns only the center itself.
func Window(center Coord, radius int) []Coord {
	if radius < 0 {
		return nil
	}
	side := 2*radius + 1
	coords := make([]Coord, 0, side*side)
	for cz := center.CZ - radius; cz <= center.CZ+radius; cz++ {
		for cx := center.CX - radius; cx <= center.CX+radius; cx++ {
			coords = append(coords, Coord{CX: cx, CZ: cz})
		}
	}
	return coords
}

// WindowContains reports whether coord lies within the inclusive square window
// of the given radius around center.
func WindowContains(center Coord, radius int, coord Coord) bool {
	return Chebyshev(center, coord) <= radius
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
