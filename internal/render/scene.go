package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/kxvxnc/terrain-gen/internal/chunkmap"
	"github.com/kxvxnc/terrain-gen/internal/terrain"
)

// SceneView holds the renderable form of every resident chunk. Chunk
// line strips are converted to world-space float32 vertices once, when
// the chunk is added, so the draw path does no per-frame conversion.
//
// SceneView is driven by the streaming manager on the frame loop and is
// not safe for concurrent use.
type SceneView struct {
	strips map[chunkmap.Coord][][]rl.Vector3
	color  rl.Color
}

// NewSceneView creates an empty scene view.
func NewSceneView() *SceneView {
	return &SceneView{
		strips: make(map[chunkmap.Coord][][]rl.Vector3),
		color:  rl.Lime,
	}
}

// AddChunk converts the chunk's line strips into world-space vertex
// buffers and makes them visible.
func (v *SceneView) AddChunk(chunk *terrain.Chunk) {
	converted := make([][]rl.Vector3, len(chunk.Strips))
	for i, strip := range chunk.Strips {
		verts := make([]rl.Vector3, len(strip))
		for j, p := range strip {
			verts[j] = rl.NewVector3(
				float32(chunk.Origin.X()+p.X()),
				float32(chunk.Origin.Y()+p.Y()),
				float32(chunk.Origin.Z()+p.Z()),
			)
		}
		converted[i] = verts
	}
	v.strips[chunk.Coord] = converted
}

// RemoveChunk releases the vertex buffers for an evicted chunk.
func (v *SceneView) RemoveChunk(coord chunkmap.Coord) {
	delete(v.strips, coord)
}

// Count returns the number of chunks currently visible.
func (v *SceneView) Count() int {
	return len(v.strips)
}

// Draw renders every resident chunk as wireframe line strips. Must be
// called between BeginMode3D and EndMode3D.
func (v *SceneView) Draw() {
	for _, chunk := range v.strips {
		for _, verts := range chunk {
			for j := 1; j < len(verts); j++ {
				rl.DrawLine3D(verts[j-1], verts[j], v.color)
			}
		}
	}
}
