package render

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/kxvxnc/terrain-gen/internal/character"
	"github.com/kxvxnc/terrain-gen/internal/chunkmap"
	"github.com/kxvxnc/terrain-gen/internal/streaming"
)

// DrawHUD renders the debug overlay: frame rate, walker pose, the chunk
// under the walker and streaming counters. Must be called outside
// BeginMode3D.
func DrawHUD(ctrl *character.Controller, mgr *streaming.Manager) {
	rl.DrawFPS(10, 10)

	pos := ctrl.Position()
	coord := chunkmap.CoordAt(pos.X(), pos.Z(), mgr.ChunkSize())

	rl.DrawText(fmt.Sprintf("pos (%.1f, %.1f, %.1f)  yaw %.2f  pitch %.2f",
		pos.X(), pos.Y(), pos.Z(), ctrl.Yaw(), ctrl.Pitch()), 10, 34, 16, rl.RayWhite)
	rl.DrawText(fmt.Sprintf("chunk %s  resident %d  tick %d",
		coord, mgr.Len(), mgr.Tick()), 10, 54, 16, rl.RayWhite)
	rl.DrawText("TAB: mouse lock | Shift: sprint | Space: jump", 10, 74, 16, rl.Gray)
}
