package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/kxvxnc/terrain-gen/internal/character"
)

// ReadInput samples the keyboard and mouse into a character input
// frame. Mouse look is only read while the cursor is captured, so a
// freed cursor can reach other windows without spinning the camera.
func ReadInput(cursorLocked bool) character.Input {
	in := character.Input{
		Forward:  rl.IsKeyDown(rl.KeyW) || rl.IsKeyDown(rl.KeyUp),
		Backward: rl.IsKeyDown(rl.KeyS) || rl.IsKeyDown(rl.KeyDown),
		Left:     rl.IsKeyDown(rl.KeyA) || rl.IsKeyDown(rl.KeyLeft),
		Right:    rl.IsKeyDown(rl.KeyD) || rl.IsKeyDown(rl.KeyRight),
		Jump:     rl.IsKeyDown(rl.KeySpace),
		Sprint:   rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift),
	}

	if cursorLocked {
		delta := rl.GetMouseDelta()
		in.LookX = float64(delta.X)
		in.LookY = float64(delta.Y)
	}

	return in
}
