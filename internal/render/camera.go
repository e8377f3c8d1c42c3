package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/kxvxnc/terrain-gen/internal/character"
	"github.com/kxvxnc/terrain-gen/internal/config"
)

// CameraFor builds the camera for the current walker pose. With a
// positive camera distance the view orbits behind the walker's look
// direction; at distance zero it degenerates to first person.
func CameraFor(ctrl *character.Controller, cfg config.WalkerConfig) rl.Camera3D {
	eye := ctrl.Position()
	forward := ctrl.Forward()

	camera := rl.Camera3D{
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       60.0,
		Projection: rl.CameraPerspective,
	}

	if cfg.CameraDistance > 0 {
		offset := forward.Mul(cfg.CameraDistance)
		camera.Position = rl.NewVector3(
			float32(eye.X()-offset.X()),
			float32(eye.Y()-offset.Y()),
			float32(eye.Z()-offset.Z()),
		)
		camera.Target = rl.NewVector3(float32(eye.X()), float32(eye.Y()), float32(eye.Z()))
	} else {
		target := eye.Add(forward)
		camera.Position = rl.NewVector3(float32(eye.X()), float32(eye.Y()), float32(eye.Z()))
		camera.Target = rl.NewVector3(float32(target.X()), float32(target.Y()), float32(target.Z()))
	}

	return camera
}

// DrawWalker renders the walker as a simple box standing on its feet.
// Only useful in third person; in first person the box would fill the
// near plane, so callers skip it at camera distance zero.
func DrawWalker(ctrl *character.Controller, cfg config.WalkerConfig) {
	eye := ctrl.Position()
	center := rl.NewVector3(
		float32(eye.X()),
		float32(eye.Y()-cfg.EyeHeight/2),
		float32(eye.Z()),
	)

	height := float32(cfg.EyeHeight)
	rl.DrawCube(center, 0.6, height, 0.6, rl.SkyBlue)
	rl.DrawCubeWires(center, 0.6, height, 0.6, rl.DarkBlue)
}
