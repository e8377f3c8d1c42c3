package character

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/kxvxnc/terrain-gen/internal/config"
)

// Ground answers height queries in world coordinates. heightfield.Field
// satisfies it; the controller's only knowledge of the terrain is this
// lookup, used for the vertical clamp.
type Ground interface {
	HeightAt(x, z float64) float64
}

// Input is one frame of movement intent, decoupled from any window system so
// the controller is testable headless. LookX and LookY are the mouse delta
// in pixels for the frame.
type Input struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Jump     bool
	Sprint   bool
	LookX    float64
	LookY    float64
}

// Pitch stops just short of straight up/down so the view direction never
// degenerates.
const maxPitch = math.Pi/2 - 0.01

// Controller is a first/third person walker: yaw/pitch mouse look, planar
// WASD movement aligned to the view yaw, gravity with jumping, and a hard
// clamp that keeps the eye EyeHeight above the terrain surface.
type Controller struct {
	cfg    config.WalkerConfig
	ground Ground

	position  mgl64.Vec3
	velocityY float64
	yaw       float64
	pitch     float64
	grounded  bool
}

// NewController spawns a walker standing on the terrain at the world origin,
// facing negative Z.
func NewController(cfg config.WalkerConfig, ground Ground) *Controller {
	return &Controller{
		cfg:    cfg,
		ground: ground,
		position: mgl64.Vec3{
			0,
			ground.HeightAt(0, 0) + cfg.EyeHeight,
			0,
		},
		grounded: true,
	}
}

// Update advances the walker by one frame of input. Movement is integrated
// with the frame's dt, so speed is frame-rate independent. The vertical
// clamp runs last: the eye never ends a frame below terrain height plus
// EyeHeight, whatever gravity and jumping did before it.
func (c *Controller) Update(dt float64, in Input) {
	// Mouse look. Moving the mouse right turns right; moving it up looks up.
	c.yaw += in.LookX * c.cfg.MouseSensitivity
	c.pitch -= in.LookY * c.cfg.MouseSensitivity
	if c.pitch > maxPitch {
		c.pitch = maxPitch
	}
	if c.pitch < -maxPitch {
		c.pitch = -maxPitch
	}

	// Planar movement in the yaw frame. Pitch deliberately does not affect
	// walking: looking at the ground does not slow the walker down.
	forward := mgl64.Vec3{math.Sin(c.yaw), 0, -math.Cos(c.yaw)}
	right := mgl64.Vec3{math.Cos(c.yaw), 0, math.Sin(c.yaw)}

	var move mgl64.Vec3
	if in.Forward {
		move = move.Add(forward)
	}
	if in.Backward {
		move = move.Sub(forward)
	}
	if in.Right {
		move = move.Add(right)
	}
	if in.Left {
		move = move.Sub(right)
	}
	if move.Len() > 0 {
		speed := c.cfg.MoveSpeed
		if in.Sprint {
			speed *= c.cfg.SprintMultiplier
		}
		move = move.Normalize().Mul(speed * dt)
		c.position = c.position.Add(move)
	}

	// Gravity and jumping
	if in.Jump && c.grounded {
		c.velocityY = c.cfg.JumpSpeed
		c.grounded = false
	}
	c.velocityY += c.cfg.Gravity * dt
	c.position[1] += c.velocityY * dt

	// Vertical clamp against the terrain at the new planar position
	floor := c.ground.HeightAt(c.position.X(), c.position.Z()) + c.cfg.EyeHeight
	if c.position.Y() <= floor {
		c.position[1] = floor
		c.velocityY = 0
		c.grounded = true
	} else {
		c.grounded = false
	}
}

// Position returns the eye position in world space.
func (c *Controller) Position() mgl64.Vec3 {
	return c.position
}

// Yaw returns the view yaw in radians; 0 faces negative Z.
func (c *Controller) Yaw() float64 {
	return c.yaw
}

// Pitch returns the view pitch in radians, clamped short of vertical.
func (c *Controller) Pitch() float64 {
	return c.pitch
}

// Grounded reports whether the walker ended the last frame on the terrain.
func (c *Controller) Grounded() bool {
	return c.grounded
}

// Forward returns the full 3D view direction from yaw and pitch.
func (c *Controller) Forward() mgl64.Vec3 {
	cosPitch := math.Cos(c.pitch)
	return mgl64.Vec3{
		cosPitch * math.Sin(c.yaw),
		math.Sin(c.pitch),
		-cosPitch * math.Cos(c.yaw),
	}
}
