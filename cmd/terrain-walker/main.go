package main

import (
	"context"
	"log"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/kxvxnc/terrain-gen/internal/character"
	"github.com/kxvxnc/terrain-gen/internal/config"
	"github.com/kxvxnc/terrain-gen/internal/heightfield"
	"github.com/kxvxnc/terrain-gen/internal/performance"
	"github.com/kxvxnc/terrain-gen/internal/render"
	"github.com/kxvxnc/terrain-gen/internal/streaming"
	"github.com/kxvxnc/terrain-gen/internal/telemetry"
	"github.com/kxvxnc/terrain-gen/internal/terrain"
)

// main starts the terrain walker.
// It wires the height field, chunk factory, streaming manager and
// character controller together, then runs the frame loop until the
// window closes. One streaming update runs per rendered frame, fed by
// the walker's position; this loop is the only caller of Update.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("terrain-walker starting: seed=%d chunk_size=%.0f radius=%d divisions=%d",
		cfg.Terrain.Seed, cfg.Terrain.ChunkSize, cfg.Terrain.RenderDistance, cfg.Terrain.GridDivisions)

	profiler := performance.NewProfiler(cfg.Telemetry.ProfilerEnabled)

	field := heightfield.New(cfg.Terrain)
	factory := terrain.NewFactory(cfg.Terrain, field)
	scene := render.NewSceneView()
	mgr := streaming.NewManager(cfg.Terrain, factory, scene)
	walker := character.NewController(cfg.Walker, field)

	var tel *telemetry.Server
	if cfg.Telemetry.Enabled {
		tel = telemetry.NewServer(cfg, profiler)
		tel.Start()
	}

	rl.InitWindow(int32(cfg.Window.Width), int32(cfg.Window.Height), cfg.Window.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Window.TargetFPS))

	cursorLocked := true
	rl.DisableCursor()

	// Fill the streaming window around the spawn before the first frame.
	spawn := walker.Position()
	if delta := mgr.Update(0, spawn.X(), spawn.Z()); !delta.Empty() {
		publish(tel, mgr, delta)
	}

	for !rl.WindowShouldClose() {
		frameOp := profiler.Start("frame")
		dt := float64(rl.GetFrameTime())

		if rl.IsKeyPressed(rl.KeyTab) {
			cursorLocked = !cursorLocked
			if cursorLocked {
				rl.DisableCursor()
			} else {
				rl.EnableCursor()
			}
		}

		walker.Update(dt, render.ReadInput(cursorLocked))

		pos := walker.Position()
		streamOp := profiler.Start("stream.update")
		delta := mgr.Update(dt, pos.X(), pos.Z())
		streamOp.End()
		if !delta.Empty() {
			publish(tel, mgr, delta)
		}

		camera := render.CameraFor(walker, cfg.Walker)

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(12, 14, 24, 255))

		rl.BeginMode3D(camera)
		scene.Draw()
		if cfg.Walker.CameraDistance > 0 {
			render.DrawWalker(walker, cfg.Walker)
		}
		rl.EndMode3D()

		render.DrawHUD(walker, mgr)
		rl.EndDrawing()

		frameOp.End()
	}

	profiler.LogReport()

	if tel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Telemetry.ShutdownTimeout)
		defer cancel()
		if err := tel.Shutdown(ctx); err != nil {
			log.Printf("[Telemetry] shutdown error: %v", err)
		}
	}
}

// publish forwards a residency change to the telemetry stream, sending
// geometry for freshly added chunks only when an observer asked for it.
func publish(tel *telemetry.Server, mgr *streaming.Manager, delta streaming.Delta) {
	if tel == nil {
		return
	}

	tel.PublishDelta(delta)

	if !tel.WantGeometry() {
		return
	}
	for _, coord := range delta.Added {
		if chunk, ok := mgr.Chunk(coord); ok {
			tel.PublishChunk(chunk)
		}
	}
}
