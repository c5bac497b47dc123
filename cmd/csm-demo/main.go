// Command csm-demo renders a field of cubes under a rotating sun with cascaded shadows and bloom.
//
// Controls: right mouse drag to look, WASD to move, space/shift for up/down, scroll to zoom,
// B toggles bloom, C toggles the cascade debug tint, G toggles Gooch shading, X toggles sun
// shadows, [/] shrink and grow the bloom filter radius, +/- change exposure, Esc quits. A few
// unshadowed point lights hover over the glowing cubes.
package main

import (
	"flag"
	"log/slog"
	"math"
	"os"

	"github.com/Carmen-Shannon/oxy-csm/engine"
	"github.com/Carmen-Shannon/oxy-csm/engine/bloom"
	"github.com/Carmen-Shannon/oxy-csm/engine/camera"
	"github.com/Carmen-Shannon/oxy-csm/engine/frame"
	"github.com/Carmen-Shannon/oxy-csm/engine/input"
	"github.com/Carmen-Shannon/oxy-csm/engine/light"
	"github.com/Carmen-Shannon/oxy-csm/engine/logger"
	"github.com/Carmen-Shannon/oxy-csm/engine/mesh"
	"github.com/Carmen-Shannon/oxy-csm/engine/renderer"
	"github.com/Carmen-Shannon/oxy-csm/engine/scene"
	"github.com/Carmen-Shannon/oxy-csm/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

// sunSpeed is how fast the sun circles the zenith, in radians per second.
const sunSpeed = 0.1

func main() {
	orbit := flag.Bool("orbit", false, "use the orbit camera instead of the fly camera")
	cascades := flag.Int("cascades", 4, "number of shadow cascades (1-4)")
	shadowRes := flag.Int("shadow-res", 2048, "shadow map resolution per cascade")
	msaa := flag.Int("msaa", 4, "MSAA sample count for the lit pass (1, 4, 8 or 16)")
	vsync := flag.Bool("vsync", true, "wait for vertical blank when presenting")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	log := logger.Logger()

	// ── Engine + Window ─────────────────────────────────────────────────
	eng := engine.NewEngine(
		engine.WithProfiling(true),
		engine.WithTickRate(60),
		engine.WithWindow(window.NewWindow(
			window.WithTitle("Oxy - Cascaded Shadows"),
			window.WithSize(1600, 900),
			window.WithMinSize(1<<bloom.DefaultLevels, 1<<bloom.DefaultLevels),
		)),
	)
	win := eng.Window()

	// ── Renderer ────────────────────────────────────────────────────────
	presentMode := renderer.PresentModeVSync
	if !*vsync {
		presentMode = renderer.PresentModeUncapped
	}
	r := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		win,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(renderer.MSAASampleCount(*msaa)),
	)

	// ── Camera ──────────────────────────────────────────────────────────
	var controller camera.Controller
	if *orbit {
		controller = camera.NewOrbitController(
			camera.WithRadius(35),
			camera.WithTarget(mgl32.Vec3{0, 1, 0}),
			camera.WithElevation(0.35),
			camera.WithAzimuth(0.6),
		)
	} else {
		controller = camera.NewFlyController(
			camera.WithFlyPosition(mgl32.Vec3{0, 4, 18}),
			camera.WithYawPitch(-90, -10),
			camera.WithMoveSpeed(8),
		)
	}
	cam := camera.NewCamera(
		camera.WithFov(camera.DefaultFov),
		camera.WithAspect(float32(win.Width())/float32(win.Height())),
		camera.WithNear(camera.DefaultNear),
		camera.WithFar(150),
		camera.WithController(controller),
	)

	// ── Light ───────────────────────────────────────────────────────────
	sun := light.NewLight(
		light.WithDirection(0.4, -1, 0.3),
		light.WithAmbient(0.05, 0.05, 0.05),
		light.WithDiffuse(0.4, 0.4, 0.4),
		light.WithSpecular(0.5, 0.5, 0.5),
		light.WithIntensity(2),
		light.WithShininess(32),
	)

	// ── Scene ───────────────────────────────────────────────────────────
	sc := scene.NewScene("Cube Field",
		scene.WithMeshes(mesh.NewCube(), mesh.NewPlane(1)),
		scene.WithNodes(buildNodes()...),
	)

	// ── Frame ───────────────────────────────────────────────────────────
	ctx := &frame.RenderContext{
		Camera:       cam,
		Light:        sun,
		Scene:        sc,
		BloomEnabled: true,
		PointLights:  buildPointLights(),
	}
	orch, err := frame.NewOrchestrator(r, ctx,
		frame.WithCascadeCount(*cascades),
		frame.WithShadowResolution(uint32(*shadowRes)),
	)
	if err != nil {
		log.Error("setup failed", "resource", "frame orchestrator", "error", err)
		sc.Release()
		_ = win.Close()
		os.Exit(1)
	}

	// ── Callbacks ───────────────────────────────────────────────────────
	var sunAngle float64
	eng.SetTickCallback(func(dt float32) {
		sc.Update(dt)
		sunAngle += sunSpeed * float64(dt)
		sun.SetDirection(float32(0.5*math.Cos(sunAngle)), -1, float32(0.5*math.Sin(sunAngle)))
	})
	eng.SetFrameCallback(func(in input.FrameInput, dt float32) error {
		ctx.DT = dt
		return orch.RenderFrame(ctx, in)
	})

	log.Info("demo started", "cascades", orch.CascadeCount(), "shadowRes", *shadowRes, "msaa", *msaa, "orbit", *orbit)
	eng.Run()

	orch.Release()
	sc.Release()
	if err := win.Close(); err != nil {
		log.Error("window close failed", "error", err)
	}
}

// buildNodes lays out a ground plane, a grid of cubes spread out to the far cascades, a few
// tall pillars and some over-bright emissive-looking cubes for the bloom pass.
func buildNodes() []scene.Node {
	nodes := []scene.Node{{
		Mesh:   mesh.PlaneName,
		Scale:  mgl32.Vec3{300, 1, 300},
		Albedo: mgl32.Vec4{0.55, 0.55, 0.5, 1},
	}}

	for x := -6; x <= 6; x++ {
		for z := -12; z <= 2; z++ {
			// Spacing grows with distance so cubes land in every cascade.
			d := float32(-z)
			spacing := 3 + d*0.6
			h := 0.5 + float32((x*7+z*13)&3)*0.5
			nodes = append(nodes, scene.Node{
				Mesh:     mesh.CubeName,
				Position: mgl32.Vec3{float32(x) * spacing, h / 2, float32(z) * spacing},
				Rotation: mgl32.Vec3{0, float32(x*z) * 0.2, 0},
				Scale:    mgl32.Vec3{1, h, 1},
				Albedo:   mgl32.Vec4{0.3 + 0.05*float32(x+6), 0.4, 0.7 - 0.04*float32(z+12), 1},
			})
		}
	}

	for i := 0; i < 4; i++ {
		a := float32(i) * math.Pi / 2
		nodes = append(nodes, scene.Node{
			Mesh:     mesh.CubeName,
			Position: mgl32.Vec3{12 * float32(math.Cos(float64(a))), 5, 12 * float32(math.Sin(float64(a)))},
			Scale:    mgl32.Vec3{1.5, 10, 1.5},
			Albedo:   mgl32.Vec4{0.8, 0.8, 0.8, 1},
		})
	}

	glow := []mgl32.Vec4{{6, 1.5, 0.5, 1}, {0.5, 4, 6, 1}, {5, 5, 1, 1}}
	for i, c := range glow {
		nodes = append(nodes, scene.Node{
			Mesh:     mesh.CubeName,
			Position: mgl32.Vec3{float32(i-1) * 4, 2, 4},
			Scale:    mgl32.Vec3{0.8, 0.8, 0.8},
			Spin:     mgl32.Vec3{0.3, 0.9, 0},
			Albedo:   c,
		})
	}
	return nodes
}

// buildPointLights puts a colored point light above each glowing cube.
func buildPointLights() []light.PointLight {
	colors := []mgl32.Vec3{{1, 0.3, 0.1}, {0.1, 0.7, 1}, {1, 1, 0.2}}
	lights := make([]light.PointLight, len(colors))
	for i, c := range colors {
		lights[i] = light.NewPointLight(
			light.WithPosition(mgl32.Vec3{float32(i-1) * 4, 3.5, 4}),
			light.WithColor(c.X(), c.Y(), c.Z()),
			light.WithAttenuation(1, 0.14, 0.07),
			light.WithPointIntensity(2),
		)
	}
	return lights
}
