package main

import (
	"fmt"

	"diorama/internal/debug"
	"diorama/internal/engine2D"
	"diorama/internal/parallax"
	"diorama/internal/postfx"
	"diorama/internal/scene"
	"diorama/internal/utils"
	"diorama/internal/wallpaper"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type WindowOptions struct {
	Title         string
	Name          string
	FPS           int
	MaxTexture    int
	GlobalPointer bool
}

type Window struct {
	scene    *scene.Scene
	engine   *parallax.Engine
	renderer *engine2D.Renderer
	fps      int
}

// NewWindow opens the raylib window, loads the layers and mounts the scene.
// It returns engine2D.ErrBackendUnavailable when no window can be created, in
// which case nothing is mounted.
func NewWindow(cfg *wallpaper.Scene, opts WindowOptions) (*Window, error) {
	rl.SetTraceLogCallback(utils.RaylibLogCallback)
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint | rl.FlagVsyncHint)
	rl.InitWindow(int32(cfg.General.Width), int32(cfg.General.Height), opts.Title)
	if !rl.IsWindowReady() {
		return nil, engine2D.ErrBackendUnavailable
	}

	sc := scene.New(opts.Name)
	sc.AddDisposer("window", func() error {
		rl.CloseWindow()
		return nil
	})

	w, err := mount(sc, cfg, opts)
	if err != nil {
		if uerr := sc.Unmount(); uerr != nil {
			utils.Warn("Teardown after failed mount: %v", uerr)
		}
		return nil, err
	}
	return w, nil
}

func mount(sc *scene.Scene, cfg *wallpaper.Scene, opts WindowOptions) (*Window, error) {
	strategy, err := parallax.StrategyByName(cfg.General.Strategy)
	if err != nil {
		return nil, err
	}
	law, err := parallax.NewDamping(cfg.General.Damping, cfg.General.RefreshIndependent, cfg.General.ReferenceFPS)
	if err != nil {
		return nil, err
	}

	renderer := engine2D.NewRenderer(cfg.General, strategy)
	sc.AddDisposer("renderer", func() error {
		renderer.Unload()
		return nil
	})

	viewport := renderer.UpdateViewport(rl.GetScreenWidth(), rl.GetScreenHeight())
	sampler := parallax.NewHostSampler(viewport)

	layers := loadLayers(cfg, renderer, opts.MaxTexture)
	engine, err := parallax.New(sampler, layers, parallax.Options{Damping: law, Viewport: viewport})
	if err != nil {
		return nil, fmt.Errorf("create parallax engine: %w", err)
	}
	sc.AddDisposer("engine", func() error {
		engine.Release()
		return nil
	})

	renderer.Effects = engine2D.NewEffectsPipeline(
		postfx.FromConfig(cfg.Effects),
		renderer.CameraPosition(),
		renderer.CameraTarget(),
	)

	sc.AddListener(resizeListener(renderer, sampler))
	if opts.GlobalPointer {
		gp, err := utils.OpenGlobalPointer()
		if err != nil {
			utils.Warn("X11 pointer unavailable (%v), using window mouse events", err)
			sc.AddListener(mouseListener(renderer, sampler))
		} else {
			sc.AddDisposer("global-pointer", func() error {
				gp.Close()
				return nil
			})
			sc.AddListener(globalPointerListener(renderer, sampler, gp))
		}
	} else {
		sc.AddListener(mouseListener(renderer, sampler))
	}

	overlay := debug.NewOverlay(utils.DebugMode)
	sc.AddListener(overlay.Update)

	var lastErr error
	err = sc.Mount(func(dt float64) {
		engine.OnFrame(dt)
		if err := engine.Err(); err != nil && (lastErr == nil || err.Error() != lastErr.Error()) {
			utils.Debug("Frame %d: %v", engine.Frame().Count, err)
		}
		lastErr = engine.Err()

		layers, frame := engine.Layers(), engine.Frame()
		rl.BeginDrawing()
		renderer.Render(layers, frame)
		overlay.Draw(renderer.Camera, renderer.Strategy, layers, engine.Targets(), frame)
		if utils.DebugMode {
			rl.DrawFPS(10, 10)
		}
		rl.EndDrawing()
	})
	if err != nil {
		return nil, err
	}

	return &Window{scene: sc, engine: engine, renderer: renderer, fps: opts.FPS}, nil
}

// Run drives the scene once per refresh until the window closes, then tears
// it down.
func (w *Window) Run() error {
	if w.fps > 0 {
		rl.SetTargetFPS(int32(w.fps))
	}
	for w.scene.Running() && !rl.WindowShouldClose() {
		w.scene.Tick(float64(rl.GetFrameTime()))
	}
	return w.scene.Unmount()
}
