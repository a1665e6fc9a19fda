package main

import (
	"diorama/internal/engine2D"
	"diorama/internal/parallax"
	"diorama/internal/scene"
	"diorama/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Listeners only write into the sampler. The engine reads it at the top of
// the next frame.

func resizeListener(r *engine2D.Renderer, s *parallax.HostSampler) scene.Listener {
	return func() {
		if !rl.IsWindowResized() {
			return
		}
		w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
		v := r.UpdateViewport(w, h)
		s.Resized(v.Width, v.Height)
		utils.Debug("Window resized to %dx%d (viewport %.2fx%.2f)", w, h, v.Width, v.Height)
	}
}

func mouseListener(r *engine2D.Renderer, s *parallax.HostSampler) scene.Listener {
	var last rl.Vector2
	return func() {
		pos := rl.GetMousePosition()
		if pos == last {
			return
		}
		last = pos
		p := r.UpdateMouse(float64(pos.X), float64(pos.Y))
		s.PointerMoved(p.X, p.Y)
	}
}

// globalPointerListener follows the X11 pointer, for windows kept behind
// everything else that never see mouse events.
func globalPointerListener(r *engine2D.Renderer, s *parallax.HostSampler, gp *utils.GlobalPointer) scene.Listener {
	lastX, lastY := -1, -1
	failed := false
	return func() {
		x, y, err := gp.Position()
		if err != nil {
			if !failed {
				utils.Warn("Global pointer query failed: %v", err)
				failed = true
			}
			return
		}
		failed = false
		if x == lastX && y == lastY {
			return
		}
		lastX, lastY = x, y

		win := rl.GetWindowPosition()
		p := r.UpdateMouse(float64(x)-float64(win.X), float64(y)-float64(win.Y))
		s.PointerMoved(p.X, p.Y)
	}
}
