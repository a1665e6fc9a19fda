package debug

import (
	"fmt"

	"diorama/internal/parallax"
	"diorama/internal/wallpaper"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Overlay draws each layer's plane outline and its live and target transforms
// on top of the frame. F8 toggles it.
type Overlay struct {
	Visible    bool
	fontHeight int32
}

func NewOverlay(visible bool) *Overlay {
	return &Overlay{Visible: visible, fontHeight: 10}
}

// Update polls the toggle key.
func (o *Overlay) Update() {
	if rl.IsKeyPressed(rl.KeyF8) {
		o.Visible = !o.Visible
	}
}

func toRL(v wallpaper.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

func (o *Overlay) Draw(camera rl.Camera3D, strategy parallax.LayerRenderStrategy, layers []parallax.Layer, targets []parallax.Transform, f parallax.Frame) {
	if !o.Visible {
		return
	}

	for _, l := range layers {
		col := rl.NewColor(0, 255, 0, 255)
		if !l.Drawable() {
			col = rl.NewColor(255, 0, 0, 255)
		}
		corners := strategy.Place(l, f).Corners()
		var screen [4]rl.Vector2
		for i, c := range corners {
			screen[i] = rl.GetWorldToScreen(toRL(c), camera)
		}
		for i := range screen {
			rl.DrawLineV(screen[i], screen[(i+1)%len(screen)], col)
		}
		rl.DrawText(l.Name, int32(screen[0].X)+4, int32(screen[0].Y)+4, o.fontHeight, col)
	}

	y := int32(34)
	line := func(format string, args ...any) {
		rl.DrawText(fmt.Sprintf(format, args...), 10, y, o.fontHeight, rl.White)
		y += o.fontHeight + 4
	}

	line("%s strategy  frame %d  pointer (%.2f, %.2f)  viewport %.2fx%.2f",
		strategy.Name(), f.Count, f.Pointer.X, f.Pointer.Y, f.Viewport.Width, f.Viewport.Height)
	for i, l := range layers {
		var t parallax.Transform
		if i < len(targets) {
			t = targets[i]
		}
		line("%d %-8s x %+.3f -> %+.3f  rotY %+.4f -> %+.4f  z %.3f -> %.3f",
			l.Index, l.Name, l.Live.X, t.X, l.Live.RotationY, t.RotationY, l.Live.Z, t.Z)
	}
}
