package parallax

import (
	"math"

	"diorama/internal/wallpaper"
)

// PointerSample is a normalized pointer position, both axes in [-1, 1], y up.
type PointerSample struct {
	X, Y float64
}

// ViewportState is the visible size of the z=0 plane in world units.
type ViewportState struct {
	Width, Height float64
}

// Transform is the part of a layer's placement driven by the pointer.
type Transform struct {
	X         float64
	RotationY float64
	Z         float64
}

// Texture is the engine's view of a loaded image. The engine never owns it.
type Texture interface {
	NativeSize() (width, height float64)
}

// Layer is one textured plane with its resolved configuration and the live
// transform the engine integrates each frame.
type Layer struct {
	Index   int
	Name    string
	Texture Texture
	Visible bool

	Anchor       wallpaper.Vec3
	FallbackSize wallpaper.Vec2
	Coverage     wallpaper.Vec2
	ScaleFactor  float64

	Speed          float64
	RotationFactor float64
	ZFactor        float64

	Factor  float64
	UVScale float64
	Wiggle  float64

	Live Transform
}

// NewLayer builds a layer at rest from its configuration. tex may be nil when
// the image failed to load; the layer then keeps its geometry but is not drawn.
func NewLayer(cfg wallpaper.LayerConfig, tex Texture, overscan float64) Layer {
	if overscan <= 0 {
		overscan = 1
	}
	return Layer{
		Index:          cfg.Index,
		Name:           cfg.Name,
		Texture:        tex,
		Visible:        cfg.Visible,
		Anchor:         cfg.Anchor,
		FallbackSize:   cfg.Size,
		ScaleFactor:    cfg.ScaleFactor * overscan,
		Speed:          cfg.Speed,
		RotationFactor: cfg.RotationFactor,
		ZFactor:        cfg.ZFactor,
		Factor:         cfg.Factor,
		UVScale:        cfg.UVScale,
		Wiggle:         cfg.Wiggle,
		Live:           Rest(cfg.Anchor),
	}
}

// Rest is the transform of a layer whose pointer sits at the center.
func Rest(anchor wallpaper.Vec3) Transform {
	return Transform{X: anchor.X, Z: anchor.Z}
}

// NativeSize reports the texture's pixel size, or the configured size when
// there is no texture.
func (l Layer) NativeSize() (float64, float64) {
	if l.Texture != nil {
		if w, h := l.Texture.NativeSize(); w > 0 && h > 0 {
			return w, h
		}
	}
	return l.FallbackSize.X, l.FallbackSize.Y
}

// Drawable reports whether the layer has something to draw.
func (l Layer) Drawable() bool {
	return l.Visible && l.Texture != nil
}

// Size is the world size of the plane: coverage times the scale factor.
func (l Layer) Size() wallpaper.Vec2 {
	return wallpaper.Vec2{X: l.Coverage.X * l.ScaleFactor, Y: l.Coverage.Y * l.ScaleFactor}
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
