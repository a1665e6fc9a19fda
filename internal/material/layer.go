package material

import (
	"image"
	"image/color"
	"math"

	"diorama/internal/wallpaper"
)

const (
	// AlphaCutoff is the sample alpha below which a fragment is discarded.
	AlphaCutoff = 0.1
	// Opacity is the alpha every surviving fragment is emitted with.
	Opacity = 0.1
)

// Uniforms are the per-layer inputs of the layer material.
type Uniforms struct {
	Movement wallpaper.Vec3
	Scale    float64
	Factor   float64
	Wiggle   float64
	Time     float64
}

func DefaultUniforms() Uniforms {
	return Uniforms{Scale: 1}
}

// Fragment is a straight-alpha color with components in [0, 1].
type Fragment struct {
	R, G, B, A float64
}

// TexCoord is the fragment stage lookup: uv / scale + movement.xy * factor.
func TexCoord(uv wallpaper.Vec2, u Uniforms) wallpaper.Vec2 {
	scale := u.Scale
	if scale == 0 {
		scale = 1
	}
	return wallpaper.Vec2{
		X: uv.X/scale + u.Movement.X*u.Factor,
		Y: uv.Y/scale + u.Movement.Y*u.Factor,
	}
}

// BendVertex is the vertex stage on a plane position (x, y in the plane,
// z toward the camera). With wiggle > 0 it rotates the vertex about Y by
// sin(time + y) / 2 * wiggle, multiplying as a row vector.
func BendVertex(p wallpaper.Vec3, u Uniforms) wallpaper.Vec3 {
	if u.Wiggle <= 0 {
		return p
	}
	theta := math.Sin(u.Time+p.Y) / 2 * u.Wiggle
	c, s := math.Cos(theta), math.Sin(theta)
	return wallpaper.Vec3{
		X: c*p.X + s*p.Z,
		Y: p.Y,
		Z: -s*p.X + c*p.Z,
	}
}

// Shade runs the fragment stage against img with repeat wrapping. It reports
// false when the sample is discarded.
func Shade(img image.Image, uv wallpaper.Vec2, u Uniforms) (Fragment, bool) {
	sample := sampleRepeat(img, TexCoord(uv, u))
	if sample.A < AlphaCutoff {
		return Fragment{}, false
	}
	return Fragment{R: sample.R, G: sample.G, B: sample.B, A: Opacity}, true
}

// Over composites a fragment onto dst, straight alpha.
func Over(dst, f Fragment) Fragment {
	a := f.A + dst.A*(1-f.A)
	if a == 0 {
		return Fragment{}
	}
	mix := func(s, d float64) float64 {
		return (s*f.A + d*dst.A*(1-f.A)) / a
	}
	return Fragment{R: mix(f.R, dst.R), G: mix(f.G, dst.G), B: mix(f.B, dst.B), A: a}
}

func sampleRepeat(img image.Image, uv wallpaper.Vec2) Fragment {
	b := img.Bounds()
	if b.Empty() {
		return Fragment{}
	}
	x := b.Min.X + wrap(uv.X, b.Dx())
	y := b.Min.Y + wrap(uv.Y, b.Dy())

	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	return Fragment{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}

func wrap(t float64, n int) int {
	t -= math.Floor(t)
	i := int(t * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
