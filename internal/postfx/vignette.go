package postfx

import "diorama/internal/wallpaper"

type Vignette struct {
	Offset   float64
	Darkness float64
}

type RGB struct {
	R, G, B float64
}

// Apply darkens c toward 1-Darkness with the squared distance of uv from the
// frame center, scaled by Offset.
func (v Vignette) Apply(c RGB, uv wallpaper.Vec2) RGB {
	x := (uv.X - 0.5) * v.Offset
	y := (uv.Y - 0.5) * v.Offset
	t := x*x + y*y
	edge := 1 - v.Darkness
	mix := func(a float64) float64 { return a + (edge-a)*t }
	return RGB{R: mix(c.R), G: mix(c.G), B: mix(c.B)}
}
