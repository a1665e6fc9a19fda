package postfx

import (
	"math"

	"diorama/internal/wallpaper"
)

// DiscTaps is the number of samples of the bokeh kernel.
const DiscTaps = 24

// DepthOfField parameters. Depth values are view-space distances divided by
// DepthRange, so FocalLength is expressed in the same normalized units.
type DepthOfField struct {
	Target      wallpaper.Vec3
	FocalLength float64
	BokehScale  float64
	Height      int
	DepthRange  float64
}

// FocusDepth projects target onto the camera's view direction and normalizes
// it by depthRange.
func FocusDepth(camera, lookAt, target wallpaper.Vec3, depthRange float64) float64 {
	dir := sub(lookAt, camera)
	n := math.Sqrt(dot(dir, dir))
	if n == 0 || depthRange <= 0 {
		return 0
	}
	return dot(sub(target, camera), dir) / n / depthRange
}

// CircleOfConfusion is 0 at the focus depth and grows linearly to 1 at one
// focal length away.
func CircleOfConfusion(depth, focus, focalLength float64) float64 {
	if focalLength <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, math.Abs(depth-focus)/focalLength))
}

// BlurRadius is the blur radius in pixels of the sample buffer.
func BlurRadius(coc, bokehScale float64) float64 {
	return coc * bokehScale
}

// TexelScale converts a radius measured on a buffer of the configured height
// into texels of the actual target.
func (d DepthOfField) TexelScale(targetHeight int) float64 {
	if d.Height <= 0 || targetHeight <= 0 {
		return 1
	}
	return float64(targetHeight) / float64(d.Height)
}

// DiscKernel returns n sample offsets spread over the unit disc on a golden
// angle spiral.
func DiscKernel(n int) []wallpaper.Vec2 {
	golden := math.Pi * (3 - math.Sqrt(5))
	out := make([]wallpaper.Vec2, n)
	for i := range out {
		r := math.Sqrt((float64(i) + 0.5) / float64(n))
		a := float64(i) * golden
		out[i] = wallpaper.Vec2{X: r * math.Cos(a), Y: r * math.Sin(a)}
	}
	return out
}

func sub(a, b wallpaper.Vec3) wallpaper.Vec3 {
	return wallpaper.Vec3{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z}
}

func dot(a, b wallpaper.Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}
