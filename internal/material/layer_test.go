package material

import (
	"image"
	"image/color"
	"math"
	"strings"
	"testing"

	"diorama/internal/wallpaper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestShadeDiscardsLowAlpha(t *testing.T) {
	img := solid(color.NRGBA{R: 255, G: 128, B: 0, A: uint8(math.Round(0.05 * 255))})

	_, ok := Shade(img, wallpaper.Vec2{X: 0.5, Y: 0.5}, DefaultUniforms())
	assert.False(t, ok)
}

func TestShadeEmitsAtFixedOpacity(t *testing.T) {
	img := solid(color.NRGBA{R: 255, G: 0, B: 51, A: 128})

	frag, ok := Shade(img, wallpaper.Vec2{X: 0.5, Y: 0.5}, DefaultUniforms())
	require.True(t, ok)
	assert.InDelta(t, 1.0, frag.R, 1e-9)
	assert.InDelta(t, 0.0, frag.G, 1e-9)
	assert.InDelta(t, 0.2, frag.B, 1e-9)
	assert.Equal(t, Opacity, frag.A, "opacity does not follow the sample alpha")
}

func TestDiscardedSampleNeverContributes(t *testing.T) {
	dst := Fragment{R: 0.2, G: 0.2, B: 0.2, A: 1}
	faint := solid(color.NRGBA{R: 255, G: 255, B: 255, A: 12})
	opaque := solid(color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	for i := 0; i < 100; i++ {
		if f, ok := Shade(faint, wallpaper.Vec2{X: 0.1, Y: 0.9}, DefaultUniforms()); ok {
			dst = Over(dst, f)
		}
	}
	assert.Equal(t, Fragment{R: 0.2, G: 0.2, B: 0.2, A: 1}, dst)

	f, ok := Shade(opaque, wallpaper.Vec2{X: 0.1, Y: 0.9}, DefaultUniforms())
	require.True(t, ok)
	blended := Over(dst, f)
	assert.InDelta(t, 0.2+0.8*Opacity, blended.R, 1e-9)
}

func TestStackedLayersKeepBackgroundVisible(t *testing.T) {
	dst := Fragment{R: 0.2, G: 0.2, B: 0.2, A: 1}
	white := solid(color.NRGBA{R: 255, G: 255, B: 255, A: 128})

	for i := 0; i < 2; i++ {
		f, ok := Shade(white, wallpaper.Vec2{X: 0.5, Y: 0.5}, DefaultUniforms())
		require.True(t, ok)
		dst = Over(dst, f)
	}

	// Two layers at 0.1 opacity: 0.2 -> 0.28 -> 0.352. A replacing write
	// would leave pure white.
	assert.InDelta(t, 0.352, dst.R, 1e-9)
	assert.InDelta(t, 1.0, dst.A, 1e-9)
	assert.Less(t, dst.R, 1.0)
}

func TestTexCoord(t *testing.T) {
	u := Uniforms{
		Movement: wallpaper.Vec3{X: 0.5, Y: -1, Z: 3},
		Scale:    2,
		Factor:   0.1,
	}
	got := TexCoord(wallpaper.Vec2{X: 1, Y: 0.5}, u)
	assert.InDelta(t, 0.55, got.X, 1e-12)
	assert.InDelta(t, 0.15, got.Y, 1e-12)
}

func TestTexCoordShiftsSampledTexel(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{B: 255, A: 255})

	u := DefaultUniforms()
	f, ok := Shade(img, wallpaper.Vec2{X: 0.25, Y: 0.5}, u)
	require.True(t, ok)
	assert.Equal(t, 1.0, f.R)

	u.Movement = wallpaper.Vec3{X: 1}
	u.Factor = 0.5
	f, ok = Shade(img, wallpaper.Vec2{X: 0.25, Y: 0.5}, u)
	require.True(t, ok)
	assert.Equal(t, 1.0, f.B)

	u.Factor = 1
	f, ok = Shade(img, wallpaper.Vec2{X: 0.25, Y: 0.5}, u)
	require.True(t, ok)
	assert.Equal(t, 1.0, f.R, "lookups wrap around")
}

func TestBendVertex(t *testing.T) {
	p := wallpaper.Vec3{X: 0.5, Y: 0.25, Z: 0}

	assert.Equal(t, p, BendVertex(p, Uniforms{Wiggle: 0, Time: 3}))

	u := Uniforms{Wiggle: 1, Time: 1}
	got := BendVertex(p, u)
	theta := math.Sin(1+0.25) / 2
	assert.InDelta(t, math.Cos(theta)*0.5, got.X, 1e-12)
	assert.Equal(t, p.Y, got.Y)
	assert.InDelta(t, -math.Sin(theta)*0.5, got.Z, 1e-12)

	length := math.Hypot(got.X, got.Z)
	assert.InDelta(t, 0.5, length, 1e-12, "the bend is a rotation")
}

func TestBendVertexSways(t *testing.T) {
	p := wallpaper.Vec3{X: 1}
	u := Uniforms{Wiggle: 0.6}

	var seen []float64
	for step := 0; step < 8; step++ {
		u.Time = float64(step)
		seen = append(seen, BendVertex(p, u).Z)
	}
	assert.Less(t, minOf(seen), 0.0)
	assert.Greater(t, maxOf(seen), 0.0)
	for _, z := range seen {
		assert.LessOrEqual(t, math.Abs(z), math.Sin(0.3)+1e-12)
	}
}

func TestSourcesCarryThresholds(t *testing.T) {
	vs, fs := Sources()
	assert.Contains(t, vs, "uniform float wiggle;")
	assert.Contains(t, fs, "if (color.a < 0.1000) discard;")
	assert.Contains(t, fs, "vec4(color.rgb, 0.1000)")
	for _, name := range []string{UniformMovement, UniformScale, UniformFactor, UniformTexture} {
		assert.True(t, strings.Contains(fs, name), name)
	}
	assert.Contains(t, vs, UniformTime)
}

func minOf(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		m = math.Min(m, x)
	}
	return m
}

func maxOf(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		m = math.Max(m, x)
	}
	return m
}
