package parallax

import (
	"math"
	"testing"

	"diorama/internal/wallpaper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformStrategyFollowsLiveTransform(t *testing.T) {
	l := sixLayers()[3]
	l.Anchor.Y = -0.9
	l.Live = Transform{X: 0.12, RotationY: -0.01, Z: 0.25}
	l.Coverage = wallpaper.Vec2{X: 10, Y: 5}
	l.ScaleFactor = 0.7

	p := TransformStrategy{}.Place(l, Frame{})

	assert.Equal(t, wallpaper.Vec3{X: 0.12, Y: -0.9, Z: 0.25}, p.Position)
	assert.Equal(t, -0.01, p.RotationY)
	assert.InDelta(t, 7.0, p.Size.X, 1e-12)
	assert.InDelta(t, 3.5, p.Size.Y, 1e-12)
	assert.Nil(t, p.Material)
}

func TestShaderStrategyMovesTextureNotPlane(t *testing.T) {
	l := sixLayers()[4]
	l.Live = Transform{X: 5, RotationY: 1, Z: -3}
	l.Factor = 0.05
	l.Wiggle = 0.6
	l.UVScale = 1.2

	f := Frame{Pointer: PointerSample{X: 0.4, Y: -0.2}, Elapsed: 2.5}
	p := ShaderStrategy{}.Place(l, f)

	assert.Equal(t, l.Anchor, p.Position)
	assert.Zero(t, p.RotationY)
	require.NotNil(t, p.Material)
	assert.Equal(t, wallpaper.Vec3{X: 0.4, Y: -0.2}, p.Material.Movement)
	assert.Equal(t, 0.05, p.Material.Factor)
	assert.Equal(t, 0.6, p.Material.Wiggle)
	assert.Equal(t, 1.2, p.Material.Scale)
	assert.Equal(t, 2.5, p.Material.Time)
}

func TestStrategiesShareLayerSize(t *testing.T) {
	e, sampler := newEngine(t, sixLayers(), nil)
	sampler.PointerMoved(0.3, 0.3)
	e.OnFrame(frame60)

	for _, l := range e.Layers() {
		a := TransformStrategy{}.Place(l, e.Frame())
		b := ShaderStrategy{}.Place(l, e.Frame())
		assert.Equal(t, a.Size, b.Size)
	}
}

func TestStrategyByName(t *testing.T) {
	for _, name := range []string{wallpaper.StrategyTransform, wallpaper.StrategyShader} {
		s, err := StrategyByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.Name())
	}

	s, err := StrategyByName("")
	require.NoError(t, err)
	assert.IsType(t, TransformStrategy{}, s)

	_, err = StrategyByName("css")
	assert.Error(t, err)
}

func TestNewDamping(t *testing.T) {
	law, err := NewDamping(0.05, false, 0)
	require.NoError(t, err)
	assert.Equal(t, FixedDamping{Alpha: 0.05}, law)

	law, err = NewDamping(0.05, true, 60)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, law.Factor(frame60), 1e-12, "reference frames reproduce alpha")
	assert.InDelta(t, 1-0.95*0.95, law.Factor(2*frame60), 1e-12)
	assert.Zero(t, law.Factor(0))
	assert.Less(t, law.Factor(1e6), 1.0)

	for _, alpha := range []float64{0, 1, -0.2, 1.5} {
		_, err := NewDamping(alpha, false, 60)
		assert.ErrorIs(t, err, ErrInvalidDamping, "alpha %v", alpha)
	}
	_, err = NewDamping(0.05, true, 0)
	assert.Error(t, err)
}

func TestCoverageScale(t *testing.T) {
	wide := CoverageScale(ViewportState{Width: 16, Height: 9}, 2200, 1000)
	assert.InDelta(t, 19.8, wide.X, 1e-9)
	assert.InDelta(t, 9.0, wide.Y, 1e-9)

	square := CoverageScale(ViewportState{Width: 16, Height: 9}, 1000, 1000)
	assert.InDelta(t, 16.0, square.X, 1e-9)
	assert.InDelta(t, 16.0, square.Y, 1e-9)

	assert.Equal(t, wallpaper.Vec2{X: 16, Y: 9}, CoverageScale(ViewportState{Width: 16, Height: 9}, 0, 0))
}

func TestViewportFromScreen(t *testing.T) {
	v := ViewportFromScreen(1920, 1080, 90, 5)
	assert.InDelta(t, 10.0, v.Height, 1e-9)
	assert.InDelta(t, 10.0*1920/1080, v.Width, 1e-9)

	assert.Equal(t, ViewportState{}, ViewportFromScreen(100, 0, 75, 5))
}

func TestNormalizePointer(t *testing.T) {
	assert.Equal(t, PointerSample{X: -1, Y: 1}, NormalizePointer(0, 0, 800, 600))
	assert.Equal(t, PointerSample{X: 0, Y: 0}, NormalizePointer(400, 300, 800, 600))
	assert.Equal(t, PointerSample{X: 1, Y: -1}, NormalizePointer(800, 600, 800, 600))
	assert.Equal(t, PointerSample{}, NormalizePointer(10, 10, 0, 0))
}

func TestPlacementCorners(t *testing.T) {
	p := Placement{Position: wallpaper.Vec3{X: 1, Y: 2, Z: 3}, Size: wallpaper.Vec2{X: 4, Y: 2}}
	c := p.Corners()
	assert.Equal(t, wallpaper.Vec3{X: -1, Y: 3, Z: 3}, c[0])
	assert.Equal(t, wallpaper.Vec3{X: 3, Y: 3, Z: 3}, c[1])
	assert.Equal(t, wallpaper.Vec3{X: 3, Y: 1, Z: 3}, c[2])
	assert.Equal(t, wallpaper.Vec3{X: -1, Y: 1, Z: 3}, c[3])

	p.RotationY = math.Pi / 2
	c = p.Corners()
	assert.InDelta(t, 1.0, c[1].X, 1e-12, "edge turned edge-on to the camera")
	assert.InDelta(t, 1.0, c[1].Z, 1e-12)
	assert.InDelta(t, 5.0, c[0].Z, 1e-12)
}
