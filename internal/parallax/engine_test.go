package parallax

import (
	"errors"
	"math"
	"testing"

	"diorama/internal/wallpaper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTexture struct {
	w, h float64
}

func (t fakeTexture) NativeSize() (float64, float64) { return t.w, t.h }

const frame60 = 1.0 / 60

func sixLayers() []Layer {
	layers := make([]Layer, 6)
	for i := range layers {
		cfg := wallpaper.LayerConfig{
			Index:          i,
			Anchor:         wallpaper.Vec3{X: 0, Y: 0, Z: float64(i) * 0.1},
			ScaleFactor:    1,
			UVScale:        1,
			Speed:          0.1 + 0.05*float64(i),
			RotationFactor: 0.02,
			ZFactor:        0.02,
			Visible:        true,
		}
		layers[i] = NewLayer(cfg, fakeTexture{2200, 1000}, 1)
	}
	return layers
}

func newEngine(t *testing.T, layers []Layer, law DampingLaw) (*Engine, *HostSampler) {
	t.Helper()
	sampler := NewHostSampler(ViewportFromScreen(1280, 720, 75, 5))
	e, err := New(sampler, layers, Options{Damping: law})
	require.NoError(t, err)
	return e, sampler
}

func TestTargetClampsOffsetBeforeAnchor(t *testing.T) {
	v := ViewportState{Width: 100, Height: 50}

	fast := Layer{Speed: 100, Anchor: wallpaper.Vec3{X: 3}}
	got := Target(PointerSample{X: 1}, v, fast)
	assert.Equal(t, 53.0, got.X)
	assert.Equal(t, 50.0, got.X-fast.Anchor.X)

	got = Target(PointerSample{X: -1}, v, fast)
	assert.Equal(t, -50.0, got.X-fast.Anchor.X)

	// Within half the width the offset is pointer times speed, unclamped.
	slow := Layer{Speed: 10, Anchor: wallpaper.Vec3{X: 3}}
	got = Target(PointerSample{X: 1}, v, slow)
	assert.Equal(t, 10.0, got.X-slow.Anchor.X)

	got = Target(PointerSample{X: -1}, v, slow)
	assert.Equal(t, -10.0, got.X-slow.Anchor.X)

	got = Target(PointerSample{X: 0.5}, ViewportState{Width: 1000, Height: 50}, slow)
	assert.Equal(t, 5.0, got.X-slow.Anchor.X)
}

func TestTargetIgnoresVerticalPointer(t *testing.T) {
	l := sixLayers()[2]
	v := ViewportState{Width: 10, Height: 5}
	assert.Equal(t, Target(PointerSample{X: 0.4, Y: -1}, v, l), Target(PointerSample{X: 0.4, Y: 1}, v, l))
}

func TestTargetRotationAndDepth(t *testing.T) {
	l := Layer{Index: 2, RotationFactor: 0.5, ZFactor: 0.1, Anchor: wallpaper.Vec3{Z: 1}}
	got := Target(PointerSample{X: -0.5}, ViewportState{Width: 10, Height: 5}, l)

	assert.InDelta(t, 0.25, got.RotationY, 1e-12)
	assert.InDelta(t, 1-0.5*0.1*3, got.Z, 1e-12)
}

func TestDeeperLayersSeparateMore(t *testing.T) {
	layers := sixLayers()
	v := ViewportState{Width: 10, Height: 5}

	for _, x := range []float64{-1, -0.3, 0.01, 0.8} {
		prev := -1.0
		for _, l := range layers {
			sep := math.Abs(Target(PointerSample{X: x}, v, l).Z - l.Anchor.Z)
			assert.Greater(t, sep, prev, "pointer %v layer %d", x, l.Index)
			prev = sep
		}
	}
}

func TestMonotonicConvergence(t *testing.T) {
	laws := map[string]struct {
		law DampingLaw
		dt  func(step int) float64
	}{
		"fixed": {FixedDamping{Alpha: 0.05}, func(int) float64 { return frame60 }},
		"refresh independent, jittery frames": {
			RefreshIndependentDamping{Alpha: 0.05, Reference: frame60},
			func(step int) float64 { return []float64{1.0 / 144, 1.0 / 30, frame60, 0.2}[step%4] },
		},
	}

	for name, tc := range laws {
		t.Run(name, func(t *testing.T) {
			integ := Integrator{Law: tc.law}
			live := Transform{X: -2, RotationY: 0.3, Z: 0.4}
			target := Transform{X: 1.5, RotationY: -0.1, Z: 0.1}

			axes := func(tr Transform) []float64 { return []float64{tr.X, tr.RotationY, tr.Z} }
			want := axes(target)

			for step := 0; step < 5000; step++ {
				before := axes(live)
				live = integ.Advance(live, target, tc.dt(step))
				after := axes(live)

				done := true
				for a := range want {
					db, da := want[a]-before[a], want[a]-after[a]
					if math.Abs(db) < 1e-9 {
						continue
					}
					done = false
					require.Less(t, math.Abs(da), math.Abs(db), "step %d axis %d", step, a)
					require.False(t, db*da < 0, "overshoot at step %d axis %d", step, a)
				}
				if done {
					return
				}
			}
			t.Fatal("did not converge")
		})
	}
}

func TestPointerJumpScenario(t *testing.T) {
	layers := sixLayers()
	e, sampler := newEngine(t, layers, FixedDamping{Alpha: 0.05})

	sampler.PointerMoved(0.8, 0)
	for i := 0; i < 50; i++ {
		e.OnFrame(frame60)
	}

	progress := 1 - math.Pow(0.95, 50)
	got := e.Layers()
	targets := e.Targets()

	assert.InDelta(t, 0.08, targets[0].X-got[0].Anchor.X, 1e-12)
	assert.InDelta(t, 0.08*progress, got[0].Live.X-got[0].Anchor.X, 1e-12)
	assert.InDelta(t, 0.923, progress, 0.001)

	for i, l := range got {
		offset := 0.8 * (0.1 + 0.05*float64(i))
		assert.InDelta(t, offset*progress, l.Live.X-l.Anchor.X, 1e-12, "layer %d", i)
	}
}

func TestIdempotenceAtRest(t *testing.T) {
	e, sampler := newEngine(t, sixLayers(), FixedDamping{Alpha: 0.05})

	sampler.PointerMoved(0.8, 0.2)
	for i := 0; i < 40; i++ {
		e.OnFrame(frame60)
	}
	sampler.PointerMoved(0, 0)
	for i := 0; i < 2000; i++ {
		e.OnFrame(frame60)
	}

	for round := 0; round < 3; round++ {
		for i := 0; i < 1000; i++ {
			e.OnFrame(frame60)
		}
		for _, l := range e.Layers() {
			rest := Rest(l.Anchor)
			assert.InDelta(t, rest.X, l.Live.X, 1e-9)
			assert.InDelta(t, rest.RotationY, l.Live.RotationY, 1e-9)
			assert.InDelta(t, rest.Z, l.Live.Z, 1e-9)
		}
	}
}

func TestStationaryPointerKeepsSettling(t *testing.T) {
	e, sampler := newEngine(t, sixLayers(), nil)
	sampler.PointerMoved(1, 0)

	e.OnFrame(frame60)
	first := e.Layers()[5].Live.X
	e.OnFrame(frame60)
	second := e.Layers()[5].Live.X

	assert.Greater(t, second, first)
}

func TestResizeLeavesLiveTransforms(t *testing.T) {
	e, sampler := newEngine(t, sixLayers(), nil)
	sampler.PointerMoved(0.5, 0)
	for i := 0; i < 10; i++ {
		e.OnFrame(frame60)
	}
	before := e.Layers()

	require.NoError(t, e.OnResize(ViewportState{Width: 4, Height: 4}))
	after := e.Layers()

	for i := range before {
		assert.Equal(t, before[i].Live, after[i].Live, "layer %d", i)
		assert.NotEqual(t, before[i].Coverage, after[i].Coverage, "layer %d", i)
	}
	assert.InDelta(t, 8.8, after[0].Coverage.X, 1e-9)
	assert.InDelta(t, 4.0, after[0].Coverage.Y, 1e-9)
}

func TestHostResizeIsPickedUpOnNextFrame(t *testing.T) {
	e, sampler := newEngine(t, sixLayers(), nil)
	sampler.Resized(20, 5)

	assert.NotEqual(t, ViewportState{Width: 20, Height: 5}, e.Viewport())
	e.OnFrame(frame60)
	assert.Equal(t, ViewportState{Width: 20, Height: 5}, e.Viewport())
	cov := e.Layers()[0].Coverage
	assert.InDelta(t, 20.0, cov.X, 1e-9)
	assert.InDelta(t, 20.0/2.2, cov.Y, 1e-9)
}

func TestInvalidSamplesAreSubstituted(t *testing.T) {
	e, sampler := newEngine(t, sixLayers(), nil)
	mount := e.Viewport()

	sampler.PointerMoved(0.5, 0)
	e.OnFrame(frame60)
	require.NoError(t, e.Err())

	sampler.PointerMoved(math.NaN(), 0)
	sampler.Resized(0, 0)
	e.OnFrame(frame60)

	var sampleErr *InvalidSampleError
	require.True(t, errors.As(e.Err(), &sampleErr))
	assert.Equal(t, PointerSample{X: 0.5}, e.Frame().Pointer)
	assert.Equal(t, mount, e.Viewport())
	for _, l := range e.Layers() {
		assert.False(t, math.IsNaN(l.Live.X))
		assert.False(t, math.IsNaN(l.Coverage.X))
	}

	err := e.OnResize(ViewportState{Width: math.Inf(1), Height: 3})
	assert.True(t, errors.As(err, &sampleErr))
	assert.Equal(t, "viewport", sampleErr.What)
}

func TestPointerIsClamped(t *testing.T) {
	e, sampler := newEngine(t, sixLayers(), nil)
	sampler.PointerMoved(4, -3)
	e.OnFrame(frame60)
	assert.Equal(t, PointerSample{X: 1, Y: -1}, e.Frame().Pointer)
}

func TestFramesBeforeFirstResizeUseMountSize(t *testing.T) {
	mount := ViewportState{Width: 16, Height: 9}
	sampler := NewHostSampler(mount)
	e, err := New(sampler, sixLayers(), Options{})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		e.OnFrame(frame60)
	}
	assert.Equal(t, mount, e.Frame().Viewport)
	assert.Equal(t, uint64(3), e.Frame().Count)
	assert.InDelta(t, 3*frame60, e.Frame().Elapsed, 1e-12)
	assert.Equal(t, PointerSample{}, e.Frame().Pointer)
}

func TestNewOrdersAndValidatesLayers(t *testing.T) {
	layers := sixLayers()
	layers[0], layers[4] = layers[4], layers[0]

	e, _ := newEngine(t, layers, nil)
	for i, l := range e.Layers() {
		assert.Equal(t, i, l.Index)
	}

	dup := sixLayers()
	dup[3].Index = 1
	_, err := New(NewHostSampler(ViewportState{Width: 1, Height: 1}), dup, Options{})
	assert.Error(t, err)

	gap := sixLayers()[:2]
	gap[1].Index = 2
	_, err = New(NewHostSampler(ViewportState{Width: 1, Height: 1}), gap, Options{})
	assert.Error(t, err)

	_, err = New(NewHostSampler(ViewportState{}), sixLayers(), Options{})
	assert.Error(t, err)
}

func TestLayersSnapshotIsACopy(t *testing.T) {
	e, _ := newEngine(t, sixLayers(), nil)
	snap := e.Layers()
	snap[0].Live.X = 42

	assert.NotEqual(t, 42.0, e.Layers()[0].Live.X)
}

func TestMissingTextureUsesFallbackSize(t *testing.T) {
	cfg := wallpaper.LayerConfig{Index: 0, Size: wallpaper.Vec2{X: 1600, Y: 1000}, ScaleFactor: 0.7, Visible: true}
	l := NewLayer(cfg, nil, 1.05)

	e, err := New(NewHostSampler(ViewportState{Width: 16, Height: 10}), []Layer{l}, Options{})
	require.NoError(t, err)

	got := e.Layers()[0]
	assert.False(t, got.Drawable())
	assert.InDelta(t, 16.0, got.Coverage.X, 1e-9)
	assert.InDelta(t, 10.0, got.Coverage.Y, 1e-9)
	assert.InDelta(t, 16*0.7*1.05, got.Size().X, 1e-12)
}

func TestReleaseStopsUpdates(t *testing.T) {
	e, sampler := newEngine(t, sixLayers(), nil)
	e.Release()

	sampler.PointerMoved(1, 0)
	e.OnFrame(frame60)

	assert.True(t, e.Released())
	assert.Equal(t, uint64(0), e.Frame().Count)
	for _, l := range e.Layers() {
		assert.Nil(t, l.Texture)
		assert.Equal(t, Rest(l.Anchor), l.Live)
	}
}
