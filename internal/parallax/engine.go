package parallax

import (
	"fmt"
	"sort"

	"diorama/internal/wallpaper"
)

// InvalidSampleError reports a host sample the engine refused to use. The
// engine keeps going with the last good value.
type InvalidSampleError struct {
	What  string
	Value any
}

func (e *InvalidSampleError) Error() string {
	return fmt.Sprintf("invalid %s sample %v", e.What, e.Value)
}

// Frame describes the inputs of the most recent OnFrame call.
type Frame struct {
	Pointer  PointerSample
	Viewport ViewportState
	Elapsed  float64
	Delta    float64
	Count    uint64
}

type Options struct {
	// Damping defaults to FixedDamping{Alpha: wallpaper.DefaultDamping}.
	Damping DampingLaw
	// Viewport is the mount size, used until the host reports a resize.
	Viewport ViewportState
}

// Engine owns the ordered layer list. OnFrame and OnResize are its only
// mutators; everything it hands out is a copy.
type Engine struct {
	sampler    ViewportSampler
	integrator Integrator

	layers  []Layer
	targets []Transform

	pointer  PointerSample
	viewport ViewportState
	frame    Frame
	err      error
	released bool
}

// New takes its own copy of layers sorted by index. Indices must run 0..n-1.
func New(sampler ViewportSampler, layers []Layer, opts Options) (*Engine, error) {
	if sampler == nil {
		return nil, fmt.Errorf("parallax: nil sampler")
	}

	owned := make([]Layer, len(layers))
	copy(owned, layers)
	sort.SliceStable(owned, func(i, j int) bool { return owned[i].Index < owned[j].Index })
	for i, l := range owned {
		if l.Index != i {
			return nil, fmt.Errorf("parallax: layer indices must be unique and contiguous from 0, found %d at position %d", l.Index, i)
		}
	}

	damping := opts.Damping
	if damping == nil {
		damping = FixedDamping{Alpha: wallpaper.DefaultDamping}
	}

	viewport := opts.Viewport
	if err := checkViewport(viewport); err != nil {
		viewport = sampler.Dimensions()
		if err := checkViewport(viewport); err != nil {
			return nil, fmt.Errorf("parallax: no usable mount size: %w", err)
		}
	}

	e := &Engine{
		sampler:    sampler,
		integrator: Integrator{Law: damping},
		layers:     owned,
		targets:    make([]Transform, len(owned)),
	}
	for i := range e.layers {
		e.targets[i] = e.layers[i].Live
	}
	e.applyViewport(viewport)
	e.frame.Viewport = viewport
	return e, nil
}

// OnFrame runs one update: snapshot the sampler, substitute last good values
// for bad samples, pick up a viewport change, then move every layer one
// damping step toward its target. It runs whether or not the pointer moved.
func (e *Engine) OnFrame(dt float64) {
	if e.released {
		return
	}
	e.err = nil

	p := e.sampler.Sample()
	if err := checkPointer(p); err != nil {
		e.err = err
		p = e.pointer
	}
	p.X = clamp(p.X, -1, 1)
	p.Y = clamp(p.Y, -1, 1)
	e.pointer = p

	if v := e.sampler.Dimensions(); v != e.viewport {
		if err := e.OnResize(v); err != nil {
			e.err = err
		}
	}

	if !finite(dt) || dt < 0 {
		dt = 0
	}

	for i := range e.layers {
		l := &e.layers[i]
		target := Target(p, e.viewport, *l)
		e.targets[i] = target
		l.Live = e.integrator.Advance(l.Live, target, dt)
	}

	e.frame = Frame{
		Pointer:  p,
		Viewport: e.viewport,
		Elapsed:  e.frame.Elapsed + dt,
		Delta:    dt,
		Count:    e.frame.Count + 1,
	}
}

// OnResize recomputes every layer's coverage for v. Live transforms are left
// alone until the next frame.
func (e *Engine) OnResize(v ViewportState) error {
	if e.released {
		return nil
	}
	if err := checkViewport(v); err != nil {
		return err
	}
	e.applyViewport(v)
	return nil
}

func (e *Engine) applyViewport(v ViewportState) {
	e.viewport = v
	for i := range e.layers {
		l := &e.layers[i]
		w, h := l.NativeSize()
		l.Coverage = CoverageScale(v, w, h)
	}
}

// Layers returns a snapshot of the layers, back to front.
func (e *Engine) Layers() []Layer {
	out := make([]Layer, len(e.layers))
	copy(out, e.layers)
	return out
}

// Targets returns the targets computed by the last frame, in layer order.
func (e *Engine) Targets() []Transform {
	out := make([]Transform, len(e.targets))
	copy(out, e.targets)
	return out
}

func (e *Engine) Frame() Frame {
	return e.frame
}

func (e *Engine) Viewport() ViewportState {
	return e.viewport
}

// Err returns the sample error of the last frame, if any.
func (e *Engine) Err() error {
	return e.err
}

// Release drops the texture references and stops further updates.
func (e *Engine) Release() {
	for i := range e.layers {
		e.layers[i].Texture = nil
	}
	e.released = true
}

func (e *Engine) Released() bool {
	return e.released
}

func checkPointer(p PointerSample) error {
	if !finite(p.X, p.Y) {
		return &InvalidSampleError{What: "pointer", Value: p}
	}
	return nil
}

func checkViewport(v ViewportState) error {
	if !finite(v.Width, v.Height) || v.Width <= 0 || v.Height <= 0 {
		return &InvalidSampleError{What: "viewport", Value: v}
	}
	return nil
}
