package scene

import (
	"errors"
	"fmt"

	"diorama/internal/utils"
)

// FrameFunc is called once per display refresh with the frame time in seconds.
type FrameFunc func(dt float64)

// Listener polls one host input source and writes what it finds into the
// sampler. Listeners never read engine state.
type Listener func()

type disposer struct {
	name string
	fn   func() error
}

// Scene ties a frame callback, its input listeners and the resources they use
// to one mount/unmount lifetime. Everything runs on the caller's goroutine.
type Scene struct {
	Name string

	frame     FrameFunc
	listeners []Listener
	disposers []disposer

	mounted   bool
	unmounted bool
}

func New(name string) *Scene {
	return &Scene{Name: name}
}

var (
	ErrAlreadyMounted = errors.New("scene already mounted")
	ErrUnmounted      = errors.New("scene was unmounted")
)

// Mount registers the frame callback. A scene mounts at most once.
func (s *Scene) Mount(frame FrameFunc) error {
	if s.unmounted {
		return ErrUnmounted
	}
	if s.mounted {
		return ErrAlreadyMounted
	}
	if frame == nil {
		return fmt.Errorf("scene %s: nil frame callback", s.Name)
	}
	s.frame = frame
	s.mounted = true
	utils.Debug("Scene %s mounted", s.Name)
	return nil
}

func (s *Scene) AddListener(l Listener) {
	if s.unmounted || l == nil {
		return
	}
	s.listeners = append(s.listeners, l)
}

// AddDisposer registers a release function. Disposers run in reverse order of
// registration, once, after the loop and listeners are gone. Adding one to an
// unmounted scene runs it immediately.
func (s *Scene) AddDisposer(name string, fn func() error) {
	if fn == nil {
		return
	}
	if s.unmounted {
		if err := fn(); err != nil {
			utils.Warn("Dispose %s: %v", name, err)
		}
		return
	}
	s.disposers = append(s.disposers, disposer{name: name, fn: fn})
}

// Running reports whether Tick would run the frame callback.
func (s *Scene) Running() bool {
	return s.mounted && !s.unmounted
}

// Tick polls every listener, then runs the frame. A listener that unmounts the
// scene stops the tick before the frame runs.
func (s *Scene) Tick(dt float64) {
	if !s.Running() {
		return
	}
	for _, l := range s.listeners {
		l()
		if !s.Running() {
			return
		}
	}
	s.frame(dt)
}

// Unmount drops the frame callback and the listeners in one step, then runs
// the disposers. Further calls do nothing.
func (s *Scene) Unmount() error {
	if s.unmounted {
		return nil
	}
	s.unmounted = true
	s.frame = nil
	s.listeners = nil

	pending := s.disposers
	s.disposers = nil

	var errs []error
	for i := len(pending) - 1; i >= 0; i-- {
		d := pending[i]
		utils.Debug("Disposing %s", d.name)
		if err := d.fn(); err != nil {
			utils.Warn("Dispose %s: %v", d.name, err)
			errs = append(errs, fmt.Errorf("%s: %w", d.name, err))
		}
	}
	utils.Debug("Scene %s unmounted", s.Name)
	return errors.Join(errs...)
}
