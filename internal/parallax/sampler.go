package parallax

// ViewportSampler exposes the most recent pointer and viewport the host
// delivered. Reads never block.
type ViewportSampler interface {
	Sample() PointerSample
	Dimensions() ViewportState
}

// HostSampler is written by host listeners and read by the engine at the top
// of each frame. Last value wins; it keeps no history.
type HostSampler struct {
	pointer  PointerSample
	viewport ViewportState
}

// NewHostSampler starts centered with the mount size as its viewport.
func NewHostSampler(mount ViewportState) *HostSampler {
	return &HostSampler{viewport: mount}
}

// PointerMoved stores a normalized pointer position.
func (s *HostSampler) PointerMoved(x, y float64) {
	s.pointer = PointerSample{X: x, Y: y}
}

// Resized stores the visible z=0 plane size.
func (s *HostSampler) Resized(width, height float64) {
	s.viewport = ViewportState{Width: width, Height: height}
}

func (s *HostSampler) Sample() PointerSample {
	return s.pointer
}

func (s *HostSampler) Dimensions() ViewportState {
	return s.viewport
}
