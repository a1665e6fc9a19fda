package parallax

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidDamping = errors.New("damping factor must be inside (0, 1)")

// DampingLaw yields the per-frame convergence factor for a frame of dt
// seconds. The factor is always in [0, 1).
type DampingLaw interface {
	Factor(dt float64) float64
}

// FixedDamping applies the same factor every frame regardless of elapsed
// time, so perceived speed follows the display refresh rate.
type FixedDamping struct {
	Alpha float64
}

func (d FixedDamping) Factor(float64) float64 {
	return d.Alpha
}

// RefreshIndependentDamping rescales Alpha, tuned for frames of Reference
// seconds, to the actual frame length: 1 - (1-Alpha)^(dt/Reference).
type RefreshIndependentDamping struct {
	Alpha     float64
	Reference float64
}

func (d RefreshIndependentDamping) Factor(dt float64) float64 {
	if dt <= 0 || !finite(dt) {
		return 0
	}
	f := 1 - math.Pow(1-d.Alpha, dt/d.Reference)
	// Very long frames would otherwise round to exactly 1.
	return math.Min(f, math.Nextafter(1, 0))
}

// NewDamping validates alpha and picks the law. referenceFPS is only used by
// the refresh independent law.
func NewDamping(alpha float64, refreshIndependent bool, referenceFPS float64) (DampingLaw, error) {
	if !(alpha > 0 && alpha < 1) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidDamping, alpha)
	}
	if !refreshIndependent {
		return FixedDamping{Alpha: alpha}, nil
	}
	if referenceFPS <= 0 || !finite(referenceFPS) {
		return nil, fmt.Errorf("reference fps must be positive, got %v", referenceFPS)
	}
	return RefreshIndependentDamping{Alpha: alpha, Reference: 1 / referenceFPS}, nil
}

// Integrator moves live transforms toward their targets by exponential
// smoothing, each axis independently.
type Integrator struct {
	Law DampingLaw
}

func (i Integrator) Advance(live, target Transform, dt float64) Transform {
	a := i.Law.Factor(dt)
	return Transform{
		X:         live.X + (target.X-live.X)*a,
		RotationY: live.RotationY + (target.RotationY-live.RotationY)*a,
		Z:         live.Z + (target.Z-live.Z)*a,
	}
}
