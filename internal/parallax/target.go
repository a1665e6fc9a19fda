package parallax

import "math"

// Target maps one pointer sample to where a layer wants to be. The horizontal
// offset is clamped to half the viewport width before the anchor is added, so
// no speed can drag a layer out of frame. Vertical pointer motion is ignored.
func Target(p PointerSample, v ViewportState, l Layer) Transform {
	half := v.Width / 2
	return Transform{
		X:         clamp(p.X*l.Speed, -half, half) + l.Anchor.X,
		RotationY: -p.X * l.RotationFactor,
		Z:         l.Anchor.Z - math.Abs(p.X*l.ZFactor*float64(l.Index+1)),
	}
}
