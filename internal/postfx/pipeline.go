package postfx

import "diorama/internal/wallpaper"

type Pass int

const (
	PassDepthOfField Pass = iota
	PassVignette
)

func (p Pass) String() string {
	switch p {
	case PassDepthOfField:
		return "depthoffield"
	case PassVignette:
		return "vignette"
	}
	return "unknown"
}

// Settings is the fixed configuration of the post pass. A nil effect is off.
type Settings struct {
	DepthOfField *DepthOfField
	Vignette     *Vignette
}

func FromConfig(e wallpaper.Effects) Settings {
	var s Settings
	if !e.Enabled {
		return s
	}
	if d := e.DepthOfField; d.Enabled {
		s.DepthOfField = &DepthOfField{
			Target:      d.Target,
			FocalLength: d.FocalLength,
			BokehScale:  d.BokehScale,
			Height:      d.Height,
			DepthRange:  d.DepthRange,
		}
	}
	if v := e.Vignette; v.Enabled {
		s.Vignette = &Vignette{Offset: v.Offset, Darkness: v.Darkness}
	}
	return s
}

// Passes lists the enabled passes in the order they run.
func (s Settings) Passes() []Pass {
	var out []Pass
	if s.DepthOfField != nil {
		out = append(out, PassDepthOfField)
	}
	if s.Vignette != nil {
		out = append(out, PassVignette)
	}
	return out
}

func (s Settings) Empty() bool {
	return len(s.Passes()) == 0
}

// NeedsDepth reports whether the layers must also be drawn into a depth target.
func (s Settings) NeedsDepth() bool {
	return s.DepthOfField != nil
}
