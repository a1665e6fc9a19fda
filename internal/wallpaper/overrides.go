package wallpaper

import "strings"

// Overrides are command line values that win over the scene file. Zero
// values leave the scene untouched.
type Overrides struct {
	Width              int
	Height             int
	Strategy           string
	Damping            float64
	RefreshIndependent bool
	NoEffects          bool
}

// Apply copies the set overrides into s and re-validates it.
func (s *Scene) Apply(o Overrides) error {
	if o.Width > 0 {
		s.General.Width = o.Width
	}
	if o.Height > 0 {
		s.General.Height = o.Height
	}
	if o.Strategy != "" {
		s.General.Strategy = strings.ToLower(strings.TrimSpace(o.Strategy))
	}
	if o.Damping != 0 {
		s.General.Damping = o.Damping
	}
	if o.RefreshIndependent {
		s.General.RefreshIndependent = true
	}
	if o.NoEffects {
		s.Effects.Enabled = false
	}
	return s.Validate()
}
