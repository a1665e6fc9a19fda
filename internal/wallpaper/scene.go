package wallpaper

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
)

const (
	StrategyTransform = "transform"
	StrategyShader    = "shader"
)

// Reference tuning of the original diorama.
const (
	DefaultDamping        = 0.05
	DefaultReferenceFPS   = 60.0
	DefaultFOV            = 75.0
	DefaultCameraDistance = 5.0
	DefaultOverscan       = 1.05
)

//go:embed default_scene.json
var defaultSceneJSON []byte

type Scene struct {
	General General       `json:"general"`
	Effects Effects       `json:"effects"`
	Layers  []LayerConfig `json:"layers"`
}

type General struct {
	ClearColor         string  `json:"clearcolor"`
	Width              int     `json:"width"`
	Height             int     `json:"height"`
	FOV                float64 `json:"fov"`
	CameraDistance     float64 `json:"cameradistance"`
	Overscan           float64 `json:"overscan"`
	Damping            float64 `json:"damping"`
	RefreshIndependent bool    `json:"refreshindependent"`
	ReferenceFPS       float64 `json:"referencefps"`
	Strategy           string  `json:"strategy"`
}

type Effects struct {
	Enabled      bool         `json:"enabled"`
	DepthOfField DepthOfField `json:"depthoffield"`
	Vignette     Vignette     `json:"vignette"`
}

type DepthOfField struct {
	Enabled     bool    `json:"enabled"`
	Target      Vec3    `json:"target"`
	FocalLength float64 `json:"focallength"`
	BokehScale  float64 `json:"bokehscale"`
	Height      int     `json:"height"`
	DepthRange  float64 `json:"depthrange"`
}

type Vignette struct {
	Enabled  bool    `json:"enabled"`
	Offset   float64 `json:"offset"`
	Darkness float64 `json:"darkness"`
}

// LayerConfig is the static description of one parallax plane.
type LayerConfig struct {
	Index          int     `json:"index"`
	Name           string  `json:"name"`
	Image          string  `json:"image"`
	Anchor         Vec3    `json:"anchor"`
	Size           Vec2    `json:"size"`
	ScaleFactor    float64 `json:"scalefactor"`
	Speed          float64 `json:"speed"`
	RotationFactor float64 `json:"rotationfactor"`
	ZFactor        float64 `json:"zfactor"`
	Factor         float64 `json:"factor"`
	UVScale        float64 `json:"uvscale"`
	Wiggle         float64 `json:"wiggle"`
	Visible        bool    `json:"visible"`
}

func (l *LayerConfig) UnmarshalJSON(data []byte) error {
	type Alias LayerConfig
	aux := (*Alias)(l)

	l.ScaleFactor = 1
	l.UVScale = 1
	l.Visible = true

	return json.Unmarshal(data, aux)
}

func DefaultEffects() Effects {
	return Effects{
		Enabled: true,
		DepthOfField: DepthOfField{
			Enabled:     true,
			Target:      Vec3{0, 0, 0.3},
			FocalLength: 0.05,
			BokehScale:  6,
			Height:      700,
			DepthRange:  10,
		},
		Vignette: Vignette{
			Enabled:  true,
			Offset:   0.5,
			Darkness: 0.5,
		},
	}
}

func defaultGeneral() General {
	return General{
		ClearColor:     "0 0 0",
		Width:          1280,
		Height:         720,
		FOV:            DefaultFOV,
		CameraDistance: DefaultCameraDistance,
		Overscan:       DefaultOverscan,
		Damping:        DefaultDamping,
		ReferenceFPS:   DefaultReferenceFPS,
		Strategy:       StrategyTransform,
	}
}

func (s *Scene) UnmarshalJSON(data []byte) error {
	type Alias Scene
	aux := (*Alias)(s)

	s.General = defaultGeneral()
	s.Effects = DefaultEffects()

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	s.General.Strategy = strings.ToLower(strings.TrimSpace(s.General.Strategy))
	return nil
}

// ParseScene decodes and validates a scene document.
func ParseScene(data []byte) (*Scene, error) {
	var scene Scene
	if err := json.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	return &scene, nil
}

// LoadScene reads a scene file. An empty path yields the built-in diorama.
func LoadScene(path string) (*Scene, error) {
	if path == "" {
		return DefaultScene()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}
	scene, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return scene, nil
}

func DefaultScene() (*Scene, error) {
	return ParseScene(defaultSceneJSON)
}

var ErrNoLayers = errors.New("scene has no layers")

// Validate checks the invariants the engine relies on: indices unique and
// contiguous from 0, damping inside (0, 1), a usable camera.
func (s *Scene) Validate() error {
	if len(s.Layers) == 0 {
		return ErrNoLayers
	}

	seen := make([]bool, len(s.Layers))
	for _, l := range s.Layers {
		if l.Index < 0 || l.Index >= len(s.Layers) {
			return fmt.Errorf("layer %q: index %d outside 0..%d", l.Name, l.Index, len(s.Layers)-1)
		}
		if seen[l.Index] {
			return fmt.Errorf("layer %q: duplicate index %d", l.Name, l.Index)
		}
		seen[l.Index] = true

		if l.ScaleFactor <= 0 || !finite(l.ScaleFactor) {
			return fmt.Errorf("layer %q: scalefactor must be positive", l.Name)
		}
		if l.UVScale == 0 || !finite(l.UVScale) {
			return fmt.Errorf("layer %q: uvscale must be non-zero", l.Name)
		}
		if l.Size.X < 0 || l.Size.Y < 0 {
			return fmt.Errorf("layer %q: negative size", l.Name)
		}
	}

	g := s.General
	if !(g.Damping > 0 && g.Damping < 1) {
		return fmt.Errorf("damping %v outside (0, 1)", g.Damping)
	}
	if g.RefreshIndependent && g.ReferenceFPS <= 0 {
		return fmt.Errorf("referencefps must be positive, got %v", g.ReferenceFPS)
	}
	if g.FOV <= 0 || g.FOV >= 180 {
		return fmt.Errorf("fov %v outside (0, 180)", g.FOV)
	}
	if g.CameraDistance <= 0 {
		return fmt.Errorf("cameradistance must be positive, got %v", g.CameraDistance)
	}
	if g.Overscan <= 0 {
		return fmt.Errorf("overscan must be positive, got %v", g.Overscan)
	}
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("window size %dx%d is not positive", g.Width, g.Height)
	}
	switch g.Strategy {
	case StrategyTransform, StrategyShader:
	default:
		return fmt.Errorf("unknown strategy %q", g.Strategy)
	}

	dof := s.Effects.DepthOfField
	if dof.Enabled && (dof.FocalLength <= 0 || dof.DepthRange <= 0 || dof.Height <= 0) {
		return errors.New("depthoffield: focallength, depthrange and height must be positive")
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
