package parallax

import (
	"fmt"
	"math"

	"diorama/internal/material"
	"diorama/internal/wallpaper"
)

// Placement is everything a backend needs to draw one layer.
type Placement struct {
	Position  wallpaper.Vec3
	RotationY float64
	Size      wallpaper.Vec2
	// Material is nil for a plain textured plane.
	Material *material.Uniforms
}

// LayerRenderStrategy turns a layer and the current frame into a placement.
// Both strategies read the same layer configuration.
type LayerRenderStrategy interface {
	Name() string
	Place(l Layer, f Frame) Placement
}

// TransformStrategy moves the whole plane with the engine's live transform.
type TransformStrategy struct{}

func (TransformStrategy) Name() string { return wallpaper.StrategyTransform }

func (TransformStrategy) Place(l Layer, _ Frame) Placement {
	return Placement{
		Position:  wallpaper.Vec3{X: l.Live.X, Y: l.Anchor.Y, Z: l.Live.Z},
		RotationY: l.Live.RotationY,
		Size:      l.Size(),
	}
}

// ShaderStrategy keeps the plane at its anchor and lets the layer material
// shift the texture lookup and bend the vertices.
type ShaderStrategy struct{}

func (ShaderStrategy) Name() string { return wallpaper.StrategyShader }

func (ShaderStrategy) Place(l Layer, f Frame) Placement {
	return Placement{
		Position: l.Anchor,
		Size:     l.Size(),
		Material: &material.Uniforms{
			Movement: wallpaper.Vec3{X: f.Pointer.X, Y: f.Pointer.Y},
			Scale:    l.UVScale,
			Factor:   l.Factor,
			Wiggle:   l.Wiggle,
			Time:     f.Elapsed,
		},
	}
}

func StrategyByName(name string) (LayerRenderStrategy, error) {
	switch name {
	case wallpaper.StrategyTransform, "":
		return TransformStrategy{}, nil
	case wallpaper.StrategyShader:
		return ShaderStrategy{}, nil
	}
	return nil, fmt.Errorf("unknown render strategy %q", name)
}

// Corners returns the plane outline in world space, clockwise from the top
// left as seen by the camera.
func (p Placement) Corners() [4]wallpaper.Vec3 {
	hw, hh := p.Size.X/2, p.Size.Y/2
	c, s := math.Cos(p.RotationY), math.Sin(p.RotationY)
	at := func(dx, dy float64) wallpaper.Vec3 {
		return wallpaper.Vec3{
			X: p.Position.X + dx*c,
			Y: p.Position.Y + dy,
			Z: p.Position.Z - dx*s,
		}
	}
	return [4]wallpaper.Vec3{at(-hw, hh), at(hw, hh), at(hw, -hh), at(-hw, -hh)}
}
