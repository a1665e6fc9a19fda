package engine2D

import (
	"diorama/internal/engine2D/shader"
	"diorama/internal/material"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// LayerMaterial is the compiled layer shader shared by every plane of the
// shader strategy. Uniforms are uploaded right before each plane is drawn.
type LayerMaterial struct {
	pass *shader.Pass
}

func NewLayerMaterial() *LayerMaterial {
	vs, fs := material.Sources()
	return &LayerMaterial{
		pass: shader.NewPass("layer", vs, fs,
			material.UniformMovement,
			material.UniformScale,
			material.UniformFactor,
			material.UniformWiggle,
			material.UniformTime,
		),
	}
}

func (m *LayerMaterial) Valid() bool {
	return m != nil && m.pass.Valid()
}

func (m *LayerMaterial) Shader() rl.Shader {
	return m.pass.Shader
}

func (m *LayerMaterial) Apply(u material.Uniforms) {
	m.pass.SetVec3(material.UniformMovement, u.Movement)
	m.pass.SetFloat(material.UniformScale, u.Scale)
	m.pass.SetFloat(material.UniformFactor, u.Factor)
	m.pass.SetFloat(material.UniformWiggle, u.Wiggle)
	m.pass.SetFloat(material.UniformTime, u.Time)
}

func (m *LayerMaterial) Unload() {
	if m != nil {
		m.pass.Unload()
	}
}
