package shader

import (
	"diorama/internal/utils"
	"diorama/internal/wallpaper"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Pass is a compiled program with its uniform locations resolved once.
// Setters on unknown or optimized-out uniforms are no-ops.
type Pass struct {
	Name   string
	Shader rl.Shader

	locations map[string]int32
}

// NewPass compiles name from memory and resolves the given uniforms.
func NewPass(name, vs, fs string, uniforms ...string) *Pass {
	p := &Pass{
		Name:      name,
		Shader:    Load(name, vs, fs),
		locations: make(map[string]int32, len(uniforms)),
	}
	if !p.Valid() {
		return p
	}
	for _, u := range uniforms {
		loc := rl.GetShaderLocation(p.Shader, u)
		if loc == -1 {
			utils.Debug("Shader: %s - Uniform %s not found", name, u)
		}
		p.locations[u] = loc
	}
	return p
}

func (p *Pass) Valid() bool {
	return p != nil && p.Shader.ID != 0
}

func (p *Pass) loc(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	return -1
}

func (p *Pass) SetFloat(name string, v float64) {
	if loc := p.loc(name); loc != -1 {
		rl.SetShaderValue(p.Shader, loc, []float32{float32(v)}, rl.ShaderUniformFloat)
	}
}

func (p *Pass) SetVec2(name string, x, y float64) {
	if loc := p.loc(name); loc != -1 {
		rl.SetShaderValue(p.Shader, loc, []float32{float32(x), float32(y)}, rl.ShaderUniformVec2)
	}
}

func (p *Pass) SetVec3(name string, v wallpaper.Vec3) {
	if loc := p.loc(name); loc != -1 {
		rl.SetShaderValue(p.Shader, loc, []float32{float32(v.X), float32(v.Y), float32(v.Z)}, rl.ShaderUniformVec3)
	}
}

// SetTexture binds tex to a sampler. Call it between BeginShaderMode and the
// draw so raylib activates the unit.
func (p *Pass) SetTexture(name string, tex rl.Texture2D) {
	if loc := p.loc(name); loc != -1 {
		rl.SetShaderValueTexture(p.Shader, loc, tex)
	}
}

func (p *Pass) Unload() {
	if p.Valid() {
		rl.UnloadShader(p.Shader)
		p.Shader = rl.Shader{}
	}
}
