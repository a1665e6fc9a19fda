package engine2D

import (
	"image/color"

	"diorama/internal/engine2D/shader"
	"diorama/internal/postfx"
	"diorama/internal/utils"
	"diorama/internal/wallpaper"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// EffectsPipeline runs the fullscreen post passes once per frame, after all
// layers. Any init failure leaves it disabled and frames pass through.
type EffectsPipeline struct {
	Settings postfx.Settings

	focusDepth float64
	enabled    bool

	depthPass    *shader.Pass
	dofPass      *shader.Pass
	vignettePass *shader.Pass

	width, height int
	scene         rl.RenderTexture2D
	depth         rl.RenderTexture2D
	pingPong      [2]rl.RenderTexture2D
}

// NewEffectsPipeline compiles the passes the settings enable. The focus depth
// is fixed here from the camera, which never moves.
func NewEffectsPipeline(settings postfx.Settings, camera, lookAt wallpaper.Vec3) *EffectsPipeline {
	p := &EffectsPipeline{Settings: settings}
	if settings.Empty() {
		utils.Info("Effects: No post passes enabled")
		return p
	}

	if dof := settings.DepthOfField; dof != nil {
		p.focusDepth = postfx.FocusDepth(camera, lookAt, dof.Target, dof.DepthRange)

		vs, fs := postfx.DepthSources()
		p.depthPass = shader.NewPass("depth", vs, fs, postfx.UniformDepthRange)
		p.dofPass = shader.NewPass("depthoffield", "", postfx.DepthOfFieldSource(),
			postfx.UniformDepthTexture,
			postfx.UniformFocusDepth,
			postfx.UniformFocalLength,
			postfx.UniformBokehScale,
			postfx.UniformTexelSize,
		)
		if !p.depthPass.Valid() || !p.dofPass.Valid() {
			return p.disable("depth of field shaders failed to compile")
		}
		utils.Debug("Effects: Focus depth %.3f (range %.2f)", p.focusDepth, dof.DepthRange)
	}

	if settings.Vignette != nil {
		p.vignettePass = shader.NewPass("vignette", "", postfx.VignetteSource(),
			postfx.UniformOffset,
			postfx.UniformDarkness,
		)
		if !p.vignettePass.Valid() {
			return p.disable("vignette shader failed to compile")
		}
	}

	p.enabled = true
	utils.Info("Effects: Enabled passes %v", settings.Passes())
	return p
}

func (p *EffectsPipeline) Enabled() bool {
	return p != nil && p.enabled
}

func (p *EffectsPipeline) disable(reason string) *EffectsPipeline {
	utils.Warn("Effects: Disabled, %s", reason)
	p.Unload()
	return p
}

func loadTarget(width, height int) (rl.RenderTexture2D, bool) {
	rt := rl.LoadRenderTexture(int32(width), int32(height))
	if !rl.IsRenderTextureValid(rt) {
		return rt, false
	}
	rl.SetTextureWrap(rt.Texture, rl.WrapClamp)
	rl.SetTextureFilter(rt.Texture, rl.FilterBilinear)
	return rt, true
}

func unloadTarget(rt *rl.RenderTexture2D) {
	if rt.ID != 0 {
		rl.UnloadRenderTexture(*rt)
		*rt = rl.RenderTexture2D{}
	}
}

func (p *EffectsPipeline) unloadTargets() {
	unloadTarget(&p.scene)
	unloadTarget(&p.depth)
	unloadTarget(&p.pingPong[0])
	unloadTarget(&p.pingPong[1])
	p.width, p.height = 0, 0
}

// ensureTargets (re)creates the offscreen buffers at the window size.
func (p *EffectsPipeline) ensureTargets(width, height int) bool {
	if width == p.width && height == p.height && p.scene.ID != 0 {
		return true
	}
	p.unloadTargets()

	ok := true
	var valid bool
	if p.scene, valid = loadTarget(width, height); !valid {
		ok = false
	}
	if p.Settings.NeedsDepth() {
		if p.depth, valid = loadTarget(width, height); !valid {
			ok = false
		}
	}
	for i := range p.pingPong {
		if p.pingPong[i], valid = loadTarget(width, height); !valid {
			ok = false
		}
	}
	if !ok {
		p.unloadTargets()
		return false
	}

	p.width, p.height = width, height
	utils.Debug("Effects: Render targets %dx%d", width, height)
	return true
}

// Run renders the layers offscreen with draw, then applies each pass in
// order. The last pass writes to the current framebuffer.
func (p *EffectsPipeline) Run(width, height int, bg color.RGBA, draw func(override *shader.Pass)) {
	if width <= 0 || height <= 0 {
		return
	}
	if !p.ensureTargets(width, height) {
		p.disable("render targets unavailable")
		rl.ClearBackground(bg)
		draw(nil)
		return
	}

	rl.BeginTextureMode(p.scene)
	rl.ClearBackground(bg)
	draw(nil)
	rl.EndTextureMode()

	if dof := p.Settings.DepthOfField; dof != nil {
		rl.BeginTextureMode(p.depth)
		rl.ClearBackground(rl.White)
		p.depthPass.SetFloat(postfx.UniformDepthRange, dof.DepthRange)
		draw(p.depthPass)
		rl.EndTextureMode()
	}

	src := p.scene.Texture
	passes := p.Settings.Passes()
	for i, pass := range passes {
		last := i == len(passes)-1
		target := &p.pingPong[i%2]

		if !last {
			rl.BeginTextureMode(*target)
			rl.ClearBackground(rl.Blank)
		}

		switch pass {
		case postfx.PassDepthOfField:
			p.runDepthOfField(src)
		case postfx.PassVignette:
			p.runVignette(src)
		}

		if !last {
			rl.EndTextureMode()
			src = target.Texture
		}
	}
}

func (p *EffectsPipeline) runDepthOfField(src rl.Texture2D) {
	dof := p.Settings.DepthOfField
	scale := dof.TexelScale(p.height)

	rl.BeginShaderMode(p.dofPass.Shader)
	p.dofPass.SetTexture(postfx.UniformDepthTexture, p.depth.Texture)
	p.dofPass.SetFloat(postfx.UniformFocusDepth, p.focusDepth)
	p.dofPass.SetFloat(postfx.UniformFocalLength, dof.FocalLength)
	p.dofPass.SetFloat(postfx.UniformBokehScale, dof.BokehScale)
	p.dofPass.SetVec2(postfx.UniformTexelSize, scale/float64(p.width), scale/float64(p.height))
	blit(src, p.width, p.height)
	rl.EndShaderMode()
}

func (p *EffectsPipeline) runVignette(src rl.Texture2D) {
	v := p.Settings.Vignette

	rl.BeginShaderMode(p.vignettePass.Shader)
	p.vignettePass.SetFloat(postfx.UniformOffset, v.Offset)
	p.vignettePass.SetFloat(postfx.UniformDarkness, v.Darkness)
	blit(src, p.width, p.height)
	rl.EndShaderMode()
}

// blit copies a render texture 1:1 without blending. Render textures are
// stored upside down, hence the negative source height.
func blit(src rl.Texture2D, width, height int) {
	rl.DisableColorBlend()
	rl.DrawTextureRec(src, rl.NewRectangle(0, 0, float32(width), -float32(height)), rl.NewVector2(0, 0), rl.White)
	rl.DrawRenderBatchActive()
	rl.EnableColorBlend()
}

func (p *EffectsPipeline) Unload() {
	if p == nil {
		return
	}
	p.enabled = false
	p.unloadTargets()
	p.depthPass.Unload()
	p.dofPass.Unload()
	p.vignettePass.Unload()
}
