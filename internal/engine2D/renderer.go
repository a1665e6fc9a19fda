package engine2D

import (
	"image/color"
	"math"

	"diorama/internal/engine2D/shader"
	"diorama/internal/parallax"
	"diorama/internal/utils"
	"diorama/internal/wallpaper"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// planeResolution is the vertex grid of each layer plane. The wiggle bends
// vertices, so a single quad would not sway.
const planeResolution = 24

type layerModel struct {
	name    string
	model   rl.Model
	texture *Texture
}

type drawItem struct {
	index     int
	placement parallax.Placement
}

// Renderer draws layer planes through a perspective camera. It owns the
// textures handed to AddLayer and unloads them with the models.
type Renderer struct {
	Camera       rl.Camera3D
	BgColor      color.RGBA
	Strategy     parallax.LayerRenderStrategy
	Effects      *EffectsPipeline
	ScreenWidth  int
	ScreenHeight int

	fov      float64
	distance float64
	material *LayerMaterial
	models   map[int]*layerModel
	drawList []drawItem
}

func NewRenderer(general wallpaper.General, strategy parallax.LayerRenderStrategy) *Renderer {
	red, green, blue := wallpaper.ParseColor(general.ClearColor)

	r := &Renderer{
		Camera: rl.NewCamera3D(
			rl.NewVector3(0, 0, float32(general.CameraDistance)),
			rl.NewVector3(0, 0, 0),
			rl.NewVector3(0, 1, 0),
			float32(general.FOV),
			rl.CameraPerspective,
		),
		BgColor:  color.RGBA{uint8(red * 255), uint8(green * 255), uint8(blue * 255), 255},
		Strategy: strategy,
		fov:      general.FOV,
		distance: general.CameraDistance,
		models:   make(map[int]*layerModel),
	}

	if strategy.Name() == wallpaper.StrategyShader {
		r.material = NewLayerMaterial()
		if !r.material.Valid() {
			utils.Warn("Renderer: Layer material unavailable, falling back to the %s strategy", wallpaper.StrategyTransform)
			r.Strategy = parallax.TransformStrategy{}
		}
	}
	utils.Info("Renderer: Using %s strategy (fov %.1f, camera distance %.2f)", r.Strategy.Name(), general.FOV, general.CameraDistance)
	return r
}

// CameraPosition and CameraTarget in scene units, for focus computations.
func (r *Renderer) CameraPosition() wallpaper.Vec3 {
	return wallpaper.Vec3{X: float64(r.Camera.Position.X), Y: float64(r.Camera.Position.Y), Z: float64(r.Camera.Position.Z)}
}

func (r *Renderer) CameraTarget() wallpaper.Vec3 {
	return wallpaper.Vec3{X: float64(r.Camera.Target.X), Y: float64(r.Camera.Target.Y), Z: float64(r.Camera.Target.Z)}
}

// AddLayer builds the unit plane of a layer. A nil texture registers
// nothing; such layers are skipped at draw time.
func (r *Renderer) AddLayer(l parallax.Layer, tex *Texture) {
	if tex == nil {
		return
	}

	model := rl.LoadModelFromMesh(rl.GenMeshPlane(1, 1, planeResolution, planeResolution))
	// GenMeshPlane lies in XZ; stand it up facing the camera.
	model.Transform = rl.MatrixRotateX(math.Pi / 2)

	mat := &model.GetMaterials()[0]
	rl.SetMaterialTexture(mat, rl.MapDiffuse, tex.Texture2D)
	if r.material.Valid() {
		mat.Shader = r.material.Shader()
	}

	if old, ok := r.models[l.Index]; ok {
		old.unload()
	}
	r.models[l.Index] = &layerModel{name: l.Name, model: model, texture: tex}
	utils.Debug("Renderer: Added layer %d (%s)", l.Index, l.Name)
}

// UpdateViewport records the window size and returns the z=0 plane it shows.
func (r *Renderer) UpdateViewport(screenWidth, screenHeight int) parallax.ViewportState {
	r.ScreenWidth, r.ScreenHeight = screenWidth, screenHeight
	return parallax.ViewportFromScreen(float64(screenWidth), float64(screenHeight), r.fov, r.distance)
}

// UpdateMouse normalizes a window position into a pointer sample.
func (r *Renderer) UpdateMouse(screenMouseX, screenMouseY float64) parallax.PointerSample {
	return parallax.NormalizePointer(screenMouseX, screenMouseY, float64(r.ScreenWidth), float64(r.ScreenHeight))
}

// Render places every drawable layer for this frame and draws them in the
// given order, which is index ascending, back to front. The effects pipeline
// wraps the draw when it is active.
func (r *Renderer) Render(layers []parallax.Layer, f parallax.Frame) {
	r.drawList = r.drawList[:0]
	for _, l := range layers {
		if !l.Drawable() {
			continue
		}
		if _, ok := r.models[l.Index]; !ok {
			continue
		}
		r.drawList = append(r.drawList, drawItem{index: l.Index, placement: r.Strategy.Place(l, f)})
	}

	if r.Effects.Enabled() {
		r.Effects.Run(r.ScreenWidth, r.ScreenHeight, r.BgColor, r.drawLayers)
		return
	}

	rl.ClearBackground(r.BgColor)
	r.drawLayers(nil)
}

// drawLayers draws the current draw list with alpha blending, so layer
// material fragments composite at their fixed opacity. A non-nil override
// replaces every plane's shader for this call, which is how the depth pass
// reuses it.
func (r *Renderer) drawLayers(override *shader.Pass) {
	rl.BeginMode3D(r.Camera)
	for _, item := range r.drawList {
		lm := r.models[item.index]
		p := item.placement
		mat := &lm.model.GetMaterials()[0]

		prev := mat.Shader
		switch {
		case override != nil:
			mat.Shader = override.Shader
		case p.Material != nil && r.material.Valid():
			r.material.Apply(*p.Material)
		}

		rl.DrawModelEx(
			lm.model,
			rl.NewVector3(float32(p.Position.X), float32(p.Position.Y), float32(p.Position.Z)),
			rl.NewVector3(0, 1, 0),
			float32(p.RotationY*180/math.Pi),
			rl.NewVector3(float32(p.Size.X), float32(p.Size.Y), 1),
			rl.White,
		)

		mat.Shader = prev
	}
	rl.EndMode3D()
}

func (lm *layerModel) unload() {
	rl.UnloadModel(lm.model)
	lm.texture.Unload()
}

// Unload releases models, textures, the layer material and the effects.
func (r *Renderer) Unload() {
	for idx, lm := range r.models {
		lm.unload()
		delete(r.models, idx)
	}
	r.material.Unload()
	r.material = nil
	r.Effects.Unload()
	utils.Debug("Renderer: Unloaded")
}
