package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"diorama/internal/convert"
	"diorama/internal/engine2D"
	"diorama/internal/parallax"
	"diorama/internal/utils"
	"diorama/internal/wallpaper"
)

// packagedSceneFile is the scene document looked up inside an unpacked package.
const packagedSceneFile = "diorama.json"

func unpackScene(pkgPath string) error {
	if _, err := os.Stat(utils.UnpackDir); os.IsNotExist(err) {
		utils.Info("Unpacking %s...", pkgPath)
		if err := convert.ExtractPkg(pkgPath, utils.UnpackDir); err != nil {
			return fmt.Errorf("failed to extract pkg: %w", err)
		}
	} else {
		utils.Info("Reusing unpacked scene in %s", utils.UnpackDir)
	}

	convert.BulkConvertTextures(utils.UnpackDir, filepath.Join(utils.UnpackDir, "converted"))
	return nil
}

func findPackagedScene() string {
	path, err := utils.FindFile(utils.UnpackDir, packagedSceneFile)
	if err != nil {
		utils.Warn("No %s in %s, using the built-in scene", packagedSceneFile, utils.UnpackDir)
		return ""
	}
	return path
}

func sceneName(path string) string {
	if path == "" {
		return "diorama"
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// loadLayers uploads every layer image and hands the planes to the renderer.
// A layer whose image is missing or broken keeps its slot in the engine with
// no texture and is never drawn.
func loadLayers(scene *wallpaper.Scene, renderer *engine2D.Renderer, maxTexture int) []parallax.Layer {
	layers := make([]parallax.Layer, 0, len(scene.Layers))
	for _, cfg := range scene.Layers {
		utils.Debug("Adding layer %d: %s", cfg.Index, cfg.Name)

		tex := loadLayerTexture(cfg, maxTexture)

		// Only a non-nil texture goes into the interface; a typed nil would
		// look drawable.
		var layerTex parallax.Texture
		if tex != nil {
			layerTex = tex
		}

		layer := parallax.NewLayer(cfg, layerTex, scene.General.Overscan)
		renderer.AddLayer(layer, tex)
		layers = append(layers, layer)
	}
	return layers
}

func loadLayerTexture(cfg wallpaper.LayerConfig, maxTexture int) *engine2D.Texture {
	if cfg.Image == "" {
		utils.Warn("Layer %d (%s) has no image", cfg.Index, cfg.Name)
		return nil
	}

	img, path, err := convert.LoadLayerImage(cfg.Name, cfg.Image, maxTexture)
	if err != nil {
		var loadErr *convert.ResourceLoadError
		switch {
		case errors.Is(err, os.ErrNotExist):
			utils.Warn("Layer %d (%s): image %s not found, layer skipped", cfg.Index, cfg.Name, cfg.Image)
		case errors.As(err, &loadErr):
			utils.Error("Layer %d (%s): %v", cfg.Index, cfg.Name, loadErr)
		default:
			utils.Error("Layer %d (%s): %v", cfg.Index, cfg.Name, err)
		}
		return nil
	}

	tex, err := engine2D.LoadTexture(cfg.Name, img)
	if err != nil {
		utils.Error("Failed to load texture for layer %s from %s: %v", cfg.Name, path, err)
		return nil
	}
	utils.Info("Layer %d (%s): %s (%dx%d)", cfg.Index, cfg.Name, path, tex.Width, tex.Height)
	return tex
}
