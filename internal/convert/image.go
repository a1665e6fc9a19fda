package convert

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"diorama/internal/utils"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// TextureOutDir is where decoded .tex files are cached as PNG. If empty, the
// PNG is written next to the .tex file.
var TextureOutDir string

// ResourceLoadError reports a layer image that could not be found or decoded.
type ResourceLoadError struct {
	Name string
	Path string
	Err  error
}

func (e *ResourceLoadError) Error() string {
	return fmt.Sprintf("load %s (%s): %v", e.Name, e.Path, e.Err)
}

func (e *ResourceLoadError) Unwrap() error {
	return e.Err
}

// DecodeImageFile decodes png, jpeg, webp and Wallpaper Engine .tex files.
func DecodeImageFile(path string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".tex") {
		return LoadTexture(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	utils.Debug("Decoded %s image %s: %dx%d", format, path, img.Bounds().Dx(), img.Bounds().Dy())
	return img, nil
}

func pngCachePath(texPath string) string {
	base := strings.TrimSuffix(filepath.Base(texPath), filepath.Ext(texPath)) + ".png"
	if TextureOutDir != "" {
		return filepath.Join(TextureOutDir, base)
	}
	return filepath.Join(filepath.Dir(texPath), base)
}

// LoadTexture decodes a .tex file, reusing its PNG cache when present and
// writing one otherwise.
func LoadTexture(path string) (image.Image, error) {
	pngPath := pngCachePath(path)
	if f, err := os.Open(pngPath); err == nil {
		defer f.Close()
		if img, err := png.Decode(f); err == nil {
			return img, nil
		}
		utils.Warn("Ignoring unreadable texture cache %s", pngPath)
	}

	img, err := DecodeTexFile(path)
	if err != nil {
		return nil, err
	}

	if err := writePNG(pngPath, img); err != nil {
		utils.Warn("Failed to encode PNG %s: %v", pngPath, err)
	}
	return img, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// LoadLayerImage finds and decodes the image of a layer. Images larger than
// maxSize on either side are scaled down; maxSize <= 0 disables that.
func LoadLayerImage(name, file string, maxSize int) (image.Image, string, error) {
	path := utils.FindTextureFile(file)
	if path == "" {
		return nil, "", &ResourceLoadError{Name: name, Path: file, Err: os.ErrNotExist}
	}

	img, err := DecodeImageFile(path)
	if err != nil {
		return nil, path, &ResourceLoadError{Name: name, Path: path, Err: err}
	}
	if b := img.Bounds(); b.Empty() {
		return nil, path, &ResourceLoadError{Name: name, Path: path, Err: fmt.Errorf("empty image")}
	}
	return FitWithin(img, maxSize), path, nil
}

// FitWithin scales img down so neither side exceeds maxSize, keeping the
// aspect ratio.
func FitWithin(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}

	scale := float64(maxSize) / float64(max(w, h))
	dw := max(1, int(float64(w)*scale+0.5))
	dh := max(1, int(float64(h)*scale+0.5))

	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	utils.Debug("Scaled image %dx%d -> %dx%d", w, h, dw, dh)
	return dst
}
