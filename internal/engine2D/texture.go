package engine2D

import (
	"errors"
	"fmt"
	"image"

	"diorama/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
	xdraw "golang.org/x/image/draw"
)

// ErrBackendUnavailable means no window or GL context could be created.
var ErrBackendUnavailable = errors.New("rendering backend unavailable")

// Texture is a layer image uploaded to the GPU.
type Texture struct {
	Name string
	rl.Texture2D
}

func (t *Texture) NativeSize() (float64, float64) {
	return float64(t.Width), float64(t.Height)
}

// LoadTexture uploads img with mipmaps, trilinear filtering and repeat
// wrapping. The layer material scrolls UVs past the edges, so clamping would
// smear the border texels.
func LoadTexture(name string, img image.Image) (*Texture, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("texture %s: empty image", name)
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Stride != 4*b.Dx() || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		xdraw.Draw(nrgba, nrgba.Bounds(), img, b.Min, xdraw.Src)
	}

	// The pixel buffer stays Go-owned; raylib copies it during upload.
	rlImg := rl.NewImage(nrgba.Pix, int32(b.Dx()), int32(b.Dy()), 1, rl.UncompressedR8g8b8a8)
	tex := rl.LoadTextureFromImage(rlImg)
	if !rl.IsTextureValid(tex) {
		return nil, fmt.Errorf("texture %s: upload failed", name)
	}

	rl.GenTextureMipmaps(&tex)
	rl.SetTextureFilter(tex, rl.FilterTrilinear)
	rl.SetTextureWrap(tex, rl.WrapRepeat)

	utils.Debug("Texture: %s - Uploaded %dx%d (ID: %d, mipmaps: %d)", name, tex.Width, tex.Height, tex.ID, tex.Mipmaps)
	return &Texture{Name: name, Texture2D: tex}, nil
}

func (t *Texture) Unload() {
	if t == nil || t.ID == 0 {
		return
	}
	rl.UnloadTexture(t.Texture2D)
	t.Texture2D = rl.Texture2D{}
}
