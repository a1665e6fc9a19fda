package convert

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"io"
	"os"

	"diorama/internal/utils"

	"github.com/mauserzjeh/dxt"
	"github.com/pierrec/lz4/v4"
)

// Texture formats of the .tex header that need a hint to disambiguate.
const (
	texFormatDXT1  = 4
	texFormatDXT5  = 6
	texFormatDXT3  = 7
	texFormatRG88  = 8
	texFormatR8    = 9
	texMagic       = "TEXV0005"
	texContainerV1 = "TEXB0001"
	texContainerV3 = "TEXB0003"
)

type texReader struct {
	r   io.Reader
	err error
}

func (t *texReader) u32() uint32 {
	var v uint32
	if t.err == nil {
		t.err = binary.Read(t.r, binary.LittleEndian, &v)
	}
	return v
}

// magic reads an 8 byte tag followed by its NUL terminator.
func (t *texReader) magic() string {
	b := make([]byte, 9)
	if t.err == nil {
		_, t.err = io.ReadFull(t.r, b)
	}
	return string(bytes.Trim(b, "\x00"))
}

// DecodeTex decodes the first mip of the first image in a Wallpaper Engine
// texture, cropped to the texture's logical size.
func DecodeTex(r io.Reader) (image.Image, error) {
	t := &texReader{r: r}

	if m := t.magic(); t.err == nil && m != texMagic {
		return nil, fmt.Errorf("invalid magic: %s", m)
	}
	_ = t.magic()

	format := t.u32()
	_ = t.u32() // flags
	_ = t.u32() // texture width
	_ = t.u32() // texture height
	imgW := t.u32()
	imgH := t.u32()
	_ = t.u32()

	container := t.magic()
	imageCount := t.u32()
	if container == texContainerV3 {
		_ = t.u32()
	}
	if t.err != nil {
		return nil, fmt.Errorf("read header: %w", t.err)
	}
	utils.Debug("    Format: %d, Container: %s, Size: %dx%d", format, container, imgW, imgH)

	if imageCount == 0 {
		return nil, fmt.Errorf("no image found in texture")
	}
	if t.u32() == 0 {
		return nil, fmt.Errorf("no mipmap found in texture")
	}

	mW, mH := t.u32(), t.u32()
	var isLZ4 bool
	var decompressedSize uint32
	if container != texContainerV1 {
		isLZ4 = t.u32() == 1
		decompressedSize = t.u32()
	}
	dataSize := t.u32()
	if t.err != nil {
		return nil, fmt.Errorf("read mip header: %w", t.err)
	}

	data := make([]byte, dataSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("read mip data: %w", err)
	}

	if isLZ4 {
		utils.Debug("    Decompressing LZ4: %d -> %d", dataSize, decompressedSize)
		out := make([]byte, decompressedSize)
		n, err := lz4.UncompressBlock(data, out)
		if err != nil {
			return nil, fmt.Errorf("lz4: %w", err)
		}
		data = out[:n]
	}

	pix, err := decodePixels(format, data, mW, mH)
	if err != nil {
		return nil, err
	}

	img := &image.NRGBA{
		Pix:    pix,
		Stride: int(mW * 4),
		Rect:   image.Rect(0, 0, int(mW), int(mH)),
	}
	if imgW == 0 || imgH == 0 || imgW > mW || imgH > mH {
		return img, nil
	}
	return img.SubImage(image.Rect(0, 0, int(imgW), int(imgH))), nil
}

func decodePixels(format uint32, data []byte, w, h uint32) ([]byte, error) {
	size := uint32(len(data))
	blocks := ((w + 3) / 4) * ((h + 3) / 4)
	rgba := w * h * 4

	switch {
	case size == rgba:
		utils.Debug("    Type: RGBA")
		return data, nil
	case format == texFormatR8 && size == rgba/4:
		utils.Debug("    Type: R8")
		pix := make([]byte, rgba)
		for i, v := range data {
			pix[i*4], pix[i*4+1], pix[i*4+2], pix[i*4+3] = v, v, v, 255
		}
		return pix, nil
	case format == texFormatRG88 && size == rgba/2:
		utils.Debug("    Type: RG88")
		pix := make([]byte, rgba)
		for i := 0; i < int(w*h); i++ {
			lum, alpha := data[i*2], data[i*2+1]
			pix[i*4], pix[i*4+1], pix[i*4+2], pix[i*4+3] = lum, lum, lum, alpha
		}
		return pix, nil
	case format == texFormatDXT5 || size == blocks*16:
		utils.Debug("    Type: DXT5")
		pix, err := dxt.DecodeDXT5(data, uint(w), uint(h))
		if err != nil {
			return nil, fmt.Errorf("dxt5: %w", err)
		}
		fixAlpha(pix, int(w), int(h))
		return pix, nil
	case format == texFormatDXT1 || format == texFormatDXT3 || size == blocks*8:
		utils.Debug("    Type: DXT1")
		pix, err := dxt.DecodeDXT1(data, uint(w), uint(h))
		if err != nil {
			return nil, fmt.Errorf("dxt1: %w", err)
		}
		return pix, nil
	}
	return nil, fmt.Errorf("unsupported format %d with size %d", format, size)
}

// fixAlpha snaps DXT5 alpha to fully on or off and closes one-texel gaps.
func fixAlpha(pix []byte, width, height int) {
	const (
		alphaThreshold = 200
		edgeThreshold  = 2
	)
	stride := width * 4
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := (y*width + x) * 4
			if pix[idx+3] > alphaThreshold {
				pix[idx+3] = 255
				continue
			}
			pix[idx+3] = 0
			if x == 0 || x == width-1 || y == 0 || y == height-1 {
				continue
			}
			left, right := pix[idx-4+3], pix[idx+4+3]
			up, down := pix[idx-stride+3], pix[idx+stride+3]
			if (left > edgeThreshold && right > edgeThreshold) || (up > edgeThreshold && down > edgeThreshold) {
				pix[idx+3] = 255
			}
		}
	}
}

func DecodeTexFile(path string) (image.Image, error) {
	utils.Debug("Decoding texture: %s", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeTex(f)
}
