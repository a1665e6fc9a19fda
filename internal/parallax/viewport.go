package parallax

import (
	"math"

	"diorama/internal/wallpaper"
)

// CoverageScale returns the smallest size with the image's aspect ratio that
// fully covers the viewport. Without a usable image size it falls back to
// the viewport itself.
func CoverageScale(v ViewportState, imageWidth, imageHeight float64) wallpaper.Vec2 {
	if imageWidth <= 0 || imageHeight <= 0 || v.Height <= 0 {
		return wallpaper.Vec2{X: v.Width, Y: v.Height}
	}

	var s float64
	if v.Width/v.Height > imageWidth/imageHeight {
		s = v.Width / imageWidth
	} else {
		s = v.Height / imageHeight
	}
	return wallpaper.Vec2{X: imageWidth * s, Y: imageHeight * s}
}

// ViewportFromScreen converts a pixel viewport to the size of the z=0 plane
// seen by a perspective camera at distance with a vertical fov in degrees.
func ViewportFromScreen(pixelWidth, pixelHeight, fovY, distance float64) ViewportState {
	if pixelHeight <= 0 {
		return ViewportState{}
	}
	h := 2 * math.Tan(fovY*math.Pi/360) * distance
	return ViewportState{Width: h * pixelWidth / pixelHeight, Height: h}
}

// NormalizePointer maps a pixel position inside a width x height window to
// [-1, 1] on both axes with y pointing up.
func NormalizePointer(px, py, width, height float64) PointerSample {
	if width <= 0 || height <= 0 {
		return PointerSample{}
	}
	return PointerSample{
		X: px/width*2 - 1,
		Y: -(py/height*2 - 1),
	}
}
