// Package imaging holds the crop geometry engine: the transform from a
// user-drawn crop rectangle in displayed-image space to source-image pixels,
// and the rasterization of the cropped region into a JPEG at source
// resolution.
package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/draw"
	"image/jpeg"
	"math"

	_ "image/gif"
	_ "image/png"
)

// JPEG quality for exported crops.
const exportQuality = 90

// Fraction of the displayed width used for the initial crop region.
const defaultWidthFraction = 0.9

var (
	ErrEmptyRegion   = errors.New("imaging: crop region is empty")
	ErrBadViewport   = errors.New("imaging: viewport dimensions must be positive")
	ErrDecodeFailure = errors.New("imaging: image could not be decoded")
)

// Region is a crop rectangle in displayed-image coordinates.
type Region struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Viewport describes how the source image was presented: its natural pixel
// size and the (possibly downscaled) size it was displayed at.
type Viewport struct {
	NaturalWidth    float64 `json:"naturalWidth"`
	NaturalHeight   float64 `json:"naturalHeight"`
	DisplayedWidth  float64 `json:"displayedWidth"`
	DisplayedHeight float64 `json:"displayedHeight"`
}

func (vp Viewport) valid() bool {
	return vp.NaturalWidth > 0 && vp.NaturalHeight > 0 &&
		vp.DisplayedWidth > 0 && vp.DisplayedHeight > 0
}

// CenterCrop computes the initial region: 90% of the displayed width, square
// aspect, centered on both axes, shrunk if the square would overflow the
// displayed height.
func CenterCrop(displayedWidth, displayedHeight float64) Region {
	side := displayedWidth * defaultWidthFraction
	if side > displayedHeight {
		side = displayedHeight
	}
	return Region{
		X:      (displayedWidth - side) / 2,
		Y:      (displayedHeight - side) / 2,
		Width:  side,
		Height: side,
	}
}

// Clamp constrains the region to stay inside the displayed bounds. Size is
// clamped first, then position, so a region dragged past an edge slides back
// into view at full size.
func (r Region) Clamp(displayedWidth, displayedHeight float64) Region {
	if r.Width < 0 {
		r.Width = 0
	}
	if r.Height < 0 {
		r.Height = 0
	}
	if r.Width > displayedWidth {
		r.Width = displayedWidth
	}
	if r.Height > displayedHeight {
		r.Height = displayedHeight
	}
	r.X = math.Max(0, math.Min(r.X, displayedWidth-r.Width))
	r.Y = math.Max(0, math.Min(r.Y, displayedHeight-r.Height))
	return r
}

// SourceRect maps the region into source-image pixel space. The output always
// matches the source resolution within the cropped area, independent of how
// much the preview was downsized.
func SourceRect(r Region, vp Viewport) (image.Rectangle, error) {
	if !vp.valid() {
		return image.Rectangle{}, ErrBadViewport
	}
	if r.Width <= 0 || r.Height <= 0 {
		return image.Rectangle{}, ErrEmptyRegion
	}
	scaleX := vp.NaturalWidth / vp.DisplayedWidth
	scaleY := vp.NaturalHeight / vp.DisplayedHeight
	x := int(math.Round(r.X * scaleX))
	y := int(math.Round(r.Y * scaleY))
	w := int(math.Round(r.Width * scaleX))
	h := int(math.Round(r.Height * scaleY))
	return image.Rect(x, y, x+w, y+h), nil
}

// Crop rasterizes the region of src described by r and vp into a new image
// at source resolution.
func Crop(src image.Image, r Region, vp Viewport) (image.Image, error) {
	rect, err := SourceRect(r.Clamp(vp.DisplayedWidth, vp.DisplayedHeight), vp)
	if err != nil {
		return nil, err
	}
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), src, rect.Min, draw.Src)
	return out, nil
}

// Confirm consumes the region once: it crops src and encodes the result as a
// JPEG. The engine holds no state after this call.
func Confirm(src image.Image, r Region, vp Viewport) ([]byte, error) {
	out, err := Crop(src, r, vp)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: exportQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses raw image bytes (PNG, JPEG or GIF).
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrDecodeFailure
	}
	return img, nil
}
