// Package imageutil wraps stdlib image decoding with a thin, pixel-addressable
// type so the rest of untex never touches image.Image directly.
package imageutil

import (
	"image"
	"image/color"
)

// RGB is a color sample with 8-bit channels. Alpha is not carried: the
// decoder contract ignores it entirely.
type RGB struct {
	R, G, B uint8
}

// RGBFromColor converts a color.Color to RGB, discarding alpha.
func RGBFromColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// Average returns the mean of the three channels, rounded to the nearest
// integer, matching the decoder's binarisation rule.
func (rgb RGB) Average() int {
	sum := int(rgb.R) + int(rgb.G) + int(rgb.B)
	return (sum + 1) / 3
}

// RGBAImage wraps image.RGBA with convenience accessors for pixel access.
type RGBAImage struct {
	*image.RGBA
}

// NewRGBAImage creates a new RGBAImage with the specified dimensions.
func NewRGBAImage(width, height int) *RGBAImage {
	return &RGBAImage{
		RGBA: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// RGBAImageFromImage converts any image.Image to RGBAImage. Each pixel
// keeps its unpremultiplied colour channels and is stored opaque, so a
// transparent or translucent pixel is not darkened by its alpha.
func RGBAImageFromImage(img image.Image) *RGBAImage {
	bounds := img.Bounds()
	rgba := NewRGBAImage(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			rgba.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}
	return rgba
}

// Width returns the image width.
func (img *RGBAImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *RGBAImage) Height() int {
	return img.Bounds().Dy()
}

// GetRGB returns the RGB value at (x, y), alpha discarded.
func (img *RGBAImage) GetRGB(x, y int) RGB {
	c := img.RGBAAt(x, y)
	return RGB{R: c.R, G: c.G, B: c.B}
}
