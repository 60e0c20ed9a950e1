package imageutil

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	_ "golang.org/x/image/tiff" // register TIFF alongside the stdlib PNG/JPEG/GIF decoders
)

// LoadImage decodes an image file. PNG is the format the rest of untex
// produces and expects, but JPEG, GIF and TIFF decode the same way since
// nothing downstream cares about the source format once it's an RGBAImage.
func LoadImage(path string) (*RGBAImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return RGBAImageFromImage(img), nil
}

// DecodeBytes decodes an in-memory image, as produced by an external
// renderer with no file of its own to open.
func DecodeBytes(data []byte) (*RGBAImage, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image bytes: %w", err)
	}
	return RGBAImageFromImage(img), nil
}

// SavePNG writes img as a PNG file, creating or truncating path.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode png %s: %w", path, err)
	}
	return nil
}
