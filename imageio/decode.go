// Package imageio turns a PNG (or any image/-registered format) on disk
// into the 0/1 ink matrix the recognition core operates on.
package imageio

import (
	"fmt"

	"github.com/latexrec/untex"
	"github.com/latexrec/untex/imageutil"
)

// inkThreshold is the channel-average midpoint below which a pixel is
// ink, matching the generator's own binarisation rule.
const inkThreshold = 128

// Decode loads the image at path and binarises it: a pixel is ink (1)
// when its averaged, rounded RGB channels fall below inkThreshold.
// Alpha is ignored.
func Decode(path string) (*untex.Matrix, error) {
	img, err := imageutil.LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", untex.ErrIo, err)
	}
	return toMatrix(img), nil
}

// DecodeBytes is Decode's in-memory counterpart, for image data with no
// file of its own (a renderer's raw output, an embedded test fixture).
func DecodeBytes(data []byte) (*untex.Matrix, error) {
	img, err := imageutil.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", untex.ErrIo, err)
	}
	return toMatrix(img), nil
}

func toMatrix(img *imageutil.RGBAImage) *untex.Matrix {
	w, h := img.Width(), img.Height()
	m := untex.NewMatrix(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if img.GetRGB(x, y).Average() < inkThreshold {
				m.Set(y, x, 1)
			}
		}
	}
	return m
}
