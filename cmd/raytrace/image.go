package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/A-Imbert/Ray-Tracer/engine/renderer"
	"github.com/chewxy/math32"
)

const displayGamma = 1 / 2.2

// toneMap scales the linear radiance in img by exposure, clamps it to [0, 1] and
// gamma-encodes it into an 8-bit image. Alpha is forced opaque.
func toneMap(img *renderer.Image, exposure float32) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c := img.At(x, y)
			out.SetRGBA(x, y, color.RGBA{
				R: encodeChannel(c[0] * exposure),
				G: encodeChannel(c[1] * exposure),
				B: encodeChannel(c[2] * exposure),
				A: 255,
			})
		}
	}
	return out
}

func encodeChannel(v float32) uint8 {
	// NaN fails both comparisons and falls through to black.
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math32.Pow(v, displayGamma)*255 + 0.5)
}

// savePNG writes img to filename.
func savePNG(filename string, img image.Image) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create %s: %w", filename, err)
	}
	return writePNG(filename, f, img)
}

// writePNG encodes img into w and closes it, reporting a failed close.
func writePNG(name string, w io.WriteCloser, img image.Image) (err error) {
	defer func() {
		if cerr := w.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", name, cerr)
		}
	}()

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return nil
}
