package ocr

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// binarizeLevel is the fixed luminance cutoff used when thresholding the
// contrast-stretched grayscale image. Field photo overlays render as white
// text on dark strips, so a midpoint cutoff separates them cleanly.
const binarizeLevel = 128

// Preprocess normalizes a field photo before recognition: grayscale, then a
// full contrast stretch, then a hard black/white threshold. Tesseract reads
// the resulting bi-level image far more reliably than the raw photo.
func Preprocess(img image.Image) *image.Gray {
	gray := imaging.Grayscale(img)
	stretched := autocontrast(gray)
	return segment.Threshold(stretched, binarizeLevel)
}

// autocontrast remaps the grayscale range so the darkest pixel becomes 0 and
// the brightest 255. A flat image (single luminance) is returned unchanged.
func autocontrast(img *image.NRGBA) *image.NRGBA {
	bounds := img.Bounds()

	lo, hi := uint8(255), uint8(0)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			// Grayscale output carries the luminance in every channel.
			v := img.NRGBAAt(x, y).R
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if hi <= lo {
		return img
	}

	scale := 255.0 / float64(hi-lo)
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		v := uint8(float64(c.R-lo)*scale + 0.5)
		return color.NRGBA{R: v, G: v, B: v, A: c.A}
	})
}
