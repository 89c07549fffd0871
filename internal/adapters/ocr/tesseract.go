// Package ocr recognizes overlay text in field photos with Tesseract.
package ocr

import (
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"os"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/rfarias/geocapture/internal/pkg/metrics"
)

// Recognizer implements ports.Recognizer. Each call runs the preprocessing
// chain and a fresh Tesseract client; gosseract clients are not safe for
// concurrent reuse.
type Recognizer struct {
	language string
	logger   *slog.Logger
}

// NewRecognizer returns a recognizer for the given Tesseract language code,
// e.g. "por" for Portuguese overlays.
func NewRecognizer(language string, logger *slog.Logger) *Recognizer {
	return &Recognizer{language: language, logger: logger}
}

// Recognize loads the photo at imagePath, preprocesses it and returns the
// raw recognized text. The caller decides whether the text is usable; an
// error here means the engine itself failed.
func (r *Recognizer) Recognize(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	metrics.OCRAttempts.Inc()

	img, err := imaging.Open(imagePath)
	if err != nil {
		metrics.OCRFailures.Inc()
		return "", fmt.Errorf("load photo: %w", err)
	}

	processed := Preprocess(img)

	// Tesseract wants a file path, so the bi-level image goes through a
	// temporary PNG.
	tmp, err := os.CreateTemp("", "geocapture-ocr-*.png")
	if err != nil {
		metrics.OCRFailures.Inc()
		return "", fmt.Errorf("create temp image: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmp, processed); err != nil {
		tmp.Close()
		metrics.OCRFailures.Inc()
		return "", fmt.Errorf("encode temp image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		metrics.OCRFailures.Inc()
		return "", fmt.Errorf("close temp image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(r.language); err != nil {
		metrics.OCRFailures.Inc()
		return "", fmt.Errorf("set ocr language: %w", err)
	}
	if err := client.SetImage(tmpPath); err != nil {
		metrics.OCRFailures.Inc()
		return "", fmt.Errorf("set ocr image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		metrics.OCRFailures.Inc()
		return "", fmt.Errorf("ocr failed: %w", err)
	}

	r.logger.Debug("photo recognized", "path", imagePath, "chars", len(text))
	return text, nil
}
