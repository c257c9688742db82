// Package ocr wraps external text-recognition capabilities behind a uniform
// engine interface.
package ocr

import (
	"context"
	"image"
)

// Result is the outcome of one recognition call. Confidence is on a 0-100
// scale; zero means the engine reported no confidence.
type Result struct {
	Text       string
	Confidence float64
}

// Engine recognizes text in a bitmap. Implementations are initialized once
// and reused across many calls, and must be released with Close when no
// longer needed.
type Engine interface {
	Recognize(ctx context.Context, img image.Image) (Result, error)
	Close() error
}
