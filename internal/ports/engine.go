package ports

import "context"

// RenderParams is a fully self-contained render description handed to the
// engine: embedded markup, viewport geometry and output quality.
type RenderParams struct {
	HTML             string
	Width            int
	Height           int
	Scale            float64 // device pixel ratio
	Quality          int     // JPEG quality, 1-100
	OptimizeForSpeed bool
}

// RenderEngine rasterizes a self-contained markup description into image
// bytes. A call either returns complete JPEG bytes or an error, never both.
type RenderEngine interface {
	RenderImage(ctx context.Context, p RenderParams) ([]byte, error)
}
