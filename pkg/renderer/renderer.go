package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// ErrInvalidConfig is wrapped by every RenderConfig validation failure
var ErrInvalidConfig = errors.New("invalid render configuration")

// RenderConfig controls how a render is scheduled. Image size, sample count
// and depth come from the scene's SamplingConfig.
type RenderConfig struct {
	TileSize       int     // Size of each square tile in pixels
	NumWorkers     int     // Number of parallel workers (0 = logical CPU count)
	Seed           int64   // Base seed; every tile generator is derived from it
	Gamma          float64 // Output gamma applied when tone mapping
	MaxTileRetries int     // Retries for a tile whose render panics
	InitialSamples int     // Samples for the first pass when MaxPasses > 1
	MaxPasses      int     // Number of progressive passes (1 = single pass)
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		TileSize:       32,
		NumWorkers:     0, // Auto-detect CPU count
		Seed:           0,
		Gamma:          2.0,
		MaxTileRetries: 1,
		InitialSamples: 1,
		MaxPasses:      1,
	}
}

// Validate checks the configuration before any worker starts
func (c RenderConfig) Validate() error {
	if c.TileSize <= 0 {
		return fmt.Errorf("%w: tile size must be positive, got %d", ErrInvalidConfig, c.TileSize)
	}
	if c.NumWorkers < 0 {
		return fmt.Errorf("%w: worker count must be non-negative, got %d", ErrInvalidConfig, c.NumWorkers)
	}
	if c.Gamma <= 0 {
		return fmt.Errorf("%w: gamma must be positive, got %g", ErrInvalidConfig, c.Gamma)
	}
	if c.MaxTileRetries < 0 {
		return fmt.Errorf("%w: tile retries must be non-negative, got %d", ErrInvalidConfig, c.MaxTileRetries)
	}
	if c.MaxPasses <= 0 {
		return fmt.Errorf("%w: pass count must be positive, got %d", ErrInvalidConfig, c.MaxPasses)
	}
	if c.MaxPasses > 1 && c.InitialSamples <= 0 {
		return fmt.Errorf("%w: initial samples must be positive, got %d", ErrInvalidConfig, c.InitialSamples)
	}
	return nil
}

// Result is a finished (or cancelled) render
type Result struct {
	Image       *image.RGBA
	Framebuffer *Framebuffer // Linear per-pixel accumulators
	Stats       RenderStats
}

// Render renders sc with the path tracing integrator and blocks until every
// pass is done. On cancellation it returns the partial result together with
// ctx.Err(); pixels keep whatever samples they had.
func Render(ctx context.Context, sc *scene.Scene, config RenderConfig, logger core.Logger) (Result, error) {
	pr, err := NewProgressiveRaytracer(sc, config, nil, logger)
	if err != nil {
		return Result{}, err
	}
	return pr.Render(ctx)
}
