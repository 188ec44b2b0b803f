package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// ProgressiveRaytracer manages progressive rendering with multiple passes.
// Each pass raises every pixel to the pass's target sample count, so the
// final pass leaves exactly SamplesPerPixel samples in every pixel. A
// raytracer renders once; its worker pool is stopped when rendering ends.
type ProgressiveRaytracer struct {
	scene         *scene.Scene
	width, height int
	config        RenderConfig
	maxSamples    int
	tiles         []*Tile      // Tile management
	currentPass   int          // Progressive state
	framebuffer   *Framebuffer // Shared pixel statistics (global image coordinates)
	workerPool    *WorkerPool  // Worker pool for parallel processing
	logger        core.Logger  // Logger for rendering output
}

// NewProgressiveRaytracer validates the configuration and the scene and
// prepares tiles, framebuffer and worker pool. A nil integrator selects path
// tracing with the scene's sampling config; a nil logger discards output.
func NewProgressiveRaytracer(sc *scene.Scene, config RenderConfig, integratorInst integrator.Integrator, logger core.Logger) (*ProgressiveRaytracer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, fmt.Errorf("%w: nil scene", ErrInvalidConfig)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if integratorInst == nil {
		integratorInst = integrator.NewPathTracingIntegrator(sc.SamplingConfig)
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	width, height := sc.SamplingConfig.Width, sc.SamplingConfig.Height
	tiles := NewTileGrid(width, height, config.TileSize, config.Seed)
	tileRenderer := NewTileRenderer(sc, integratorInst)

	return &ProgressiveRaytracer{
		scene:       sc,
		width:       width,
		height:      height,
		config:      config,
		maxSamples:  sc.SamplingConfig.SamplesPerPixel,
		tiles:       tiles,
		framebuffer: NewFramebuffer(width, height),
		workerPool:  NewWorkerPool(tileRenderer, len(tiles), config.NumWorkers, config.MaxTileRetries, logger),
		logger:      logger,
	}, nil
}

// Framebuffer returns the accumulation buffer. Read it only between passes.
func (pr *ProgressiveRaytracer) Framebuffer() *Framebuffer {
	return pr.framebuffer
}

// Close stops the worker pool
func (pr *ProgressiveRaytracer) Close() {
	pr.workerPool.Stop()
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	// Special case: if only 1 pass, use all samples
	if pr.config.MaxPasses == 1 || passNumber >= pr.config.MaxPasses {
		return pr.maxSamples
	}

	// First pass is a quick preview
	if passNumber == 1 {
		return min(pr.config.InitialSamples, pr.maxSamples)
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := pr.maxSamples - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	targetSamples := pr.config.InitialSamples + (passNumber-1)*samplesPerPass
	return max(1, min(targetSamples, pr.maxSamples))
}

// RenderPass renders a single progressive pass using parallel processing.
// Cancelling ctx stops the pass at tile granularity; the partial image is
// still returned together with ctx.Err().
func (pr *ProgressiveRaytracer) RenderPass(ctx context.Context, passNumber int, tileCallback func(TileCompletionResult)) (PassResult, error) {
	pr.currentPass = passNumber
	targetSamples := pr.getSamplesForPass(passNumber)

	pr.logger.Printf("Pass %d: Target %d samples per pixel (using %d workers)...\n",
		passNumber, targetSamples, pr.workerPool.GetNumWorkers())

	if ctx.Err() != nil {
		pr.workerPool.Cancel()
	}
	stopWatching := context.AfterFunc(ctx, pr.workerPool.Cancel)
	defer stopWatching()

	pr.workerPool.Start()

	for taskID, tile := range pr.tiles {
		pr.workerPool.SubmitTask(TileTask{
			Tile:          tile,
			PassNumber:    passNumber,
			TargetSamples: targetSamples,
			TaskID:        taskID,
			Framebuffer:   pr.framebuffer,
		})
	}

	// Collect every result on this goroutine; callbacks run single-threaded
	var tileTotals RenderStats
	for i := 0; i < len(pr.tiles); i++ {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			return PassResult{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		tileTotals.merge(result.Stats)
		if result.Skipped {
			continue
		}

		tile := pr.tiles[result.TaskID]
		tile.PassesCompleted++
		if result.Error != nil {
			pr.logger.Printf("Tile %d zero-filled after failure: %v\n", tile.ID, result.Error)
		}

		if tileCallback != nil {
			tileCallback(TileCompletionResult{
				TileX:       tile.Bounds.Min.X / pr.config.TileSize,
				TileY:       tile.Bounds.Min.Y / pr.config.TileSize,
				TileImage:   pr.framebuffer.extractTileImage(tile.Bounds, pr.config.Gamma),
				PassNumber:  passNumber,
				TileNumber:  i + 1,
				TotalTiles:  len(pr.tiles),
				TotalPasses: pr.config.MaxPasses,
			})
		}
	}

	img, stats := pr.assembleCurrentImage(targetSamples)
	stats.merge(tileTotals)
	stats.TotalTiles = len(pr.tiles)
	stats.CompletionRate = float64(stats.TotalTiles-stats.FailedTiles-stats.SkippedTiles) / float64(stats.TotalTiles)

	result := PassResult{
		PassNumber: passNumber,
		Image:      img,
		Stats:      stats,
		IsLast:     passNumber >= pr.config.MaxPasses || stats.MinSamples >= pr.maxSamples,
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX      int // Tile coordinates (not pixel coordinates)
	TileY      int
	TileImage  *image.RGBA // Image data for just this tile
	PassNumber int         // Which pass this tile was rendered in

	// Progress information
	TileNumber  int // Current tile number in this pass (1-based)
	TotalTiles  int // Total number of tiles in the image
	TotalPasses int // Total number of passes planned
}

// RenderOptions configures progressive rendering behavior
type RenderOptions struct {
	TileUpdates bool // Whether to generate tile completion events
}

// Render runs all passes synchronously and returns the last one
func (pr *ProgressiveRaytracer) Render(ctx context.Context) (Result, error) {
	defer pr.Close()

	var last PassResult
	err := pr.runPasses(ctx, nil, func(result PassResult) bool {
		last = result
		return true
	})
	return Result{Image: last.Image, Framebuffer: pr.framebuffer, Stats: last.Stats}, err
}

// RenderProgressive renders with channel-based communication.
// The caller should drain the pass channel; the error channel receives at
// most one error. If options.TileUpdates is false, the tile channel is
// closed immediately and no tile events are generated.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100) // Buffer for tiles
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)
		defer pr.Close()

		var tileCallback func(TileCompletionResult)
		if options.TileUpdates {
			tileCallback = func(result TileCompletionResult) {
				select {
				case tileChan <- result:
				case <-ctx.Done():
				default:
					// Channel full; drop the update rather than stall the pass
				}
			}
		}

		err := pr.runPasses(ctx, tileCallback, func(result PassResult) bool {
			select {
			case passChan <- result:
				return true
			case <-ctx.Done():
				return false
			}
		})
		if err != nil {
			errChan <- err
		}
	}()

	return passChan, tileChan, errChan
}

// runPasses drives the pass loop, handing each finished pass to emit.
// emit returning false ends the loop.
func (pr *ProgressiveRaytracer) runPasses(ctx context.Context, tileCallback func(TileCompletionResult), emit func(PassResult) bool) error {
	pr.logger.Printf("Starting rendering with %d passes...\n", pr.config.MaxPasses)

	for pass := 1; pass <= pr.config.MaxPasses; pass++ {
		startTime := time.Now()

		result, err := pr.RenderPass(ctx, pass, tileCallback)
		if err != nil {
			pr.logger.Printf("Rendering stopped during pass %d: %v\n", pass, err)
			if result.Image != nil {
				emit(result)
			}
			return err
		}

		pr.logger.Printf("Pass %d completed in %v (%d samples/pixel, %.1f%% of tiles complete)\n",
			pass, time.Since(startTime), result.Stats.MinSamples, 100*result.Stats.CompletionRate)

		if !emit(result) {
			return ctx.Err()
		}

		if result.IsLast {
			if pass < pr.config.MaxPasses {
				pr.logger.Printf("Reached maximum samples per pixel (%d), stopping.\n", pr.maxSamples)
			}
			break
		}
	}
	return nil
}

// assembleCurrentImage creates an image from the current state of the
// framebuffer and calculates render statistics in a single pass
func (pr *ProgressiveRaytracer) assembleCurrentImage(targetSamples int) (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, pr.width, pr.height))

	stats := RenderStats{
		TotalPixels: pr.width * pr.height,
		MaxSamples:  targetSamples,
		MinSamples:  pr.maxSamples, // Start high, will be reduced
	}

	for y := 0; y < pr.height; y++ {
		for x := 0; x < pr.width; x++ {
			pixel := pr.framebuffer.At(x, y)
			img.SetRGBA(x, y, vec3ToColor(pixel.GetColor(), pr.config.Gamma))

			stats.TotalSamples += pixel.SampleCount
			stats.MinSamples = min(stats.MinSamples, pixel.SampleCount)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, pixel.SampleCount)
			stats.MeanVariance += pixel.Variance()
		}
	}

	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	stats.MeanVariance /= float64(stats.TotalPixels)
	return img, stats
}
