package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Config holds the command line options. Zero sizes, samples and depth keep
// the scene's own settings.
type Config struct {
	SceneType   string
	Width       int
	Height      int
	Samples     int
	MaxDepth    int
	Workers     int
	Seed        int64
	TileSize    int
	Output      string
	Progressive bool
	Passes      int
	Texture     string
	Help        bool
}

func newFlagSet(config *Config, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&config.SceneType, "scene", "default", "Scene to render (see -help for the list)")
	fs.IntVar(&config.Width, "width", 0, "Image width in pixels (0 = scene default)")
	fs.IntVar(&config.Height, "height", 0, "Image height in pixels (0 = scene default)")
	fs.IntVar(&config.Samples, "spp", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&config.MaxDepth, "depth", 0, "Maximum bounce depth (0 = scene default)")
	fs.IntVar(&config.Workers, "workers", 0, "Number of render workers (0 = logical CPU count)")
	fs.Int64Var(&config.Seed, "seed", 0, "Random seed")
	fs.IntVar(&config.TileSize, "tile", 32, "Tile size in pixels")
	fs.StringVar(&config.Output, "out", "", "Output file (.png, .bmp, .tif)")
	fs.BoolVar(&config.Progressive, "progressive", false, "Save an image after every pass")
	fs.IntVar(&config.Passes, "passes", 5, "Number of passes in progressive mode")
	fs.StringVar(&config.Texture, "texture", "", "Image (.png, .jpg, .bmp, .tif) for the textured-sphere scene")
	fs.BoolVar(&config.Help, "help", false, "Show help information")
	return fs
}

// parseFlags parses command line arguments into a Config
func parseFlags(args []string, stderr io.Writer) (Config, error) {
	var config Config
	err := newFlagSet(&config, stderr).Parse(args)
	return config, err
}

func main() {
	config, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	if config.Help {
		showHelp(os.Stdout)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, config, renderer.NewDefaultLogger()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func showHelp(w io.Writer) {
	fmt.Fprintln(w, "Go Path Tracer")
	fmt.Fprintln(w, "Usage: pathtracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	var config Config
	newFlagSet(&config, w).PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	for _, info := range scene.ListScenes() {
		fmt.Fprintf(w, "  %-16s %s\n", info.ID, info.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output is saved to output/<scene>/render_<timestamp>.png unless -out is given")
}

// createScene looks up the named scene, applies command line overrides and
// prepares it for rendering
func createScene(config Config) (*scene.Scene, error) {
	var sc *scene.Scene
	var err error
	if config.Texture != "" {
		texture, loadErr := loaders.LoadImage(config.Texture)
		if loadErr != nil {
			return nil, loadErr
		}
		sc, err = scene.LookupTextured(config.SceneType, texture)
	} else {
		sc, err = scene.Lookup(config.SceneType)
	}
	if err != nil {
		return nil, err
	}

	if config.Width > 0 {
		sc.SamplingConfig.Width = config.Width
	}
	if config.Height > 0 {
		sc.SamplingConfig.Height = config.Height
	}
	if config.Samples > 0 {
		sc.SamplingConfig.SamplesPerPixel = config.Samples
	}
	if config.MaxDepth > 0 {
		sc.SamplingConfig.MaxDepth = config.MaxDepth
	}

	if err := sc.Preprocess(); err != nil {
		return nil, err
	}
	return sc, nil
}

// renderConfig translates command line options into scheduler settings
func renderConfig(config Config) renderer.RenderConfig {
	rc := renderer.DefaultRenderConfig()
	rc.TileSize = config.TileSize
	rc.NumWorkers = config.Workers
	rc.Seed = config.Seed
	if config.Progressive {
		rc.MaxPasses = config.Passes
	}
	return rc
}

// outputPath returns the requested file or a timestamped default
func outputPath(config Config, now time.Time) string {
	if config.Output != "" {
		return config.Output
	}
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", config.SceneType, fmt.Sprintf("render_%s.png", timestamp))
}

// passPath names the image written after a progressive pass
func passPath(path string, pass int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_pass_%d%s", strings.TrimSuffix(path, ext), pass, ext)
}

func run(ctx context.Context, config Config, logger core.Logger) error {
	sc, err := createScene(config)
	if err != nil {
		return err
	}

	path := outputPath(config, time.Now())
	if _, err := output.FormatFromPath(path); err != nil {
		return err
	}

	logger.Printf("Rendering %s scene (%dx%d, %d spp, depth %d, %d primitives)...\n",
		config.SceneType, sc.SamplingConfig.Width, sc.SamplingConfig.Height,
		sc.SamplingConfig.SamplesPerPixel, sc.SamplingConfig.MaxDepth, sc.GetPrimitiveCount())

	pr, err := renderer.NewProgressiveRaytracer(sc, renderConfig(config), nil, logger)
	if err != nil {
		return err
	}

	startTime := time.Now()
	var result renderer.Result
	if config.Progressive {
		result, err = renderProgressive(ctx, pr, path, logger)
	} else {
		result, err = pr.Render(ctx)
	}
	if result.Image == nil {
		return err
	}

	stats := result.Stats
	logger.Printf("Render finished in %v\n", time.Since(startTime))
	logger.Printf("Samples per pixel: %.1f (range %d - %d), %d invalid samples, mean variance %.4g\n",
		stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed, stats.InvalidSamples, stats.MeanVariance)
	if stats.FailedTiles > 0 || stats.SkippedTiles > 0 {
		logger.Printf("Tiles: %d failed, %d skipped of %d (%.1f%% complete)\n",
			stats.FailedTiles, stats.SkippedTiles, stats.TotalTiles, 100*stats.CompletionRate)
	}

	// A cancelled render still saves what it has
	if saveErr := output.Save(path, result.Image); saveErr != nil {
		return saveErr
	}
	logger.Printf("Render saved as %s\n", path)
	return err
}

// renderProgressive drains the pass channel, saving each pass next to the final image
func renderProgressive(ctx context.Context, pr *renderer.ProgressiveRaytracer, path string, logger core.Logger) (renderer.Result, error) {
	passChan, _, errChan := pr.RenderProgressive(ctx, renderer.RenderOptions{})

	var result renderer.Result
	for pass := range passChan {
		result = renderer.Result{Image: pass.Image, Framebuffer: pr.Framebuffer(), Stats: pass.Stats}
		if pass.IsLast {
			continue
		}
		passFile := passPath(path, pass.PassNumber)
		if err := output.Save(passFile, pass.Image); err != nil {
			logger.Printf("Failed to save pass %d: %v\n", pass.PassNumber, err)
			continue
		}
		logger.Printf("Pass %d saved as %s\n", pass.PassNumber, passFile)
	}
	return result, <-errChan
}
