package renderer

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int     // Total number of pixels rendered
	TotalSamples   int     // Total number of samples taken
	AverageSamples float64 // Average samples per pixel
	MaxSamples     int     // Target samples per pixel
	MinSamples     int     // Minimum samples taken per pixel
	MaxSamplesUsed int     // Maximum samples actually used by any pixel
	MeanVariance   float64 // Per-pixel luminance sample variance, averaged over the image

	InvalidSamples int     // Non-finite samples replaced by zero
	TotalTiles     int     // Tiles scheduled in the pass
	FailedTiles    int     // Tiles zero-filled after exhausting retries
	RetriedTiles   int     // Tiles that panicked at least once
	SkippedTiles   int     // Tiles not rendered because the render was cancelled
	CompletionRate float64 // Fraction of tiles rendered normally
}

// merge folds a tile result into pass totals
func (s *RenderStats) merge(tile RenderStats) {
	s.InvalidSamples += tile.InvalidSamples
	s.RetriedTiles += tile.RetriedTiles
	s.FailedTiles += tile.FailedTiles
	s.SkippedTiles += tile.SkippedTiles
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum       core.Vec3 // RGB accumulator for final result
	LuminanceAccum   float64   // Luminance sum for the variance estimate
	LuminanceSqAccum float64   // Luminance squared for variance
	SampleCount      int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	luminance := color.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// Variance returns the sample variance of the luminance of this pixel
func (ps *PixelStats) Variance() float64 {
	if ps.SampleCount < 2 {
		return 0
	}
	n := float64(ps.SampleCount)
	mean := ps.LuminanceAccum / n
	return math.Max(0, (ps.LuminanceSqAccum-n*mean*mean)/(n-1))
}
