package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Framebuffer is the per-pixel accumulation grid, indexed [y][x] with row 0
// at the top. During a pass each tile writes only the cells inside its
// bounds, so no locking is needed.
type Framebuffer struct {
	Width  int
	Height int
	Pixels [][]PixelStats
}

// NewFramebuffer allocates an empty width×height buffer
func NewFramebuffer(width, height int) *Framebuffer {
	pixels := make([][]PixelStats, height)
	for y := range pixels {
		pixels[y] = make([]PixelStats, width)
	}
	return &Framebuffer{Width: width, Height: height, Pixels: pixels}
}

// At returns the accumulator for pixel (x, y)
func (fb *Framebuffer) At(x, y int) *PixelStats {
	return &fb.Pixels[y][x]
}

// Mean returns the linear mean radiance of pixel (x, y)
func (fb *Framebuffer) Mean(x, y int) core.Vec3 {
	return fb.Pixels[y][x].GetColor()
}

// Complete reports whether every pixel holds exactly n samples
func (fb *Framebuffer) Complete(n int) bool {
	for y := range fb.Pixels {
		for x := range fb.Pixels[y] {
			if fb.Pixels[y][x].SampleCount != n {
				return false
			}
		}
	}
	return true
}

// snapshot copies the cells inside bounds
func (fb *Framebuffer) snapshot(bounds image.Rectangle) [][]PixelStats {
	rows := make([][]PixelStats, bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		rows[y-bounds.Min.Y] = append([]PixelStats(nil), fb.Pixels[y][bounds.Min.X:bounds.Max.X]...)
	}
	return rows
}

// restore writes a snapshot taken with the same bounds back into the buffer
func (fb *Framebuffer) restore(bounds image.Rectangle, rows [][]PixelStats) {
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		copy(fb.Pixels[y][bounds.Min.X:bounds.Max.X], rows[y-bounds.Min.Y])
	}
}

// zeroFill pads every pixel inside bounds with black samples up to target
func (fb *Framebuffer) zeroFill(bounds image.Rectangle, target int) {
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ps := &fb.Pixels[y][x]
			for ps.SampleCount < target {
				ps.AddSample(core.Vec3{})
			}
		}
	}
}

// ToRGBA tone-maps the buffer: per-pixel mean, gamma correction, clamp to
// [0,1] and quantize to 8 bits
func (fb *Framebuffer) ToRGBA(gamma float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, vec3ToColor(fb.Pixels[y][x].GetColor(), gamma))
		}
	}
	return img
}

// extractTileImage renders just the pixels inside bounds
func (fb *Framebuffer) extractTileImage(bounds image.Rectangle, gamma float64) *image.RGBA {
	tileImage := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			stats := &fb.Pixels[y][x]
			if stats.SampleCount > 0 {
				tileImage.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, vec3ToColor(stats.GetColor(), gamma))
			}
		}
	}
	return tileImage
}

// vec3ToColor converts a linear color to an 8-bit RGBA pixel
func vec3ToColor(colorVec core.Vec3, gamma float64) color.RGBA {
	colorVec = colorVec.GammaCorrect(gamma)
	colorVec = colorVec.Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}
