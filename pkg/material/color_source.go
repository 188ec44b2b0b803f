package material

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ColorSource provides spatially-varying colors for materials
type ColorSource interface {
	// Evaluate returns color at given UV coordinates and 3D point
	Evaluate(uv core.Vec2, point core.Vec3) core.Vec3
}

// SolidColor provides uniform color
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a new solid color source
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the solid color regardless of UV or position
func (s *SolidColor) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	return s.Color
}

// Checker alternates two colors on a UV grid with Scale checks per unit
type Checker struct {
	Even  core.Vec3
	Odd   core.Vec3
	Scale float64
}

// NewChecker creates a UV checkerboard
func NewChecker(even, odd core.Vec3, scale float64) *Checker {
	return &Checker{Even: even, Odd: odd, Scale: scale}
}

// Evaluate picks a color from the parity of the UV cell
func (c *Checker) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	cell := int(math.Floor(uv.X*c.Scale)) + int(math.Floor(uv.Y*c.Scale))
	if cell%2 == 0 {
		return c.Even
	}
	return c.Odd
}

// ImageTexture maps UV coordinates onto a grid of colors. Row 0 is the top
// of the image, so v = 1 samples the first row.
type ImageTexture struct {
	Width  int
	Height int
	Pixels []core.Vec3 // Row-major, Width*Height entries
}

// NewImageTexture creates an image texture from row-major pixels. It fails
// unless there are exactly width*height pixels.
func NewImageTexture(width, height int, pixels []core.Vec3) (*ImageTexture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image texture size must be positive, got %dx%d", width, height)
	}
	if len(pixels) != width*height {
		return nil, fmt.Errorf("image texture %dx%d needs %d pixels, got %d", width, height, width*height, len(pixels))
	}
	return &ImageTexture{Width: width, Height: height, Pixels: pixels}, nil
}

// Evaluate returns the nearest texel, wrapping UV outside [0,1]
func (t *ImageTexture) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	if t.Width == 0 || t.Height == 0 {
		return core.NewVec3(1, 0, 1)
	}
	u := uv.X - math.Floor(uv.X)
	v := 1 - (uv.Y - math.Floor(uv.Y))

	x := min(int(u*float64(t.Width)), t.Width-1)
	y := min(int(v*float64(t.Height)), t.Height-1)
	return t.Pixels[y*t.Width+x]
}
