package scene

import "github.com/df07/go-pathtracer/pkg/core"

// Background gives the radiance arriving along rays that escape the scene
type Background interface {
	Radiance(direction core.Vec3) core.Vec3
}

// BackgroundFunc adapts a plain function to the Background interface
type BackgroundFunc func(direction core.Vec3) core.Vec3

// Radiance calls f(direction)
func (f BackgroundFunc) Radiance(direction core.Vec3) core.Vec3 {
	return f(direction)
}

// ConstantBackground emits the same radiance in every direction
type ConstantBackground struct {
	Color core.Vec3
}

// NewConstantBackground creates a uniform environment
func NewConstantBackground(color core.Vec3) *ConstantBackground {
	return &ConstantBackground{Color: color}
}

// Radiance returns the constant color
func (b *ConstantBackground) Radiance(direction core.Vec3) core.Vec3 {
	return b.Color
}

// GradientBackground blends from Bottom (looking down) to Top (looking up)
type GradientBackground struct {
	Top    core.Vec3
	Bottom core.Vec3
}

// NewGradientBackground creates a vertical sky gradient
func NewGradientBackground(top, bottom core.Vec3) *GradientBackground {
	return &GradientBackground{Top: top, Bottom: bottom}
}

// Radiance interpolates on the Y component of the normalized direction
func (b *GradientBackground) Radiance(direction core.Vec3) core.Vec3 {
	t := 0.5 * (direction.Normalize().Y + 1.0)
	return b.Bottom.Lerp(b.Top, t)
}
