package renderer

import (
	"image"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestFramebuffer_Complete(t *testing.T) {
	fb := NewFramebuffer(3, 2)
	if !fb.Complete(0) {
		t.Error("Expected empty framebuffer to be complete at 0 samples")
	}

	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			fb.At(x, y).AddSample(core.NewVec3(1, 1, 1))
		}
	}
	if !fb.Complete(1) {
		t.Error("Expected framebuffer complete at 1 sample")
	}

	fb.At(2, 1).AddSample(core.NewVec3(1, 1, 1))
	if fb.Complete(1) {
		t.Error("Expected extra sample to break completeness")
	}
}

func TestFramebuffer_SnapshotRestore(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	bounds := image.Rect(1, 1, 3, 4)
	fb.At(1, 1).AddSample(core.NewVec3(0.5, 0.5, 0.5))

	snapshot := fb.snapshot(bounds)
	fb.At(1, 1).AddSample(core.NewVec3(9, 9, 9))
	fb.At(2, 3).AddSample(core.NewVec3(9, 9, 9))
	fb.At(0, 0).AddSample(core.NewVec3(1, 1, 1)) // outside bounds

	fb.restore(bounds, snapshot)

	if fb.At(1, 1).SampleCount != 1 || fb.Mean(1, 1) != core.NewVec3(0.5, 0.5, 0.5) {
		t.Errorf("Expected pixel (1,1) restored, got %+v", *fb.At(1, 1))
	}
	if fb.At(2, 3).SampleCount != 0 {
		t.Errorf("Expected pixel (2,3) restored to empty, got %d samples", fb.At(2, 3).SampleCount)
	}
	if fb.At(0, 0).SampleCount != 1 {
		t.Error("Expected pixel outside bounds untouched")
	}
}

func TestFramebuffer_ZeroFill(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	fb.At(0, 0).AddSample(core.NewVec3(1, 1, 1))

	fb.zeroFill(image.Rect(0, 0, 2, 2), 4)

	if !fb.Complete(4) {
		t.Error("Expected every pixel at 4 samples")
	}
	if fb.Mean(0, 0) != core.NewVec3(0.25, 0.25, 0.25) {
		t.Errorf("Expected existing samples kept, got %v", fb.Mean(0, 0))
	}
	if fb.Mean(1, 1) != (core.Vec3{}) {
		t.Errorf("Expected zero-filled pixel to be black, got %v", fb.Mean(1, 1))
	}
}

func TestFramebuffer_ToRGBA(t *testing.T) {
	fb := NewFramebuffer(2, 1)
	fb.At(0, 0).AddSample(core.NewVec3(0.25, 1, 4))
	fb.At(1, 0).AddSample(core.NewVec3(-1, 0, 1))

	img := fb.ToRGBA(2.0)
	if img.Bounds() != image.Rect(0, 0, 2, 1) {
		t.Fatalf("Expected 2x1 image, got %v", img.Bounds())
	}

	// sqrt(0.25) = 0.5 -> 127, 1 -> 255, 4 clamps to 255
	c := img.RGBAAt(0, 0)
	if c.R != 127 || c.G != 255 || c.B != 255 || c.A != 255 {
		t.Errorf("Expected (127,255,255,255), got %v", c)
	}
	c = img.RGBAAt(1, 0)
	if c.R != 0 || c.G != 0 || c.B != 255 {
		t.Errorf("Expected negative radiance clamped to 0, got %v", c)
	}
}
