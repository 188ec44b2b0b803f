package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

func testScene(shapes ...geometry.Shape) *Scene {
	return &Scene{
		CameraConfig: geometry.CameraConfig{
			Center: core.NewVec3(0, 0, 5),
			LookAt: core.NewVec3(0, 0, 0),
			Up:     core.NewVec3(0, 1, 0),
			VFov:   45,
		},
		Shapes:     shapes,
		Background: NewConstantBackground(core.NewVec3(1, 1, 1)),
		SamplingConfig: SamplingConfig{
			Width:           8,
			Height:          8,
			SamplesPerPixel: 4,
			MaxDepth:        4,
		},
	}
}

func TestScene_NearestHit_PicksClosest(t *testing.T) {
	gray := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	far := geometry.NewSphere(core.NewVec3(0, 0, -10), 1, gray)
	near := geometry.NewSphere(core.NewVec3(0, 0, -4), 1, gray)

	for _, useBVH := range []bool{false, true} {
		s := testScene(far, near)
		s.UseBVH = useBVH
		if err := s.Preprocess(); err != nil {
			t.Fatalf("Preprocess failed: %v", err)
		}

		ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
		hit, ok := s.NearestHit(ray, 0.001, math.Inf(1))
		if !ok {
			t.Fatalf("BVH=%t: expected hit", useBVH)
		}
		if math.Abs(hit.T-3) > 1e-9 {
			t.Errorf("BVH=%t: expected t=3, got t=%f", useBVH, hit.T)
		}

		// tMax prunes both spheres
		if _, ok := s.NearestHit(ray, 0.001, 2.5); ok {
			t.Errorf("BVH=%t: expected miss beyond tMax", useBVH)
		}
	}
}

func TestScene_NearestHit_Miss(t *testing.T) {
	s := testScene(geometry.NewSphere(core.NewVec3(0, 0, -4), 1, material.NewEmissive(core.NewVec3(1, 1, 1))))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))

	if hit, ok := s.NearestHit(ray, 0.001, math.Inf(1)); ok {
		t.Errorf("Expected miss, got hit at t=%f", hit.T)
	}
}

func TestScene_NearestHit_InvalidRay(t *testing.T) {
	s := testScene(geometry.NewPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), material.NewEmissive(core.NewVec3(1, 1, 1))))

	rays := []core.Ray{
		core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 0)),
		core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, math.NaN(), 0)),
		core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, math.Inf(-1), 0)),
	}
	for i, ray := range rays {
		if _, ok := s.NearestHit(ray, 0.001, math.Inf(1)); ok {
			t.Errorf("Case %d: expected invalid ray to miss", i)
		}
	}
}

func TestScene_Validate(t *testing.T) {
	sphere := geometry.NewSphere(core.NewVec3(0, 0, 0), 1, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	tests := []struct {
		name   string
		modify func(*Scene)
	}{
		{"no shapes", func(s *Scene) { s.Shapes = nil }},
		{"nil shape", func(s *Scene) { s.Shapes = append(s.Shapes, nil) }},
		{"no background", func(s *Scene) { s.Background = nil }},
		{"zero samples", func(s *Scene) { s.SamplingConfig.SamplesPerPixel = 0 }},
		{"zero depth", func(s *Scene) { s.SamplingConfig.MaxDepth = 0 }},
		{"zero width", func(s *Scene) { s.SamplingConfig.Width = 0 }},
		{"negative roulette", func(s *Scene) { s.SamplingConfig.RussianRouletteMinBounces = -1 }},
		{"degenerate camera", func(s *Scene) { s.CameraConfig.LookAt = s.CameraConfig.Center }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testScene(sphere)
			tt.modify(s)
			err := s.Preprocess()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	s := testScene(sphere)
	if err := s.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected missing camera to be rejected, got %v", err)
	}
	if err := s.Preprocess(); err != nil {
		t.Errorf("Expected valid scene, got %v", err)
	}
	s.SamplingConfig.Width = 16
	if err := s.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected stale camera size to be rejected, got %v", err)
	}
}

func TestBackgrounds(t *testing.T) {
	gradient := NewGradientBackground(core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 0))

	tests := []struct {
		name       string
		background Background
		direction  core.Vec3
		expected   core.Vec3
	}{
		{"constant", NewConstantBackground(core.NewVec3(0.2, 0.3, 0.4)), core.NewVec3(1, 2, 3), core.NewVec3(0.2, 0.3, 0.4)},
		{"gradient up", gradient, core.NewVec3(0, 5, 0), core.NewVec3(0, 0, 1)},
		{"gradient down", gradient, core.NewVec3(0, -1, 0), core.NewVec3(1, 0, 0)},
		{"gradient horizon", gradient, core.NewVec3(3, 0, 0), core.NewVec3(0.5, 0, 0.5)},
		{"func", BackgroundFunc(func(d core.Vec3) core.Vec3 { return d }), core.NewVec3(1, 0, 0), core.NewVec3(1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.background.Radiance(tt.direction)
			if got.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestNewGroundQuad_FacesUp(t *testing.T) {
	quad := NewGroundQuad(core.NewVec3(0, 0, 0), 10, material.NewLambertian(core.NewVec3(1, 1, 1)))
	if quad.Normal.Subtract(core.NewVec3(0, 1, 0)).Length() > 1e-12 {
		t.Errorf("Expected up normal, got %v", quad.Normal)
	}
}
