package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func vecClose(a, b Vec3) bool {
	return a.Subtract(b).Length() < 1e-9
}

func TestTransform_Translate(t *testing.T) {
	xf := Translate(1, 2, 3)

	if got := xf.ApplyPoint(NewVec3(0, 0, 0)); !vecClose(got, NewVec3(1, 2, 3)) {
		t.Errorf("Expected translated point (1,2,3), got %v", got)
	}
	if got := xf.ApplyVector(NewVec3(0, 0, 1)); !vecClose(got, NewVec3(0, 0, 1)) {
		t.Errorf("Expected vector unchanged by translation, got %v", got)
	}
	if got := xf.ApplyNormal(NewVec3(0, 1, 0)); !vecClose(got, NewVec3(0, 1, 0)) {
		t.Errorf("Expected normal unchanged by translation, got %v", got)
	}
}

func TestTransform_ScaleNormal(t *testing.T) {
	// A plane tilted 45 degrees squashed along Y: its normal must tilt the other way
	xf := MustScale(1, 0.5, 1)
	n := xf.ApplyNormal(NewVec3(1, 1, 0).Normalize())
	expected := NewVec3(1, 2, 0).Normalize()
	if !vecClose(n, expected) {
		t.Errorf("Expected normal %v, got %v", expected, n)
	}
}

func TestTransform_Rotate(t *testing.T) {
	tests := []struct {
		name     string
		xf       Transform
		in       Vec3
		expected Vec3
	}{
		{"rotate Z 90", RotateZ(90), NewVec3(1, 0, 0), NewVec3(0, 1, 0)},
		{"rotate Y 90", RotateY(90), NewVec3(1, 0, 0), NewVec3(0, 0, -1)},
		{"rotate X 90", RotateX(90), NewVec3(0, 1, 0), NewVec3(0, 0, 1)},
		{"axis rotate", Rotate(180, NewVec3(0, 1, 0)), NewVec3(1, 0, 0), NewVec3(-1, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.xf.ApplyVector(tt.in); !vecClose(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestTransform_MulAndInverse(t *testing.T) {
	xf := Translate(0, 0, 5).Mul(RotateY(90)).Mul(MustScale(2, 2, 2))
	p := NewVec3(1, 0, 0)

	// scale -> (2,0,0), rotate -> (0,0,-2), translate -> (0,0,3)
	world := xf.ApplyPoint(p)
	if !vecClose(world, NewVec3(0, 0, 3)) {
		t.Errorf("Expected (0,0,3), got %v", world)
	}
	if back := xf.Inverse().ApplyPoint(world); !vecClose(back, p) {
		t.Errorf("Expected inverse to round-trip to %v, got %v", p, back)
	}
}

func TestTransform_LookAt(t *testing.T) {
	xf, err := LookAt(NewVec3(0, 0, 5), NewVec3(0, 0, 0), NewVec3(0, 1, 0))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := xf.ApplyPoint(NewVec3(0, 0, 0)); !vecClose(got, NewVec3(0, 0, 5)) {
		t.Errorf("Expected camera origin at eye, got %v", got)
	}
	if got := xf.ApplyVector(NewVec3(0, 0, -1)); !vecClose(got, NewVec3(0, 0, -1)) {
		t.Errorf("Expected forward toward target, got %v", got)
	}
	if got := xf.ApplyVector(NewVec3(1, 0, 0)); !vecClose(got, NewVec3(1, 0, 0)) {
		t.Errorf("Expected right axis +X, got %v", got)
	}

	if _, err := LookAt(NewVec3(1, 1, 1), NewVec3(1, 1, 1), NewVec3(0, 1, 0)); err == nil {
		t.Error("Expected error when target equals eye")
	}
	if _, err := LookAt(NewVec3(0, 0, 0), NewVec3(0, 5, 0), NewVec3(0, 1, 0)); err == nil {
		t.Error("Expected error when up is parallel to view direction")
	}
}

func TestNewTransform_Singular(t *testing.T) {
	if _, err := NewTransform(mgl64.Mat4{}); err == nil {
		t.Error("Expected error for singular matrix")
	}
	m := mgl64.Ident4()
	m[0] = math.NaN()
	if _, err := NewTransform(m); err == nil {
		t.Error("Expected error for NaN matrix")
	}
	if _, err := NewTransform(mgl64.Translate3D(1, 2, 3)); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestScale_InvalidFactors(t *testing.T) {
	tests := []struct {
		name       string
		sx, sy, sz float64
	}{
		{"zero x", 0, 1, 1},
		{"zero z", 1, 1, 0},
		{"NaN", 1, math.NaN(), 1},
		{"infinite", math.Inf(1), 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Scale(tt.sx, tt.sy, tt.sz); err == nil {
				t.Errorf("Expected error for scale (%g, %g, %g)", tt.sx, tt.sy, tt.sz)
			}
		})
	}

	xf, err := Scale(2, 3, 4)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := xf.ApplyPoint(NewVec3(1, 1, 1)); !vecClose(got, NewVec3(2, 3, 4)) {
		t.Errorf("Expected (2,3,4), got %v", got)
	}
}

func TestTransform_ApplyAABB(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	moved := Translate(10, 0, 0).ApplyAABB(box)
	if !vecClose(moved.Min, NewVec3(9, -1, -1)) || !vecClose(moved.Max, NewVec3(11, 1, 1)) {
		t.Errorf("Expected translated box, got %v", moved)
	}
}
