package core

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform is an affine transform stored together with its inverse, so that
// rays can be taken into object space and normals back out without inverting
// a matrix per intersection.
type Transform struct {
	m   mgl64.Mat4
	inv mgl64.Mat4
}

// Identity returns the identity transform
func Identity() Transform {
	return Transform{m: mgl64.Ident4(), inv: mgl64.Ident4()}
}

// NewTransform wraps a matrix. It fails if the matrix is singular or not finite.
func NewTransform(m mgl64.Mat4) (Transform, error) {
	for _, v := range m {
		if !isFinite(v) {
			return Transform{}, fmt.Errorf("transform matrix has non-finite entry")
		}
	}
	if math.Abs(m.Det()) < 1e-12 {
		return Transform{}, fmt.Errorf("transform matrix is singular")
	}
	return Transform{m: m, inv: m.Inv()}, nil
}

// Translate returns a translation by (dx, dy, dz)
func Translate(dx, dy, dz float64) Transform {
	return Transform{
		m:   mgl64.Translate3D(dx, dy, dz),
		inv: mgl64.Translate3D(-dx, -dy, -dz),
	}
}

// Scale returns a non-uniform scale. It fails for zero or non-finite factors.
func Scale(sx, sy, sz float64) (Transform, error) {
	for _, f := range []float64{sx, sy, sz} {
		if f == 0 || !isFinite(f) {
			return Transform{}, fmt.Errorf("invalid scale factors (%g, %g, %g)", sx, sy, sz)
		}
	}
	return Transform{
		m:   mgl64.Scale3D(sx, sy, sz),
		inv: mgl64.Scale3D(1/sx, 1/sy, 1/sz),
	}, nil
}

// MustScale is like Scale but panics on invalid factors. It is meant for
// constant factors in scene construction.
func MustScale(sx, sy, sz float64) Transform {
	xf, err := Scale(sx, sy, sz)
	if err != nil {
		panic(err)
	}
	return xf
}

// RotateX rotates by degrees around the X axis
func RotateX(degrees float64) Transform {
	m := mgl64.HomogRotate3DX(mgl64.DegToRad(degrees))
	return Transform{m: m, inv: m.Transpose()}
}

// RotateY rotates by degrees around the Y axis
func RotateY(degrees float64) Transform {
	m := mgl64.HomogRotate3DY(mgl64.DegToRad(degrees))
	return Transform{m: m, inv: m.Transpose()}
}

// RotateZ rotates by degrees around the Z axis
func RotateZ(degrees float64) Transform {
	m := mgl64.HomogRotate3DZ(mgl64.DegToRad(degrees))
	return Transform{m: m, inv: m.Transpose()}
}

// Rotate rotates by degrees around an arbitrary axis
func Rotate(degrees float64, axis Vec3) Transform {
	m := mgl64.HomogRotate3D(mgl64.DegToRad(degrees), toMgl(axis.Normalize()))
	return Transform{m: m, inv: m.Transpose()}
}

// LookAt returns the camera-to-world transform of a viewer at eye looking at
// target. Camera space looks down -Z with +Y up, so the columns of the result
// are the right, up and backward axes.
func LookAt(eye, target, up Vec3) (Transform, error) {
	forward := target.Subtract(eye)
	if forward.NearZero() {
		return Transform{}, fmt.Errorf("look-at target coincides with eye")
	}
	if forward.Normalize().Cross(up.Normalize()).NearZero() {
		return Transform{}, fmt.Errorf("look-at up vector is parallel to view direction")
	}
	view := mgl64.LookAtV(toMgl(eye), toMgl(target), toMgl(up))
	return Transform{m: view.Inv(), inv: view}, nil
}

// Mul composes t after other: the result applies other first, then t
func (t Transform) Mul(other Transform) Transform {
	return Transform{m: t.m.Mul4(other.m), inv: other.inv.Mul4(t.inv)}
}

// Inverse returns the inverse transform
func (t Transform) Inverse() Transform {
	return Transform{m: t.inv, inv: t.m}
}

// ApplyPoint transforms a point (w = 1)
func (t Transform) ApplyPoint(p Vec3) Vec3 {
	return fromMgl(mgl64.TransformCoordinate(toMgl(p), t.m))
}

// ApplyVector transforms a direction (w = 0); translation is ignored
func (t Transform) ApplyVector(v Vec3) Vec3 {
	return fromMgl(mgl64.TransformNormal(toMgl(v), t.m))
}

// ApplyNormal transforms a surface normal by the inverse transpose and renormalizes
func (t Transform) ApplyNormal(n Vec3) Vec3 {
	return fromMgl(mgl64.TransformNormal(toMgl(n), t.inv.Transpose())).Normalize()
}

// ApplyRay transforms origin and direction. The direction is not
// renormalized, so ray parameters t stay valid across spaces.
func (t Transform) ApplyRay(r Ray) Ray {
	return Ray{Origin: t.ApplyPoint(r.Origin), Direction: t.ApplyVector(r.Direction)}
}

// ApplyAABB returns the bounds of the transformed box
func (t Transform) ApplyAABB(box AABB) AABB {
	corners := box.Corners()
	for i, c := range corners {
		corners[i] = t.ApplyPoint(c)
	}
	return NewAABBFromPoints(corners[:]...)
}

func toMgl(v Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) Vec3 {
	return Vec3{X: v[0], Y: v[1], Z: v[2]}
}
