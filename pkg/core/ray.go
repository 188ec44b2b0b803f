package core

// Ray represents a ray with an origin and direction.
// The valid parametric range travels alongside the ray as (tMin, tMax).
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// IsValid reports whether the ray can be traced: finite origin and a finite,
// non-degenerate direction
func (r Ray) IsValid() bool {
	return r.Origin.IsFinite() && r.Direction.IsFinite() && !r.Direction.NearZero()
}
