package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// fixedSampler returns the same value from every call, for deterministic branches
type fixedSampler struct {
	value float64
}

func (s fixedSampler) Get1D() float64 { return s.value }
func (s fixedSampler) Get2D() core.Vec2 {
	return core.NewVec2(s.value, s.value)
}
func (s fixedSampler) Get3D() core.Vec3 {
	return core.NewVec3(s.value, s.value, s.value)
}

// countingSampler records how many numbers were drawn
type countingSampler struct {
	calls int
}

func (s *countingSampler) Get1D() float64 { s.calls++; return 0.5 }
func (s *countingSampler) Get2D() core.Vec2 {
	s.calls += 2
	return core.NewVec2(0.5, 0.5)
}
func (s *countingSampler) Get3D() core.Vec3 {
	s.calls += 3
	return core.NewVec3(0.5, 0.5, 0.5)
}

func upHit(m Material) HitRecord {
	return HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: true,
		Material:  m,
	}
}
