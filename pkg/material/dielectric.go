package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	RefractiveIndex float64   // Index of refraction (e.g., 1.5 for glass)
	Tint            core.Vec3 // Transmission color; white keeps the estimator weight at 1
}

// NewDielectric creates a new clear dielectric material
func NewDielectric(refractiveIndex float64) *Dielectric {
	return NewTintedDielectric(refractiveIndex, core.NewVec3(1, 1, 1))
}

// NewTintedDielectric creates a dielectric that filters light by tint
func NewTintedDielectric(refractiveIndex float64, tint core.Vec3) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex, Tint: tint}
}

// Scatter picks reflection with probability equal to the Schlick reflectance
// and refraction otherwise, so the single-sample weight stays Tint.
func (d *Dielectric) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	refractionRatio := d.RefractiveIndex
	if hit.FrontFace {
		refractionRatio = 1.0 / d.RefractiveIndex
	}

	unitDirection := rayIn.Direction.Normalize()
	cosTheta := math.Min(-unitDirection.Dot(hit.Normal), 1.0)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))

	// Always draw so the random stream does not depend on the branch taken
	u := sampler.Get1D()

	var direction core.Vec3
	totalInternal := refractionRatio*sinTheta > 1.0
	if totalInternal || Reflectance(cosTheta, refractionRatio) > u {
		direction = unitDirection.Reflect(hit.Normal)
	} else {
		direction = refract(unitDirection, hit.Normal, cosTheta, refractionRatio)
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction.Normalize()),
		Attenuation: d.Tint,
	}, true
}

// refract bends the unit vector uv through a surface with normal n using Snell's law
func refract(uv, n core.Vec3, cosTheta, etaiOverEtat float64) core.Vec3 {
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(etaiOverEtat)
	rOutParallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel)
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
