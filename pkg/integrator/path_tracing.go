package integrator

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// rayEpsilon is the minimum hit distance, keeping scattered rays off the
// surface they leave
const rayEpsilon = 0.001

// PathTracingIntegrator implements unidirectional path tracing with the
// recursive estimator L = Le + f ⊙ L(scattered)
type PathTracingIntegrator struct {
	config scene.SamplingConfig
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config scene.SamplingConfig) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		config: config,
	}
}

// Radiance computes the color for a single camera ray
func (pt *PathTracingIntegrator) Radiance(ray core.Ray, sc *scene.Scene, sampler core.Sampler) core.Vec3 {
	return pt.radiance(ray, sc, sampler, 0, core.NewVec3(1, 1, 1))
}

// radiance follows one path segment. throughput is the product of the
// attenuations so far and only drives Russian roulette.
func (pt *PathTracingIntegrator) radiance(ray core.Ray, sc *scene.Scene, sampler core.Sampler, depth int, throughput core.Vec3) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth >= pt.config.MaxDepth {
		return core.Vec3{}
	}

	shouldTerminate, rrCompensation := pt.applyRussianRoulette(depth, throughput, sampler)
	if shouldTerminate {
		return core.Vec3{}
	}

	hit, isHit := sc.NearestHit(ray, rayEpsilon, math.Inf(1))
	if !isHit {
		return sc.Background.Radiance(ray.Direction).Multiply(rrCompensation)
	}

	colorEmitted := pt.getEmittedLight(ray, hit)

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		// Absorbed: only emitted light
		return colorEmitted.Multiply(rrCompensation)
	}

	incoming := pt.radiance(scatter.Scattered, sc, sampler, depth+1, throughput.MultiplyVec(scatter.Attenuation))
	return colorEmitted.Add(scatter.Attenuation.MultiplyVec(incoming)).Multiply(rrCompensation)
}

// getEmittedLight returns the emitted light from a material if it's emissive
func (pt *PathTracingIntegrator) getEmittedLight(ray core.Ray, hit *material.HitRecord) core.Vec3 {
	if emitter, isEmissive := hit.Material.(material.Emitter); isEmissive {
		return emitter.Emit(ray, *hit)
	}
	return core.Vec3{}
}

// applyRussianRoulette decides whether to terminate the path and returns the
// compensation factor that keeps the estimate unbiased when it survives.
// Disabled when RussianRouletteMinBounces is 0.
func (pt *PathTracingIntegrator) applyRussianRoulette(depth int, throughput core.Vec3, sampler core.Sampler) (bool, float64) {
	if pt.config.RussianRouletteMinBounces <= 0 || depth < pt.config.RussianRouletteMinBounces {
		return false, 1.0
	}

	// Survival probability between 0.5 and 0.95 limits compensation to [1.05, 2]
	survivalProb := math.Min(0.95, math.Max(0.5, throughput.Luminance()))

	if sampler.Get1D() > survivalProb {
		return true, 0.0
	}
	return false, 1.0 / survivalProb
}
