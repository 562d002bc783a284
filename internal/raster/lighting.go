package raster

import (
	"math"

	"mesh-cells-renderer/internal/mathutil"
)

// LightConfig holds precomputed lighting parameters for preview renders.
// Index-map renders never touch it: the whole point of disabling lighting
// is that cell colors reach the framebuffer unmodified.
type LightConfig struct {
	LightDir mathutil.Vec3
	RimDir   mathutil.Vec3
	HalfMain mathutil.Vec3 // precomputed half-vector for Blinn-Phong
	Ambient  float64
	Hemi     float64
	Direct   float64
	Rim      float64
	SpecInt  float64
	SpecPow  float64
	Exposure float64
	InvGamma float64
}

// DefaultLightConfig returns a neutral three-part rig (key, rim, hemisphere
// fill) that reads well on untextured scan geometry.
func DefaultLightConfig() LightConfig {
	lightDir := mathutil.Vec3{150, 240, 160}.Normalize()
	rimDir := mathutil.Vec3{-140, 120, -200}.Normalize()
	viewDir := mathutil.Vec3{0, 0, -1}

	return LightConfig{
		LightDir: lightDir,
		RimDir:   rimDir,
		HalfMain: lightDir.Sub(viewDir).Normalize(),
		Ambient:  0.55,
		Hemi:     0.45,
		Direct:   1.40,
		Rim:      0.50,
		SpecInt:  0.35,
		SpecPow:  12.0,
		Exposure: 1.05,
		InvGamma: 1.0 / 2.2,
	}
}

// ComputeShade returns the combined lighting scalar for a unit face normal.
func (lc *LightConfig) ComputeShade(nx, ny, nz float64) float64 {
	n := mathutil.Vec3{nx, ny, nz}

	// Lambertian (abs for double-sided scan surfaces)
	ndlMain := math.Abs(n.Dot(lc.LightDir))
	ndlRim := math.Abs(n.Dot(lc.RimDir))

	// Hemisphere fill
	hemi := ((1.0-math.Abs(ny))*0.5 + 0.5) * lc.Hemi

	// Blinn-Phong specular
	ndh := n.Dot(lc.HalfMain)
	if ndh < 0 {
		ndh = 0
	}
	spec := math.Pow(ndh, lc.SpecPow) * lc.SpecInt

	return lc.Ambient + hemi + ndlMain*lc.Direct + ndlRim*lc.Rim + spec
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}
