/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

// Package resample implements the Resampling Kernel: it accumulates mapped detector
// samples into the 3-D spaxel buffer using one of the modified-Shepard (MSM),
// exponential-MSM (EMSM), instrument-PSF-weighted (miripsf), or exact area-overlap
// resampling laws.
package resample

/*****************************************************************************************************************/

import (
	"math"

	"github.com/orbitalforge/ifucube/pkg/astrometry"
	"github.com/orbitalforge/ifucube/pkg/dqflags"
	"github.com/orbitalforge/ifucube/pkg/geometry"
	"github.com/orbitalforge/ifucube/pkg/instrument"
	"github.com/orbitalforge/ifucube/internal/cubegeometry"
	"github.com/orbitalforge/ifucube/internal/detector"
	"github.com/orbitalforge/ifucube/internal/params"
)

/*****************************************************************************************************************/

// SpaxelGrid is the cube's three accumulation buffers plus its DQ plane, the only shared
// mutable state the kernel touches.
type SpaxelGrid struct {
	NAXIS1, NAXIS2, NAXIS3 int

	SumFlux   []float64
	SumWeight []float64
	Count     []int
	DQ        []dqflags.Flag
}

/*****************************************************************************************************************/

// NewSpaxelGrid allocates a zero-initialized grid of the given shape.
func NewSpaxelGrid(naxis1, naxis2, naxis3 int) *SpaxelGrid {
	n := naxis1 * naxis2 * naxis3
	return &SpaxelGrid{
		NAXIS1: naxis1, NAXIS2: naxis2, NAXIS3: naxis3,
		SumFlux: make([]float64, n), SumWeight: make([]float64, n),
		Count: make([]int, n), DQ: make([]dqflags.Flag, n),
	}
}

/*****************************************************************************************************************/

func (g *SpaxelGrid) Index(i, j, k int) int {
	return (k*g.NAXIS2+j)*g.NAXIS1 + i
}

/*****************************************************************************************************************/

func (g *SpaxelGrid) accumulate(i, j, k int, flux, weight float64) {
	idx := g.Index(i, j, k)
	g.SumFlux[idx] += weight * flux
	g.SumWeight[idx] += weight
	g.Count[idx]++
}

/*****************************************************************************************************************/

// SpaxelReprojector maps a spaxel index (i, j, k) to the instrument-native (alpha, beta) at
// that spaxel's (ra, dec, wave), built once per exposure (spaxel → ra,dec,λ → v2v3 → α,β)
// and reused by every sample of that exposure, per the miripsf weighting law's per-spaxel
// re-projection.
type SpaxelReprojector func(i, j, k int) (alpha, beta float64)

/*****************************************************************************************************************/

// indexWindow returns the inclusive [lo, hi] spaxel-index range whose centers can possibly
// fall within roi of center, given an evenly-spaced axis with the given step, clamped to
// [0, naxis-1].
func indexWindow(center, roi, coord0, cdelt float64, naxis int) (lo, hi int) {
	if cdelt == 0 || naxis == 0 {
		return 0, naxis - 1
	}

	loF := (center - roi - coord0) / cdelt
	hiF := (center + roi - coord0) / cdelt

	lo = int(math.Floor(loF))
	hi = int(math.Ceil(hiF))

	if lo < 0 {
		lo = 0
	}
	if hi > naxis-1 {
		hi = naxis - 1
	}

	return lo, hi
}

/*****************************************************************************************************************/

// AccumulatePointcloud implements the pointcloud/MSM, EMSM, and miripsf resampling laws.
// Weighting dispatch happens once for the whole exposure, not per sample. reproject is
// required (and ignored otherwise) only when weighting.Kind == params.WeightingMIRIPSF.
func AccumulatePointcloud(
	grid *SpaxelGrid,
	geom cubegeometry.Geometry,
	samples []detector.Sample,
	weighting params.Weighting,
	info instrument.Info,
	band astrometry.BandKey,
	reproject SpaxelReprojector,
) {
	switch weighting.Kind {
	case params.WeightingEMSM:
		accumulateDistanceWeighted(grid, geom, samples, emsmWeight)
	case params.WeightingMIRIPSF:
		accumulateMIRIPSF(grid, geom, samples, info, band, reproject)
	default:
		accumulateDistanceWeighted(grid, geom, samples, msmWeight)
	}
}

/*****************************************************************************************************************/

func msmWeight(d, p, soft, _ float64) float64 {
	dp := math.Pow(d, p)
	softp := math.Pow(soft, p)
	return 1.0 / math.Max(dp, softp)
}

/*****************************************************************************************************************/

func emsmWeight(d, _, _, scale float64) float64 {
	if scale == 0 {
		return 0
	}
	return math.Exp(-(d * d) / (scale * scale))
}

/*****************************************************************************************************************/

// distanceWeightFunc computes a sample's weight from its scale-normalized distance d, its
// weight power p, soft radius, and scale radius (only one of the latter two is used by any
// given law).
type distanceWeightFunc func(d, p, soft, scale float64) float64

/*****************************************************************************************************************/

func accumulateDistanceWeighted(grid *SpaxelGrid, geom cubegeometry.Geometry, samples []detector.Sample, weightFn distanceWeightFunc) {
	x0 := geom.X.Coord[0]
	y0 := geom.Y.Coord[0]

	for _, s := range samples {
		iLo, iHi := indexWindow(s.Coord1, s.SpatialROI, x0, geom.X.CDELT, grid.NAXIS1)
		jLo, jHi := indexWindow(s.Coord2, s.SpatialROI, y0, geom.Y.CDELT, grid.NAXIS2)

		for k := 0; k < grid.NAXIS3; k++ {
			dzStep := geom.CdeltNormal[k]
			if dzStep == 0 {
				continue
			}

			dz := (geom.Z.Coord[k] - s.Wave) / dzStep
			if math.Abs(dz) > s.SpectralROI/dzStep {
				continue
			}

			for j := jLo; j <= jHi; j++ {
				dy := (geom.Y.Coord[j] - s.Coord2) / geom.Y.CDELT
				if math.Abs(dy) > s.SpatialROI/geom.Y.CDELT {
					continue
				}

				for i := iLo; i <= iHi; i++ {
					dx := (geom.X.Coord[i] - s.Coord1) / geom.X.CDELT
					if math.Abs(dx) > s.SpatialROI/geom.X.CDELT {
						continue
					}

					d := math.Sqrt(dx*dx + dy*dy + dz*dz)

					w := weightFn(d, s.WeightPower, s.SoftRad, s.ScaleRad)
					if w <= 0 || math.IsInf(w, 1) {
						continue
					}

					grid.accumulate(i, j, k, s.Flux, w)
				}
			}
		}
	}
}

/*****************************************************************************************************************/

// accumulateMIRIPSF implements the analytic miripsf weighting law: distance is computed in
// detector-native (alpha, beta, lambda) via the per-spaxel reprojection built once for this
// exposure.
func accumulateMIRIPSF(
	grid *SpaxelGrid,
	geom cubegeometry.Geometry,
	samples []detector.Sample,
	info instrument.Info,
	band astrometry.BandKey,
	reproject SpaxelReprojector,
) {
	if reproject == nil {
		return
	}

	psfAlpha := info.GetPSFAlphaParameters(band)
	psfBeta := info.GetPSFBetaParameters(band)
	rpAveWave := info.GetRPAveWave(band)

	x0 := geom.X.Coord[0]
	y0 := geom.Y.Coord[0]

	for _, s := range samples {
		if !s.HasAlphaBeta {
			continue
		}

		iLo, iHi := indexWindow(s.Coord1, s.SpatialROI, x0, geom.X.CDELT, grid.NAXIS1)
		jLo, jHi := indexWindow(s.Coord2, s.SpatialROI, y0, geom.Y.CDELT, grid.NAXIS2)

		for k := 0; k < grid.NAXIS3; k++ {
			dzStep := geom.CdeltNormal[k]
			if dzStep == 0 {
				continue
			}

			dWave := geom.Z.Coord[k] - s.Wave
			if math.Abs(dWave)/dzStep > s.SpectralROI/dzStep {
				continue
			}

			for j := jLo; j <= jHi; j++ {
				for i := iLo; i <= iHi; i++ {
					alpha, beta := reproject(i, j, k)

					dAlpha := alpha - s.Alpha
					dBeta := beta - s.Beta

					w := psfAlphaWeight(psfAlpha, dAlpha) * psfBetaWeight(psfBeta, dBeta) * lsfWeight(rpAveWave, s.Wave, dWave)
					if w <= 0 {
						continue
					}

					grid.accumulate(i, j, k, s.Flux, w)
				}
			}
		}
	}
}

/*****************************************************************************************************************/

func psfAlphaWeight(p instrument.PSFAlphaParameters, dAlpha float64) float64 {
	sigma := p.Sigma
	if sigma == 0 {
		sigma = 1
	}
	x := dAlpha - p.XCent
	return math.Exp(-0.5 * (x * x) / (sigma * sigma))
}

/*****************************************************************************************************************/

func psfBetaWeight(p instrument.PSFBetaParameters, dBeta float64) float64 {
	sigma := p.Sigma
	if sigma == 0 {
		sigma = 1
	}
	return math.Exp(-0.5 * (dBeta * dBeta) / (sigma * sigma))
}

/*****************************************************************************************************************/

func lsfWeight(rpAveWave, wave, dWave float64) float64 {
	if rpAveWave <= 0 {
		return 1
	}
	sigma := wave / rpAveWave
	if sigma == 0 {
		return 1
	}
	return math.Exp(-0.5 * (dWave * dWave) / (sigma * sigma))
}

/*****************************************************************************************************************/

// AreaSample is one detector pixel's polygon in the (alpha, lambda) plane, for the area
// resampling law (single-exposure, alpha-beta coords only).
type AreaSample struct {
	Polygon []geometry.Point // corners in (alpha, lambda); beta is exactly the slice number
	SliceNo int
	Flux    float64
}

/*****************************************************************************************************************/

// AccumulateArea implements the area resampling law via Sutherland-Hodgman polygon-rectangle
// intersection: β is exactly the slice number, so only the (alpha, lambda) plane is clipped
// against each candidate voxel's rectangle.
func AccumulateArea(grid *SpaxelGrid, geom cubegeometry.Geometry, samples []AreaSample) {
	for _, s := range samples {
		if s.SliceNo < 0 || s.SliceNo >= grid.NAXIS2 {
			continue
		}

		xmin, xmax := polygonBoundsX(s.Polygon)
		zmin, zmax := polygonBoundsY(s.Polygon)

		iLo, iHi := indexWindow((xmin+xmax)/2, (xmax-xmin)/2, geom.X.Coord[0], geom.X.CDELT, grid.NAXIS1)
		kLo, kHi := indexWindow((zmin+zmax)/2, (zmax-zmin)/2, geom.Z.Coord[0], geom.Z.CDELT, grid.NAXIS3)

		for k := kLo; k <= kHi; k++ {
			cdeltZ := geom.CdeltNormal[k]
			if cdeltZ == 0 {
				continue
			}

			for i := iLo; i <= iHi; i++ {
				area := geometry.PolygonAreaOverlapWithRectangle(s.Polygon, geom.X.Coord[i], geom.Z.Coord[k], geom.X.CDELT, cdeltZ)
				if area <= 0 {
					continue
				}

				idx := grid.Index(i, s.SliceNo, k)
				grid.SumFlux[idx] += area * s.Flux
				grid.SumWeight[idx] += area
				grid.Count[idx]++
			}
		}
	}
}

/*****************************************************************************************************************/

func polygonBoundsX(polygon []geometry.Point) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, p := range polygon {
		if p.X < min {
			min = p.X
		}
		if p.X > max {
			max = p.X
		}
	}
	return min, max
}

/*****************************************************************************************************************/

func polygonBoundsY(polygon []geometry.Point) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, p := range polygon {
		if p.Y < min {
			min = p.Y
		}
		if p.Y > max {
			max = p.Y
		}
	}
	return min, max
}

/*****************************************************************************************************************/
