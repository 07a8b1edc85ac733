/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

// Package detector implements the Detector Mapper: for one exposure it transforms
// every valid detector pixel to cube-plane coordinates plus per-sample weighting
// parameters and DQ-filtered flux.
package detector

/*****************************************************************************************************************/

import (
	"math"
	"sort"

	"github.com/orbitalforge/ifucube/pkg/astrometry"
	"github.com/orbitalforge/ifucube/pkg/dqflags"
	"github.com/orbitalforge/ifucube/pkg/exposure"
	"github.com/orbitalforge/ifucube/pkg/instrument"
	"github.com/orbitalforge/ifucube/internal/cubegeometry"
	"github.com/orbitalforge/ifucube/internal/params"
)

/*****************************************************************************************************************/

// Sample is one detector pixel mapped into cube-plane coordinates, with its per-sample
// resampling parameters resolved.
type Sample struct {
	Coord1, Coord2, Wave float64 // (xi, eta, wave) in world mode; (alpha, beta, wave) in alpha-beta mode
	Flux                 float64
	SliceNo              int

	SpatialROI  float64
	SpectralROI float64
	WeightPower float64
	SoftRad     float64
	ScaleRad    float64

	// Alpha, Beta are populated only when the resolved weighting law is miripsf;
	// HasAlphaBeta reports whether they are valid.
	Alpha, Beta    float64
	HasAlphaBeta bool
}

/*****************************************************************************************************************/

// Options configures one Map call.
type Options struct {
	Band               astrometry.BandKey
	SubtractBackground bool
	CoordSystem        params.CoordSystem
	NeedsAlphaBeta     bool // true when the resolved weighting law is miripsf
}

/*****************************************************************************************************************/

// Map implements the Detector Mapper for one exposure: background subtraction,
// slice-number assignment, forward-WCS application, DQ/wavelength-range filtering,
// tangent-plane projection, and per-sample ROI/weighting assignment.
func Map(
	e exposure.Exposure,
	ops instrument.Ops,
	info instrument.Info,
	resolved params.Resolved,
	geom cubegeometry.Geometry,
	opts Options,
) []Sample {
	if opts.SubtractBackground {
		subtractBackground(e, opts.Band)
	}

	sliceMap := ops.SliceMapForExposure(e, opts.Band, info)

	roi := resolved.PerBand[opts.Band]

	waveMinBound, waveMaxBound := waveFilterBounds(geom)

	rows, columns := e.Shape()

	samples := make([]Sample, 0, rows*columns)

	for y := 0; y < rows; y++ {
		for x := 0; x < columns; x++ {
			flux, dq := e.At(x, y)
			if dq.HasAny(dqflags.DoNotUse | dqflags.NonScience) {
				continue
			}

			sliceNo := sliceMap.At(x, y)

			var coord1, coord2, wave float64
			var alpha, beta float64
			var hasAlphaBeta bool

			w := e.Meta().WCS

			if opts.CoordSystem == params.CoordSystemAlphaBeta {
				// Drop pixels where any of alpha, beta, or wave is NaN.
				alpha, beta, wave = w.DetectorToAlphaBeta(float64(x), float64(y))
				if math.IsNaN(alpha) || math.IsNaN(beta) || math.IsNaN(wave) {
					continue
				}
				coord1, coord2 = alpha, beta
				hasAlphaBeta = true
			} else {
				ra, dec, waveAt := w.DetectorToSky(float64(x), float64(y))
				wave = waveAt
				if math.IsNaN(wave) {
					continue
				}
				coord1, coord2 = geom.TangentPlane(ra, dec)

				if opts.NeedsAlphaBeta {
					a, b, _ := w.DetectorToAlphaBeta(float64(x), float64(y))
					alpha, beta = a, b
					hasAlphaBeta = !math.IsNaN(a) && !math.IsNaN(b)
				}
			}

			if wave < waveMinBound || wave > waveMaxBound {
				continue
			}

			sampleROI := resolveSampleROI(resolved, roi, wave)

			samples = append(samples, Sample{
				Coord1: coord1, Coord2: coord2, Wave: wave,
				Flux:    flux,
				SliceNo: sliceNo,

				SpatialROI:  sampleROI.SpatialROI,
				SpectralROI: sampleROI.SpectralROI,
				WeightPower: sampleROI.WeightPower,
				SoftRad:     sampleROI.SoftRad,
				ScaleRad:    sampleROI.ScaleRad,

				Alpha: alpha, Beta: beta, HasAlphaBeta: hasAlphaBeta,
			})
		}
	}

	return samples
}

/*****************************************************************************************************************/

// subtractBackground removes the per-band background polynomial from the exposure's flux
// in place, if one is present.
func subtractBackground(e exposure.Exposure, band astrometry.BandKey) {
	poly, ok := e.Meta().Background.ForBand(band)
	if !ok {
		return
	}

	rows, columns := e.Shape()
	for x := 0; x < columns; x++ {
		background := poly.Subtract(float64(x))
		for y := 0; y < rows; y++ {
			flux, _ := e.At(x, y)
			e.Set(x, y, flux-background)
		}
	}
}

/*****************************************************************************************************************/

// waveFilterBounds derives the wavelength acceptance window [CRVAL3 - |Δz0|, z_last +
// |Δz_last|] from the cube's z axis.
func waveFilterBounds(geom cubegeometry.Geometry) (min, max float64) {
	n := geom.Z.NAXIS
	if n == 0 {
		return math.Inf(-1), math.Inf(1)
	}

	dz0 := geom.CdeltNormal[0]
	dzLast := geom.CdeltNormal[n-1]

	min = geom.Z.CRVAL - math.Abs(dz0)
	max = geom.Z.Coord[n-1] + math.Abs(dzLast)

	return min, max
}

/*****************************************************************************************************************/

// resolveSampleROI assigns per-sample (rois, roiw, weight_power, soft_rad, scale_rad): the
// band's stored scalars when the spectral axis is linear, else nearest-neighbor lookup in
// the wavelength table.
func resolveSampleROI(resolved params.Resolved, band params.BandROI, wave float64) params.BandROI {
	if resolved.Spectral.Linear || len(resolved.Spectral.Table) == 0 {
		return band
	}

	table := resolved.Spectral.Table
	i := sort.Search(len(table), func(i int) bool { return table[i].Wave >= wave })

	if i == 0 {
		return bandROIFromTablePoint(table[0])
	}
	if i == len(table) {
		return bandROIFromTablePoint(table[len(table)-1])
	}

	before, after := table[i-1], table[i]
	if wave-before.Wave <= after.Wave-wave {
		return bandROIFromTablePoint(before)
	}
	return bandROIFromTablePoint(after)
}

/*****************************************************************************************************************/

func bandROIFromTablePoint(p instrument.WaveTablePoint) params.BandROI {
	return params.BandROI{
		SpatialROI:  p.SpatialROI,
		SpectralROI: p.SpectralROI,
		WeightPower: p.WeightPower,
		SoftRad:     p.SoftRad,
		ScaleRad:    p.ScaleRad,
	}
}

/*****************************************************************************************************************/
