/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

// Package cubegeometry implements the Geometry Builder: it walks every input
// exposure, computes each band's footprint, reduces to a global cube bounding box, and
// derives the regular axis grids (NAXIS, CRPIX, CRVAL, CDELT) the rest of the core reads.
package cubegeometry

/*****************************************************************************************************************/

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/orbitalforge/ifucube/pkg/astrometry"
	"github.com/orbitalforge/ifucube/pkg/exposure"
	"github.com/orbitalforge/ifucube/pkg/instrument"
	"github.com/orbitalforge/ifucube/pkg/projection"
	stats "github.com/orbitalforge/ifucube/pkg/statistics"
	"github.com/orbitalforge/ifucube/internal/params"
)

/*****************************************************************************************************************/

// Axis is one regular axis of the output cube: NAXIS, CRPIX, CRVAL, CDELT, and the
// spaxel-center coordinate array.
type Axis struct {
	NAXIS int
	CRPIX float64
	CRVAL float64
	CDELT float64
	Coord []float64
}

/*****************************************************************************************************************/

// Geometry is the Geometry Builder's output: the cube's three regular axes plus, for a
// tangent-plane (world) cube, the sky reference point the tangent plane is centered on.
// For an alpha-beta cube, X and Y are the native (alpha, beta) axes and SkyRA/SkyDec are
// unused.
type Geometry struct {
	CoordSystem params.CoordSystem

	SkyRA, SkyDec float64 // valid only when CoordSystem == CoordSystemWorld

	X, Y, Z Axis

	// CdeltNormal is the per-plane wavelength step used to scale the spectral ROI:
	// zcoord[k+1]-zcoord[k] per plane. It has length Z.NAXIS; the last entry duplicates
	// the penultimate.
	CdeltNormal []float64
}

/*****************************************************************************************************************/

// TangentPlane projects a sky coordinate onto this cube's (xi, eta) tangent plane about
// (SkyRA, SkyDec). Valid only for a world coord-system cube.
func (g Geometry) TangentPlane(ra, dec float64) (xi, eta float64) {
	return projection.ConvertEquatorialToTangentPlane(ra, dec, g.SkyRA, g.SkyDec)
}

/*****************************************************************************************************************/

// Input is one exposure contributing to the cube, tagged with the band it was read for.
type Input struct {
	Exposure exposure.Exposure
	Band     astrometry.BandKey
}

/*****************************************************************************************************************/

// discoverFootprints computes every input's sky footprint concurrently. Footprint
// discovery only reads exposure data (no shared accumulator is touched), so it is safe
// to parallelize even though the cube's own accumulation phase (C3/C4) is strictly
// single-threaded and synchronous.
func discoverFootprints(ctx context.Context, inputs []Input, ops instrument.Ops, info instrument.Info) ([]astrometry.Footprint, error) {
	footprints := make([]astrometry.Footprint, len(inputs))

	g, _ := errgroup.WithContext(ctx)

	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			footprints[i] = ops.ExposureFootprint(in.Exposure, in.Band, info)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return footprints, nil
}

/*****************************************************************************************************************/

// reduceFootprints folds per-exposure footprints down to a single global bounding box,
// skipping any exposure whose footprint is empty (an exposure entirely outside the cube
// contributes zero samples). The seed entries keep the reduction well-defined when every
// footprint is empty.
func reduceFootprints(footprints []astrometry.Footprint) astrometry.Footprint {
	raMin := []float64{math.Inf(1)}
	raMax := []float64{math.Inf(-1)}
	decMin := []float64{math.Inf(1)}
	decMax := []float64{math.Inf(-1)}
	waveMin := []float64{math.Inf(1)}
	waveMax := []float64{math.Inf(-1)}

	for _, fp := range footprints {
		if fp == (astrometry.Footprint{}) {
			continue
		}

		raMin = append(raMin, fp.RAMin)
		raMax = append(raMax, fp.RAMax)
		decMin = append(decMin, fp.DecMin)
		decMax = append(decMax, fp.DecMax)
		waveMin = append(waveMin, fp.WaveMin)
		waveMax = append(waveMax, fp.WaveMax)
	}

	return astrometry.Footprint{
		RAMin: floats.Min(raMin), RAMax: floats.Max(raMax),
		DecMin: floats.Min(decMin), DecMax: floats.Max(decMax),
		WaveMin: floats.Min(waveMin), WaveMax: floats.Max(waveMax),
	}
}

/*****************************************************************************************************************/

// BuildWorld implements the `world` branch of the Geometry Builder. cdelt1 and cdelt2
// are expected equal: spatial pixels are square in arcsec.
func BuildWorld(
	ctx context.Context,
	inputs []Input,
	ops instrument.Ops,
	info instrument.Info,
	resolved params.Resolved,
	cdelt1, cdelt2 float64,
) (Geometry, error) {
	footprints, err := discoverFootprints(ctx, inputs, ops, info)
	if err != nil {
		return Geometry{}, err
	}

	fp := reduceFootprints(footprints)

	decAve := (fp.DecMin + fp.DecMax) / 2.0

	// The circular mean is taken over only the global ra_min/ra_max pair, not every
	// individual exposure's footprint; behavior at antipodal footprints is undefined.
	raAve := stats.CircularMeanRADegrees([]float64{fp.RAMin, fp.RAMax}, nil)

	xiMin, etaMin := projection.ConvertEquatorialToTangentPlane(fp.RAMin, fp.DecMin, raAve, decAve)
	xiMax, etaMax := projection.ConvertEquatorialToTangentPlane(fp.RAMax, fp.DecMax, raAve, decAve)

	x := quantizeSymmetricAxis(xiMin, xiMax, cdelt1)
	y := quantizeSymmetricAxis(etaMin, etaMax, cdelt2)

	z, cdeltNormal := buildWavelengthAxis(resolved.Spectral, fp.WaveMin, fp.WaveMax)

	return Geometry{
		CoordSystem: params.CoordSystemWorld,
		SkyRA:       raAve,
		SkyDec:      decAve,
		X:           x,
		Y:           y,
		Z:           z,
		CdeltNormal: cdeltNormal,
	}, nil
}

/*****************************************************************************************************************/

// quantizeSymmetricAxis implements the half-pixel-padded axis quantization rule shared by
// both spatial axes: n_a = ceil(|min|/cdelt), n_b = ceil(|max|/cdelt),
// NAXIS = n_a+n_b, min is recentered to -n_a*cdelt - cdelt/2, CRPIX = n_a+1.
func quantizeSymmetricAxis(min, max, cdelt float64) Axis {
	na := int(math.Ceil(math.Abs(min) / cdelt))
	nb := int(math.Ceil(math.Abs(max) / cdelt))

	naxis := na + nb

	quantizedMin := 0.0 - float64(na)*cdelt - cdelt/2.0

	coord := make([]float64, naxis)
	start := quantizedMin + cdelt/2.0
	for i := range coord {
		coord[i] = start
		start += cdelt
	}

	return Axis{
		NAXIS: naxis,
		CRPIX: float64(na) + 1.0,
		CRVAL: 0, // populated by the caller from the sky reference point (CRVAL1/CRVAL2)
		CDELT: cdelt,
		Coord: coord,
	}
}

/*****************************************************************************************************************/

// buildWavelengthAxis builds the z axis: linear (recentered about the requested range's
// midpoint so the quantized range stays symmetric) or tabulated (the instrument's sliced
// wavelength table).
func buildWavelengthAxis(spectral params.SpectralAxis, waveMin, waveMax float64) (Axis, []float64) {
	if spectral.Linear {
		cdelt3 := spectral.Step

		rangeLambda := waveMax - waveMin
		naxis3 := int(math.Ceil(rangeLambda / cdelt3))
		if naxis3 < 1 {
			naxis3 = 1
		}

		center := (waveMax + waveMin) / 2.0
		lambdaMin := center - (float64(naxis3)/2.0)*cdelt3

		coord := make([]float64, naxis3)
		z := lambdaMin + cdelt3/2.0
		for i := range coord {
			coord[i] = z
			z += cdelt3
		}

		axis := Axis{
			NAXIS: naxis3,
			CRPIX: 1.0,
			CRVAL: lambdaMin + cdelt3/2.0,
			CDELT: cdelt3,
			Coord: coord,
		}

		return axis, cdeltNormalFor(coord, cdelt3)
	}

	table := spectral.Table
	coord := make([]float64, len(table))
	for i, p := range table {
		coord[i] = p.Wave
	}

	var crval float64
	if len(coord) > 0 {
		crval = coord[0]
	}

	axis := Axis{
		NAXIS: len(coord),
		CRPIX: 1.0,
		CRVAL: crval,
		CDELT: 0,
		Coord: coord,
	}

	return axis, cdeltNormalFor(coord, 0)
}

/*****************************************************************************************************************/

// cdeltNormalFor derives the per-plane wavelength step array: for a linear
// axis every entry equals cdelt3; for a tabulated axis it is the per-plane difference,
// with the final entry duplicated from the penultimate.
func cdeltNormalFor(coord []float64, cdelt3 float64) []float64 {
	n := len(coord)
	if n == 0 {
		return nil
	}

	normal := make([]float64, n)

	if cdelt3 != 0 {
		for i := range normal {
			normal[i] = cdelt3
		}
		return normal
	}

	for i := 0; i < n-1; i++ {
		normal[i] = coord[i+1] - coord[i]
	}
	if n > 1 {
		normal[n-1] = normal[n-2]
	}

	return normal
}

/*****************************************************************************************************************/

// AlphaBetaFootprint is a single exposure's native-frame footprint: alpha/beta extent
// plus wavelength extent.
type AlphaBetaFootprint struct {
	AlphaMin, AlphaMax float64
	BetaMin, BetaMax   float64
	WaveMin, WaveMax   float64
}

/*****************************************************************************************************************/

// BuildAlphaBeta implements the alpha-beta branch of the Geometry Builder. NAXIS2 is
// forced to a one-to-one mapping with the instrument's slice count rather than being
// derived by quantizing the beta range.
func BuildAlphaBeta(fp AlphaBetaFootprint, cdelt1, cdelt3 float64, nSlice int) Geometry {
	rangeA := fp.AlphaMax - fp.AlphaMin
	naxis1 := int(math.Ceil(rangeA / cdelt1))

	aCenter := (fp.AlphaMax + fp.AlphaMin) / 2.0
	aMin := aCenter - (float64(naxis1)/2.0)*cdelt1

	xcoord := make([]float64, naxis1)
	x := aMin + cdelt1/2.0
	for i := range xcoord {
		xcoord[i] = x
		x += cdelt1
	}

	xAxis := Axis{NAXIS: naxis1, CRPIX: 0.5, CRVAL: aMin, CDELT: cdelt1, Coord: xcoord}

	rangeLambda := fp.WaveMax - fp.WaveMin
	naxis3 := int(math.Ceil(rangeLambda / cdelt3))
	lambdaCenter := (fp.WaveMax + fp.WaveMin) / 2.0
	lambdaMin := lambdaCenter - (float64(naxis3)/2.0)*cdelt3

	zcoord := make([]float64, naxis3)
	z := lambdaMin + cdelt3/2.0
	for i := range zcoord {
		zcoord[i] = z
		z += cdelt3
	}

	zAxis := Axis{NAXIS: naxis3, CRPIX: 1.0, CRVAL: lambdaMin + cdelt3/2.0, CDELT: cdelt3, Coord: zcoord}

	// CDELT2 = (beta_max - beta_min) / N_slice, NAXIS2 = N_slice exactly: beta is
	// quantized to slice index, not to a ROI-derived step.
	cdelt2 := (fp.BetaMax - fp.BetaMin) / float64(nSlice)

	ycoord := make([]float64, nSlice)
	y := fp.BetaMin + cdelt2/2.0
	for i := range ycoord {
		ycoord[i] = y
		y += cdelt2
	}

	yAxis := Axis{NAXIS: nSlice, CRPIX: 0.5, CRVAL: fp.BetaMin, CDELT: cdelt2, Coord: ycoord}

	return Geometry{
		CoordSystem: params.CoordSystemAlphaBeta,
		X:           xAxis,
		Y:           yAxis,
		Z:           zAxis,
		CdeltNormal: cdeltNormalFor(zcoord, cdelt3),
	}
}

/*****************************************************************************************************************/
