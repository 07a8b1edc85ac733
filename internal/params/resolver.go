/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

// Package params implements the Parameter Resolver: given the list of bands going
// into a cube, it reads per-band scale, region-of-interest, and weighting parameters from
// the instrument's parameter table and decides between a linear or tabulated wavelength
// axis.
package params

/*****************************************************************************************************************/

import (
	"errors"
	"fmt"
	"math"

	"github.com/orbitalforge/ifucube/pkg/astrometry"
	"github.com/orbitalforge/ifucube/pkg/instrument"
)

/*****************************************************************************************************************/

// ErrIncorrectInput is returned for configuration combinations the core refuses to
// resolve: area interpolation with more than one exposure or band, or an alpha-beta
// cube built from more than one exposure.
var ErrIncorrectInput = errors.New("ifucube: incorrect input configuration")

/*****************************************************************************************************************/

// ErrAreaInterpolation is returned when area interpolation is requested alongside a
// nonzero scale2 override (the second spatial axis), which the area resampling kernel
// cannot honor (an area cube's beta step is fixed by the instrument's slice count).
var ErrAreaInterpolation = errors.New("ifucube: area interpolation does not support a scale2 override")

/*****************************************************************************************************************/

type Interpolation int

const (
	InterpolationPointcloud Interpolation = iota
	InterpolationArea
)

/*****************************************************************************************************************/

type CoordSystem int

const (
	CoordSystemWorld CoordSystem = iota
	CoordSystemAlphaBeta
)

/*****************************************************************************************************************/

type OutputType int

const (
	OutputMulti OutputType = iota
	OutputSingle
	OutputBand
)

/*****************************************************************************************************************/

// WeightingKind tags the resampling kernel's weighting law.
type WeightingKind int

const (
	WeightingMSM WeightingKind = iota
	WeightingEMSM
	WeightingMIRIPSF
)

/*****************************************************************************************************************/

// Weighting is the resolved, monomorphic weighting-law descriptor the resampling kernel
// branches on once per exposure rather than once per sample.
type Weighting struct {
	Kind WeightingKind
}

/*****************************************************************************************************************/

// Overrides carries the user-facing pars_cube configuration.
type Overrides struct {
	Scale1, Scale2, ScaleW float64
	ROIs, ROIW             float64
	WeightPower            float64
	WaveMin, WaveMax       float64
	Interpolation          Interpolation
	CoordSystem            CoordSystem
	Weighting              Weighting
	OutputType             OutputType
}

/*****************************************************************************************************************/

// SpectralAxis is the resolved wavelength axis: linear (a single CDELT3 step) or
// tabulated (an instrument-specific, range-sliced wavelength lookup table).
type SpectralAxis struct {
	Linear bool
	Step   float64 // valid when Linear
	Table  []instrument.WaveTablePoint // valid when !Linear
}

/*****************************************************************************************************************/

// BandROI is a band's resolved region-of-influence and weighting parameters, after
// dither-pattern compensation.
type BandROI struct {
	SpatialROI  float64
	SpectralROI float64
	WeightPower float64
	SoftRad     float64
	ScaleRad    float64
}

/*****************************************************************************************************************/

// Resolved is the Parameter Resolver's output, consumed by the Geometry Builder and
// Detector Mapper.
type Resolved struct {
	SpatialScale float64
	Spectral     SpectralAxis
	PerBand      map[astrometry.BandKey]BandROI
	WaveMin      float64
	WaveMax      float64
	Weighting    Weighting
}

/*****************************************************************************************************************/

// Resolve implements the Parameter Resolver. numExposures is the count of input
// exposures being combined into this cube; it drives both the IncorrectInput failure
// modes and the dither-compensation ROI scaling.
func Resolve(
	bands []astrometry.BandKey,
	info instrument.Info,
	overrides Overrides,
	numExposures int,
) (Resolved, error) {
	if err := validate(overrides, numExposures, len(bands)); err != nil {
		return Resolved{}, err
	}

	spatialScale := resolveSpatialScale(bands, info, overrides)

	spectral, waveMin, waveMax := resolveSpectralAxis(bands, info, overrides)

	dither := numExposures < 4 || overrides.OutputType == OutputSingle

	perBand := make(map[astrometry.BandKey]BandROI, len(bands))
	for _, band := range bands {
		perBand[band] = resolveBandROI(band, info, overrides, dither)
	}

	return Resolved{
		SpatialScale: spatialScale,
		Spectral:     spectral,
		PerBand:      perBand,
		WaveMin:      waveMin,
		WaveMax:      waveMax,
		Weighting:    overrides.Weighting,
	}, nil
}

/*****************************************************************************************************************/

// isSet reports whether a user override has been supplied. Zero and NaN both resolve to
// "unset"; 0 is the override sentinel for scale and ROI overrides.
func isSet(v float64) bool {
	return v != 0 && !math.IsNaN(v)
}

/*****************************************************************************************************************/

func validate(overrides Overrides, numExposures, numBands int) error {
	if overrides.Interpolation == InterpolationArea {
		if numExposures > 1 || numBands > 1 {
			return fmt.Errorf("%w: area interpolation requires exactly one exposure and one band", ErrIncorrectInput)
		}
		if isSet(overrides.Scale2) {
			return ErrAreaInterpolation
		}
	}

	if overrides.CoordSystem == CoordSystemAlphaBeta && numExposures > 1 {
		return fmt.Errorf("%w: alpha-beta coordinate system requires exactly one exposure", ErrIncorrectInput)
	}

	return nil
}

/*****************************************************************************************************************/

func resolveSpatialScale(bands []astrometry.BandKey, info instrument.Info, overrides Overrides) float64 {
	if isSet(overrides.Scale1) {
		return overrides.Scale1
	}

	min := math.Inf(1)
	allEqual := true
	var first float64

	for i, band := range bands {
		a, _, _ := info.GetScale(band)

		if i == 0 {
			first = a
		} else if a != first {
			allEqual = false
		}

		if a < min {
			min = a
		}
	}

	if allEqual && !math.IsInf(min, 1) {
		return first
	}

	return min
}

/*****************************************************************************************************************/

func resolveSpectralAxis(
	bands []astrometry.BandKey,
	info instrument.Info,
	overrides Overrides,
) (SpectralAxis, float64, float64) {
	waveMin, waveMax := resolveWaveRange(bands, info, overrides)

	if isSet(overrides.ScaleW) {
		return SpectralAxis{Linear: true, Step: overrides.ScaleW}, waveMin, waveMax
	}

	allEqual := true
	var first float64

	for i, band := range bands {
		_, _, w := info.GetScale(band)

		if i == 0 {
			first = w
		} else if w != first {
			allEqual = false
		}
	}

	if allEqual && len(bands) > 0 {
		return SpectralAxis{Linear: true, Step: first}, waveMin, waveMax
	}

	table := selectWaveTable(bands, info, overrides.Weighting)
	table = sliceWaveTable(table, waveMin, waveMax)

	return SpectralAxis{Linear: false, Table: table}, waveMin, waveMax
}

/*****************************************************************************************************************/

func selectWaveTable(bands []astrometry.BandKey, info instrument.Info, weighting Weighting) []instrument.WaveTablePoint {
	if len(bands) == 0 {
		return nil
	}

	// MIRI bands have non-empty multichannel tables keyed by weighting law; NIRSPEC
	// bands (grating/filter pairs) select among prism/medium/high resolution tables by
	// grating name.
	if mc := info.GetMultichannelTable(weightingName(weighting)); len(mc) > 0 {
		return mc
	}

	switch bands[0].Par1 {
	case "PRISM":
		return info.GetPrismTable()
	case "G140H", "G235H", "G395H":
		return info.GetHighTable()
	default:
		return info.GetMedTable()
	}
}

/*****************************************************************************************************************/

func weightingName(w Weighting) string {
	switch w.Kind {
	case WeightingEMSM:
		return "emsm"
	case WeightingMIRIPSF:
		return "miripsf"
	default:
		return "msm"
	}
}

/*****************************************************************************************************************/

// sliceWaveTable slices an instrument wavelength table to [waveMin, waveMax] inclusive,
// padding by one entry on each side when the table point lies strictly inside the
// requested limit.
func sliceWaveTable(table []instrument.WaveTablePoint, waveMin, waveMax float64) []instrument.WaveTablePoint {
	if len(table) == 0 {
		return nil
	}

	lo, hi := 0, len(table)-1

	for lo < len(table) && table[lo].Wave < waveMin {
		lo++
	}
	if lo > 0 && (lo == len(table) || table[lo].Wave > waveMin) {
		lo--
	}

	for hi >= 0 && table[hi].Wave > waveMax {
		hi--
	}
	if hi < len(table)-1 && (hi < 0 || table[hi].Wave < waveMax) {
		hi++
	}

	if lo > hi {
		return nil
	}

	return table[lo : hi+1]
}

/*****************************************************************************************************************/

func resolveWaveRange(bands []astrometry.BandKey, info instrument.Info, overrides Overrides) (float64, float64) {
	waveMin, waveMax := overrides.WaveMin, overrides.WaveMax

	if waveMin != 0 && waveMax != 0 {
		return waveMin, waveMax
	}

	min, max := math.Inf(1), math.Inf(-1)

	for _, band := range bands {
		bandMin := info.GetWaveMin(band)
		bandMax := info.GetWaveMax(band)

		if bandMin < min {
			min = bandMin
		}
		if bandMax > max {
			max = bandMax
		}
	}

	if waveMin == 0 {
		waveMin = min
	}
	if waveMax == 0 {
		waveMax = max
	}

	return waveMin, waveMax
}

/*****************************************************************************************************************/

func resolveBandROI(band astrometry.BandKey, info instrument.Info, overrides Overrides, dither bool) BandROI {
	spatial := info.GetSpatialRoi(band)
	if isSet(overrides.ROIs) {
		spatial = overrides.ROIs
	}

	if dither {
		spatial *= 1.5
	}

	spectral := info.GetWaveRoi(band)
	if isSet(overrides.ROIW) {
		spectral = overrides.ROIW
	}

	weightPower := info.GetMSMPower(band)
	if isSet(overrides.WeightPower) {
		weightPower = overrides.WeightPower
	}

	return BandROI{
		SpatialROI:  spatial,
		SpectralROI: spectral,
		WeightPower: weightPower,
		SoftRad:     info.GetSoftRad(band),
		ScaleRad:    info.GetScaleRad(band),
	}
}

/*****************************************************************************************************************/
