/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

// Package instrument models the per-band parameter table and the instrument-specific
// geometry operations the core treats as an external, already-loaded collaborator.
package instrument

/*****************************************************************************************************************/

import (
	"github.com/orbitalforge/ifucube/pkg/astrometry"
	"github.com/orbitalforge/ifucube/pkg/exposure"
	"github.com/orbitalforge/ifucube/pkg/geometry"
)

/*****************************************************************************************************************/

// Kind distinguishes the two supported spectrograph instruments.
type Kind int

/*****************************************************************************************************************/

const (
	MIRI Kind = iota
	NIRSPEC
)

/*****************************************************************************************************************/

func (k Kind) String() string {
	switch k {
	case MIRI:
		return "MIRI"
	case NIRSPEC:
		return "NIRSPEC"
	default:
		return "UNKNOWN"
	}
}

/*****************************************************************************************************************/

// WaveTablePoint is one row of an instrument's non-linear wavelength lookup table: a
// wavelength and the spatial/spectral ROI and weighting parameters to use at that
// wavelength.
type WaveTablePoint struct {
	Wave         float64
	SpatialROI   float64
	SpectralROI  float64
	WeightPower  float64
	SoftRad      float64
	ScaleRad     float64
}

/*****************************************************************************************************************/

// PSFAlphaParameters and PSFBetaParameters are the analytic miripsf weighting law's
// per-band resolution parameters.
type PSFAlphaParameters struct {
	Sigma  float64
	XCent  float64
}

/*****************************************************************************************************************/

type PSFBetaParameters struct {
	Sigma float64
}

/*****************************************************************************************************************/

// BandParameters is one band's row of the parameter table.
type BandParameters struct {
	Band astrometry.BandKey

	ScaleX, ScaleY, ScaleW float64 // GetScale -> (a, b, w)
	SpatialROI             float64
	SpectralROI            float64
	MSMWeightPower         float64
	SoftRad                float64
	ScaleRad               float64
	WaveMin, WaveMax       float64

	StartSlice, EndSlice int
	NSlice               int
	MIRISliceEndPts      []geometry.Point

	RPAveWave    float64
	PSFAlpha     PSFAlphaParameters
	PSFBeta      PSFBetaParameters
}

/*****************************************************************************************************************/

// Info is the instrument_info callable table: a read-only, already-loaded parameter
// table plus the non-linear wavelength tables this core selects from but never builds.
type Info interface {
	GetWaveRoi(band astrometry.BandKey) float64
	GetSpatialRoi(band astrometry.BandKey) float64
	GetScale(band astrometry.BandKey) (a, b, w float64)
	GetWaveMin(band astrometry.BandKey) float64
	GetWaveMax(band astrometry.BandKey) float64
	GetMSMPower(band astrometry.BandKey) float64
	GetSoftRad(band astrometry.BandKey) float64
	GetScaleRad(band astrometry.BandKey) float64

	GetStartSlice(band astrometry.BandKey) int
	GetEndSlice(band astrometry.BandKey) int
	GetMIRISliceEndPts(band astrometry.BandKey) []geometry.Point
	GetNSlice(band astrometry.BandKey) int

	GetRPAveWave(band astrometry.BandKey) float64
	GetPSFAlphaParameters(band astrometry.BandKey) PSFAlphaParameters
	GetPSFBetaParameters(band astrometry.BandKey) PSFBetaParameters

	GetMultichannelTable(weighting string) []WaveTablePoint
	GetPrismTable() []WaveTablePoint
	GetMedTable() []WaveTablePoint
	GetHighTable() []WaveTablePoint
}

/*****************************************************************************************************************/

// OverlapMode distinguishes the two FOV DQ footprint representations.
type OverlapMode int

/*****************************************************************************************************************/

const (
	OverlapModePolygon OverlapMode = iota
	OverlapModeLine
)

/*****************************************************************************************************************/

// SliceMap is a per-detector-pixel slice-number assignment, -1 where a pixel belongs to
// no slice.
type SliceMap struct {
	Rows, Columns int
	SliceNo       []int
}

/*****************************************************************************************************************/

// At returns the slice number assigned to detector pixel (x, y), or -1 if none.
func (m SliceMap) At(x, y int) int {
	i := y*m.Columns + x
	if i < 0 || i >= len(m.SliceNo) {
		return -1
	}
	return m.SliceNo[i]
}

/*****************************************************************************************************************/

// Ops is the instrument-specific geometry capability: building a
// slice-number map for an exposure, deriving an exposure's sky footprint, and choosing
// the FOV DQ engine's overlap-flagging mode. MIRI and NIRSPEC each provide one
// implementation.
type Ops interface {
	Kind() Kind

	// SliceMapForExposure builds the per-pixel slice-number map for one exposure:
	// MIRI uses the instrument's slice label mapper, NIRSPEC
	// sweeps 30 per-slice bounding boxes.
	SliceMapForExposure(e exposure.Exposure, band astrometry.BandKey, info Info) SliceMap

	// ExposureFootprint computes an exposure's sky-plane bounding box for the given band:
	// (ra_min, ra_max, dec_min, dec_max, wave_min, wave_max).
	ExposureFootprint(e exposure.Exposure, band astrometry.BandKey, info Info) astrometry.Footprint

	// DQOverlapMode reports whether this instrument's per-slice FOV footprint projects to
	// a polygon (MIRI) or a line (NIRSPEC), selecting the FOV DQ engine's flagging path.
	DQOverlapMode() OverlapMode
}

/*****************************************************************************************************************/
