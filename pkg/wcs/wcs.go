/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

// Package wcs models the exposure-level world-coordinate-system transforms the core
// consumes as an external collaborator (§1, §6: "the world-coordinate-system
// forward/inverse transforms (we only call them)"). The core never derives these
// transforms itself — it is handed one per exposure and calls its named methods.
//
// ExposureWCS is the consumed interface. AffineWCS is a concrete CD-matrix-backed
// implementation, adequate for synthetic test fixtures and for any real WCS that can be
// linearized locally (plus an optional SIP distortion term) around the exposure's
// reference pixel.
package wcs

/*****************************************************************************************************************/

import (
	"github.com/orbitalforge/ifucube/pkg/astrometry"
	"github.com/orbitalforge/ifucube/pkg/projection"
	"github.com/orbitalforge/ifucube/pkg/transform"
)

/*****************************************************************************************************************/

// ExposureWCS is the forward/inverse transform set an exposure must provide. The detector
// mapper calls these directly; it never inspects or rebuilds the transforms.
type ExposureWCS interface {
	// DetectorToAlphaBeta maps a detector pixel (x, y) to the instrument-native IFU plane
	// (alpha, beta) plus the sample's wavelength, for alpha-beta coordinate-system cubes.
	DetectorToAlphaBeta(x, y float64) (alpha, beta, wave float64)

	// DetectorToSky maps a detector pixel (x, y) directly to (ra, dec, wavelength).
	DetectorToSky(x, y float64) (ra, dec, wave float64)

	// WorldToV2V3 maps a sky coordinate to the observatory's V2/V3 focal-plane frame.
	WorldToV2V3(ra, dec float64) (v2, v3 float64)

	// V2V3ToAlphaBeta maps a V2/V3 focal-plane coordinate to the instrument-native
	// (alpha, beta) plane. Used by the miripsf weighting law to re-project a spaxel
	// center (via WorldToV2V3) back into detector-native coordinates.
	V2V3ToAlphaBeta(v2, v3 float64) (alpha, beta float64)
}

/*****************************************************************************************************************/

// AffineWCS is a linearized WCS: a CD-matrix-based detector-to-sky transform, an optional
// SIP forward distortion correction, and a pair of fixed affine transforms standing in for
// the V2/V3 and alpha-beta focal-plane relationships. Real instrument WCS objects are far
// richer than this; AffineWCS exists so the core's tests can exercise the ExposureWCS
// contract without a full reference-file-backed WCS implementation.
type AffineWCS struct {
	CRPIX1, CRPIX2 float64
	CRVAL1, CRVAL2 float64
	CD             transform.Affine2DParameters

	// WaveZeroPoint and WaveSlope give a simple linear dispersion relation
	// wave = WaveZeroPoint + WaveSlope*x, adequate for synthetic single-band fixtures.
	WaveZeroPoint float64
	WaveSlope     float64

	// SIP is an optional forward distortion correction applied to the detector offset
	// before the CD matrix; nil disables the correction.
	SIP *transform.SIP2DForwardParameters

	// V2V3Origin locates the instrument's V2/V3 origin relative to world (ra, dec);
	// AlphaBetaFrame models the (otherwise reference-file-derived) focal-plane
	// geometry as an affine transform from (v2, v3) to (alpha, beta).
	V2V3Origin     astrometry.ICRSEquatorialCoordinate
	AlphaBetaFrame transform.Affine2DParameters
}

/*****************************************************************************************************************/

// NewAffineWCS constructs an AffineWCS, mirroring the exposure-level construction pattern
// used throughout the package: the caller supplies the already-resolved CD matrix and
// reference pixel/value pair (typically read from a FITS header by the file-I/O layer,
// which sits outside this core's scope).
func NewAffineWCS(crpix1, crpix2, crval1, crval2 float64, cd transform.Affine2DParameters) AffineWCS {
	return AffineWCS{
		CRPIX1: crpix1,
		CRPIX2: crpix2,
		CRVAL1: crval1,
		CRVAL2: crval2,
		CD:     cd,
	}
}

/*****************************************************************************************************************/

// DetectorToSky maps a detector pixel (x, y) to (ra, dec, wave) via the CD matrix (plus an
// optional SIP correction) about (CRPIX1, CRPIX2)/(CRVAL1, CRVAL2), matching the tangent
// deprojection used for real FITS WCS headers.
func (w AffineWCS) DetectorToSky(x, y float64) (ra, dec, wave float64) {
	u := x - w.CRPIX1
	v := y - w.CRPIX2

	if w.SIP != nil {
		du, dv := w.SIP.Correct(u, v)
		u += du
		v += dv
	}

	xi, eta := w.CD.Apply(u, v)

	ra, dec = projection.ConvertTangentPlaneToEquatorial(xi, eta, w.CRVAL1, w.CRVAL2)

	return ra, dec, w.WaveZeroPoint + w.WaveSlope*x
}

/*****************************************************************************************************************/

// DetectorToAlphaBeta maps a detector pixel to the instrument-native (alpha, beta) plane
// by composing DetectorToSky with WorldToV2V3 and V2V3ToAlphaBeta, the same chain a real
// instrument WCS exposes as a single named transform.
func (w AffineWCS) DetectorToAlphaBeta(x, y float64) (alpha, beta, wave float64) {
	ra, dec, wave := w.DetectorToSky(x, y)
	v2, v3 := w.WorldToV2V3(ra, dec)
	alpha, beta = w.V2V3ToAlphaBeta(v2, v3)
	return alpha, beta, wave
}

/*****************************************************************************************************************/

// WorldToV2V3 projects a sky coordinate onto the observatory's V2/V3 focal-plane frame
// about the configured V2V3Origin, reusing the same tangent-plane projection as the cube's
// own (xi, eta) system but expressed in the instrument's own angular units (arcsec).
func (w AffineWCS) WorldToV2V3(ra, dec float64) (v2, v3 float64) {
	return projection.ConvertEquatorialToTangentPlane(ra, dec, w.V2V3Origin.RA, w.V2V3Origin.Dec)
}

/*****************************************************************************************************************/

// V2V3ToAlphaBeta maps a focal-plane (v2, v3) coordinate to (alpha, beta) via the
// configured AlphaBetaFrame affine transform.
func (w AffineWCS) V2V3ToAlphaBeta(v2, v3 float64) (alpha, beta float64) {
	return w.AlphaBetaFrame.Apply(v2, v3)
}

/*****************************************************************************************************************/

// PixelToEquatorialCoordinate is a thin convenience wrapper returning DetectorToSky's
// (ra, dec) as an astrometry.ICRSEquatorialCoordinate, dropping the wavelength — useful
// when only the spatial footprint of a pixel is needed.
func (w AffineWCS) PixelToEquatorialCoordinate(x, y float64) astrometry.ICRSEquatorialCoordinate {
	ra, dec, _ := w.DetectorToSky(x, y)
	return astrometry.ICRSEquatorialCoordinate{RA: ra, Dec: dec}
}

/*****************************************************************************************************************/
