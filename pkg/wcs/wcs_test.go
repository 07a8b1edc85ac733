/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

package wcs

/*****************************************************************************************************************/

import (
	"math"
	"testing"

	"github.com/orbitalforge/ifucube/pkg/astrometry"
	"github.com/orbitalforge/ifucube/pkg/transform"
)

/*****************************************************************************************************************/

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

/*****************************************************************************************************************/

func TestNewAffineWCS(t *testing.T) {
	w := NewAffineWCS(1000, 1000, 10, 20, transform.Affine2DParameters{A: 1, E: 1})

	if w.CRPIX1 != 1000 || w.CRPIX2 != 1000 {
		t.Errorf("CRPIX not set correctly: (%v, %v)", w.CRPIX1, w.CRPIX2)
	}

	if w.CRVAL1 != 10 || w.CRVAL2 != 20 {
		t.Errorf("CRVAL not set correctly: (%v, %v)", w.CRVAL1, w.CRVAL2)
	}
}

/*****************************************************************************************************************/

func TestAffineWCSDetectorToSkyAtReferencePixel(t *testing.T) {
	w := NewAffineWCS(100, 100, 150.0, -30.0, transform.Affine2DParameters{A: 1.0 / 3600, E: 1.0 / 3600})

	ra, dec, _ := w.DetectorToSky(100, 100)

	if !almostEqual(ra, 150.0, 1e-9) {
		t.Errorf("ra at reference pixel = %v; want 150.0", ra)
	}

	if !almostEqual(dec, -30.0, 1e-9) {
		t.Errorf("dec at reference pixel = %v; want -30.0", dec)
	}
}

/*****************************************************************************************************************/

func TestAffineWCSDetectorToSkyWithWavelength(t *testing.T) {
	w := NewAffineWCS(0, 0, 0, 0, transform.Affine2DParameters{A: 1, E: 1})
	w.WaveZeroPoint = 5.0
	w.WaveSlope = 0.001

	_, _, wave := w.DetectorToSky(100, 0)

	if !almostEqual(wave, 5.1, 1e-9) {
		t.Errorf("wave = %v; want 5.1", wave)
	}
}

/*****************************************************************************************************************/

func TestAffineWCSDetectorToAlphaBetaChainsTransforms(t *testing.T) {
	w := NewAffineWCS(0, 0, 10.0, 20.0, transform.Affine2DParameters{A: 1.0 / 3600, E: 1.0 / 3600})
	w.V2V3Origin = astrometry.ICRSEquatorialCoordinate{RA: 10.0, Dec: 20.0}
	w.AlphaBetaFrame = transform.Affine2DParameters{A: 1, E: 1}

	alpha, beta, _ := w.DetectorToAlphaBeta(0, 0)

	if !almostEqual(alpha, 0, 1e-6) || !almostEqual(beta, 0, 1e-6) {
		t.Errorf("DetectorToAlphaBeta(0,0) = (%v, %v); want (~0, ~0) at the WCS origin", alpha, beta)
	}
}

/*****************************************************************************************************************/

func TestAffineWCSWithSIPCorrection(t *testing.T) {
	plain := NewAffineWCS(0, 0, 0, 0, transform.Affine2DParameters{A: 1.0 / 3600, E: 1.0 / 3600})

	distorted := plain
	sip := transform.SIP2DForwardParameters{
		AOrder: 1,
		APower: map[string]float64{"1_0": 0.5},
		BOrder: 0,
		BPower: map[string]float64{},
	}
	distorted.SIP = &sip

	raPlain, _, _ := plain.DetectorToSky(100, 0)
	raDistorted, _, _ := distorted.DetectorToSky(100, 0)

	if raPlain == raDistorted {
		t.Errorf("expected SIP correction to shift the detector-to-sky mapping")
	}
}

/*****************************************************************************************************************/

func TestAffineWCSPixelToEquatorialCoordinate(t *testing.T) {
	w := NewAffineWCS(0, 0, 150.0, -30.0, transform.Affine2DParameters{A: 1.0 / 3600, E: 1.0 / 3600})

	coord := w.PixelToEquatorialCoordinate(0, 0)

	if !almostEqual(coord.RA, 150.0, 1e-9) || !almostEqual(coord.Dec, -30.0, 1e-9) {
		t.Errorf("PixelToEquatorialCoordinate(0,0) = %+v; want (150, -30)", coord)
	}
}

/*****************************************************************************************************************/

func TestAffineWCSImplementsExposureWCS(t *testing.T) {
	var _ ExposureWCS = AffineWCS{}
}

/*****************************************************************************************************************/
