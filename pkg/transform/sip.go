/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

package transform

/*****************************************************************************************************************/

import (
	"fmt"
	"math"
)

/*****************************************************************************************************************/

// SIP (Simple Imaging Polynomial) is a convention used in FITS (Flexible Image Transport System)
// headers to describe complex distortions in astronomical images. It extends the standard World
// Coordinate System (WCS) by introducing higher-order polynomial terms that account for non-linear
// optical distortions, such as those introduced by telescope optics or detector geometry.
// @see https://fits.gsfc.nasa.gov/registry/sip/SIP_distortion_v1_0.pdf

/*****************************************************************************************************************/

// The forward parameters are polynomial coefficients used to map from pixel coordinates to world coordinates.
type SIP2DForwardParameters struct {
	AOrder int
	APower map[string]float64
	BOrder int
	BPower map[string]float64
}

/*****************************************************************************************************************/

// The inverse paramaters are polynomial coefficients used to map from world coordinates to pixel coordinates.
type SIP2DInverseParameters struct {
	APOrder int
	APPower map[string]float64
	BPOrder int
	BPPower map[string]float64
}

/*****************************************************************************************************************/

// key formats the i_j power index used by the SIP coefficient maps, e.g. key(1, 2) = "1_2".
func key(i, j int) string {
	return fmt.Sprintf("%d_%d", i, j)
}

/*****************************************************************************************************************/

// evaluatePolynomial sums coefficient[i_j] * u^i * v^j over the power map, for all terms
// up to the given order. Terms absent from the map are treated as zero, matching SIP's
// convention of only storing nonzero coefficients.
func evaluatePolynomial(power map[string]float64, order int, u, v float64) float64 {
	sum := 0.0

	for i := 0; i <= order; i++ {
		for j := 0; j <= order-i; j++ {
			c, ok := power[key(i, j)]
			if !ok || c == 0 {
				continue
			}
			sum += c * math.Pow(u, float64(i)) * math.Pow(v, float64(j))
		}
	}

	return sum
}

/*****************************************************************************************************************/

// Correct applies the forward SIP distortion polynomial to a pixel offset (u, v) measured
// from CRPIX, returning the corrected offset (f(u,v), g(u,v)) to be added to the linear CD
// matrix transform when mapping detector pixels to intermediate world coordinates.
func (p SIP2DForwardParameters) Correct(u, v float64) (du, dv float64) {
	return evaluatePolynomial(p.APower, p.AOrder, u, v), evaluatePolynomial(p.BPower, p.BOrder, u, v)
}

/*****************************************************************************************************************/

// Correct applies the inverse SIP distortion polynomial to an intermediate world offset
// (u, v), returning the correction to be added when mapping back from world coordinates
// to detector pixels.
func (p SIP2DInverseParameters) Correct(u, v float64) (du, dv float64) {
	return evaluatePolynomial(p.APPower, p.APOrder, u, v), evaluatePolynomial(p.BPPower, p.BPOrder, u, v)
}

/*****************************************************************************************************************/
