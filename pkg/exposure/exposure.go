/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

// Package exposure defines the accessor contract an input detector exposure must
// satisfy. File I/O and the on-disk product container are out of this core's scope; this
// package only names the shape of what the core reads.
package exposure

/*****************************************************************************************************************/

import (
	"github.com/orbitalforge/ifucube/pkg/astrometry"
	"github.com/orbitalforge/ifucube/pkg/dqflags"
	"github.com/orbitalforge/ifucube/pkg/wcs"
)

/*****************************************************************************************************************/

// BackgroundPolynomial is one band's 1-D background-subtraction polynomial, applied to a
// detector frame in place when the caller requests background subtraction. Evaluation of
// 1-D background subtraction itself is an external collaborator's
// responsibility; this core only conditionally invokes Subtract.
type BackgroundPolynomial struct {
	Band         astrometry.BandKey
	Coefficients []float64
}

/*****************************************************************************************************************/

// Subtract evaluates the polynomial at detector column x and returns the background
// level to remove from every row of that column, matching the 1-D (wavelength-direction)
// background convention used by MIRI/NIRSPEC detector frames.
func (p BackgroundPolynomial) Subtract(x float64) float64 {
	value := 0.0
	power := 1.0

	for _, c := range p.Coefficients {
		value += c * power
		power *= x
	}

	return value
}

/*****************************************************************************************************************/

// Background is the ordered sequence of per-band background polynomials attached to an
// exposure's metadata.
type Background struct {
	PolynomialInfo []BackgroundPolynomial
}

/*****************************************************************************************************************/

// ForBand returns the background polynomial registered for the given band, if any.
func (b Background) ForBand(band astrometry.BandKey) (BackgroundPolynomial, bool) {
	for _, p := range b.PolynomialInfo {
		if p.Band == band {
			return p, true
		}
	}
	return BackgroundPolynomial{}, false
}

/*****************************************************************************************************************/

// Meta is the pixel-level metadata attached to an exposure: its WCS transform set and its
// background-subtraction polynomials.
type Meta struct {
	WCS        wcs.ExposureWCS
	Background Background
}

/*****************************************************************************************************************/

// Exposure is an immutable detector exposure record: a 2-D flux array, a 2-D DQ bitmask
// of identical shape, and pixel-level metadata.
type Exposure interface {
	// Band identifies which (par1, par2) detector configuration produced this exposure.
	Band() astrometry.BandKey

	// Shape returns the exposure's (rows, columns) detector-frame dimensions.
	Shape() (rows, columns int)

	// At returns the flux and DQ bitmask at detector pixel (x, y). x indexes columns,
	// y indexes rows, both zero-based.
	At(x, y int) (flux float64, dq dqflags.Flag)

	// Set overwrites the flux value at detector pixel (x, y), used by in-place background
	// subtraction.
	Set(x, y int, flux float64)

	Meta() Meta
}

/*****************************************************************************************************************/
