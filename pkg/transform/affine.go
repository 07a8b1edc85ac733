/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

package transform

/*****************************************************************************************************************/

// Affine2DParameters represents the parameters of a 2D affine transformation.
type Affine2DParameters struct {
	A, B, C float64 // Transformation for X: x' = A*x + B*y + C
	D, E, F float64 // Transformation for Y: y' = D*x + E*y + F
}

/*****************************************************************************************************************/

// Apply maps a detector-frame (x, y) pair to the instrument's native frame (e.g. the
// MIRI alpha/beta plane, or the NIRSpec slice-local coordinate) through this affine
// transform.
func (p Affine2DParameters) Apply(x, y float64) (xp, yp float64) {
	return p.A*x + p.B*y + p.C, p.D*x + p.E*y + p.F
}

/*****************************************************************************************************************/

// Invert returns the affine transform that undoes p, i.e. for which
// Invert().Apply(p.Apply(x, y)) == (x, y). Returns ok=false if p's linear part is
// singular (a degenerate detector-to-instrument mapping).
func (p Affine2DParameters) Invert() (inv Affine2DParameters, ok bool) {
	det := p.A*p.E - p.B*p.D

	if det == 0 {
		return Affine2DParameters{}, false
	}

	a := p.E / det
	b := -p.B / det
	d := -p.D / det
	e := p.A / det

	return Affine2DParameters{
		A: a,
		B: b,
		C: -(a*p.C + b*p.F),
		D: d,
		E: e,
		F: -(d*p.C + e*p.F),
	}, true
}

/*****************************************************************************************************************/
