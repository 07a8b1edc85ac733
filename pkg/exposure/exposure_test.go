/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

package exposure

/*****************************************************************************************************************/

import (
	"testing"

	"github.com/orbitalforge/ifucube/pkg/astrometry"
	"github.com/orbitalforge/ifucube/pkg/dqflags"
)

/*****************************************************************************************************************/

func TestBackgroundPolynomialSubtract(t *testing.T) {
	p := BackgroundPolynomial{Coefficients: []float64{1, 2, 3}}

	got := p.Subtract(2)

	// 1 + 2*2 + 3*4 = 17
	if got != 17 {
		t.Errorf("Subtract(2) = %v; want 17", got)
	}
}

/*****************************************************************************************************************/

func TestBackgroundForBand(t *testing.T) {
	band := astrometry.BandKey{Par1: "1", Par2: "SHORT"}

	bg := Background{PolynomialInfo: []BackgroundPolynomial{
		{Band: band, Coefficients: []float64{1}},
	}}

	p, ok := bg.ForBand(band)
	if !ok {
		t.Fatalf("expected to find background polynomial for band %+v", band)
	}

	if len(p.Coefficients) != 1 {
		t.Errorf("unexpected coefficients length %d", len(p.Coefficients))
	}

	if _, ok := bg.ForBand(astrometry.BandKey{Par1: "2", Par2: "LONG"}); ok {
		t.Errorf("expected no match for an unregistered band")
	}
}

/*****************************************************************************************************************/

func TestDenseExposureAtAndSet(t *testing.T) {
	band := astrometry.BandKey{Par1: "1", Par2: "SHORT"}
	e := NewDenseExposure(band, 4, 5, Meta{})

	rows, columns := e.Shape()
	if rows != 4 || columns != 5 {
		t.Fatalf("Shape() = (%d, %d); want (4, 5)", rows, columns)
	}

	e.Set(2, 1, 42.5)
	e.SetDQ(2, 1, dqflags.DoNotUse)

	flux, dq := e.At(2, 1)
	if flux != 42.5 {
		t.Errorf("At(2,1) flux = %v; want 42.5", flux)
	}

	if !dq.Has(dqflags.DoNotUse) {
		t.Errorf("At(2,1) dq = %v; want DoNotUse set", dq)
	}

	otherFlux, otherDQ := e.At(0, 0)
	if otherFlux != 0 || otherDQ != 0 {
		t.Errorf("unset pixel (0,0) = (%v, %v); want (0, 0)", otherFlux, otherDQ)
	}
}

/*****************************************************************************************************************/

func TestDenseExposureBandAndString(t *testing.T) {
	band := astrometry.BandKey{Par1: "2", Par2: "LONG"}
	e := NewDenseExposure(band, 2, 2, Meta{})

	if e.Band() != band {
		t.Errorf("Band() = %+v; want %+v", e.Band(), band)
	}

	if e.String() == "" {
		t.Errorf("String() should not be empty")
	}
}

/*****************************************************************************************************************/
