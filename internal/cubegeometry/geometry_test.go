/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

package cubegeometry

/*****************************************************************************************************************/

import (
	"context"
	"math"
	"testing"

	"github.com/orbitalforge/ifucube/pkg/astrometry"
	"github.com/orbitalforge/ifucube/pkg/exposure"
	"github.com/orbitalforge/ifucube/pkg/instrument"
	"github.com/orbitalforge/ifucube/pkg/transform"
	"github.com/orbitalforge/ifucube/pkg/wcs"
	"github.com/orbitalforge/ifucube/internal/params"
)

/*****************************************************************************************************************/

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

/*****************************************************************************************************************/

func testBand() astrometry.BandKey {
	return astrometry.BandKey{Par1: "1", Par2: "SHORT"}
}

/*****************************************************************************************************************/

func testTable(band astrometry.BandKey) instrument.StaticTable {
	return instrument.StaticTable{
		Bands: map[astrometry.BandKey]instrument.BandParameters{
			band: {Band: band},
		},
	}
}

/*****************************************************************************************************************/

// fixtureExposure builds a small exposure whose WCS places its four corners at a known,
// small sky footprint centered near (ra, dec) = (10, 0) degrees, one arcsec per pixel.
func fixtureExposure(band astrometry.BandKey, crval1, crval2 float64) *exposure.DenseExposure {
	cd := transform.Affine2DParameters{A: 1.0 / 3600.0, E: 1.0 / 3600.0}
	w := wcs.NewAffineWCS(0, 0, crval1, crval2, cd)
	return exposure.NewDenseExposure(band, 4, 4, exposure.Meta{WCS: w})
}

/*****************************************************************************************************************/

func TestBuildWorldProducesSymmetricQuantizedAxes(t *testing.T) {
	band := testBand()
	table := testTable(band)

	inputs := []Input{
		{Exposure: fixtureExposure(band, 10.0, 0.0), Band: band},
	}

	resolved := params.Resolved{
		Spectral: params.SpectralAxis{Linear: true, Step: 0.001},
	}

	geom, err := BuildWorld(context.Background(), inputs, instrument.MIRIOps{}, table, resolved, 0.1, 0.1)
	if err != nil {
		t.Fatalf("BuildWorld() returned unexpected error: %v", err)
	}

	if geom.X.NAXIS <= 0 || geom.Y.NAXIS <= 0 {
		t.Fatalf("expected positive NAXIS1/NAXIS2, got %d/%d", geom.X.NAXIS, geom.Y.NAXIS)
	}

	if !almostEqual(geom.SkyDec, 0.0, 1e-6) {
		t.Errorf("SkyDec = %v; want ~0 (dec midpoint of a tiny footprint around dec=0)", geom.SkyDec)
	}

	if geom.X.CRPIX <= 0 {
		t.Errorf("CRPIX1 = %v; want positive", geom.X.CRPIX)
	}

	if len(geom.X.Coord) != geom.X.NAXIS {
		t.Errorf("len(XCoord) = %d; want NAXIS1 = %d", len(geom.X.Coord), geom.X.NAXIS)
	}
}

/*****************************************************************************************************************/

func TestBuildWorldLinearWavelengthAxisRecentersAroundMidpoint(t *testing.T) {
	band := testBand()
	table := testTable(band)

	inputs := []Input{
		{Exposure: fixtureExposure(band, 10.0, 0.0), Band: band},
	}

	resolved := params.Resolved{
		Spectral: params.SpectralAxis{Linear: true, Step: 0.5},
	}

	geom, err := BuildWorld(context.Background(), inputs, instrument.MIRIOps{}, table, resolved, 0.1, 0.1)
	if err != nil {
		t.Fatalf("BuildWorld() returned unexpected error: %v", err)
	}

	if geom.Z.NAXIS == 0 {
		t.Fatalf("expected a non-empty wavelength axis")
	}

	if len(geom.CdeltNormal) != geom.Z.NAXIS {
		t.Errorf("len(CdeltNormal) = %d; want NAXIS3 = %d", len(geom.CdeltNormal), geom.Z.NAXIS)
	}

	for i, step := range geom.CdeltNormal {
		if !almostEqual(step, 0.5, 1e-9) {
			t.Errorf("CdeltNormal[%d] = %v; want 0.5 for a linear axis", i, step)
		}
	}
}

/*****************************************************************************************************************/

func TestBuildWorldTabulatedWavelengthAxisDuplicatesFinalStep(t *testing.T) {
	band := testBand()
	table := testTable(band)

	inputs := []Input{
		{Exposure: fixtureExposure(band, 10.0, 0.0), Band: band},
	}

	resolved := params.Resolved{
		Spectral: params.SpectralAxis{
			Linear: false,
			Table: []instrument.WaveTablePoint{
				{Wave: 5.0}, {Wave: 5.2}, {Wave: 5.5},
			},
		},
	}

	geom, err := BuildWorld(context.Background(), inputs, instrument.MIRIOps{}, table, resolved, 0.1, 0.1)
	if err != nil {
		t.Fatalf("BuildWorld() returned unexpected error: %v", err)
	}

	if geom.Z.NAXIS != 3 {
		t.Fatalf("NAXIS3 = %d; want 3", geom.Z.NAXIS)
	}

	if geom.Z.CRVAL != 5.0 {
		t.Errorf("CRVAL3 = %v; want 5.0 (first table entry)", geom.Z.CRVAL)
	}

	if !almostEqual(geom.CdeltNormal[2], geom.CdeltNormal[1], 1e-9) {
		t.Errorf("CdeltNormal[2] = %v; want duplicate of CdeltNormal[1] = %v", geom.CdeltNormal[2], geom.CdeltNormal[1])
	}
}

/*****************************************************************************************************************/

func TestBuildAlphaBetaForcesNAXIS2ToSliceCount(t *testing.T) {
	fp := AlphaBetaFootprint{
		AlphaMin: -2.0, AlphaMax: 2.0,
		BetaMin: -1.0, BetaMax: 1.0,
		WaveMin: 5.0, WaveMax: 6.0,
	}

	geom := BuildAlphaBeta(fp, 0.1, 0.01, 17)

	if geom.Y.NAXIS != 17 {
		t.Errorf("NAXIS2 = %d; want 17 (forced to slice count)", geom.Y.NAXIS)
	}

	wantCdelt2 := (fp.BetaMax - fp.BetaMin) / 17.0
	if !almostEqual(geom.Y.CDELT, wantCdelt2, 1e-12) {
		t.Errorf("CDELT2 = %v; want %v", geom.Y.CDELT, wantCdelt2)
	}

	if geom.X.CRPIX != 0.5 || geom.Y.CRPIX != 0.5 {
		t.Errorf("CRPIX1/CRPIX2 = (%v, %v); want (0.5, 0.5) for an alpha-beta cube", geom.X.CRPIX, geom.Y.CRPIX)
	}

	if geom.CoordSystem != params.CoordSystemAlphaBeta {
		t.Errorf("CoordSystem = %v; want CoordSystemAlphaBeta", geom.CoordSystem)
	}
}

/*****************************************************************************************************************/

func TestReduceFootprintsSkipsEmptyExposures(t *testing.T) {
	footprints := []astrometry.Footprint{
		{},
		{RAMin: 9.9, RAMax: 10.1, DecMin: -0.1, DecMax: 0.1, WaveMin: 5.0, WaveMax: 6.0},
	}

	reduced := reduceFootprints(footprints)

	if !almostEqual(reduced.RAMin, 9.9, 1e-9) || !almostEqual(reduced.RAMax, 10.1, 1e-9) {
		t.Errorf("reduced footprint RA = (%v, %v); want (9.9, 10.1)", reduced.RAMin, reduced.RAMax)
	}
}

/*****************************************************************************************************************/
