/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

package resample

/*****************************************************************************************************************/

import (
	"math"
	"testing"

	"github.com/orbitalforge/ifucube/pkg/astrometry"
	"github.com/orbitalforge/ifucube/pkg/geometry"
	"github.com/orbitalforge/ifucube/pkg/instrument"
	"github.com/orbitalforge/ifucube/internal/cubegeometry"
	"github.com/orbitalforge/ifucube/internal/detector"
	"github.com/orbitalforge/ifucube/internal/params"
)

/*****************************************************************************************************************/

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

/*****************************************************************************************************************/

func testGeometry3x3x3() cubegeometry.Geometry {
	x := []float64{-1, 0, 1}
	y := []float64{-1, 0, 1}
	z := []float64{5.0, 5.5, 6.0}

	return cubegeometry.Geometry{
		X: cubegeometry.Axis{NAXIS: 3, CDELT: 1, Coord: x},
		Y: cubegeometry.Axis{NAXIS: 3, CDELT: 1, Coord: y},
		Z: cubegeometry.Axis{NAXIS: 3, CDELT: 0.5, Coord: z},
		CdeltNormal: []float64{0.5, 0.5, 0.5},
	}
}

/*****************************************************************************************************************/

// TestSingleSampleIdentityMSM mirrors the single-sample identity law: one
// sample placed exactly at a spaxel center with large ROI yields flux = F at that spaxel.
func TestSingleSampleIdentityMSM(t *testing.T) {
	grid := NewSpaxelGrid(3, 3, 3)
	geom := testGeometry3x3x3()

	samples := []detector.Sample{
		{Coord1: 0, Coord2: 0, Wave: 5.5, Flux: 42.0, SpatialROI: 5, SpectralROI: 5, WeightPower: 2, SoftRad: 0.01},
	}

	AccumulatePointcloud(grid, geom, samples, params.Weighting{Kind: params.WeightingMSM}, nil, astrometry.BandKey{}, nil)

	idx := grid.Index(1, 1, 1)
	if grid.Count[idx] == 0 {
		t.Fatalf("expected the center spaxel to have received the sample")
	}

	flux := grid.SumFlux[idx] / grid.SumWeight[idx]
	if !almostEqual(flux, 42.0, 1e-6) {
		t.Errorf("flux at center spaxel = %v; want 42.0 (single-sample identity)", flux)
	}
}

/*****************************************************************************************************************/

func TestAccumulatePointcloudEMSMWeightsFallOffWithDistance(t *testing.T) {
	grid := NewSpaxelGrid(3, 3, 3)
	geom := testGeometry3x3x3()

	samples := []detector.Sample{
		{Coord1: 0, Coord2: 0, Wave: 5.5, Flux: 1.0, SpatialROI: 2, SpectralROI: 2, ScaleRad: 0.5},
	}

	AccumulatePointcloud(grid, geom, samples, params.Weighting{Kind: params.WeightingEMSM}, nil, astrometry.BandKey{}, nil)

	center := grid.SumWeight[grid.Index(1, 1, 1)]
	corner := grid.SumWeight[grid.Index(0, 0, 0)]

	if !(center > corner) {
		t.Errorf("center weight %v should exceed corner weight %v for EMSM", center, corner)
	}
}

/*****************************************************************************************************************/

func TestAccumulatePointcloudOutOfROISampleContributesNothing(t *testing.T) {
	grid := NewSpaxelGrid(3, 3, 3)
	geom := testGeometry3x3x3()

	samples := []detector.Sample{
		{Coord1: 100, Coord2: 100, Wave: 5.5, Flux: 1.0, SpatialROI: 0.1, SpectralROI: 0.1, WeightPower: 2, SoftRad: 0.01},
	}

	AccumulatePointcloud(grid, geom, samples, params.Weighting{Kind: params.WeightingMSM}, nil, astrometry.BandKey{}, nil)

	for _, w := range grid.SumWeight {
		if w != 0 {
			t.Fatalf("a far-away sample outside every spaxel's ROI should not accumulate anywhere")
		}
	}
}

/*****************************************************************************************************************/

func TestAccumulateMIRIPSFUsesReprojectedDistance(t *testing.T) {
	grid := NewSpaxelGrid(3, 3, 3)
	geom := testGeometry3x3x3()

	samples := []detector.Sample{
		{Coord1: 0, Coord2: 0, Wave: 5.5, Flux: 7.0, SpatialROI: 2, SpectralROI: 2, Alpha: 0, Beta: 0, HasAlphaBeta: true},
	}

	table := instrument.StaticTable{
		Bands: map[astrometry.BandKey]instrument.BandParameters{
			{}: {PSFAlpha: instrument.PSFAlphaParameters{Sigma: 1}, PSFBeta: instrument.PSFBetaParameters{Sigma: 1}, RPAveWave: 3000},
		},
	}

	reproject := func(i, j, k int) (float64, float64) {
		return geom.X.Coord[i], geom.Y.Coord[j]
	}

	AccumulatePointcloud(grid, geom, samples, params.Weighting{Kind: params.WeightingMIRIPSF}, table, astrometry.BandKey{}, reproject)

	idx := grid.Index(1, 1, 1)
	if grid.Count[idx] == 0 {
		t.Fatalf("expected the center spaxel to receive the miripsf-weighted sample")
	}
}

/*****************************************************************************************************************/

func TestAccumulateAreaSliceNoIsExactlyBeta(t *testing.T) {
	grid := NewSpaxelGrid(3, 5, 3)
	geom := testGeometry3x3x3()
	geom.Y = cubegeometry.Axis{NAXIS: 5, CDELT: 1, Coord: []float64{-2, -1, 0, 1, 2}}

	samples := []AreaSample{
		{
			Polygon: []geometry.Point{{X: -0.5, Y: 5.25}, {X: 0.5, Y: 5.25}, {X: 0.5, Y: 5.75}, {X: -0.5, Y: 5.75}},
			SliceNo: 2,
			Flux:    3.0,
		},
	}

	AccumulateArea(grid, geom, samples)

	for k := 0; k < grid.NAXIS3; k++ {
		for j := 0; j < grid.NAXIS2; j++ {
			for i := 0; i < grid.NAXIS1; i++ {
				if j != 2 && grid.SumWeight[grid.Index(i, j, k)] != 0 {
					t.Errorf("area accumulation at slice %d must only ever touch j=SliceNo=2", j)
				}
			}
		}
	}
}

/*****************************************************************************************************************/
