/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

package instrument

/*****************************************************************************************************************/

import (
	"math"

	"github.com/orbitalforge/ifucube/pkg/astrometry"
	"github.com/orbitalforge/ifucube/pkg/dqflags"
	"github.com/orbitalforge/ifucube/pkg/exposure"
)

/*****************************************************************************************************************/

// MIRIOps implements Ops for the Mid-Infrared Instrument's IFU. A MIRI detector frame is
// divided into fixed column ranges, one per slice, given by Info.GetMIRISliceEndPts
// (each Point.X/Y is that slice's [xstart, xend) column range).
type MIRIOps struct{}

/*****************************************************************************************************************/

func (MIRIOps) Kind() Kind {
	return MIRI
}

/*****************************************************************************************************************/

func (MIRIOps) DQOverlapMode() OverlapMode {
	return OverlapModePolygon
}

/*****************************************************************************************************************/

// SliceMapForExposure assigns each detector column to the slice whose [xstart, xend)
// range contains it, per the instrument's fixed slice-to-column layout.
func (MIRIOps) SliceMapForExposure(e exposure.Exposure, band astrometry.BandKey, info Info) SliceMap {
	rows, columns := e.Shape()

	endpts := info.GetMIRISliceEndPts(band)

	sliceNo := make([]int, rows*columns)
	for i := range sliceNo {
		sliceNo[i] = -1
	}

	columnSlice := make([]int, columns)
	for x := 0; x < columns; x++ {
		columnSlice[x] = -1
		for s, pt := range endpts {
			if float64(x) >= pt.X && float64(x) < pt.Y {
				columnSlice[x] = s
				break
			}
		}
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < columns; x++ {
			sliceNo[y*columns+x] = columnSlice[x]
		}
	}

	return SliceMap{Rows: rows, Columns: columns, SliceNo: sliceNo}
}

/*****************************************************************************************************************/

// ExposureFootprint walks every DQ-clean detector pixel of the exposure through its WCS
// and reduces to the (ra, dec, wave) bounding box, matching the per-exposure footprint
// discovery the geometry builder performs for every input.
func (MIRIOps) ExposureFootprint(e exposure.Exposure, band astrometry.BandKey, info Info) astrometry.Footprint {
	return scanFootprint(e)
}

/*****************************************************************************************************************/

// scanFootprint is shared by both instrument implementations with the same pixel validity
// test (DQ-clean, non-NaN); the MIRI/NIRSPEC difference is the slice geometry (handled
// by SliceMapForExposure), not the footprint reduction itself.
func scanFootprint(e exposure.Exposure) astrometry.Footprint {
	rows, columns := e.Shape()

	fp := astrometry.Footprint{
		RAMin: math.Inf(1), RAMax: math.Inf(-1),
		DecMin: math.Inf(1), DecMax: math.Inf(-1),
		WaveMin: math.Inf(1), WaveMax: math.Inf(-1),
	}

	wcs := e.Meta().WCS

	found := false

	for y := 0; y < rows; y++ {
		for x := 0; x < columns; x++ {
			_, dq := e.At(x, y)
			if dq.HasAny(dqflags.DoNotUse | dqflags.NonScience) {
				continue
			}

			ra, dec, wave := wcs.DetectorToSky(float64(x), float64(y))

			if math.IsNaN(wave) || math.IsNaN(ra) || math.IsNaN(dec) {
				continue
			}

			found = true

			if ra < fp.RAMin {
				fp.RAMin = ra
			}
			if ra > fp.RAMax {
				fp.RAMax = ra
			}
			if dec < fp.DecMin {
				fp.DecMin = dec
			}
			if dec > fp.DecMax {
				fp.DecMax = dec
			}
			if wave < fp.WaveMin {
				fp.WaveMin = wave
			}
			if wave > fp.WaveMax {
				fp.WaveMax = wave
			}
		}
	}

	if !found {
		return astrometry.Footprint{}
	}

	return fp
}

/*****************************************************************************************************************/
