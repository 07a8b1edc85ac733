/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

package instrument

/*****************************************************************************************************************/

import (
	"github.com/orbitalforge/ifucube/pkg/astrometry"
	"github.com/orbitalforge/ifucube/pkg/geometry"
)

/*****************************************************************************************************************/

// StaticTable is an in-memory Info implementation backed by a per-band lookup map, used
// to supply the already-parsed parameter table this core reads but never builds.
type StaticTable struct {
	Bands              map[astrometry.BandKey]BandParameters
	MultichannelTables map[string][]WaveTablePoint
	PrismTable         []WaveTablePoint
	MedTable           []WaveTablePoint
	HighTable          []WaveTablePoint
}

/*****************************************************************************************************************/

func (t StaticTable) band(key astrometry.BandKey) BandParameters {
	return t.Bands[key]
}

/*****************************************************************************************************************/

func (t StaticTable) GetWaveRoi(band astrometry.BandKey) float64      { return t.band(band).SpectralROI }
func (t StaticTable) GetSpatialRoi(band astrometry.BandKey) float64   { return t.band(band).SpatialROI }
func (t StaticTable) GetMSMPower(band astrometry.BandKey) float64     { return t.band(band).MSMWeightPower }
func (t StaticTable) GetSoftRad(band astrometry.BandKey) float64      { return t.band(band).SoftRad }
func (t StaticTable) GetScaleRad(band astrometry.BandKey) float64     { return t.band(band).ScaleRad }
func (t StaticTable) GetWaveMin(band astrometry.BandKey) float64      { return t.band(band).WaveMin }
func (t StaticTable) GetWaveMax(band astrometry.BandKey) float64      { return t.band(band).WaveMax }
func (t StaticTable) GetStartSlice(band astrometry.BandKey) int       { return t.band(band).StartSlice }
func (t StaticTable) GetEndSlice(band astrometry.BandKey) int         { return t.band(band).EndSlice }
func (t StaticTable) GetNSlice(band astrometry.BandKey) int           { return t.band(band).NSlice }
func (t StaticTable) GetRPAveWave(band astrometry.BandKey) float64    { return t.band(band).RPAveWave }

/*****************************************************************************************************************/

func (t StaticTable) GetScale(band astrometry.BandKey) (a, b, w float64) {
	p := t.band(band)
	return p.ScaleX, p.ScaleY, p.ScaleW
}

/*****************************************************************************************************************/

func (t StaticTable) GetMIRISliceEndPts(band astrometry.BandKey) []geometry.Point {
	return t.band(band).MIRISliceEndPts
}

/*****************************************************************************************************************/

func (t StaticTable) GetPSFAlphaParameters(band astrometry.BandKey) PSFAlphaParameters {
	return t.band(band).PSFAlpha
}

/*****************************************************************************************************************/

func (t StaticTable) GetPSFBetaParameters(band astrometry.BandKey) PSFBetaParameters {
	return t.band(band).PSFBeta
}

/*****************************************************************************************************************/

func (t StaticTable) GetMultichannelTable(weighting string) []WaveTablePoint {
	return t.MultichannelTables[weighting]
}

/*****************************************************************************************************************/

func (t StaticTable) GetPrismTable() []WaveTablePoint { return t.PrismTable }
func (t StaticTable) GetMedTable() []WaveTablePoint   { return t.MedTable }
func (t StaticTable) GetHighTable() []WaveTablePoint  { return t.HighTable }

/*****************************************************************************************************************/
