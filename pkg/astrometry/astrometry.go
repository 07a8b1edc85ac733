/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

package astrometry

/*****************************************************************************************************************/

// ICRSEquatorialCoordinate is a right-ascension/declination pair in the International
// Celestial Reference System, in degrees.
type ICRSEquatorialCoordinate struct {
	RA  float64
	Dec float64
}

/*****************************************************************************************************************/

// BandKey identifies a detector configuration: for MIRI, Par1 is the channel and Par2 the
// subchannel; for NIRSPEC, Par1 is the grating and Par2 the filter. A cube's input is a
// mapping from BandKey to an ordered sequence of exposures.
type BandKey struct {
	Par1 string
	Par2 string
}

/*****************************************************************************************************************/

// Footprint is the bounding box of an exposure's sky coverage at a given wavelength
// range: (ra_min, ra_max), (dec_min, dec_max), and the wavelength extremes sampled.
type Footprint struct {
	RAMin, RAMax   float64
	DecMin, DecMax float64
	WaveMin, WaveMax float64
}

/*****************************************************************************************************************/
