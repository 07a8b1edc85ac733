/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

// Package dqflags is the shared registry of 32-bit data-quality flag constants consumed
// across the detector mapper, the FOV DQ engine, and the output assembler.
package dqflags

/*****************************************************************************************************************/

// Flag is a 32-bit data-quality bitmask, matching the pixel DQ convention of the
// detector/exposure arrays this core consumes.
type Flag uint32

/*****************************************************************************************************************/

const (
	// DoNotUse marks a detector pixel, or an output spaxel, that must never contribute to
	// or be read as valid science data.
	DoNotUse Flag = 1 << 0

	// NonScience marks a region the instrument never illuminates (e.g. outside the slice
	// footprint, or a spaxel with no possible input coverage). Bit position matches the
	// wider detector pixel-DQ convention this core's DoNotUse/NonScience inputs are drawn
	// from, keeping it clear of the FOV DQ engine's own low-order bits below.
	NonScience Flag = 1 << 18
)

/*****************************************************************************************************************/

// FOV DQ Engine initial flags: overlap_partial=4, overlap_full=2,
// overlap_hole=DO_NOT_USE, overlap_no_coverage=NON_SCIENCE.
const (
	OverlapFull       Flag = 2
	OverlapPartial    Flag = 4
	OverlapHole       Flag = DoNotUse
	OverlapNoCoverage Flag = NonScience
)

/*****************************************************************************************************************/

// Has reports whether f has every bit of mask set.
func (f Flag) Has(mask Flag) bool {
	return f&mask == mask
}

/*****************************************************************************************************************/

// HasAny reports whether f has at least one bit of mask set.
func (f Flag) HasAny(mask Flag) bool {
	return f&mask != 0
}

/*****************************************************************************************************************/
