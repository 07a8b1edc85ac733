/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

package diagnostic

/*****************************************************************************************************************/

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/orbitalforge/ifucube/pkg/dqflags"
	"github.com/orbitalforge/ifucube/pkg/geometry"
)

/*****************************************************************************************************************/

func TestColorForFlagPrefersNonScienceOverHoleBit(t *testing.T) {
	// overlap_hole and DO_NOT_USE share bit 0, so a finalized NON_SCIENCE|DO_NOT_USE spaxel
	// must render as non-science, never be mistaken for an still-unresolved hole.
	final := dqflags.NonScience | dqflags.DoNotUse
	if colorForFlag(final) != colorNonScience {
		t.Errorf("colorForFlag(NON_SCIENCE|DO_NOT_USE) should be colorNonScience")
	}

	if colorForFlag(dqflags.OverlapHole) != colorHole {
		t.Errorf("colorForFlag(overlap_hole alone) should be colorHole")
	}
}

/*****************************************************************************************************************/

func TestRenderDQPlaneWritesAReadablePNGFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dq.png")

	flags := []dqflags.Flag{
		dqflags.OverlapFull, dqflags.OverlapPartial,
		dqflags.OverlapHole, dqflags.NonScience | dqflags.DoNotUse,
	}

	if err := RenderDQPlane(path, 2, 2, flags); err != nil {
		t.Fatalf("RenderDQPlane returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected output file to exist: %v", err)
	}
	if info.Size() == 0 {
		t.Errorf("expected a non-empty PNG file")
	}
}

/*****************************************************************************************************************/

func TestRenderFootprintWritesAReadablePNGFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fov.png")

	fov := geometry.Footprint{
		Xi1: -1, Eta1: -1,
		Xi2: 1, Eta2: -1,
		Xi3: 1, Eta3: 1,
		Xi4: -1, Eta4: 1,
	}

	if err := RenderFootprint(path, 4, 4, fov, -2, 2, -2, 2); err != nil {
		t.Fatalf("RenderFootprint returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected output file to exist: %v", err)
	}
	if info.Size() == 0 {
		t.Errorf("expected a non-empty PNG file")
	}
}

/*****************************************************************************************************************/
