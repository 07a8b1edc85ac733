/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

// Package buildcmd wires the cobra "build" command to the orchestrator: it reads a
// manifest file from disk, runs the six-component reconstruction pipeline, and writes the
// resulting cube (plus optional diagnostics and build-history logging) back to disk.
package buildcmd

/*****************************************************************************************************************/

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/orbitalforge/ifucube/internal/assemble"
	"github.com/orbitalforge/ifucube/internal/manifest"
	"github.com/orbitalforge/ifucube/internal/orchestrate"
	"github.com/orbitalforge/ifucube/internal/store"
)

/*****************************************************************************************************************/

var (
	ManifestLocation string
	OutputDirectory  string
	HistoryPath      string
	Diagnose         bool
)

/*****************************************************************************************************************/

var BuildCommand = &cobra.Command{
	Use:   "build",
	Short: "build",
	Long:  "build reconstructs a 3-D spectral cube from a manifest describing its input exposures.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Manifest Location:", ManifestLocation)

		err := RunBuild(RunBuildParams{
			ManifestLocation: ManifestLocation,
			OutputDirectory:  OutputDirectory,
			HistoryPath:      HistoryPath,
			Diagnose:         Diagnose,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
	},
}

/*****************************************************************************************************************/

func init() {
	// Add the manifest flag to the build command for reading the build description from
	// some input location:
	// example usage: --manifest ./jw00001.json or -m ./jw00001.json
	BuildCommand.Flags().StringVarP(
		&ManifestLocation,
		"manifest",
		"m",
		"",
		"The manifest file location on the filesystem",
	)
	BuildCommand.MarkFlagRequired("manifest")

	// Add the output directory flag to the build command for setting where the cube (and
	// any diagnostics) are written:
	// example usage: --output ./cubes
	BuildCommand.Flags().StringVarP(
		&OutputDirectory,
		"output",
		"o",
		".",
		"The directory the built cube (and diagnostics) are written to",
	)

	// Add the history flag to the build command for recording this build in a sqlite
	// ledger alongside the cube itself:
	// example usage: --history ./builds.sqlite
	BuildCommand.Flags().StringVarP(
		&HistoryPath,
		"history",
		"",
		"",
		"Optional sqlite ledger to record this build's outcome in",
	)

	// Add the diagnose flag to the build command for rendering a color-coded DQ-plane PNG
	// alongside the cube:
	// example usage: --diagnose
	BuildCommand.Flags().BoolVarP(
		&Diagnose,
		"diagnose",
		"d",
		false,
		"Render a diagnostic DQ-plane PNG alongside the cube",
	)
}

/*****************************************************************************************************************/

type RunBuildParams struct {
	ManifestLocation string
	OutputDirectory  string
	HistoryPath      string
	Diagnose         bool
}

/*****************************************************************************************************************/

func RunBuild(params RunBuildParams) error {
	b, err := manifest.Load(params.ManifestLocation)
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}

	fmt.Printf("Instrument: %s\n", b.Kind)
	fmt.Printf("Bands: %d\n", len(b.Bands))
	fmt.Printf("Exposures: %d\n", len(b.Inputs))

	o := &orchestrate.Orchestrator{Logger: log.New(os.Stdout, "ifucube: ", log.LstdFlags)}

	if params.HistoryPath != "" {
		s, err := store.Open(params.HistoryPath)
		if err != nil {
			return fmt.Errorf("failed to open history ledger: %w", err)
		}
		defer s.Close()
		o.Store = s
	}

	req := orchestrate.Request{
		Base:          b.Base,
		Kind:          b.Kind,
		Ops:           b.Ops,
		Info:          b.Info,
		Inputs:        b.Inputs,
		Bands:         b.Bands,
		Over:          b.Over,
		Diagnose:      params.Diagnose,
		DiagnosticDir: params.OutputDirectory,
	}

	cubes, err := o.BuildAll(context.Background(), req)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	for _, cube := range cubes {
		fmt.Printf("Cube: %s (%dx%dx%d)\n", cube.Name, cube.NAXIS1, cube.NAXIS2, cube.NAXIS3)

		if err := writeCube(filepath.Join(params.OutputDirectory, cube.Name+".json"), cube); err != nil {
			return err
		}
	}

	return nil
}

/*****************************************************************************************************************/

func writeCube(outputPath string, cube *assemble.Cube) error {
	outputFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer outputFile.Close()

	encoder := json.NewEncoder(outputFile)
	encoder.SetIndent("", "\t")
	if err := encoder.Encode(cube); err != nil {
		return fmt.Errorf("failed to encode cube: %w", err)
	}

	fmt.Printf("Cube written to: %s\n", outputPath)

	return nil
}

/*****************************************************************************************************************/
