/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

package cli

/*****************************************************************************************************************/

import (
	"github.com/spf13/cobra"

	"github.com/orbitalforge/ifucube/internal/buildcmd"
)

/*****************************************************************************************************************/

var rootCommand = &cobra.Command{
	Use:   "ifucube",
	Short: "ifucube is a command-line tool for reconstructing 3-D spectral cubes from IFU exposures.",
	Long:  "ifucube is a command-line tool for reconstructing 3-D spectral cubes from IFU exposures.",
}

/*****************************************************************************************************************/

func init() {
	rootCommand.AddCommand(buildcmd.BuildCommand)
}

/*****************************************************************************************************************/

func Execute() {
	if err := rootCommand.Execute(); err != nil {
		panic(err)
	}
}

/*****************************************************************************************************************/
