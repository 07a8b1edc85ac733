/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

package main

/*****************************************************************************************************************/

import (
	"github.com/orbitalforge/ifucube/cmd/cli"
)

/*****************************************************************************************************************/

func main() {
	cli.Execute()
}

/*****************************************************************************************************************/
