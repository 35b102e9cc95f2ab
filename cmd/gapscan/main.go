// Command gapscan runs gap-detection scans over a migration-assessment
// inventory, from the command line or as an HTTP service.
package main

import (
	"os"

	"github.com/migratum/gapscan/cmd/gapscan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
