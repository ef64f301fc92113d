// Package main provides the entry point for the jmhgate CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/jmhgate/cmd/jmhgate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
