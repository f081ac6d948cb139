// Package main is the entry point for the cashflowctl admin CLI.
package main

import (
	"os"

	"cashflow_backend/cmd/cashflowctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
