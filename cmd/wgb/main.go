// Package main is the entry point for the wgb binary.
package main

import (
	"fmt"
	"os"

	"github.com/lunatic-fringers/wgbridge/cmd/wgb/cmd"
	"github.com/lunatic-fringers/wgbridge/internal/wgberr"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "wgb: %s\n", cmd.FormatError(err))
		os.Exit(wgberr.ExitCode(wgberr.CodeOf(err)))
	}
}
