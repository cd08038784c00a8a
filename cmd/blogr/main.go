package main

import (
	"fmt"
	"os"

	"github.com/pders01/blogr/internal/cli"
)

// set at build time via ldflags
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	cli.SetVersion(version)
	cli.SetBuildInfo(commit, buildTime)
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
