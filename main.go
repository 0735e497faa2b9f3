// Command dirstat estimates the disk usage of file trees.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/dirstat/internal/cli"
)

//nolint:gochecknoglobals // Set at build time
var version = "unknown - unofficial & generated by unknown"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dirstat: %v\n", err)
		os.Exit(1)
	}
}
