// SPDX-License-Identifier: MIT

// Command swclust clusters news stories into a topic hierarchy and segments
// transcripts into topical runs.
//
// Usage:
//
//	swclust [flags] cluster --corpus docs.yaml
//	swclust [flags] segment --sequence seq.yaml
//
// Settings come from --config (YAML, see package config); every unset key
// keeps its default.
package main

import (
	"fmt"
	"os"

	"github.com/katalvlaran/swclust/cmd/swclust/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
