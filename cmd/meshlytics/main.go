// SPDX-License-Identifier: MIT

// Command meshlytics computes diffusion centrality over mesh topology
// documents and serves the current result over HTTP.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
