// Topmerge reads Gromacs topologies, following their #include statements
// through the force field libraries, and merges them into one topology.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
