// ptree inspects, edits, converts, diffs and serves typed property trees
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
