// Command octreectl builds octree scenes without the desktop shell and
// prints their statistics, buffers and probe query results.
package main

import (
	"fmt"
	"os"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("octreectl")

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "octreectl:", err)
		os.Exit(1)
	}
}
