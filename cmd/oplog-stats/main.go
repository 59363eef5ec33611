// Command oplog-stats prints statistics about the replica-set oplog of a
// MongoDB instance: per entry ("<namespace>:<operation>") document counts,
// total sizes, and relative shares.
package main

import (
	"fmt"
	"os"

	"github.com/eunmann/oplog-stats/internal/cli"
)

func main() {
	if err := cli.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
