// Command p4report generates Perforce change reports with optional AI summaries.
package main

import (
	"os"

	"github.com/kilupskalvis/p4report/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
