// Command fpm-manpage writes the fpm man page to standard output.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/fpm/cmd/fpm"
	"github.com/arthur-debert/fpm/internal/version"
)

func main() {
	rootCmd := fpm.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "FPM",
		Section: "1",
		Source:  "fpm " + version.Version,
		Manual:  "fpm manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
