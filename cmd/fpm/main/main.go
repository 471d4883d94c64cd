package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/fpm/cmd/fpm"
	"github.com/arthur-debert/fpm/pkg/errors"
	"github.com/arthur-debert/fpm/pkg/ui"
)

func main() {
	rootCmd := fpm.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		errorStyle := ui.GetStyle("Error")
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))

		if errors.IsErrorCode(err, errors.ErrNoMatch) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
