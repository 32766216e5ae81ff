// Command synthctl validates and synthesizes infrastructure manifests.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/synthctl/synthctl/internal/cmd"
	oerrors "github.com/synthctl/synthctl/internal/errors"
)

func main() {
	root := cmd.NewRootCmd()

	if err := root.Execute(); err != nil {
		var exitErr *oerrors.ExitError
		if errors.As(err, &exitErr) {
			if !exitErr.Printed {
				fmt.Fprintln(os.Stderr, err)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
