package cmd

import (
	"github.com/spf13/cobra"

	"github.com/synthctl/synthctl/internal/output"
	"github.com/synthctl/synthctl/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print synthctl's version",
		RunE: func(cmd *cobra.Command, args []string) error {
			output.Println(version.Get().String())
			return nil
		},
	}
}
