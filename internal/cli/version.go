package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the britney version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Println(version)
			return nil
		},
	}
}
