package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trackmix/internal/media/tracks"
)

func newSizeCommand(_ *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "size <path>",
		Short: "Print the human-readable size of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := tracks.FileSize(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), size)
			return nil
		},
	}
}
