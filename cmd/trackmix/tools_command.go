package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"trackmix/internal/deps"
)

func newToolsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Report where ffprobe and mkvmerge resolve",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses := deps.CheckTools(ctx.toolLocator(), ctx.toolRequirements())
			if !wantsTable(cmd, jsonOut) {
				if err := writeJSON(cmd, statuses); err != nil {
					return err
				}
			} else {
				rows := make([][]string, 0, len(statuses))
				for _, s := range statuses {
					rows = append(rows, []string{
						titleLabel(s.Role),
						s.Command,
						yesNo(s.Available && s.Executable),
						orDash(s.Path),
						orDash(s.Detail),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Role", "Command", "Ready", "Path", "Detail"}, rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignPath}))
			}
			if !deps.AllAvailable(statuses) {
				return errors.New("one or more tools are unavailable")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON even on a terminal")
	return cmd
}
