package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"trackmix/internal/watchlist"
)

func newWatchlistCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	watchCmd := &cobra.Command{
		Use:   "watchlist",
		Short: "Manage followed subjects",
	}
	watchCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Print JSON even on a terminal")

	watchCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List followed subjects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := ctx.watchlistStore().List(cmd.Context())
			if err != nil {
				return err
			}
			return printWatchlist(cmd, list, jsonOut)
		},
	})

	var fromJSON string
	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "Insert, replace or remove one subject",
		Long: `Insert or replace the subject read from --from-json, keyed by id.
A subject with watching, backlog and watched all false is removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(fromJSON)
			if err != nil {
				return fmt.Errorf("read %s: %w", fromJSON, err)
			}
			var subject watchlist.Subject
			if err := json.Unmarshal(data, &subject); err != nil {
				return fmt.Errorf("decode %s: %w", fromJSON, err)
			}
			list, err := ctx.watchlistStore().Save(cmd.Context(), subject)
			if err != nil {
				return err
			}
			return printWatchlist(cmd, list, jsonOut)
		},
	}
	saveCmd.Flags().StringVar(&fromJSON, "from-json", "", "JSON file holding one subject")
	_ = saveCmd.MarkFlagRequired("from-json")
	watchCmd.AddCommand(saveCmd)

	return watchCmd
}

func printWatchlist(cmd *cobra.Command, list []watchlist.Subject, jsonOut bool) error {
	if !wantsTable(cmd, jsonOut) {
		if list == nil {
			list = []watchlist.Subject{}
		}
		return writeJSON(cmd, list)
	}
	if len(list) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Watchlist is empty")
		return nil
	}
	rows := make([][]string, 0, len(list))
	for _, s := range list {
		rating := "-"
		if s.Rating != nil {
			rating = strconv.FormatFloat(*s.Rating, 'f', 1, 64)
		}
		rows = append(rows, []string{
			strconv.FormatUint(uint64(s.ID), 10),
			s.Name,
			orDash(s.NameCN),
			subjectStatus(s),
			orDash(s.Date),
			rating,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"ID", "Name", "Local Name", "Status", "Date", "Rating"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	))
	return nil
}

func subjectStatus(s watchlist.Subject) string {
	switch {
	case s.Watching:
		return "Watching"
	case s.Backlog:
		return "Backlog"
	case s.Watched:
		return "Watched"
	}
	return "-"
}
