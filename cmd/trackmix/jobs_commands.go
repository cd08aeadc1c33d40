package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"trackmix/internal/api"
	"trackmix/internal/jobs"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "List recent mix jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(ctx, func(store *jobs.Store) error {
				records, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				now := time.Now()
				if !wantsTable(cmd, jsonOut) {
					out := make([]api.Job, 0, len(records))
					for _, rec := range records {
						out = append(out, api.FromRecord(rec, now))
					}
					return writeJSON(cmd, out)
				}
				if len(records) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No jobs recorded")
					return nil
				}
				rows := make([][]string, 0, len(records))
				for _, rec := range records {
					rows = append(rows, []string{
						shortID(rec.ID),
						titleLabel(string(rec.State)),
						rec.CreatedAt.Local().Format("2006-01-02 15:04:05"),
						rec.Duration(now).Round(time.Millisecond).String(),
						orDash(rec.OutputPath),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "State", "Started", "Duration", "Output"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignPath},
				))
				return nil
			})
		},
	}
	jobsCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of jobs to list")
	jobsCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Print JSON even on a terminal")

	jobsCmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one job and its state transitions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(ctx, func(store *jobs.Store) error {
				rec, err := findJob(cmd, store, args[0])
				if err != nil {
					return err
				}
				now := time.Now()
				if !wantsTable(cmd, jsonOut) {
					return writeJSON(cmd, api.FromRecord(*rec, now))
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Job:      %s\n", rec.ID)
				fmt.Fprintf(out, "State:    %s\n", titleLabel(string(rec.State)))
				fmt.Fprintf(out, "Output:   %s\n", orDash(rec.OutputPath))
				fmt.Fprintf(out, "Temp dir: %s\n", orDash(rec.TempDir))
				fmt.Fprintf(out, "Duration: %s\n", rec.Duration(now).Round(time.Millisecond))
				if rec.Error != "" {
					fmt.Fprintf(out, "Error:    %s\n", rec.Error)
				}
				rows := make([][]string, 0, len(rec.Events))
				for _, ev := range rec.Events {
					rows = append(rows, []string{
						ev.CreatedAt.Local().Format("15:04:05.000"),
						titleLabel(string(ev.State)),
						orDash(ev.Detail),
					})
				}
				fmt.Fprintln(out, renderTable([]string{"Time", "State", "Detail"}, rows, nil))
				return nil
			})
		},
	})

	return jobsCmd
}

func withJournal(ctx *commandContext, fn func(*jobs.Store) error) error {
	store, err := ctx.openJournal()
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("the job journal is disabled (mix.journal_enabled = false)")
	}
	defer store.Close()
	return fn(store)
}

// findJob accepts a full id or the 8 character prefix shown by "jobs".
func findJob(cmd *cobra.Command, store *jobs.Store, id string) (*jobs.Record, error) {
	id = strings.TrimSpace(id)
	rec, err := store.Get(cmd.Context(), id)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		return rec, nil
	}
	recent, err := store.List(cmd.Context(), 200)
	if err != nil {
		return nil, err
	}
	var match string
	for _, r := range recent {
		if strings.HasPrefix(r.ID, id) {
			if match != "" {
				return nil, fmt.Errorf("job id %q is ambiguous", id)
			}
			match = r.ID
		}
	}
	if match == "" {
		return nil, fmt.Errorf("job %s not found", id)
	}
	return store.Get(cmd.Context(), match)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
