package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"trackmix/internal/media/tracks"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var kinds []string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "probe <path>",
		Short: "List the tracks of a media file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.newLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			prober := ctx.newProber(logger)

			if len(kinds) == 0 {
				kinds = []string{string(tracks.KindVideo), string(tracks.KindAudio), string(tracks.KindSubtitle)}
			}
			byKind := make(map[string]tracks.Result, len(kinds))
			var all []tracks.Track
			for _, kind := range kinds {
				res, err := prober.Probe(cmd.Context(), args[0], kind)
				if err != nil {
					return err
				}
				byKind[string(tracks.ParseKind(kind))] = res
				all = append(all, res.Tracks...)
			}

			if !wantsTable(cmd, jsonOut) {
				if len(kinds) == 1 {
					return writeJSON(cmd, byKind[string(tracks.ParseKind(kinds[0]))])
				}
				return writeJSON(cmd, byKind)
			}

			if len(all) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matching tracks")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTrackTable(all))
			first := all[0]
			if first.Container != "" || first.FileSize != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Container: %s  Size: %s\n", orDash(first.Container), orDash(first.FileSize))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&kinds, "kind", "k", nil, "Track kind to list (video, audio, subtitle); repeatable")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON even on a terminal")
	return cmd
}

func renderTrackTable(list []tracks.Track) string {
	rows := make([][]string, 0, len(list))
	for _, t := range list {
		rows = append(rows, []string{
			titleLabel(string(t.Kind)),
			t.ID,
			t.Codec,
			orDash(languageCell(t)),
			orDash(t.Label),
			flagCell(t.IsDefault),
			flagCell(t.IsForced),
			orDash(strings.TrimSpace(t.Attributes)),
		})
	}
	return renderTable(
		[]string{"Kind", "ID", "Codec", "Language", "Name", "Default", "Forced", "Attributes"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	)
}

func languageCell(t tracks.Track) string {
	switch {
	case t.LanguageCode == "":
		return ""
	case t.LanguageDisplayName != "":
		return fmt.Sprintf("%s (%s)", t.LanguageDisplayName, t.LanguageCode)
	default:
		return t.LanguageCode
	}
}

func flagCell(v *bool) string {
	if v == nil {
		return "-"
	}
	return yesNo(*v)
}
