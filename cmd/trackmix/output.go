package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// wantsTable reports whether output should be a table: stdout is a terminal
// and --json was not given.
func wantsTable(cmd *cobra.Command, jsonFlag bool) bool {
	if jsonFlag {
		return false
	}
	return isTerminal(cmd.OutOrStdout())
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// titleLabel renders identifiers like "building_video" as "Building Video".
func titleLabel(value string) string {
	out := []rune(value)
	for i, r := range out {
		if r == '_' || r == '-' {
			out[i] = ' '
		}
	}
	return titleCaser.String(string(out))
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
