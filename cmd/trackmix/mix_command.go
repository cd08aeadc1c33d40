package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"trackmix/internal/media/tracks"
	"trackmix/internal/mix"
)

type mixRequestFile struct {
	Inputs     []mix.Selection `json:"inputs,omitempty"`
	OutputPath string          `json:"outputPath"`
}

func newMixCommand(ctx *commandContext) *cobra.Command {
	var (
		output    string
		videos    []string
		audios    []string
		subtitles []string
		langs     []string
		fromJSON  string
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "mix",
		Short: "Combine selected tracks into one Matroska file",
		Long: `Combine selected tracks into one Matroska file.

Tracks are given as PATH#IDS, where IDS is a comma separated list of track
ids as reported by "trackmix probe". Language overrides take the form
KIND:ID=LANG, for example --lang subtitle:2=zh-Hant. Unset languages
default to ja for video and audio and zh-Hans for subtitles.`,
		Example: `  trackmix mix -o out.mkv --video ep01.mkv#0 --audio ep01.mkv#1 --subtitle ep01.sc.ass#0
  trackmix mix --from-json request.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var selections []mix.Selection
			if strings.TrimSpace(fromJSON) != "" {
				req, err := readMixRequest(fromJSON)
				if err != nil {
					return err
				}
				selections = req.Inputs
				if strings.TrimSpace(output) == "" {
					output = req.OutputPath
				}
			}

			for _, group := range []struct {
				kind   tracks.Kind
				values []string
			}{
				{tracks.KindVideo, videos},
				{tracks.KindAudio, audios},
				{tracks.KindSubtitle, subtitles},
			} {
				for _, arg := range group.values {
					sel, err := parseTrackArg(group.kind, arg)
					if err != nil {
						return err
					}
					selections = append(selections, sel)
				}
			}
			for _, arg := range langs {
				if err := applyLangOverride(selections, arg); err != nil {
					return err
				}
			}
			if strings.TrimSpace(output) == "" {
				return errors.New("an output path is required (-o or outputPath in --from-json)")
			}

			logger, err := ctx.newLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			journal, err := ctx.openJournal()
			if err != nil {
				return err
			}
			if journal != nil {
				defer journal.Close()
			}

			final, err := ctx.newExecutor(logger, journal).Mix(cmd.Context(), selections, output)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, mixRequestFile{OutputPath: final})
			}
			fmt.Fprintln(cmd.OutOrStdout(), final)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (.mkv is appended when there is no extension)")
	cmd.Flags().StringArrayVar(&videos, "video", nil, "Video tracks as PATH#IDS")
	cmd.Flags().StringArrayVar(&audios, "audio", nil, "Audio tracks as PATH#IDS; repeatable")
	cmd.Flags().StringArrayVar(&subtitles, "subtitle", nil, "Subtitle tracks as PATH#IDS; repeatable")
	cmd.Flags().StringArrayVar(&langs, "lang", nil, "Language override as KIND:ID=LANG; repeatable")
	cmd.Flags().StringVar(&fromJSON, "from-json", "", "Read {inputs, outputPath} from a JSON file")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the result as JSON")
	return cmd
}

// parseTrackArg splits PATH#IDS at the last '#'.
func parseTrackArg(kind tracks.Kind, arg string) (mix.Selection, error) {
	idx := strings.LastIndex(arg, "#")
	if idx <= 0 || idx == len(arg)-1 {
		return mix.Selection{}, fmt.Errorf("invalid %s track %q: want PATH#IDS", kind, arg)
	}
	path := strings.TrimSpace(arg[:idx])
	var ids []string
	for _, id := range strings.Split(arg[idx+1:], ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if path == "" || len(ids) == 0 {
		return mix.Selection{}, fmt.Errorf("invalid %s track %q: want PATH#IDS", kind, arg)
	}
	return mix.Selection{Path: path, Kind: string(kind), TrackIDs: ids}, nil
}

// applyLangOverride attaches KIND:ID=LANG to the first selection of KIND.
func applyLangOverride(selections []mix.Selection, arg string) error {
	kindPart, rest, ok := strings.Cut(arg, ":")
	if !ok {
		return fmt.Errorf("invalid language override %q: want KIND:ID=LANG", arg)
	}
	id, lang, ok := strings.Cut(rest, "=")
	kind := tracks.ParseKind(kindPart)
	id, lang = strings.TrimSpace(id), strings.TrimSpace(lang)
	if !ok || kind == "" || id == "" || lang == "" {
		return fmt.Errorf("invalid language override %q: want KIND:ID=LANG", arg)
	}
	for i := range selections {
		if tracks.ParseKind(selections[i].Kind) != kind {
			continue
		}
		if selections[i].TrackLangs == nil {
			selections[i].TrackLangs = make(map[string]string)
		}
		selections[i].TrackLangs[id] = lang
		return nil
	}
	return fmt.Errorf("language override %q names no selected %s tracks", arg, kind)
}

// readMixRequest accepts {inputs, outputPath} or a bare selection array.
func readMixRequest(path string) (mixRequestFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return mixRequestFile{}, fmt.Errorf("read %s: %w", path, err)
	}
	var req mixRequestFile
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &req.Inputs)
	} else {
		err = json.Unmarshal(data, &req)
	}
	if err != nil {
		return mixRequestFile{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return req, nil
}
