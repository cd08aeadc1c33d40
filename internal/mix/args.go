package mix

import (
	"path/filepath"
	"strings"

	"trackmix/internal/media/tracks"
)

// Selector flag per kind, in the order the disabled flags are written.
var kindSelectors = []struct {
	kind tracks.Kind
	flag string
}{
	{tracks.KindVideo, "--video-tracks"},
	{tracks.KindAudio, "--audio-tracks"},
	{tracks.KindSubtitle, "--subtitle-tracks"},
}

// IntermediateName returns the Stage 1 file name for kind.
func IntermediateName(kind tracks.Kind) string {
	switch kind {
	case tracks.KindAudio:
		return "audio.mka"
	case tracks.KindSubtitle:
		return "subtitle.mks"
	default:
		return string(kind) + ".mkv"
	}
}

// BuildStageArgs returns the mkvmerge arguments that extract the selected
// tracks of one kind into output. The selected kind's flag comes first, the
// other two are disabled with -1, then per-track name, flag and language
// rewrites, then the source path.
func BuildStageArgs(sel *Consolidated, output string) []string {
	args := make([]string, 0, 8+len(sel.TrackIDs)*8)
	args = append(args, "-o", output)
	for _, s := range kindSelectors {
		if s.kind == sel.Kind {
			args = append(args, s.flag, strings.Join(sel.TrackIDs, ","))
		}
	}
	for _, s := range kindSelectors {
		if s.kind != sel.Kind {
			args = append(args, s.flag, "-1")
		}
	}
	for _, id := range sel.TrackIDs {
		args = append(args,
			"--track-name", id+":",
			"--default-track-flag", id+":yes",
			"--forced-display-flag", id+":no",
			"--language", id+":"+sel.Language(id),
		)
	}
	return append(args, sel.SourcePath)
}

// BuildCombineArgs returns the Stage 2 arguments. Intermediates must already
// be in video, audio, subtitle order.
func BuildCombineArgs(output string, intermediates []string) []string {
	args := make([]string, 0, 2+len(intermediates))
	args = append(args, "-o", output)
	return append(args, intermediates...)
}

// ResolveOutputPath appends .mkv when path has no extension.
func ResolveOutputPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	// A dot-file name like ".hidden" has no extension.
	if ext := filepath.Ext(path); ext == "" || ext == filepath.Base(path) {
		return path + ".mkv"
	}
	return path
}
