package mix

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"trackmix/internal/media/tracks"
	"trackmix/internal/services"
)

// Planning failures. Each wraps services.ErrValidation.
var (
	ErrNoTracksProvided         = fmt.Errorf("%w: no tracks provided", services.ErrValidation)
	ErrSourceMissing            = fmt.Errorf("%w: source file missing", services.ErrValidation)
	ErrConflictingSourceForKind = fmt.Errorf("%w: conflicting source for kind", services.ErrValidation)
	ErrMissingVideoTrack        = fmt.Errorf("%w: a video track is required", services.ErrValidation)
)

// Selection is one caller-supplied entry: some track ids of one kind from
// one file, with optional per-track language overrides.
type Selection struct {
	Path       string            `json:"path"`
	Kind       string            `json:"kind"`
	TrackIDs   []string          `json:"trackIds"`
	TrackLangs map[string]string `json:"trackLangs,omitempty"`
}

// Consolidated is the validated selection for one kind.
type Consolidated struct {
	Kind              tracks.Kind       `json:"kind"`
	SourcePath        string            `json:"sourcePath"`
	TrackIDs          []string          `json:"trackIds"`
	LanguageOverrides map[string]string `json:"languageOverrides,omitempty"`
}

// Language returns the override for id, or the kind default.
func (c *Consolidated) Language(id string) string {
	if lang, ok := c.LanguageOverrides[id]; ok {
		return lang
	}
	return DefaultLanguage(c.Kind)
}

// Plan holds one consolidated selection per kind. Video is always set on
// success. Kinds other than video/audio/subtitle are kept in Other but
// produce no stage.
type Plan struct {
	Video    *Consolidated                 `json:"video"`
	Audio    *Consolidated                 `json:"audio,omitempty"`
	Subtitle *Consolidated                 `json:"subtitle,omitempty"`
	Other    map[tracks.Kind]*Consolidated `json:"other,omitempty"`
}

// Stages returns the present stage selections in video, audio, subtitle order.
func (p Plan) Stages() []*Consolidated {
	stages := make([]*Consolidated, 0, 3)
	for _, c := range []*Consolidated{p.Video, p.Audio, p.Subtitle} {
		if c != nil {
			stages = append(stages, c)
		}
	}
	return stages
}

// DefaultLanguage is the language written for tracks without an override.
func DefaultLanguage(kind tracks.Kind) string {
	switch kind {
	case tracks.KindVideo, tracks.KindAudio:
		return "ja"
	case tracks.KindSubtitle:
		return "zh-Hans"
	default:
		return "und"
	}
}

// BuildPlan validates selections and groups them by kind.
func BuildPlan(selections []Selection) (Plan, error) {
	if len(selections) == 0 {
		return Plan{}, ErrNoTracksProvided
	}

	grouped := make(map[tracks.Kind]*Consolidated)
	for _, sel := range selections {
		path := strings.TrimSpace(sel.Path)
		if path == "" {
			return Plan{}, fmt.Errorf("%w: empty path", ErrSourceMissing)
		}
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return Plan{}, fmt.Errorf("%w: %s", ErrSourceMissing, path)
			}
			return Plan{}, fmt.Errorf("%w: %s: %w", ErrSourceMissing, path, err)
		}

		ids := uniqueIDs(nil, sel.TrackIDs)
		if len(ids) == 0 {
			continue
		}

		kind := tracks.ParseKind(sel.Kind)
		entry, ok := grouped[kind]
		if !ok {
			entry = &Consolidated{Kind: kind, SourcePath: path}
			grouped[kind] = entry
		} else if entry.SourcePath != path {
			return Plan{}, fmt.Errorf("%w: %s has %s and %s", ErrConflictingSourceForKind, kind, entry.SourcePath, path)
		}
		entry.TrackIDs = uniqueIDs(entry.TrackIDs, ids)
		for id, lang := range sel.TrackLangs {
			id, lang = strings.TrimSpace(id), strings.TrimSpace(lang)
			if id == "" || lang == "" {
				continue
			}
			if entry.LanguageOverrides == nil {
				entry.LanguageOverrides = make(map[string]string)
			}
			entry.LanguageOverrides[id] = lang
		}
	}

	video, ok := grouped[tracks.KindVideo]
	if !ok {
		return Plan{}, ErrMissingVideoTrack
	}
	plan := Plan{
		Video:    video,
		Audio:    grouped[tracks.KindAudio],
		Subtitle: grouped[tracks.KindSubtitle],
	}
	for kind, c := range grouped {
		switch kind {
		case tracks.KindVideo, tracks.KindAudio, tracks.KindSubtitle:
			continue
		}
		if plan.Other == nil {
			plan.Other = make(map[tracks.Kind]*Consolidated)
		}
		plan.Other[kind] = c
	}
	return plan, nil
}

// uniqueIDs appends the trimmed, non-blank ids not already in dst.
func uniqueIDs(dst []string, ids []string) []string {
	seen := make(map[string]struct{}, len(dst)+len(ids))
	for _, id := range dst {
		seen[id] = struct{}{}
	}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		dst = append(dst, id)
	}
	return dst
}
