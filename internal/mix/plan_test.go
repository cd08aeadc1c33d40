package mix

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"trackmix/internal/media/tracks"
	"trackmix/internal/services"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestBuildPlanRejectsEmptySelections(t *testing.T) {
	_, err := BuildPlan(nil)
	if !errors.Is(err, ErrNoTracksProvided) {
		t.Fatalf("expected ErrNoTracksProvided, got %v", err)
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
}

func TestBuildPlanSourceMissing(t *testing.T) {
	dir := t.TempDir()
	cases := []Selection{
		{Path: "", Kind: "video", TrackIDs: []string{"0"}},
		{Path: "   ", Kind: "video", TrackIDs: []string{"0"}},
		{Path: filepath.Join(dir, "absent.mkv"), Kind: "video", TrackIDs: []string{"0"}},
		// Checked before ids, so an entry without ids still fails.
		{Path: filepath.Join(dir, "absent.mkv"), Kind: "audio"},
	}
	for _, sel := range cases {
		if _, err := BuildPlan([]Selection{sel}); !errors.Is(err, ErrSourceMissing) {
			t.Fatalf("BuildPlan(%+v) = %v, want ErrSourceMissing", sel, err)
		}
	}
}

func TestBuildPlanMergesAndDeduplicates(t *testing.T) {
	dir := t.TempDir()
	video := touch(t, dir, "a.mkv")
	audio := touch(t, dir, "b.mka")

	plan, err := BuildPlan([]Selection{
		{Path: video, Kind: "Video", TrackIDs: []string{" 0 ", "0"}},
		{Path: audio, Kind: "audio", TrackIDs: []string{"1", "2"}},
		{Path: audio, Kind: "audio", TrackIDs: []string{"2", "3", ""}},
		{Path: audio, Kind: "audio", TrackIDs: []string{" "}},
	})
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if plan.Video == nil || plan.Video.SourcePath != video {
		t.Fatalf("unexpected video entry: %+v", plan.Video)
	}
	if got := plan.Video.TrackIDs; !reflect.DeepEqual(got, []string{"0"}) {
		t.Fatalf("video ids = %v", got)
	}
	if got := plan.Audio.TrackIDs; !reflect.DeepEqual(got, []string{"1", "2", "3"}) {
		t.Fatalf("audio ids = %v", got)
	}
	if plan.Subtitle != nil {
		t.Fatalf("expected no subtitle entry, got %+v", plan.Subtitle)
	}
	if n := len(plan.Stages()); n != 2 {
		t.Fatalf("expected 2 stages, got %d", n)
	}
}

func TestBuildPlanSkipsEntriesWithoutIDs(t *testing.T) {
	dir := t.TempDir()
	video := touch(t, dir, "a.mkv")
	other := touch(t, dir, "b.mkv")

	// The second video entry has a different path but no ids, so it cannot
	// conflict.
	plan, err := BuildPlan([]Selection{
		{Path: video, Kind: "video", TrackIDs: []string{"0"}},
		{Path: other, Kind: "video"},
	})
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if plan.Video.SourcePath != video {
		t.Fatalf("source = %q", plan.Video.SourcePath)
	}
}

func TestBuildPlanConflictingSource(t *testing.T) {
	dir := t.TempDir()
	video := touch(t, dir, "a.mkv")
	first := touch(t, dir, "b.mka")
	second := touch(t, dir, "c.mka")

	_, err := BuildPlan([]Selection{
		{Path: video, Kind: "video", TrackIDs: []string{"0"}},
		{Path: first, Kind: "audio", TrackIDs: []string{"1"}},
		{Path: second, Kind: "audio", TrackIDs: []string{"1"}},
	})
	if !errors.Is(err, ErrConflictingSourceForKind) {
		t.Fatalf("expected ErrConflictingSourceForKind, got %v", err)
	}
}

func TestBuildPlanRequiresVideo(t *testing.T) {
	dir := t.TempDir()
	audio := touch(t, dir, "b.mka")
	_, err := BuildPlan([]Selection{{Path: audio, Kind: "audio", TrackIDs: []string{"1"}}})
	if !errors.Is(err, ErrMissingVideoTrack) {
		t.Fatalf("expected ErrMissingVideoTrack, got %v", err)
	}
}

func TestBuildPlanLanguageOverrides(t *testing.T) {
	dir := t.TempDir()
	video := touch(t, dir, "a.mkv")
	subs := touch(t, dir, "b.ass")

	plan, err := BuildPlan([]Selection{
		{Path: video, Kind: "video", TrackIDs: []string{"0"}},
		{Path: subs, Kind: "subtitle", TrackIDs: []string{"2"}, TrackLangs: map[string]string{"2": "zh-Hant", "3": " "}},
		{Path: subs, Kind: "subtitle", TrackIDs: []string{"3"}, TrackLangs: map[string]string{" 2 ": "en"}},
	})
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	sub := plan.Subtitle
	if got := sub.Language("2"); got != "en" {
		t.Fatalf("override for 2 = %q, want later entry to win", got)
	}
	if got := sub.Language("3"); got != "zh-Hans" {
		t.Fatalf("blank override should fall back to default, got %q", got)
	}
	if got := plan.Video.Language("0"); got != "ja" {
		t.Fatalf("video default = %q", got)
	}
}

func TestBuildPlanKeepsOtherKindsOutOfStages(t *testing.T) {
	dir := t.TempDir()
	video := touch(t, dir, "a.mkv")

	plan, err := BuildPlan([]Selection{
		{Path: video, Kind: "video", TrackIDs: []string{"0"}},
		{Path: video, Kind: "attachment", TrackIDs: []string{"5"}},
	})
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	other, ok := plan.Other[tracks.Kind("attachment")]
	if !ok || !reflect.DeepEqual(other.TrackIDs, []string{"5"}) {
		t.Fatalf("unexpected other map: %+v", plan.Other)
	}
	if n := len(plan.Stages()); n != 1 {
		t.Fatalf("expected only the video stage, got %d", n)
	}
	if got := other.Language("5"); got != "und" {
		t.Fatalf("other kind default = %q", got)
	}
}
