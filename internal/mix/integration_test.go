package mix_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"testing"

	"trackmix/internal/deps"
	"trackmix/internal/media/tracks"
	"trackmix/internal/mix"
	"trackmix/internal/services"
)

const sampleSRT = "1\n00:00:00,000 --> 00:00:00,900\nhello\n"

func requireTools(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	for _, name := range []string{"ffmpeg", "mkvmerge"} {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("%s not available", name)
		}
	}
}

// makeSource writes a one second Matroska file with one video, one audio and
// one subtitle track.
func makeSource(t *testing.T, dir string) string {
	t.Helper()
	srt := filepath.Join(dir, "in.srt")
	if err := os.WriteFile(srt, []byte(sampleSRT), 0o644); err != nil {
		t.Fatalf("write srt: %v", err)
	}
	out := filepath.Join(dir, "source.mkv")
	args := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-f", "lavfi", "-i", "testsrc=duration=1:size=160x120:rate=10",
		"-f", "lavfi", "-i", "sine=duration=1",
		"-i", srt,
		"-map", "0", "-map", "1", "-map", "2",
		"-c:v", "mpeg4", "-c:a", "aac", "-c:s", "srt",
		"-metadata:s:a:0", "language=eng",
		"-metadata:s:s:0", "language=eng",
		out,
	}
	res, err := services.ExecRunner{}.Run(context.Background(), "ffmpeg", args...)
	if err != nil {
		t.Fatalf("ffmpeg: %v", err)
	}
	if err := services.CheckExit("ffmpeg", args, res); err != nil {
		t.Fatalf("ffmpeg: %v", err)
	}
	return out
}

func TestMixWithRealTools(t *testing.T) {
	requireTools(t)
	dir := t.TempDir()
	src := makeSource(t, dir)

	locator := deps.NewFromOptions(deps.Options{UseSystemPath: true})
	prober := tracks.NewProber(locator)
	ctx := context.Background()

	var selections []mix.Selection
	for _, kind := range []string{"video", "audio", "subtitle"} {
		res, err := prober.Probe(ctx, src, kind)
		if err != nil {
			t.Fatalf("probe %s: %v", kind, err)
		}
		if len(res.Tracks) != 1 {
			t.Fatalf("expected one %s track, got %d", kind, len(res.Tracks))
		}
		selections = append(selections, mix.Selection{Path: src, Kind: kind, TrackIDs: []string{res.Tracks[0].ID}})
	}

	ex := mix.NewExecutor(locator, filepath.Join(dir, "work"))
	out, err := ex.Mix(ctx, selections, filepath.Join(dir, "out", "final"))
	if err != nil {
		t.Fatalf("Mix: %v", err)
	}

	accepted := map[tracks.Kind][]string{
		tracks.KindVideo:    {"ja", "jpn"},
		tracks.KindAudio:    {"ja", "jpn"},
		tracks.KindSubtitle: {"zh-Hans", "chi", "zho"},
	}
	for kind, langs := range accepted {
		res, err := prober.Probe(ctx, out, string(kind))
		if err != nil {
			t.Fatalf("probe output %s: %v", kind, err)
		}
		if len(res.Tracks) != 1 {
			t.Fatalf("output should carry one %s track, got %d", kind, len(res.Tracks))
		}
		track := res.Tracks[0]
		if !slices.Contains(langs, track.LanguageCode) {
			t.Errorf("%s language = %q, want one of %v", kind, track.LanguageCode, langs)
		}
		if track.IsDefault == nil || !*track.IsDefault {
			t.Errorf("%s track should be default", kind)
		}
		if track.IsForced != nil && *track.IsForced {
			t.Errorf("%s track should not be forced", kind)
		}
		if track.Label != "" {
			t.Errorf("%s track name should be cleared, got %q", kind, track.Label)
		}
	}

	entries, err := os.ReadDir(filepath.Join(dir, "work"))
	if err != nil {
		t.Fatalf("read work dir: %v", err)
	}
	for _, e := range entries {
		left, _ := os.ReadDir(filepath.Join(dir, "work", e.Name()))
		if len(left) != 0 {
			t.Fatalf("intermediates left behind in %s: %d files", e.Name(), len(left))
		}
	}
}
