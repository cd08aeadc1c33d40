package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"trackmix/internal/config"
	"trackmix/internal/testsupport"
)

// stubMkvmerge answers -J with a fixed report and otherwise creates the -o
// target.
const stubMkvmerge = `if [ "$1" = "-J" ]; then
cat <<'JSON'
{"container":{"type":"Matroska","recognized":true,"supported":true,"properties":{"file_size":2048}},
 "tracks":[
  {"id":0,"type":"video","codec":"AVC/H.264/MPEG-4p10","properties":{"language":"jpn","default_track":true,"pixel_dimensions":"1920x1080"}},
  {"id":1,"type":"audio","codec":"FLAC","properties":{"language":"jpn","language_ietf":"ja","track_name":"Main","audio_channels":2}},
  {"id":2,"type":"subtitles","codec":"SubStationAlpha","properties":{"language_ietf":"zh-Hans","forced_track":false}}
 ]}
JSON
exit 0
fi
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then
    shift
    out="$1"
  fi
  shift
done
if [ -n "$out" ]; then
  : > "$out"
fi
exit 0
`

type cliEnv struct {
	cfg        *config.Config
	configPath string
	workDir    string
}

func setupCLI(t *testing.T) *cliEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	testsupport.StubTool(t, cfg.Tools.ResourceDir, "ffprobe", "exit 0\n")
	testsupport.StubTool(t, cfg.Tools.ResourceDir, "mkvmerge", stubMkvmerge)

	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", base)
	t.Setenv("TRACKMIX_DEV", "")
	t.Setenv("TRACKMIX_TOOLS_DIR", "")
	t.Setenv("TRACKMIX_LOG_LEVEL", "")

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	configPath := filepath.Join(base, "trackmix.toml")
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	workDir := filepath.Join(base, "work")
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		t.Fatalf("mkdir work: %v", err)
	}
	return &cliEnv{cfg: cfg, configPath: configPath, workDir: workDir}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func decodeJSON[T any](t *testing.T, data string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}
	return v
}
