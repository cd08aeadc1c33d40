package ffprobe

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"trackmix/internal/services"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  *Format  `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index         *int              `json:"index"`
	CodecName     string            `json:"codec_name"`
	CodecType     string            `json:"codec_type"`
	Width         *int              `json:"width"`
	Height        *int              `json:"height"`
	RFrameRate    string            `json:"r_frame_rate"`
	Channels      *int              `json:"channels"`
	ChannelLayout string            `json:"channel_layout"`
	Disposition   *Disposition      `json:"disposition"`
	Tags          map[string]string `json:"tags"`
}

// Disposition carries ffprobe's 0/1 flags.
type Disposition struct {
	Default *int `json:"default"`
	Forced  *int `json:"forced"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	FormatName string `json:"format_name"`
	Size       string `json:"size"`
}

// Args returns the ffprobe arguments used to inspect path.
func Args(path string) []string {
	return []string{"-v", "error", "-print_format", "json", "-show_format", "-show_streams", path}
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, runner services.Runner, binary, path string) (Result, error) {
	if strings.TrimSpace(path) == "" {
		return Result{}, services.Wrap(services.ErrValidation, "ffprobe", "inspect", "empty path", nil)
	}
	args := Args(path)
	res, err := runner.Run(ctx, binary, args...)
	if err != nil {
		return Result{}, err
	}
	if err := services.CheckExit("ffprobe", args, res); err != nil {
		return Result{}, err
	}
	return Decode(res.Stdout)
}

// Decode parses an ffprobe JSON document.
func Decode(data []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return Result{}, services.Wrap(services.ErrOutputParse, "ffprobe", "decode", "invalid ffprobe JSON", err)
	}
	return result, nil
}

// Tag returns a stream tag value, or "" when absent.
func (s Stream) Tag(key string) string {
	if s.Tags == nil {
		return ""
	}
	return s.Tags[key]
}

// ContainerName returns the format name, or "" when not reported.
func (r Result) ContainerName() string {
	if r.Format == nil {
		return ""
	}
	return r.Format.FormatName
}

// SizeBytes returns the reported container size. ok is false when the size
// is missing or not a non-negative integer.
func (r Result) SizeBytes() (uint64, bool) {
	if r.Format == nil {
		return 0, false
	}
	size, err := strconv.ParseUint(strings.TrimSpace(r.Format.Size), 10, 64)
	if err != nil {
		return 0, false
	}
	return size, true
}
