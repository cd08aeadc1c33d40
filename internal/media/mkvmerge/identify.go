package mkvmerge

import (
	"context"
	"encoding/json"
	"strings"

	"trackmix/internal/services"
)

// Identification is the decoded `mkvmerge -J` document.
type Identification struct {
	Container *Container `json:"container"`
	Tracks    []Track    `json:"tracks"`
	Errors    []string   `json:"errors"`
	Warnings  []string   `json:"warnings"`
}

// Container describes the probed file as a whole.
type Container struct {
	Type       string               `json:"type"`
	Recognized bool                 `json:"recognized"`
	Supported  bool                 `json:"supported"`
	Properties *ContainerProperties `json:"properties"`
}

// ContainerProperties holds container-level metadata.
type ContainerProperties struct {
	FileSize *uint64 `json:"file_size"`
	Title    string  `json:"title"`
}

// Track is one entry of the "tracks" array. Type is "video", "audio" or
// "subtitles".
type Track struct {
	ID         int              `json:"id"`
	Type       string           `json:"type"`
	Codec      string           `json:"codec"`
	Properties *TrackProperties `json:"properties"`
}

// TrackProperties holds per-track metadata.
type TrackProperties struct {
	Language               string   `json:"language"`
	LanguageIETF           string   `json:"language_ietf"`
	TrackName              string   `json:"track_name"`
	DefaultTrack           *bool    `json:"default_track"`
	ForcedTrack            *bool    `json:"forced_track"`
	CodecName              string   `json:"codec_name"`
	CodecID                string   `json:"codec_id"`
	Encoding               string   `json:"encoding"`
	PixelDimensions        string   `json:"pixel_dimensions"`
	AudioChannels          *int     `json:"audio_channels"`
	AudioSamplingFrequency *float64 `json:"audio_sampling_frequency"`
}

// Args returns the identification arguments for path.
func Args(path string) []string {
	return []string{"-J", path}
}

// Identify runs `mkvmerge -J` and decodes the report.
func Identify(ctx context.Context, runner services.Runner, binary, path string) (Identification, error) {
	if strings.TrimSpace(path) == "" {
		return Identification{}, services.Wrap(services.ErrValidation, "mkvmerge", "identify", "empty path", nil)
	}
	args := Args(path)
	res, err := runner.Run(ctx, binary, args...)
	if err != nil {
		return Identification{}, err
	}
	if err := services.CheckExit("mkvmerge", args, res); err != nil {
		return Identification{}, err
	}
	return Decode(res.Stdout)
}

// Decode parses an identification document.
func Decode(data []byte) (Identification, error) {
	var id Identification
	if err := json.Unmarshal(data, &id); err != nil {
		return Identification{}, services.Wrap(services.ErrOutputParse, "mkvmerge", "decode", "invalid identification JSON", err)
	}
	return id, nil
}

// ContainerType returns the container type, or "" when absent.
func (i Identification) ContainerType() string {
	if i.Container == nil {
		return ""
	}
	return i.Container.Type
}

// FileSize returns the container file size when reported.
func (i Identification) FileSize() (uint64, bool) {
	if i.Container == nil || i.Container.Properties == nil || i.Container.Properties.FileSize == nil {
		return 0, false
	}
	return *i.Container.Properties.FileSize, true
}

// Props returns the track properties, never nil.
func (t Track) Props() TrackProperties {
	if t.Properties == nil {
		return TrackProperties{}
	}
	return *t.Properties
}
