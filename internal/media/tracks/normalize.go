package tracks

import (
	"math"
	"strconv"
	"strings"

	"trackmix/internal/language"
	"trackmix/internal/media/ffprobe"
	"trackmix/internal/media/mkvmerge"
)

const unknownCodec = "unknown"

// FromFFprobe maps the streams of kind from a generic analyzer report.
func FromFFprobe(report ffprobe.Result, kind Kind) []Track {
	container := report.ContainerName()
	var fileSize string
	if size, ok := report.SizeBytes(); ok {
		fileSize = FormatBytes(size)
	}

	out := make([]Track, 0, len(report.Streams))
	for _, stream := range report.Streams {
		if stream.CodecType != string(kind) {
			continue
		}
		id := "0"
		if stream.Index != nil {
			id = strconv.Itoa(*stream.Index)
		}
		charset := stream.Tag("charset")
		if charset == "" {
			charset = stream.Tag("encoding")
		}
		track := Track{
			ID:           id,
			Kind:         kind,
			Codec:        firstNonEmpty(stream.CodecName, unknownCodec),
			LanguageCode: stream.Tag("language"),
			Label:        stream.Tag("title"),
			Charset:      charset,
			Attributes:   ffprobeAttributes(stream),
			Container:    container,
			FileSize:     fileSize,
		}
		if stream.Disposition != nil {
			track.IsDefault = flagFromInt(stream.Disposition.Default)
			track.IsForced = flagFromInt(stream.Disposition.Forced)
		}
		track.LanguageDisplayName, _ = language.DisplayName(track.LanguageCode)
		out = append(out, track)
	}
	return out
}

// FromMatroska maps the tracks of kind from a Matroska identification.
func FromMatroska(report mkvmerge.Identification, kind Kind) []Track {
	container := report.ContainerType()
	var fileSize string
	if size, ok := report.FileSize(); ok {
		fileSize = FormatBytes(size)
	}

	out := make([]Track, 0, len(report.Tracks))
	for _, mt := range report.Tracks {
		if !matroskaTypeMatches(mt.Type, kind) {
			continue
		}
		props := mt.Props()
		track := Track{
			ID:           strconv.Itoa(mt.ID),
			Kind:         kind,
			Codec:        firstNonEmpty(props.CodecName, mt.Codec, props.CodecID, unknownCodec),
			LanguageCode: firstNonEmpty(props.LanguageIETF, props.Language),
			Label:        props.TrackName,
			IsDefault:    props.DefaultTrack,
			IsForced:     props.ForcedTrack,
			Charset:      props.Encoding,
			Attributes:   matroskaAttributes(props, kind),
			Container:    container,
			FileSize:     fileSize,
		}
		track.LanguageDisplayName, _ = language.DisplayName(track.LanguageCode)
		out = append(out, track)
	}
	return out
}

// mkvmerge reports subtitle tracks as "subtitles".
func matroskaTypeMatches(trackType string, kind Kind) bool {
	if kind == KindSubtitle {
		return trackType == "subtitles" || trackType == "subtitle"
	}
	return trackType == string(kind)
}

func ffprobeAttributes(stream ffprobe.Stream) string {
	switch stream.CodecType {
	case string(KindVideo):
		parts := make([]string, 0, 2)
		if stream.Width != nil && stream.Height != nil {
			parts = append(parts, strconv.Itoa(*stream.Width)+"x"+strconv.Itoa(*stream.Height))
		}
		if rate := stream.RFrameRate; rate != "" && rate != "0/0" {
			parts = append(parts, rate)
		}
		return strings.Join(parts, " ")
	case string(KindAudio):
		parts := make([]string, 0, 2)
		if stream.Channels != nil {
			parts = append(parts, strconv.Itoa(*stream.Channels)+"ch")
		}
		if stream.ChannelLayout != "" {
			parts = append(parts, stream.ChannelLayout)
		}
		return strings.Join(parts, " ")
	default:
		return stream.Tag("title")
	}
}

func matroskaAttributes(props mkvmerge.TrackProperties, kind Kind) string {
	switch kind {
	case KindVideo:
		return props.PixelDimensions
	case KindAudio:
		parts := make([]string, 0, 2)
		if props.AudioChannels != nil {
			parts = append(parts, strconv.Itoa(*props.AudioChannels)+"ch")
		}
		if props.AudioSamplingFrequency != nil {
			hz := uint64(math.Round(math.Max(*props.AudioSamplingFrequency, 0)))
			parts = append(parts, strconv.FormatUint(hz, 10)+" Hz")
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

func flagFromInt(value *int) *bool {
	if value == nil {
		return nil
	}
	flag := *value == 1
	return &flag
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
