package tracks

import "strings"

// Kind is the coarse category of a track.
type Kind string

const (
	KindVideo    Kind = "video"
	KindAudio    Kind = "audio"
	KindSubtitle Kind = "subtitle"
)

// ParseKind trims and lowercases a caller-supplied kind. Unknown kinds are
// allowed; they only match generic-analyzer streams of the same type.
func ParseKind(value string) Kind {
	return Kind(strings.ToLower(strings.TrimSpace(value)))
}

func (k Kind) String() string { return string(k) }

// Track is a single stream inside a container.
type Track struct {
	ID                  string `json:"id"`
	Kind                Kind   `json:"kind"`
	Codec               string `json:"codec"`
	LanguageCode        string `json:"languageCode,omitempty"`
	LanguageDisplayName string `json:"languageDisplayName,omitempty"`
	Label               string `json:"label,omitempty"`
	IsDefault           *bool  `json:"isDefault,omitempty"`
	IsForced            *bool  `json:"isForced,omitempty"`
	Charset             string `json:"charset,omitempty"`
	Attributes          string `json:"attributes,omitempty"`
	Container           string `json:"container,omitempty"`
	FileSize            string `json:"fileSize,omitempty"`
}

// Result is the ordered set of tracks of one kind found in one file. Order
// follows the analyzer's report.
type Result struct {
	Tracks []Track `json:"tracks"`
}
