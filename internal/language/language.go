package language

import "strings"

type entry struct {
	codes   []string // ISO 639-1, ISO 639-2 and common regional tags
	display string
}

var languages = []entry{
	{[]string{"ja", "jpn"}, "Japanese"},
	{[]string{"en", "eng"}, "English"},
	{[]string{"zh", "chi", "zho"}, "Chinese"},
	{[]string{"zh-cn", "chs", "cmn"}, "Simplified Chinese"},
	{[]string{"zh-tw", "cht"}, "Traditional Chinese"},
	{[]string{"ko", "kor"}, "Korean"},
	{[]string{"fr", "fra"}, "French"},
	{[]string{"de", "deu", "ger"}, "German"},
	{[]string{"es", "spa"}, "Spanish"},
}

// Script and region prefixes checked before the table. Order matters:
// "zh-hant" must not be shadowed by a shorter prefix.
var chinesePrefixes = []struct {
	prefix  string
	display string
}{
	{"zh-hans", "Simplified Chinese"},
	{"zh-hant", "Traditional Chinese"},
	{"zh-hk", "Traditional Chinese"},
	{"zh-mo", "Traditional Chinese"},
}

var byCode map[string]string

func init() {
	byCode = make(map[string]string, len(languages)*3)
	for _, e := range languages {
		for _, code := range e.codes {
			byCode[code] = e.display
		}
	}
}

// Normalize trims and lowercases a language code.
func Normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// DisplayName returns the English name for a recognized code. Unmapped or
// empty codes report false.
func DisplayName(code string) (string, bool) {
	code = Normalize(code)
	if code == "" {
		return "", false
	}
	for _, p := range chinesePrefixes {
		if strings.HasPrefix(code, p.prefix) {
			return p.display, true
		}
	}
	display, ok := byCode[code]
	return display, ok
}
