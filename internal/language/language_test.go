package language

import "testing"

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"ja", "Japanese", true},
		{"JPN", "Japanese", true},
		{" eng ", "English", true},
		{"en", "English", true},
		{"zh", "Chinese", true},
		{"chi", "Chinese", true},
		{"zho", "Chinese", true},
		{"zh-CN", "Simplified Chinese", true},
		{"chs", "Simplified Chinese", true},
		{"cmn", "Simplified Chinese", true},
		{"zh-Hans", "Simplified Chinese", true},
		{"zh-Hans-CN", "Simplified Chinese", true},
		{"zh-TW", "Traditional Chinese", true},
		{"cht", "Traditional Chinese", true},
		{"zh-Hant", "Traditional Chinese", true},
		{"zh-Hant-TW", "Traditional Chinese", true},
		{"zh-HK", "Traditional Chinese", true},
		{"zh-MO", "Traditional Chinese", true},
		{"kor", "Korean", true},
		{"fra", "French", true},
		{"ger", "German", true},
		{"deu", "German", true},
		{"spa", "Spanish", true},
		{"und", "", false},
		{"xyz", "", false},
		{"", "", false},
		{"   ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := DisplayName(tt.input)
			if got != tt.want || ok != tt.ok {
				t.Errorf("DisplayName(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDisplayNameIsPure(t *testing.T) {
	for _, code := range []string{"jpn", "zh-hant", "unknown"} {
		first, firstOK := DisplayName(code)
		for i := 0; i < 3; i++ {
			got, ok := DisplayName(code)
			if got != first || ok != firstOK {
				t.Fatalf("DisplayName(%q) changed between calls", code)
			}
		}
	}
}
