package language

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "en"},
		{"EN", "en"},
		{"eng", "en"},
		{"fre", "fr"},
		{"chi", "zh"},
		{"Chinese", "zh"},
		{"zh-Hans-CN", "zh"},
		{"zh_TW", "zh"},
		{"en-US", "en"},
		{"pt-BR", "pt"},
		{"yue", "yue"},
		{"xx", "xx"},
		{"", ""},
		{"  ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "English"},
		{"fra", "French"},
		{"zh-Hant", "Chinese"},
		{"th", "Thai"},
		{"", "Unknown"},
		{"xyz", "XYZ"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := DisplayName(tt.input); got != tt.expected {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestWordJoiner(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", " "},
		{"zh", ""},
		{"zh-CN", ""},
		{"jpn", ""},
		{"th", ""},
		{"ko", " "},
		{"", " "},
		{"xx", " "},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := WordJoiner(tt.input, " "); got != tt.expected {
				t.Errorf("WordJoiner(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
