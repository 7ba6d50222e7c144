package textutil

import (
	"math"
	"reflect"
	"testing"
)

func TestCosineSimilarityNil(t *testing.T) {
	tests := []struct {
		name string
		a    *Fingerprint
		b    *Fingerprint
	}{
		{"both nil", nil, nil},
		{"a nil", nil, NewFingerprint("hello world")},
		{"b nil", NewFingerprint("hello world"), nil},
		{"zero norm", &Fingerprint{tokens: map[string]float64{}}, NewFingerprint("hello world")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CosineSimilarity(tt.a, tt.b); got != 0 {
				t.Errorf("CosineSimilarity() = %v, want 0", got)
			}
		})
	}
}

func TestCosineSimilarityIdentical(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog"
	if got := Similarity(text, text); math.Abs(got-1) > 1e-12 {
		t.Errorf("Similarity(identical) = %v, want 1", got)
	}
}

func TestCosineSimilarityDisjointAndPartial(t *testing.T) {
	if got := Similarity("apple banana cherry", "dog elephant frog"); got != 0 {
		t.Errorf("Similarity(disjoint) = %v, want 0", got)
	}
	got := Similarity("the quick brown fox", "the slow brown cat")
	if got <= 0 || got >= 1 {
		t.Errorf("Similarity(partial) = %v, want between 0 and 1", got)
	}
	if ab, ba := Similarity("hello world program", "world program test"), Similarity("world program test", "hello world program"); ab != ba {
		t.Errorf("Similarity not symmetric: (%v, %v)", ab, ba)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Hello, World! a", []string{"hello", "world"}},
		{"café naïve", []string{"café", "naïve"}},
		{"你好世界", []string{"你好", "好世", "世界"}},
		{"OK 的", []string{"ok", "的"}},
		{"", nil},
	}
	for _, tt := range tests {
		if got := Tokenize(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitize(t *testing.T) {
	if got := SanitizeFileName(" Episode 1: Pilot/Cut? "); got != "Episode 1- Pilot-Cut" {
		t.Errorf("SanitizeFileName = %q", got)
	}
	if got := SanitizeFileName("Act\tOne\x00...\n"); got != "Act One" {
		t.Errorf("SanitizeFileName control runes = %q", got)
	}
	tests := map[string]string{
		"Spanish (LatAm)": "spanish__latam",
		"中文":              "中文",
		"  ":              "unknown",
		"!!":              "unknown",
		"fr-CA":           "fr-ca",
	}
	for in, want := range tests {
		if got := SanitizeToken(in); got != want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", in, got, want)
		}
	}
}
