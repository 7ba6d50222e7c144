package subtitle

import (
	"errors"
	"strings"
	"testing"
)

func TestRenderSRT(t *testing.T) {
	entries := []Entry{
		{Seq: 1, Start: 0, End: 1.1, Text: "Hello world."},
		{Seq: 2, Start: 3661.2346, End: 3662.9996, Text: "Two\nlines"},
	}
	want := "1\n00:00:00,000 --> 00:00:01,100\nHello world.\n\n" +
		"2\n01:01:01,235 --> 01:01:03,000\nTwo\nlines\n\n"
	if got := RenderSRT(entries); got != want {
		t.Fatalf("RenderSRT mismatch:\n%q\nwant\n%q", got, want)
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{-2, "00:00:00,000"},
		{1.0006, "00:00:01,001"},
		{59.9999, "00:01:00,000"},
		{36000, "10:00:00,000"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.seconds); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestParseSRTRoundTrip(t *testing.T) {
	content := "\ufeff1\r\n00:05:46,345 --> 00:05:48,514\r\nTACTICAL.\r\n\r\n" +
		"2\n00:06:06.282 --> 00:06:07,992 X1:10 X2:20\nVISUAL.\nSECOND LINE\n\n\n" +
		"3\n00:06:13,330 --> 00:06:15,833\n"
	entries, err := ParseSRT(strings.NewReader(content))
	if err != nil {
		t.Fatalf("ParseSRT: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Seq != 1 || !approx(entries[0].Start, 346.345) || entries[0].Text != "TACTICAL." {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if !approx(entries[1].Start, 366.282) || !approx(entries[1].End, 367.992) {
		t.Errorf("entry 1 timing = %v --> %v", entries[1].Start, entries[1].End)
	}
	if entries[1].Text != "VISUAL.\nSECOND LINE" {
		t.Errorf("entry 1 text = %q", entries[1].Text)
	}
	if entries[2].Text != "" {
		t.Errorf("entry 2 text = %q, want empty", entries[2].Text)
	}

	again, err := ParseSRT(strings.NewReader(RenderSRT(entries)))
	if err != nil {
		t.Fatalf("ParseSRT rendered: %v", err)
	}
	if len(again) != len(entries) {
		t.Fatalf("round trip lost entries: %d vs %d", len(again), len(entries))
	}
	for i := range entries {
		if again[i] != entries[i] {
			t.Errorf("entry %d = %+v, want %+v", i, again[i], entries[i])
		}
	}
}

func TestParseSRTMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		line    int
	}{
		{"bad sequence", "one\n00:00:00,000 --> 00:00:01,000\nx\n", 1},
		{"missing arrow", "1\n00:00:00,000 00:00:01,000\nx\n", 2},
		{"bad timestamp", "1\n00:00:00,000 --> 00:61:01,000\nx\n", 2},
		{"lonely line", "1\n00:00:00,000 --> 00:00:01,000\nx\n\n7\n", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSRT(strings.NewReader(tt.content))
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("err = %v, want ParseError", err)
			}
			if parseErr.Line != tt.line {
				t.Fatalf("line = %d, want %d", parseErr.Line, tt.line)
			}
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("err does not unwrap to ErrMalformed")
			}
		})
	}
}

func TestParseSRTEmpty(t *testing.T) {
	entries, err := ParseSRT(strings.NewReader("\n\n  \n"))
	if err != nil {
		t.Fatalf("ParseSRT: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestValidate(t *testing.T) {
	if issues := Validate(nil); len(issues) != 1 || issues[0].Kind != IssueEmpty {
		t.Fatalf("empty issues = %v", issues)
	}

	clean := []Entry{
		{Seq: 1, Start: 0, End: 1, Text: "a"},
		{Seq: 2, Start: 1, End: 2, Text: "b"},
	}
	if issues := Validate(clean); len(issues) != 0 {
		t.Fatalf("clean issues = %v", issues)
	}

	bad := []Entry{
		{Seq: 1, Start: 0, End: 2, Text: "a"},
		{Seq: 2, Start: 1.5, End: 1, Text: "inverted and overlapping"},
		{Seq: 4, Start: 0.5, End: 0.6, Text: ""},
	}
	kinds := map[IssueKind]int{}
	for _, issue := range Validate(bad) {
		kinds[issue.Kind]++
	}
	for _, want := range []IssueKind{IssueInvertedCue, IssueOverlap, IssueOutOfOrder, IssueSequenceGap, IssueEmptyCueText} {
		if kinds[want] != 1 {
			t.Errorf("issue %s count = %d, want 1 (all: %v)", want, kinds[want], kinds)
		}
	}
}

func TestRetime(t *testing.T) {
	reference := []Entry{{Seq: 1, Start: 1, End: 2, Text: "Hello"}, {Seq: 2, Start: 3, End: 4, Text: "World"}}
	target := []Entry{{Seq: 1, Start: 0, End: 0, Text: "Bonjour"}, {Seq: 2, Start: 9, End: 9, Text: "Monde"}}

	out, err := Retime(target, reference)
	if err != nil {
		t.Fatalf("Retime: %v", err)
	}
	if out[1].Start != 3 || out[1].End != 4 || out[1].Text != "Monde" {
		t.Fatalf("retimed = %+v", out[1])
	}
	if target[1].Start != 9 {
		t.Fatalf("Retime mutated its input")
	}

	if _, err := Retime(target[:1], reference); !errors.Is(err, ErrCueCount) {
		t.Fatalf("err = %v, want ErrCueCount", err)
	}
}
