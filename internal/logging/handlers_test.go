package logging

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"regexp"
	"strings"
	"testing"
)

var consoleTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3} INFO `)

func TestWithSession(t *testing.T) {
	var buf bytes.Buffer
	slog.New(withSession(slog.NewJSONHandler(&buf, nil), "session-abc")).With("extra", "value").Info("test message")

	output := buf.String()
	if !strings.Contains(output, `"session_id":"session-abc"`) {
		t.Errorf("expected session_id in output, got: %s", output)
	}
	if !strings.Contains(output, `"extra":"value"`) {
		t.Errorf("expected extra attr in output, got: %s", output)
	}

	base := slog.NewJSONHandler(&buf, nil)
	if withSession(base, "") != slog.Handler(base) {
		t.Error("expected the base handler back without a session ID")
	}
}

func TestConsoleOmitsSessionID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Level: "info", Writer: &buf, SessionID: "session-abc"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("aligned")
	if strings.Contains(buf.String(), "session") {
		t.Fatalf("console output carries session id: %q", buf.String())
	}
	if !consoleTimePattern.MatchString(buf.String()) {
		t.Fatalf("expected millisecond timestamp header, got %q", buf.String())
	}
}

func TestFanoutHandlerRespectsLevels(t *testing.T) {
	var infoBuf, debugBuf bytes.Buffer
	infoHandler := slog.NewJSONHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo})
	debugHandler := slog.NewJSONHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug})

	logger := slog.New(newFanoutHandler(infoHandler, nil, debugHandler)).With("k", "v")
	logger.Debug("quiet")
	logger.Info("loud")

	if strings.Contains(infoBuf.String(), "quiet") {
		t.Fatalf("info handler received debug record: %s", infoBuf.String())
	}
	if !strings.Contains(debugBuf.String(), "quiet") || !strings.Contains(debugBuf.String(), "loud") {
		t.Fatalf("debug handler missing records: %s", debugBuf.String())
	}
	if !strings.Contains(infoBuf.String(), `"k":"v"`) {
		t.Fatalf("WithAttrs not propagated: %s", infoBuf.String())
	}
	if !logger.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("fanout should be enabled when any handler is")
	}
}

func TestFanoutHandlerCollapses(t *testing.T) {
	if _, ok := newFanoutHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler for all nil handlers")
	}
	inner := slog.NewJSONHandler(&bytes.Buffer{}, nil)
	if newFanoutHandler(inner) != inner {
		t.Fatal("expected single handler to be returned unwrapped")
	}
}

func TestComposeSubject(t *testing.T) {
	tests := []struct {
		job, stage, want string
	}{
		{"", "", ""},
		{"", "align", "align"},
		{"0123456789abcdef", "", "Job 01234567"},
		{"abc", "emit", "Job abc (emit)"},
	}
	for _, tt := range tests {
		if got := composeSubject(tt.job, tt.stage); got != tt.want {
			t.Errorf("composeSubject(%q, %q) = %q, want %q", tt.job, tt.stage, got, tt.want)
		}
	}
}

func TestDedupeKeepsLastValue(t *testing.T) {
	in := []kv{
		{key: "a", value: slog.IntValue(1)},
		{key: "b", value: slog.IntValue(2)},
		{key: "a", value: slog.IntValue(3)},
	}
	out := dedupeKVsByKey(in)
	if len(out) != 2 || out[0].key != "a" || out[0].value.Int64() != 3 || out[1].key != "b" {
		t.Fatalf("unexpected dedupe result: %+v", out)
	}
}

func TestFormatValueTrimsFloats(t *testing.T) {
	tests := []struct {
		in   slog.Value
		want string
	}{
		{slog.Float64Value(0.30000000000000004), "0.3"},
		{slog.Float64Value(12.3456), "12.346"},
		{slog.StringValue("two words"), `"two words"`},
		{slog.StringValue(""), `""`},
		{slog.IntValue(7), "7"},
	}
	for _, tt := range tests {
		if got := formatValue(tt.in); got != tt.want {
			t.Errorf("formatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJSONHandlerEncodesNonFiniteFloats(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	handler, err := newJSONHandler(&buf, lvl, false)
	if err != nil {
		t.Fatal(err)
	}
	slog.New(handler).Info("ratio", Float64("similarity", math.NaN()), Seconds("end", 1.23449))

	out := buf.String()
	if !strings.Contains(out, `"similarity":"NaN"`) {
		t.Fatalf("NaN not stringified: %s", out)
	}
	if !strings.Contains(out, `"end":1.234`) {
		t.Fatalf("seconds not rounded: %s", out)
	}
}
