package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scriptsync/internal/history"
	"scriptsync/internal/transcript"
)

// WriteFile writes contents to path, creating parent directories, and
// returns path.
func WriteFile(t testing.TB, path, contents string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteJSON encodes value to path.
func WriteJSON(t testing.TB, path string, value any) string {
	t.Helper()

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	return WriteFile(t, path, string(data))
}

// Utterance builds an utterance whose words are spaced step seconds apart
// starting at start, each lasting step seconds.
func Utterance(text string, start, step float64) transcript.Utterance {
	fields := strings.Fields(text)
	words := make([]transcript.Word, len(fields))
	at := start
	for i, f := range fields {
		words[i] = transcript.TimedWord(f, at, at+step)
		at += step
	}
	return transcript.Utterance{Text: text, AudioStart: start, AudioEnd: at, Words: words}
}

// MustOpenHistory opens a ledger in a temp directory and registers cleanup.
func MustOpenHistory(t testing.TB) *history.Store {
	t.Helper()

	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
