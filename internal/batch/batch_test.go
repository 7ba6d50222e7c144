package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"scriptsync/internal/logging"
	"scriptsync/internal/subtitle"
	"scriptsync/internal/testsupport"
	"scriptsync/internal/transcript"
	"scriptsync/internal/workflow"
)

type fakeExecutor struct {
	mu       sync.Mutex
	inFlight int32
	peak     int32
	fail     map[string]bool
	partial  map[string]bool
}

func (f *fakeExecutor) Run(ctx context.Context, req workflow.Request) (*workflow.Result, error) {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	f.mu.Lock()
	if n > f.peak {
		f.peak = n
	}
	f.mu.Unlock()
	time.Sleep(10 * time.Millisecond)

	result := &workflow.Result{Title: req.Title}
	if f.fail[req.Title] {
		result.Err = errors.New("boom")
		return result, result.Err
	}
	if f.partial[req.Title] {
		result.FailedTranslations = []subtitle.TrackFailure{{Name: "fr", Err: subtitle.ErrParagraphCount}}
	}
	return result, nil
}

func requests(n int) []workflow.Request {
	reqs := make([]workflow.Request, n)
	for i := range reqs {
		reqs[i] = workflow.Request{Title: fmt.Sprintf("job-%d", i)}
	}
	return reqs
}

func TestRunBoundsConcurrencyAndKeepsOrder(t *testing.T) {
	exec := &fakeExecutor{
		fail:    map[string]bool{"job-2": true},
		partial: map[string]bool{"job-4": true},
	}
	outcomes := Run(context.Background(), exec, requests(8), 3, logging.NewNop())

	if len(outcomes) != 8 {
		t.Fatalf("outcomes = %d, want 8", len(outcomes))
	}
	for i, o := range outcomes {
		if o.Index != i || o.Request.Title != fmt.Sprintf("job-%d", i) {
			t.Fatalf("outcome %d = %+v", i, o)
		}
	}
	if exec.peak > 3 {
		t.Fatalf("peak concurrency = %d, want <= 3", exec.peak)
	}
	got := Summarize(outcomes)
	want := Summary{Succeeded: 6, Partial: 1, Failed: 1}
	if got != want {
		t.Fatalf("summary = %+v, want %+v", got, want)
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcomes := Run(ctx, &fakeExecutor{}, requests(3), 2, nil)
	for _, o := range outcomes {
		if !errors.Is(o.Err, context.Canceled) {
			t.Fatalf("outcome %d err = %v, want context.Canceled", o.Index, o.Err)
		}
	}
}

func TestLoadManifestResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteFile(t, filepath.Join(dir, "batch.toml"), `
language = "en"
output_dir = "out"

[[job]]
title = "Pilot"
script = "scripts/pilot.txt"
transcript = "/abs/pilot.json"
translations = [{ language = "fr", path = "scripts/pilot.fr.txt" }]

[[job]]
language = "ja"
script = "ep2.txt"
transcript = "ep2.json"
transcript_format = "whisperx"
`)

	reqs, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if len(reqs) != 2 {
		t.Fatalf("jobs = %d, want 2", len(reqs))
	}
	first := reqs[0]
	if first.Language != "en" || first.OutputDir != filepath.Join(dir, "out") {
		t.Fatalf("defaults not applied: %+v", first)
	}
	if first.ScriptPath != filepath.Join(dir, "scripts", "pilot.txt") || first.TranscriptPath != "/abs/pilot.json" {
		t.Fatalf("paths = %q %q", first.ScriptPath, first.TranscriptPath)
	}
	if len(first.Translations) != 1 || first.Translations[0].Path != filepath.Join(dir, "scripts", "pilot.fr.txt") {
		t.Fatalf("translations = %+v", first.Translations)
	}
	second := reqs[1]
	if second.Language != "ja" || second.TranscriptFormat != transcript.FormatWhisperX {
		t.Fatalf("second = %+v", second)
	}
}

func TestLoadManifestRejectsEmpty(t *testing.T) {
	path := testsupport.WriteFile(t, filepath.Join(t.TempDir(), "batch.toml"), "language = \"en\"\n")
	if _, err := LoadManifest(path); err == nil {
		t.Fatal("expected error for manifest without jobs")
	}
}

func TestRunWithWorkflowRunner(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := t.TempDir()
	var reqs []workflow.Request
	for i := range 4 {
		name := fmt.Sprintf("ep%d", i)
		script := testsupport.WriteFile(t, filepath.Join(dir, name+".txt"), "Good morning.\nSee you soon.\n")
		tr := testsupport.WriteJSON(t, filepath.Join(dir, name+".json"), []transcript.Utterance{
			testsupport.Utterance("good morning see you soon", 0.5, 0.3),
		})
		reqs = append(reqs, workflow.Request{Language: "en", ScriptPath: script, TranscriptPath: tr})
	}

	runner := workflow.NewRunner(cfg, logging.NewNop(), nil)
	outcomes := Run(context.Background(), runner, reqs, 2, logging.NewNop())
	for _, o := range outcomes {
		if o.Err != nil {
			t.Fatalf("job %d: %v", o.Index, o.Err)
		}
		if o.Result.Entries != 2 || len(o.Result.Outputs) != 1 {
			t.Fatalf("job %d result = %+v", o.Index, o.Result)
		}
	}
}
