package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"scriptsync/internal/testsupport"
)

func TestAlignWritesTracks(t *testing.T) {
	env := setupCLITestEnv(t)
	script, tr, fr := env.writeEpisode(t, "ep01")

	out, _, err := runCLI(t, []string{
		"align", "--script", script, "--transcript", tr, "--language", "en",
		"--translation", "fr=" + fr,
	}, env.configPath)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	requireContains(t, out, "[OK] 2 cues")
	requireContains(t, out, "en (English)")

	outDir := env.cfg.Paths.OutputDir
	source := requireFile(t, filepath.Join(outDir, "ep01_en_source.srt"))
	requireContains(t, source, "Good morning.")
	// The first cue starts at zero even though speech begins at 0.5s.
	requireContains(t, source, "1\n00:00:00,000 --> 00:00:01,100\n")
	french := requireFile(t, filepath.Join(outDir, "ep01_en_fr_translate.srt"))
	requireContains(t, french, "Bonjour.")
	merged := requireFile(t, filepath.Join(outDir, "ep01_en_merge.srt"))
	requireContains(t, merged, "Good morning.\nBonjour.")
}

func TestAlignNoMergeAndTimeline(t *testing.T) {
	env := setupCLITestEnv(t)
	script, tr, fr := env.writeEpisode(t, "ep02")
	timelinePath := filepath.Join(env.baseDir, "cuts", "ep02.fcpxml")

	_, _, err := runCLI(t, []string{
		"align", "--script", script, "--transcript", tr, "--language", "en",
		"--translation", "fr=" + fr, "--merge=false", "--timeline-path", timelinePath,
	}, env.configPath)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	requireContains(t, requireFile(t, timelinePath), "<fcpxml")
	requireFile(t, filepath.Join(env.cfg.Paths.OutputDir, "ep02_en_fr_translate.srt"))
	matches, _ := filepath.Glob(filepath.Join(env.cfg.Paths.OutputDir, "*_merge.srt"))
	if len(matches) != 0 {
		t.Fatalf("merged file written despite --merge=false: %v", matches)
	}
}

func TestAlignJSONReportsFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	script, _, _ := env.writeEpisode(t, "ep03")

	out, _, err := runCLI(t, []string{
		"align", "--script", script, "--transcript", filepath.Join(env.baseDir, "missing.json"),
		"--language", "en", "--json",
	}, env.configPath)
	if err == nil {
		t.Fatal("expected error for missing transcript")
	}
	var view resultView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if view.Status != "failed" || view.ErrorKind != "input" || len(view.Outputs) != 0 {
		t.Fatalf("view = %+v", view)
	}
}

func TestAlignRequiresFlags(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"align", "--language", "en"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "script") {
		t.Fatalf("error = %v, want missing --script", err)
	}
}

func TestInspectWritesNothing(t *testing.T) {
	env := setupCLITestEnv(t)
	script, tr, _ := env.writeEpisode(t, "ep04")

	out, _, err := runCLI(t, []string{
		"inspect", "--script", script, "--transcript", tr, "--language", "en",
	}, env.configPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "See you soon.")
	requireContains(t, out, "00:00:00,000")
	requireContains(t, out, "00:00:01,100")
	matches, _ := filepath.Glob(filepath.Join(env.cfg.Paths.OutputDir, "*"))
	if len(matches) != 0 {
		t.Fatalf("inspect wrote files: %v", matches)
	}
}

func TestBatchCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	s1, t1, fr := env.writeEpisode(t, "ep05")
	s2, t2, _ := env.writeEpisode(t, "ep06")
	manifest := testsupport.WriteFile(t, filepath.Join(env.baseDir, "jobs.toml"), `
language = "en"

[[job]]
script = "`+s1+`"
transcript = "`+t1+`"
translations = [{ language = "fr", path = "`+fr+`" }]

[[job]]
script = "`+s2+`"
transcript = "`+t2+`"

[[job]]
script = "`+s2+`"
transcript = "missing.json"
title = "broken"
`)

	out, _, err := runCLI(t, []string{"batch", manifest, "-j", "2"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "1 of 3 jobs failed") {
		t.Fatalf("error = %v, want one failed job", err)
	}
	requireContains(t, out, "2 succeeded, 0 partial, 1 failed")
	requireFile(t, filepath.Join(env.cfg.Paths.OutputDir, "ep05_en_fr_translate.srt"))
	requireFile(t, filepath.Join(env.cfg.Paths.OutputDir, "ep06_en_source.srt"))
}

func TestHistoryCommands(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithHistory())
	script, tr, _ := env.writeEpisode(t, "ep07")

	if _, _, err := runCLI(t, []string{
		"align", "--script", script, "--transcript", tr, "--language", "en", "--title", "Pilot",
	}, env.configPath); err != nil {
		t.Fatalf("align: %v", err)
	}

	out, _, err := runCLI(t, []string{"history", "list", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	var runs []runView
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(runs) != 1 || runs[0].Title != "Pilot" || runs[0].Status != "succeeded" || runs[0].Entries != 2 {
		t.Fatalf("runs = %+v", runs)
	}

	out, _, err = runCLI(t, []string{"history", "show", runs[0].ID[:8]}, env.configPath)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, runs[0].ID)
	requireContains(t, out, "Pilot_en_source.srt")

	out, _, err = runCLI(t, []string{"history", "prune", "--older-than", "1ns"}, env.configPath)
	if err != nil {
		t.Fatalf("history prune: %v", err)
	}
	requireContains(t, out, "Removed 1 run(s)")
}

func TestHistoryDisabled(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"history", "list"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "history is disabled") {
		t.Fatalf("error = %v", err)
	}
}

func TestParseTranslationFlag(t *testing.T) {
	tests := []struct {
		in       string
		name     string
		language string
		path     string
		wantErr  bool
	}{
		{in: "fr=ep.fr.txt", language: "fr", path: "ep.fr.txt"},
		{in: "quebec:fr=ep.qc.txt", name: "quebec", language: "fr", path: "ep.qc.txt"},
		{in: "fr", wantErr: true},
		{in: "=x.txt", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseTranslationFlag(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", tt.in, err)
			continue
		}
		if got.Name != tt.name || got.Language != tt.language || got.Path != tt.path {
			t.Errorf("%q = %+v", tt.in, got)
		}
	}
}
