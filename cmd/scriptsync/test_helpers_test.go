package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scriptsync/internal/config"
	"scriptsync/internal/testsupport"
	"scriptsync/internal/transcript"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("NO_COLOR", "1")

	cfg := testsupport.NewConfig(t, opts...)
	configPath := filepath.Join(homeDir, ".config", "scriptsync", "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	testsupport.WriteFile(t, path, string(data))
}

// writeEpisode lays down a two-paragraph script, its transcript, and a
// French translation, returning their paths.
func (e *cliTestEnv) writeEpisode(t *testing.T, name string) (script, tr, fr string) {
	t.Helper()
	dir := filepath.Join(e.baseDir, "inputs")
	script = testsupport.WriteFile(t, filepath.Join(dir, name+".txt"), "Good morning.\nSee you soon.\n")
	fr = testsupport.WriteFile(t, filepath.Join(dir, name+".fr.txt"), "Bonjour.\nA bientot.\n")
	tr = testsupport.WriteJSON(t, filepath.Join(dir, name+".json"), []transcript.Utterance{
		testsupport.Utterance("good morning see you soon", 0.5, 0.3),
	})
	return script, tr, fr
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q in output:\n%s", needle, haystack)
	}
}

func requireFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected file %s: %v", path, err)
	}
	return string(data)
}
