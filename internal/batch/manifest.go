package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"scriptsync/internal/workflow"
)

// Manifest lists the requests of one batch. Relative paths resolve against
// the manifest's directory.
//
//	language = "en"
//
//	[[job]]
//	script = "ep01.txt"
//	transcript = "ep01.json"
//	translations = [{ language = "fr", path = "ep01.fr.txt" }]
type Manifest struct {
	// Language is the default source language for jobs that omit one.
	Language  string             `toml:"language"`
	OutputDir string             `toml:"output_dir"`
	Jobs      []workflow.Request `toml:"job"`
}

// LoadManifest reads and resolves a manifest file.
func LoadManifest(path string) ([]workflow.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if len(m.Jobs) == 0 {
		return nil, errors.New("manifest has no [[job]] entries")
	}
	return m.resolve(filepath.Dir(path)), nil
}

func (m *Manifest) resolve(base string) []workflow.Request {
	reqs := make([]workflow.Request, len(m.Jobs))
	for i, job := range m.Jobs {
		if job.Language == "" {
			job.Language = m.Language
		}
		if job.OutputDir == "" {
			job.OutputDir = m.OutputDir
		}
		job.ScriptPath = resolvePath(base, job.ScriptPath)
		job.TranscriptPath = resolvePath(base, job.TranscriptPath)
		job.RecognizedTextPath = resolvePath(base, job.RecognizedTextPath)
		job.OutputDir = resolvePath(base, job.OutputDir)
		job.SourceSRTPath = resolvePath(base, job.SourceSRTPath)
		job.TimelinePath = resolvePath(base, job.TimelinePath)
		translations := make([]workflow.TranslationInput, len(job.Translations))
		for j, tr := range job.Translations {
			tr.Path = resolvePath(base, tr.Path)
			translations[j] = tr
		}
		job.Translations = translations
		reqs[i] = job
	}
	return reqs
}

func resolvePath(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
