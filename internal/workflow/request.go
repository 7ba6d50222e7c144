package workflow

import (
	"path/filepath"
	"strings"
	"time"

	"scriptsync/internal/align"
	"scriptsync/internal/history"
	"scriptsync/internal/language"
	"scriptsync/internal/subtitle"
	"scriptsync/internal/transcript"
)

// TranslationInput names one parallel translation script on disk.
type TranslationInput struct {
	// Name appears in the output file name; it defaults to the language code.
	Name     string `toml:"name" json:"name,omitempty"`
	Language string `toml:"language" json:"language"`
	Path     string `toml:"path" json:"path"`
}

// Request is one alignment run described by file paths.
type Request struct {
	// ID is the job ID; a fresh UUID is assigned when empty.
	ID string `toml:"id" json:"id,omitempty"`
	// Title prefixes output names; it defaults to the script's base name.
	Title              string             `toml:"title" json:"title,omitempty"`
	Language           string             `toml:"language" json:"language"`
	ScriptPath         string             `toml:"script" json:"script"`
	TranscriptPath     string             `toml:"transcript" json:"transcript"`
	TranscriptFormat   transcript.Format  `toml:"transcript_format" json:"transcript_format,omitempty"`
	RecognizedTextPath string             `toml:"recognized_text" json:"recognized_text,omitempty"`
	Translations       []TranslationInput `toml:"translations" json:"translations,omitempty"`
	// OutputDir overrides paths.output_dir.
	OutputDir string `toml:"output_dir" json:"output_dir,omitempty"`
	// SourceSRTPath and TimelinePath override the derived file names.
	SourceSRTPath string `toml:"source_srt" json:"source_srt,omitempty"`
	TimelinePath  string `toml:"timeline" json:"timeline,omitempty"`
}

func (r *Request) normalize() error {
	r.ScriptPath = strings.TrimSpace(r.ScriptPath)
	r.TranscriptPath = strings.TrimSpace(r.TranscriptPath)
	if r.ScriptPath == "" {
		return wrap(ErrInput, "load", "request", "script path is required", nil)
	}
	if r.TranscriptPath == "" {
		return wrap(ErrInput, "load", "request", "transcript path is required", nil)
	}
	r.Language = language.Normalize(r.Language)
	if r.Language == "" {
		return wrap(ErrInput, "load", "request", "source language is required", nil)
	}
	format, err := transcript.ParseFormat(string(r.TranscriptFormat))
	if err != nil {
		return wrap(ErrInput, "load", "request", "", err)
	}
	r.TranscriptFormat = format
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		base := filepath.Base(r.ScriptPath)
		r.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	for i := range r.Translations {
		tr := &r.Translations[i]
		tr.Language = language.Normalize(tr.Language)
		tr.Name = strings.TrimSpace(tr.Name)
		if tr.Name == "" {
			tr.Name = tr.Language
		}
		if tr.Name == "" {
			return wrap(ErrInput, "load", "request", "translation needs a name or language", nil)
		}
		tr.Path = strings.TrimSpace(tr.Path)
		if tr.Path == "" {
			return wrap(ErrInput, "load", "request", "translation "+tr.Name+" has no path", nil)
		}
	}
	return nil
}

// Result describes one run. It is returned for failed runs too, with Err set
// and Outputs empty.
type Result struct {
	JobID              string
	Title              string
	Language           string
	Status             history.Status
	Outputs            []string
	Entries            int
	Translations       []string
	FailedTranslations []subtitle.TrackFailure
	MergedSkipped      bool
	Anomalies          []align.Anomaly
	SmoothedGaps       int
	InsertRuns         int
	Similarity         float64
	StartedAt          time.Time
	FinishedAt         time.Time
	Err                error
}

// Succeeded reports whether the source track was written.
func (r *Result) Succeeded() bool {
	return r != nil && r.Err == nil
}

func (r *Result) historyRun(req Request) *history.Run {
	run := &history.Run{
		ID:                 r.JobID,
		Title:              r.Title,
		Language:           r.Language,
		ScriptPath:         req.ScriptPath,
		TranscriptPath:     req.TranscriptPath,
		Status:             r.Status,
		Entries:            r.Entries,
		Translations:       len(r.Translations),
		FailedTranslations: len(r.FailedTranslations),
		Anomalies:          len(r.Anomalies),
		SmoothedGaps:       r.SmoothedGaps,
		Outputs:            r.Outputs,
		StartedAt:          r.StartedAt,
		FinishedAt:         r.FinishedAt,
	}
	if r.Err != nil {
		run.ErrorKind = ErrorKind(r.Err)
		run.ErrorMessage = r.Err.Error()
	}
	return run
}
