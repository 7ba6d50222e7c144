package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"scriptsync/internal/language"
	"scriptsync/internal/workflow"
)

// resultView is the JSON shape of one run.
type resultView struct {
	JobID              string            `json:"job_id"`
	Title              string            `json:"title"`
	Language           string            `json:"language"`
	Status             string            `json:"status"`
	Entries            int               `json:"entries"`
	Outputs            []string          `json:"outputs"`
	Translations       []string          `json:"translations,omitempty"`
	FailedTranslations map[string]string `json:"failed_translations,omitempty"`
	MergedSkipped      bool              `json:"merged_skipped,omitempty"`
	Anomalies          []string          `json:"anomalies,omitempty"`
	SmoothedGaps       int               `json:"smoothed_gaps"`
	InsertRuns         int               `json:"insert_runs"`
	Similarity         float64           `json:"similarity"`
	DurationMS         int64             `json:"duration_ms"`
	Error              string            `json:"error,omitempty"`
	ErrorKind          string            `json:"error_kind,omitempty"`
}

func newResultView(r *workflow.Result) resultView {
	view := resultView{
		JobID:         r.JobID,
		Title:         r.Title,
		Language:      r.Language,
		Status:        string(r.Status),
		Entries:       r.Entries,
		Outputs:       r.Outputs,
		Translations:  r.Translations,
		MergedSkipped: r.MergedSkipped,
		SmoothedGaps:  r.SmoothedGaps,
		InsertRuns:    r.InsertRuns,
		Similarity:    r.Similarity,
		DurationMS:    r.FinishedAt.Sub(r.StartedAt).Milliseconds(),
	}
	if view.Outputs == nil {
		view.Outputs = []string{}
	}
	if len(r.FailedTranslations) > 0 {
		view.FailedTranslations = make(map[string]string, len(r.FailedTranslations))
		for _, f := range r.FailedTranslations {
			view.FailedTranslations[f.Name] = f.Err.Error()
		}
	}
	for _, a := range r.Anomalies {
		view.Anomalies = append(view.Anomalies, a.String())
	}
	if r.Err != nil {
		view.Error = r.Err.Error()
		view.ErrorKind = workflow.ErrorKind(r.Err)
	}
	return view
}

// writeJSON prints v as indented JSON. Cue text and paths are written
// unescaped so "<i>" tags and "&" survive for downstream tools.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderResult prints a human summary of one run.
func renderResult(w io.Writer, r *workflow.Result, colorize bool) {
	title := r.Title
	if title == "" {
		title = r.JobID
	}
	printLines(w, renderSectionHeader(title, colorize)...)

	message := fmt.Sprintf("%d cues", r.Entries)
	if r.Err != nil {
		message = r.Err.Error()
	}
	printLines(w, renderStatusLine("Status", statusKindFor(r.Status), message, colorize))
	if r.Language != "" {
		printLines(w, renderStatusLine("Language", statusInfo, languageLabel(r.Language), colorize))
	}
	for _, path := range r.Outputs {
		printLines(w, renderStatusLine("Wrote", statusInfo, path, colorize))
	}
	for _, f := range r.FailedTranslations {
		printLines(w, renderStatusLine("Translation", statusWarn, fmt.Sprintf("%s: %v", f.Name, f.Err), colorize))
	}
	if r.MergedSkipped {
		printLines(w, renderStatusLine("Merged", statusInfo, "skipped; no translation text", colorize))
	}
	if n := len(r.Anomalies); n > 0 {
		printLines(w, renderStatusLine("Anomalies", statusWarn, fmt.Sprintf("%d flagged words (first: %s)", n, r.Anomalies[0]), colorize))
	}
	if r.Err == nil {
		printLines(w, renderStatusLine("Similarity", similarityKind(r.Similarity), fmt.Sprintf("%.2f", r.Similarity), colorize))
	}
}

func languageLabel(code string) string {
	return fmt.Sprintf("%s (%s)", code, language.DisplayName(code))
}

// parseTranslationFlag reads "lang=path" or "name:lang=path".
func parseTranslationFlag(value string) (workflow.TranslationInput, error) {
	key, path, ok := strings.Cut(value, "=")
	key = strings.TrimSpace(key)
	path = strings.TrimSpace(path)
	if !ok || key == "" || path == "" {
		return workflow.TranslationInput{}, fmt.Errorf("translation %q: expected lang=path", value)
	}
	in := workflow.TranslationInput{Language: key, Path: path}
	if name, lang, ok := strings.Cut(key, ":"); ok {
		in.Name = strings.TrimSpace(name)
		in.Language = strings.TrimSpace(lang)
	}
	return in, nil
}
