package output

import (
	"encoding/json"
	"fmt"
	"time"

	"scriptsync/internal/align"
)

// DiagnosticRecord is one merged-stream character as dumped for debugging.
type DiagnosticRecord struct {
	Index      int     `json:"index"`
	Char       string  `json:"char"`
	Source     int     `json:"source"`
	Recognized int     `json:"recognized"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Eva        float64 `json:"eva,omitempty"`
	Provenance string  `json:"provenance"`
	Detail     string  `json:"detail,omitempty"`
	Anomaly    string  `json:"anomaly,omitempty"`
}

// DiagnosticRun summarizes one edit op's merged range.
type DiagnosticRun struct {
	Op    string `json:"op"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Diagnostics is the JSON document written under paths.diagnostics_dir.
type Diagnostics struct {
	JobID        string             `json:"job_id"`
	Title        string             `json:"title"`
	Language     string             `json:"language"`
	GeneratedAt  time.Time          `json:"generated_at"`
	Source       string             `json:"source"`
	Recognized   string             `json:"recognized"`
	FinalEnd     float64            `json:"final_end"`
	SmoothedGaps int                `json:"smoothed_gaps"`
	Anomalies    []string           `json:"anomalies"`
	Runs         []DiagnosticRun    `json:"runs"`
	Records      []DiagnosticRecord `json:"records"`
}

// NewDiagnostics flattens a timing result.
func NewDiagnostics(jobID, title, lang string, timing *align.Timing) *Diagnostics {
	d := &Diagnostics{
		JobID:        jobID,
		Title:        title,
		Language:     lang,
		GeneratedAt:  time.Now().UTC(),
		Source:       timing.Source,
		Recognized:   timing.Recognized,
		FinalEnd:     timing.FinalEnd,
		SmoothedGaps: timing.SmoothedGaps,
		Anomalies:    make([]string, 0, len(timing.Anomalies)),
		Runs:         make([]DiagnosticRun, 0, len(timing.Stream.Runs)),
		Records:      make([]DiagnosticRecord, 0, timing.Stream.Len()),
	}
	for _, a := range timing.Anomalies {
		d.Anomalies = append(d.Anomalies, a.String())
	}
	for _, run := range timing.Stream.Runs {
		d.Runs = append(d.Runs, DiagnosticRun{Op: run.Kind.String(), Start: run.Start, End: run.End})
	}
	for i := range timing.Stream.Records {
		r := &timing.Stream.Records[i]
		rec := DiagnosticRecord{
			Index:      r.MergedIndex,
			Char:       string(r.Char),
			Source:     r.SourceIndex,
			Recognized: r.GeneratedIndex,
			Start:      r.Start,
			End:        r.End,
			Eva:        r.Eva,
			Anomaly:    r.Anomaly.String(),
		}
		if r.Provenance != nil {
			rec.Provenance = align.Tag(r.Provenance)
			rec.Detail = r.Provenance.String()
		}
		d.Records = append(d.Records, rec)
	}
	return d
}

// Encode renders the document as indented JSON.
func (d *Diagnostics) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode diagnostics: %w", err)
	}
	return append(data, '\n'), nil
}
