package workflow

import (
	"bytes"

	"scriptsync/internal/output"
	"scriptsync/internal/subtitle"
)

// Targets places each artifact. Empty overrides fall back to Names.
type Targets struct {
	Names         output.Names
	SourceSRTPath string
	TimelinePath  string
	// DiagnosticsDir enables the merged-record dump when set.
	DiagnosticsDir string
}

// Render turns artifacts into the file set for one request. Nothing is
// written; a render error means no file of the set is usable.
func Render(jobID string, art *Artifacts, t Targets) ([]output.File, error) {
	tracks := art.Tracks
	files := make([]output.File, 0, len(tracks.Translations)+3)

	sourcePath := t.SourceSRTPath
	if sourcePath == "" {
		sourcePath = t.Names.Source()
	}
	files = append(files, output.File{Path: sourcePath, Data: []byte(subtitle.RenderSRT(tracks.Source.Entries))})

	for _, tr := range tracks.Translations {
		files = append(files, output.File{
			Path: t.Names.Translation(tr.Name),
			Data: []byte(subtitle.RenderSRT(tr.Entries)),
		})
	}
	if tracks.Merged != nil {
		files = append(files, output.File{Path: t.Names.Merged(), Data: []byte(subtitle.RenderSRT(tracks.Merged))})
	}

	if art.Timeline != nil {
		var buf bytes.Buffer
		if err := art.Timeline.Encode(&buf); err != nil {
			return nil, wrap(ErrEmission, "emit", "timeline", "", err)
		}
		path := t.TimelinePath
		if path == "" {
			path = t.Names.Timeline()
		}
		files = append(files, output.File{Path: path, Data: buf.Bytes()})
	}

	if t.DiagnosticsDir != "" {
		diag := output.NewDiagnostics(jobID, t.Names.Title, t.Names.Language, art.Timing)
		data, err := diag.Encode()
		if err != nil {
			return nil, wrap(ErrEmission, "emit", "diagnostics", "", err)
		}
		names := t.Names
		names.Dir = t.DiagnosticsDir
		files = append(files, output.File{Path: names.Diagnostics(jobID), Data: data})
	}
	return files, nil
}
