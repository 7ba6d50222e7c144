package subtitle

import (
	"strings"

	"scriptsync/internal/align"
	"scriptsync/internal/document"
)

// Entry is one timed subtitle. Seq starts at 1.
type Entry struct {
	Seq   int
	Start float64
	End   float64
	Text  string
}

// Duration returns End - Start.
func (e Entry) Duration() float64 { return e.End - e.Start }

// Track is the entry list for one language.
type Track struct {
	Name     string
	Language string
	Entries  []Entry
}

// Translation pairs a track name with its parallel document.
type Translation struct {
	Name     string
	Document *document.Document
}

// TrackFailure is a translation that could not be projected.
type TrackFailure struct {
	Name string
	Err  error
}

// Tracks is every projected track for one request.
type Tracks struct {
	Source       Track
	Translations []Track
	Failed       []TrackFailure
	// Merged is nil unless a merged track was requested and at least one
	// translation carried text.
	Merged        []Entry
	MergedSkipped bool
}

// Options selects the optional merged track.
type Options struct {
	Merge       bool
	SourceAbove bool
}

// Project times every Text paragraph of the layout's source document from the
// aligned stream and gives each parallel translation paragraph the same
// timing. It fails when a span cannot be resolved; a translation with a
// different paragraph count is reported in Failed and skipped.
func Project(timing *align.Timing, layout *Layout, translations []Translation, opts Options) (*Tracks, error) {
	if got, want := layout.Len(), timing.Stream.SourceLen(); got != want {
		return nil, &align.LengthError{Checkpoint: align.CheckpointLayout, Got: got, Want: want}
	}

	source := layout.Source
	tracks := &Tracks{Source: Track{Name: source.Name, Language: source.Language}}
	type timed struct {
		span  Span
		entry Entry
	}
	var rows []timed
	for _, span := range layout.Spans {
		if span.Kind != document.KindText {
			continue
		}
		if span.Empty() {
			return nil, &StructuralError{Paragraph: span.Paragraph, First: span.First, Last: span.Last}
		}
		start, end, err := timing.Span(span.First, span.Last)
		if err != nil {
			return nil, &StructuralError{Paragraph: span.Paragraph, First: span.First, Last: span.Last, Err: err}
		}
		if span.Paragraph == 1 {
			start = 0
		}
		if end < start {
			end = start
		}
		p, err := source.Paragraph(span.Paragraph)
		if err != nil {
			return nil, &StructuralError{Paragraph: span.Paragraph, First: span.First, Last: span.Last, Err: err}
		}
		rows = append(rows, timed{span: span, entry: Entry{Seq: len(rows) + 1, Start: start, End: end, Text: p.Content}})
	}
	tracks.Source.Entries = make([]Entry, len(rows))
	for i, row := range rows {
		tracks.Source.Entries[i] = row.entry
	}

	for _, tr := range translations {
		if got, want := tr.Document.Len(), source.Len(); got != want {
			tracks.Failed = append(tracks.Failed, TrackFailure{
				Name: tr.Name,
				Err:  &ParagraphCountError{Translation: tr.Name, Got: got, Want: want},
			})
			continue
		}
		track := Track{Name: tr.Name, Language: tr.Document.Language, Entries: make([]Entry, len(rows))}
		for i, row := range rows {
			p, _ := tr.Document.Paragraph(row.span.Paragraph)
			entry := row.entry
			entry.Text = p.Content
			track.Entries[i] = entry
		}
		tracks.Translations = append(tracks.Translations, track)
	}

	if opts.Merge {
		tracks.Merged = Merge(tracks.Source, tracks.Translations, opts.SourceAbove)
		tracks.MergedSkipped = tracks.Merged == nil
	}
	return tracks, nil
}

// Merge builds the bilingual track: each entry carries the source text and
// every translation's text, one per line. It returns nil when no translation
// has any text.
func Merge(source Track, translations []Track, sourceAbove bool) []Entry {
	hasText := false
	for _, tr := range translations {
		for _, e := range tr.Entries {
			if strings.TrimSpace(e.Text) != "" {
				hasText = true
				break
			}
		}
	}
	if !hasText {
		return nil
	}

	merged := make([]Entry, len(source.Entries))
	for i, e := range source.Entries {
		lines := make([]string, 0, len(translations))
		for _, tr := range translations {
			if i < len(tr.Entries) {
				lines = append(lines, tr.Entries[i].Text)
			}
		}
		translated := strings.TrimRight(strings.Join(lines, "\n"), "\n")
		if sourceAbove {
			e.Text = e.Text + "\n" + translated
		} else {
			e.Text = translated + "\n" + e.Text
		}
		merged[i] = e
	}
	return merged
}
