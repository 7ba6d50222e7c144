package workflow

import (
	"scriptsync/internal/align"
	"scriptsync/internal/document"
	"scriptsync/internal/subtitle"
	"scriptsync/internal/textnorm"
	"scriptsync/internal/textutil"
	"scriptsync/internal/timeline"
	"scriptsync/internal/transcript"
)

// Job is one alignment request with every input already in memory.
type Job struct {
	Title        string
	Source       *document.Document
	Translations []subtitle.Translation
	Utterances   []transcript.Utterance
	// RecognizedText is the recognizer's flattened transcript. When set it is
	// checked against the utterance words.
	RecognizedText string
}

// Artifacts is the in-memory outcome of Process.
type Artifacts struct {
	Timing   *align.Timing
	Tracks   *subtitle.Tracks
	Timeline *timeline.FCPXML
	// Similarity is the token cosine similarity between the source script
	// and the recognized text. Low values suggest the wrong transcript.
	Similarity float64
}

// Process runs normalization, alignment, and projection for job. It touches
// no files and no shared state, so separate jobs may run concurrently.
func Process(job Job, s Settings) (*Artifacts, error) {
	if job.Source == nil || job.Source.Len() == 0 {
		return nil, wrap(ErrInput, "align", "source", "script has no paragraphs", nil)
	}

	n := textnorm.New(s.Normalizer)
	layout := subtitle.NewLayout(job.Source, n)
	timing, err := align.Run(align.Input{
		Source:         layout.Text,
		Utterances:     job.Utterances,
		RecognizedText: job.RecognizedText,
	}, n, s.Alignment)
	if err != nil {
		return nil, wrap(ErrAlignment, "align", "run", "", err)
	}

	tracks, err := subtitle.Project(timing, layout, job.Translations, s.Subtitles)
	if err != nil {
		return nil, wrap(ErrEmission, "emit", "project", "", err)
	}

	art := &Artifacts{
		Timing:     timing,
		Tracks:     tracks,
		Similarity: textutil.Similarity(timing.Source, timing.Recognized),
	}
	if s.ExportTimeline {
		opts := s.Timeline
		if opts.ProjectName == "" {
			opts.ProjectName = job.Title
		}
		doc, err := timeline.Build(tracks, opts)
		if err != nil {
			return nil, wrap(ErrEmission, "emit", "timeline", "", err)
		}
		art.Timeline = doc
	}
	return art, nil
}
