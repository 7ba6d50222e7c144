package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"scriptsync/internal/config"
	"scriptsync/internal/document"
	"scriptsync/internal/history"
	"scriptsync/internal/logging"
	"scriptsync/internal/output"
	"scriptsync/internal/subtitle"
	"scriptsync/internal/transcript"
)

// lowSimilarity is the source/recognized token similarity below which a run
// warns that the transcript may belong to a different recording.
const lowSimilarity = 0.3

// Runner executes requests: load, align, render, write, record.
type Runner struct {
	cfg     *config.Config
	logger  *slog.Logger
	writer  *output.Writer
	history *history.Store
}

// NewRunner wires a Runner. A nil store disables the run ledger.
func NewRunner(cfg *config.Config, logger *slog.Logger, store *history.Store) *Runner {
	return &Runner{
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "workflow"),
		writer:  output.NewWriter(logger),
		history: store,
	}
}

// Run executes req. The returned Result is never nil; when err is non-nil
// nothing was written.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	result := &Result{JobID: req.ID, StartedAt: time.Now().UTC()}
	if result.JobID == "" {
		result.JobID = history.NewID()
	}
	ctx = logging.WithJobID(ctx, result.JobID)
	logger := logging.WithContext(ctx, r.logger)

	err := r.run(ctx, logger, &req, result)
	result.FinishedAt = time.Now().UTC()
	switch {
	case err != nil:
		result.Err = err
		result.Status = history.StatusFailed
		result.Outputs = nil
	case len(result.FailedTranslations) > 0:
		result.Status = history.StatusPartial
	default:
		result.Status = history.StatusSucceeded
	}
	r.record(ctx, logger, req, result)

	if err != nil {
		logging.ErrorWithContext(logger, "alignment run failed", "run_failed",
			logging.String("title", result.Title),
			logging.String("error_kind", ErrorKind(err)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, hintFor(err)),
		)
		return result, err
	}
	logger.Info("alignment run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.String("title", result.Title),
		logging.String("status", string(result.Status)),
		logging.Int("entries", result.Entries),
		logging.Int("outputs", len(result.Outputs)),
		logging.Duration("duration", result.FinishedAt.Sub(result.StartedAt)),
	)
	return result, nil
}

func (r *Runner) run(ctx context.Context, logger *slog.Logger, req *Request, result *Result) error {
	if err := req.normalize(); err != nil {
		return err
	}
	result.Title = req.Title
	result.Language = req.Language
	logger = logger.With(logging.String(logging.FieldLanguage, req.Language))

	var job Job
	if err := r.stage(ctx, logger, "load", func(context.Context) error {
		var err error
		job, err = r.load(logger, *req, result)
		return err
	}); err != nil {
		return err
	}

	var art *Artifacts
	if err := r.stage(ctx, logger, "align", func(context.Context) error {
		var err error
		art, err = Process(job, SettingsFromConfig(r.cfg, req.Language))
		return err
	}); err != nil {
		return err
	}
	r.summarize(logger, art, result)

	var files []output.File
	if err := r.stage(ctx, logger, "emit", func(context.Context) error {
		var err error
		files, err = Render(result.JobID, art, r.targets(*req))
		return err
	}); err != nil {
		return err
	}

	return r.stage(ctx, logger, "write", func(stageCtx context.Context) error {
		written, err := r.writer.WriteAll(stageCtx, files)
		if err != nil {
			return wrap(ErrOutput, "write", "outputs", "", err)
		}
		result.Outputs = written
		return nil
	})
}

// stage runs fn with stage-scoped logging.
func (r *Runner) stage(ctx context.Context, logger *slog.Logger, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stageCtx := logging.WithStage(ctx, name)
	stageLogger := logging.WithContext(stageCtx, logger)
	started := time.Now()
	stageLogger.Debug("stage started", logging.String(logging.FieldEventType, "stage_start"))
	if err := fn(stageCtx); err != nil {
		stageLogger.Debug("stage failed",
			logging.String(logging.FieldEventType, "stage_failure"),
			logging.Duration("duration", time.Since(started)),
		)
		return err
	}
	stageLogger.Debug("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("duration", time.Since(started)),
	)
	return nil
}

func (r *Runner) load(logger *slog.Logger, req Request, result *Result) (Job, error) {
	source, err := document.Load(req.ScriptPath, DocumentOptions(r.cfg, req.Title, req.Language))
	if err != nil {
		return Job{}, wrap(ErrInput, "load", "script", "", err)
	}
	utterances, err := transcript.Load(req.TranscriptPath, req.TranscriptFormat)
	if err != nil {
		return Job{}, wrap(ErrInput, "load", "transcript", "", err)
	}
	job := Job{Title: req.Title, Source: source, Utterances: utterances}
	if req.RecognizedTextPath != "" {
		text, err := transcript.LoadRecognizedText(req.RecognizedTextPath)
		if err != nil {
			return Job{}, wrap(ErrInput, "load", "recognized text", "", err)
		}
		job.RecognizedText = text
	}

	for _, tr := range req.Translations {
		doc, err := document.Load(tr.Path, DocumentOptions(r.cfg, tr.Name, tr.Language))
		if err != nil {
			failure := subtitle.TrackFailure{Name: tr.Name, Err: err}
			result.FailedTranslations = append(result.FailedTranslations, failure)
			logging.WarnWithContext(logger, "translation skipped", "translation_load_failed",
				logging.String("translation", tr.Name),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the translation script path and format"),
				logging.String(logging.FieldImpact, "no subtitle file for this translation"),
			)
			continue
		}
		job.Translations = append(job.Translations, subtitle.Translation{Name: tr.Name, Document: doc})
	}

	logger.Debug("inputs loaded",
		logging.Int("paragraphs", source.Len()),
		logging.Int("text_paragraphs", source.TextCount()),
		logging.Int("utterances", len(utterances)),
		logging.Int("translations", len(job.Translations)),
	)
	return job, nil
}

func (r *Runner) summarize(logger *slog.Logger, art *Artifacts, result *Result) {
	tracks := art.Tracks
	result.Entries = len(tracks.Source.Entries)
	result.Anomalies = art.Timing.Anomalies
	result.SmoothedGaps = art.Timing.SmoothedGaps
	result.InsertRuns = art.Timing.InsertRuns
	result.Similarity = art.Similarity
	result.MergedSkipped = tracks.MergedSkipped
	for _, tr := range tracks.Translations {
		result.Translations = append(result.Translations, tr.Name)
	}
	result.FailedTranslations = append(result.FailedTranslations, tracks.Failed...)

	for _, failure := range tracks.Failed {
		logging.WarnWithContext(logger, "translation skipped", "translation_mismatch",
			logging.String("translation", failure.Name),
			logging.Error(failure.Err),
			logging.String(logging.FieldErrorHint, "make the translation's paragraphs match the source one to one"),
			logging.String(logging.FieldImpact, "no subtitle file for this translation"),
		)
	}
	if n := len(art.Timing.Anomalies); n > 0 {
		logging.WarnWithContext(logger, "recognizer timing anomalies", "timing_anomalies",
			logging.Int("count", n),
			logging.String("first", art.Timing.Anomalies[0].String()),
			logging.String(logging.FieldErrorHint, "inspect the diagnostics dump for flagged words"),
			logging.String(logging.FieldImpact, "some cues may be mistimed"),
		)
	}
	if art.Similarity < lowSimilarity {
		logging.WarnWithContext(logger, "transcript barely matches script", "low_similarity",
			logging.Float64("similarity", art.Similarity),
			logging.Alert("wrong_transcript"),
			logging.String(logging.FieldErrorHint, "confirm the transcript belongs to this script"),
			logging.String(logging.FieldImpact, "most cue timing is synthesized"),
		)
	}
	if tracks.MergedSkipped {
		logger.Info("merged subtitle skipped; no translation text",
			logging.String(logging.FieldEventType, "merged_skipped"),
		)
	}
	logger.Info("alignment complete",
		logging.String(logging.FieldEventType, "alignment_complete"),
		logging.Int("entries", result.Entries),
		logging.Int("insert_runs", result.InsertRuns),
		logging.Int("smoothed_gaps", result.SmoothedGaps),
		logging.Seconds("final_end", art.Timing.FinalEnd),
		logging.Float64("similarity", result.Similarity),
	)
}

func (r *Runner) targets(req Request) Targets {
	dir := req.OutputDir
	if dir == "" && r.cfg != nil {
		dir = r.cfg.Paths.OutputDir
	}
	t := Targets{
		Names:         output.Names{Dir: dir, Title: req.Title, Language: req.Language},
		SourceSRTPath: req.SourceSRTPath,
		TimelinePath:  req.TimelinePath,
	}
	if r.cfg != nil {
		t.DiagnosticsDir = r.cfg.Paths.DiagnosticsDir
	}
	return t
}

func (r *Runner) record(ctx context.Context, logger *slog.Logger, req Request, result *Result) {
	if r.history == nil || result.Title == "" {
		return
	}
	// Record even when the run was cancelled.
	recordCtx := context.WithoutCancel(ctx)
	if err := r.history.Record(recordCtx, result.historyRun(req)); err != nil {
		logging.WarnWithContext(logger, "failed to record run", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, fmt.Sprintf("check %s is writable", r.history.Path())),
			logging.String(logging.FieldImpact, "run missing from history"),
		)
	}
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, ErrInput):
		return "check the script and transcript paths and formats"
	case errors.Is(err, ErrAlignment):
		return "re-run recognition or inspect the diagnostics dump"
	case errors.Is(err, ErrEmission):
		return "check the script's paragraph structure"
	case errors.Is(err, ErrOutput):
		return "check the output directory is writable"
	case errors.Is(err, context.Canceled):
		return "run was cancelled"
	default:
		return "check logs for details"
	}
}

// Inspect loads and aligns req without rendering, writing, or recording.
// The Result carries the same counters a full run would report.
func (r *Runner) Inspect(ctx context.Context, req Request) (*Artifacts, *Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	result := &Result{JobID: req.ID, StartedAt: time.Now().UTC()}
	if result.JobID == "" {
		result.JobID = history.NewID()
	}
	logger := logging.WithContext(logging.WithJobID(ctx, result.JobID), r.logger)
	if err := req.normalize(); err != nil {
		return nil, result, err
	}
	result.Title = req.Title
	result.Language = req.Language

	job, err := r.load(logger, req, result)
	if err != nil {
		return nil, result, err
	}
	if err := ctx.Err(); err != nil {
		return nil, result, err
	}
	art, err := Process(job, SettingsFromConfig(r.cfg, req.Language))
	if err != nil {
		result.Err = err
		return nil, result, err
	}
	r.summarize(logger, art, result)
	result.FinishedAt = time.Now().UTC()
	return art, result, nil
}
