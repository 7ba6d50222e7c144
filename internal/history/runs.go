package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the outcome of one run.
type Status string

const (
	// StatusSucceeded means every requested artifact was written.
	StatusSucceeded Status = "succeeded"
	// StatusPartial means the source track was written but at least one
	// translation failed.
	StatusPartial Status = "partial"
	// StatusFailed means nothing was written.
	StatusFailed Status = "failed"
)

var (
	// ErrNotFound reports an unknown run ID.
	ErrNotFound = errors.New("run not found")
	// ErrAmbiguous reports an ID prefix matching more than one run.
	ErrAmbiguous = errors.New("run id prefix is ambiguous")
)

// Run is one ledger row.
type Run struct {
	ID                 string
	Title              string
	Language           string
	ScriptPath         string
	TranscriptPath     string
	Status             Status
	ErrorKind          string
	ErrorMessage       string
	Entries            int
	Translations       int
	FailedTranslations int
	Anomalies          int
	SmoothedGaps       int
	Outputs            []string
	StartedAt          time.Time
	FinishedAt         time.Time
}

// Duration is the wall time the run took.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// ShortID is the first eight characters of the run ID.
func (r *Run) ShortID() string {
	if len(r.ID) > 8 {
		return r.ID[:8]
	}
	return r.ID
}

// NewID returns a fresh run identifier.
func NewID() string {
	return uuid.NewString()
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const runColumns = "id, title, language, script_path, transcript_path, status, error_kind, error_message, entries, translations, failed_translations, anomalies, smoothed_gaps, outputs_json, started_at, finished_at"

// Record inserts run, assigning an ID when it has none.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("run is required")
	}
	if strings.TrimSpace(run.Title) == "" {
		return errors.New("run title is required")
	}
	if run.ID == "" {
		run.ID = NewID()
	}
	if run.Status == "" {
		run.Status = StatusFailed
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}
	outputs, err := json.Marshal(run.Outputs)
	if err != nil {
		return fmt.Errorf("encode outputs: %w", err)
	}

	_, err = s.execWithRetry(ctx,
		`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Title,
		nullableString(run.Language),
		nullableString(run.ScriptPath),
		nullableString(run.TranscriptPath),
		string(run.Status),
		nullableString(run.ErrorKind),
		nullableString(run.ErrorMessage),
		run.Entries,
		run.Translations,
		run.FailedTranslations,
		run.Anomalies,
		run.SmoothedGaps,
		string(outputs),
		run.StartedAt.UTC().Format(timeLayout),
		run.FinishedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Get returns the run whose ID equals or starts with id.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	ctx = ensureContext(ctx)
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ? OR id LIKE ? ORDER BY id = ? DESC LIMIT 2`,
		id, escapeLike(id)+"%", id)
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	defer rows.Close()

	var found []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch {
	case len(found) == 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case found[0].ID == id, len(found) == 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguous, id)
	}
}

// ListOptions filters List.
type ListOptions struct {
	// Limit caps the result; zero means no limit.
	Limit    int
	Statuses []Status
}

// List returns runs newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]*Run, error) {
	ctx = ensureContext(ctx)
	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if len(opts.Statuses) > 0 {
		query += ` WHERE status IN (` + makePlaceholders(len(opts.Statuses)) + `)`
		for _, status := range opts.Statuses {
			args = append(args, string(status))
		}
	}
	query += ` ORDER BY started_at DESC, id`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Prune deletes runs that started before cutoff and returns how many went.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run            Run
		language       sql.NullString
		scriptPath     sql.NullString
		transcriptPath sql.NullString
		status         string
		errorKind      sql.NullString
		errorMessage   sql.NullString
		outputs        sql.NullString
		startedRaw     string
		finishedRaw    string
	)
	if err := scanner.Scan(
		&run.ID,
		&run.Title,
		&language,
		&scriptPath,
		&transcriptPath,
		&status,
		&errorKind,
		&errorMessage,
		&run.Entries,
		&run.Translations,
		&run.FailedTranslations,
		&run.Anomalies,
		&run.SmoothedGaps,
		&outputs,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.Language = language.String
	run.ScriptPath = scriptPath.String
	run.TranscriptPath = transcriptPath.String
	run.Status = Status(status)
	run.ErrorKind = errorKind.String
	run.ErrorMessage = errorMessage.String
	if outputs.Valid && outputs.String != "" {
		if err := json.Unmarshal([]byte(outputs.String), &run.Outputs); err != nil {
			return nil, fmt.Errorf("decode outputs for %s: %w", run.ID, err)
		}
	}
	if started, err := time.Parse(timeLayout, startedRaw); err == nil {
		run.StartedAt = started
	}
	if finished, err := time.Parse(timeLayout, finishedRaw); err == nil {
		run.FinishedAt = finished
	}
	return &run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func makePlaceholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// escapeLike neutralizes LIKE wildcards in a user-supplied prefix. Run IDs
// are UUIDs, so only stray input can contain them.
func escapeLike(value string) string {
	return strings.NewReplacer("%", "", "_", "").Replace(value)
}
