package batch

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"scriptsync/internal/logging"
	"scriptsync/internal/workflow"
)

// Executor runs one request. *workflow.Runner satisfies it.
type Executor interface {
	Run(ctx context.Context, req workflow.Request) (*workflow.Result, error)
}

// Outcome pairs a request with its result. Outcomes keep manifest order.
type Outcome struct {
	Index   int
	Request workflow.Request
	Result  *workflow.Result
	Err     error
}

// Summary counts outcomes by status.
type Summary struct {
	Succeeded int
	Partial   int
	Failed    int
}

// Run executes reqs with at most limit in flight. A failing request never
// cancels the others; only ctx does. Requests not started before ctx is done
// report ctx's error.
func Run(ctx context.Context, exec Executor, reqs []workflow.Request, limit int, logger *slog.Logger) []Outcome {
	logger = logging.NewComponentLogger(logger, "batch")
	if limit <= 0 {
		limit = 1
	}
	outcomes := make([]Outcome, len(reqs))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, req := range reqs {
		outcomes[i] = Outcome{Index: i, Request: req}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i].Err = err
				return nil
			}
			result, err := exec.Run(ctx, req)
			outcomes[i].Result = result
			outcomes[i].Err = err
			return nil
		})
	}
	_ = g.Wait()

	s := Summarize(outcomes)
	logger.Info("batch finished",
		logging.String(logging.FieldEventType, "batch_complete"),
		logging.Int("jobs", len(reqs)),
		logging.Int("succeeded", s.Succeeded),
		logging.Int("partial", s.Partial),
		logging.Int("failed", s.Failed),
		logging.Int("max_concurrent", limit),
	)
	return outcomes
}

// Summarize counts outcomes.
func Summarize(outcomes []Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			s.Failed++
		case o.Result != nil && len(o.Result.FailedTranslations) > 0:
			s.Partial++
		default:
			s.Succeeded++
		}
	}
	return s
}
