package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"scriptsync/internal/batch"
	"scriptsync/internal/config"
	"scriptsync/internal/workflow"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var (
		maxConcurrent int
		jsonOutput    bool
	)

	cmd := &cobra.Command{
		Use:   "batch <manifest.toml>",
		Short: "Run every job in a TOML manifest in parallel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs, err := batch.LoadManifest(args[0])
			if err != nil {
				return err
			}
			return ctx.withRunner(cmd, nil, func(runner *workflow.Runner, cfg *config.Config) error {
				limit := cfg.Batch.MaxConcurrent
				if cmd.Flags().Changed("max-concurrent") {
					limit = maxConcurrent
				}
				logger, err := ctx.ensureLogger(cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				outcomes := batch.Run(cmd.Context(), runner, reqs, limit, logger)
				summary := batch.Summarize(outcomes)

				if jsonOutput {
					views := make([]resultView, 0, len(outcomes))
					for _, o := range outcomes {
						views = append(views, outcomeView(o))
					}
					if err := writeJSON(cmd, views); err != nil {
						return err
					}
				} else {
					out := cmd.OutOrStdout()
					fmt.Fprintln(out, batchTable(outcomes))
					fmt.Fprintf(out, "%d succeeded, %d partial, %d failed\n", summary.Succeeded, summary.Partial, summary.Failed)
				}
				if summary.Failed > 0 {
					return fmt.Errorf("%d of %d jobs failed", summary.Failed, len(outcomes))
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&maxConcurrent, "max-concurrent", "j", 0, "Jobs to run at once (default: batch.max_concurrent)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	return cmd
}

func outcomeView(o batch.Outcome) resultView {
	if o.Result != nil {
		return newResultView(o.Result)
	}
	view := resultView{Title: o.Request.Title, Status: "failed", Outputs: []string{}}
	if o.Err != nil {
		view.Error = o.Err.Error()
		view.ErrorKind = workflow.ErrorKind(o.Err)
	}
	return view
}

func batchTable(outcomes []batch.Outcome) string {
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		title := o.Request.Title
		status := "failed"
		cues := "-"
		detail := ""
		if o.Result != nil {
			if o.Result.Title != "" {
				title = o.Result.Title
			}
			status = string(o.Result.Status)
			cues = strconv.Itoa(o.Result.Entries)
			if n := len(o.Result.FailedTranslations); n > 0 {
				detail = fmt.Sprintf("%d translation(s) skipped", n)
			}
		}
		if o.Err != nil {
			detail = o.Err.Error()
		}
		if title == "" {
			title = o.Request.ScriptPath
		}
		rows = append(rows, []string{strconv.Itoa(o.Index + 1), title, status, cues, detail})
	}
	return renderTable([]tableColumn{
		{Header: "#", Numeric: true},
		{Header: "Title", Width: 40},
		{Header: "Status"},
		{Header: "Cues", Numeric: true},
		{Header: "Detail", Width: 60},
	}, rows)
}
