package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"scriptsync/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the run ledger",
	}
	cmd.AddCommand(newHistoryListCommand(ctx))
	cmd.AddCommand(newHistoryShowCommand(ctx))
	cmd.AddCommand(newHistoryPruneCommand(ctx))
	return cmd
}

// withHistory opens the ledger or explains that it is disabled.
func (c *commandContext) withHistory(fn func(*history.Store) error) error {
	store, err := c.openHistory()
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("history is disabled; set history.enabled = true")
	}
	defer store.Close()
	return fn(store)
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var (
		limit      int
		statuses   []string
		jsonOutput bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := history.ListOptions{Limit: limit}
			for _, s := range statuses {
				status, err := parseStatus(s)
				if err != nil {
					return err
				}
				opts.Statuses = append(opts.Statuses, status)
			}
			return ctx.withHistory(func(store *history.Store) error {
				runs, err := store.List(cmd.Context(), opts)
				if err != nil {
					return err
				}
				if jsonOutput {
					views := make([]runView, 0, len(runs))
					for _, run := range runs {
						views = append(views, newRunView(run))
					}
					return writeJSON(cmd, views)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						run.ShortID(),
						run.StartedAt.Local().Format("2006-01-02 15:04"),
						run.Title,
						run.Language,
						string(run.Status),
						strconv.Itoa(run.Entries),
						run.Duration().Round(time.Millisecond).String(),
					})
				}
				fmt.Fprintln(out, renderTable([]tableColumn{
					{Header: "ID"},
					{Header: "Started"},
					{Header: "Title", Width: 40},
					{Header: "Lang"},
					{Header: "Status"},
					{Header: "Cues", Numeric: true},
					{Header: "Took", Numeric: true},
				}, rows))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to show (0 for all)")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Filter by status (succeeded, partial, failed)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print runs as JSON")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one run by ID or unique ID prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				run, err := store.Get(cmd.Context(), strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, newRunView(run))
				}
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				printLines(out, renderSectionHeader(run.Title, colorize)...)
				message := ""
				if run.ErrorMessage != "" {
					message = run.ErrorKind + ": " + run.ErrorMessage
				}
				printLines(out,
					renderStatusLine("ID", statusInfo, run.ID, colorize),
					renderStatusLine("Status", statusKindFor(run.Status), message, colorize),
					renderStatusLine("Language", statusInfo, languageLabel(run.Language), colorize),
					renderStatusLine("Script", statusInfo, run.ScriptPath, colorize),
					renderStatusLine("Transcript", statusInfo, run.TranscriptPath, colorize),
					renderStatusLine("Started", statusInfo, run.StartedAt.Local().Format(time.RFC3339), colorize),
					renderStatusLine("Took", statusInfo, run.Duration().Round(time.Millisecond).String(), colorize),
					renderStatusLine("Cues", statusInfo, strconv.Itoa(run.Entries), colorize),
					renderStatusLine("Translations", statusInfo,
						fmt.Sprintf("%d written, %d skipped", run.Translations, run.FailedTranslations), colorize),
					renderStatusLine("Anomalies", anomalyKind(run.Anomalies), strconv.Itoa(run.Anomalies), colorize),
				)
				for _, path := range run.Outputs {
					printLines(out, renderStatusLine("Output", statusInfo, path, colorize))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the run as JSON")
	return cmd
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete runs older than a cutoff",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return errors.New("--older-than must be positive")
			}
			return ctx.withHistory(func(store *history.Store) error {
				removed, err := store.Prune(cmd.Context(), time.Now().Add(-olderThan))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d run(s)\n", removed)
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Age cutoff, e.g. 720h")
	return cmd
}

func parseStatus(value string) (history.Status, error) {
	switch status := history.Status(strings.ToLower(strings.TrimSpace(value))); status {
	case history.StatusSucceeded, history.StatusPartial, history.StatusFailed:
		return status, nil
	default:
		return "", fmt.Errorf("unknown status %q", value)
	}
}

type runView struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Language           string   `json:"language"`
	Status             string   `json:"status"`
	ErrorKind          string   `json:"error_kind,omitempty"`
	ErrorMessage       string   `json:"error_message,omitempty"`
	ScriptPath         string   `json:"script"`
	TranscriptPath     string   `json:"transcript"`
	Entries            int      `json:"entries"`
	Translations       int      `json:"translations"`
	FailedTranslations int      `json:"failed_translations"`
	Anomalies          int      `json:"anomalies"`
	SmoothedGaps       int      `json:"smoothed_gaps"`
	Outputs            []string `json:"outputs"`
	StartedAt          string   `json:"started_at"`
	DurationMS         int64    `json:"duration_ms"`
}

func newRunView(run *history.Run) runView {
	outputs := run.Outputs
	if outputs == nil {
		outputs = []string{}
	}
	return runView{
		ID:                 run.ID,
		Title:              run.Title,
		Language:           run.Language,
		Status:             string(run.Status),
		ErrorKind:          run.ErrorKind,
		ErrorMessage:       run.ErrorMessage,
		ScriptPath:         run.ScriptPath,
		TranscriptPath:     run.TranscriptPath,
		Entries:            run.Entries,
		Translations:       run.Translations,
		FailedTranslations: run.FailedTranslations,
		Anomalies:          run.Anomalies,
		SmoothedGaps:       run.SmoothedGaps,
		Outputs:            outputs,
		StartedAt:          run.StartedAt.UTC().Format(time.RFC3339),
		DurationMS:         run.Duration().Milliseconds(),
	}
}
