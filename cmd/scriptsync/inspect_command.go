package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"scriptsync/internal/config"
	"scriptsync/internal/subtitle"
	"scriptsync/internal/workflow"
)

const inspectTextWidth = 48

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var (
		rf         requestFlags
		showCues   bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Align without writing files and report cue timing and anomalies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := rf.request()
			if err != nil {
				return err
			}
			return ctx.withRunner(cmd, nil, func(runner *workflow.Runner, _ *config.Config) error {
				art, result, err := runner.Inspect(cmd.Context(), req)
				if err != nil {
					return err
				}
				if jsonOutput {
					view := newResultView(result)
					view.Status = "inspected"
					return writeJSON(cmd, view)
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				printLines(out, renderSectionHeader(result.Title, colorize)...)
				printLines(out,
					renderStatusLine("Cues", statusInfo, strconv.Itoa(result.Entries), colorize),
					renderStatusLine("Insert runs", statusInfo, strconv.Itoa(result.InsertRuns), colorize),
					renderStatusLine("Smoothed", statusInfo, strconv.Itoa(result.SmoothedGaps), colorize),
					renderStatusLine("Similarity", similarityKind(result.Similarity), fmt.Sprintf("%.2f", result.Similarity), colorize),
				)
				for _, f := range result.FailedTranslations {
					printLines(out, renderStatusLine("Translation", statusWarn, fmt.Sprintf("%s: %v", f.Name, f.Err), colorize))
				}

				if showCues {
					fmt.Fprintln(out)
					fmt.Fprintln(out, cueTable(art.Tracks.Source.Entries))
				}
				if len(result.Anomalies) > 0 {
					rows := make([][]string, 0, len(result.Anomalies))
					for _, a := range result.Anomalies {
						rows = append(rows, []string{strconv.Itoa(a.Word), a.Kind.String(), a.Text, fmt.Sprintf("%.3f", a.Eva)})
					}
					fmt.Fprintln(out)
					fmt.Fprintln(out, renderTable([]tableColumn{
						{Header: "Word", Numeric: true},
						{Header: "Kind"},
						{Header: "Text", Width: inspectTextWidth},
						{Header: "Sec/char", Numeric: true},
					}, rows))
				}
				return nil
			})
		},
	}

	rf.register(cmd)
	cmd.Flags().BoolVar(&showCues, "cues", true, "List every source cue")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the summary as JSON")
	return cmd
}

func cueTable(entries []subtitle.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(e.Seq),
			subtitle.FormatTimestamp(e.Start),
			subtitle.FormatTimestamp(e.End),
			e.Text,
		})
	}
	return renderTable([]tableColumn{
		{Header: "#", Numeric: true},
		{Header: "Start"},
		{Header: "End"},
		{Header: "Text", Width: inspectTextWidth},
	}, rows)
}
