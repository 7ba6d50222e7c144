package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"scriptsync/internal/output"
	"scriptsync/internal/subtitle"
)

func newSRTCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "srt",
		Short:       "Check and retime SRT files",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}
	cmd.AddCommand(newSRTValidateCommand())
	cmd.AddCommand(newSRTRetimeCommand())
	return cmd
}

func readSRT(path string) ([]subtitle.Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	entries, err := subtitle.ParseSRT(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

func newSRTValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.srt>...",
		Short: "Report inverted, overlapping, or misnumbered cues",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			failed := 0
			for _, path := range args {
				entries, err := readSRT(path)
				if err != nil {
					failed++
					printLines(out, renderStatusLine(path, statusError, err.Error(), colorize))
					continue
				}
				issues := subtitle.Validate(entries)
				if len(issues) == 0 {
					printLines(out, renderStatusLine(path, statusOK, strconv.Itoa(len(entries))+" cues", colorize))
					continue
				}
				failed++
				printLines(out, renderStatusLine(path, statusWarn, fmt.Sprintf("%d issue(s)", len(issues)), colorize))
				for _, issue := range issues {
					fmt.Fprintf(out, "%s  - %s\n", statusIndent, issue)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d file(s) failed validation", failed, len(args))
			}
			return nil
		},
	}
}

func newSRTRetimeCommand() *cobra.Command {
	var (
		reference string
		outPath   string
	)
	cmd := &cobra.Command{
		Use:   "retime <target.srt>",
		Short: "Copy cue timing from a reference SRT onto a target with the same cue count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := readSRT(args[0])
			if err != nil {
				return err
			}
			ref, err := readSRT(reference)
			if err != nil {
				return err
			}
			retimed, err := subtitle.Retime(target, ref)
			if err != nil {
				return err
			}
			if outPath == "" {
				outPath = args[0]
			}
			written, err := output.NewWriter(nil).WriteAll(cmd.Context(), []output.File{
				{Path: outPath, Data: []byte(subtitle.RenderSRT(retimed))},
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Retimed %d cues -> %s\n", len(retimed), written[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&reference, "reference", "r", "", "SRT whose timing is copied")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Destination (default: overwrite the target)")
	_ = cmd.MarkFlagRequired("reference")
	return cmd
}
