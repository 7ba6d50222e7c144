package main

import (
	"github.com/spf13/cobra"

	"scriptsync/internal/config"
	"scriptsync/internal/transcript"
	"scriptsync/internal/workflow"
)

type requestFlags struct {
	title          string
	language       string
	script         string
	transcript     string
	format         string
	recognizedText string
	translations   []string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.script, "script", "", "Source script (txt, md, html, docx, pdf)")
	flags.StringVar(&f.transcript, "transcript", "", "Recognizer output with word timestamps")
	flags.StringVar(&f.format, "format", "", "Transcript format (auto, utterances, whisperx)")
	flags.StringVar(&f.recognizedText, "recognized-text", "", "Optional flattened recognizer transcript to cross-check")
	flags.StringVarP(&f.language, "language", "l", "", "Source language code")
	flags.StringVar(&f.title, "title", "", "Title used in output names (default: script base name)")
	flags.StringArrayVarP(&f.translations, "translation", "t", nil, "Parallel translation as lang=path or name:lang=path (repeatable)")
	_ = cmd.MarkFlagRequired("script")
	_ = cmd.MarkFlagRequired("transcript")
	_ = cmd.MarkFlagRequired("language")
}

func (f *requestFlags) request() (workflow.Request, error) {
	req := workflow.Request{
		Title:              f.title,
		Language:           f.language,
		ScriptPath:         f.script,
		TranscriptPath:     f.transcript,
		TranscriptFormat:   transcript.Format(f.format),
		RecognizedTextPath: f.recognizedText,
	}
	for _, value := range f.translations {
		tr, err := parseTranslationFlag(value)
		if err != nil {
			return workflow.Request{}, err
		}
		req.Translations = append(req.Translations, tr)
	}
	return req, nil
}

func newAlignCommand(ctx *commandContext) *cobra.Command {
	var (
		rf           requestFlags
		outputDir    string
		sourceSRT    string
		timelinePath string
		merge        bool
		sourceAbove  bool
		timeline     bool
		seamless     bool
		jsonOutput   bool
	)

	cmd := &cobra.Command{
		Use:   "align",
		Short: "Align a script with recognizer output and write subtitles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := rf.request()
			if err != nil {
				return err
			}
			req.OutputDir = outputDir
			req.SourceSRTPath = sourceSRT
			req.TimelinePath = timelinePath

			adjust := func(cfg *config.Config) {
				flags := cmd.Flags()
				if flags.Changed("merge") {
					cfg.Output.GenerateMergedSubtitle = merge
				}
				if flags.Changed("source-above") {
					cfg.Output.SourceTextAboveTranslation = sourceAbove
				}
				if flags.Changed("timeline") || timelinePath != "" {
					cfg.Output.ExportTimeline = timeline || timelinePath != ""
				}
				if flags.Changed("seamless") {
					cfg.Output.SeamlessTimeline = seamless
				}
			}

			return ctx.withRunner(cmd, adjust, func(runner *workflow.Runner, _ *config.Config) error {
				result, runErr := runner.Run(cmd.Context(), req)
				if jsonOutput {
					if err := writeJSON(cmd, newResultView(result)); err != nil {
						return err
					}
				} else {
					out := cmd.OutOrStdout()
					renderResult(out, result, shouldColorize(out))
				}
				return runErr
			})
		},
	}

	rf.register(cmd)
	flags := cmd.Flags()
	flags.StringVarP(&outputDir, "output-dir", "o", "", "Output directory (default: paths.output_dir)")
	flags.StringVar(&sourceSRT, "source-srt", "", "Explicit path for the source subtitle file")
	flags.StringVar(&timelinePath, "timeline-path", "", "Explicit path for the FCPXML timeline (implies --timeline)")
	flags.BoolVar(&merge, "merge", true, "Write a merged bilingual subtitle file")
	flags.BoolVar(&sourceAbove, "source-above", true, "Put source text above the translation in merged cues")
	flags.BoolVar(&timeline, "timeline", false, "Export an FCPXML timeline")
	flags.BoolVar(&seamless, "seamless", false, "Extend each timeline clip to the next clip's start")
	flags.BoolVar(&jsonOutput, "json", false, "Print the run result as JSON")
	return cmd
}
