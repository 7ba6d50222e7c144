package workflow

import (
	"scriptsync/internal/align"
	"scriptsync/internal/config"
	"scriptsync/internal/document"
	"scriptsync/internal/subtitle"
	"scriptsync/internal/textnorm"
	"scriptsync/internal/timeline"
)

// Settings is everything Process needs, resolved from config for one source
// language. It holds no references to process-wide state.
type Settings struct {
	Normalizer     textnorm.Options
	Alignment      align.Options
	Subtitles      subtitle.Options
	ExportTimeline bool
	Timeline       timeline.Options
}

// DefaultSettings aligns with a single-space joiner and default thresholds,
// producing the merged track with source text above and no timeline.
func DefaultSettings() Settings {
	return Settings{
		Normalizer: textnorm.Options{Joiner: textnorm.DefaultJoiner},
		Alignment:  align.DefaultOptions(),
		Subtitles:  subtitle.Options{Merge: true, SourceAbove: true},
		Timeline:   timeline.DefaultOptions(),
	}
}

// SettingsFromConfig resolves the settings for a source script in lang.
func SettingsFromConfig(cfg *config.Config, lang string) Settings {
	if cfg == nil {
		return DefaultSettings()
	}
	return Settings{
		Normalizer: textnorm.Options{
			Joiner:      cfg.WordJoiner(lang),
			Punctuation: textnorm.DefaultPunctuation + cfg.Alignment.Punctuation,
		},
		Alignment: align.Options{
			AnomalyThreshold: cfg.Alignment.AnomalyThreshold,
			GapThreshold:     cfg.Alignment.GapThreshold,
			GapNudge:         cfg.Alignment.GapNudge,
			AnchorGuard:      cfg.Alignment.AnchorGuard,
		},
		Subtitles: subtitle.Options{
			Merge:       cfg.Output.GenerateMergedSubtitle,
			SourceAbove: cfg.Output.SourceTextAboveTranslation,
		},
		ExportTimeline: cfg.Output.ExportTimeline,
		Timeline: timeline.Options{
			FPS:              cfg.Timeline.FPS,
			Width:            cfg.Timeline.Width,
			Height:           cfg.Timeline.Height,
			FormatName:       cfg.Timeline.FormatName,
			Seamless:         cfg.Output.SeamlessTimeline,
			LeadIn:           cfg.LeadIn(),
			SourceStyle:      timelineStyle(cfg.Timeline.SourceStyle),
			TranslationStyle: timelineStyle(cfg.Timeline.TranslationStyle),
		},
	}
}

// DocumentOptions returns the loader options for a script in lang.
func DocumentOptions(cfg *config.Config, name, lang string) document.Options {
	opts := document.Options{Name: name, Language: lang}
	if cfg == nil {
		return opts
	}
	settings := cfg.Language(lang)
	opts.Replacements = settings.Replacements
	opts.CaseSensitive = settings.CaseSensitive
	opts.PreserveFullWidthSpaces = settings.PreserveFullWidthSpaces
	return opts
}

func timelineStyle(s config.TitleStyle) timeline.Style {
	return timeline.Style{
		Font:        s.Font,
		FontSize:    s.FontSize,
		FontColor:   s.FontColor,
		StrokeColor: s.StrokeColor,
		StrokeWidth: s.StrokeWidth,
		Bold:        s.Bold,
		Italic:      s.Italic,
		Alignment:   s.Alignment,
		LineSpacing: s.LineSpacing,
		PositionY:   s.PositionY,
	}
}
