package config

const (
	defaultOutputDir        = "."
	defaultLogDir           = "~/.local/share/scriptsync/logs"
	defaultStateDir         = "~/.local/share/scriptsync"
	defaultWordJoiner       = " "
	defaultAnomalyThreshold = 0.2
	defaultGapThreshold     = 0.3
	defaultGapNudge         = 0.1
	defaultAnchorGuard      = 0.1
	defaultFPS              = 30
	defaultLeadInOffsetMS   = 34
	defaultWidth            = 1920
	defaultHeight           = 1080
	defaultFont             = "Arial"
	defaultFontSize         = 50
	defaultColor            = "1 1 1 1"
	defaultTitleAlignment     = "center"
	defaultSourcePositionY    = -45
	defaultTransPositionY     = -38
	defaultMaxConcurrent      = 4
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultLogRetentionDays   = 30
)

func defaultTitleStyle(positionY int) TitleStyle {
	return TitleStyle{
		Font:        defaultFont,
		FontSize:    defaultFontSize,
		FontColor:   defaultColor,
		StrokeColor: defaultColor,
		Alignment:   defaultTitleAlignment,
		PositionY:   positionY,
	}
}

// Default returns a Config populated with repository defaults. The output
// directory is left empty so normalization can apply SCRIPTSYNC_OUTPUT_DIR.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Alignment: Alignment{
			WordJoiner:       defaultWordJoiner,
			AnomalyThreshold: defaultAnomalyThreshold,
			GapThreshold:     defaultGapThreshold,
			GapNudge:         defaultGapNudge,
			AnchorGuard:      defaultAnchorGuard,
		},
		Output: Output{
			GenerateMergedSubtitle:     true,
			SourceTextAboveTranslation: true,
		},
		Timeline: Timeline{
			FPS:              defaultFPS,
			LeadInOffsetMS:   defaultLeadInOffsetMS,
			Width:            defaultWidth,
			Height:           defaultHeight,
			SourceStyle:      defaultTitleStyle(defaultSourcePositionY),
			TranslationStyle: defaultTitleStyle(defaultTransPositionY),
		},
		Batch: Batch{
			MaxConcurrent: defaultMaxConcurrent,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
