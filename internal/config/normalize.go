package config

import (
	"fmt"
	"os"
	"strings"

	"scriptsync/internal/language"
)

// OutputDirEnv names the environment fallback for paths.output_dir.
const OutputDirEnv = "SCRIPTSYNC_OUTPUT_DIR"

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTimeline()
	if err := c.normalizeLanguages(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		if value, ok := os.LookupEnv(OutputDirEnv); ok && strings.TrimSpace(value) != "" {
			c.Paths.OutputDir = value
		} else {
			c.Paths.OutputDir = defaultOutputDir
		}
	}
	var err error
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.DiagnosticsDir, err = expandPath(strings.TrimSpace(c.Paths.DiagnosticsDir)); err != nil {
		return fmt.Errorf("paths.diagnostics_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTimeline() {
	c.Timeline.FormatName = strings.TrimSpace(c.Timeline.FormatName)
	normalizeStyle(&c.Timeline.SourceStyle)
	normalizeStyle(&c.Timeline.TranslationStyle)
}

func normalizeStyle(s *TitleStyle) {
	s.Font = strings.TrimSpace(s.Font)
	if s.Font == "" {
		s.Font = defaultFont
	}
	s.FontColor = strings.TrimSpace(s.FontColor)
	if s.FontColor == "" {
		s.FontColor = defaultColor
	}
	s.StrokeColor = strings.TrimSpace(s.StrokeColor)
	if s.StrokeColor == "" {
		s.StrokeColor = defaultColor
	}
	s.Alignment = strings.ToLower(strings.TrimSpace(s.Alignment))
	if s.Alignment == "" {
		s.Alignment = defaultTitleAlignment
	}
}

// normalizeLanguages rekeys the language table by normalized code so
// "zh-CN", "chi", and "zh" all land on the same entry.
func (c *Config) normalizeLanguages() error {
	if len(c.Languages) == 0 {
		return nil
	}
	normalized := make(map[string]LanguageSettings, len(c.Languages))
	for key, settings := range c.Languages {
		code := language.Normalize(key)
		if code == "" {
			return fmt.Errorf("languages: empty language code %q", key)
		}
		if _, dup := normalized[code]; dup {
			return fmt.Errorf("languages.%s: duplicate entry for %q", key, code)
		}
		normalized[code] = settings
	}
	c.Languages = normalized
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
