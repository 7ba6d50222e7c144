package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateAlignment(); err != nil {
		return err
	}
	if err := c.validateTimeline(); err != nil {
		return err
	}
	if err := c.validateLanguages(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.History.Enabled && c.Paths.StateDir == "" {
		return errors.New("paths.state_dir must be set when history is enabled")
	}
	return nil
}

func (c *Config) validateAlignment() error {
	a := c.Alignment
	nonNegative := map[string]float64{
		"alignment.anomaly_threshold": a.AnomalyThreshold,
		"alignment.gap_nudge":         a.GapNudge,
		"alignment.anchor_guard":      a.AnchorGuard,
	}
	if err := ensureNonNegativeMap(nonNegative); err != nil {
		return err
	}
	if a.GapThreshold <= 0 {
		return errors.New("alignment.gap_threshold must be positive")
	}
	if 2*a.GapNudge >= a.GapThreshold {
		return fmt.Errorf("alignment.gap_nudge (%g) must be less than half of alignment.gap_threshold (%g)", a.GapNudge, a.GapThreshold)
	}
	return nil
}

func (c *Config) validateTimeline() error {
	t := c.Timeline
	if err := ensurePositiveMap(map[string]int{
		"timeline.fps":                         t.FPS,
		"timeline.width":                       t.Width,
		"timeline.height":                      t.Height,
		"timeline.source_style.font_size":      t.SourceStyle.FontSize,
		"timeline.translation_style.font_size": t.TranslationStyle.FontSize,
	}); err != nil {
		return err
	}
	if t.LeadInOffsetMS < 0 {
		return errors.New("timeline.lead_in_offset_ms must be >= 0")
	}
	for name, style := range map[string]TitleStyle{
		"timeline.source_style":      t.SourceStyle,
		"timeline.translation_style": t.TranslationStyle,
	} {
		switch style.Alignment {
		case "left", "center", "right":
		default:
			return fmt.Errorf("%s.alignment must be one of left, center, right (got %q)", name, style.Alignment)
		}
		if style.StrokeWidth < 0 {
			return fmt.Errorf("%s.stroke_width must be >= 0", name)
		}
	}
	return nil
}

func (c *Config) validateLanguages() error {
	for code, settings := range c.Languages {
		for key := range settings.Replacements {
			if strings.TrimSpace(key) == "" {
				return fmt.Errorf("languages.%s.replacements: keys must not be empty", code)
			}
		}
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.MaxConcurrent < 1 {
		return errors.New("batch.max_concurrent must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\" (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be >= 0")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}

func ensureNonNegativeMap(values map[string]float64) error {
	for key, value := range values {
		if value < 0 {
			return fmt.Errorf("%s must be >= 0", key)
		}
	}
	return nil
}
