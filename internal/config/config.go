package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"scriptsync/internal/language"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir      string `toml:"output_dir"`
	LogDir         string `toml:"log_dir"`
	StateDir       string `toml:"state_dir"`
	DiagnosticsDir string `toml:"diagnostics_dir"`
}

// Alignment contains the timing heuristics used while aligning a script
// against recognized words. All durations are seconds.
type Alignment struct {
	WordJoiner string `toml:"word_joiner"`
	// Punctuation is appended to the built-in punctuation set.
	Punctuation      string  `toml:"punctuation"`
	AnomalyThreshold float64 `toml:"anomaly_threshold"`
	GapThreshold     float64 `toml:"gap_threshold"`
	GapNudge         float64 `toml:"gap_nudge"`
	AnchorGuard      float64 `toml:"anchor_guard"`
}

// Output selects which artifacts a run produces.
type Output struct {
	GenerateMergedSubtitle     bool `toml:"generate_merged_subtitle"`
	SourceTextAboveTranslation bool `toml:"source_text_above_translation"`
	ExportTimeline             bool `toml:"export_timeline"`
	SeamlessTimeline           bool `toml:"seamless_timeline"`
}

// TitleStyle is the look of one timeline lane.
type TitleStyle struct {
	Font        string `toml:"font"`
	FontSize    int    `toml:"font_size"`
	FontColor   string `toml:"font_color"`
	StrokeColor string `toml:"stroke_color"`
	StrokeWidth int    `toml:"stroke_width"`
	Bold        bool   `toml:"bold"`
	Italic      bool   `toml:"italic"`
	Alignment   string `toml:"alignment"`
	LineSpacing int    `toml:"line_spacing"`
	PositionY   int    `toml:"position_y"`
}

// Timeline contains FCPXML export settings.
type Timeline struct {
	FPS              int        `toml:"fps"`
	LeadInOffsetMS   int        `toml:"lead_in_offset_ms"`
	Width            int        `toml:"width"`
	Height           int        `toml:"height"`
	FormatName       string     `toml:"format_name"`
	SourceStyle      TitleStyle `toml:"source_style"`
	TranslationStyle TitleStyle `toml:"translation_style"`
}

// LanguageSettings overrides alignment and loading behaviour for one
// language code.
type LanguageSettings struct {
	// WordJoiner is nil when unset; an empty string is a valid override.
	WordJoiner              *string           `toml:"word_joiner"`
	Replacements            map[string]string `toml:"replacements"`
	CaseSensitive           bool              `toml:"case_sensitive"`
	PreserveFullWidthSpaces bool              `toml:"preserve_full_width_spaces"`
}

// Batch controls parallel batch runs.
type Batch struct {
	MaxConcurrent int `toml:"max_concurrent"`
}

// History controls the run ledger.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// File enables a per-session JSON log file under paths.log_dir.
	File          bool `toml:"file"`
	RetentionDays int  `toml:"retention_days"`
}

// Config encapsulates all configuration values for scriptsync.
//
// Configuration sections by subsystem:
//   - Paths: output, log, state, and diagnostics directories
//   - Alignment: word joiner, punctuation, and timing heuristics
//   - Output: merged subtitle and timeline toggles
//   - Timeline: frame rate, frame size, and lane styling
//   - Languages: per-language joiners and script replacements
//   - Batch: parallelism for batch manifests
//   - History: SQLite run ledger
//   - Logging: log format and level
type Config struct {
	Paths     Paths                       `toml:"paths"`
	Alignment Alignment                   `toml:"alignment"`
	Output    Output                      `toml:"output"`
	Timeline  Timeline                    `toml:"timeline"`
	Languages map[string]LanguageSettings `toml:"languages"`
	Batch     Batch                       `toml:"batch"`
	History   History                     `toml:"history"`
	Logging   Logging                     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/scriptsync/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("scriptsync.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output and log directories, plus the state
// and diagnostics directories when the features using them are enabled.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.OutputDir, c.Paths.LogDir}
	if c.History.Enabled {
		dirs = append(dirs, c.Paths.StateDir)
	}
	if c.Paths.DiagnosticsDir != "" {
		dirs = append(dirs, c.Paths.DiagnosticsDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryPath returns the run ledger database path.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// Language returns the settings for code, falling back to an empty
// override set. Codes are matched after normalization.
func (c *Config) Language(code string) LanguageSettings {
	if settings, ok := c.Languages[language.Normalize(code)]; ok {
		return settings
	}
	return LanguageSettings{}
}

// WordJoiner resolves the joiner for code: an explicit language override,
// then the language's script convention, then alignment.word_joiner.
func (c *Config) WordJoiner(code string) string {
	if override := c.Language(code).WordJoiner; override != nil {
		return *override
	}
	return language.WordJoiner(code, c.Alignment.WordJoiner)
}

// LeadIn returns the seamless timeline lead-in in seconds.
func (c *Config) LeadIn() float64 {
	return float64(c.Timeline.LeadInOffsetMS) / 1000
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders cfg as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
