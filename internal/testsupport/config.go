package testsupport

import (
	"path/filepath"
	"testing"

	"scriptsync/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// History is disabled unless WithHistory is applied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.History.Enabled = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithHistory enables the run ledger under the temp state directory.
func WithHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = true
	}
}

// WithDiagnostics enables the alignment record dump.
func WithDiagnostics() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.DiagnosticsDir = filepath.Join(b.baseDir, "diagnostics")
	}
}

// WithTimeline enables FCPXML export.
func WithTimeline(seamless bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.ExportTimeline = true
		b.cfg.Output.SeamlessTimeline = seamless
	}
}

// WithLanguage installs per-language settings.
func WithLanguage(code string, settings config.LanguageSettings) ConfigOption {
	return func(b *configBuilder) {
		if b.cfg.Languages == nil {
			b.cfg.Languages = make(map[string]config.LanguageSettings)
		}
		b.cfg.Languages[code] = settings
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
