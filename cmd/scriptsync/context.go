package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"scriptsync/internal/config"
	"scriptsync/internal/history"
	"scriptsync/internal/logging"
	"scriptsync/internal/workflow"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	logPath    string
	loggerErr  error

	sessionID string
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		sessionID:    uuid.NewString(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureLogger builds the session logger on first use; records go to w.
func (c *commandContext) ensureLogger(w io.Writer) (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, path, err := logging.NewFromConfig(cfg, w, c.sessionID)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logging: %w", err)
			return
		}
		if path != "" {
			logging.PruneSessionLogs(logger, cfg.Paths.LogDir, cfg.Logging.RetentionDays, path)
		}
		c.logger = logger
		c.logPath = path
	})
	return c.logger, c.loggerErr
}

// openHistory returns nil when the ledger is disabled.
func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, nil
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

// withRunner wires a workflow runner with logging and the run ledger. adjust,
// when set, edits a copy of the loaded config before the runner sees it.
func (c *commandContext) withRunner(cmd *cobra.Command, adjust func(*config.Config), fn func(*workflow.Runner, *config.Config) error) error {
	base, err := c.ensureConfig()
	if err != nil {
		return err
	}
	copied := *base
	cfg := &copied
	if adjust != nil {
		adjust(cfg)
	}
	logger, err := c.ensureLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	store, err := c.openHistory()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}
	return fn(workflow.NewRunner(cfg, logger, store), cfg)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
