package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scriptsync/internal/config"
)

// SessionLogPattern matches the per-session log files written under the log
// directory.
const SessionLogPattern = "scriptsync-*.log"

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// Writer receives console or JSON output. Nil means stderr.
	Writer io.Writer
	// FilePath, when set, also receives every record as JSON.
	FilePath    string
	SessionID   string
	Development bool
}

// New constructs a slog logger using the provided options.
func New(opts Options) (*slog.Logger, error) {
	level := parseLevel(opts.Level)
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}
	addSource := opts.Development || level <= slog.LevelDebug

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}

	var (
		handler slog.Handler
		err     error
	)
	switch format {
	case "json":
		handler, err = newJSONHandler(writer, levelVar, addSource)
		if err != nil {
			return nil, err
		}
		handler = withSession(handler, opts.SessionID)
	case "console":
		handler = newPrettyHandler(writer, levelVar, addSource)
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	if path := strings.TrimSpace(opts.FilePath); path != "" {
		file, err := openLogFile(path)
		if err != nil {
			return nil, err
		}
		fileHandler, err := newJSONHandler(file, levelVar, true)
		if err != nil {
			return nil, err
		}
		handler = newFanoutHandler(handler, withSession(fileHandler, opts.SessionID))
	}
	return slog.New(handler), nil
}

// withSession stamps JSON output with the session ID. Console lines stay
// free of it; the session log file name already carries it.
func withSession(h slog.Handler, sessionID string) slog.Handler {
	if sessionID == "" {
		return h
	}
	return h.WithAttrs([]slog.Attr{slog.String(FieldSessionID, sessionID)})
}

// NewFromConfig creates a logger using application config. It returns the
// session log path when file logging is enabled.
func NewFromConfig(cfg *config.Config, w io.Writer, sessionID string) (*slog.Logger, string, error) {
	if cfg == nil {
		logger, err := New(Options{Level: "info", Format: "console", Writer: w, SessionID: sessionID})
		return logger, "", err
	}

	var logPath string
	if cfg.Logging.File && cfg.Paths.LogDir != "" {
		logPath = SessionLogPath(cfg.Paths.LogDir, time.Now(), sessionID)
	}
	logger, err := New(Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Writer:    w,
		FilePath:  logPath,
		SessionID: sessionID,
	})
	if err != nil {
		return nil, "", err
	}
	return logger, logPath, nil
}

// SessionLogPath names the log file for one CLI session.
func SessionLogPath(dir string, started time.Time, sessionID string) string {
	name := "scriptsync-" + started.UTC().Format("20060102T150405")
	if sessionID != "" {
		short := sessionID
		if len(short) > 8 {
			short = short[:8]
		}
		name += "-" + short
	}
	return filepath.Join(dir, name+".log")
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}
