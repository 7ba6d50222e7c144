package output

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"scriptsync/internal/logging"
)

// LockFileName is created in every directory a Writer writes into.
const LockFileName = ".scriptsync.lock"

// ErrLocked reports an output directory held by another run past the lock
// timeout.
var ErrLocked = errors.New("output directory is locked by another run")

// File is one artifact to write.
type File struct {
	Path string
	Data []byte
}

// Writer emits file sets atomically.
type Writer struct {
	// LockTimeout bounds the wait for a directory lock. Zero waits until ctx
	// is done.
	LockTimeout time.Duration
	// RetryDelay is the lock polling interval.
	RetryDelay time.Duration
	logger     *slog.Logger
}

// NewWriter returns a Writer; a nil logger discards output.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{
		LockTimeout: 30 * time.Second,
		RetryDelay:  50 * time.Millisecond,
		logger:      logging.NewComponentLogger(logger, "output"),
	}
}

type staged struct {
	file   File
	temp   string
	backup string
}

// WriteAll writes every file or none of them and returns the written paths.
func (w *Writer) WriteAll(ctx context.Context, files []File) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	dirs, err := prepareDirs(files)
	if err != nil {
		return nil, err
	}

	unlock, err := w.lockDirs(ctx, dirs)
	if err != nil {
		return nil, err
	}
	defer unlock()

	steps := make([]*staged, 0, len(files))
	cleanup := func() {
		for _, s := range steps {
			if s.temp != "" {
				_ = os.Remove(s.temp)
			}
		}
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			cleanup()
			return nil, err
		}
		temp, err := stage(f)
		if err != nil {
			cleanup()
			return nil, err
		}
		steps = append(steps, &staged{file: f, temp: temp})
	}

	if err := commit(steps); err != nil {
		cleanup()
		return nil, err
	}

	paths := make([]string, len(steps))
	for i, s := range steps {
		paths[i] = s.file.Path
		if s.backup != "" {
			_ = os.Remove(s.backup)
		}
	}
	w.logger.Debug("outputs written", logging.Int("files", len(paths)), logging.String("dir", dirs[0]))
	return paths, nil
}

func prepareDirs(files []File) ([]string, error) {
	seen := make(map[string]bool, 1)
	var dirs []string
	targets := make(map[string]bool, len(files))
	for _, f := range files {
		if f.Path == "" {
			return nil, errors.New("output file path is required")
		}
		abs, err := filepath.Abs(f.Path)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", f.Path, err)
		}
		if targets[abs] {
			return nil, fmt.Errorf("output %s listed twice", f.Path)
		}
		targets[abs] = true
		dir := filepath.Dir(abs)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory %q: %w", dir, err)
		}
		dirs = append(dirs, dir)
	}
	return dirs, nil
}

// lockDirs takes each directory's lock in order. Callers pass the same file
// order for the same directories, so two runs cannot deadlock on a pair.
func (w *Writer) lockDirs(ctx context.Context, dirs []string) (func(), error) {
	lockCtx := ctx
	if w.LockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, w.LockTimeout)
		defer cancel()
	}
	delay := w.RetryDelay
	if delay <= 0 {
		delay = 50 * time.Millisecond
	}

	var held []*flock.Flock
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			_ = held[i].Unlock()
		}
	}
	for _, dir := range dirs {
		lock := flock.New(filepath.Join(dir, LockFileName))
		ok, err := lock.TryLockContext(lockCtx, delay)
		if err != nil || !ok {
			release()
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if err == nil || errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
			}
			return nil, fmt.Errorf("lock %s: %w", dir, err)
		}
		held = append(held, lock)
	}
	return release, nil
}

func stage(f File) (string, error) {
	dir, base := filepath.Split(f.Path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("stage %s: %w", f.Path, err)
	}
	name := tmp.Name()
	fail := func(err error) (string, error) {
		_ = tmp.Close()
		_ = os.Remove(name)
		return "", fmt.Errorf("stage %s: %w", f.Path, err)
	}
	if _, err := tmp.Write(f.Data); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("stage %s: %w", f.Path, err)
	}
	return name, nil
}

// commit moves existing targets aside, then renames every temp into place.
// On failure it undoes the renames and restores the set-aside files.
func commit(steps []*staged) error {
	for _, s := range steps {
		if _, err := os.Lstat(s.file.Path); err == nil {
			s.backup = s.temp + ".bak"
			if err := os.Rename(s.file.Path, s.backup); err != nil {
				s.backup = ""
				rollback(steps)
				return fmt.Errorf("set aside %s: %w", s.file.Path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			rollback(steps)
			return fmt.Errorf("stat %s: %w", s.file.Path, err)
		}
	}
	for i, s := range steps {
		if err := os.Rename(s.temp, s.file.Path); err != nil {
			for _, done := range steps[:i] {
				_ = os.Rename(done.file.Path, done.temp)
			}
			rollback(steps)
			return fmt.Errorf("commit %s: %w", s.file.Path, err)
		}
	}
	return nil
}

func rollback(steps []*staged) {
	for _, s := range steps {
		if s.backup == "" {
			continue
		}
		_ = os.Rename(s.backup, s.file.Path)
		s.backup = ""
	}
}
