// Package cursor persists the session cursor: the active base and the last
// persistent context chain. The record is a cache of session intent, so read
// failures fall back to defaults while write failures are surfaced.
package cursor

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dukaforge/bookdb/pkg/chain"
)

// FileName is the cursor record file inside the config directory.
const FileName = "cursor.json"

// Lock acquisition parameters. A lock older than staleAfter is assumed to
// belong to a dead process and is broken.
const (
	lockRetryInterval = 25 * time.Millisecond
	lockTimeout       = 2 * time.Second
	staleAfter        = 30 * time.Second
)

// ErrLockTimeout is returned when another invocation holds the cursor lock
// for longer than the acquisition timeout.
var ErrLockTimeout = errors.New("timed out waiting for cursor lock")

// Store loads and saves the cursor record at a fixed path.
type Store struct {
	path string
	log  *slog.Logger
}

// NewStore returns a Store for the cursor record inside configDir.
func NewStore(configDir string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{path: filepath.Join(configDir, FileName), log: log}
}

// Path returns the cursor record location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the cursor record. A missing or unreadable record yields the
// default cursor: corruption is treated as absence, never as a fatal error.
func (s *Store) Load() chain.Cursor {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("cursor record unreadable, using defaults", "path", s.path, "error", err)
		}
		return chain.DefaultCursor()
	}

	var cur chain.Cursor
	if err := json.Unmarshal(data, &cur); err != nil {
		s.log.Warn("cursor record corrupt, using defaults", "path", s.path, "error", err)
		return chain.DefaultCursor()
	}
	if cur.Base == "" {
		cur.Base = chain.DefaultBase
	}
	return cur
}

// Save writes the cursor record atomically: the JSON is written to a temp
// file in the same directory and renamed over the record, so a concurrent
// Load never observes a partial write. Missing parent directories are
// created. Write failures are fatal to the caller.
func (s *Store) Save(cur chain.Cursor) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cursor dir: %w", err)
	}

	data, err := json.MarshalIndent(cur, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cursor: %w", err)
	}

	tmp, err := os.CreateTemp(dir, FileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp cursor file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write cursor: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cursor file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace cursor file: %w", err)
	}
	return nil
}

// Update runs fn under the advisory cursor lock with a freshly loaded
// cursor, then saves the result. It guards against lost updates when two
// invocations race on the same session.
func (s *Store) Update(fn func(*chain.Cursor) error) error {
	unlock, err := s.acquireLock()
	if err != nil {
		return err
	}
	defer unlock()

	cur := s.Load()
	if err := fn(&cur); err != nil {
		return err
	}
	return s.Save(cur)
}

// acquireLock takes the advisory lock file next to the cursor record.
// The lock is a plain O_EXCL create; stale locks are broken by age.
func (s *Store) acquireLock() (func(), error) {
	lockPath := s.path + ".lock"
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create cursor dir: %w", err)
	}

	deadline := time.Now().Add(lockTimeout)
	for {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			f.Close()
			return func() { os.Remove(lockPath) }, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("acquire cursor lock: %w", err)
		}

		if info, statErr := os.Stat(lockPath); statErr == nil && time.Since(info.ModTime()) > staleAfter {
			s.log.Warn("breaking stale cursor lock", "path", lockPath)
			os.Remove(lockPath)
			continue
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, lockPath)
		}
		time.Sleep(lockRetryInterval)
	}
}
