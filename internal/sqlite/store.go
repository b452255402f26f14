// Package sqlite implements bookdb's storage collaborator: per-base SQLite
// files addressed by resolved context-chain coordinates. Read operations
// fail on missing namespaces; write operations create them as needed.
package sqlite

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/dukaforge/bookdb/internal/paths"
	"github.com/dukaforge/bookdb/pkg/chain"
)

//go:embed schema.sql
var schemaSQL string

// InstallMarkerKey is the variable at the root chain coordinate that marks a
// base as installed. It is written once by install and protected from
// ordinary deletion.
const InstallMarkerKey = "BOOKDB_INSTALL_ID"

// Storage errors.
var (
	ErrStoreClosed          = errors.New("store is closed")
	ErrBaseNotFound         = errors.New("base not found")
	ErrContainerNotFound    = errors.New("container not found")
	ErrSubcontainerNotFound = errors.New("subcontainer not found")
	ErrKeystoreNotFound     = errors.New("keystore not found")
	ErrKeyNotFound          = errors.New("key not found")
	ErrDocNotFound          = errors.New("document not found")
	ErrNonNumericValue      = errors.New("value is not numeric")
	ErrRootProtected        = errors.New("the root chain marker cannot be deleted")
	ErrNotInstalled         = errors.New("base is not installed; run 'bookdb install'")
	ErrInvalidBaseName      = errors.New("base names may only contain letters, digits, _ and -")
)

// Config holds storage parameters.
type Config struct {
	// DataDir is the directory holding one SQLite file per base.
	DataDir string
}

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data dir must not be empty")
	}
	return nil
}

// Store manages the per-base SQLite files. Base databases are opened lazily
// on first use and kept open until Close.
type Store struct {
	mu     sync.Mutex
	cfg    Config
	log    *slog.Logger
	dbs    map[string]*sql.DB
	closed bool
}

// Open creates a Store over cfg.DataDir, creating the directory if needed.
func Open(cfg Config, log *slog.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{cfg: cfg, log: log, dbs: make(map[string]*sql.DB)}, nil
}

// Close closes every open base database. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var firstErr error
	for name, db := range s.dbs {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close base %s: %w", name, err)
		}
		delete(s.dbs, name)
	}
	return firstErr
}

// base returns the open database for a base name. When create is false the
// base file must already exist; otherwise it is created with the schema.
func (s *Store) base(name string, create bool) (*sql.DB, error) {
	if !validBaseName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseName, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	if db, ok := s.dbs[name]; ok {
		return db, nil
	}

	path := paths.BasePath(s.cfg.DataDir, name)
	if !create {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %q", ErrBaseNotFound, name)
			}
			return nil, fmt.Errorf("stat base %s: %w", name, err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open base %s: %w", name, err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema to base %s: %w", name, err)
	}

	s.log.Debug("base opened", "base", name, "path", path)
	s.dbs[name] = db
	return db, nil
}

// validBaseName mirrors the chain identifier rule; base names become file
// names, so anything else is rejected outright.
func validBaseName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}

// subcontainerID resolves (container, subcontainer) to its row id.
func subcontainerID(db *sql.DB, rc chain.Resolved, create bool) (int64, error) {
	var containerID int64
	err := db.QueryRow(`SELECT id FROM containers WHERE name = ?`, rc.Container).Scan(&containerID)
	if err == sql.ErrNoRows {
		if !create {
			return 0, fmt.Errorf("%w: %q", ErrContainerNotFound, rc.Container)
		}
		res, insErr := db.Exec(`INSERT INTO containers (name) VALUES (?)`, rc.Container)
		if insErr != nil {
			return 0, fmt.Errorf("create container %s: %w", rc.Container, insErr)
		}
		containerID, _ = res.LastInsertId()
	} else if err != nil {
		return 0, fmt.Errorf("lookup container %s: %w", rc.Container, err)
	}

	var subID int64
	err = db.QueryRow(`SELECT id FROM subcontainers WHERE container_id = ? AND name = ?`,
		containerID, rc.Subcontainer).Scan(&subID)
	if err == sql.ErrNoRows {
		if !create {
			return 0, fmt.Errorf("%w: %q", ErrSubcontainerNotFound, rc.Subcontainer)
		}
		res, insErr := db.Exec(`INSERT INTO subcontainers (container_id, name) VALUES (?, ?)`,
			containerID, rc.Subcontainer)
		if insErr != nil {
			return 0, fmt.Errorf("create subcontainer %s: %w", rc.Subcontainer, insErr)
		}
		subID, _ = res.LastInsertId()
	} else if err != nil {
		return 0, fmt.Errorf("lookup subcontainer %s: %w", rc.Subcontainer, err)
	}

	return subID, nil
}

// keystoreID resolves the full variable namespace chain to a keystore id.
// The coordinate's tail names the keystore.
func keystoreID(db *sql.DB, rc chain.Resolved, create bool) (int64, error) {
	subID, err := subcontainerID(db, rc, create)
	if err != nil {
		return 0, err
	}

	var ksID int64
	err = db.QueryRow(`SELECT id FROM keystores WHERE subcontainer_id = ? AND name = ?`,
		subID, rc.Tail).Scan(&ksID)
	if err == sql.ErrNoRows {
		if !create {
			return 0, fmt.Errorf("%w: %q", ErrKeystoreNotFound, rc.Tail)
		}
		res, insErr := db.Exec(`INSERT INTO keystores (subcontainer_id, name) VALUES (?, ?)`,
			subID, rc.Tail)
		if insErr != nil {
			return 0, fmt.Errorf("create keystore %s: %w", rc.Tail, insErr)
		}
		ksID, _ = res.LastInsertId()
	} else if err != nil {
		return 0, fmt.Errorf("lookup keystore %s: %w", rc.Tail, err)
	}

	return ksID, nil
}

// ListBases enumerates the base database files in the data dir, sorted.
func (s *Store) ListBases() ([]string, error) {
	entries, err := os.ReadDir(s.cfg.DataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	var bases []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(e.Name(), ".db"); ok {
			bases = append(bases, name)
		}
	}
	sort.Strings(bases)
	return bases, nil
}

// ListContainers enumerates container names in a base, sorted.
func (s *Store) ListContainers(base string) ([]string, error) {
	db, err := s.base(base, false)
	if err != nil {
		return nil, err
	}
	return queryNames(db, `SELECT name FROM containers ORDER BY name`)
}

// ListSubcontainers enumerates subcontainer names under the coordinate's
// container, sorted.
func (s *Store) ListSubcontainers(rc chain.Resolved) ([]string, error) {
	db, err := s.base(rc.Base, false)
	if err != nil {
		return nil, err
	}
	return queryNames(db, `
		SELECT s.name FROM subcontainers s
		JOIN containers c ON c.id = s.container_id
		WHERE c.name = ?
		ORDER BY s.name`, rc.Container)
}

// ListKeystores enumerates keystore names under the coordinate's
// subcontainer, sorted.
func (s *Store) ListKeystores(rc chain.Resolved) ([]string, error) {
	db, err := s.base(rc.Base, false)
	if err != nil {
		return nil, err
	}
	subID, err := subcontainerID(db, rc, false)
	if err != nil {
		return nil, err
	}
	return queryNames(db, `SELECT name FROM keystores WHERE subcontainer_id = ? ORDER BY name`, subID)
}

// ListDocs enumerates document keys under the coordinate's subcontainer,
// sorted.
func (s *Store) ListDocs(rc chain.Resolved) ([]string, error) {
	db, err := s.base(rc.Base, false)
	if err != nil {
		return nil, err
	}
	subID, err := subcontainerID(db, rc, false)
	if err != nil {
		return nil, err
	}
	return queryNames(db, `SELECT doc_key FROM docs WHERE subcontainer_id = ? ORDER BY doc_key`, subID)
}

func queryNames(db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
