package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/dukaforge/bookdb/pkg/chain"
)

// Var is one key=value entry in a keystore.
type Var struct {
	Key   string
	Value string
}

// GetVar reads a variable at the resolved coordinate. The coordinate's tail
// names the keystore.
func (s *Store) GetVar(rc chain.Resolved, key string) (string, error) {
	db, err := s.base(rc.Base, false)
	if err != nil {
		return "", err
	}
	ksID, err := keystoreID(db, rc, false)
	if err != nil {
		return "", err
	}

	var value string
	err = db.QueryRow(`SELECT value FROM vars WHERE keystore_id = ? AND key = ?`, ksID, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("get var %s: %w", key, err)
	}
	return value, nil
}

// SetVar writes a variable, creating the namespace chain as needed.
func (s *Store) SetVar(rc chain.Resolved, key, value string) error {
	db, err := s.base(rc.Base, true)
	if err != nil {
		return err
	}
	ksID, err := keystoreID(db, rc, true)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO vars (keystore_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT (keystore_id, key)
		DO UPDATE SET value = excluded.value, updated_at = datetime('now')`,
		ksID, key, value)
	if err != nil {
		return fmt.Errorf("set var %s: %w", key, err)
	}
	s.log.Debug("var set", "coordinate", rc.String(), "key", key)
	return nil
}

// DeleteVar removes a variable and reports whether it existed. The install
// marker at the root chain coordinate is never deletable.
func (s *Store) DeleteVar(rc chain.Resolved, key string) (bool, error) {
	if chain.IsRootCoordinate(rc) && key == InstallMarkerKey {
		return false, ErrRootProtected
	}

	db, err := s.base(rc.Base, false)
	if err != nil {
		return false, err
	}
	ksID, err := keystoreID(db, rc, false)
	if err != nil {
		return false, err
	}

	res, err := db.Exec(`DELETE FROM vars WHERE keystore_id = ? AND key = ?`, ksID, key)
	if err != nil {
		return false, fmt.Errorf("delete var %s: %w", key, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ListVars returns all variables in the coordinate's keystore, sorted by key.
func (s *Store) ListVars(rc chain.Resolved) ([]Var, error) {
	db, err := s.base(rc.Base, false)
	if err != nil {
		return nil, err
	}
	ksID, err := keystoreID(db, rc, false)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`SELECT key, value FROM vars WHERE keystore_id = ? ORDER BY key`, ksID)
	if err != nil {
		return nil, fmt.Errorf("list vars: %w", err)
	}
	defer rows.Close()

	var vars []Var
	for rows.Next() {
		var v Var
		if err := rows.Scan(&v.Key, &v.Value); err != nil {
			return nil, err
		}
		vars = append(vars, v)
	}
	return vars, rows.Err()
}

// IncrVar atomically adds delta to a numeric variable and returns the new
// value. A missing key is initialized to delta. Non-numeric values and
// overflow fail without modifying the store.
func (s *Store) IncrVar(rc chain.Resolved, key string, delta int64) (int64, error) {
	db, err := s.base(rc.Base, true)
	if err != nil {
		return 0, err
	}
	ksID, err := keystoreID(db, rc, true)
	if err != nil {
		return 0, err
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin increment: %w", err)
	}
	defer tx.Rollback()

	var current int64
	var raw string
	err = tx.QueryRow(`SELECT value FROM vars WHERE keystore_id = ? AND key = ?`, ksID, key).Scan(&raw)
	switch {
	case err == sql.ErrNoRows:
		current = 0
	case err != nil:
		return 0, fmt.Errorf("read var %s: %w", key, err)
	default:
		current, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s=%q", ErrNonNumericValue, key, raw)
		}
	}

	next := current + delta
	if (delta > 0 && next < current) || (delta < 0 && next > current) {
		return 0, fmt.Errorf("increment of %s by %d overflows", key, delta)
	}

	_, err = tx.Exec(`
		INSERT INTO vars (keystore_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT (keystore_id, key)
		DO UPDATE SET value = excluded.value, updated_at = datetime('now')`,
		ksID, key, strconv.FormatInt(next, 10))
	if err != nil {
		return 0, fmt.Errorf("write var %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit increment: %w", err)
	}
	return next, nil
}
