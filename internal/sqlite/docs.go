package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/dukaforge/bookdb/pkg/chain"
)

// GetDoc reads the document body at the resolved coordinate. The tail is
// the document key.
func (s *Store) GetDoc(rc chain.Resolved) (string, error) {
	db, err := s.base(rc.Base, false)
	if err != nil {
		return "", err
	}
	subID, err := subcontainerID(db, rc, false)
	if err != nil {
		return "", err
	}

	var body string
	err = db.QueryRow(`SELECT body FROM docs WHERE subcontainer_id = ? AND doc_key = ?`,
		subID, rc.Tail).Scan(&body)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: %q", ErrDocNotFound, rc.Tail)
	}
	if err != nil {
		return "", fmt.Errorf("get doc %s: %w", rc.Tail, err)
	}
	return body, nil
}

// SetDoc writes the document body, creating the namespace chain as needed.
func (s *Store) SetDoc(rc chain.Resolved, body string) error {
	db, err := s.base(rc.Base, true)
	if err != nil {
		return err
	}
	subID, err := subcontainerID(db, rc, true)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO docs (subcontainer_id, doc_key, body) VALUES (?, ?, ?)
		ON CONFLICT (subcontainer_id, doc_key)
		DO UPDATE SET body = excluded.body, updated_at = datetime('now')`,
		subID, rc.Tail, body)
	if err != nil {
		return fmt.Errorf("set doc %s: %w", rc.Tail, err)
	}
	s.log.Debug("doc set", "coordinate", rc.String())
	return nil
}

// DeleteDoc removes the document at the coordinate and reports whether it
// existed.
func (s *Store) DeleteDoc(rc chain.Resolved) (bool, error) {
	db, err := s.base(rc.Base, false)
	if err != nil {
		return false, err
	}
	subID, err := subcontainerID(db, rc, false)
	if err != nil {
		return false, err
	}

	res, err := db.Exec(`DELETE FROM docs WHERE subcontainer_id = ? AND doc_key = ?`, subID, rc.Tail)
	if err != nil {
		return false, fmt.Errorf("delete doc %s: %w", rc.Tail, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
