package sqlite

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dukaforge/bookdb/pkg/chain"
)

// Install bootstraps a base: creates its database file and writes the
// installation marker at the root chain coordinate. Install is idempotent
// and returns the (possibly pre-existing) installation id.
func (s *Store) Install(base string) (string, error) {
	rc := chain.Resolve(chain.Root(base), chain.Cursor{Base: base})

	if id, err := s.GetVar(rc, InstallMarkerKey); err == nil {
		return id, nil
	} else if !isAbsence(err) {
		return "", err
	}

	id := uuid.NewString()
	if err := s.SetVar(rc, InstallMarkerKey, id); err != nil {
		return "", fmt.Errorf("write install marker: %w", err)
	}
	s.log.Info("base installed", "base", base, "install_id", id)
	return id, nil
}

// InstallID returns the installation id of a base, or ErrNotInstalled when
// the base has no marker.
func (s *Store) InstallID(base string) (string, error) {
	rc := chain.Resolve(chain.Root(base), chain.Cursor{Base: base})
	id, err := s.GetVar(rc, InstallMarkerKey)
	if err != nil {
		if isAbsence(err) {
			return "", fmt.Errorf("%w: %q", ErrNotInstalled, base)
		}
		return "", err
	}
	return id, nil
}

// Installed reports whether a base carries the installation marker.
func (s *Store) Installed(base string) bool {
	_, err := s.InstallID(base)
	return err == nil
}

// isAbsence reports whether err means the marker simply is not there, as
// opposed to an I/O or corruption failure.
func isAbsence(err error) bool {
	return errors.Is(err, ErrBaseNotFound) ||
		errors.Is(err, ErrContainerNotFound) ||
		errors.Is(err, ErrSubcontainerNotFound) ||
		errors.Is(err, ErrKeystoreNotFound) ||
		errors.Is(err, ErrKeyNotFound)
}
