// Package quota enforces the per-resident active-complaint ceiling.
package quota

import (
	"hostelcare/backend/internal/apperrors"
	"hostelcare/backend/internal/config"
	"hostelcare/backend/internal/storage"
)

// Enforcer counts a requester's open complaints against the fixed ceiling.
type Enforcer struct {
	Storage storage.Storage
}

func NewEnforcer(s storage.Storage) *Enforcer {
	return &Enforcer{Storage: s}
}

// CanCreate reports whether the requester may open another complaint.
// Only pending and in_progress complaints count; work already substantively
// handled does not block the resident.
func (e *Enforcer) CanCreate(requesterID string) (bool, error) {
	count, err := e.Storage.CountActiveComplaints(requesterID)
	if err != nil {
		return false, apperrors.Store(err)
	}
	return count < config.MaxActiveComplaints, nil
}

// Check is CanCreate as a guard: it returns ErrQuotaExceeded when the ceiling
// is reached so creation is rejected before any record is written.
func (e *Enforcer) Check(requesterID string) error {
	ok, err := e.CanCreate(requesterID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrQuotaExceeded
	}
	return nil
}
