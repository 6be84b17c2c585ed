// Package lifecycle is the authoritative definition of complaint status
// transitions and the side effects a transition triggers.
package lifecycle

import (
	"hostelcare/backend/internal/apperrors"
	"hostelcare/backend/internal/models"
)

// forward is the one-step forward chain. Only administrators may move a
// complaint anywhere else.
var forward = map[models.Status]models.Status{
	models.StatusPending:             models.StatusInProgress,
	models.StatusInProgress:          models.StatusWaitingConfirmation,
	models.StatusWaitingConfirmation: models.StatusResolved,
}

// Next returns the forward successor of a status, if any.
func Next(s models.Status) (models.Status, bool) {
	next, ok := forward[s]
	return next, ok
}

// CanTransition decides whether the actor may move the complaint from its
// current status to the requested one.
//
// Administrators may set any valid status on an existing complaint; they are
// the ultimate arbiter and the forward-only rule does not bind them. Workers
// hold exactly one transition, in_progress -> waiting_confirmation, and only
// on a complaint assigned to them. Residents hold none.
func CanTransition(actor models.Actor, complaint *models.Complaint, to models.Status) error {
	if !to.Valid() {
		return apperrors.Invalid("unknown status %q", to)
	}

	switch actor.Role {
	case models.RoleAdmin:
		return nil

	case models.RoleWorker:
		if !complaint.AssignedTo(actor.WorkerID) {
			return apperrors.Forbidden("complaint is not assigned to you")
		}
		if complaint.Status != models.StatusInProgress || to != models.StatusWaitingConfirmation {
			return apperrors.Transition("workers may only move a complaint from %s to %s",
				models.StatusInProgress, models.StatusWaitingConfirmation)
		}
		return nil

	default:
		return apperrors.Forbidden("role %s may not change complaint status", actor.Role)
	}
}

// NormalizePatch applies the assignment side effect to an admin patch: setting
// a worker on a pending complaint auto-promotes the complaint to in_progress,
// so a complaint is never assigned-but-unworked. An explicit status in the
// same patch wins, unless it merely restates pending; assignment always lifts
// the complaint out of pending.
func NormalizePatch(complaint *models.Complaint, patch map[string]interface{}) {
	worker, ok := patch["assigned_worker_id"]
	if !ok || worker == nil || worker == "" {
		return
	}
	if complaint.Status != models.StatusPending {
		return
	}
	if s, explicit := patch["status"]; explicit {
		if to, ok := statusValue(s); ok && to != models.StatusPending {
			return
		}
	}
	patch["status"] = models.StatusInProgress
}

func statusValue(v interface{}) (models.Status, bool) {
	switch s := v.(type) {
	case models.Status:
		return s, true
	case string:
		return models.Status(s), true
	}
	return "", false
}
