// Package authz is the role-scoped authorization gate. It is a pure decision
// function over (actor, pre-mutation complaint, requested patch); the caller
// applies or rejects the whole patch atomically.
package authz

import (
	"hostelcare/backend/internal/apperrors"
	"hostelcare/backend/internal/lifecycle"
	"hostelcare/backend/internal/models"
)

// contentFields are requester-editable while the complaint is still pending.
var contentFields = map[string]bool{
	"title":       true,
	"description": true,
	"category":    true,
	"photo_urls":  true,
	"hostel_name": true,
	"block":       true,
	"floor":       true,
	"room_number": true,
}

// adminFields may only ever be written by an administrator.
var adminFields = map[string]bool{
	"priority":           true,
	"assigned_worker_id": true,
	"admin_notes":        true,
}

// Authorize decides whether the actor may apply the patch to the complaint.
// A single disallowed field denies the whole patch; nothing is partially
// authorized. nil means allow.
func Authorize(actor models.Actor, complaint *models.Complaint, patch map[string]interface{}) error {
	if len(patch) == 0 {
		return apperrors.Invalid("empty patch")
	}

	for field, value := range patch {
		if err := authorizeField(actor, complaint, field, value); err != nil {
			return err
		}
	}
	return nil
}

func authorizeField(actor models.Actor, complaint *models.Complaint, field string, value interface{}) error {
	if field == "status" {
		to, ok := statusValue(value)
		if !ok {
			return apperrors.Invalid("status must be a string")
		}
		return lifecycle.CanTransition(actor, complaint, to)
	}

	switch actor.Role {
	case models.RoleAdmin:
		if contentFields[field] || adminFields[field] {
			return nil
		}
		return apperrors.Invalid("unknown or immutable field %q", field)

	case models.RoleResident:
		if !contentFields[field] {
			if adminFields[field] {
				return apperrors.Forbidden("field %q is administrator-only", field)
			}
			return apperrors.Invalid("unknown or immutable field %q", field)
		}
		if complaint.OwnerID != actor.UserID {
			return apperrors.Forbidden("complaint belongs to another resident")
		}
		if complaint.Status != models.StatusPending {
			return apperrors.Forbidden("complaint can no longer be edited (status %s)", complaint.Status)
		}
		return nil

	case models.RoleWorker:
		// Workers touch nothing but their one status transition.
		return apperrors.Forbidden("workers may only update complaint status")

	default:
		return apperrors.Forbidden("unknown role %q", actor.Role)
	}
}

// AuthorizeDelete decides whether the actor may delete the complaint.
// Residents may delete their own complaint while it is still pending;
// administrators may delete anything; workers never delete.
func AuthorizeDelete(actor models.Actor, complaint *models.Complaint) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleResident:
		if complaint.OwnerID != actor.UserID {
			return apperrors.Forbidden("complaint belongs to another resident")
		}
		if complaint.Status != models.StatusPending {
			return apperrors.Forbidden("only pending complaints can be withdrawn")
		}
		return nil
	default:
		return apperrors.Forbidden("role %s may not delete complaints", actor.Role)
	}
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
