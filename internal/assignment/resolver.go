// Package assignment maps complaints to workers and workers to their queue of
// assigned complaints.
package assignment

import (
	"github.com/sirupsen/logrus"

	"hostelcare/backend/internal/apperrors"
	"hostelcare/backend/internal/lifecycle"
	"hostelcare/backend/internal/models"
	"hostelcare/backend/internal/storage"
)

// Resolver performs assignment writes and queue reads. Assignment is a plain
// administrator field write: is_available is informational only, an
// administrator may still assign an unavailable worker in an emergency.
type Resolver struct {
	Storage storage.Storage
	log     *logrus.Entry
}

func NewResolver(s storage.Storage, log *logrus.Logger) *Resolver {
	return &Resolver{Storage: s, log: logrus.NewEntry(log)}
}

// Assign points the complaint at the worker (or clears it when workerID is
// nil) and returns the updated complaint. Assigning a pending complaint
// promotes it to in_progress; unassigning never reverts status, that stays
// with the administrator.
func (r *Resolver) Assign(actor models.Actor, complaintID string, workerID *string) (*models.Complaint, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Forbidden("only administrators assign workers")
	}

	complaint, err := r.Storage.GetComplaintByID(complaintID)
	if err != nil {
		return nil, apperrors.Store(err)
	}
	if complaint == nil {
		return nil, apperrors.ErrNotFound
	}

	patch := map[string]interface{}{"assigned_worker_id": nil}
	if workerID != nil && *workerID != "" {
		worker, err := r.Storage.GetWorkerByID(*workerID)
		if err != nil {
			return nil, apperrors.Store(err)
		}
		if worker == nil {
			return nil, apperrors.ErrNotFound
		}
		patch["assigned_worker_id"] = *workerID
	}

	lifecycle.NormalizePatch(complaint, patch)

	updated, err := r.Storage.PatchComplaint(complaintID, patch)
	if err != nil {
		return nil, apperrors.Store(err)
	}

	event := models.ChangeEvent{
		Table:       "complaints",
		Action:      models.ChangeUpdate,
		ComplaintID: updated.ID,
		OwnerID:     updated.OwnerID,
		Status:      updated.Status,
		Title:       updated.Title,
	}
	if updated.Assigned() {
		event.AssignedWorkerID = *updated.AssignedWorkerID
	}
	if complaint.Assigned() && (!updated.Assigned() || *complaint.AssignedWorkerID != *updated.AssignedWorkerID) {
		event.PrevAssignedWorkerID = *complaint.AssignedWorkerID
	}
	if err := r.Storage.PublishChange(event); err != nil {
		r.log.WithError(err).WithField("complaint_id", updated.ID).Error("failed to publish change event")
	}
	return updated, nil
}

// QueueFor returns the worker's assigned complaints, newest first.
func (r *Resolver) QueueFor(workerID string) ([]models.Complaint, error) {
	complaints, err := r.Storage.ListComplaints(storage.ComplaintFilter{AssignedWorkerID: workerID})
	if err != nil {
		return nil, apperrors.Store(err)
	}
	return complaints, nil
}

// DeleteWorker removes the worker record. Assignments pointing at the worker
// are cleared first so no complaint is left with a dangling reference; the
// affected complaints keep their status, re-triage stays an administrator
// concern.
func (r *Resolver) DeleteWorker(actor models.Actor, workerID string) error {
	if !actor.IsAdmin() {
		return apperrors.Forbidden("only administrators manage workers")
	}

	worker, err := r.Storage.GetWorkerByID(workerID)
	if err != nil {
		return apperrors.Store(err)
	}
	if worker == nil {
		return apperrors.ErrNotFound
	}

	if err := r.Storage.ClearWorkerAssignments(workerID); err != nil {
		return apperrors.Store(err)
	}
	if err := r.Storage.DeleteWorker(workerID); err != nil {
		return apperrors.Store(err)
	}

	r.log.WithFields(logrus.Fields{
		"worker_id": workerID,
		"admin_id":  actor.UserID,
	}).Info("worker deleted, assignments cleared")
	return nil
}
