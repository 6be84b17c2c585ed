package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hostelcare/backend/internal/api/response"
	"hostelcare/backend/internal/apperrors"
	"hostelcare/backend/internal/models"
)

// listWorkersAction returns worker records, each joined with its profile's
// display data, optionally filtered by owning identity.
func (h *Handler) listWorkersAction(c *gin.Context) {
	workers, err := h.Storage.ListWorkers(c.Query("user_id"))
	if err != nil {
		response.HandleError(apperrors.Store(err), c)
		return
	}
	c.JSON(http.StatusOK, workers)
}

type createWorkerForm struct {
	UserID     string           `json:"user_id" binding:"required"`
	WorkerType models.StaffType `json:"worker_type" binding:"required"`
	Phone      *string          `json:"phone"`
}

// createWorkerAction registers a staff identity as a worker. Administrator
// only.
func (h *Handler) createWorkerAction(c *gin.Context) {
	actor := actorFrom(c)
	if !actor.IsAdmin() {
		response.HandleError(apperrors.Forbidden("only administrators manage workers"), c)
		return
	}

	var form createWorkerForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.HandleError(apperrors.Invalid("malformed payload: %v", err), c)
		return
	}
	if !form.WorkerType.Valid() {
		response.HandleError(apperrors.Invalid("unknown worker type %q", form.WorkerType), c)
		return
	}

	worker := &models.Worker{
		UserID:      form.UserID,
		WorkerType:  form.WorkerType,
		Phone:       form.Phone,
		IsAvailable: true,
	}
	if err := h.Storage.SaveWorker(worker); err != nil {
		response.HandleError(apperrors.Store(err), c)
		return
	}
	c.JSON(http.StatusOK, worker)
}

type patchWorkerForm struct {
	WorkerType  *models.StaffType `json:"worker_type"`
	Phone       *string           `json:"phone"`
	IsAvailable *bool             `json:"is_available"`
}

// patchWorkerAction updates a worker's trade, phone, or availability flag.
// Availability is informational, it never gates assignment. Administrator
// only.
func (h *Handler) patchWorkerAction(c *gin.Context) {
	actor := actorFrom(c)
	if !actor.IsAdmin() {
		response.HandleError(apperrors.Forbidden("only administrators manage workers"), c)
		return
	}

	worker, err := h.Storage.GetWorkerByID(c.Param("id"))
	if err != nil {
		response.HandleError(apperrors.Store(err), c)
		return
	}
	if worker == nil {
		response.HandleError(apperrors.ErrNotFound, c)
		return
	}

	var form patchWorkerForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.HandleError(apperrors.Invalid("malformed payload: %v", err), c)
		return
	}

	if form.WorkerType != nil {
		if !form.WorkerType.Valid() {
			response.HandleError(apperrors.Invalid("unknown worker type %q", *form.WorkerType), c)
			return
		}
		worker.WorkerType = *form.WorkerType
	}
	if form.Phone != nil {
		worker.Phone = form.Phone
	}
	if form.IsAvailable != nil {
		worker.IsAvailable = *form.IsAvailable
	}

	if err := h.Storage.SaveWorker(worker); err != nil {
		response.HandleError(apperrors.Store(err), c)
		return
	}
	c.JSON(http.StatusOK, worker)
}

// deleteWorkerAction removes a worker; their assignments are cleared so no
// complaint keeps a dangling reference.
func (h *Handler) deleteWorkerAction(c *gin.Context) {
	actor := actorFrom(c)

	if err := h.Assignment.DeleteWorker(actor, c.Param("id")); err != nil {
		response.HandleError(err, c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// workerQueueAction returns the worker's assigned complaints, newest first.
// Administrators may inspect any queue; a worker only their own.
func (h *Handler) workerQueueAction(c *gin.Context) {
	actor := actorFrom(c)
	workerID := c.Param("id")

	if !actor.IsAdmin() && actor.WorkerID != workerID {
		response.HandleError(apperrors.Forbidden("queue belongs to another worker"), c)
		return
	}

	queue, err := h.Assignment.QueueFor(workerID)
	if err != nil {
		response.HandleError(err, c)
		return
	}
	c.JSON(http.StatusOK, queue)
}
