package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hostelcare/backend/internal/api/response"
	"hostelcare/backend/internal/apperrors"
	"hostelcare/backend/internal/complaint"
	"hostelcare/backend/internal/storage"
)

// listComplaintsAction returns complaints matching the query filters, newest
// first. The service narrows the result to what the actor's role entitles.
func (h *Handler) listComplaintsAction(c *gin.Context) {
	const op = "handler.listComplaintsAction"
	actor := actorFrom(c)

	filter := storage.ComplaintFilter{
		Status:           c.Query("status"),
		Category:         c.Query("category"),
		Priority:         c.Query("priority"),
		AssignedWorkerID: c.Query("assigned_worker_id"),
		OwnerID:          c.Query("user_id"),
	}

	complaints, err := h.Complaints.List(actor, filter)
	if err != nil {
		h.log.WithError(err).WithField("operation", op).Error("list failed")
		response.HandleError(err, c)
		return
	}
	c.JSON(http.StatusOK, complaints)
}

// createComplaintAction opens a new complaint for the requester.
func (h *Handler) createComplaintAction(c *gin.Context) {
	const op = "handler.createComplaintAction"
	actor := actorFrom(c)

	var req complaint.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(apperrors.Invalid("malformed payload: %v", err), c)
		return
	}

	created, err := h.Complaints.Create(actor, req)
	if err != nil {
		h.log.WithError(err).WithField("operation", op).Warn("create rejected")
		response.HandleError(err, c)
		return
	}
	c.JSON(http.StatusOK, created)
}

// patchComplaintAction applies {id, ...fields} through the authorization gate
// and lifecycle rules.
func (h *Handler) patchComplaintAction(c *gin.Context) {
	const op = "handler.patchComplaintAction"
	actor := actorFrom(c)

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.HandleError(apperrors.Invalid("malformed payload: %v", err), c)
		return
	}

	id, _ := body["id"].(string)
	if id == "" {
		response.HandleError(apperrors.Invalid("complaint id required"), c)
		return
	}
	delete(body, "id")

	updated, err := h.Complaints.Patch(actor, id, body)
	if err != nil {
		h.log.WithError(err).WithField("operation", op).Warn("patch rejected")
		response.HandleError(err, c)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// deleteComplaintAction removes the complaint named by the id query param.
func (h *Handler) deleteComplaintAction(c *gin.Context) {
	const op = "handler.deleteComplaintAction"
	actor := actorFrom(c)

	id := c.Query("id")
	if id == "" {
		response.HandleError(apperrors.Invalid("complaint id required"), c)
		return
	}

	if err := h.Complaints.Delete(actor, id); err != nil {
		h.log.WithError(err).WithField("operation", op).Warn("delete rejected")
		response.HandleError(err, c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// statsAction returns complaint totals per status for the administrator
// dashboard.
func (h *Handler) statsAction(c *gin.Context) {
	actor := actorFrom(c)
	if !actor.IsAdmin() {
		response.HandleError(apperrors.Forbidden("dashboard counters are administrator-only"), c)
		return
	}

	counts, err := h.Complaints.Stats()
	if err != nil {
		response.HandleError(err, c)
		return
	}
	c.JSON(http.StatusOK, counts)
}

type assignForm struct {
	WorkerID *string `json:"worker_id"`
}

// assignAction points a complaint at a worker, or clears the assignment when
// worker_id is null. Administrator only.
func (h *Handler) assignAction(c *gin.Context) {
	const op = "handler.assignAction"
	actor := actorFrom(c)

	var form assignForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.HandleError(apperrors.Invalid("malformed payload: %v", err), c)
		return
	}

	updated, err := h.Assignment.Assign(actor, c.Param("id"), form.WorkerID)
	if err != nil {
		h.log.WithError(err).WithField("operation", op).Warn("assign rejected")
		response.HandleError(err, c)
		return
	}
	c.JSON(http.StatusOK, updated)
}
