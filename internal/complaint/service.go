// Package complaint orchestrates the complaint lifecycle: every mutation runs
// through the authorization gate (and, for creation, the quota enforcer) and
// the lifecycle rules before it reaches the store, then fans out on the change
// feed. Business-rule failures are detected before any write, so a rejected
// request leaves the store untouched.
package complaint

import (
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"hostelcare/backend/internal/apperrors"
	"hostelcare/backend/internal/authz"
	"hostelcare/backend/internal/lifecycle"
	"hostelcare/backend/internal/models"
	"hostelcare/backend/internal/quota"
	"hostelcare/backend/internal/storage"
)

const complaintsTable = "complaints"

// Service handles the business logic for complaints.
type Service struct {
	Storage storage.Storage
	Quota   *quota.Enforcer
	log     *logrus.Entry
}

// NewService creates a new complaint service.
func NewService(s storage.Storage, log *logrus.Logger) *Service {
	return &Service{
		Storage: s,
		Quota:   quota.NewEnforcer(s),
		log:     logrus.NewEntry(log),
	}
}

// CreateRequest is the payload for opening a complaint.
type CreateRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    models.Category `json:"category"`
	Priority    models.Priority `json:"priority"`
	PhotoURLs   []string        `json:"photo_urls"`
	HostelName  *string         `json:"hostel_name"`
	Block       *string         `json:"block"`
	Floor       *string         `json:"floor"`
	RoomNumber  *string         `json:"room_number"`
}

// List returns complaints visible to the actor, newest first. Residents see
// their own rows and workers their own queue regardless of the requested
// filter; administrators see whatever the filter selects.
func (s *Service) List(actor models.Actor, filter storage.ComplaintFilter) ([]models.Complaint, error) {
	switch actor.Role {
	case models.RoleResident:
		filter.OwnerID = actor.UserID
	case models.RoleWorker:
		if actor.WorkerID == "" {
			// A worker role without a worker record has no queue.
			return []models.Complaint{}, nil
		}
		filter.AssignedWorkerID = actor.WorkerID
	case models.RoleAdmin:
		// unrestricted
	default:
		return nil, apperrors.Forbidden("unknown role %q", actor.Role)
	}

	complaints, err := s.Storage.ListComplaints(filter)
	if err != nil {
		return nil, apperrors.Store(err)
	}
	return complaints, nil
}

// Create opens a new complaint for the requester. Location fields left empty
// are pre-filled from the requester's profile.
func (s *Service) Create(actor models.Actor, req CreateRequest) (*models.Complaint, error) {
	if actor.Role != models.RoleResident {
		return nil, apperrors.Forbidden("only residents raise complaints")
	}
	if req.Title == "" {
		return nil, apperrors.Invalid("title is required")
	}
	if !req.Category.Valid() {
		return nil, apperrors.Invalid("unknown category %q", req.Category)
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if !req.Priority.Valid() {
		return nil, apperrors.Invalid("unknown priority %q", req.Priority)
	}

	if err := s.Quota.Check(actor.UserID); err != nil {
		return nil, err
	}

	complaint := &models.Complaint{
		OwnerID:     actor.UserID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Status:      models.StatusPending,
		PhotoURLs:   pq.StringArray(req.PhotoURLs),
		HostelName:  req.HostelName,
		Block:       req.Block,
		Floor:       req.Floor,
		RoomNumber:  req.RoomNumber,
	}
	s.fillLocationDefaults(actor.UserID, complaint)

	if err := s.Storage.CreateComplaint(complaint); err != nil {
		return nil, apperrors.Store(err)
	}

	s.publish(models.ChangeInsert, complaint)
	s.log.WithFields(logrus.Fields{
		"complaint_id": complaint.ID,
		"owner_id":     complaint.OwnerID,
		"category":     complaint.Category,
	}).Info("complaint created")
	return complaint, nil
}

// Patch applies a partial field map to a complaint. The whole patch is
// authorized against the pre-mutation snapshot and applied atomically; a
// single disallowed field rejects everything.
func (s *Service) Patch(actor models.Actor, id string, patch map[string]interface{}) (*models.Complaint, error) {
	if id == "" {
		return nil, apperrors.Invalid("complaint id required")
	}

	complaint, err := s.Storage.GetComplaintByID(id)
	if err != nil {
		return nil, apperrors.Store(err)
	}
	if complaint == nil {
		return nil, apperrors.ErrNotFound
	}

	normalizeValues(patch)
	if err := validateValues(patch); err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, complaint, patch); err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		lifecycle.NormalizePatch(complaint, patch)
	}

	updated, err := s.Storage.PatchComplaint(id, patch)
	if err != nil {
		return nil, apperrors.Store(err)
	}

	s.publishUpdate(complaint, updated)
	s.log.WithFields(logrus.Fields{
		"complaint_id": id,
		"actor_id":     actor.UserID,
		"role":         actor.Role,
	}).Info("complaint updated")
	return updated, nil
}

// Delete removes a complaint. Residents may withdraw their own pending
// complaints; administrators may delete anything.
func (s *Service) Delete(actor models.Actor, id string) error {
	if id == "" {
		return apperrors.Invalid("complaint id required")
	}

	complaint, err := s.Storage.GetComplaintByID(id)
	if err != nil {
		return apperrors.Store(err)
	}
	if complaint == nil {
		return apperrors.ErrNotFound
	}

	if err := authz.AuthorizeDelete(actor, complaint); err != nil {
		return err
	}

	if err := s.Storage.DeleteComplaint(id); err != nil {
		return apperrors.Store(err)
	}

	s.publish(models.ChangeDelete, complaint)
	s.log.WithFields(logrus.Fields{
		"complaint_id": id,
		"actor_id":     actor.UserID,
	}).Info("complaint deleted")
	return nil
}

// Stats returns complaint totals per status.
func (s *Service) Stats() (map[models.Status]int64, error) {
	counts, err := s.Storage.CountByStatus()
	if err != nil {
		return nil, apperrors.Store(err)
	}
	return counts, nil
}

func (s *Service) fillLocationDefaults(userID string, complaint *models.Complaint) {
	if complaint.HostelName != nil && complaint.RoomNumber != nil {
		return
	}
	profile, err := s.Storage.GetProfile(userID)
	if err != nil || profile == nil {
		// Missing profile just means no defaults to offer.
		return
	}
	if complaint.HostelName == nil {
		complaint.HostelName = profile.HostelName
	}
	if complaint.Block == nil {
		complaint.Block = profile.Block
	}
	if complaint.Floor == nil {
		complaint.Floor = profile.Floor
	}
	if complaint.RoomNumber == nil {
		complaint.RoomNumber = profile.RoomNumber
	}
}

// publishUpdate routes an update to the new and, when assignment changed, the
// previous assignee's view.
func (s *Service) publishUpdate(prev, updated *models.Complaint) {
	event := s.buildEvent(models.ChangeUpdate, updated)
	if prev.Assigned() && (!updated.Assigned() || *prev.AssignedWorkerID != *updated.AssignedWorkerID) {
		event.PrevAssignedWorkerID = *prev.AssignedWorkerID
	}
	s.send(event)
}

func (s *Service) publish(action models.ChangeAction, complaint *models.Complaint) {
	s.send(s.buildEvent(action, complaint))
}

func (s *Service) buildEvent(action models.ChangeAction, complaint *models.Complaint) models.ChangeEvent {
	event := models.ChangeEvent{
		Table:       complaintsTable,
		Action:      action,
		ComplaintID: complaint.ID,
		OwnerID:     complaint.OwnerID,
		Status:      complaint.Status,
		Title:       complaint.Title,
	}
	if complaint.Assigned() {
		event.AssignedWorkerID = *complaint.AssignedWorkerID
	}
	return event
}

func (s *Service) send(event models.ChangeEvent) {
	if err := s.Storage.PublishChange(event); err != nil {
		// The write already landed; viewers converge on their next fetch.
		s.log.WithError(err).WithField("complaint_id", event.ComplaintID).Error("failed to publish change event")
	}
}

// normalizeValues coerces JSON decode artifacts into storable column values.
func normalizeValues(patch map[string]interface{}) {
	if raw, ok := patch["photo_urls"]; ok {
		if items, ok := raw.([]interface{}); ok {
			urls := make(pq.StringArray, 0, len(items))
			for _, item := range items {
				if s, ok := item.(string); ok {
					urls = append(urls, s)
				}
			}
			patch["photo_urls"] = urls
		}
	}
	if raw, ok := patch["assigned_worker_id"]; ok && raw == "" {
		patch["assigned_worker_id"] = nil
	}
}

func validateValues(patch map[string]interface{}) error {
	if raw, ok := patch["category"]; ok {
		if s, ok := raw.(string); !ok || !models.Category(s).Valid() {
			return apperrors.Invalid("unknown category %v", raw)
		}
	}
	if raw, ok := patch["priority"]; ok {
		if s, ok := raw.(string); !ok || !models.Priority(s).Valid() {
			return apperrors.Invalid("unknown priority %v", raw)
		}
	}
	return nil
}
