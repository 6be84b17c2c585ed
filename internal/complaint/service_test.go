package complaint_test

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"hostelcare/backend/internal/apperrors"
	"hostelcare/backend/internal/complaint"
	"hostelcare/backend/internal/models"
	"hostelcare/backend/internal/storage"
)

var (
	resident = models.Actor{UserID: "resident-1", Role: models.RoleResident}
	admin    = models.Actor{UserID: "admin-1", Role: models.RoleAdmin}
	worker   = models.Actor{UserID: "user-w1", Role: models.RoleWorker, WorkerID: "w-1"}
)

func strPtr(s string) *string { return &s }

func newService(m *MockStorage) *complaint.Service {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return complaint.NewService(m, log)
}

func TestCreate_DefaultsAndPublish(t *testing.T) {
	m := new(MockStorage)
	m.On("CountActiveComplaints", "resident-1").Return(int64(0), nil)
	m.On("GetProfile", "resident-1").Return(&models.Profile{
		UserID:     "resident-1",
		HostelName: strPtr("North Wing"),
		Block:      strPtr("B"),
		Floor:      strPtr("2"),
		RoomNumber: strPtr("204"),
	}, nil)
	m.On("CreateComplaint", mock.AnythingOfType("*models.Complaint")).Return(nil)
	m.On("PublishChange", mock.AnythingOfType("models.ChangeEvent")).Return(nil)

	created, err := newService(m).Create(resident, complaint.CreateRequest{
		Title:    "No hot water",
		Category: models.CategoryWater,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, models.PriorityMedium, created.Priority)
	assert.Equal(t, "resident-1", created.OwnerID)
	assert.Equal(t, "North Wing", *created.HostelName, "location defaults come from the profile")
	assert.Equal(t, "204", *created.RoomNumber)
	m.AssertCalled(t, "PublishChange", mock.MatchedBy(func(e models.ChangeEvent) bool {
		return e.Action == models.ChangeInsert && e.OwnerID == "resident-1"
	}))
}

func TestCreate_ExplicitLocationWins(t *testing.T) {
	m := new(MockStorage)
	m.On("CountActiveComplaints", "resident-1").Return(int64(0), nil)
	m.On("GetProfile", "resident-1").Return(&models.Profile{
		UserID:     "resident-1",
		HostelName: strPtr("North Wing"),
		RoomNumber: strPtr("204"),
	}, nil)
	m.On("CreateComplaint", mock.Anything).Return(nil)
	m.On("PublishChange", mock.Anything).Return(nil)

	created, err := newService(m).Create(resident, complaint.CreateRequest{
		Title:      "Broken chair",
		Category:   models.CategoryFurniture,
		HostelName: strPtr("South Wing"),
		RoomNumber: strPtr("101"),
	})

	assert.NoError(t, err)
	assert.Equal(t, "South Wing", *created.HostelName)
	assert.Equal(t, "101", *created.RoomNumber)
}

func TestCreate_NonResidentDenied(t *testing.T) {
	m := new(MockStorage)

	_, err := newService(m).Create(admin, complaint.CreateRequest{
		Title:    "test",
		Category: models.CategoryOther,
	})

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	m.AssertNotCalled(t, "CreateComplaint", mock.Anything)
}

func TestCreate_ValidationBeforeQuota(t *testing.T) {
	m := new(MockStorage)

	_, err := newService(m).Create(resident, complaint.CreateRequest{Category: models.CategoryWater})
	assert.ErrorIs(t, err, apperrors.ErrValidation, "missing title")

	_, err = newService(m).Create(resident, complaint.CreateRequest{Title: "x", Category: "gardening"})
	assert.ErrorIs(t, err, apperrors.ErrValidation, "unknown category")

	m.AssertNotCalled(t, "CountActiveComplaints", mock.Anything)
	m.AssertNotCalled(t, "CreateComplaint", mock.Anything)
}

// TestCreate_QuotaScenario walks the spec's quota sequence: two active
// complaints block a third, resolving one re-enables creation.
func TestCreate_QuotaScenario(t *testing.T) {
	m := new(MockStorage)
	m.On("GetProfile", "resident-1").Return(nil, nil)
	m.On("CreateComplaint", mock.Anything).Return(nil)
	m.On("PublishChange", mock.Anything).Return(nil)

	m.On("CountActiveComplaints", "resident-1").Return(int64(0), nil).Once()
	m.On("CountActiveComplaints", "resident-1").Return(int64(1), nil).Once()
	m.On("CountActiveComplaints", "resident-1").Return(int64(2), nil).Once()
	m.On("CountActiveComplaints", "resident-1").Return(int64(1), nil).Once()

	svc := newService(m)
	req := complaint.CreateRequest{Title: "t", Category: models.CategoryWifi}

	_, err := svc.Create(resident, req)
	assert.NoError(t, err, "first complaint")

	_, err = svc.Create(resident, req)
	assert.NoError(t, err, "second complaint")

	_, err = svc.Create(resident, req)
	assert.ErrorIs(t, err, apperrors.ErrQuotaExceeded, "third complaint hits the ceiling")

	// An administrator resolved one; the count dropped back to 1.
	_, err = svc.Create(resident, req)
	assert.NoError(t, err, "creation re-enabled")

	m.AssertNumberOfCalls(t, "CreateComplaint", 3)
}

func TestList_ScopesByRole(t *testing.T) {
	m := new(MockStorage)
	m.On("ListComplaints", mock.Anything).Return([]models.Complaint{}, nil)

	svc := newService(m)

	_, err := svc.List(resident, storage.ComplaintFilter{OwnerID: "someone-else"})
	assert.NoError(t, err)
	m.AssertCalled(t, "ListComplaints", storage.ComplaintFilter{OwnerID: "resident-1"})

	_, err = svc.List(worker, storage.ComplaintFilter{})
	assert.NoError(t, err)
	m.AssertCalled(t, "ListComplaints", storage.ComplaintFilter{AssignedWorkerID: "w-1"})

	_, err = svc.List(admin, storage.ComplaintFilter{Status: "pending"})
	assert.NoError(t, err)
	m.AssertCalled(t, "ListComplaints", storage.ComplaintFilter{Status: "pending"})
}

func TestPatch_RequesterEditOnlyWhilePending(t *testing.T) {
	pending := &models.Complaint{ID: "c-1", OwnerID: "resident-1", Status: models.StatusPending}
	active := &models.Complaint{ID: "c-2", OwnerID: "resident-1", Status: models.StatusInProgress}

	m := new(MockStorage)
	m.On("GetComplaintByID", "c-1").Return(pending, nil)
	m.On("GetComplaintByID", "c-2").Return(active, nil)
	m.On("PatchComplaint", "c-1", mock.Anything).Return(pending, nil)
	m.On("PublishChange", mock.Anything).Return(nil)

	svc := newService(m)

	_, err := svc.Patch(resident, "c-1", map[string]interface{}{"title": "new title"})
	assert.NoError(t, err)

	_, err = svc.Patch(resident, "c-2", map[string]interface{}{"title": "new title"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	m.AssertNotCalled(t, "PatchComplaint", "c-2", mock.Anything)
}

func TestPatch_AdminAssignmentAutoPromotes(t *testing.T) {
	pending := &models.Complaint{ID: "c-1", OwnerID: "resident-1", Status: models.StatusPending}
	promoted := &models.Complaint{
		ID: "c-1", OwnerID: "resident-1",
		Status:           models.StatusInProgress,
		AssignedWorkerID: strPtr("w-1"),
	}

	m := new(MockStorage)
	m.On("GetComplaintByID", "c-1").Return(pending, nil)
	m.On("PatchComplaint", "c-1", mock.MatchedBy(func(patch map[string]interface{}) bool {
		return patch["status"] == models.StatusInProgress
	})).Return(promoted, nil)
	m.On("PublishChange", mock.Anything).Return(nil)

	updated, err := newService(m).Patch(admin, "c-1", map[string]interface{}{
		"assigned_worker_id": "w-1",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, updated.Status)
	m.AssertExpectations(t)
}

func TestPatch_NotFound(t *testing.T) {
	m := new(MockStorage)
	m.On("GetComplaintByID", "missing").Return(nil, nil)

	_, err := newService(m).Patch(admin, "missing", map[string]interface{}{"priority": "high"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPatch_MissingID(t *testing.T) {
	m := new(MockStorage)

	_, err := newService(m).Patch(admin, "", map[string]interface{}{"priority": "high"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestPatch_StoreFailurePropagates(t *testing.T) {
	c := &models.Complaint{ID: "c-1", OwnerID: "resident-1", Status: models.StatusPending}

	m := new(MockStorage)
	m.On("GetComplaintByID", "c-1").Return(c, nil)
	m.On("PatchComplaint", "c-1", mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := newService(m).Patch(admin, "c-1", map[string]interface{}{"priority": "high"})
	assert.ErrorIs(t, err, apperrors.ErrStore)
}

// TestLifecycleScenario walks the spec's assignment flow end to end:
// admin assigns (auto in_progress) -> worker confirms -> admin resolves ->
// the worker can no longer touch the complaint.
func TestLifecycleScenario(t *testing.T) {
	stagePending := &models.Complaint{ID: "c-1", OwnerID: "resident-1", Status: models.StatusPending}
	stageInProgress := &models.Complaint{
		ID: "c-1", OwnerID: "resident-1",
		Status: models.StatusInProgress, AssignedWorkerID: strPtr("w-1"),
	}
	stageWaiting := &models.Complaint{
		ID: "c-1", OwnerID: "resident-1",
		Status: models.StatusWaitingConfirmation, AssignedWorkerID: strPtr("w-1"),
	}
	stageResolved := &models.Complaint{
		ID: "c-1", OwnerID: "resident-1",
		Status: models.StatusResolved, AssignedWorkerID: strPtr("w-1"),
	}

	m := new(MockStorage)
	m.On("PublishChange", mock.Anything).Return(nil)
	m.On("GetComplaintByID", "c-1").Return(stagePending, nil).Once()
	m.On("PatchComplaint", "c-1", mock.Anything).Return(stageInProgress, nil).Once()
	m.On("GetComplaintByID", "c-1").Return(stageInProgress, nil).Once()
	m.On("PatchComplaint", "c-1", mock.Anything).Return(stageWaiting, nil).Once()
	m.On("GetComplaintByID", "c-1").Return(stageWaiting, nil).Once()
	m.On("PatchComplaint", "c-1", mock.Anything).Return(stageResolved, nil).Once()
	m.On("GetComplaintByID", "c-1").Return(stageResolved, nil).Once()

	svc := newService(m)

	updated, err := svc.Patch(admin, "c-1", map[string]interface{}{"assigned_worker_id": "w-1"})
	assert.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, updated.Status)

	updated, err = svc.Patch(worker, "c-1", map[string]interface{}{"status": "waiting_confirmation"})
	assert.NoError(t, err)
	assert.Equal(t, models.StatusWaitingConfirmation, updated.Status)

	updated, err = svc.Patch(admin, "c-1", map[string]interface{}{"status": "resolved"})
	assert.NoError(t, err)
	assert.Equal(t, models.StatusResolved, updated.Status)

	_, err = svc.Patch(worker, "c-1", map[string]interface{}{"status": "waiting_confirmation"})
	assert.Error(t, err, "resolved complaint is no longer workable")
}

func TestDelete_RequesterWithdrawsPending(t *testing.T) {
	c := &models.Complaint{ID: "c-1", OwnerID: "resident-1", Status: models.StatusPending}

	m := new(MockStorage)
	m.On("GetComplaintByID", "c-1").Return(c, nil)
	m.On("DeleteComplaint", "c-1").Return(nil)
	m.On("PublishChange", mock.Anything).Return(nil)

	err := newService(m).Delete(resident, "c-1")

	assert.NoError(t, err)
	m.AssertCalled(t, "PublishChange", mock.MatchedBy(func(e models.ChangeEvent) bool {
		return e.Action == models.ChangeDelete && e.ComplaintID == "c-1"
	}))
}

func TestDelete_DeniedOnceInProgress(t *testing.T) {
	c := &models.Complaint{ID: "c-1", OwnerID: "resident-1", Status: models.StatusInProgress}

	m := new(MockStorage)
	m.On("GetComplaintByID", "c-1").Return(c, nil)

	err := newService(m).Delete(resident, "c-1")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	m.AssertNotCalled(t, "DeleteComplaint", mock.Anything)
}

func TestDelete_MissingID(t *testing.T) {
	m := new(MockStorage)

	err := newService(m).Delete(resident, "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestPatch_PublishFailureDoesNotFailWrite(t *testing.T) {
	c := &models.Complaint{ID: "c-1", OwnerID: "resident-1", Status: models.StatusPending}

	m := new(MockStorage)
	m.On("GetComplaintByID", "c-1").Return(c, nil)
	m.On("PatchComplaint", "c-1", mock.Anything).Return(c, nil)
	m.On("PublishChange", mock.Anything).Return(errors.New("redis down"))

	_, err := newService(m).Patch(admin, "c-1", map[string]interface{}{"priority": "high"})
	assert.NoError(t, err, "viewers converge on their next fetch; the write stands")
}
