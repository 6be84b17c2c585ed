package complaint_test

import (
	"github.com/stretchr/testify/mock"

	"hostelcare/backend/internal/models"
	"hostelcare/backend/internal/storage"
)

// MockStorage is a testify mock over the full storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) ListComplaints(filter storage.ComplaintFilter) ([]models.Complaint, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) GetComplaintByID(id string) (*models.Complaint, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStorage) CreateComplaint(complaint *models.Complaint) error {
	args := m.Called(complaint)
	return args.Error(0)
}

func (m *MockStorage) PatchComplaint(id string, patch map[string]interface{}) (*models.Complaint, error) {
	args := m.Called(id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStorage) DeleteComplaint(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStorage) CountActiveComplaints(ownerID string) (int64, error) {
	args := m.Called(ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) CountByStatus() (map[models.Status]int64, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.Status]int64), args.Error(1)
}

func (m *MockStorage) ListWorkers(userID string) ([]models.WorkerWithProfile, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WorkerWithProfile), args.Error(1)
}

func (m *MockStorage) GetWorkerByID(id string) (*models.Worker, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Worker), args.Error(1)
}

func (m *MockStorage) GetWorkerByUserID(userID string) (*models.Worker, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Worker), args.Error(1)
}

func (m *MockStorage) SaveWorker(worker *models.Worker) error {
	args := m.Called(worker)
	return args.Error(0)
}

func (m *MockStorage) DeleteWorker(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStorage) ClearWorkerAssignments(workerID string) error {
	args := m.Called(workerID)
	return args.Error(0)
}

func (m *MockStorage) GetProfile(userID string) (*models.Profile, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockStorage) GetRole(userID string) (models.Role, error) {
	args := m.Called(userID)
	return args.Get(0).(models.Role), args.Error(1)
}

func (m *MockStorage) PublishChange(event models.ChangeEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockStorage) SubscribeChanges() (<-chan models.ChangeEvent, func()) {
	args := m.Called()
	return args.Get(0).(<-chan models.ChangeEvent), args.Get(1).(func())
}
