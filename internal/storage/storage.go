package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hostelcare/backend/internal/config"
	"hostelcare/backend/internal/models"
)

// ComplaintFilter narrows a complaint listing. Zero values (or "all") leave
// the dimension unfiltered.
type ComplaintFilter struct {
	Status           string
	Category         string
	Priority         string
	AssignedWorkerID string
	OwnerID          string
}

// Storage is everything the core services need from the persistence layer.
type Storage interface {
	ListComplaints(filter ComplaintFilter) ([]models.Complaint, error)
	GetComplaintByID(id string) (*models.Complaint, error)
	CreateComplaint(complaint *models.Complaint) error
	PatchComplaint(id string, patch map[string]interface{}) (*models.Complaint, error)
	DeleteComplaint(id string) error
	CountActiveComplaints(ownerID string) (int64, error)
	CountByStatus() (map[models.Status]int64, error)

	ListWorkers(userID string) ([]models.WorkerWithProfile, error)
	GetWorkerByID(id string) (*models.Worker, error)
	GetWorkerByUserID(userID string) (*models.Worker, error)
	SaveWorker(worker *models.Worker) error
	DeleteWorker(id string) error
	ClearWorkerAssignments(workerID string) error

	GetProfile(userID string) (*models.Profile, error)
	GetRole(userID string) (models.Role, error)

	PublishChange(event models.ChangeEvent) error
	SubscribeChanges() (<-chan models.ChangeEvent, func())
}

// Service implements Storage on PostgreSQL (GORM) with Redis carrying the
// change feed and the role-lookup cache.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
	log   *logrus.Entry
}

// NewService builds the storage service.
func NewService(db *gorm.DB, rdb *redis.Client, log *logrus.Logger) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
		log:   logrus.NewEntry(log),
	}
}

// ListComplaints returns complaints matching the filter, newest first.
func (s *Service) ListComplaints(filter ComplaintFilter) ([]models.Complaint, error) {
	query := s.DB.Model(&models.Complaint{}).Order("created_at DESC")

	if filtered(filter.Status) {
		query = query.Where("status = ?", filter.Status)
	}
	if filtered(filter.Category) {
		query = query.Where("category = ?", filter.Category)
	}
	if filtered(filter.Priority) {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.AssignedWorkerID != "" {
		query = query.Where("assigned_worker_id = ?", filter.AssignedWorkerID)
	}
	if filter.OwnerID != "" {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}

	var complaints []models.Complaint
	if err := query.Find(&complaints).Error; err != nil {
		s.log.WithError(err).Error("failed to list complaints")
		return nil, err
	}
	return complaints, nil
}

func filtered(value string) bool {
	return value != "" && value != "all"
}

// GetComplaintByID returns the complaint, or nil without error when the id
// does not exist.
func (s *Service) GetComplaintByID(id string) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.DB.Where("id = ?", id).First(&complaint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		s.log.WithError(err).WithField("complaint_id", id).Error("failed to get complaint")
		return nil, err
	}
	return &complaint, nil
}

// CreateComplaint inserts a new complaint row.
func (s *Service) CreateComplaint(complaint *models.Complaint) error {
	if complaint.Status == "" {
		complaint.Status = models.StatusPending
	}
	if err := s.DB.Create(complaint).Error; err != nil {
		s.log.WithError(err).WithField("owner_id", complaint.OwnerID).Error("failed to create complaint")
		return err
	}
	return nil
}

// PatchComplaint applies a column patch and returns the updated row. The
// store serializes concurrent writers per row; last write wins, there is no
// version token.
func (s *Service) PatchComplaint(id string, patch map[string]interface{}) (*models.Complaint, error) {
	result := s.DB.Model(&models.Complaint{}).Where("id = ?", id).Updates(patch)
	if result.Error != nil {
		s.log.WithError(result.Error).WithField("complaint_id", id).Error("failed to patch complaint")
		return nil, result.Error
	}
	return s.GetComplaintByID(id)
}

// DeleteComplaint removes the row.
func (s *Service) DeleteComplaint(id string) error {
	return s.DB.Where("id = ?", id).Delete(&models.Complaint{}).Error
}

// CountActiveComplaints counts the owner's complaints still holding quota,
// i.e. status in {pending, in_progress}.
func (s *Service) CountActiveComplaints(ownerID string) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Complaint{}).
		Where("owner_id = ?", ownerID).
		Where("status IN ?", []models.Status{models.StatusPending, models.StatusInProgress}).
		Count(&count).Error
	if err != nil {
		s.log.WithError(err).WithField("owner_id", ownerID).Error("failed to count active complaints")
		return 0, err
	}
	return count, nil
}

// CountByStatus returns complaint totals per status for dashboard counters.
func (s *Service) CountByStatus() (map[models.Status]int64, error) {
	type row struct {
		Status models.Status
		Total  int64
	}
	var rows []row
	err := s.DB.Model(&models.Complaint{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.Status]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}

// ListWorkers returns workers (optionally scoped to an owning identity), each
// joined with its profile's display data.
func (s *Service) ListWorkers(userID string) ([]models.WorkerWithProfile, error) {
	query := s.DB.Model(&models.Worker{}).Order("created_at DESC")
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var workers []models.Worker
	if err := query.Find(&workers).Error; err != nil {
		s.log.WithError(err).Error("failed to list workers")
		return nil, err
	}
	if len(workers) == 0 {
		return []models.WorkerWithProfile{}, nil
	}

	userIDs := make([]string, 0, len(workers))
	for _, w := range workers {
		userIDs = append(userIDs, w.UserID)
	}

	var profiles []models.Profile
	if err := s.DB.Where("user_id IN ?", userIDs).Find(&profiles).Error; err != nil {
		s.log.WithError(err).Error("failed to load worker profiles")
		return nil, err
	}
	byUser := make(map[string]*models.Profile, len(profiles))
	for i := range profiles {
		byUser[profiles[i].UserID] = &profiles[i]
	}

	joined := make([]models.WorkerWithProfile, 0, len(workers))
	for _, w := range workers {
		joined = append(joined, models.WorkerWithProfile{
			Worker:  w,
			Profile: byUser[w.UserID],
		})
	}
	return joined, nil
}

// GetWorkerByID returns the worker, or nil without error when missing.
func (s *Service) GetWorkerByID(id string) (*models.Worker, error) {
	var worker models.Worker
	err := s.DB.Where("id = ?", id).First(&worker).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &worker, nil
}

// GetWorkerByUserID resolves the worker record for a staff identity.
func (s *Service) GetWorkerByUserID(userID string) (*models.Worker, error) {
	var worker models.Worker
	err := s.DB.Where("user_id = ?", userID).First(&worker).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &worker, nil
}

// SaveWorker upserts a worker record.
func (s *Service) SaveWorker(worker *models.Worker) error {
	return s.DB.Save(worker).Error
}

// DeleteWorker removes the worker row only; assignments are cleared by the
// assignment resolver before this is called.
func (s *Service) DeleteWorker(id string) error {
	return s.DB.Where("id = ?", id).Delete(&models.Worker{}).Error
}

// ClearWorkerAssignments nulls out assigned_worker_id on every complaint
// pointing at the worker.
func (s *Service) ClearWorkerAssignments(workerID string) error {
	return s.DB.Model(&models.Complaint{}).
		Where("assigned_worker_id = ?", workerID).
		Update("assigned_worker_id", nil).Error
}

// GetProfile returns the profile for an identity, or nil when absent.
func (s *Service) GetProfile(userID string) (*models.Profile, error) {
	var profile models.Profile
	err := s.DB.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetRole resolves an identity's role, consulting the Redis cache first.
// A missing role row means the identity has no access at all.
func (s *Service) GetRole(userID string) (models.Role, error) {
	key := "role:" + userID
	cached, err := s.Redis.Get(s.Ctx, key).Result()
	if err == nil && models.Role(cached).Valid() {
		return models.Role(cached), nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		// Cache trouble is not fatal, fall through to the database.
		s.log.WithError(err).Warn("role cache read failed")
	}

	var userRole models.UserRole
	dbErr := s.DB.Where("user_id = ?", userID).First(&userRole).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if dbErr != nil {
		return "", dbErr
	}

	if err := s.Redis.Set(s.Ctx, key, string(userRole.Role), config.RoleCacheTTL).Err(); err != nil {
		s.log.WithError(err).Warn("role cache write failed")
	}
	return userRole.Role, nil
}

// PublishChange puts a change event on the Redis feed.
func (s *Service) PublishChange(event models.ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, config.ChangeFeedChannel, payload).Err()
}

// SubscribeChanges subscribes to the change feed and returns a typed event
// stream plus a cancel function that releases the subscription.
func (s *Service) SubscribeChanges() (<-chan models.ChangeEvent, func()) {
	pubsub := s.Redis.Subscribe(s.Ctx, config.ChangeFeedChannel)
	events := make(chan models.ChangeEvent)

	go func() {
		defer close(events)
		for msg := range pubsub.Channel() {
			var event models.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				s.log.WithError(err).Error("failed to decode change event")
				continue
			}
			events <- event
		}
	}()

	cancel := func() {
		if err := pubsub.Close(); err != nil {
			s.log.WithError(err).Warn("failed to close change feed subscription")
		}
	}
	return events, cancel
}
