package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Worker is a maintenance staff identity. Complaints reference workers through
// AssignedWorkerID; the relation is a weak back-reference, deleting a worker
// must unassign their complaints rather than cascade-delete them.
type Worker struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"uniqueIndex;not null" json:"user_id"`
	WorkerType  StaffType `gorm:"size:32;not null" json:"worker_type"`
	Phone       *string   `json:"phone"`
	IsAvailable bool      `gorm:"default:true" json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (w *Worker) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return
}

// Profile holds contact and location metadata for any identity, one-to-one.
// Its location fields pre-fill new complaints.
type Profile struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"uniqueIndex;not null" json:"user_id"`
	FullName   string    `gorm:"size:200" json:"full_name"`
	HostelName *string   `json:"hostel_name"`
	Block      *string   `json:"block"`
	Floor      *string   `json:"floor"`
	RoomNumber *string   `json:"room_number"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

// UserRole maps an identity to exactly one role.
type UserRole struct {
	ID     string `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"uniqueIndex;not null" json:"user_id"`
	Role   Role   `gorm:"size:16;not null" json:"role"`
}

func (r *UserRole) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

// WorkerWithProfile is the worker-lookup response shape: the worker record
// joined with its profile's display data.
type WorkerWithProfile struct {
	Worker
	Profile *Profile `json:"profile"`
}
