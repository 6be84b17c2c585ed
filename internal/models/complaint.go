package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Complaint is the central record. OwnerID and CreatedAt are immutable after
// creation; everything else is patched column-wise under the authorization
// gate's rules.
type Complaint struct {
	ID          string   `gorm:"primaryKey" json:"id"`
	OwnerID     string   `gorm:"index;not null" json:"user_id"`
	Title       string   `gorm:"size:200;not null" json:"title"`
	Description string   `gorm:"size:2000" json:"description"`
	Category    Category `gorm:"size:32;not null" json:"category"`
	Status      Status   `gorm:"size:32;index;not null;default:pending" json:"status"`
	Priority    Priority `gorm:"size:16;not null;default:medium" json:"priority"`

	AssignedWorkerID *string `gorm:"index" json:"assigned_worker_id"`
	AdminNotes       *string `gorm:"size:2000" json:"admin_notes"`

	PhotoURLs pq.StringArray `gorm:"type:text[]" json:"photo_urls"`

	HostelName *string `json:"hostel_name"`
	Block      *string `json:"block"`
	Floor      *string `json:"floor"`
	RoomNumber *string `json:"room_number"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates the complaint ID if it has not been set.
func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// Assigned reports whether the complaint currently points at a worker.
func (c *Complaint) Assigned() bool {
	return c.AssignedWorkerID != nil && *c.AssignedWorkerID != ""
}

// AssignedTo reports whether the complaint is assigned to the given worker.
func (c *Complaint) AssignedTo(workerID string) bool {
	return c.Assigned() && *c.AssignedWorkerID == workerID
}
