package models

// Role maps an identity to exactly one access level. Roles are assigned by an
// administrator and never self-escalated.
type Role string

const (
	RoleResident Role = "resident"
	RoleAdmin    Role = "admin"
	RoleWorker   Role = "worker"
)

func (r Role) Valid() bool {
	switch r {
	case RoleResident, RoleAdmin, RoleWorker:
		return true
	}
	return false
}

// Status is the complaint lifecycle state. The forward chain is
// pending -> in_progress -> waiting_confirmation -> resolved.
type Status string

const (
	StatusPending             Status = "pending"
	StatusInProgress          Status = "in_progress"
	StatusWaitingConfirmation Status = "waiting_confirmation"
	StatusResolved            Status = "resolved"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusWaitingConfirmation, StatusResolved:
		return true
	}
	return false
}

// Active reports whether the status counts against the requester's quota.
// Complaints already substantively handled (waiting_confirmation, resolved)
// do not block new ones.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusInProgress
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Category string

const (
	CategoryElectricity Category = "electricity"
	CategoryWater       Category = "water"
	CategoryCleaning    Category = "cleaning"
	CategoryWifi        Category = "wifi"
	CategoryPlumbing    Category = "plumbing"
	CategoryFurniture   Category = "furniture"
	CategoryOther       Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryElectricity, CategoryWater, CategoryCleaning, CategoryWifi,
		CategoryPlumbing, CategoryFurniture, CategoryOther:
		return true
	}
	return false
}

// StaffType is a worker's trade.
type StaffType string

const (
	StaffElectrician StaffType = "electrician"
	StaffPlumber     StaffType = "plumber"
	StaffCleaner     StaffType = "cleaner"
	StaffTechnician  StaffType = "technician"
	StaffMaintenance StaffType = "maintenance"
)

func (t StaffType) Valid() bool {
	switch t {
	case StaffElectrician, StaffPlumber, StaffCleaner, StaffTechnician, StaffMaintenance:
		return true
	}
	return false
}

// StatusLabels are the display names shown in notifications.
var StatusLabels = map[Status]string{
	StatusPending:             "Pending",
	StatusInProgress:          "Ongoing",
	StatusWaitingConfirmation: "Awaiting Confirmation",
	StatusResolved:            "Resolved",
}
