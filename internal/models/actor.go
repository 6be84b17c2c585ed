package models

// Actor is the identity making a request, passed explicitly into every core
// operation. Never read from ambient state.
type Actor struct {
	UserID string
	Role   Role

	// WorkerID is the Worker record ID for actors with RoleWorker, empty
	// otherwise. Complaint assignment references this, not UserID.
	WorkerID string
}

// IsAdmin reports whether the actor holds the administrator role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
