package viewhub

import "hostelcare/backend/internal/models"

// Client is one connected viewer. It abstracts the underlying transport so
// the hub can manage websocket viewers and test doubles uniformly.
type Client interface {
	// GetID returns the connection's unique identifier. One identity may
	// hold several connections (tabs), each with its own subscription.
	GetID() string
	// GetActor returns the viewer's identity and role; the hub scopes
	// events with it.
	GetActor() models.Actor

	// GetSendChannel returns the channel the hub pushes notices into.
	GetSendChannel() chan<- models.ViewerNotice

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts the client down and releases its resources.
	Close()
}

// entitled reports whether the event touches a row the actor may see:
// administrators see every row, workers rows assigned (or just unassigned)
// to them, residents their own rows.
func entitled(actor models.Actor, event models.ChangeEvent) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleWorker:
		return actor.WorkerID != "" &&
			(event.AssignedWorkerID == actor.WorkerID || event.PrevAssignedWorkerID == actor.WorkerID)
	case models.RoleResident:
		return event.OwnerID == actor.UserID
	}
	return false
}
