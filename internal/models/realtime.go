package models

// ChangeAction is the kind of row mutation carried by a ChangeEvent.
type ChangeAction string

const (
	ChangeInsert ChangeAction = "insert"
	ChangeUpdate ChangeAction = "update"
	ChangeDelete ChangeAction = "delete"
)

// ChangeEvent is published on the change feed after every successful write.
// It carries just enough to route the event to entitled viewers; viewers
// re-fetch their filtered result set rather than apply the event as a patch.
type ChangeEvent struct {
	Table            string       `json:"table"`
	Action           ChangeAction `json:"action"`
	ComplaintID      string       `json:"complaint_id"`
	OwnerID          string       `json:"owner_id"`
	AssignedWorkerID string       `json:"assigned_worker_id,omitempty"`

	// PrevAssignedWorkerID routes the event to a worker whose assignment was
	// just taken away, so their queue view refreshes too.
	PrevAssignedWorkerID string `json:"prev_assigned_worker_id,omitempty"`

	Status Status `json:"status,omitempty"`
	Title  string `json:"title,omitempty"`
}

// ViewerNotice is what the hub pushes to a connected viewer over the
// websocket. Type "refresh" tells the client its current result set is stale.
type ViewerNotice struct {
	Type        string       `json:"type"`
	Action      ChangeAction `json:"action,omitempty"`
	ComplaintID string       `json:"complaint_id,omitempty"`
}
