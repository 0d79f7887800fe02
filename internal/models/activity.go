package models

import "encoding/json"

// Activity types the backend records against an assignment.
const (
	ActivityAssignmentCreated = "ASSIGNMENT_CREATED"
	ActivityAssignmentUpdated = "ASSIGNMENT_UPDATED"
	ActivityStatusChanged     = "STATUS_CHANGED"
	ActivityFileUploaded      = "FILE_UPLOADED"
	ActivityAssignmentDeleted = "ASSIGNMENT_DELETED"
)

// Activity is one entry of an assignment's audit trail. The backend returns
// them newest first.
type Activity struct {
	ID          int             `json:"id"`
	Type        string          `json:"type"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	ActorUserID *int            `json:"actor_user_id,omitempty"`
	CreatedAt   Timestamp       `json:"created_at"`
}
