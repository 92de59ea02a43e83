package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeUserCreated          = "user.created"
	EventTypeUserDeleted          = "user.deleted"
	EventTypeAttendanceCheckedIn  = "attendance.checked_in"
	EventTypeAttendanceCheckedOut = "attendance.checked_out"
	EventTypeTaskCreated          = "task.created"
	EventTypeTaskUpdated          = "task.updated"
	EventTypeTaskDeleted          = "task.deleted"
	EventTypeCustomerUpdated      = "customer.updated"
	EventTypeNoticeSent           = "notice.sent"
)

// AllEventTypes lists every type services publish.
var AllEventTypes = []string{
	EventTypeUserCreated,
	EventTypeUserDeleted,
	EventTypeAttendanceCheckedIn,
	EventTypeAttendanceCheckedOut,
	EventTypeTaskCreated,
	EventTypeTaskUpdated,
	EventTypeTaskDeleted,
	EventTypeCustomerUpdated,
	EventTypeNoticeSent,
}

// RecordEvent describes a change to one record in a collection.
type RecordEvent struct {
	BaseEvent
	RecordID string `json:"record_id"`
}

func NewRecordEvent(eventType, actor, recordID string, data map[string]interface{}) *RecordEvent {
	if data == nil {
		data = map[string]interface{}{}
	}
	data["record_id"] = recordID
	return &RecordEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Actor:     actor,
			Data:      data,
		},
		RecordID: recordID,
	}
}
