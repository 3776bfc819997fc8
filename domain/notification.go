package domain

import "time"

// NotificationType classifies the event a notification was born from.
type NotificationType string

const (
	NotificationTaskShared    NotificationType = "task_shared"
	NotificationTaskUpdated   NotificationType = "task_updated"
	NotificationTaskCompleted NotificationType = "task_completed"
)

// Notification is the durable inbox record produced by the sharing and
// status-change fan-out. Sender and task fields are weak references:
// the referenced user or task may have been deleted, in which case the
// display fields stay empty and the client renders a placeholder.
type Notification struct {
	ID          string           `json:"id"`
	RecipientID string           `json:"recipient"`
	SenderID    string           `json:"sender"`
	Type        NotificationType `json:"type"`
	Message     string           `json:"message"`
	TaskID      string           `json:"taskId,omitempty"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"createdAt"`

	// Joined display fields, populated on list reads only.
	SenderName  string `json:"senderName,omitempty"`
	SenderEmail string `json:"senderEmail,omitempty"`
	TaskTitle   string `json:"taskTitle,omitempty"`
}

// PushEvent is the transient payload emitted on the real-time channel.
// Delivery is best-effort; the Notification record is the source of
// truth.
type PushEvent struct {
	Type    NotificationType `json:"type"`
	Message string           `json:"message"`
	TaskID  string           `json:"taskId,omitempty"`
}
