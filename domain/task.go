package domain

import "time"

// Status enumerates the task lifecycle states.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// ValidStatus reports whether s is one of the enumerated task states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Attachment describes a file stored alongside a task. The bytes live in
// the blob store; the task document carries only this metadata.
type Attachment struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Mimetype     string `json:"mimetype"`
	Size         int64  `json:"size"`
	URL          string `json:"url"`
}

// Task represents a user-owned activity item.
//
// OwnerID is immutable after creation. AssigneeID mirrors the legacy
// single-assignee field still present in stored records; visibility
// checks must OR it with OwnerID and SharedWith until the data is
// migrated.
type Task struct {
	ID          string       `json:"id"`
	OwnerID     string       `json:"owner"`
	AssigneeID  string       `json:"user,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      Status       `json:"status"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	SharedWith  []string     `json:"sharedWith"`
	Attachments []Attachment `json:"attachments,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

// IsOwner reports whether userID holds edit/delete/share rights.
func (t *Task) IsOwner(userID string) bool {
	return t != nil && userID != "" && t.OwnerID == userID
}

// IsSharedWith reports whether userID is a shared member of the task.
func (t *Task) IsSharedWith(userID string) bool {
	if t == nil || userID == "" {
		return false
	}
	for _, id := range t.SharedWith {
		if id == userID {
			return true
		}
	}
	return false
}

// VisibleTo reports whether userID may read the task: the owner, the
// legacy assignee, or any shared member.
func (t *Task) VisibleTo(userID string) bool {
	if t == nil || userID == "" {
		return false
	}
	return t.OwnerID == userID || t.AssigneeID == userID || t.IsSharedWith(userID)
}
