package model

import "time"

// Priority of an announcement.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid checks whether the priority is a known value.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Announcement is a company-wide message.
type Announcement struct {
	ID          string       `json:"_id"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	Priority    Priority     `json:"priority,omitempty"`
	Status      RecordStatus `json:"status,omitempty"`
	PublishedAt *time.Time   `json:"publishedAt,omitempty"`
	CreatedBy   Ref          `json:"createdBy"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Notice is a message addressed to a department or audience.
type Notice struct {
	ID         string       `json:"_id"`
	Title      string       `json:"title"`
	Content    string       `json:"content"`
	Audience   string       `json:"audience,omitempty"`
	Department Ref          `json:"department"`
	Status     RecordStatus `json:"status,omitempty"`
	ExpiresAt  *time.Time   `json:"expiresAt,omitempty"`
	CreatedBy  Ref          `json:"createdBy"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}
