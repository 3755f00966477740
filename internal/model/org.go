package model

import "time"

// RecordStatus is the active/inactive flag shared by the organisation
// reference entities.
type RecordStatus string

const (
	RecordActive   RecordStatus = "active"
	RecordInactive RecordStatus = "inactive"
)

// IsValid checks whether the status is a known value.
func (s RecordStatus) IsValid() bool {
	return s == RecordActive || s == RecordInactive
}

// Department groups employees under one head.
type Department struct {
	ID          string       `json:"_id"`
	Name        string       `json:"name"`
	Code        string       `json:"code,omitempty"`
	Description string       `json:"description,omitempty"`
	Head        Ref          `json:"head"`
	Status      RecordStatus `json:"status,omitempty"`
	CreatedBy   Ref          `json:"createdBy"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Designation is a job title.
type Designation struct {
	ID          string       `json:"_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Department  Ref          `json:"department"`
	Status      RecordStatus `json:"status,omitempty"`
	CreatedBy   Ref          `json:"createdBy"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// EmploymentStatus is a contract type such as "Permanent" or "Probation".
type EmploymentStatus struct {
	ID          string       `json:"_id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Color       string       `json:"color,omitempty"`
	Status      RecordStatus `json:"status,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// WorkShift is a named working window. Times are "HH:MM" strings.
type WorkShift struct {
	ID          string       `json:"_id"`
	Name        string       `json:"name"`
	StartTime   string       `json:"startTime"`
	EndTime     string       `json:"endTime"`
	Description string       `json:"description,omitempty"`
	Status      RecordStatus `json:"status,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
