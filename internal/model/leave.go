package model

import "time"

// LeaveStatus is the approval state of a leave request.
type LeaveStatus string

const (
	LeavePending   LeaveStatus = "pending"
	LeaveApproved  LeaveStatus = "approved"
	LeaveRejected  LeaveStatus = "rejected"
	LeaveCancelled LeaveStatus = "cancelled"
)

// String returns the string representation of the leave status.
func (s LeaveStatus) String() string {
	return string(s)
}

// IsValid checks whether the leave status is a known value.
func (s LeaveStatus) IsValid() bool {
	switch s {
	case LeavePending, LeaveApproved, LeaveRejected, LeaveCancelled:
		return true
	}
	return false
}

// IsFinal reports whether the leave can no longer change state.
func (s LeaveStatus) IsFinal() bool {
	return s == LeaveApproved || s == LeaveRejected || s == LeaveCancelled
}

// Leave is a request for time off.
type Leave struct {
	ID         string      `json:"_id"`
	Employee   Ref         `json:"employee"`
	LeaveType  string      `json:"leaveType"`
	StartDate  time.Time   `json:"startDate"`
	EndDate    time.Time   `json:"endDate"`
	Reason     string      `json:"reason,omitempty"`
	Status     LeaveStatus `json:"status"`
	Remarks    string      `json:"remarks,omitempty"`
	ApprovedBy Ref         `json:"approvedBy"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// Days returns the inclusive number of calendar days covered by the leave.
func (l *Leave) Days() int {
	if l.EndDate.Before(l.StartDate) {
		return 0
	}
	start := time.Date(l.StartDate.Year(), l.StartDate.Month(), l.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(l.EndDate.Year(), l.EndDate.Month(), l.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours()/24) + 1
}
