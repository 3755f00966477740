package model

import "time"

// EmployeeStatus is the active state of an employee record.
type EmployeeStatus string

const (
	EmployeeActive     EmployeeStatus = "active"
	EmployeeInactive   EmployeeStatus = "inactive"
	EmployeeTerminated EmployeeStatus = "terminated"
)

// String returns the string representation of the status.
func (s EmployeeStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s EmployeeStatus) IsValid() bool {
	switch s {
	case EmployeeActive, EmployeeInactive, EmployeeTerminated:
		return true
	}
	return false
}

// Employee is a person on the payroll.
type Employee struct {
	ID               string         `json:"_id"`
	EmployeeID       string         `json:"employeeId,omitempty"`
	FirstName        string         `json:"firstName"`
	LastName         string         `json:"lastName"`
	Email            string         `json:"email"`
	Phone            string         `json:"phone,omitempty"`
	Role             Role           `json:"role"`
	Status           EmployeeStatus `json:"status,omitempty"`
	Department       Ref            `json:"department"`
	Designation      Ref            `json:"designation"`
	EmploymentStatus Ref            `json:"employmentStatus"`
	WorkShift        Ref            `json:"workShift"`
	ReportingTo      Ref            `json:"reportingTo"`
	JoiningDate      *time.Time     `json:"joiningDate,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// FullName joins first and last name.
func (e *Employee) FullName() string {
	switch {
	case e.FirstName == "":
		return e.LastName
	case e.LastName == "":
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// User is the identity returned by login and /auth/me.
type User struct {
	ID         string `json:"_id"`
	EmployeeID string `json:"employeeId,omitempty"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
}
