package main

import (
	"fmt"
	"strconv"

	"github.com/alfredjeanlab/hrms/internal/client"
	"github.com/alfredjeanlab/hrms/internal/model"
)

// registry lists every record collection in help order.
var registry = []resourceCommand{
	employeesDef,
	departmentsDef,
	designationsDef,
	employmentStatusesDef,
	workShiftsDef,
	leavesDef,
	announcementsDef,
	noticesDef,
}

var employeesDef = &resourceDef[model.Employee]{
	name:     client.PathEmployees,
	singular: "employee",
	aliases:  []string{"employee", "emp"},
	resource: (*client.HTTPClient).Employees,
	columns:  []string{"ID", "EMPLOYEE ID", "NAME", "EMAIL", "ROLE", "DEPARTMENT", "DESIGNATION", "STATUS"},
	row: func(e model.Employee) []string {
		return []string{e.ID, e.EmployeeID, e.FullName(), e.Email, string(e.Role), e.Department.String(), e.Designation.String(), string(e.Status)}
	},
	detail:   employeeDetail,
	id: func(e model.Employee) string { return e.ID },
	filters: []filterFlag{
		{"role", model.FilterRole, "filter by role (HR_Manager, Team_Leader, Employee)"},
		{"department", model.FilterDepartment, "filter by department id"},
	},
	validate: model.ValidateEmployeeBody,
	extra:    employeeCommands,
}

var departmentsDef = &resourceDef[model.Department]{
	name:     client.PathDepartments,
	singular: "department",
	aliases:  []string{"department", "dept"},
	resource: (*client.HTTPClient).Departments,
	columns:  []string{"ID", "NAME", "CODE", "HEAD", "STATUS"},
	row: func(d model.Department) []string {
		return []string{d.ID, d.Name, d.Code, d.Head.String(), string(d.Status)}
	},
	detail: func(d model.Department) []detailField {
		return []detailField{
			{"ID", d.ID},
			{"Name", d.Name},
			{"Code", d.Code},
			{"Description", d.Description},
			{"Head", d.Head.String()},
			{"Status", string(d.Status)},
			{"Created By", d.CreatedBy.String()},
			{"Created At", formatTime(d.CreatedAt)},
			{"Updated At", formatTime(d.UpdatedAt)},
		}
	},
	id:       func(d model.Department) string { return d.ID },
	validate: validateAll(requireOnCreate("name"), validRecordStatus),
}

var designationsDef = &resourceDef[model.Designation]{
	name:     client.PathDesignations,
	singular: "designation",
	aliases:  []string{"designation"},
	resource: (*client.HTTPClient).Designations,
	columns:  []string{"ID", "TITLE", "DEPARTMENT", "STATUS", "CREATED"},
	row: func(d model.Designation) []string {
		return []string{d.ID, d.Title, d.Department.String(), string(d.Status), formatTime(d.CreatedAt)}
	},
	detail: func(d model.Designation) []detailField {
		return []detailField{
			{"ID", d.ID},
			{"Title", d.Title},
			{"Description", d.Description},
			{"Department", d.Department.String()},
			{"Status", string(d.Status)},
			{"Created By", d.CreatedBy.String()},
			{"Created At", formatTime(d.CreatedAt)},
			{"Updated At", formatTime(d.UpdatedAt)},
		}
	},
	id: func(d model.Designation) string { return d.ID },
	filters: []filterFlag{
		{"department", model.FilterDepartment, "filter by department id"},
	},
	validate: validateAll(requireOnCreate("title"), validRecordStatus),
}

var employmentStatusesDef = &resourceDef[model.EmploymentStatus]{
	name:     client.PathEmploymentStatuses,
	singular: "employment status",
	aliases:  []string{"employment-status"},
	resource: (*client.HTTPClient).EmploymentStatuses,
	columns:  []string{"ID", "NAME", "COLOR", "STATUS"},
	row: func(s model.EmploymentStatus) []string {
		return []string{s.ID, s.Name, s.Color, string(s.Status)}
	},
	detail: func(s model.EmploymentStatus) []detailField {
		return []detailField{
			{"ID", s.ID},
			{"Name", s.Name},
			{"Description", s.Description},
			{"Color", s.Color},
			{"Status", string(s.Status)},
			{"Created At", formatTime(s.CreatedAt)},
			{"Updated At", formatTime(s.UpdatedAt)},
		}
	},
	id:       func(s model.EmploymentStatus) string { return s.ID },
	validate: validateAll(requireOnCreate("name"), validRecordStatus),
}

var workShiftsDef = &resourceDef[model.WorkShift]{
	name:     client.PathWorkShifts,
	singular: "work shift",
	aliases:  []string{"work-shift", "shifts"},
	resource: (*client.HTTPClient).WorkShifts,
	columns:  []string{"ID", "NAME", "START", "END", "STATUS"},
	row: func(s model.WorkShift) []string {
		return []string{s.ID, s.Name, s.StartTime, s.EndTime, string(s.Status)}
	},
	detail: func(s model.WorkShift) []detailField {
		return []detailField{
			{"ID", s.ID},
			{"Name", s.Name},
			{"Start", s.StartTime},
			{"End", s.EndTime},
			{"Description", s.Description},
			{"Status", string(s.Status)},
			{"Created At", formatTime(s.CreatedAt)},
			{"Updated At", formatTime(s.UpdatedAt)},
		}
	},
	id:       func(s model.WorkShift) string { return s.ID },
	validate: validateAll(requireOnCreate("name", "startTime", "endTime"), validShiftTimes, validRecordStatus),
}

var leavesDef = &resourceDef[model.Leave]{
	name:     client.PathLeaves,
	singular: "leave",
	aliases:  []string{"leave"},
	resource: (*client.HTTPClient).Leaves,
	columns:  []string{"ID", "EMPLOYEE", "TYPE", "FROM", "TO", "DAYS", "STATUS"},
	row: func(l model.Leave) []string {
		return []string{l.ID, l.Employee.String(), l.LeaveType, formatDate(l.StartDate), formatDate(l.EndDate), strconv.Itoa(l.Days()), string(l.Status)}
	},
	detail:   leaveDetail,
	id: func(l model.Leave) string { return l.ID },
	filters: []filterFlag{
		{"employee", "employee", "filter by employee id"},
		{"type", "leaveType", "filter by leave type"},
	},
	validate: validateAll(requireOnCreate("leaveType", "startDate", "endDate"), validLeaveDates),
	extra:    leaveCommands,
}

var announcementsDef = &resourceDef[model.Announcement]{
	name:     client.PathAnnouncements,
	singular: "announcement",
	aliases:  []string{"announcement"},
	resource: (*client.HTTPClient).Announcements,
	columns:  []string{"ID", "TITLE", "PRIORITY", "STATUS", "PUBLISHED"},
	row: func(a model.Announcement) []string {
		return []string{a.ID, a.Title, string(a.Priority), string(a.Status), formatTimePtr(a.PublishedAt)}
	},
	detail: func(a model.Announcement) []detailField {
		return []detailField{
			{"ID", a.ID},
			{"Title", a.Title},
			{"Priority", string(a.Priority)},
			{"Status", string(a.Status)},
			{"Published", formatTimePtr(a.PublishedAt)},
			{"Created By", a.CreatedBy.String()},
			{"Content", a.Content},
			{"Created At", formatTime(a.CreatedAt)},
		}
	},
	id: func(a model.Announcement) string { return a.ID },
	filters: []filterFlag{
		{"priority", "priority", "filter by priority (low, medium, high)"},
	},
	validate: validateAll(requireOnCreate("title", "content"), validPriority, validRecordStatus),
}

var noticesDef = &resourceDef[model.Notice]{
	name:     client.PathNotices,
	singular: "notice",
	aliases:  []string{"notice"},
	resource: (*client.HTTPClient).Notices,
	columns:  []string{"ID", "TITLE", "AUDIENCE", "DEPARTMENT", "EXPIRES", "STATUS"},
	row: func(n model.Notice) []string {
		return []string{n.ID, n.Title, n.Audience, n.Department.String(), formatTimePtr(n.ExpiresAt), string(n.Status)}
	},
	detail: func(n model.Notice) []detailField {
		return []detailField{
			{"ID", n.ID},
			{"Title", n.Title},
			{"Audience", n.Audience},
			{"Department", n.Department.String()},
			{"Expires", formatTimePtr(n.ExpiresAt)},
			{"Status", string(n.Status)},
			{"Created By", n.CreatedBy.String()},
			{"Content", n.Content},
			{"Created At", formatTime(n.CreatedAt)},
		}
	},
	id: func(n model.Notice) string { return n.ID },
	filters: []filterFlag{
		{"department", model.FilterDepartment, "filter by department id"},
	},
	validate: validateAll(requireOnCreate("title", "content"), validRecordStatus),
}

// validShiftTimes checks start/end when both are being sent.
func validShiftTimes(body map[string]any, _ bool) error {
	start, end := stringField(body, "startTime"), stringField(body, "endTime")
	if start == "" || end == "" {
		return nil
	}
	return model.ValidateShiftTimes(start, end)
}

// validLeaveDates checks the leave period when both dates are being sent.
func validLeaveDates(body map[string]any, _ bool) error {
	start, end := stringField(body, "startDate"), stringField(body, "endDate")
	if start == "" || end == "" {
		return nil
	}
	return model.ValidateDateRange(start, end)
}

func validPriority(body map[string]any, _ bool) error {
	v := stringField(body, "priority")
	if v == "" || model.Priority(v).IsValid() {
		return nil
	}
	var ve model.ValidationError
	ve.Add("priority", fmt.Sprintf("invalid value %q (must be low, medium or high)", v))
	return ve.Err()
}

func employeeDetail(e model.Employee) []detailField {
	return []detailField{
		{"ID", e.ID},
		{"Employee ID", e.EmployeeID},
		{"Name", e.FullName()},
		{"Email", e.Email},
		{"Phone", e.Phone},
		{"Role", string(e.Role)},
		{"Status", string(e.Status)},
		{"Department", e.Department.String()},
		{"Designation", e.Designation.String()},
		{"Employment", e.EmploymentStatus.String()},
		{"Work Shift", e.WorkShift.String()},
		{"Reports To", e.ReportingTo.String()},
		{"Joined", formatTimePtr(e.JoiningDate)},
		{"Created At", formatTime(e.CreatedAt)},
		{"Updated At", formatTime(e.UpdatedAt)},
	}
}

func leaveDetail(l model.Leave) []detailField {
	return []detailField{
		{"ID", l.ID},
		{"Employee", l.Employee.String()},
		{"Type", l.LeaveType},
		{"From", formatDate(l.StartDate)},
		{"To", formatDate(l.EndDate)},
		{"Days", strconv.Itoa(l.Days())},
		{"Reason", l.Reason},
		{"Status", string(l.Status)},
		{"Remarks", l.Remarks},
		{"Approved By", l.ApprovedBy.String()},
		{"Created At", formatTime(l.CreatedAt)},
		{"Updated At", formatTime(l.UpdatedAt)},
	}
}
