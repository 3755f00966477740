// Package client provides the HTTP/JSON client for the HRMS REST API: one
// generic Resource per entity plus the auth, leave and report endpoints.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/alfredjeanlab/hrms/internal/model"
)

// Resource paths relative to the API root.
const (
	PathEmployees          = "employees"
	PathDepartments        = "departments"
	PathDesignations       = "designations"
	PathEmploymentStatuses = "employment-statuses"
	PathWorkShifts         = "work-shifts"
	PathLeaves             = "leaves"
	PathAnnouncements      = "announcements"
	PathNotices            = "notices"
	PathReports            = "reports"
)

func (c *HTTPClient) Employees() *Resource[model.Employee] {
	return NewResource[model.Employee](c, PathEmployees, "employees", "employee")
}

func (c *HTTPClient) Departments() *Resource[model.Department] {
	return NewResource[model.Department](c, PathDepartments, "departments", "department")
}

func (c *HTTPClient) Designations() *Resource[model.Designation] {
	return NewResource[model.Designation](c, PathDesignations, "designations", "designation")
}

func (c *HTTPClient) EmploymentStatuses() *Resource[model.EmploymentStatus] {
	return NewResource[model.EmploymentStatus](c, PathEmploymentStatuses, "employmentStatuses", "employmentStatus")
}

func (c *HTTPClient) WorkShifts() *Resource[model.WorkShift] {
	return NewResource[model.WorkShift](c, PathWorkShifts, "workShifts", "workShift")
}

func (c *HTTPClient) Leaves() *Resource[model.Leave] {
	return NewResource[model.Leave](c, PathLeaves, "leaves", "leave")
}

func (c *HTTPClient) Announcements() *Resource[model.Announcement] {
	return NewResource[model.Announcement](c, PathAnnouncements, "announcements", "announcement")
}

func (c *HTTPClient) Notices() *Resource[model.Notice] {
	return NewResource[model.Notice](c, PathNotices, "notices", "notice")
}

// --- Auth ---

// LoginRequest holds credentials for POST auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the session issued by a successful login.
type LoginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// ChangePasswordRequest holds the password change form.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Login exchanges credentials for a bearer token. It is the only call sent
// without an Authorization header.
func (c *HTTPClient) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	var raw json.RawMessage
	if err := c.doJSONAnonymous(ctx, http.MethodPost, "auth/login", req, &raw); err != nil {
		return nil, err
	}
	resp, err := decodeItem[LoginResponse](raw, "")
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}
	return resp, nil
}

// Me returns the identity behind the current token.
func (c *HTTPClient) Me(ctx context.Context) (*model.User, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "auth/me", nil, &raw); err != nil {
		return nil, err
	}
	return decodeItem[model.User](raw, "user")
}

// ChangePassword validates the form locally before sending it.
func (c *HTTPClient) ChangePassword(ctx context.Context, req *ChangePasswordRequest) error {
	if err := model.ValidatePasswordChange(req.CurrentPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodPut, "auth/change-password", req, nil)
}

// --- Leaves ---

// UpdateLeaveStatus approves or rejects a leave via PATCH leaves/{id}/status.
func (c *HTTPClient) UpdateLeaveStatus(ctx context.Context, id string, status model.LeaveStatus, remarks string) (*model.Leave, error) {
	if !status.IsValid() {
		return nil, &model.ValidationError{Errors: []model.FieldError{{Field: "status", Message: fmt.Sprintf("invalid value %q", status)}}}
	}
	body := map[string]string{"status": string(status)}
	if remarks != "" {
		body["remarks"] = remarks
	}
	return c.Leaves().Patch(ctx, id, "status", body)
}

// --- Reports ---

// Report is a tabular report: column names and one map per row.
type Report struct {
	Name       string
	Columns    []string
	Rows       []map[string]any
	Pagination *model.Pagination
}

// Report fetches GET reports/{name}. Columns are the union of row keys in
// sorted order.
func (c *HTTPClient) Report(ctx context.Context, name string, f model.Filters) (*Report, error) {
	res := NewResource[map[string]any](c, PathReports+"/"+url.PathEscape(name), "report", "report")
	page, err := res.List(ctx, f)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var cols []string
	for _, row := range page.Items {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return &Report{Name: name, Columns: cols, Rows: page.Items, Pagination: page.Pagination}, nil
}

func itoa(n int) string { return strconv.Itoa(n) }
