package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/alfredjeanlab/hrms/internal/client"
	"github.com/alfredjeanlab/hrms/internal/credentials"
	"github.com/alfredjeanlab/hrms/internal/model"
)

type request struct {
	method, path, body string
}

// apiServer answers every request with the canned body for its path.
type apiServer struct {
	mu        sync.Mutex
	requests  []request
	responses map[string]string
}

func (s *apiServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	s.requests = append(s.requests, request{r.Method, r.URL.Path, string(body)})
	resp, ok := s.responses[r.Method+" "+r.URL.Path]
	s.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"no route"}`)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, resp)
}

func (s *apiServer) seen() []request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]request(nil), s.requests...)
}

// useServer points the package client at h and sets the signed-in profile.
func useServer(t *testing.T, h http.Handler, prof credentials.Profile) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	prevClient, prevProfile := hrClient, activeProfile
	hrClient = client.NewHTTPClient(srv.URL+"/api", client.WithTokenSource(credentials.StaticToken("tok")))
	activeProfile = prof
	t.Cleanup(func() { hrClient, activeProfile = prevClient, prevProfile })
}

func TestAuthorizeSection(t *testing.T) {
	self := viewer{ID: "u1", Role: model.RoleEmployee}
	lead := viewer{ID: "u1", Role: model.RoleTeamLeader}
	hr := viewer{ID: "hr", Role: model.RoleHRManager}
	tests := []struct {
		name    string
		section model.Section
		v       viewer
		subject string
		allowed bool
	}{
		{"hr edits anyone", model.SectionEmploymentDetails, hr, "u2", true},
		{"employee own contact", model.SectionContactInfo, self, "u1", true},
		{"employee own attendance", model.SectionAttendance, self, "u1", false},
		{"lead own employment", model.SectionEmploymentDetails, lead, "u1", false},
		{"lead other record", model.SectionBasicInfo, lead, "u2", false},
		{"unknown section", model.Section("salary"), hr, "u2", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authorizeSection(tt.section, tt.v, tt.subject)
			if tt.allowed {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *model.ValidationError
			if !errors.As(err, &ve) || ve.Errors[0].Field != "section" {
				t.Fatalf("error = %v, want section validation error", err)
			}
		})
	}
}

func runPatch(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := employeeCommands()[0]
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPatch_DeniedSendsNoRequest(t *testing.T) {
	api := &apiServer{responses: map[string]string{}}
	useServer(t, api, credentials.Profile{UserID: "u1", Role: model.RoleEmployee})

	for _, args := range [][]string{
		{"u1", "attendance", "--set", "status=present"},
		{"u2", "basic-info", "--set", "firstName=Ann"},
	} {
		_, err := runPatch(t, args...)
		var ve *model.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("patch %v: error = %v, want validation error", args, err)
		}
	}
	if got := api.seen(); len(got) != 0 {
		t.Errorf("requests = %v, want none", got)
	}
}

func TestPatch_AllowedSendsSectionPatch(t *testing.T) {
	api := &apiServer{responses: map[string]string{
		"PATCH /api/employees/u1/contact-info": `{"data":{"_id":"u1","firstName":"Ann","lastName":"Lee","phone":"555-0100"}}`,
	}}
	useServer(t, api, credentials.Profile{UserID: "u1", Role: model.RoleEmployee})

	out, err := runPatch(t, "u1", "contact-info", "--set", "phone=555-0100")
	if err != nil {
		t.Fatal(err)
	}
	got := api.seen()
	if len(got) != 1 || got[0].method != http.MethodPatch || got[0].body != `{"phone":"555-0100"}` {
		t.Fatalf("requests = %v", got)
	}
	if !strings.Contains(out, "Ann Lee") {
		t.Errorf("output = %q", out)
	}
}

func TestPatch_ResolvesViewerFromServer(t *testing.T) {
	api := &apiServer{responses: map[string]string{
		"GET /api/auth/me":                  `{"user":{"_id":"hr1","email":"hr@example.com","role":"HR_Manager"}}`,
		"PATCH /api/employees/u7/attendance": `{"data":{"_id":"u7"}}`,
	}}
	useServer(t, api, credentials.Profile{})

	if _, err := runPatch(t, "u7", "attendance", "--set", "mode=remote"); err != nil {
		t.Fatal(err)
	}
	got := api.seen()
	if len(got) != 2 || got[0].path != "/api/auth/me" || got[1].path != "/api/employees/u7/attendance" {
		t.Errorf("requests = %v", got)
	}
}

func TestSections(t *testing.T) {
	useServer(t, &apiServer{}, credentials.Profile{UserID: "u1", Role: model.RoleTeamLeader})
	outputFormat = "csv"
	t.Cleanup(func() { outputFormat = "" })

	cmd := employeeCommands()[1]
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"u1"})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(&out).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	rows := map[string]string{}
	for _, r := range records[1:] {
		rows[r[0]] = r[1]
	}
	want := map[string]string{
		"basic-info":         "yes",
		"contact-info":       "yes",
		"attendance":         "no",
		"employment-details": "no",
	}
	for section, mark := range want {
		if rows[section] != mark {
			t.Errorf("%s = %q, want %q", section, rows[section], mark)
		}
	}
}

// statusServer answers every request with one status and body.
type statusServer struct {
	code int
	body string
}

func (s *statusServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(s.code)
	_, _ = io.WriteString(w, s.body)
}
