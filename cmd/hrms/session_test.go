package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alfredjeanlab/hrms/internal/credentials"
	"github.com/alfredjeanlab/hrms/internal/model"
)

func TestSessionProfile(t *testing.T) {
	tests := []struct {
		flag, active, want string
	}{
		{"", "", credentials.DefaultProfile},
		{"", "staging", "staging"},
		{"prod", "staging", "prod"},
	}
	for _, tt := range tests {
		profileName, activeName = tt.flag, tt.active
		if got := sessionProfile(); got != tt.want {
			t.Errorf("sessionProfile(flag=%q, active=%q) = %q, want %q", tt.flag, tt.active, got, tt.want)
		}
	}
	profileName, activeName = "", ""
}

func TestProfileList(t *testing.T) {
	credStore = credentials.NewStore(filepath.Join(t.TempDir(), "credentials.toml"))
	t.Cleanup(func() { credStore = nil })
	if err := credStore.PutSession("staging", credentials.Profile{URL: "http://staging", Email: "a@example.com", Role: model.RoleEmployee}); err != nil {
		t.Fatal(err)
	}
	if err := credStore.PutSession("prod", credentials.Profile{URL: "http://prod", Token: "t", Role: model.RoleHRManager}); err != nil {
		t.Fatal(err)
	}
	outputFormat = "csv"
	t.Cleanup(func() { outputFormat = "" })

	var out bytes.Buffer
	profileListCmd.SetOut(&out)
	t.Cleanup(func() { profileListCmd.SetOut(nil) })
	if err := profileListCmd.RunE(profileListCmd, nil); err != nil {
		t.Fatal(err)
	}
	want := ",NAME,URL,EMAIL,ROLE,SESSION\n" +
		"*,prod,http://prod,,HR_Manager,active\n" +
		",staging,http://staging,a@example.com,Employee,logged out\n"
	if out.String() != want {
		t.Errorf("profile list =\n%s\nwant\n%s", out.String(), want)
	}
	if strings.Contains(out.String(), ",t,") {
		t.Error("token leaked into listing")
	}
}

func TestWhoami(t *testing.T) {
	api := &apiServer{responses: map[string]string{
		"GET /api/auth/me": `{"success":true,"user":{"_id":"u1","name":"Ann Lee","email":"ann@example.com","role":"Team_Leader"}}`,
	}}
	useServer(t, api, credentials.Profile{})

	var out bytes.Buffer
	whoamiCmd.SetOut(&out)
	t.Cleanup(func() { whoamiCmd.SetOut(nil) })
	whoamiCmd.SetContext(context.Background())
	if err := whoamiCmd.RunE(whoamiCmd, nil); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Ann Lee", "Team_Leader", "ann@example.com"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("whoami missing %q:\n%s", want, out.String())
		}
	}
}

func TestWhoami_NotLoggedIn(t *testing.T) {
	api := &statusServer{code: 401, body: `{"message":"Not authorized"}`}
	useServer(t, api, credentials.Profile{})

	whoamiCmd.SetContext(context.Background())
	err := whoamiCmd.RunE(whoamiCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "hrms login") {
		t.Fatalf("err = %v", err)
	}
}
