package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/alfredjeanlab/hrms/internal/credentials"
	"github.com/alfredjeanlab/hrms/internal/listctl"
	"github.com/alfredjeanlab/hrms/internal/model"
	"github.com/chzyer/readline"
)

// fakeSession records the calls a browser or watcher makes.
type fakeSession struct {
	mu      sync.Mutex
	calls   []string
	snap    listSnapshot
	hasNext bool
	updates chan struct{}
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		snap:    listSnapshot{Filters: model.DefaultFilters()},
		updates: make(chan struct{}, 8),
	}
}

func (f *fakeSession) record(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeSession) Start(context.Context) { f.record("start") }
func (f *fakeSession) SetFilter(k, v string) {
	f.record("set %s=%s", k, v)
	f.mu.Lock()
	f.snap.Filters[k] = v
	f.mu.Unlock()
}
func (f *fakeSession) SetPage(n int) { f.record("page %d", n) }
func (f *fakeSession) NextPage() bool {
	f.record("next")
	return f.hasNext
}
func (f *fakeSession) PrevPage() bool {
	f.record("prev")
	return f.snap.Filters.Page() > 1
}
func (f *fakeSession) Clear()                   { f.record("clear") }
func (f *fakeSession) Refresh()                 { f.record("refresh") }
func (f *fakeSession) Updates() <-chan struct{} { return f.updates }
func (f *fakeSession) Close()                   { f.record("close") }
func (f *fakeSession) Snapshot() listSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.snap
	s.Filters = f.snap.Filters.Clone()
	return s
}

func (f *fakeSession) took() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.calls
	f.calls = nil
	return out
}

func TestParseDot(t *testing.T) {
	tests := []struct {
		line    string
		name    string
		wantErr bool
	}{
		{".next", ".next", false},
		{".PAGE 3", ".page", false},
		{".page", "", true},
		{".page 0", "", true},
		{".page two", "", true},
		{".limit 25", ".limit", false},
		{".filter status=active", ".filter", false},
		{".filter status", "", true},
		{".sort title", ".sort", false},
		{".sort title asc", ".sort", false},
		{".sort title sideways", "", true},
		{".sort", "", true},
		{".clear now", "", true},
		{".frobnicate", "", true},
	}
	for _, tt := range tests {
		dc, err := parseDot(tt.line)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseDot(%q): expected error", tt.line)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDot(%q): %v", tt.line, err)
			continue
		}
		if dc.name != tt.name {
			t.Errorf("parseDot(%q).name = %q, want %q", tt.line, dc.name, tt.name)
		}
	}
}

func TestBrowser_Handle(t *testing.T) {
	tests := []struct {
		line     string
		want     []string
		wantQuit bool
		wantErr  bool
	}{
		{line: "engineer", want: []string{"set search=engineer", "refresh"}},
		{line: ".page 4", want: []string{"page 4"}},
		{line: ".next", want: []string{"next"}, wantErr: true},
		{line: ".prev", want: []string{"prev"}, wantErr: true},
		{line: ".filter department=d1", want: []string{"set department=d1"}},
		{line: ".sort title ASC", want: []string{"set sortBy=title", "set sortOrder=asc"}},
		{line: ".limit 50", want: []string{"set limit=50"}},
		{line: ".clear", want: []string{"clear"}},
		{line: ".refresh", want: []string{"refresh"}},
		{line: ".quit", wantQuit: true},
		{line: ".bogus", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			s := newFakeSession()
			b := &browser{session: s, resource: "designations", out: &bytes.Buffer{}}
			quit, err := b.handle(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if quit != tt.wantQuit {
				t.Errorf("quit = %v", quit)
			}
			if got := s.took(); strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("calls = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBrowser_SubmitSameSearchOnlyRefreshes(t *testing.T) {
	s := newFakeSession()
	s.snap.Filters[model.FilterSearch] = "engineer"
	b := &browser{session: s, out: &bytes.Buffer{}}
	if _, err := b.handle("engineer"); err != nil {
		t.Fatal(err)
	}
	if got := s.took(); len(got) != 1 || got[0] != "refresh" {
		t.Errorf("calls = %v, want [refresh]", got)
	}
}

func TestBrowser_OnType(t *testing.T) {
	s := newFakeSession()
	b := &browser{session: s}

	for i, key := range "engineer" {
		b.onType("engineer"[:i+1], key)
	}
	got := s.took()
	if len(got) != 8 || got[7] != "set search=engineer" {
		t.Fatalf("calls = %v", got)
	}

	b.onType("engineer", readline.CharEnter)
	b.onType(".ne", 'e')
	b.onType("", readline.CharNext)
	if got := s.took(); len(got) != 0 {
		t.Errorf("calls = %v, want none", got)
	}

	b.onType("", readline.CharBackspace)
	if got := s.took(); len(got) != 1 || got[0] != "set search=" {
		t.Errorf("calls = %v, want [set search=]", got)
	}
}

func TestBrowser_Render(t *testing.T) {
	var out bytes.Buffer
	b := &browser{resource: "designations", out: &out}

	b.render(listSnapshot{Status: listctl.InitialLoading})
	if !strings.Contains(out.String(), "Loading…") {
		t.Errorf("initial render = %q", out.String())
	}

	out.Reset()
	snap := listSnapshot{
		Filters: model.Filters{"search": "eng", "sortBy": "createdAt", "page": "1"},
		View: listView{
			Resource:   "designations",
			Columns:    []string{"ID", "TITLE"},
			Rows:       [][]string{{"d1", "Engineer"}},
			Pagination: &model.Pagination{CurrentPage: 1, TotalPages: 2, TotalCount: 12, HasNext: true},
		},
		Status:       listctl.Error,
		ErrorMessage: "Server unreachable",
		Loaded:       true,
	}
	b.render(snap)
	got := out.String()
	for _, want := range []string{"Engineer", "page 1 of 2", "filters: search=eng", "Error: Server unreachable", ".refresh"} {
		if !strings.Contains(got, want) {
			t.Errorf("render missing %q:\n%s", want, got)
		}
	}
}

func TestBrowser_ShowKeepsRowsWhileSearching(t *testing.T) {
	var out bytes.Buffer
	var prompt string
	b := &browser{resource: "leaves", out: &out, setPrompt: func(p string) { prompt = p }}

	b.show(listSnapshot{Status: listctl.Searching, Loaded: true})
	if out.Len() != 0 {
		t.Errorf("searching should not redraw, got %q", out.String())
	}
	if prompt != "leaves searching…> " {
		t.Errorf("prompt = %q", prompt)
	}

	b.show(listSnapshot{Status: listctl.Idle, Loaded: true, View: listView{Resource: "leaves"}})
	if prompt != "leaves> " {
		t.Errorf("prompt = %q", prompt)
	}
	if !strings.Contains(out.String(), "(no records)") {
		t.Errorf("idle render = %q", out.String())
	}
}

func TestDescribeFilters(t *testing.T) {
	tests := []struct {
		in   model.Filters
		want string
	}{
		{model.DefaultFilters(), ""},
		{model.Filters{"status": "active", "sortOrder": "asc", "page": "3", "limit": "50"}, "filters: sortOrder=asc status=active"},
	}
	for _, tt := range tests {
		if got := describeFilters(tt.in); got != tt.want {
			t.Errorf("describeFilters(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBrowser_CompleterDepartments(t *testing.T) {
	b := &browser{departments: []string{"d1", "d2"}}
	got, _ := b.completer().Do([]rune(".filter department=d"), len(".filter department=d"))
	var words []string
	for _, g := range got {
		words = append(words, strings.TrimSpace(string(g)))
	}
	want := []string{"1", "2"}
	if !reflect.DeepEqual(words, want) {
		t.Errorf("completions = %q, want %q", words, want)
	}
}

func TestDepartmentChoices(t *testing.T) {
	api := &apiServer{responses: map[string]string{
		"GET /api/departments": `{"data":{"data":[{"_id":"d1","name":"Eng"},{"_id":"d2","name":"Ops"}]}}`,
	}}
	useServer(t, api, credentials.Profile{})
	got := departmentChoices(context.Background(), hrClient)
	if want := []string{"d1", "d2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("departmentChoices = %v, want %v", got, want)
	}
}

func TestDepartmentChoices_ForbiddenIsEmpty(t *testing.T) {
	useServer(t, &statusServer{code: http.StatusForbidden, body: `{"message":"Forbidden"}`}, credentials.Profile{})
	if got := departmentChoices(context.Background(), hrClient); len(got) != 0 {
		t.Errorf("departmentChoices = %v, want none", got)
	}
}
