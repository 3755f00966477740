package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/alfredjeanlab/hrms/internal/model"
)

type shift struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Start string `json:"startTime"`
}

var shiftColumns = []string{"ID", "NAME", "START"}

func shiftRow(s shift) []string { return []string{s.ID, s.Name, s.Start} }

// pagedFetch serves pages of the given size and records requested pages.
func pagedFetch(all []shift, size int, requested *[]string) func(context.Context, model.Filters) (*model.Page[shift], error) {
	return func(_ context.Context, f model.Filters) (*model.Page[shift], error) {
		*requested = append(*requested, f.Get(model.FilterPage))
		page := f.Page()
		lo := min((page-1)*size, len(all))
		hi := min(lo+size, len(all))
		totalPages := (len(all) + size - 1) / size
		return &model.Page[shift]{
			Items: all[lo:hi],
			Pagination: &model.Pagination{
				CurrentPage: page,
				TotalPages:  totalPages,
				TotalCount:  len(all),
				HasNext:     page < totalPages,
				HasPrev:     page > 1,
			},
		}, nil
	}
}

func testShifts() []shift {
	return []shift{
		{"s1", "Morning", "06:00"},
		{"s2", "Day", "09:00"},
		{"s3", "Evening", "14:00"},
		{"s4", "Night", "22:00"},
		{"s5", "Split, late", "11:00"},
	}
}

func TestCollect_AllPages(t *testing.T) {
	var requested []string
	f := model.DefaultFilters()
	ds, err := Collect[shift](context.Background(), "work-shifts", pagedFetch(testShifts(), 2, &requested), f, shiftColumns, shiftRow, 0)
	if err != nil {
		t.Fatal(err)
	}
	if ds.Len() != 5 || len(ds.Rows) != 5 {
		t.Fatalf("got %d records, %d rows", ds.Len(), len(ds.Rows))
	}
	if got := strings.Join(requested, ","); got != "1,2,3" {
		t.Errorf("pages requested = %s", got)
	}
	if f.Get(model.FilterPage) != "1" {
		t.Error("Collect mutated the caller's filters")
	}
}

func TestCollect_MaxPages(t *testing.T) {
	var requested []string
	ds, err := Collect[shift](context.Background(), "work-shifts", pagedFetch(testShifts(), 2, &requested), nil, shiftColumns, shiftRow, 2)
	if err != nil {
		t.Fatal(err)
	}
	if ds.Len() != 4 {
		t.Errorf("got %d records, want 4", ds.Len())
	}
}

func TestCollect_NegativeMaxPages(t *testing.T) {
	var requested []string
	_, err := Collect[shift](context.Background(), "work-shifts", pagedFetch(testShifts(), 2, &requested), nil, shiftColumns, shiftRow, -1)
	if err == nil {
		t.Fatal("expected error for a negative page limit")
	}
	if len(requested) != 0 {
		t.Errorf("pages requested = %v, want none", requested)
	}
}

func TestCollect_NoPagination(t *testing.T) {
	calls := 0
	fetch := func(context.Context, model.Filters) (*model.Page[shift], error) {
		calls++
		return &model.Page[shift]{Items: testShifts()[:1]}, nil
	}
	ds, err := Collect[shift](context.Background(), "work-shifts", fetch, nil, shiftColumns, shiftRow, 0)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 || ds.Len() != 1 {
		t.Errorf("calls = %d records = %d", calls, ds.Len())
	}
}

func TestCollect_Error(t *testing.T) {
	fetch := func(context.Context, model.Filters) (*model.Page[shift], error) {
		return nil, errors.New("HTTP 403: Access denied")
	}
	_, err := Collect[shift](context.Background(), "work-shifts", fetch, nil, shiftColumns, shiftRow, 0)
	if err == nil || !strings.Contains(err.Error(), "work-shifts page 1") {
		t.Fatalf("err = %v", err)
	}
}

func TestWriteCSV(t *testing.T) {
	ds := &Dataset{Resource: "work-shifts", Columns: shiftColumns}
	for _, s := range testShifts()[3:] {
		ds.Rows = append(ds.Rows, shiftRow(s))
		ds.Records = append(ds.Records, s)
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, ds); err != nil {
		t.Fatal(err)
	}
	want := "ID,NAME,START\ns4,Night,22:00\ns5,\"Split, late\",11:00\n"
	if buf.String() != want {
		t.Errorf("csv =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteJSONL(t *testing.T) {
	ds := &Dataset{Resource: "work-shifts", Columns: shiftColumns}
	for _, s := range testShifts()[:2] {
		ds.Rows = append(ds.Rows, shiftRow(s))
		ds.Records = append(ds.Records, s)
	}
	var buf bytes.Buffer
	if err := WriteJSONL(&buf, ds); err != nil {
		t.Fatal(err)
	}
	lines := nonEmptyLines(buf.String())
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), buf.String())
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.Version != "1" || h.Type != "header" || h.Resource != "work-shifts" || h.Count != 2 {
		t.Fatalf("unexpected header: %+v", h)
	}

	var rec struct {
		Type string `json:"type"`
		Data shift  `json:"data"`
	}
	if err := json.Unmarshal([]byte(lines[2]), &rec); err != nil {
		t.Fatalf("unmarshal line 2: %v", err)
	}
	if rec.Type != "work-shifts" || rec.Data.ID != "s2" {
		t.Errorf("record = %+v", rec)
	}
}

func TestEncode(t *testing.T) {
	ds := &Dataset{Resource: "x", Columns: []string{"A"}}
	for _, f := range []Format{FormatCSV, FormatJSONL} {
		data, err := Encode(ds, f)
		if err != nil || len(data) == 0 {
			t.Errorf("Encode(%s) = %q, %v", f, data, err)
		}
	}
	if _, err := Encode(ds, "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"jsonl", FormatJSONL, false},
		{"ndjson", FormatJSONL, false},
		{"xlsx", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
	if FormatCSV.ContentType() != "text/csv" || FormatJSONL.ContentType() != "application/x-ndjson" {
		t.Error("unexpected content types")
	}
}

func nonEmptyLines(s string) []string {
	var result []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			result = append(result, line)
		}
	}
	return result
}
