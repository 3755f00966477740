package model

import "testing"

func TestDefaultFilters(t *testing.T) {
	f := DefaultFilters()
	if f.Page() != 1 || f.Limit() != 10 {
		t.Errorf("page/limit = %d/%d, want 1/10", f.Page(), f.Limit())
	}
	if f.Get(FilterSortBy) != "createdAt" || f.Get(FilterSortOrder) != "desc" {
		t.Errorf("sort = %s %s, want createdAt desc", f.Get(FilterSortBy), f.Get(FilterSortOrder))
	}
}

func TestFilters_PageFallback(t *testing.T) {
	for _, tc := range []struct {
		value string
		want  int
	}{
		{"3", 3},
		{"", DefaultPage},
		{"0", DefaultPage},
		{"-2", DefaultPage},
		{"abc", DefaultPage},
	} {
		f := Filters{FilterPage: tc.value}
		if got := f.Page(); got != tc.want {
			t.Errorf("Page(%q) = %d, want %d", tc.value, got, tc.want)
		}
	}
}

func TestFilters_CloneIsIndependent(t *testing.T) {
	f := DefaultFilters()
	c := f.Clone()
	c[FilterSearch] = "engineer"
	if f[FilterSearch] != "" {
		t.Errorf("original mutated: search = %q", f[FilterSearch])
	}
	var nilFilters Filters
	if got := nilFilters.Clone(); got == nil || len(got) != 0 {
		t.Errorf("nil.Clone() = %v, want empty map", got)
	}
}

func TestFilters_Equal(t *testing.T) {
	a := Filters{"search": "", "page": "1"}
	b := Filters{"page": "1"}
	if !a.Equal(b) || !b.Equal(a) {
		t.Error("empty value and missing key should compare equal")
	}
	c := Filters{"page": "2"}
	if a.Equal(c) {
		t.Error("different page should not compare equal")
	}
}

func TestFilters_Query(t *testing.T) {
	f := DefaultFilters()
	f[FilterSearch] = "engineer"
	got := f.Query().Encode()
	want := "limit=10&page=1&search=engineer&sortBy=createdAt&sortOrder=desc"
	if got != want {
		t.Errorf("Query() = %q, want %q", got, want)
	}
}

func TestSortOrder_IsValid(t *testing.T) {
	if !SortAsc.IsValid() || !SortDesc.IsValid() {
		t.Error("asc/desc should be valid")
	}
	if SortOrder("up").IsValid() {
		t.Error(`"up" should be invalid`)
	}
}
