package model

import (
	"net/url"
	"strconv"
)

// Well-known filter keys.
const (
	FilterSearch     = "search"
	FilterStatus     = "status"
	FilterRole       = "role"
	FilterDepartment = "department"
	FilterSortBy     = "sortBy"
	FilterSortOrder  = "sortOrder"
	FilterPage       = "page"
	FilterLimit      = "limit"
	FilterCreatedBy  = "createdBy"
)

// SortOrder is the direction of a list sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// IsValid checks whether the sort order is a known value.
func (o SortOrder) IsValid() bool {
	return o == SortAsc || o == SortDesc
}

const (
	DefaultPage   = 1
	DefaultLimit  = 10
	DefaultSortBy = "createdAt"
)

// Filters holds the query state of one list screen: free-text search,
// categorical filters, sort and paging. Values are kept as strings because
// they are sent verbatim as query parameters.
type Filters map[string]string

// DefaultFilters returns the filter set every list screen starts from.
func DefaultFilters() Filters {
	return Filters{
		FilterSearch:    "",
		FilterStatus:    "",
		FilterSortBy:    DefaultSortBy,
		FilterSortOrder: string(SortDesc),
		FilterPage:      strconv.Itoa(DefaultPage),
		FilterLimit:     strconv.Itoa(DefaultLimit),
	}
}

// Clone returns an independent copy. A nil receiver yields an empty map.
func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Get returns the value for key, or "" when unset.
func (f Filters) Get(key string) string {
	return f[key]
}

// Page returns the page number, falling back to DefaultPage when the value
// is missing or not a positive integer.
func (f Filters) Page() int {
	return positiveInt(f[FilterPage], DefaultPage)
}

// Limit returns the page size, falling back to DefaultLimit.
func (f Filters) Limit() int {
	return positiveInt(f[FilterLimit], DefaultLimit)
}

// Equal reports whether both filter sets hold the same non-empty values.
// An unset key and a key set to "" are equivalent.
func (f Filters) Equal(other Filters) bool {
	for k, v := range f {
		if other[k] != v {
			return false
		}
	}
	for k, v := range other {
		if f[k] != v {
			return false
		}
	}
	return true
}

// Query encodes the filters as URL query values, omitting empty values.
// url.Values.Encode sorts by key, so the resulting query string is stable.
func (f Filters) Query() url.Values {
	q := url.Values{}
	for k, v := range f {
		if v == "" {
			continue
		}
		q.Set(k, v)
	}
	return q
}

func positiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
