// Package viewstate maps a URL query string to the {filter, sort} pair that
// drives the memory timeline, and back.
//
// Decoding never fails: unknown or missing values fall back to the defaults
// (FilterAll, SortNewest). Encoding applies a partial update to an existing
// query string; an empty value removes the key, which is how "clear filter"
// is expressed. Callers that navigate with the result must replace their
// current location rather than push a new one, so that view changes do not
// pile up in back-navigation history.
package viewstate

import (
	"net/url"
	"strings"
)

type Filter string

const (
	FilterAll      Filter = "all"
	FilterThisYear Filter = "thisYear"
	FilterLastYear Filter = "lastYear"
)

type Sort string

const (
	SortNewest Sort = "newest"
	SortOldest Sort = "oldest"
)

// Query keys.
const (
	KeyFilter = "filter"
	KeySort   = "sort"
)

// ViewState selects which memories are shown and in which order.
type ViewState struct {
	Filter Filter `json:"filter"`
	Sort   Sort   `json:"sort"`
}

// Default is the state of an empty query string.
func Default() ViewState {
	return ViewState{Filter: FilterAll, Sort: SortNewest}
}

// ParseFilter reports whether s is a known filter value.
func ParseFilter(s string) (Filter, bool) {
	switch f := Filter(s); f {
	case FilterAll, FilterThisYear, FilterLastYear:
		return f, true
	}
	return FilterAll, false
}

// ParseSort reports whether s is a known sort value.
func ParseSort(s string) (Sort, bool) {
	switch o := Sort(s); o {
	case SortNewest, SortOldest:
		return o, true
	}
	return SortNewest, false
}

// Decode reads a raw query string, with or without a leading '?'.
// Malformed escapes are tolerated: whatever pairs parse are used.
func Decode(query string) ViewState {
	values, _ := url.ParseQuery(strings.TrimPrefix(query, "?"))
	return FromValues(values)
}

// FromValues is Decode over already parsed values.
func FromValues(values url.Values) ViewState {
	f, _ := ParseFilter(values.Get(KeyFilter))
	s, _ := ParseSort(values.Get(KeySort))
	return ViewState{Filter: f, Sort: s}
}

// Values renders the state as query values, omitting defaults.
func (v ViewState) Values() url.Values {
	values := url.Values{}
	if v.Filter != FilterAll && v.Filter != "" {
		values.Set(KeyFilter, string(v.Filter))
	}
	if v.Sort != SortNewest && v.Sort != "" {
		values.Set(KeySort, string(v.Sort))
	}
	return values
}

// IsDefault reports whether v equals Default().
func (v ViewState) IsDefault() bool {
	return v == Default()
}

// Encode applies update to the current query string and returns the result
// without a leading '?'. Keys not mentioned in update are kept as they are,
// including keys this package does not know about.
func Encode(update map[string]string, current string) string {
	values, _ := url.ParseQuery(strings.TrimPrefix(current, "?"))
	if values == nil {
		values = url.Values{}
	}
	for key, value := range update {
		if value == "" {
			values.Del(key)
			continue
		}
		values.Set(key, value)
	}
	return values.Encode()
}

// SetFilter is Encode for the filter key alone.
func SetFilter(f Filter, current string) string {
	return Encode(map[string]string{KeyFilter: string(f)}, current)
}

// SetSort is Encode for the sort key alone.
func SetSort(s Sort, current string) string {
	return Encode(map[string]string{KeySort: string(s)}, current)
}

// Clear drops both filter and sort from current.
func Clear(current string) string {
	return Encode(map[string]string{KeyFilter: "", KeySort: ""}, current)
}
