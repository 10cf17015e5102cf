// Package timeline turns a flat list of memories into year sections for
// display: filter by year, sort by date, group by calendar year, and order
// the groups in the same direction as the records inside them.
//
// The pipeline is pure. It never mutates its input and performs no I/O, so
// callers can re-run it with a different view state without re-fetching.
package timeline

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/memorylane/internal/models"
	"github.com/dmitrijs2005/memorylane/internal/viewstate"
)

// UndatedYear keys the group of memories whose date cannot be parsed.
const UndatedYear = 0

// YearGroup is one section of the timeline.
type YearGroup struct {
	Year     int             `json:"year"`
	Memories []models.Memory `json:"memories"`
}

// Pipeline carries the two environment inputs of the transformation: the
// reference clock for "this year" and the location in which calendar years
// are evaluated.
type Pipeline struct {
	now func() time.Time
	loc *time.Location
}

type Option func(*Pipeline)

// WithClock pins the reference time. Tests should always set it.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithLocation sets the time zone used to derive calendar years.
func WithLocation(loc *time.Location) Option {
	return func(p *Pipeline) { p.loc = loc }
}

func New(opts ...Option) *Pipeline {
	p := &Pipeline{now: time.Now, loc: time.Local}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Location is the time zone calendar years are evaluated in.
func (p *Pipeline) Location() *time.Location {
	return p.loc
}

// Transform runs the default pipeline (wall clock, local time zone).
func Transform(records []models.Memory, vs viewstate.ViewState) []YearGroup {
	return New().Transform(records, vs)
}

type entry struct {
	memory models.Memory
	at     time.Time
	dated  bool
}

func (p *Pipeline) year(e entry) int {
	if !e.dated {
		return UndatedYear
	}
	return e.at.In(p.loc).Year()
}

// Transform filters, sorts and groups records according to vs.
//
// Memories with an unparseable date never match a year filter but are kept
// under FilterAll. They sort as older than every dated memory and are
// collected under UndatedYear, which therefore comes last for SortNewest and
// first for SortOldest. Memories with equal dates keep their input order in
// both directions, so flipping the sort does not reverse ties.
func (p *Pipeline) Transform(records []models.Memory, vs viewstate.ViewState) []YearGroup {
	entries := p.filter(records, vs.Filter)
	p.sort(entries, vs.Sort)

	groups := make([]YearGroup, 0)
	index := make(map[int]int)
	for _, e := range entries {
		y := p.year(e)
		i, ok := index[y]
		if !ok {
			i = len(groups)
			index[y] = i
			groups = append(groups, YearGroup{Year: y})
		}
		groups[i].Memories = append(groups[i].Memories, e.memory)
	}

	slices.SortStableFunc(groups, func(a, b YearGroup) int {
		if vs.Sort == viewstate.SortOldest {
			return cmp.Compare(a.Year, b.Year)
		}
		return cmp.Compare(b.Year, a.Year)
	})

	return groups
}

// Filter returns the memories that pass vs.Filter, in input order.
func (p *Pipeline) Filter(records []models.Memory, f viewstate.Filter) []models.Memory {
	entries := p.filter(records, f)
	out := make([]models.Memory, len(entries))
	for i, e := range entries {
		out[i] = e.memory
	}
	return out
}

// Count is the number of memories shown for vs, used by profile headers.
func (p *Pipeline) Count(records []models.Memory, vs viewstate.ViewState) int {
	return len(p.filter(records, vs.Filter))
}

func (p *Pipeline) filter(records []models.Memory, f viewstate.Filter) []entry {
	current := p.now().In(p.loc).Year()

	out := make([]entry, 0, len(records))
	for _, m := range records {
		at, ok := ParseDate(m.Date, p.loc)
		e := entry{memory: m, at: at, dated: ok}

		switch f {
		case viewstate.FilterThisYear:
			if !e.dated || p.year(e) != current {
				continue
			}
		case viewstate.FilterLastYear:
			if !e.dated || p.year(e) != current-1 {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

func (p *Pipeline) sort(entries []entry, s viewstate.Sort) {
	slices.SortStableFunc(entries, func(a, b entry) int {
		c := compareEntries(a, b)
		if s == viewstate.SortOldest {
			return c
		}
		return -c
	})
}

// compareEntries orders ascending by instant with undated entries first.
func compareEntries(a, b entry) int {
	switch {
	case !a.dated && !b.dated:
		return 0
	case !a.dated:
		return -1
	case !b.dated:
		return 1
	}
	return a.at.Compare(b.at)
}

var dateLayouts = []string{
	time.DateOnly,
	"2006-01-02T15:04:05",
	time.DateTime,
}

// ParseDate reads the date forms the stores produce: a bare calendar date
// (taken as midnight in loc), a timestamp with an explicit offset, or a
// timestamp without one (taken in loc).
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
