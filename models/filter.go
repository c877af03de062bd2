package models

import (
	"strings"
	"time"
)

// Clock abstracts "now" so day-boundary logic ("today" quick filters) is
// deterministic under test.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock used by the API layer.
var SystemClock Clock = systemClock{}

const FilterAll = "all"

// FilterCriteria is the composable submission filter. All set bounds are
// ANDed together.
type FilterCriteria struct {
	// Module is "all" (or empty) or an exact module token.
	Module string `form:"module" json:"module"`
	// ExcludeModule suppresses the module bound so day-completeness can be
	// judged across all modules while the UI shows one module's tab.
	ExcludeModule bool `form:"excludeModule" json:"exclude_module"`
	// Engineer is "all" (or empty) or an exact engineer name.
	Engineer string `form:"engineer" json:"engineer"`
	// From/To are inclusive local-date bounds (YYYY-MM-DD); empty means
	// unbounded on that side.
	From string `form:"from" json:"from"`
	To   string `form:"to" json:"to"`
	// QuickFilter replaces From/To while active.
	QuickFilter QuickFilter `form:"quick" json:"quick_filter"`
	// Query is a case-insensitive free-text substring match.
	Query string `form:"q" json:"q"`
}

// ToggleQuickFilter applies a named quick filter, or clears it when the same
// name is applied a second time. Clearing also resets the date bounds.
func (c *FilterCriteria) ToggleQuickFilter(name QuickFilter) {
	if c.QuickFilter == name {
		c.QuickFilter = QuickFilterNone
		c.From = ""
		c.To = ""
		return
	}
	c.QuickFilter = name
}

// ApplyFilter returns the submissions matching the criteria. The input is
// never mutated and its order is preserved.
func ApplyFilter(subs []*Submission, criteria FilterCriteria, clock Clock) []*Submission {
	if clock == nil {
		clock = SystemClock
	}

	from, to := criteria.dateBounds(clock)
	query := strings.ToLower(strings.TrimSpace(criteria.Query))

	out := make([]*Submission, 0, len(subs))
	for _, s := range subs {
		if s == nil {
			continue
		}
		if !criteria.ExcludeModule && criteria.moduleBound() != "" && s.ModuleKey() != ModuleName(criteria.moduleBound()) {
			continue
		}
		if criteria.engineerBound() != "" && s.Engineer != criteria.engineerBound() {
			continue
		}
		if from != "" && DayKey(s.CreatedAt) < from {
			continue
		}
		if to != "" && DayKey(s.CreatedAt) > to {
			continue
		}
		switch criteria.QuickFilter {
		case QuickFilterTodayAlerts:
			if !s.HasAlerts() {
				continue
			}
		case QuickFilterTodayNoAlerts:
			if s.HasAlerts() {
				continue
			}
		}
		if query != "" && !strings.Contains(s.searchText(), query) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (c FilterCriteria) moduleBound() string {
	m := strings.ToLower(strings.TrimSpace(c.Module))
	if m == FilterAll {
		return ""
	}
	return m
}

func (c FilterCriteria) engineerBound() string {
	e := strings.TrimSpace(c.Engineer)
	if strings.EqualFold(e, FilterAll) {
		return ""
	}
	return e
}

// dateBounds resolves the effective inclusive day-key bounds. An active
// quick filter wins over the explicit range.
func (c FilterCriteria) dateBounds(clock Clock) (from string, to string) {
	switch c.QuickFilter {
	case QuickFilterToday, QuickFilterTodayAlerts, QuickFilterTodayNoAlerts:
		today := DayKey(clock.Now())
		return today, today
	}
	return strings.TrimSpace(c.From), strings.TrimSpace(c.To)
}
