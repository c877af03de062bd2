package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DayAggregate is the derived per-day completeness view. It is recomputed on
// every query and never persisted.
type DayAggregate struct {
	DateKey        string        `json:"date_key"`
	SubmittedCount int           `json:"submitted_count"`
	MissingModules []ModuleName  `json:"missing_modules"`
	Items          []*Submission `json:"items"`
	Passed         bool          `json:"passed"`
	Failed         bool          `json:"failed"`
	Acknowledged   bool          `json:"acknowledged"`
	Note           string        `json:"note"`
}

// ComplianceSummary is the aggregate output: per-day rows (most recent day
// first) plus the pass/fail tally over days that had at least one
// required-module submission.
type ComplianceSummary struct {
	Summaries []*DayAggregate `json:"summaries"`
	PassDays  int             `json:"pass_days"`
	FailDays  int             `json:"fail_days"`
	// PassRate is round(100 * pass / (pass + fail)), 0 when no day counted.
	PassRate int `json:"pass_rate"`
}

// AggregateDays groups submissions by local calendar day, judges each day
// against RequiredModules and merges in acknowledgement state. Records with
// a zero CreatedAt are excluded rather than attributed to a wrong day; one
// malformed record never aborts the report.
func AggregateDays(subs []*Submission, complianceByDay map[string]ComplianceRecord) ComplianceSummary {
	byDay := map[string][]*Submission{}
	var order []string
	for _, s := range subs {
		if s == nil || s.CreatedAt.IsZero() {
			continue
		}
		key := DayKey(s.CreatedAt)
		if _, seen := byDay[key]; !seen {
			order = append(order, key)
		}
		byDay[key] = append(byDay[key], s)
	}

	// Most recent day first. User-facing contract, not incidental.
	sort.Sort(sort.Reverse(sort.StringSlice(order)))

	summary := ComplianceSummary{Summaries: make([]*DayAggregate, 0, len(order))}
	for _, key := range order {
		items := byDay[key]
		present := map[ModuleName]bool{}
		for _, s := range items {
			m := s.ModuleKey()
			if m.IsRequired() {
				present[m] = true
			}
		}

		missing := make([]ModuleName, 0, len(RequiredModules))
		for _, m := range RequiredModules {
			if !present[m] {
				missing = append(missing, m)
			}
		}

		// A day with only unrecognized modules has SubmittedCount 0; it is
		// neither passed nor failed and stays out of the tally, though its
		// items remain visible for drill-down.
		agg := &DayAggregate{
			DateKey:        key,
			SubmittedCount: len(present),
			MissingModules: missing,
			Items:          items,
			Passed:         len(missing) == 0 && len(present) > 0,
			Failed:         len(missing) > 0 && len(present) > 0,
		}
		if record, ok := complianceByDay[key]; ok {
			agg.Acknowledged = record.Acknowledged
			agg.Note = record.Note
		}

		if agg.Passed {
			summary.PassDays++
		} else if agg.Failed {
			summary.FailDays++
		}
		summary.Summaries = append(summary.Summaries, agg)
	}

	summary.PassRate = passRate(summary.PassDays, summary.FailDays)
	return summary
}

func passRate(passDays, failDays int) int {
	total := passDays + failDays
	if total == 0 {
		return 0
	}
	rate := decimal.NewFromInt(int64(passDays) * 100).
		Div(decimal.NewFromInt(int64(total))).
		Round(0)
	return int(rate.IntPart())
}

// BucketGroup is one archive bucket (month or quarter) with its day
// aggregates in input order.
type BucketGroup struct {
	Key  string          `json:"key"`
	Days []*DayAggregate `json:"days"`
}

// GroupByBucket rolls day aggregates up into buckets using MonthBucket or
// QuarterBucket. Bucket order is first-seen; intra-bucket day order is the
// input order (callers pre-sort). Callers pass the failed-day subset for
// archive reporting.
func GroupByBucket(aggregates []*DayAggregate, bucketFn func(string) string) []BucketGroup {
	index := map[string]int{}
	var groups []BucketGroup
	for _, agg := range aggregates {
		if agg == nil {
			continue
		}
		key := bucketFn(agg.DateKey)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, BucketGroup{Key: key})
		}
		groups[i].Days = append(groups[i].Days, agg)
	}
	return groups
}

// FailedDays filters a summary down to the failed subset, preserving order.
func FailedDays(aggregates []*DayAggregate) []*DayAggregate {
	out := make([]*DayAggregate, 0, len(aggregates))
	for _, agg := range aggregates {
		if agg != nil && agg.Failed {
			out = append(out, agg)
		}
	}
	return out
}
