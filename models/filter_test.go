package models

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c fakeClock) Now() time.Time { return c.t }

func mkSub(module ModuleName, engineer string, createdAt time.Time) *Submission {
	return &Submission{Module: module, Engineer: engineer, CreatedAt: createdAt}
}

func TestApplyFilter_ModuleAndEngineerAreANDed(t *testing.T) {
	day := time.Date(2025, 8, 17, 9, 0, 0, 0, time.UTC)
	subs := []*Submission{
		mkSub(ModuleVeeam, "jane", day),
		mkSub(ModuleVeeam, "bob", day),
		mkSub(ModuleVsan, "jane", day),
	}

	got := ApplyFilter(subs, FilterCriteria{Module: "veeam", Engineer: "jane"}, fakeClock{day})
	if len(got) != 1 || got[0].Engineer != "jane" || got[0].Module != ModuleVeeam {
		t.Fatalf("expected single jane/veeam row, got %v", got)
	}
}

func TestApplyFilter_AllMatchesEverything(t *testing.T) {
	day := time.Date(2025, 8, 17, 9, 0, 0, 0, time.UTC)
	subs := []*Submission{
		mkSub(ModuleVeeam, "jane", day),
		mkSub(ModuleVsan, "bob", day),
	}

	got := ApplyFilter(subs, FilterCriteria{Module: "all", Engineer: "all"}, fakeClock{day})
	if len(got) != 2 {
		t.Fatalf("expected 2, got %d", len(got))
	}
}

func TestApplyFilter_ExcludeModuleSuppressesModuleBound(t *testing.T) {
	day := time.Date(2025, 8, 17, 9, 0, 0, 0, time.UTC)
	subs := []*Submission{
		mkSub(ModuleVeeam, "jane", day),
		mkSub(ModuleVsan, "bob", day),
	}

	got := ApplyFilter(subs, FilterCriteria{Module: "veeam", ExcludeModule: true}, fakeClock{day})
	if len(got) != 2 {
		t.Fatalf("module tab must not hide other modules when suppressed, got %d", len(got))
	}
}

func TestApplyFilter_DateRangeInclusive(t *testing.T) {
	subs := []*Submission{
		mkSub(ModuleVeeam, "jane", time.Date(2025, 8, 15, 9, 0, 0, 0, time.UTC)),
		mkSub(ModuleVeeam, "jane", time.Date(2025, 8, 16, 9, 0, 0, 0, time.UTC)),
		mkSub(ModuleVeeam, "jane", time.Date(2025, 8, 17, 9, 0, 0, 0, time.UTC)),
	}

	got := ApplyFilter(subs, FilterCriteria{From: "2025-08-15", To: "2025-08-16"}, fakeClock{time.Now()})
	if len(got) != 2 {
		t.Fatalf("expected inclusive [from,to] to keep 2 rows, got %d", len(got))
	}

	openEnded := ApplyFilter(subs, FilterCriteria{From: "2025-08-16"}, fakeClock{time.Now()})
	if len(openEnded) != 2 {
		t.Fatalf("expected open-ended from to keep 2 rows, got %d", len(openEnded))
	}
}

func TestApplyFilter_QuickFilterWinsOverExplicitRange(t *testing.T) {
	today := time.Date(2025, 8, 17, 10, 0, 0, 0, time.UTC)
	subs := []*Submission{
		mkSub(ModuleVeeam, "jane", today),
		mkSub(ModuleVeeam, "jane", today.AddDate(0, 0, -3)),
	}

	criteria := FilterCriteria{From: "2025-01-01", To: "2025-12-31", QuickFilter: QuickFilterToday}
	got := ApplyFilter(subs, criteria, fakeClock{today})
	if len(got) != 1 || DayKey(got[0].CreatedAt) != "2025-08-17" {
		t.Fatalf("quick filter should restrict to today, got %d rows", len(got))
	}
}

func TestApplyFilter_TodayAlertsVariants(t *testing.T) {
	today := time.Date(2025, 8, 17, 10, 0, 0, 0, time.UTC)
	failed := false
	alerting := &Submission{Module: ModuleVeeam, Engineer: "jane", CreatedAt: today, Passed: &failed}
	clean := mkSub(ModuleVsan, "jane", today)
	subs := []*Submission{alerting, clean}

	withAlerts := ApplyFilter(subs, FilterCriteria{QuickFilter: QuickFilterTodayAlerts}, fakeClock{today})
	if len(withAlerts) != 1 || withAlerts[0] != alerting {
		t.Fatalf("todayAlerts should keep only alert-bearing rows")
	}

	withoutAlerts := ApplyFilter(subs, FilterCriteria{QuickFilter: QuickFilterTodayNoAlerts}, fakeClock{today})
	if len(withoutAlerts) != 1 || withoutAlerts[0] != clean {
		t.Fatalf("todayNoAlerts should keep only clean rows")
	}
}

func TestToggleQuickFilter_SecondToggleClears(t *testing.T) {
	c := FilterCriteria{From: "2025-08-01", To: "2025-08-31"}

	c.ToggleQuickFilter(QuickFilterToday)
	if c.QuickFilter != QuickFilterToday {
		t.Fatalf("first toggle should activate")
	}

	c.ToggleQuickFilter(QuickFilterToday)
	if c.QuickFilter != QuickFilterNone || c.From != "" || c.To != "" {
		t.Fatalf("second toggle should clear quick filter and date bounds, got %+v", c)
	}
}

func TestToggleQuickFilter_SwitchingReplaces(t *testing.T) {
	var c FilterCriteria
	c.ToggleQuickFilter(QuickFilterToday)
	c.ToggleQuickFilter(QuickFilterTodayAlerts)
	if c.QuickFilter != QuickFilterTodayAlerts {
		t.Fatalf("switching names should replace, got %s", c.QuickFilter)
	}
}

func TestApplyFilter_FreeTextCaseInsensitive(t *testing.T) {
	day := time.Date(2025, 8, 17, 9, 0, 0, 0, time.UTC)
	s := mkSub(ModuleVeeam, "Jane Doe", day)
	s.ClientNames = StringList{"Acme Ltd"}
	subs := []*Submission{s, mkSub(ModuleVsan, "bob", day)}

	got := ApplyFilter(subs, FilterCriteria{Query: "ACME"}, fakeClock{day})
	if len(got) != 1 || got[0] != s {
		t.Fatalf("expected free-text hit on client name")
	}

	blank := ApplyFilter(subs, FilterCriteria{Query: "   "}, fakeClock{day})
	if len(blank) != 2 {
		t.Fatalf("blank query must match everything, got %d", len(blank))
	}
}

func TestApplyFilter_DoesNotMutateOrReorder(t *testing.T) {
	day := time.Date(2025, 8, 17, 9, 0, 0, 0, time.UTC)
	first := mkSub(ModuleVeeam, "jane", day.Add(2*time.Hour))
	second := mkSub(ModuleVsan, "jane", day)
	subs := []*Submission{first, second}

	got := ApplyFilter(subs, FilterCriteria{}, fakeClock{day})
	if len(got) != 2 || got[0] != first || got[1] != second {
		t.Fatalf("input order must be preserved")
	}
	if subs[0] != first || subs[1] != second {
		t.Fatalf("input slice must not be mutated")
	}
}
