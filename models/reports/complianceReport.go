package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jxmls/pano-daily-checks-sub000/models"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("pano-daily-checks")

// DailyComplianceReport runs the full aggregation pass for the admin portal:
// fetch submissions, apply the (module-suppressed) filter, group by day and
// merge acknowledgement state. The report is recomputed per request; a short
// redis cache can absorb dashboard refresh storms.
func DailyComplianceReport(
	ctx context.Context,
	subsRepo models.SubmissionRepository,
	complianceRepo models.ComplianceRepository,
	criteria models.FilterCriteria,
	clock models.Clock,
) (*models.ComplianceSummary, error) {

	ctx, span := tracer.Start(ctx, "report.daily_compliance")
	defer span.End()

	started := time.Now()
	defer logSlowReport(ctx, "daily_compliance", started, nil)

	cacheKey := complianceCacheKey(criteria)
	if reportCacheEnabled() {
		var cached models.ComplianceSummary
		if hit, err := cacheGet(cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	subs, err := fetchSubmissions(ctx, subsRepo, criteria)
	if err != nil {
		return nil, err
	}

	// Day completeness must be judged across all modules even when the UI is
	// on a single module's tab.
	criteria.ExcludeModule = true
	filtered := models.ApplyFilter(subs, criteria, clock)

	complianceByDay, err := complianceRepo.All(ctx)
	if err != nil {
		return nil, err
	}

	summary := models.AggregateDays(filtered, complianceByDay)

	if reportCacheEnabled() {
		_ = cacheSet(cacheKey, summary, reportCacheTTL())
	}
	return &summary, nil
}

// fetchSubmissions narrows the read at the repository when an explicit date
// range is set. ApplyFilter still enforces the exact day-key bounds.
func fetchSubmissions(ctx context.Context, repo models.SubmissionRepository, criteria models.FilterCriteria) ([]*models.Submission, error) {
	if criteria.QuickFilter == models.QuickFilterNone && criteria.From != "" && criteria.To != "" {
		from, fromErr := time.ParseInLocation("2006-01-02", criteria.From, time.Local)
		to, toErr := time.ParseInLocation("2006-01-02", criteria.To, time.Local)
		if fromErr == nil && toErr == nil {
			return repo.ListBetween(ctx, models.StartOfDay(from), models.EndOfDay(to))
		}
	}
	return repo.List(ctx)
}

func complianceCacheKey(criteria models.FilterCriteria) string {
	return fmt.Sprintf("Report:Compliance:%s:%s:%s:%s:%s",
		criteria.Engineer, criteria.From, criteria.To, criteria.QuickFilter, criteria.Query)
}

// ArchiveGranularity selects the roll-up bucket size.
type ArchiveGranularity string

const (
	ArchiveMonthly   ArchiveGranularity = "month"
	ArchiveQuarterly ArchiveGranularity = "quarter"
)

// ArchiveReport buckets the failed days of a compliance pass by month or
// quarter for the archival views. Passed days never appear in archives.
func ArchiveReport(
	ctx context.Context,
	subsRepo models.SubmissionRepository,
	complianceRepo models.ComplianceRepository,
	criteria models.FilterCriteria,
	granularity ArchiveGranularity,
	clock models.Clock,
) ([]models.BucketGroup, error) {

	summary, err := DailyComplianceReport(ctx, subsRepo, complianceRepo, criteria, clock)
	if err != nil {
		return nil, err
	}

	bucketFn := models.MonthBucket
	if granularity == ArchiveQuarterly {
		bucketFn = models.QuarterBucket
	}

	return models.GroupByBucket(models.FailedDays(summary.Summaries), bucketFn), nil
}
