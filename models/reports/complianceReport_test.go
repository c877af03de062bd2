package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/jxmls/pano-daily-checks-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func sub(module models.ModuleName, day time.Time) *models.Submission {
	return &models.Submission{Module: module, Engineer: "jane", CreatedAt: day}
}

func fullDay(day time.Time) []*models.Submission {
	return []*models.Submission{
		sub(models.ModuleVeeam, day),
		sub(models.ModuleVsan, day.Add(time.Hour)),
		sub(models.ModuleSolarwinds, day.Add(2*time.Hour)),
		sub(models.ModuleCheckpoint, day.Add(3*time.Hour)),
	}
}

func TestDailyComplianceReport_JudgesAcrossModuleTabs(t *testing.T) {
	day := time.Date(2025, 8, 17, 9, 0, 0, 0, time.UTC)
	repo := models.NewInMemorySubmissionRepository(fullDay(day)...)
	compliance := models.NewInMemoryComplianceRepository()

	// A module tab filter is set, but completeness must still see all modules.
	criteria := models.FilterCriteria{Module: "veeam"}
	summary, err := DailyComplianceReport(context.Background(), repo, compliance, criteria, fixedClock{day})

	require.NoError(t, err)
	require.Len(t, summary.Summaries, 1)
	assert.True(t, summary.Summaries[0].Passed)
	assert.Equal(t, 100, summary.PassRate)
}

func TestDailyComplianceReport_MergesAckState(t *testing.T) {
	day := time.Date(2025, 8, 17, 9, 0, 0, 0, time.UTC)
	repo := models.NewInMemorySubmissionRepository(sub(models.ModuleVeeam, day))
	compliance := models.NewInMemoryComplianceRepository()
	note := "chased checkpoint team"
	_, err := compliance.Upsert(context.Background(), "2025-08-17", models.CompliancePatch{Note: &note})
	require.NoError(t, err)

	summary, err := DailyComplianceReport(context.Background(), repo, compliance, models.FilterCriteria{}, fixedClock{day})

	require.NoError(t, err)
	require.Len(t, summary.Summaries, 1)
	assert.Equal(t, note, summary.Summaries[0].Note)
	assert.True(t, summary.Summaries[0].Failed)
}

func TestArchiveReport_BucketsOnlyFailedDays(t *testing.T) {
	aug := time.Date(2025, 8, 17, 9, 0, 0, 0, time.UTC)
	jul := time.Date(2025, 7, 2, 9, 0, 0, 0, time.UTC)

	var subs []*models.Submission
	subs = append(subs, fullDay(aug)...)              // passes
	subs = append(subs, sub(models.ModuleVeeam, jul)) // fails
	repo := models.NewInMemorySubmissionRepository(subs...)
	compliance := models.NewInMemoryComplianceRepository()

	buckets, err := ArchiveReport(context.Background(), repo, compliance, models.FilterCriteria{}, ArchiveMonthly, fixedClock{aug})

	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, "2025-07", buckets[0].Key)
	require.Len(t, buckets[0].Days, 1)
	assert.Equal(t, "2025-07-02", buckets[0].Days[0].DateKey)
}

func TestArchiveReport_QuarterGranularity(t *testing.T) {
	feb := time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC)
	repo := models.NewInMemorySubmissionRepository(sub(models.ModuleVsan, feb))
	compliance := models.NewInMemoryComplianceRepository()

	buckets, err := ArchiveReport(context.Background(), repo, compliance, models.FilterCriteria{}, ArchiveQuarterly, fixedClock{feb})

	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, "2025-Q1", buckets[0].Key)
}

func TestExportCSV_ColumnContract(t *testing.T) {
	summary := &models.ComplianceSummary{
		Summaries: []*models.DayAggregate{
			{
				DateKey:        "2025-08-17",
				SubmittedCount: 2,
				MissingModules: []models.ModuleName{models.ModuleSolarwinds, models.ModuleCheckpoint},
				Acknowledged:   true,
				Note:           "chased teams",
				Failed:         true,
			},
			{
				DateKey:        "2025-08-16",
				SubmittedCount: 4,
				Passed:         true,
			},
		},
		PassDays: 1,
		FailDays: 1,
		PassRate: 50,
	}

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, summary))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Date", "Submitted", "Missing Modules", "Acknowledged", "Note"}, rows[0])
	assert.Equal(t, []string{"2025-08-17", "2", "solarwinds; checkpoint", "yes", "chased teams"}, rows[1])
	assert.Equal(t, []string{"2025-08-16", "4", "", "no", ""}, rows[2])
}

func TestExportExcel_WritesWorkbook(t *testing.T) {
	summary := &models.ComplianceSummary{
		Summaries: []*models.DayAggregate{
			{DateKey: "2025-08-17", SubmittedCount: 3, MissingModules: []models.ModuleName{models.ModuleCheckpoint}, Failed: true},
		},
		FailDays: 1,
	}

	var buf bytes.Buffer
	require.NoError(t, ExportExcel(&buf, summary))
	// xlsx files are zip archives
	assert.Equal(t, []byte{'P', 'K'}, buf.Bytes()[:2])
}
