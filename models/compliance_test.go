package models

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestComplianceRepo(at time.Time) (*InMemoryComplianceRepository, *fakeClock) {
	clock := &fakeClock{t: at}
	repo := NewInMemoryComplianceRepository()
	repo.Clock = clock
	return repo, clock
}

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestComplianceGet_DefaultsWhenMissing(t *testing.T) {
	repo, _ := newTestComplianceRepo(time.Date(2025, 8, 17, 12, 0, 0, 0, time.UTC))

	record, err := repo.Get(context.Background(), "2025-08-17")

	require.NoError(t, err)
	assert.Equal(t, "2025-08-17", record.DateKey)
	assert.False(t, record.Acknowledged)
	assert.Equal(t, "", record.Note)
}

func TestComplianceUpsert_MergePatchPreservesUnsetFields(t *testing.T) {
	start := time.Date(2025, 8, 17, 12, 0, 0, 0, time.UTC)
	repo, clock := newTestComplianceRepo(start)
	ctx := context.Background()

	note := "reviewed"
	_, err := repo.Upsert(ctx, "2025-08-17", CompliancePatch{Note: &note})
	require.NoError(t, err)

	record, err := repo.Get(ctx, "2025-08-17")
	require.NoError(t, err)
	assert.False(t, record.Acknowledged, "acknowledged must survive a note-only patch")
	assert.Equal(t, "reviewed", record.Note)
	assert.Equal(t, start, record.LastUpdated)

	clock.advance(time.Hour)
	ack := true
	_, err = repo.Upsert(ctx, "2025-08-17", CompliancePatch{Acknowledged: &ack})
	require.NoError(t, err)

	record, _ = repo.Get(ctx, "2025-08-17")
	assert.True(t, record.Acknowledged)
	assert.Equal(t, "reviewed", record.Note, "note must survive an ack-only patch")
	assert.Equal(t, start.Add(time.Hour), record.LastUpdated)
}

func TestComplianceUpsert_EmptyPatchStillRefreshesLastUpdated(t *testing.T) {
	start := time.Date(2025, 8, 17, 12, 0, 0, 0, time.UTC)
	repo, clock := newTestComplianceRepo(start)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, "2025-08-17", CompliancePatch{})
	require.NoError(t, err)

	clock.advance(10 * time.Minute)
	record, err := repo.Upsert(ctx, "2025-08-17", CompliancePatch{})
	require.NoError(t, err)
	assert.Equal(t, start.Add(10*time.Minute), record.LastUpdated)
}

func TestToggleAcknowledged(t *testing.T) {
	repo, _ := newTestComplianceRepo(time.Date(2025, 8, 17, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	record, err := repo.ToggleAcknowledged(ctx, "2025-08-17")
	require.NoError(t, err)
	assert.True(t, record.Acknowledged)

	record, err = repo.ToggleAcknowledged(ctx, "2025-08-17")
	require.NoError(t, err)
	assert.False(t, record.Acknowledged)
}

func TestComplianceAll_KeyedByDate(t *testing.T) {
	repo, _ := newTestComplianceRepo(time.Date(2025, 8, 17, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	ack := true
	_, _ = repo.Upsert(ctx, "2025-08-16", CompliancePatch{Acknowledged: &ack})
	_, _ = repo.Upsert(ctx, "2025-08-17", CompliancePatch{})

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all["2025-08-16"].Acknowledged)
	assert.False(t, all["2025-08-17"].Acknowledged)
}
