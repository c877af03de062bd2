package models

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ComplianceRecord is the per-day acknowledgement/note side state. At most
// one row exists per date key; submissions themselves are never touched.
type ComplianceRecord struct {
	ID           int       `gorm:"primary_key" json:"id"`
	DateKey      string    `gorm:"size:10;not null;uniqueIndex" json:"date_key"`
	Acknowledged bool      `gorm:"not null;default:false" json:"acknowledged"`
	Note         string    `gorm:"type:text" json:"note"`
	LastUpdated  time.Time `gorm:"not null" json:"last_updated"`
}

// DefaultComplianceRecord is what a day without stored state looks like.
func DefaultComplianceRecord(dayKey string) ComplianceRecord {
	return ComplianceRecord{DateKey: dayKey}
}

// CompliancePatch is a merge-patch: nil fields are left untouched.
// LastUpdated is refreshed on every upsert, even a no-op patch.
type CompliancePatch struct {
	Acknowledged *bool   `json:"acknowledged"`
	Note         *string `json:"note"`
}

type ComplianceRepository interface {
	// Get returns the record for the day, or defaults when none is stored.
	// A missing record is not an error.
	Get(ctx context.Context, dayKey string) (ComplianceRecord, error)
	// Upsert merge-patches the record for the day, creating it on first use.
	Upsert(ctx context.Context, dayKey string, patch CompliancePatch) (ComplianceRecord, error)
	// ToggleAcknowledged flips the acknowledged flag.
	ToggleAcknowledged(ctx context.Context, dayKey string) (ComplianceRecord, error)
	// All returns every stored record keyed by date key.
	All(ctx context.Context) (map[string]ComplianceRecord, error)
}

func applyCompliancePatch(record *ComplianceRecord, patch CompliancePatch, now time.Time) {
	if patch.Acknowledged != nil {
		record.Acknowledged = *patch.Acknowledged
	}
	if patch.Note != nil {
		record.Note = *patch.Note
	}
	record.LastUpdated = now
}

// GormComplianceRepository persists compliance records through gorm.
type GormComplianceRepository struct {
	DB    *gorm.DB
	Clock Clock
}

func NewGormComplianceRepository(db *gorm.DB) *GormComplianceRepository {
	return &GormComplianceRepository{DB: db, Clock: SystemClock}
}

func (r *GormComplianceRepository) now() time.Time {
	if r.Clock != nil {
		return r.Clock.Now()
	}
	return time.Now()
}

func (r *GormComplianceRepository) Get(ctx context.Context, dayKey string) (ComplianceRecord, error) {
	var record ComplianceRecord
	err := r.DB.WithContext(ctx).Where("date_key = ?", dayKey).Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DefaultComplianceRecord(dayKey), nil
		}
		return DefaultComplianceRecord(dayKey), err
	}
	return record, nil
}

func (r *GormComplianceRepository) Upsert(ctx context.Context, dayKey string, patch CompliancePatch) (ComplianceRecord, error) {
	var record ComplianceRecord
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("date_key = ?", dayKey).Take(&record).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			record = DefaultComplianceRecord(dayKey)
		}
		applyCompliancePatch(&record, patch, r.now())
		return tx.Save(&record).Error
	})
	return record, err
}

func (r *GormComplianceRepository) ToggleAcknowledged(ctx context.Context, dayKey string) (ComplianceRecord, error) {
	current, err := r.Get(ctx, dayKey)
	if err != nil {
		return current, err
	}
	next := !current.Acknowledged
	return r.Upsert(ctx, dayKey, CompliancePatch{Acknowledged: &next})
}

func (r *GormComplianceRepository) All(ctx context.Context) (map[string]ComplianceRecord, error) {
	var records []ComplianceRecord
	if err := r.DB.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, err
	}
	out := make(map[string]ComplianceRecord, len(records))
	for _, rec := range records {
		out[rec.DateKey] = rec
	}
	return out, nil
}

// InMemoryComplianceRepository backs tests and cache-only deployments.
type InMemoryComplianceRepository struct {
	Clock Clock

	mu      sync.Mutex
	records map[string]ComplianceRecord
}

func NewInMemoryComplianceRepository() *InMemoryComplianceRepository {
	return &InMemoryComplianceRepository{Clock: SystemClock, records: map[string]ComplianceRecord{}}
}

func (r *InMemoryComplianceRepository) now() time.Time {
	if r.Clock != nil {
		return r.Clock.Now()
	}
	return time.Now()
}

func (r *InMemoryComplianceRepository) Get(ctx context.Context, dayKey string) (ComplianceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record, ok := r.records[dayKey]; ok {
		return record, nil
	}
	return DefaultComplianceRecord(dayKey), nil
}

func (r *InMemoryComplianceRepository) Upsert(ctx context.Context, dayKey string, patch CompliancePatch) (ComplianceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[dayKey]
	if !ok {
		record = DefaultComplianceRecord(dayKey)
	}
	applyCompliancePatch(&record, patch, r.now())
	r.records[dayKey] = record
	return record, nil
}

func (r *InMemoryComplianceRepository) ToggleAcknowledged(ctx context.Context, dayKey string) (ComplianceRecord, error) {
	current, err := r.Get(ctx, dayKey)
	if err != nil {
		return current, err
	}
	next := !current.Acknowledged
	return r.Upsert(ctx, dayKey, CompliancePatch{Acknowledged: &next})
}

func (r *InMemoryComplianceRepository) All(ctx context.Context) (map[string]ComplianceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]ComplianceRecord, len(r.records))
	for k, v := range r.records {
		out[k] = v
	}
	return out, nil
}
