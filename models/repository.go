package models

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"
)

// SubmissionRepository supplies the raw submission stream the aggregation
// core runs over. The core only ever reads; creation happens at form
// submission time.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *Submission) error
	// List returns all submissions, most recent first.
	List(ctx context.Context) ([]*Submission, error)
	// ListBetween returns submissions with CreatedAt in [from, to].
	ListBetween(ctx context.Context, from, to time.Time) ([]*Submission, error)
}

type GormSubmissionRepository struct {
	DB *gorm.DB
}

func NewGormSubmissionRepository(db *gorm.DB) *GormSubmissionRepository {
	return &GormSubmissionRepository{DB: db}
}

func (r *GormSubmissionRepository) Create(ctx context.Context, submission *Submission) error {
	return r.DB.WithContext(ctx).Create(submission).Error
}

func (r *GormSubmissionRepository) List(ctx context.Context) ([]*Submission, error) {
	var results []*Submission
	err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&results).Error
	return results, err
}

func (r *GormSubmissionRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*Submission, error) {
	var results []*Submission
	err := r.DB.WithContext(ctx).
		Where("created_at BETWEEN ? AND ?", from, to).
		Order("created_at DESC").
		Find(&results).Error
	return results, err
}

// InMemorySubmissionRepository backs the DB-free tests.
type InMemorySubmissionRepository struct {
	mu   sync.Mutex
	subs []*Submission
}

func NewInMemorySubmissionRepository(subs ...*Submission) *InMemorySubmissionRepository {
	return &InMemorySubmissionRepository{subs: subs}
}

func (r *InMemorySubmissionRepository) Create(ctx context.Context, submission *Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, submission)
	return nil
}

func (r *InMemorySubmissionRepository) List(ctx context.Context) ([]*Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Submission, len(r.subs))
	copy(out, r.subs)
	return out, nil
}

func (r *InMemorySubmissionRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Submission
	for _, s := range r.subs {
		if s.CreatedAt.Before(from) || s.CreatedAt.After(to) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}
