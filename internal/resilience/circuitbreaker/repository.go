package circuitbreaker

import (
	"context"
	"errors"
	"time"

	"feed-aggregator/internal/domain/entity"
	"feed-aggregator/internal/repository"
)

// DBConfig returns configuration for the registry database.
// Opens after 5 consecutive failures, 30 second timeout.
func DBConfig() Config {
	return Config{
		Name:             "database",
		MaxRequests:      3, // Allow 3 test requests in half-open state
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 1.0, // Open on 100% failure (5+ consecutive failures)
		MinRequests:      5,
		IsSuccessful:     isExpectedRepoError,
	}
}

// isExpectedRepoError keeps lookups of unknown keys and cancelled requests from
// counting against the database.
func isExpectedRepoError(err error) bool {
	return err == nil ||
		errors.Is(err, entity.ErrNotFound) ||
		errors.Is(err, context.Canceled)
}

// SourceRepository decorates a repository.SourceRepository with circuit breaker
// protection. While the circuit is open every call fails with gobreaker.ErrOpenState
// without reaching the database.
type SourceRepository struct {
	cb   *CircuitBreaker
	next repository.SourceRepository
}

// NewSourceRepository wraps next using cfg.
func NewSourceRepository(next repository.SourceRepository, cfg Config) *SourceRepository {
	return &SourceRepository{cb: New(cfg), next: next}
}

// List implements repository.SourceRepository.
func (r *SourceRepository) List(ctx context.Context) ([]*entity.Source, error) {
	res, err := r.cb.Execute(func() (interface{}, error) {
		return r.next.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return res.([]*entity.Source), nil
}

// Get implements repository.SourceRepository.
func (r *SourceRepository) Get(ctx context.Context, key string) (*entity.Source, error) {
	res, err := r.cb.Execute(func() (interface{}, error) {
		return r.next.Get(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	return res.(*entity.Source), nil
}

// Upsert implements repository.SourceRepository.
func (r *SourceRepository) Upsert(ctx context.Context, src *entity.Source) (bool, error) {
	res, err := r.cb.Execute(func() (interface{}, error) {
		return r.next.Upsert(ctx, src)
	})
	if err != nil {
		return false, err
	}
	return res.(bool), nil
}

// Delete implements repository.SourceRepository.
func (r *SourceRepository) Delete(ctx context.Context, key string) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.next.Delete(ctx, key)
	})
	return err
}

// IsOpen returns true if the circuit breaker is in the open state.
func (r *SourceRepository) IsOpen() bool {
	return r.cb.IsOpen()
}
