package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"feed-aggregator/internal/domain/entity"
	"feed-aggregator/internal/observability/metrics"
	"feed-aggregator/internal/repository"
)

// ChangeObserver is notified after every successful registry mutation.
// The poller implements it to keep per-source schedules in line with the registry.
type ChangeObserver interface {
	SourceSaved(src *entity.Source)
	SourceDeleted(key string)
}

// Service is the source registry. It validates and normalizes input and delegates
// storage to the repository, which provides the linearizability guarantees.
// Mutations are serialized so that Observer sees changes in the order the
// repository applied them.
type Service struct {
	Repo     repository.SourceRepository
	Observer ChangeObserver
	Logger   *slog.Logger

	mu sync.Mutex
}

// GetAll returns a snapshot of every registered source in enumeration order.
func (s *Service) GetAll(ctx context.Context) ([]*entity.Source, error) {
	sources, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	out := make([]*entity.Source, 0, len(sources))
	for _, src := range sources {
		if src != nil && src.URI != nil {
			out = append(out, src)
		}
	}
	return out, nil
}

// Get looks up a source by URI text, ignoring case.
// Returns ErrSourceNotFound when no source matches.
func (s *Service) Get(ctx context.Context, uriText string) (*entity.Source, error) {
	src, err := s.Repo.Get(ctx, entity.NormalizeKey(uriText))
	if errors.Is(err, entity.ErrNotFound) {
		return nil, fmt.Errorf("get source %s: %w: %w", uriText, ErrSourceNotFound, entity.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	return src, nil
}

// AddOrUpdate registers src, replacing any entry whose URI matches ignoring case.
// It reports whether a new entry was created.
func (s *Service) AddOrUpdate(ctx context.Context, src *entity.Source) (bool, error) {
	if src == nil || src.URI == nil {
		return false, fmt.Errorf("add or update source: %w: %w", ErrNilSource, entity.ErrInvalidInput)
	}
	if err := entity.ValidateRefreshInterval(src.RefreshIntervalMinutes); err != nil {
		return false, fmt.Errorf("add or update source: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created, err := s.Repo.Upsert(ctx, src)
	if err != nil {
		return false, fmt.Errorf("add or update source: %w", err)
	}

	action := "updated"
	if created {
		action = "created"
	}
	metrics.RecordRegistryMutation(action)
	s.refreshSourcesGauge(ctx)
	s.logger().Info("source saved",
		slog.String("uri", src.URI.String()),
		slog.Int("refresh_interval_minutes", src.RefreshIntervalMinutes),
		slog.String("action", action))

	if s.Observer != nil {
		s.Observer.SourceSaved(src)
	}
	return created, nil
}

// Delete removes the source whose URI matches uriText ignoring case.
// uriText must be a valid absolute URL.
func (s *Service) Delete(ctx context.Context, uriText string) error {
	if uriText == "" {
		return fmt.Errorf("delete source: %w: %w", ErrNilSource, entity.ErrInvalidInput)
	}
	if _, err := entity.ValidateSourceURI(uriText); err != nil {
		return fmt.Errorf("delete source: %w: the provided url %s is invalid: %w", ErrInvalidSourceURL, uriText, err)
	}

	key := entity.NormalizeKey(uriText)

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.Repo.Delete(ctx, key)
	if errors.Is(err, entity.ErrNotFound) {
		return fmt.Errorf("error while deleting %s, it is not a known configuration: %w: %w",
			uriText, ErrSourceNotFound, entity.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete source: %w", err)
	}

	metrics.RecordRegistryMutation("deleted")
	s.refreshSourcesGauge(ctx)
	s.logger().Info("source deleted", slog.String("uri", uriText))

	if s.Observer != nil {
		s.Observer.SourceDeleted(key)
	}
	return nil
}

// refreshSourcesGauge is best effort; a failed count only leaves the gauge stale.
func (s *Service) refreshSourcesGauge(ctx context.Context) {
	sources, err := s.Repo.List(ctx)
	if err != nil {
		s.logger().Warn("count sources", slog.Any("error", err))
		return
	}
	metrics.UpdateSourcesTotal(len(sources))
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
