// Package memory provides an in-process implementation of the source repository.
package memory

import (
	"context"
	"slices"
	"sync"

	"feed-aggregator/internal/domain/entity"
	"feed-aggregator/internal/repository"
)

// SourceRepo keeps sources in a slice that is replaced, never modified, on every write.
// Readers take a snapshot under the read lock; writers are serialized by the write lock.
type SourceRepo struct {
	mu      sync.RWMutex
	sources []*entity.Source
}

// NewSourceRepo returns an empty repository.
func NewSourceRepo() repository.SourceRepository {
	return &SourceRepo{}
}

func (repo *SourceRepo) List(_ context.Context) ([]*entity.Source, error) {
	repo.mu.RLock()
	snapshot := repo.sources
	repo.mu.RUnlock()

	out := make([]*entity.Source, 0, len(snapshot))
	for _, src := range snapshot {
		if src != nil {
			out = append(out, src)
		}
	}
	return out, nil
}

func (repo *SourceRepo) Get(_ context.Context, key string) (*entity.Source, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if i := repo.indexOf(key); i >= 0 {
		return repo.sources[i], nil
	}
	return nil, entity.ErrNotFound
}

func (repo *SourceRepo) Upsert(_ context.Context, source *entity.Source) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	next := slices.Clone(repo.sources)
	if i := repo.indexOf(source.Key()); i >= 0 {
		next[i] = source
		repo.sources = next
		return false, nil
	}
	repo.sources = append(next, source)
	return true, nil
}

func (repo *SourceRepo) Delete(_ context.Context, key string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	next := slices.DeleteFunc(slices.Clone(repo.sources), func(src *entity.Source) bool {
		return src != nil && src.Key() == key
	})
	if len(next) == len(repo.sources) {
		return entity.ErrNotFound
	}
	repo.sources = next
	return nil
}

// indexOf must be called with mu held.
func (repo *SourceRepo) indexOf(key string) int {
	return slices.IndexFunc(repo.sources, func(src *entity.Source) bool {
		return src != nil && src.Key() == key
	})
}
