// Package repository declares the storage contracts used by the use case layer.
package repository

import (
	"context"

	"feed-aggregator/internal/domain/entity"
)

// SourceRepository is the backing store of the source registry.
// Keys are normalized URIs (entity.NormalizeKey). Implementations must be linearizable:
// a List or Get observes either the state before or after any concurrent Upsert or Delete.
type SourceRepository interface {
	// List returns all sources in enumeration (insertion) order.
	List(ctx context.Context) ([]*entity.Source, error)
	// Get returns entity.ErrNotFound when no source has the given key.
	Get(ctx context.Context, key string) (*entity.Source, error)
	// Upsert replaces the source with the same key or appends a new one.
	Upsert(ctx context.Context, source *entity.Source) (created bool, err error)
	// Delete returns entity.ErrNotFound when no source has the given key.
	Delete(ctx context.Context, key string) error
}
