package reader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"feed-aggregator/internal/domain/entity"
	"feed-aggregator/internal/observability/metrics"
	"feed-aggregator/internal/observability/tracing"
	srcUC "feed-aggregator/internal/usecase/source"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// FeedFetcher retrieves and parses one feed document.
type FeedFetcher interface {
	Fetch(ctx context.Context, uri *url.URL) (*entity.Channel, error)
}

// Registry is the part of the source registry the reader depends on.
type Registry interface {
	GetAll(ctx context.Context) ([]*entity.Source, error)
	Get(ctx context.Context, uriText string) (*entity.Source, error)
}

// Service provides the read and search use cases.
type Service struct {
	Registry Registry
	Fetcher  FeedFetcher
	// Parallelism bounds concurrent fetches in ReadAll. Values below 2 read sources
	// strictly one after another.
	Parallelism int
	Logger      *slog.Logger
}

// ReadOne fetches the registered feed matching uri (ignoring case).
// The registered URI is fetched, not the one passed in.
func (s *Service) ReadOne(ctx context.Context, uri *url.URL) (ch *entity.Channel, err error) {
	if uri == nil {
		return nil, fmt.Errorf("%w: provided URL is nil", ErrInvalidArgument)
	}

	ctx, span := tracing.Start(ctx, "reader.ReadOne", attribute.String("feed.uri", uri.String()))
	defer func() {
		tracing.RecordError(span, err)
		span.End()
		metrics.RecordReaderOperation("read_one", err)
	}()

	src, err := s.Registry.Get(ctx, uri.String())
	if errors.Is(err, srcUC.ErrSourceNotFound) {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSource, uri, err)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", uri, err)
	}

	ch, err = s.Fetcher.Fetch(ctx, src.URI)
	switch {
	case err == nil:
		return ch, nil
	case errors.Is(err, ErrParseFailure):
		s.logger().Warn("feed unreadable", slog.String("uri", src.URI.String()), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableSource, src.URI, err)
	case ctx.Err() != nil:
		return nil, fmt.Errorf("read %s: %w", src.URI, ctx.Err())
	default:
		s.logger().Warn("feed fetch failed", slog.String("uri", src.URI.String()), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSource, src.URI, err)
	}
}

// ReadAll reads every registered source in registry order. A failure aborts the
// call and no partial results are returned. With Parallelism above 1 the error
// returned is still that of the earliest failing source in registry order: sources
// before it are always read to completion, sources after it are skipped or cancelled.
func (s *Service) ReadAll(ctx context.Context) (channels []*entity.Channel, err error) {
	ctx, span := tracing.Start(ctx, "reader.ReadAll")
	defer func() {
		tracing.RecordError(span, err)
		span.End()
		metrics.RecordReaderOperation("read_all", err)
	}()

	sources, err := s.Registry.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read all: %w", err)
	}
	if len(sources) == 0 {
		return nil, ErrNoSourcesConfigured
	}
	span.SetAttributes(attribute.Int("feed.sources", len(sources)))

	var (
		g       errgroup.Group
		mu      sync.Mutex
		first   = len(sources) // index of the earliest failure so far
		errs    = make([]error, len(sources))
		cancels = make([]context.CancelFunc, len(sources))
	)
	g.SetLimit(max(s.Parallelism, 1))
	channels = make([]*entity.Channel, len(sources))

	for i, src := range sources {
		readCtx, cancel := context.WithCancel(ctx)
		mu.Lock()
		cancels[i] = cancel
		skip := i > first
		mu.Unlock()
		if skip {
			cancel()
			continue
		}

		g.Go(func() error {
			defer cancel()
			mu.Lock()
			skip := i > first
			mu.Unlock()
			if skip {
				return nil
			}

			ch, err := s.ReadOne(readCtx, src.URI)

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				channels[i] = ch
				return nil
			}
			errs[i] = err
			if i < first {
				first = i
				for _, c := range cancels[i+1:] {
					if c != nil {
						c()
					}
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	if first < len(sources) {
		return nil, errs[first]
	}
	return channels, nil
}

// Search reads all sources and returns the items whose search value contains
// keyphrase, ignoring case, in channel then item order.
func (s *Service) Search(ctx context.Context, keyphrase string) (items []*entity.Item, err error) {
	if keyphrase == "" {
		return nil, fmt.Errorf("%w: search string cannot be empty", ErrInvalidArgument)
	}

	ctx, span := tracing.Start(ctx, "reader.Search", attribute.String("search.keyphrase", keyphrase))
	defer func() {
		tracing.RecordError(span, err)
		span.End()
		metrics.RecordReaderOperation("search", err)
	}()

	channels, err := s.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	all := lo.FlatMap(channels, func(ch *entity.Channel, _ int) []*entity.Item {
		return ch.Items
	})
	items = lo.Filter(all, func(it *entity.Item, _ int) bool {
		return it != nil && entity.Matches(it, keyphrase)
	})

	metrics.RecordSearchResults(len(items))
	s.logger().Debug("search completed",
		slog.String("keyphrase", keyphrase),
		slog.Int("channels", len(channels)),
		slog.Int("matches", len(items)))
	return items, nil
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
