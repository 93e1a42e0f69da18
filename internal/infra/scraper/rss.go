package scraper

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"feed-aggregator/internal/domain/entity"
	"feed-aggregator/internal/observability/metrics"
	"feed-aggregator/internal/resilience/circuitbreaker"
	"feed-aggregator/internal/usecase/reader"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"
	"golang.org/x/net/html/charset"
)

// rssDocument is the <rss> root. Channel stays nil when the document has none.
type rssDocument struct {
	XMLName xml.Name        `xml:"rss"`
	Channel *entity.Channel `xml:"channel"`
}

// RSSFetcher implements reader.FeedFetcher.
// Transport failures go through a per-host circuit breaker; parse failures do not
// count against the host.
type RSSFetcher struct {
	cfg      Config
	opener   Opener
	breakers *circuitbreaker.Set
	logger   *slog.Logger
}

// Option configures an RSSFetcher.
type Option func(*RSSFetcher)

// WithOpener replaces the default scheme opener.
func WithOpener(o Opener) Option {
	return func(f *RSSFetcher) { f.opener = o }
}

// WithBreakers replaces the default per-host circuit breakers.
func WithBreakers(s *circuitbreaker.Set) Option {
	return func(f *RSSFetcher) { f.breakers = s }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *RSSFetcher) { f.logger = l }
}

// NewRSSFetcher creates a fetcher for cfg.
func NewRSSFetcher(cfg Config, opts ...Option) *RSSFetcher {
	f := &RSSFetcher{cfg: cfg, logger: slog.Default()}
	for _, opt := range opts {
		opt(f)
	}
	if f.opener == nil {
		f.opener = NewOpener(cfg)
	}
	if f.breakers == nil {
		cb := circuitbreaker.FeedFetchConfig()
		cb.IsSuccessful = func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		}
		f.breakers = circuitbreaker.NewSet(cb)
	}
	return f
}

// Fetch opens uri, reads it and parses it into a channel.
// Errors wrap reader.ErrFetchFailure or reader.ErrParseFailure.
func (f *RSSFetcher) Fetch(ctx context.Context, uri *url.URL) (*entity.Channel, error) {
	if uri == nil {
		return nil, fmt.Errorf("%w: nil URI", reader.ErrFetchFailure)
	}
	host := hostLabel(uri)
	start := time.Now()

	body, err := f.read(ctx, uri, host)
	if err != nil {
		metrics.RecordFeedFetchError(host, metrics.KindFetch)
		if errors.Is(err, gobreaker.ErrOpenState) {
			f.logger.Warn("feed fetch circuit breaker open, request rejected",
				slog.String("host", host),
				slog.String("uri", uri.String()))
		}
		return nil, fmt.Errorf("%w: %s: %w", reader.ErrFetchFailure, uri, err)
	}

	ch, err := f.parse(body)
	if err != nil {
		metrics.RecordFeedFetchError(host, metrics.KindParse)
		return nil, fmt.Errorf("%w: %s: %w", reader.ErrParseFailure, uri, err)
	}

	metrics.RecordFeedFetch(host, time.Since(start), len(ch.Items))
	f.logger.Debug("feed fetched",
		slog.String("uri", uri.String()),
		slog.Int("items", len(ch.Items)),
		slog.Int("bytes", len(body)),
		slog.Duration("duration", time.Since(start)))
	return ch, nil
}

// read returns the whole document. The resource is closed before it returns.
func (f *RSSFetcher) read(ctx context.Context, uri *url.URL, host string) ([]byte, error) {
	res, err := f.breakers.Execute(host, func() (interface{}, error) {
		rc, err := f.opener.Open(ctx, uri)
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()

		data, err := io.ReadAll(io.LimitReader(rc, f.cfg.MaxBodySize+1))
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		if int64(len(data)) > f.cfg.MaxBodySize {
			return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, f.cfg.MaxBodySize)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]byte), nil
}

func (f *RSSFetcher) parse(data []byte) (*entity.Channel, error) {
	switch typ := gofeed.DetectFeedType(bytes.NewReader(data)); typ {
	case gofeed.FeedTypeAtom, gofeed.FeedTypeJSON:
		if !f.cfg.AcceptNonRSS {
			return nil, fmt.Errorf("%w: detected %s feed", ErrNotRSS, feedTypeName(typ))
		}
		feed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse %s feed: %w", feedTypeName(typ), err)
		}
		return translateFeed(feed), nil
	default:
		// unknown documents go through the XML decoder too, which reports what is wrong
		return decodeRSS(data)
	}
}

func decodeRSS(data []byte) (*entity.Channel, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	dec.Entity = xml.HTMLEntity

	var doc rssDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode rss: %w", err)
	}
	if doc.Channel == nil {
		return nil, ErrMissingChannel
	}
	return doc.Channel, nil
}

func hostLabel(uri *url.URL) string {
	if h := uri.Hostname(); h != "" {
		return h
	}
	return uri.Scheme
}

func feedTypeName(t gofeed.FeedType) string {
	switch t {
	case gofeed.FeedTypeAtom:
		return "atom"
	case gofeed.FeedTypeJSON:
		return "json"
	case gofeed.FeedTypeRSS:
		return "rss"
	default:
		return "unknown"
	}
}
