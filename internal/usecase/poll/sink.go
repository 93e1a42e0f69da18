package poll

import (
	"context"
	"log/slog"
)

// Sink receives the outcome of every poll run. Record is called from the source's
// own goroutine and must be safe for concurrent use.
type Sink interface {
	Record(ctx context.Context, o Outcome)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, o Outcome)

// Record calls f.
func (f SinkFunc) Record(ctx context.Context, o Outcome) { f(ctx, o) }

// MultiSink fans an outcome out to every sink in order.
type MultiSink []Sink

// Record implements Sink.
func (m MultiSink) Record(ctx context.Context, o Outcome) {
	for _, s := range m {
		if s != nil {
			s.Record(ctx, o)
		}
	}
}

// LogSink logs successful runs at info and failed runs at warn.
type LogSink struct {
	Logger *slog.Logger
}

// Record implements Sink.
func (s LogSink) Record(ctx context.Context, o Outcome) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []slog.Attr{
		slog.String("run_id", o.RunID),
		slog.String("uri", o.Source.URI.String()),
		slog.Duration("duration", o.Duration),
	}
	if o.Err != nil {
		attrs = append(attrs, slog.Any("error", o.Err))
		logger.LogAttrs(ctx, slog.LevelWarn, "poll run failed", attrs...)
		return
	}
	items := 0
	title := ""
	if o.Channel != nil {
		items = len(o.Channel.Items)
		title = o.Channel.Title
	}
	attrs = append(attrs, slog.String("title", title), slog.Int("items", items))
	logger.LogAttrs(ctx, slog.LevelInfo, "poll run succeeded", attrs...)
}
