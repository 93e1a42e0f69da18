package poll

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"runtime/debug"
	"slices"
	"strings"
	"sync"
	"time"

	"feed-aggregator/internal/domain/entity"

	"github.com/google/uuid"
)

// Reader reads one registered feed.
type Reader interface {
	ReadOne(ctx context.Context, uri *url.URL) (*entity.Channel, error)
}

// Registry lists the sources to schedule.
type Registry interface {
	GetAll(ctx context.Context) ([]*entity.Source, error)
}

// Outcome is the result of a single scheduled read.
type Outcome struct {
	RunID     string
	Source    *entity.Source
	Channel   *entity.Channel
	Err       error
	StartedAt time.Time
	Duration  time.Duration
}

// Option configures a Poller.
type Option func(*Poller)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Poller) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithIntervalUnit sets the length of one refresh interval unit. Defaults to a minute.
func WithIntervalUnit(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.unit = d
		}
	}
}

type handle struct {
	source *entity.Source
	cancel context.CancelFunc
	done   chan struct{}
}

// Poller schedules periodic reads of every registered source.
// It implements the registry's change observer so that sources added, updated or
// deleted while polling take effect without a restart.
type Poller struct {
	reader   Reader
	registry Registry
	sink     Sink
	logger   *slog.Logger
	unit     time.Duration

	mu      sync.Mutex
	running bool
	root    context.Context
	stop    context.CancelFunc
	wg      *sync.WaitGroup
	handles map[string]*handle
}

// New returns a stopped Poller. A nil sink discards outcomes.
func New(reader Reader, registry Registry, sink Sink, opts ...Option) *Poller {
	if sink == nil {
		sink = SinkFunc(func(context.Context, Outcome) {})
	}
	p := &Poller{
		reader:   reader,
		registry: registry,
		sink:     sink,
		logger:   slog.Default(),
		unit:     time.Minute,
		handles:  make(map[string]*handle),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start schedules every registered source. The first read of each source happens
// immediately. Polling continues until Stop, independent of ctx.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return ErrAlreadyRunning
	}
	sources, err := p.registry.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("start polling: %w", err)
	}

	p.root, p.stop = context.WithCancel(context.WithoutCancel(ctx))
	p.wg = &sync.WaitGroup{}
	p.running = true
	for _, src := range sources {
		p.arm(src, nil)
	}
	p.logger.Info("polling started", slog.Int("sources", len(sources)))
	return nil
}

// Stop cancels every schedule and waits for in-flight reads to finish or for ctx to
// end, whichever comes first. Stopping a stopped poller is a no-op.
func (p *Poller) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	p.stop()
	p.handles = make(map[string]*handle)
	wg := p.wg
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("polling stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stop polling: %w", ctx.Err())
	}
}

// Running reports whether Start has been called without a matching Stop.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Scheduled returns the currently scheduled sources ordered by key.
func (p *Poller) Scheduled() []*entity.Source {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]*entity.Source, 0, len(p.handles))
	for _, h := range p.handles {
		out = append(out, h.source)
	}
	slices.SortFunc(out, func(a, b *entity.Source) int {
		return strings.Compare(a.Key(), b.Key())
	})
	return out
}

// SourceSaved schedules a new source or re-arms one whose URI or interval changed.
// The replacement schedule starts once the previous in-flight read, if any, has ended.
func (p *Poller) SourceSaved(src *entity.Source) {
	if src == nil || src.URI == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		p.saveLocked(src)
	}
}

// SourceDeleted cancels the schedule for key. A read already in flight completes
// and is not re-armed.
func (p *Poller) SourceDeleted(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		p.dropLocked(key)
	}
}

// Reconcile brings the schedules in line with the registry. It is used when the
// registry can be changed by another process.
func (p *Poller) Reconcile(ctx context.Context) error {
	if !p.Running() {
		return nil
	}
	sources, err := p.registry.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("reconcile polling: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return nil
	}

	want := make(map[string]struct{}, len(sources))
	for _, src := range sources {
		want[src.Key()] = struct{}{}
		p.saveLocked(src)
	}
	for key := range p.handles {
		if _, ok := want[key]; !ok {
			p.dropLocked(key)
		}
	}
	return nil
}

func (p *Poller) saveLocked(src *entity.Source) {
	key := src.Key()
	prev, ok := p.handles[key]
	if !ok {
		p.arm(src, nil)
		return
	}
	if prev.source.RefreshIntervalMinutes == src.RefreshIntervalMinutes &&
		prev.source.URI.String() == src.URI.String() {
		return
	}
	prev.cancel()
	p.arm(src, prev.done)
	p.logger.Info("source re-armed",
		slog.String("uri", src.URI.String()),
		slog.Int("refresh_interval_minutes", src.RefreshIntervalMinutes))
}

func (p *Poller) dropLocked(key string) {
	h, ok := p.handles[key]
	if !ok {
		return
	}
	h.cancel()
	delete(p.handles, key)
	p.logger.Info("source unscheduled", slog.String("uri", h.source.URI.String()))
}

// arm must be called with p.mu held.
func (p *Poller) arm(src *entity.Source, after <-chan struct{}) {
	ctx, cancel := context.WithCancel(p.root)
	h := &handle{source: src, cancel: cancel, done: make(chan struct{})}
	p.handles[src.Key()] = h

	wg := p.wg
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(h.done)
		p.loop(ctx, h, after)
	}()
}

func (p *Poller) loop(ctx context.Context, h *handle, after <-chan struct{}) {
	if after != nil {
		select {
		case <-after:
		case <-ctx.Done():
			return
		}
	}

	interval := time.Duration(h.source.RefreshIntervalMinutes) * p.unit
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		p.run(ctx, h.source)
		timer.Reset(interval)
	}
}

// run reads src once and reports the outcome. The read is not cancelled by Stop or
// SourceDeleted.
func (p *Poller) run(ctx context.Context, src *entity.Source) {
	ctx = context.WithoutCancel(ctx)
	out := Outcome{
		RunID:     uuid.NewString(),
		Source:    src,
		StartedAt: time.Now(),
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				out.Channel = nil
				out.Err = fmt.Errorf("%w: %v", ErrRunPanicked, r)
				p.logger.Error("poll run panicked",
					slog.String("run_id", out.RunID),
					slog.String("uri", src.URI.String()),
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())))
			}
		}()
		out.Channel, out.Err = p.reader.ReadOne(ctx, src.URI)
	}()

	out.Duration = time.Since(out.StartedAt)
	p.sink.Record(ctx, out)
}
