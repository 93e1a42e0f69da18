// Command feedctl reads and searches feeds from a sources file without running the API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	fileconfig "feed-aggregator/internal/config"
	"feed-aggregator/internal/domain/entity"
	"feed-aggregator/internal/infra/adapter/persistence/memory"
	"feed-aggregator/internal/infra/scraper"
	"feed-aggregator/internal/observability/logging"
	"feed-aggregator/internal/usecase/reader"
	srcUC "feed-aggregator/internal/usecase/source"
)

type globals struct {
	SourcesFile string        `name:"sources-file" short:"f" type:"existingfile" required:"" env:"SOURCES_FILE" help:"YAML file listing the sources."`
	Timeout     time.Duration `default:"30s" help:"Overall deadline for the command."`
	Parallelism int           `default:"1" help:"Concurrent fetches when reading every source."`
	JSON        bool          `help:"Print JSON instead of text."`
	Verbose     bool          `short:"v" help:"Log fetch activity to stderr."`
}

type cli struct {
	globals `embed:""`

	Sources sourcesCmd `cmd:"" help:"List the configured sources."`
	Read    readCmd    `cmd:"" help:"Read one source, or every source when no URL is given."`
	Search  searchCmd  `cmd:"" help:"Search the items of every source for a phrase."`
}

// app is what every command runs against.
type app struct {
	out      io.Writer
	json     bool
	registry *srcUC.Service
	reader   *reader.Service
}

type sourcesCmd struct{}

func (c *sourcesCmd) Run(ctx context.Context, a *app) error {
	sources, err := a.registry.GetAll(ctx)
	if err != nil {
		return err
	}
	if a.json {
		type row struct {
			URL                    string `json:"url"`
			RefreshIntervalMinutes int    `json:"refreshIntervalMinutes"`
		}
		rows := make([]row, 0, len(sources))
		for _, s := range sources {
			rows = append(rows, row{URL: s.URI.String(), RefreshIntervalMinutes: s.RefreshIntervalMinutes})
		}
		return a.encode(rows)
	}
	for _, s := range sources {
		fmt.Fprintf(a.out, "%s\tevery %d min\n", s.URI, s.RefreshIntervalMinutes)
	}
	return nil
}

type readCmd struct {
	URL string `arg:"" optional:"" help:"Source URL."`
}

func (c *readCmd) Run(ctx context.Context, a *app) error {
	var channels []*entity.Channel
	if c.URL == "" {
		all, err := a.reader.ReadAll(ctx)
		if err != nil {
			return err
		}
		channels = all
	} else {
		u, err := url.Parse(c.URL)
		if err != nil {
			return fmt.Errorf("%w: %v", reader.ErrInvalidArgument, err)
		}
		ch, err := a.reader.ReadOne(ctx, u)
		if err != nil {
			return err
		}
		channels = []*entity.Channel{ch}
	}
	if a.json {
		return a.encode(channels)
	}
	for _, ch := range channels {
		fmt.Fprintf(a.out, "== %s (%d items)\n", ch.Title, len(ch.Items))
		for _, it := range ch.Items {
			a.printItem(it)
		}
	}
	return nil
}

type searchCmd struct {
	Phrase string `arg:"" help:"Case-insensitive phrase to look for."`
}

func (c *searchCmd) Run(ctx context.Context, a *app) error {
	items, err := a.reader.Search(ctx, c.Phrase)
	if err != nil {
		return err
	}
	if a.json {
		return a.encode(items)
	}
	for _, it := range items {
		a.printItem(it)
	}
	return nil
}

func (a *app) printItem(it *entity.Item) {
	fmt.Fprintf(a.out, "- %s\n  %s\n", it.Title, it.Link)
}

func (a *app) encode(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newApp(ctx context.Context, g globals, out, logOut io.Writer) (*app, error) {
	level := slog.LevelWarn
	if g.Verbose {
		level = slog.LevelDebug
	}
	logger := logging.NewTextLogger(logOut, level)

	sources, err := fileconfig.LoadSources(g.SourcesFile)
	if err != nil {
		return nil, err
	}
	registry := &srcUC.Service{Repo: memory.NewSourceRepo(), Logger: logger}
	if err := fileconfig.Seed(ctx, registry, sources); err != nil {
		return nil, err
	}

	return &app{
		out:      out,
		json:     g.JSON,
		registry: registry,
		reader: &reader.Service{
			Registry:    registry,
			Fetcher:     scraper.NewRSSFetcher(scraper.DefaultConfig(), scraper.WithLogger(logger)),
			Parallelism: g.Parallelism,
			Logger:      logger,
		},
	}, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "feedctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out, errOut io.Writer) error {
	var c cli
	parser, err := kong.New(&c,
		kong.Name("feedctl"),
		kong.Description("Read and search RSS feeds listed in a sources file."),
		kong.UsageOnError(),
		kong.Writers(out, errOut),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	a, err := newApp(ctx, c.globals, out, errOut)
	if err != nil {
		return err
	}
	kctx.BindTo(ctx, (*context.Context)(nil))
	return kctx.Run(a)
}
