// Package config loads file-based configuration.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"

	"feed-aggregator/internal/domain/entity"

	"gopkg.in/yaml.v3"
)

// SourcesFile is the YAML document listing the feeds to register at startup.
//
//	sources:
//	  - url: https://www.wired.com/feed/category/science/latest/rss
//	    refreshIntervalMinutes: 5
type SourcesFile struct {
	Sources []SourceEntry `yaml:"sources"`
}

// SourceEntry is one feed in a SourcesFile. A missing interval takes
// entity.DefaultRefreshIntervalMinutes.
type SourceEntry struct {
	URL                    string `yaml:"url"`
	RefreshIntervalMinutes *int   `yaml:"refreshIntervalMinutes"`
}

// SourceAdder is the part of the source registry used for seeding.
type SourceAdder interface {
	AddOrUpdate(ctx context.Context, src *entity.Source) (bool, error)
}

// LoadSources reads and validates the sources file at path.
// The path is expected to come from a trusted source (flag or environment).
func LoadSources(path string) ([]*entity.Source, error) {
	// #nosec G304 -- path is provided by the operator, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}
	return ParseSources(data)
}

// ParseSources decodes a sources document. Every invalid entry is reported.
func ParseSources(data []byte) ([]*entity.Source, error) {
	var file SourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	var (
		out  = make([]*entity.Source, 0, len(file.Sources))
		errs []error
	)
	for i, e := range file.Sources {
		interval := entity.DefaultRefreshIntervalMinutes
		if e.RefreshIntervalMinutes != nil {
			interval = *e.RefreshIntervalMinutes
		}
		src, err := entity.NewSource(e.URL, interval)
		if err != nil {
			errs = append(errs, fmt.Errorf("sources[%d] %q: %w", i, e.URL, err))
			continue
		}
		out = append(out, src)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}

// Seed registers every source in order. Later duplicates replace earlier ones.
func Seed(ctx context.Context, registry SourceAdder, sources []*entity.Source) error {
	for _, src := range sources {
		if _, err := registry.AddOrUpdate(ctx, src); err != nil {
			return fmt.Errorf("seed %s: %w", src.URI, err)
		}
	}
	return nil
}
