// Package srd loads the D&D 5e Systems Reference Document from the JSON
// files published by dnd5eapi.co and provides text search over it.
//
// A [Library] is loaded once at startup and is immutable afterwards, so
// concurrent searches from independent callers need no locking. Repeated
// identical searches are served from a bounded LRU cache.
package srd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

// filePrefix is stripped from file names to derive the resource name,
// e.g. "5e-SRD-Spells.json" → resource "spells".
const filePrefix = "5e-SRD-"

// defaultCacheSize bounds the search memoization cache.
const defaultCacheSize = 1024

// Library holds the imported SRD data keyed by resource name
// (e.g. "spells", "monsters"). Read-only after [Load].
type Library struct {
	tables map[string][]gjson.Result
	names  map[string][]string // record names per resource, in table order

	cache    *lru.Cache[searchKey, searchResult]
	cacheObs func(resource string, hit bool)
}

// Option configures a [Library] during [Load].
type Option func(*Library) error

// WithCacheSize sets the maximum number of memoized search results.
// Default: 1024. A size of 0 disables memoization.
func WithCacheSize(size int) Option {
	return func(l *Library) error {
		if size <= 0 {
			l.cache = nil
			return nil
		}
		cache, err := lru.New[searchKey, searchResult](size)
		if err != nil {
			return fmt.Errorf("srd: create cache: %w", err)
		}
		l.cache = cache
		return nil
	}
}

// WithCacheObserver sets a callback invoked on every memoized search
// lookup, reporting the resource and whether it was a cache hit. Used
// to feed the cache metrics.
func WithCacheObserver(obs func(resource string, hit bool)) Option {
	return func(l *Library) error {
		l.cacheObs = obs
		return nil
	}
}

// Load reads every *.json file in dir into an in-memory [Library].
// Each file must contain a JSON array of records; a malformed file is a
// fatal error since the dataset is curated and loaded only at startup.
func Load(dir string, opts ...Option) (*Library, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("srd: read data dir %q: %w", dir, err)
	}

	l := &Library{
		tables: make(map[string][]gjson.Result),
		names:  make(map[string][]string),
	}
	cache, err := lru.New[searchKey, searchResult](defaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("srd: create cache: %w", err)
	}
	l.cache = cache

	for _, o := range opts {
		if err := o(l); err != nil {
			return nil, err
		}
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := entry.Name()
		path := filepath.Join(dir, name)
		resource := resourceName(name)

		g.Go(func() error {
			table, err := loadTable(path)
			if err != nil {
				return err
			}
			slog.Debug("loaded SRD resource", "resource", resource, "records", len(table), "file", name)

			recordNames := make([]string, len(table))
			for i, rec := range table {
				recordNames[i] = rec.Get("name").String()
			}

			mu.Lock()
			l.tables[resource] = table
			l.names[resource] = recordNames
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(l.tables) == 0 {
		return nil, fmt.Errorf("srd: no data files found in %q", dir)
	}
	return l, nil
}

// loadTable parses one resource file into its record list.
func loadTable(path string) ([]gjson.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("srd: read %q: %w", path, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("srd: parse %q: invalid JSON", path)
	}
	parsed := gjson.ParseBytes(data)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("srd: parse %q: top-level value is not an array", path)
	}
	return parsed.Array(), nil
}

// resourceName derives the resource key from a data file name:
// the "5e-SRD-" prefix and the ".json" suffix are stripped and the
// remainder is lower-cased.
func resourceName(fileName string) string {
	stem := strings.TrimSuffix(fileName, ".json")
	stem = strings.TrimPrefix(stem, filePrefix)
	return strings.ToLower(stem)
}

// Resources returns the loaded resource names in sorted order.
func (l *Library) Resources() []string {
	out := make([]string, 0, len(l.tables))
	for name := range l.tables {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Names returns the record names of a resource in table order.
// Returns nil for an unknown resource.
func (l *Library) Names(resource string) []string {
	return l.names[resource]
}
