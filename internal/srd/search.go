package srd

import (
	"log/slog"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultLimit is the truncation limit used when callers pass no
// explicit limit.
const DefaultLimit = 5

// Match is one search hit: the raw record plus its extracted name.
type Match struct {
	Name   string
	Record gjson.Result
}

// searchKey identifies a memoized search.
type searchKey struct {
	resource string
	attr     string
	query    string
	limit    int
}

// searchResult is a memoized search outcome.
type searchResult struct {
	matches   []Match
	truncated bool
}

// Search does a case-insensitive text search of one attribute of one SRD
// resource. The collapsed text of record[attr] is tested for query as a
// substring, record by record in table order.
//
// Up to limit+1 matches are collected; once more than limit matches are
// found the scan stops early and truncated is reported as true. Pass
// limit 0 for no truncation.
//
// An unknown resource, or an attribute absent from the resource's first
// record, yields (nil, false) — deliberately indistinguishable from a
// search with zero matches.
func (l *Library) Search(resource, attr, query string, limit int) ([]Match, bool) {
	key := searchKey{resource: resource, attr: attr, query: query, limit: limit}
	if l.cache != nil {
		res, ok := l.cache.Get(key)
		if l.cacheObs != nil {
			l.cacheObs(resource, ok)
		}
		if ok {
			return res.matches, res.truncated
		}
	}

	start := time.Now()
	matches, truncated := l.scan(resource, attr, query, limit)
	slog.Debug("SRD search",
		"resource", resource,
		"attr", attr,
		"query", query,
		"matches", len(matches),
		"truncated", truncated,
		"elapsed", time.Since(start),
	)

	if l.cache != nil {
		l.cache.Add(key, searchResult{matches: matches, truncated: truncated})
	}
	return matches, truncated
}

func (l *Library) scan(resource, attr, query string, limit int) ([]Match, bool) {
	table, ok := l.tables[resource]
	if !ok || len(table) == 0 {
		slog.Debug("invalid search: unknown resource", "resource", resource)
		return nil, false
	}
	// The first record stands in for the resource schema.
	if !table[0].Get(attr).Exists() {
		slog.Debug("invalid search: unknown attribute", "resource", resource, "attr", attr)
		return nil, false
	}

	needle := strings.ToLower(query)

	var (
		matches   []Match
		truncated bool
	)
	for _, rec := range table {
		text := strings.ToLower(Collapse(rec.Get(attr)))
		if !strings.Contains(text, needle) {
			continue
		}
		matches = append(matches, Match{Name: rec.Get("name").String(), Record: rec})
		// Stop matchy searches before they get too long.
		if limit > 0 && len(matches) > limit {
			truncated = true
			break
		}
	}
	return matches, truncated
}
