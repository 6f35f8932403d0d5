// Package observe provides application-wide observability primitives for
// Tavern: OpenTelemetry metrics, tracing helpers, and structured logging.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all Tavern metrics.
const meterName = "github.com/tavernbot/tavern"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// SearchDuration tracks reference search latency. Use with attribute:
	//   attribute.String("resource", ...)
	SearchDuration metric.Float64Histogram

	// CommandInvocations counts slash command calls. Use with attributes:
	//   attribute.String("command", ...), attribute.String("outcome", ...)
	CommandInvocations metric.Int64Counter

	// SearchTruncations counts searches cut off at the match limit. Use
	// with attribute: attribute.String("resource", ...)
	SearchTruncations metric.Int64Counter

	// NamesGenerated counts generated character names. Use with attributes:
	//   attribute.String("race", ...), attribute.String("gender", ...)
	NamesGenerated metric.Int64Counter

	// StoreErrors counts guild settings store failures. Use with attribute:
	//   attribute.String("op", ...)
	StoreErrors metric.Int64Counter

	// CacheLookups counts search memoization lookups. Use with attributes:
	//   attribute.String("resource", ...), attribute.String("result", "hit"|"miss")
	CacheLookups metric.Int64Counter

	// HTTPRequestDuration tracks HTTP request processing time on the ops
	// endpoints. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds). Searches
// are in-memory scans over pre-loaded datasets, so the buckets skew small.
var latencyBuckets = []float64{
	0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.SearchDuration, err = m.Float64Histogram("tavern.search.duration",
		metric.WithDescription("Latency of reference dataset searches."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.CommandInvocations, err = m.Int64Counter("tavern.command.invocations",
		metric.WithDescription("Total slash command invocations by command and outcome."),
	); err != nil {
		return nil, err
	}
	if met.SearchTruncations, err = m.Int64Counter("tavern.search.truncations",
		metric.WithDescription("Total searches truncated at the match limit, by resource."),
	); err != nil {
		return nil, err
	}
	if met.NamesGenerated, err = m.Int64Counter("tavern.names.generated",
		metric.WithDescription("Total character names generated by race and gender."),
	); err != nil {
		return nil, err
	}
	if met.StoreErrors, err = m.Int64Counter("tavern.guildstore.errors",
		metric.WithDescription("Total guild settings store failures by operation."),
	); err != nil {
		return nil, err
	}
	if met.CacheLookups, err = m.Int64Counter("tavern.search.cache",
		metric.WithDescription("Total search cache lookups by resource and result."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("tavern.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordCommand records a slash command invocation with the standard
// attribute set.
func (m *Metrics) RecordCommand(ctx context.Context, command, outcome string) {
	m.CommandInvocations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("command", command),
			attribute.String("outcome", outcome),
		),
	)
}

// RecordSearch records one search's duration and, when the search was
// truncated, a truncation increment for the resource.
func (m *Metrics) RecordSearch(ctx context.Context, resource string, seconds float64, truncated bool) {
	m.SearchDuration.Record(ctx, seconds,
		metric.WithAttributes(attribute.String("resource", resource)),
	)
	if truncated {
		m.SearchTruncations.Add(ctx, 1,
			metric.WithAttributes(attribute.String("resource", resource)),
		)
	}
}

// RecordNameGenerated records a generated character name.
func (m *Metrics) RecordNameGenerated(ctx context.Context, race, gender string) {
	m.NamesGenerated.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("race", race),
			attribute.String("gender", gender),
		),
	)
}

// RecordStoreError records a guild settings store failure.
func (m *Metrics) RecordStoreError(ctx context.Context, op string) {
	m.StoreErrors.Add(ctx, 1,
		metric.WithAttributes(attribute.String("op", op)),
	)
}

// RecordCacheLookup records a search cache lookup and its outcome.
func (m *Metrics) RecordCacheLookup(ctx context.Context, resource string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("resource", resource),
			attribute.String("result", result),
		),
	)
}
