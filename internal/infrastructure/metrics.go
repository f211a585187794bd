package infrastructure

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
)

// HTTPMetrics are the request-level instruments used by the HTTP middleware
type HTTPMetrics struct {
	RequestsTotal   metric.Int64Counter
	RequestDuration metric.Float64Histogram
	ActiveRequests  metric.Int64UpDownCounter
}

// CreateHTTPMetrics registers the HTTP instruments on meter
func CreateHTTPMetrics(meter metric.Meter) (*HTTPMetrics, error) {
	requestsTotal, err := meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{
		RequestsTotal:   requestsTotal,
		RequestDuration: requestDuration,
		ActiveRequests:  activeRequests,
	}, nil
}

// SearchMetrics are the bond search instruments
type SearchMetrics struct {
	SearchesTotal     metric.Int64Counter
	SearchDuration    metric.Float64Histogram
	SearchMatches     metric.Int64Histogram
	RegionUnresolved  metric.Int64Counter
	DatasetRecords    metric.Int64Gauge
	DatasetLoadsTotal metric.Int64Counter
}

// CreateSearchMetrics registers the search instruments on meter
func CreateSearchMetrics(meter metric.Meter) (*SearchMetrics, error) {
	searchesTotal, err := meter.Int64Counter(
		"bond_searches_total",
		metric.WithDescription("Similar-bond searches by tolerance level reached"),
	)
	if err != nil {
		return nil, err
	}

	searchDuration, err := meter.Float64Histogram(
		"bond_search_duration_seconds",
		metric.WithDescription("Time spent resolving the region and walking the tolerance levels"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	searchMatches, err := meter.Int64Histogram(
		"bond_search_matches",
		metric.WithDescription("Number of bonds returned per search"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 5, 10, 25, 50, 100, 250),
	)
	if err != nil {
		return nil, err
	}

	regionUnresolved, err := meter.Int64Counter(
		"bond_region_unresolved_total",
		metric.WithDescription("Searches rejected because the region query matched nothing"),
	)
	if err != nil {
		return nil, err
	}

	datasetRecords, err := meter.Int64Gauge(
		"bond_dataset_records",
		metric.WithDescription("Records in the currently loaded dataset"),
	)
	if err != nil {
		return nil, err
	}

	datasetLoads, err := meter.Int64Counter(
		"bond_dataset_loads_total",
		metric.WithDescription("Dataset load attempts by outcome"),
	)
	if err != nil {
		return nil, err
	}

	return &SearchMetrics{
		SearchesTotal:     searchesTotal,
		SearchDuration:    searchDuration,
		SearchMatches:     searchMatches,
		RegionUnresolved:  regionUnresolved,
		DatasetRecords:    datasetRecords,
		DatasetLoadsTotal: datasetLoads,
	}, nil
}

// NoopSearchMetrics returns instruments that discard every measurement
func NoopSearchMetrics() *SearchMetrics {
	m, _ := CreateSearchMetrics(metricnoop.NewMeterProvider().Meter(MeterName))
	return m
}

// RecordSearch records one completed search
func (m *SearchMetrics) RecordSearch(ctx context.Context, level int, matches int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("level", strconv.Itoa(level)))
	m.SearchesTotal.Add(ctx, 1, attrs)
	m.SearchDuration.Record(ctx, duration.Seconds(), attrs)
	m.SearchMatches.Record(ctx, int64(matches), attrs)
}

// RecordUnresolved counts a search that failed region resolution
func (m *SearchMetrics) RecordUnresolved(ctx context.Context) {
	if m == nil {
		return
	}
	m.RegionUnresolved.Add(ctx, 1)
}

// RecordDatasetLoad records the outcome of a dataset load
func (m *SearchMetrics) RecordDatasetLoad(ctx context.Context, records int, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	} else {
		m.DatasetRecords.Record(ctx, int64(records))
	}
	m.DatasetLoadsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
