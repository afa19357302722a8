package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRebuildsTotal   = "rangekit.index.rebuilds.total"
	metricRebuildDuration = "rangekit.index.rebuild.duration.seconds"
	metricQueriesTotal    = "rangekit.index.queries.total"
	metricQueryDuration   = "rangekit.index.query.duration.seconds"
	metricTreeSize        = "rangekit.index.size"

	attrOp = "op"
)

// durationBucketBoundaries covers 10us to 10s: index rebuilds and
// queries are in-memory and normally complete well under a second.
var durationBucketBoundaries = []float64{
	0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10,
}

// IndexMetrics holds the OTel instruments for interval index operations.
// A nil *IndexMetrics is valid and records nothing.
type IndexMetrics struct {
	rebuildsTotal   metric.Int64Counter
	rebuildDuration metric.Float64Histogram
	queriesTotal    metric.Int64Counter
	queryDuration   metric.Float64Histogram
	treeSize        metric.Int64Gauge
}

// NewIndexMetrics creates the index metric instruments from the given
// meter.
func NewIndexMetrics(mt metric.Meter) (*IndexMetrics, error) {
	rebuilds, err := mt.Int64Counter(metricRebuildsTotal,
		metric.WithDescription("Total number of index rebuilds"),
		metric.WithUnit("{rebuild}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRebuildsTotal, err)
	}

	rebuildDur, err := mt.Float64Histogram(metricRebuildDuration,
		metric.WithDescription("Index rebuild duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRebuildDuration, err)
	}

	queries, err := mt.Int64Counter(metricQueriesTotal,
		metric.WithDescription("Total number of index queries"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricQueriesTotal, err)
	}

	queryDur, err := mt.Float64Histogram(metricQueryDuration,
		metric.WithDescription("Index query duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricQueryDuration, err)
	}

	size, err := mt.Int64Gauge(metricTreeSize,
		metric.WithDescription("Number of intervals currently indexed"),
		metric.WithUnit("{interval}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricTreeSize, err)
	}

	return &IndexMetrics{
		rebuildsTotal:   rebuilds,
		rebuildDuration: rebuildDur,
		queriesTotal:    queries,
		queryDuration:   queryDur,
		treeSize:        size,
	}, nil
}

// RecordRebuild records a completed index rebuild and the resulting
// tree size.
func (im *IndexMetrics) RecordRebuild(ctx context.Context, size int, duration time.Duration) {
	if im == nil {
		return
	}

	im.rebuildsTotal.Add(ctx, 1)
	im.rebuildDuration.Record(ctx, duration.Seconds())
	im.treeSize.Record(ctx, int64(size))
}

// RecordQuery records a completed query with its operation name.
func (im *IndexMetrics) RecordQuery(ctx context.Context, op string, duration time.Duration) {
	if im == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrOp, op))

	im.queriesTotal.Add(ctx, 1, attrs)
	im.queryDuration.Record(ctx, duration.Seconds(), attrs)
}
