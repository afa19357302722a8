// Package rangeindex maintains a lazily rebuilt interval-tree index over
// an external collection of segments. The index tracks a dirty flag:
// mutations to the underlying collection are signalled with Invalidate,
// and the tree is reconstructed on the next query rather than on every
// change. This suits write-bursty workloads where queries arrive between
// batches of mutations.
package rangeindex

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/rangekit/pkg/alg/interval"
	"github.com/Sumatoshi-tech/rangekit/pkg/observability"
)

const tracerName = "rangekit/rangeindex"

// Query operation names recorded in metrics.
const (
	opOverlapping = "overlapping"
	opContaining  = "containing"
	opCovers      = "covers"
	opAnyOverlap  = "any_overlap"
	opMaxHigh     = "max_high"
	opWindow      = "window"
)

// Source supplies the segments to index. Iterate must call emit once per
// segment; returning false from emit stops the iteration early.
type Source[B interval.Bound, V any] interface {
	Iterate(emit func(low, high B, value V) bool)
}

// Index is a lazily rebuilt interval index over a Source. It is not safe
// for concurrent use.
type Index[B interval.Bound, V any] struct {
	source  Source[B, V]
	tree    *interval.Tree[B, V]
	dirty   bool
	skipped int

	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *observability.IndexMetrics
}

// Option configures an Index.
type Option[B interval.Bound, V any] func(*Index[B, V])

// WithLogger sets the structured logger used for rebuild diagnostics.
func WithLogger[B interval.Bound, V any](logger *slog.Logger) Option[B, V] {
	return func(ix *Index[B, V]) {
		ix.logger = logger
	}
}

// WithTracer sets the tracer that wraps rebuilds in a span.
func WithTracer[B interval.Bound, V any](tracer trace.Tracer) Option[B, V] {
	return func(ix *Index[B, V]) {
		ix.tracer = tracer
	}
}

// WithMetrics sets the metric instruments recorded on rebuilds and
// queries.
func WithMetrics[B interval.Bound, V any](metrics *observability.IndexMetrics) Option[B, V] {
	return func(ix *Index[B, V]) {
		ix.metrics = metrics
	}
}

// New creates an index over the given source. The first query triggers
// the initial build.
func New[B interval.Bound, V any](source Source[B, V], opts ...Option[B, V]) *Index[B, V] {
	ix := &Index[B, V]{
		source: source,
		tree:   interval.New[B, V](),
		dirty:  true,
		logger: slog.New(slog.DiscardHandler),
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
	}

	for _, opt := range opts {
		opt(ix)
	}

	return ix
}

// Invalidate marks the index as stale; the next query rebuilds it.
func (ix *Index[B, V]) Invalidate() {
	ix.dirty = true
}

// Size returns the number of indexed segments, rebuilding first if the
// index is stale.
func (ix *Index[B, V]) Size(ctx context.Context) int {
	ix.ensure(ctx)

	return ix.tree.Size()
}

// Skipped returns the number of segments dropped during the last rebuild
// because their bounds were inverted.
func (ix *Index[B, V]) Skipped() int {
	return ix.skipped
}

// Overlapping returns all indexed segments overlapping [low, high].
func (ix *Index[B, V]) Overlapping(ctx context.Context, low, high B) []interval.Entry[B, V] {
	ix.ensure(ctx)

	defer ix.record(ctx, opOverlapping, time.Now())

	return ix.tree.Overlapping(low, high)
}

// Containing returns all indexed segments containing value.
func (ix *Index[B, V]) Containing(ctx context.Context, value B) []interval.Entry[B, V] {
	ix.ensure(ctx)

	defer ix.record(ctx, opContaining, time.Now())

	return ix.tree.Containing(value)
}

// Window returns all indexed segments intersecting the [min, max]
// window.
func (ix *Index[B, V]) Window(ctx context.Context, minBound, maxBound B) []interval.Entry[B, V] {
	ix.ensure(ctx)

	defer ix.record(ctx, opWindow, time.Now())

	return ix.tree.FindByMinMax(minBound, maxBound)
}

// Covers reports whether any indexed segment contains value.
func (ix *Index[B, V]) Covers(ctx context.Context, value B) bool {
	ix.ensure(ctx)

	defer ix.record(ctx, opCovers, time.Now())

	return ix.tree.Contains(value)
}

// AnyOverlap reports whether any indexed segment overlaps [low, high].
func (ix *Index[B, V]) AnyOverlap(ctx context.Context, low, high B) bool {
	ix.ensure(ctx)

	defer ix.record(ctx, opAnyOverlap, time.Now())

	return ix.tree.Overlaps(low, high)
}

// MaxHigh returns the maximum High among segments overlapping
// [low, high], or the minimum representable bound when none do; pair
// with AnyOverlap to disambiguate.
func (ix *Index[B, V]) MaxHigh(ctx context.Context, low, high B) B {
	ix.ensure(ctx)

	defer ix.record(ctx, opMaxHigh, time.Now())

	return ix.tree.MaxHighOverlapping(low, high)
}

// ensure rebuilds the tree when the index is stale.
func (ix *Index[B, V]) ensure(ctx context.Context) {
	if !ix.dirty {
		return
	}

	ix.rebuild(ctx)
}

// rebuild reconstructs the tree from the source. Segments with inverted
// bounds are skipped and counted, not fatal: the source owns its data
// quality and the index stays usable.
func (ix *Index[B, V]) rebuild(ctx context.Context) {
	ctx, span := ix.tracer.Start(ctx, "rangeindex.rebuild")
	defer span.End()

	start := time.Now()

	ix.tree.Clear()
	ix.skipped = 0

	ix.source.Iterate(func(low, high B, value V) bool {
		insertErr := ix.tree.Insert(low, high, value)
		if insertErr != nil {
			ix.skipped++

			ix.logger.WarnContext(ctx, "skipping inverted segment",
				slog.Any("low", low),
				slog.Any("high", high),
			)
		}

		return true
	})

	ix.dirty = false

	elapsed := time.Since(start)

	ix.metrics.RecordRebuild(ctx, ix.tree.Size(), elapsed)
	ix.logger.DebugContext(ctx, "index rebuilt",
		slog.Int("segments", ix.tree.Size()),
		slog.Int("skipped", ix.skipped),
		slog.Duration("elapsed", elapsed),
	)
}

// record emits query metrics; called via defer with the start time.
func (ix *Index[B, V]) record(ctx context.Context, op string, start time.Time) {
	ix.metrics.RecordQuery(ctx, op, time.Since(start))
}
