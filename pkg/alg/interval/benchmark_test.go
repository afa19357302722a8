package interval

import (
	"testing"
)

// Benchmark constants.
const (
	benchIntervalCount = 10000
	benchSpacing       = 10
	benchWidth         = 5
	benchQueryLow      = 500
	benchQueryHigh     = 1500
	benchPoint         = 505
)

// buildBenchTree inserts benchIntervalCount evenly spaced intervals.
func buildBenchTree() *Tree[int, int] {
	tree := New[int, int]()

	for i := range benchIntervalCount {
		low := i * benchSpacing
		high := low + benchWidth

		_ = tree.Insert(low, high, i)
	}

	return tree
}

// BenchmarkInsert benchmarks inserting intervals.
func BenchmarkInsert(b *testing.B) {
	for range b.N {
		buildBenchTree()
	}
}

// BenchmarkOverlapping benchmarks range-overlap queries.
func BenchmarkOverlapping(b *testing.B) {
	tree := buildBenchTree()

	b.ResetTimer()

	for range b.N {
		tree.Overlapping(benchQueryLow, benchQueryHigh)
	}
}

// BenchmarkContaining benchmarks point-containment queries.
func BenchmarkContaining(b *testing.B) {
	tree := buildBenchTree()

	b.ResetTimer()

	for range b.N {
		tree.Containing(benchPoint)
	}
}

// BenchmarkContains benchmarks the short-circuiting point probe.
func BenchmarkContains(b *testing.B) {
	tree := buildBenchTree()

	b.ResetTimer()

	for range b.N {
		tree.Contains(benchPoint)
	}
}

// BenchmarkMaxHighOverlapping benchmarks the augmented max fold.
func BenchmarkMaxHighOverlapping(b *testing.B) {
	tree := buildBenchTree()

	b.ResetTimer()

	for range b.N {
		tree.MaxHighOverlapping(benchQueryLow, benchQueryHigh)
	}
}

// BenchmarkRemove benchmarks deleting all intervals.
func BenchmarkRemove(b *testing.B) {
	for range b.N {
		b.StopTimer()

		tree := buildBenchTree()

		b.StartTimer()

		for i := range benchIntervalCount {
			tree.Remove(i*benchSpacing, i*benchSpacing+benchWidth)
		}
	}
}
