// Package interval provides a generic augmented AVL interval tree over
// closed ranges [Low, High]. It supports Insert, Remove, Update,
// point-containment and range-overlap queries, with O(log N) insert and
// O(log N + k) query time, where k is the number of matching intervals.
//
// Each node caches the maximum High endpoint in its subtree (max), which
// lets queries skip any subtree whose cached maximum lies entirely below
// the query range. The tree rebalances on insert only; see Remove for the
// resulting worst-case caveat.
//
// The tree is not safe for concurrent use. Callers that share a tree
// across goroutines must provide their own synchronization: one writer or
// any number of readers, never both.
package interval

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidInterval is returned when an interval with Low > High is
// supplied to Insert or Update. The tree is left unmodified.
var ErrInvalidInterval = errors.New("interval: low must be less than or equal to high")

// Bound constrains the endpoint types an interval tree can index.
// All listed types are totally ordered and have a well-defined minimum
// representable value, which MaxHighOverlapping uses as its no-match
// sentinel.
type Bound interface {
	int | int8 | int16 | int32 | int64 |
		uint | uint8 | uint16 | uint32 | uint64 |
		float32 | float64
}

// Interval represents a closed range [Low, High].
type Interval[B Bound] struct {
	Low  B
	High B
}

// Overlaps reports whether iv and other share at least one point.
// Touching endpoints count as overlap (closed-closed semantics).
func (iv Interval[B]) Overlaps(other Interval[B]) bool {
	return iv.Low <= other.High && other.Low <= iv.High
}

// Contains reports whether value lies within the closed range.
func (iv Interval[B]) Contains(value B) bool {
	return iv.Low <= value && value <= iv.High
}

// Entry is an (interval, value) pair returned by queries. The value is
// the opaque payload attached at Insert; the tree never inspects it.
type Entry[B Bound, V any] struct {
	Interval Interval[B]
	Value    V
}

// node is an internal AVL node augmented with the subtree maximum High.
// Each node exclusively owns its children; there are no parent links.
type node[B Bound, V any] struct {
	interval Interval[B]
	value    V
	max      B
	left     *node[B, V]
	right    *node[B, V]
}

// Tree is an augmented AVL interval tree.
type Tree[B Bound, V any] struct {
	root *node[B, V]
	size int
}

// New creates an empty interval tree.
func New[B Bound, V any]() *Tree[B, V] {
	return &Tree[B, V]{}
}

// Size returns the number of intervals in the tree.
func (t *Tree[B, V]) Size() int {
	return t.size
}

// IsEmpty reports whether the tree holds no intervals.
func (t *Tree[B, V]) IsEmpty() bool {
	return t.root == nil
}

// Clear removes all intervals from the tree in O(1).
func (t *Tree[B, V]) Clear() {
	t.root = nil
	t.size = 0
}

// Insert adds the interval [low, high] with the given value.
// Returns ErrInvalidInterval when low > high; the tree is unchanged.
// Intervals with equal Low bounds are routed to the right subtree, so
// duplicates are kept and appear after the original in in-order sequence.
func (t *Tree[B, V]) Insert(low, high B, value V) error {
	if low > high {
		return ErrInvalidInterval
	}

	t.root = insert(t.root, Interval[B]{Low: low, High: high}, value)
	t.size++

	return nil
}

// Remove deletes the stored interval whose Low bound equals low.
// It is a no-op when no stored interval contains low: the containment
// probe gates structural removal, matching the lookup the queries use.
// high is accepted for call-site symmetry with Insert but removal is
// keyed on low alone.
//
// Remove does not rebalance. A delete-heavy workload can degrade the
// tree toward O(n) height; queries stay correct, only slower.
func (t *Tree[B, V]) Remove(low, high B) {
	_ = high

	if !t.Contains(low) {
		return
	}

	var removed bool

	t.root = remove(t.root, low, &removed)

	if removed {
		t.size--
	}
}

// Update replaces the interval [oldLow, oldHigh] with [newLow, newHigh]
// carrying the given value. The new interval is validated before the old
// one is removed, so an ErrInvalidInterval leaves the tree untouched.
func (t *Tree[B, V]) Update(oldLow, oldHigh, newLow, newHigh B, value V) error {
	if newLow > newHigh {
		return ErrInvalidInterval
	}

	t.Remove(oldLow, oldHigh)

	return t.Insert(newLow, newHigh, value)
}

// Containing returns all entries whose interval contains value.
func (t *Tree[B, V]) Containing(value B) []Entry[B, V] {
	var results []Entry[B, V]

	collectContaining(t.root, value, &results)

	return results
}

// Overlapping returns all entries whose interval overlaps the closed
// range [low, high].
func (t *Tree[B, V]) Overlapping(low, high B) []Entry[B, V] {
	var results []Entry[B, V]

	collectOverlapping(t.root, low, high, &results)

	return results
}

// MaxHighOverlapping returns the maximum High among intervals overlapping
// [low, high]. When nothing overlaps it returns the minimum representable
// value of B; callers that need to distinguish "no match" from a genuine
// minimum must check Overlaps first.
func (t *Tree[B, V]) MaxHighOverlapping(low, high B) B {
	maxValue := minOf[B]()

	maxHighOverlapping(t.root, low, high, &maxValue)

	return maxValue
}

// FindByMinMax returns all entries whose interval intersects the window
// [minBound, maxBound], i.e. High >= minBound AND Low <= maxBound. The
// predicate is the overlap test parameterized as a window; results
// accumulate from both subtrees like Overlapping.
func (t *Tree[B, V]) FindByMinMax(minBound, maxBound B) []Entry[B, V] {
	var results []Entry[B, V]

	collectByMinMax(t.root, minBound, maxBound, &results)

	return results
}

// Contains reports whether any stored interval contains value.
// Short-circuits on the first match.
func (t *Tree[B, V]) Contains(value B) bool {
	return contains(t.root, value)
}

// Overlaps reports whether any stored interval overlaps [low, high].
// Short-circuits on the first match.
func (t *Tree[B, V]) Overlaps(low, high B) bool {
	return overlaps(t.root, low, high)
}

// Entries returns all entries in ascending Low order.
func (t *Tree[B, V]) Entries() []Entry[B, V] {
	results := make([]Entry[B, V], 0, t.size)

	inorder(t.root, func(n *node[B, V]) {
		results = append(results, Entry[B, V]{Interval: n.interval, Value: n.value})
	})

	return results
}

// Height returns the height of the tree in nodes; 0 for an empty tree.
func (t *Tree[B, V]) Height() int {
	return height(t.root)
}

// MaxHigh returns the maximum High endpoint stored in the tree, or the
// minimum representable value of B for an empty tree.
func (t *Tree[B, V]) MaxHigh() B {
	if t.root == nil {
		return minOf[B]()
	}

	return t.root.max
}

// String renders the intervals in ascending Low order as
// "[low, high] [low, high] ... " for diagnostics; it is not a
// serialization format.
func (t *Tree[B, V]) String() string {
	var sb strings.Builder

	inorder(t.root, func(n *node[B, V]) {
		fmt.Fprintf(&sb, "[%v, %v] ", n.interval.Low, n.interval.High)
	})

	return sb.String()
}

// insert descends by Low (strict-less goes left, ties and greater go
// right), then on the unwind recomputes max and restores AVL balance.
func insert[B Bound, V any](n *node[B, V], iv Interval[B], value V) *node[B, V] {
	if n == nil {
		return &node[B, V]{interval: iv, value: value, max: iv.High}
	}

	if iv.Low < n.interval.Low {
		n.left = insert(n.left, iv, value)
	} else {
		n.right = insert(n.right, iv, value)
	}

	recalcMax(n)

	return rebalance(n, iv.Low)
}

// rebalance applies the four AVL rotation cases when the balance factor
// leaves {-1, 0, 1}. The case is selected by comparing the inserted Low
// against the immediate child's Low.
func rebalance[B Bound, V any](n *node[B, V], insertedLow B) *node[B, V] {
	balance := balanceFactor(n)

	if balance > 1 {
		// Left-left or left-right.
		if insertedLow < n.left.interval.Low {
			return rotateRight(n)
		}

		n.left = rotateLeft(n.left)

		return rotateRight(n)
	}

	if balance < -1 {
		// Right-right or right-left. A tie with the right child's Low
		// was routed into its right subtree, so it is a right-right
		// case.
		if insertedLow >= n.right.interval.Low {
			return rotateLeft(n)
		}

		n.right = rotateRight(n.right)

		return rotateLeft(n)
	}

	return n
}

// remove performs standard BST deletion keyed on Low. A two-child node is
// replaced by its in-order successor, whose original slot is then removed
// from the right subtree. max is recomputed on the unwind. No rebalancing.
func remove[B Bound, V any](n *node[B, V], low B, removed *bool) *node[B, V] {
	if n == nil {
		return nil
	}

	switch {
	case low < n.interval.Low:
		n.left = remove(n.left, low, removed)
	case low > n.interval.Low:
		n.right = remove(n.right, low, removed)
	default:
		*removed = true

		if n.left == nil {
			return n.right
		}

		if n.right == nil {
			return n.left
		}

		succ := minimum(n.right)
		n.interval = succ.interval
		n.value = succ.value

		var succRemoved bool

		n.right = remove(n.right, succ.interval.Low, &succRemoved)
	}

	recalcMax(n)

	return n
}

// collectContaining gathers entries containing value. The left subtree is
// skipped when its cached max lies below value; the right subtree is
// always visited.
func collectContaining[B Bound, V any](n *node[B, V], value B, results *[]Entry[B, V]) {
	if n == nil {
		return
	}

	if n.interval.Contains(value) {
		*results = append(*results, Entry[B, V]{Interval: n.interval, Value: n.value})
	}

	if n.left != nil && n.left.max >= value {
		collectContaining(n.left, value, results)
	}

	collectContaining(n.right, value, results)
}

// collectOverlapping gathers entries overlapping [low, high] with the
// same pruning shape as collectContaining.
func collectOverlapping[B Bound, V any](n *node[B, V], low, high B, results *[]Entry[B, V]) {
	if n == nil {
		return
	}

	if n.interval.Low <= high && n.interval.High >= low {
		*results = append(*results, Entry[B, V]{Interval: n.interval, Value: n.value})
	}

	if n.left != nil && n.left.max >= low {
		collectOverlapping(n.left, low, high, results)
	}

	collectOverlapping(n.right, low, high, results)
}

// maxHighOverlapping folds the maximum High of overlapping intervals into
// maxValue.
func maxHighOverlapping[B Bound, V any](n *node[B, V], low, high B, maxValue *B) {
	if n == nil {
		return
	}

	if n.interval.Low <= high && n.interval.High >= low && n.interval.High > *maxValue {
		*maxValue = n.interval.High
	}

	if n.left != nil && n.left.max >= low {
		maxHighOverlapping(n.left, low, high, maxValue)
	}

	maxHighOverlapping(n.right, low, high, maxValue)
}

// collectByMinMax gathers entries intersecting the [minBound, maxBound]
// window, accumulating from both subtrees.
func collectByMinMax[B Bound, V any](n *node[B, V], minBound, maxBound B, results *[]Entry[B, V]) {
	if n == nil {
		return
	}

	if n.interval.High >= minBound && n.interval.Low <= maxBound {
		*results = append(*results, Entry[B, V]{Interval: n.interval, Value: n.value})
	}

	if n.left != nil && n.left.max >= minBound {
		collectByMinMax(n.left, minBound, maxBound, results)
	}

	collectByMinMax(n.right, minBound, maxBound, results)
}

// contains is the short-circuiting form of collectContaining.
func contains[B Bound, V any](n *node[B, V], value B) bool {
	if n == nil {
		return false
	}

	if n.interval.Contains(value) {
		return true
	}

	if n.left != nil && n.left.max >= value {
		if contains(n.left, value) {
			return true
		}
	}

	return contains(n.right, value)
}

// overlaps is the short-circuiting form of collectOverlapping.
func overlaps[B Bound, V any](n *node[B, V], low, high B) bool {
	if n == nil {
		return false
	}

	if n.interval.Low <= high && n.interval.High >= low {
		return true
	}

	if n.left != nil && n.left.max >= low {
		if overlaps(n.left, low, high) {
			return true
		}
	}

	return overlaps(n.right, low, high)
}

// inorder walks the tree left-node-right, yielding ascending Low order.
func inorder[B Bound, V any](n *node[B, V], visit func(*node[B, V])) {
	if n == nil {
		return
	}

	inorder(n.left, visit)
	visit(n)
	inorder(n.right, visit)
}

// rotateRight rotates the subtree rooted at n to the right and returns
// the new subtree root. max is recomputed bottom-up: demoted node first.
func rotateRight[B Bound, V any](n *node[B, V]) *node[B, V] {
	pivot := n.left
	n.left = pivot.right
	pivot.right = n

	recalcMax(n)
	recalcMax(pivot)

	return pivot
}

// rotateLeft mirrors rotateRight.
func rotateLeft[B Bound, V any](n *node[B, V]) *node[B, V] {
	pivot := n.right
	n.right = pivot.left
	pivot.left = n

	recalcMax(n)
	recalcMax(pivot)

	return pivot
}

// height returns the height of the subtree in nodes, recomputed
// bottom-up rather than cached on the node.
func height[B Bound, V any](n *node[B, V]) int {
	if n == nil {
		return 0
	}

	return 1 + max(height(n.left), height(n.right))
}

// balanceFactor returns height(left) - height(right).
func balanceFactor[B Bound, V any](n *node[B, V]) int {
	if n == nil {
		return 0
	}

	return height(n.left) - height(n.right)
}

// recalcMax recomputes a node's max from its own High and its children.
func recalcMax[B Bound, V any](n *node[B, V]) {
	if n == nil {
		return
	}

	m := n.interval.High

	if n.left != nil && n.left.max > m {
		m = n.left.max
	}

	if n.right != nil && n.right.max > m {
		m = n.right.max
	}

	n.max = m
}

// minimum returns the leftmost node of the subtree rooted at n.
func minimum[B Bound, V any](n *node[B, V]) *node[B, V] {
	for n.left != nil {
		n = n.left
	}

	return n
}

// minOf returns the minimum representable value of the bound type,
// the no-match sentinel for MaxHighOverlapping.
func minOf[B Bound]() B {
	var zero B

	switch any(zero).(type) {
	case int:
		return any(int(math.MinInt)).(B)
	case int8:
		return any(int8(math.MinInt8)).(B)
	case int16:
		return any(int16(math.MinInt16)).(B)
	case int32:
		return any(int32(math.MinInt32)).(B)
	case int64:
		return any(int64(math.MinInt64)).(B)
	case float32:
		return any(float32(math.Inf(-1))).(B)
	case float64:
		return any(math.Inf(-1)).(B)
	default:
		// Unsigned types: the zero value is the minimum.
		return zero
	}
}
