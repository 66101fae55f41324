package quickreturn

// MeasureFunc returns the natural height of item i, measured without
// constraints and without affecting the visible layout.
type MeasureFunc func(i int) int

// HeightIndex holds the cumulative top offset of every item in the
// unscrolled content.
type HeightIndex struct {
	// Offsets[i] is the top of item i. Monotonically non-decreasing.
	Offsets []int
	// Total is the full content height (sum of all item heights).
	Total int
}

// ComputeHeights measures each item once and builds the offset table.
// Negative measurements count as zero.
func ComputeHeights(itemCount int, measure MeasureFunc) HeightIndex {
	if itemCount <= 0 {
		return HeightIndex{}
	}

	offsets := make([]int, itemCount)
	total := 0
	for i := range itemCount {
		offsets[i] = total
		total += max(measure(i), 0)
	}
	return HeightIndex{Offsets: offsets, Total: total}
}

// Len returns the number of items the index was built for.
func (h HeightIndex) Len() int {
	return len(h.Offsets)
}

// ScrollY converts the first visible item and its top edge (relative to the
// viewport, <= 0 when partially scrolled off) into an absolute scroll
// position. ok is false when firstVisible is outside the index.
func (h HeightIndex) ScrollY(firstVisible, firstVisibleTop int) (y int, ok bool) {
	if firstVisible < 0 || firstVisible >= len(h.Offsets) {
		return 0, false
	}
	return h.Offsets[firstVisible] - firstVisibleTop, true
}

// Tracker owns a HeightIndex and knows when it has gone stale.
type Tracker struct {
	index HeightIndex
	valid bool
}

// Invalidate marks the index stale. Call it whenever a header or footer is
// added or an item's height may have changed.
func (t *Tracker) Invalidate() {
	t.valid = false
}

// Valid reports whether the index was computed and has not been invalidated.
func (t *Tracker) Valid() bool {
	return t.valid
}

// Stale reports whether Ensure would rebuild for the given item count.
// A count mismatch is treated as staleness so adapter changes that never
// called Invalidate still trigger a rebuild.
func (t *Tracker) Stale(itemCount int) bool {
	return !t.valid || t.index.Len() != itemCount
}

// Ensure rebuilds the index synchronously if it is stale and reports whether
// a rebuild happened.
func (t *Tracker) Ensure(itemCount int, measure MeasureFunc) bool {
	if !t.Stale(itemCount) {
		return false
	}
	t.index = ComputeHeights(itemCount, measure)
	t.valid = true
	return true
}

// Index returns the current index, stale or not.
func (t *Tracker) Index() HeightIndex {
	return t.index
}

// Total returns the content height recorded by the last rebuild.
func (t *Tracker) Total() int {
	return t.index.Total
}

// ScrollY is HeightIndex.ScrollY guarded by validity.
func (t *Tracker) ScrollY(firstVisible, firstVisibleTop int) (int, bool) {
	if !t.valid {
		return 0, false
	}
	return t.index.ScrollY(firstVisible, firstVisibleTop)
}
