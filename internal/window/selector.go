// Package window implements a bounded, scroll-driven view over a large
// ordered list of selectable items.
//
// A Selector materializes the list in fixed-size batches. Scrolling to the
// bottom of the view appends the next batch, scrolling to the top prepends
// the previous one, and at most MaxBatches batches are held at any time:
// extending one end trims the other. The materialized window is always a
// contiguous slice of the full list.
//
// A Selector is not safe for concurrent use. It is driven by one event loop
// and every operation runs to completion synchronously.
package window

import "math"

const (
	// DefaultBatchSize is the number of items materialized per load step.
	DefaultBatchSize = 100

	// DefaultMaxBatches bounds the window to this many batches.
	DefaultMaxBatches = 3

	// DefaultPlaceholder is shown in the header when nothing is selected.
	DefaultPlaceholder = "Select node"

	// DefaultTolerance is the slack, in scroll units, for boundary checks.
	DefaultTolerance = 0.5
)

// Item is one selectable entry. IDs must be unique within a single
// SetItems snapshot; the Selector does not check this.
type Item struct {
	ID    string
	Label string
}

// DisplayLabel returns the label, falling back to the ID.
func (it Item) DisplayLabel() string {
	if it.Label != "" {
		return it.Label
	}
	return it.ID
}

// Options configures a Selector. Zero values select the defaults.
type Options struct {
	BatchSize   int
	MaxBatches  int
	Placeholder string
	Tolerance   float64

	// OnSelect is the selection sink. It is called synchronously, once per
	// accepted Choose call.
	OnSelect func(id string)
}

// Shift describes how a load step changed the window. Renderers use it to
// keep the same rows on screen after items are added or dropped.
type Shift struct {
	Prepended    int // items added before the old first item
	Appended     int // items added after the old last item
	TrimmedFront int // items dropped from the front
	TrimmedBack  int // items dropped from the back
}

// Changed reports whether the window moved at all.
func (s Shift) Changed() bool {
	return s != Shift{}
}

// Offset is how many positions the previously visible items moved.
// Positive means they moved towards the end of the window.
func (s Shift) Offset() int {
	return s.Prepended - s.TrimmedFront
}

func (s Shift) add(o Shift) Shift {
	return Shift{
		Prepended:    s.Prepended + o.Prepended,
		Appended:     s.Appended + o.Appended,
		TrimmedFront: s.TrimmedFront + o.TrimmedFront,
		TrimmedBack:  s.TrimmedBack + o.TrimmedBack,
	}
}

// Selector is the windowed selection state machine.
type Selector struct {
	batchSize   int
	maxBatches  int
	placeholder string
	tolerance   float64
	onSelect    func(id string)

	items []Item
	index map[string]int // ID -> position; last occurrence wins

	// Materialized batches are [lo, hi). hi is the 1-based batch index.
	lo int
	hi int

	open     bool
	selected string // external selection, "" for none
}

// New creates a closed Selector with an empty item list.
func New(opts Options) *Selector {
	s := &Selector{
		batchSize:   opts.BatchSize,
		maxBatches:  opts.MaxBatches,
		placeholder: opts.Placeholder,
		tolerance:   opts.Tolerance,
		onSelect:    opts.OnSelect,
		index:       map[string]int{},
	}
	if s.batchSize <= 0 {
		s.batchSize = DefaultBatchSize
	}
	if s.maxBatches < 2 {
		s.maxBatches = DefaultMaxBatches
	}
	if s.placeholder == "" {
		s.placeholder = DefaultPlaceholder
	}
	if s.tolerance <= 0 {
		s.tolerance = DefaultTolerance
	}
	s.reset()
	return s
}

// SetItems replaces the full item list and re-anchors the window at the
// start. The slice is retained and must not be modified afterwards.
func (s *Selector) SetItems(items []Item) {
	s.items = items
	s.index = make(map[string]int, len(items))
	for i, it := range items {
		s.index[it.ID] = i
	}
	s.reset()
}

// SetExternalSelection records the externally owned selection. A change
// re-anchors the window at the start, discarding the scroll position.
func (s *Selector) SetExternalSelection(id string) {
	if id == s.selected {
		return
	}
	s.selected = id
	s.reset()
}

// Selection returns the external selection last reported, or "".
func (s *Selector) Selection() string {
	return s.selected
}

func (s *Selector) reset() {
	s.lo = 0
	s.hi = 1
}

// Open handles an interaction with the header. It only ever opens.
func (s *Selector) Open() {
	s.open = true
}

// Close dismisses the window without selecting anything.
func (s *Selector) Close() {
	s.open = false
}

// IsOpen reports whether the window is visible.
func (s *Selector) IsOpen() bool {
	return s.open
}

// LoadMore appends the next batch when the window does not yet reach the
// end of the list. It is a no-op at the end.
func (s *Selector) LoadMore() Shift {
	if s.hi*s.batchSize >= len(s.items) {
		return Shift{}
	}
	_, oldEnd := s.Bounds()
	s.hi++
	_, newEnd := s.Bounds()

	sh := Shift{Appended: newEnd - oldEnd}
	if s.hi-s.lo > s.maxBatches {
		// Only the last batch can be partial, so the front one is full.
		s.lo++
		sh.TrimmedFront = s.batchSize
	}
	return sh
}

// LoadPrevious prepends the batch before the window. It is a no-op when
// the window already starts at the first item, which includes every
// state with BatchIndex() == 1.
func (s *Selector) LoadPrevious() Shift {
	if s.hi <= 1 || s.lo == 0 {
		return Shift{}
	}
	_, oldEnd := s.Bounds()
	s.lo--

	sh := Shift{Prepended: s.batchSize}
	if s.hi-s.lo > s.maxBatches {
		s.hi--
		_, newEnd := s.Bounds()
		sh.TrimmedBack = oldEnd - newEnd
	}
	return sh
}

// HandleScroll maps a scroll position to load steps. The bottom check runs
// first; both may fire in one call, which keeps a short window that shows
// no scrollbar from getting stuck. The top check is skipped when the bottom
// load just trimmed the front, or the two steps would cancel out.
func (s *Selector) HandleScroll(scrollTop, scrollHeight, clientHeight float64) Shift {
	var sh Shift
	if scrollTop+clientHeight >= scrollHeight-s.tolerance {
		sh = sh.add(s.LoadMore())
	}
	if math.Abs(scrollTop) <= s.tolerance && sh.TrimmedFront == 0 {
		sh = sh.add(s.LoadPrevious())
	}
	return sh
}

// FitView raises the window bound so that a full window holds more than
// rows plus one batch, where rows is the number of rows the renderer
// shows. A smaller full window sits at the top and the bottom of the view
// at once, and a load step at one edge lands on the other. The bound is
// never lowered.
func (s *Selector) FitView(rows int) {
	if rows <= 0 {
		return
	}
	s.maxBatches = max(s.maxBatches, MinBatchesForView(rows, s.batchSize))
}

// MinBatchesForView is the smallest window bound, in batches, whose full
// window is taller than rows plus one batch.
func MinBatchesForView(rows, batchSize int) int {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return rows/batchSize + 2
}

// Choose reports id to the selection sink and closes the window. Any ID
// from the current item list is accepted, visible or not; unknown IDs are
// rejected without calling the sink.
func (s *Selector) Choose(id string) bool {
	if _, ok := s.index[id]; !ok {
		return false
	}
	if s.onSelect != nil {
		s.onSelect(id)
	}
	s.open = false
	return true
}

// Window returns the materialized items in order. The returned slice
// shares storage with the item list and must be treated as read-only.
func (s *Selector) Window() []Item {
	start, end := s.Bounds()
	return s.items[start:end:end]
}

// Bounds returns the window as a half-open range of the full list.
func (s *Selector) Bounds() (start, end int) {
	n := len(s.items)
	return min(s.lo*s.batchSize, n), min(s.hi*s.batchSize, n)
}

// HeaderLabel is the closed-state header text: the selected item's label,
// the raw selection if it is not in the list, or the placeholder.
func (s *Selector) HeaderLabel() string {
	if s.selected == "" {
		return s.placeholder
	}
	if i, ok := s.index[s.selected]; ok {
		return s.items[i].DisplayLabel()
	}
	return s.selected
}

// BatchIndex is the 1-based index of the last materialized batch.
func (s *Selector) BatchIndex() int { return s.hi }

// BatchSize returns the configured batch size.
func (s *Selector) BatchSize() int { return s.batchSize }

// MaxBatches returns the window bound in batches.
func (s *Selector) MaxBatches() int { return s.maxBatches }

// Len is the length of the full item list.
func (s *Selector) Len() int { return len(s.items) }
