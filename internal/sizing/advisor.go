// Package sizing decides whether a square puzzle grid fits the viewport
// at a usable cell size, and exposes the decision as a value that tracks
// viewport resizes.
package sizing

import "sync"

// Layout constants, in layout units.
const (
	// minCellSize is the usability floor: below this, cells are
	// unreliable touch/click targets.
	minCellSize = 32
	// cellGap is the spacing between cells; a grid of n cells has n+1
	// gaps counting the outer border.
	cellGap = 4

	// mobilePadding is the horizontal padding of the mobile layout.
	mobilePadding = 48

	// Sidebar layout (touch device, non-mobile): the grid shares the
	// viewport with a fixed sidebar.
	sidebarWidth   = 280
	sidebarGap     = 24
	sidebarMargins = 48

	// Desktop layout caps the board and otherwise takes two thirds of
	// the viewport.
	desktopMaxWidth = 720
)

// Query describes the grid and layout mode to size for.
type Query struct {
	// GridLength is the side length of the square grid. Zero or
	// negative means no grid, which is never too small.
	GridLength int
	// TouchDevice selects the sidebar allowances when MobileLayout is off.
	TouchDevice bool
	// MobileLayout selects the full-width mobile allowances and takes
	// precedence over TouchDevice.
	MobileLayout bool
}

// Evaluate reports whether the grid's projected cell size falls below the
// usability floor at the given viewport width. Pure; no environment reads.
func Evaluate(q Query, viewportWidth int) bool {
	if q.GridLength <= 0 {
		return false
	}

	var available int
	switch {
	case q.MobileLayout:
		available = viewportWidth - mobilePadding
	case q.TouchDevice:
		available = viewportWidth - sidebarWidth - sidebarGap - sidebarMargins
	default:
		available = desktopMaxWidth
		if w := viewportWidth * 2 / 3; w < available {
			available = w
		}
	}

	available -= cellGap * (q.GridLength + 1)
	return available/q.GridLength < minCellSize
}

// ViewportSource provides the current viewport width and change
// notifications. Notify returns a cancel function that must stop further
// callbacks once called.
type ViewportSource interface {
	Width() int
	Notify(fn func()) (cancel func())
}

// Advisor tracks a Query against a ViewportSource. It evaluates on
// creation and on every source notification until Stop releases the
// subscription.
type Advisor struct {
	mu       sync.Mutex
	src      ViewportSource
	query    Query
	tooSmall bool
	onChange func(tooSmall bool)
	cancel   func()
	stopped  bool
}

// Watch subscribes to the source and evaluates immediately. onChange, if
// non-nil, fires whenever the decision flips; it never fires after Stop.
func Watch(src ViewportSource, q Query, onChange func(tooSmall bool)) *Advisor {
	a := &Advisor{
		src:      src,
		query:    q,
		tooSmall: Evaluate(q, src.Width()),
		onChange: onChange,
	}
	a.cancel = src.Notify(a.refresh)
	return a
}

// TooSmall returns the latest decision.
func (a *Advisor) TooSmall() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tooSmall
}

// SetQuery replaces the query and re-evaluates, for when the grid or
// layout mode changes without a resize.
func (a *Advisor) SetQuery(q Query) {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	a.query = q
	a.mu.Unlock()
	a.refresh()
}

// Stop releases the viewport subscription. Safe to call more than once;
// afterwards the advisor holds its last decision and fires no callbacks.
func (a *Advisor) Stop() {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	a.stopped = true
	cancel := a.cancel
	a.cancel = nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (a *Advisor) refresh() {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	next := Evaluate(a.query, a.src.Width())
	changed := next != a.tooSmall
	a.tooSmall = next
	onChange := a.onChange
	a.mu.Unlock()

	if changed && onChange != nil {
		onChange(next)
	}
}
