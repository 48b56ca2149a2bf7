package tui

import "sync"

// unitsPerColumn converts terminal columns to the layout units the sizing
// package works in: a cell at the 32-unit usability floor is 4 columns.
const unitsPerColumn = 8

// viewportFeed adapts Bubble Tea window-size messages to a
// sizing.ViewportSource. Resize is called from Update, so notifications
// run synchronously on the event loop.
type viewportFeed struct {
	mu    sync.Mutex
	width int // layout units
	subs  map[int]func()
	next  int
}

func newViewportFeed(columns int) *viewportFeed {
	return &viewportFeed{width: columns * unitsPerColumn, subs: make(map[int]func())}
}

func (v *viewportFeed) Width() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width
}

func (v *viewportFeed) Notify(fn func()) (cancel func()) {
	v.mu.Lock()
	id := v.next
	v.next++
	v.subs[id] = fn
	v.mu.Unlock()
	return func() {
		v.mu.Lock()
		delete(v.subs, id)
		v.mu.Unlock()
	}
}

// Resize records a new terminal width and notifies subscribers.
func (v *viewportFeed) Resize(columns int) {
	v.mu.Lock()
	v.width = columns * unitsPerColumn
	subs := make([]func(), 0, len(v.subs))
	for _, fn := range v.subs {
		subs = append(subs, fn)
	}
	v.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}
