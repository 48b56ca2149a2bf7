package sizing

import (
	"sync"
	"testing"
)

// fakeViewport is a hand-driven ViewportSource.
type fakeViewport struct {
	mu    sync.Mutex
	width int
	subs  map[int]func()
	next  int
}

func newFakeViewport(width int) *fakeViewport {
	return &fakeViewport{width: width, subs: make(map[int]func())}
}

func (v *fakeViewport) Width() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width
}

func (v *fakeViewport) Notify(fn func()) (cancel func()) {
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

func (v *fakeViewport) subscriberCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

// resize sets the width and fires all subscribers, like a window resize.
func (v *fakeViewport) resize(width int) {
	v.mu.Lock()
	v.width = width
	subs := make([]func(), 0, len(v.subs))
	for _, fn := range v.subs {
		subs = append(subs, fn)
	}
	v.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

func TestEvaluateMobileThreshold(t *testing.T) {
	q := Query{GridLength: 10, MobileLayout: true}

	// Projected cell size is (W - 48 - 44) / 10; the floor is 32, so the
	// grid fits from W = 412 upward.
	if !Evaluate(q, 411) {
		t.Fatal("411 should be too small: cell size 31")
	}
	if Evaluate(q, 412) {
		t.Fatal("412 should fit: cell size 32")
	}
	if Evaluate(q, 800) {
		t.Fatal("800 should fit comfortably")
	}
}

func TestEvaluateZeroGrid(t *testing.T) {
	for _, w := range []int{0, 100, 10000} {
		if Evaluate(Query{GridLength: 0, MobileLayout: true}, w) {
			t.Fatalf("zero grid should never be too small (width %d)", w)
		}
		if Evaluate(Query{GridLength: -3}, w) {
			t.Fatalf("negative grid should never be too small (width %d)", w)
		}
	}
}

func TestEvaluateBranches(t *testing.T) {
	// At width 1200 a 10-cell grid fits in every mode, but the sidebar
	// allowances eat more than mobile padding does.
	q := Query{GridLength: 10}

	mobile := q
	mobile.MobileLayout = true
	touch := q
	touch.TouchDevice = true

	// Mobile: (1200-48-44)/10 = 110. Touch sidebar: (1200-352-44)/10 = 80.
	// Desktop: (min(720, 800)-44)/10 = 67.
	if Evaluate(mobile, 1200) || Evaluate(touch, 1200) || Evaluate(q, 1200) {
		t.Fatal("10-cell grid should fit at width 1200 in every mode")
	}

	// MobileLayout takes precedence over TouchDevice.
	both := Query{GridLength: 10, MobileLayout: true, TouchDevice: true}
	if Evaluate(both, 412) {
		t.Fatal("mobile branch should apply when both flags are set")
	}

	// Desktop is capped: widening beyond the cap changes nothing.
	big := Query{GridLength: 20}
	if Evaluate(big, 3000) != Evaluate(big, 100000) {
		t.Fatal("desktop width cap should make huge viewports equivalent")
	}
}

func TestAdvisorTracksResizes(t *testing.T) {
	v := newFakeViewport(800)
	var flips []bool
	a := Watch(v, Query{GridLength: 10, MobileLayout: true}, func(tooSmall bool) {
		flips = append(flips, tooSmall)
	})
	defer a.Stop()

	if a.TooSmall() {
		t.Fatal("800 wide should fit on mount")
	}

	v.resize(300)
	if !a.TooSmall() {
		t.Fatal("300 wide should be too small after resize")
	}
	v.resize(500)
	if a.TooSmall() {
		t.Fatal("500 wide should fit again")
	}

	if len(flips) != 2 || flips[0] != true || flips[1] != false {
		t.Fatalf("expected onChange [true false], got %v", flips)
	}
}

func TestAdvisorSetQuery(t *testing.T) {
	v := newFakeViewport(500)
	a := Watch(v, Query{GridLength: 10, MobileLayout: true}, nil)
	defer a.Stop()

	if a.TooSmall() {
		t.Fatal("10-cell grid should fit at 500")
	}
	a.SetQuery(Query{GridLength: 14, MobileLayout: true})
	if !a.TooSmall() {
		t.Fatal("14-cell grid should be too small at 500")
	}
}

func TestAdvisorStopReleasesSubscription(t *testing.T) {
	v := newFakeViewport(800)
	fired := 0
	a := Watch(v, Query{GridLength: 10, MobileLayout: true}, func(bool) { fired++ })

	if v.subscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", v.subscriberCount())
	}

	a.Stop()
	a.Stop() // idempotent

	if v.subscriberCount() != 0 {
		t.Fatalf("expected 0 subscribers after Stop, got %d", v.subscriberCount())
	}

	// A stale resize must not flip the decision or fire callbacks.
	v.resize(100)
	if a.TooSmall() {
		t.Fatal("stopped advisor should hold its last decision")
	}
	if fired != 0 {
		t.Fatalf("no callbacks expected after Stop, got %d", fired)
	}
}
