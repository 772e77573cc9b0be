package layout

import (
	"math"
	"testing"
)

type fakeSource struct {
	bounds Size
	count  int
	offset Point
	inset  float64
	onRead func()
}

func (f *fakeSource) Bounds() Size {
	if f.onRead != nil {
		f.onRead()
	}
	return f.bounds
}
func (f *fakeSource) ItemCount() int        { return f.count }
func (f *fakeSource) ContentOffset() Point  { return f.offset }
func (f *fakeSource) ContentInset() float64 { return f.inset }

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestPrepareReturnsOneEntryPerItem(t *testing.T) {
	p := DefaultParameters()
	for n := 0; n < 12; n++ {
		attrs := Prepare(p, Size{W: 400, H: 800}, n, FocusState{Index: n / 2, Offset: 50}, nil)
		if len(attrs) != n {
			t.Fatalf("count %d: expected %d entries, got %d", n, n, len(attrs))
		}
		for i, a := range attrs {
			if a.Index != i {
				t.Fatalf("count %d: entry %d has index %d", n, i, a.Index)
			}
			if a.Size.W <= 0 || a.Size.H <= 0 {
				t.Fatalf("count %d: entry %d has non-positive size %+v", n, i, a.Size)
			}
		}
	}
}

func TestPrepareKeepsPositiveSizeInTinyContainer(t *testing.T) {
	p := DefaultParameters()
	p.ItemHeight = 0
	attrs := Prepare(p, Size{W: 10, H: 10}, 3, FocusState{}, nil)
	for _, a := range attrs {
		if a.Size.W <= 0 || a.Size.H <= 0 || a.Scale <= 0 {
			t.Fatalf("expected positive geometry, got %+v", a)
		}
	}
}

func TestPrepareOutOfRangeFocusDoesNotPanic(t *testing.T) {
	p := DefaultParameters()
	attrs := Prepare(p, Size{W: 400, H: 800}, 3, FocusState{Index: 9, Offset: 146}, nil)
	if !approx(attrs[2].Scale, 1) {
		t.Fatalf("expected focus clamped to last item, got scale %v", attrs[2].Scale)
	}
}

func TestProgressClampedAndMonotonic(t *testing.T) {
	p := DefaultParameters()
	last := -1.0
	for off := -300.0; off <= 400; off += 0.5 {
		got := Progress(p, off)
		if got < 0 || got > 1 {
			t.Fatalf("progress %v out of range at offset %v", got, off)
		}
		if got < last {
			t.Fatalf("progress decreased at offset %v", off)
		}
		if off >= p.IdentityDistance && got != 1 {
			t.Fatalf("expected progress pinned to 1 at %v, got %v", off, got)
		}
		last = got
	}
}

func TestScrollEnabledOnlyAtZeroProgress(t *testing.T) {
	p := DefaultParameters()
	if !ScrollEnabled(p, 0) || !ScrollEnabled(p, -30) {
		t.Fatalf("expected paging enabled when collapsed or pulled down")
	}
	if ScrollEnabled(p, 0.1) || ScrollEnabled(p, 200) {
		t.Fatalf("expected paging disabled while expanded")
	}
}

func TestFocusedScaleSpansCollapsedRatioToIdentity(t *testing.T) {
	p := DefaultParameters()
	bounds := Size{W: 400, H: 800}
	ratio := p.CollapsedRatio(bounds)

	collapsed := Prepare(p, bounds, 5, FocusState{Index: 2, Offset: 0}, nil)
	if !approx(collapsed[2].Scale, ratio) {
		t.Fatalf("expected collapsed ratio %v, got %v", ratio, collapsed[2].Scale)
	}
	expanded := Prepare(p, bounds, 5, FocusState{Index: 2, Offset: p.IdentityDistance}, nil)
	if expanded[2].Scale != 1 {
		t.Fatalf("expected exact identity scale, got %v", expanded[2].Scale)
	}
	for _, off := range []float64{0, 30, 146, 500} {
		attrs := Prepare(p, bounds, 5, FocusState{Index: 2, Offset: off}, nil)
		for i, a := range attrs {
			if i == 2 {
				continue
			}
			if !approx(a.Scale, ratio) {
				t.Fatalf("offset %v: item %d scale %v, want %v", off, i, a.Scale, ratio)
			}
		}
	}
}

func TestPrepareHalfProgressScenario(t *testing.T) {
	p := DefaultParameters()
	bounds := Size{W: 400, H: 800}
	ratio := p.CollapsedRatio(bounds)
	attrs := Prepare(p, bounds, 8, FocusState{Index: 3, Offset: 73}, nil)

	if !approx(Progress(p, 73), 0.5) {
		t.Fatalf("expected progress 0.5")
	}
	if !approx(attrs[3].Scale, (ratio+1)/2) {
		t.Fatalf("expected midpoint scale, got %v", attrs[3].Scale)
	}
	if attrs[3].Translation != (Point{}) {
		t.Fatalf("focused item must not be shifted, got %+v", attrs[3].Translation)
	}
	for i := 0; i < 3; i++ {
		if !approx(attrs[i].Translation.X, -0.5*p.ShiftX) || !approx(attrs[i].Translation.Y, -0.5*p.ShiftY) {
			t.Fatalf("item %d: unexpected translation %+v", i, attrs[i].Translation)
		}
	}
	for i := 4; i < 8; i++ {
		if !approx(attrs[i].Translation.X, 0.5*p.ShiftX) || !approx(attrs[i].Translation.Y, -0.5*p.ShiftY) {
			t.Fatalf("item %d: unexpected translation %+v", i, attrs[i].Translation)
		}
	}
}

func TestPrepareCentersFollowPitchAndSitOnBottom(t *testing.T) {
	p := DefaultParameters()
	bounds := Size{W: 400, H: 800}
	attrs := Prepare(p, bounds, 4, FocusState{Index: 1, Offset: 40}, nil)
	pitch := p.Pitch(bounds)
	for i, a := range attrs {
		if !approx(a.Center.X, 200+float64(i)*pitch) {
			t.Fatalf("item %d: center x %v", i, a.Center.X)
		}
		bottom := a.Center.Y + 0.5*a.Size.H*a.Scale
		if !approx(bottom, bounds.H) {
			t.Fatalf("item %d: expected bottom at %v, got %v", i, bounds.H, bottom)
		}
	}
}

func TestOverscrollLiftsSiblings(t *testing.T) {
	p := DefaultParameters()
	bounds := Size{W: 400, H: 800}
	attrs := Prepare(p, bounds, 4, FocusState{Index: 1, Offset: -20}, nil)
	for i, a := range attrs {
		if i == 1 {
			if a.Translation.Y != 0 {
				t.Fatalf("focused item should not lift, got %v", a.Translation.Y)
			}
			continue
		}
		if !approx(a.Translation.Y, 20*a.Scale) {
			t.Fatalf("item %d: expected lift %v, got %v", i, 20*a.Scale, a.Translation.Y)
		}
	}
}

func TestOverscrollLiftSuppressedForSettledItemsWhileDecelerating(t *testing.T) {
	p := DefaultParameters()
	bounds := Size{W: 400, H: 800}
	prev := Prepare(p, bounds, 3, FocusState{Index: 1, Offset: -30}, nil)
	prev[2].Translation.Y = 0

	attrs := Prepare(p, bounds, 3, FocusState{Index: 1, Offset: -10, Decelerating: true}, prev)
	if !approx(attrs[0].Translation.Y, 10*attrs[0].Scale) {
		t.Fatalf("item still below rest should follow the offset, got %v", attrs[0].Translation.Y)
	}
	if attrs[2].Translation.Y != 0 {
		t.Fatalf("settled item should stay at rest, got %v", attrs[2].Translation.Y)
	}

	short := Prepare(p, bounds, 3, FocusState{Index: 1, Offset: -10, Decelerating: true}, prev[:1])
	if short[2].Translation.Y != 0 {
		t.Fatalf("missing previous entry counts as at rest, got %v", short[2].Translation.Y)
	}
}

func TestContentExtent(t *testing.T) {
	p := DefaultParameters()
	if got := ContentExtent(p, nil); got.W != p.SideInset+p.OffscreenMargin() || got.H != 0 {
		t.Fatalf("unexpected empty extent %+v", got)
	}
	bounds := Size{W: 400, H: 800}
	attrs := Prepare(p, bounds, 3, FocusState{}, nil)
	got := ContentExtent(p, attrs)
	last := attrs[2]
	wantW := last.Center.X + 0.5*last.Size.W*last.Scale + p.SideInset + p.OffscreenMargin()
	if !approx(got.W, wantW) || !approx(got.H, bounds.H) {
		t.Fatalf("unexpected extent %+v, want w=%v h=%v", got, wantW, bounds.H)
	}
}

func TestOffscreenMarginDefault(t *testing.T) {
	if got := DefaultParameters().OffscreenMargin(); got != 7 {
		t.Fatalf("expected margin 7, got %v", got)
	}
}

func TestSnapTargetCentersNearestItem(t *testing.T) {
	p := DefaultParameters()
	bounds := Size{W: 400, H: 800}
	attrs := Prepare(p, bounds, 6, FocusState{}, nil)
	pitch := p.Pitch(bounds)

	got := SnapTarget(Point{X: pitch*2 + 20}, Point{}, Point{X: pitch * 2}, bounds, 0, attrs)
	want := attrs[2].Center.X - bounds.W/2
	if !approx(got.X, want) {
		t.Fatalf("expected snap to item 2 at %v, got %v", want, got.X)
	}
}

func TestSnapTargetIgnoresItemsBehindFling(t *testing.T) {
	p := DefaultParameters()
	bounds := Size{W: 400, H: 800}
	attrs := Prepare(p, bounds, 6, FocusState{}, nil)
	pitch := p.Pitch(bounds)
	current := Point{X: pitch*2 - 100}

	forward := SnapTarget(Point{X: current.X - 116}, Point{X: 1}, current, bounds, 0, attrs)
	if !approx(forward.X, pitch*2) {
		t.Fatalf("rightward fling must settle ahead on item 2 (%v), got %v", pitch*2, forward.X)
	}
	backward := SnapTarget(Point{X: current.X + 124}, Point{X: -1}, current, bounds, 0, attrs)
	if !approx(backward.X, pitch) {
		t.Fatalf("leftward fling must settle behind on item 1 (%v), got %v", pitch, backward.X)
	}
	still := SnapTarget(Point{X: current.X + 124}, Point{}, current, bounds, 0, attrs)
	if !approx(still.X, pitch*2) {
		t.Fatalf("without velocity the nearest item wins, got %v", still.X)
	}
}

func TestSnapTargetFallsBackToProposed(t *testing.T) {
	p := DefaultParameters()
	proposed := Point{X: 123, Y: 4}
	if got := SnapTarget(proposed, Point{X: 1}, Point{}, Size{W: 400, H: 800}, 0, nil); got != proposed {
		t.Fatalf("expected proposed offset back, got %+v", got)
	}
	attrs := Prepare(p, Size{W: 400, H: 800}, 2, FocusState{}, nil)
	far := Point{X: 10000}
	if got := SnapTarget(far, Point{X: 1}, Point{}, Size{W: 400, H: 800}, 0, attrs); got != far {
		t.Fatalf("expected proposed offset when no item is near, got %+v", got)
	}
}

func TestVisibleFiltersByFrame(t *testing.T) {
	p := DefaultParameters()
	bounds := Size{W: 400, H: 800}
	attrs := Prepare(p, bounds, 8, FocusState{}, nil)
	got := Visible(attrs, Rect{X: 0, Y: 0, W: bounds.W, H: bounds.H})
	if len(got) == 0 || got[0].Index != 0 {
		t.Fatalf("expected first item visible, got %+v", got)
	}
	for _, a := range got {
		if a.Index > 2 {
			t.Fatalf("item %d should be off screen", a.Index)
		}
	}
}

func TestEngineDefersInvalidation(t *testing.T) {
	src := &fakeSource{bounds: Size{W: 400, H: 800}, count: 4}
	e := NewEngine(DefaultParameters(), src)
	e.SetFocus(FocusState{Index: 1, Offset: 10})
	e.SetFocus(FocusState{Index: 1, Offset: 20})
	if e.Passes() != 0 {
		t.Fatalf("expected no eager layout")
	}
	_ = e.Snapshot()
	_ = e.Snapshot()
	if e.Passes() != 1 {
		t.Fatalf("expected one pass, got %d", e.Passes())
	}
}

func TestEngineIgnoresReentrantLayout(t *testing.T) {
	src := &fakeSource{bounds: Size{W: 400, H: 800}, count: 4}
	e := NewEngine(DefaultParameters(), src)
	calls := 0
	src.onRead = func() {
		calls++
		e.Invalidate()
		e.Layout()
	}
	_ = e.Snapshot()
	if calls != 1 || e.Passes() != 1 {
		t.Fatalf("expected a single non-recursive pass, calls=%d passes=%d", calls, e.Passes())
	}
	if !e.NeedsLayout() {
		t.Fatalf("invalidation during a pass should stay pending")
	}
}

func TestEngineKeepsPreviousSnapshot(t *testing.T) {
	src := &fakeSource{bounds: Size{W: 400, H: 800}, count: 2}
	e := NewEngine(DefaultParameters(), src)
	first := e.Snapshot()
	e.SetFocus(FocusState{Index: 0, Offset: 146})
	second := e.Snapshot()
	if len(e.Previous()) != len(first) || e.Previous()[0].Scale != first[0].Scale {
		t.Fatalf("expected previous snapshot to be the first pass")
	}
	if second[0].Scale != 1 {
		t.Fatalf("expected expanded focus, got %v", second[0].Scale)
	}
}

func TestEngineAtPanicsOutOfRange(t *testing.T) {
	src := &fakeSource{bounds: Size{W: 400, H: 800}, count: 2}
	e := NewEngine(DefaultParameters(), src)
	_ = e.At(1)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for out-of-range index")
		}
	}()
	_ = e.At(2)
}

func TestEngineClampsFocusIndex(t *testing.T) {
	src := &fakeSource{bounds: Size{W: 400, H: 800}, count: 3}
	e := NewEngine(DefaultParameters(), src)
	e.SetFocus(FocusState{Index: 7})
	if e.Focus().Index != 2 {
		t.Fatalf("expected clamped index 2, got %d", e.Focus().Index)
	}
}

func TestTransformMatchesFrame(t *testing.T) {
	a := ItemAttributes{Center: Point{X: 100, Y: 200}, Size: Size{W: 40, H: 60}, Scale: 0.5, Translation: Point{X: 3, Y: -4}}
	m := a.Transform()
	x, y := m.TransformPoint(-20, -30)
	f := a.Frame()
	if !approx(x, f.X) || !approx(y, f.Y) {
		t.Fatalf("transform corner (%v,%v) differs from frame origin (%v,%v)", x, y, f.X, f.Y)
	}
}

func TestLocalInvertsTransform(t *testing.T) {
	a := ItemAttributes{Center: Point{X: 100, Y: 200}, Size: Size{W: 40, H: 60}, Scale: 0.5, Translation: Point{X: 3, Y: -4}}
	x, y := a.Transform().TransformPoint(-7, 12)
	local, ok := a.Local(Point{X: x, Y: y})
	if !ok || !approx(local.X, -7) || !approx(local.Y, 12) {
		t.Fatalf("expected (-7,12) back, got %+v ok=%v", local, ok)
	}
	f := a.Frame()
	corner, _ := a.Local(Point{X: f.X, Y: f.Y})
	if !approx(corner.X, -20) || !approx(corner.Y, -30) {
		t.Fatalf("frame origin should map to the local corner, got %+v", corner)
	}
	if _, ok := (ItemAttributes{Size: Size{W: 1, H: 1}}).Local(Point{}); ok {
		t.Fatalf("zero scale item must not invert")
	}
}
