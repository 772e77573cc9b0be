package layout

import "fmt"

// Engine owns the focus state and the published attribute snapshots.
// It is not safe for concurrent use; the host drives it from one goroutine.
type Engine struct {
	params Parameters
	src    FrameSource

	focus     FocusState
	current   []ItemAttributes
	previous  []ItemAttributes
	dirty     bool
	preparing bool
	passes    int
}

func NewEngine(p Parameters, src FrameSource) *Engine {
	return &Engine{
		params:  p,
		src:     src,
		current: []ItemAttributes{},
		dirty:   true,
	}
}

func (e *Engine) Parameters() Parameters { return e.params }

func (e *Engine) Focus() FocusState { return e.focus }

// SetFocus replaces the focus state and invalidates the layout.
func (e *Engine) SetFocus(f FocusState) {
	if count := e.src.ItemCount(); count > 0 {
		f.Index = clampIndex(f.Index, count)
	} else if f.Index < 0 {
		f.Index = 0
	}
	e.focus = f
	e.Invalidate()
}

// Invalidate marks the snapshot stale. The recompute happens on the next
// Layout call or query, so repeated invalidation is cheap.
func (e *Engine) Invalidate() {
	e.dirty = true
}

func (e *Engine) NeedsLayout() bool { return e.dirty }

// Passes counts completed layout passes.
func (e *Engine) Passes() int { return e.passes }

// Layout recomputes the snapshot when it is stale. A call made while a
// pass is already running is ignored.
func (e *Engine) Layout() {
	if !e.dirty || e.preparing {
		return
	}
	e.preparing = true
	defer func() { e.preparing = false }()

	e.dirty = false
	next := Prepare(e.params, e.src.Bounds(), e.src.ItemCount(), e.focus, e.current)
	e.previous = e.current
	e.current = next
	e.passes++
}

func (e *Engine) Progress() float64 {
	return Progress(e.params, e.focus.Offset)
}

func (e *Engine) ScrollEnabled() bool {
	return ScrollEnabled(e.params, e.focus.Offset)
}

func (e *Engine) CollapsedRatio() float64 {
	return e.params.CollapsedRatio(e.src.Bounds())
}

func (e *Engine) OffscreenMargin() float64 {
	return e.params.OffscreenMargin()
}

func (e *Engine) Snapshot() []ItemAttributes {
	e.Layout()
	return e.current
}

// Previous is the snapshot published before the current one.
func (e *Engine) Previous() []ItemAttributes {
	return e.previous
}

func (e *Engine) Visible(rect Rect) []ItemAttributes {
	return Visible(e.Snapshot(), rect)
}

// At returns the attributes for index. Querying outside the current
// snapshot is a lifecycle bug in the caller and panics.
func (e *Engine) At(index int) ItemAttributes {
	snap := e.Snapshot()
	if index < 0 || index >= len(snap) {
		panic(fmt.Sprintf("layout: item index %d out of range [0,%d)", index, len(snap)))
	}
	return snap[index]
}

func (e *Engine) ContentExtent() Size {
	return ContentExtent(e.params, e.Snapshot())
}

func (e *Engine) SnapTarget(proposed, velocity Point) Point {
	bounds := e.src.Bounds()
	return SnapTarget(proposed, velocity, e.src.ContentOffset(), bounds, e.src.ContentInset(), e.Snapshot())
}

var _ Geometry = (*Engine)(nil)
