package layout

import (
	"math"
	"sort"
)

// Progress normalizes a card's vertical offset against the identity
// distance, clamped to [0, 1].
func Progress(p Parameters, offset float64) float64 {
	if p.IdentityDistance <= 0 {
		return 0
	}
	return math.Max(0, math.Min(offset/p.IdentityDistance, 1))
}

// ScrollEnabled reports whether horizontal paging is allowed. Paging is
// locked while any card is partly or fully expanded.
func ScrollEnabled(p Parameters, offset float64) bool {
	return Progress(p, offset) == 0
}

// Prepare computes one layout pass. prev is the previously published
// snapshot; it is only read to keep settled items from being pulled back
// into an overscroll lift while the focused card decelerates.
func Prepare(p Parameters, bounds Size, count int, focus FocusState, prev []ItemAttributes) []ItemAttributes {
	if count <= 0 {
		return []ItemAttributes{}
	}
	focused := clampIndex(focus.Index, count)
	progress := Progress(p, focus.Offset)
	ratio := p.CollapsedRatio(bounds)
	size := p.ItemSize(bounds)
	pitch := p.Pitch(bounds)

	out := make([]ItemAttributes, count)
	for i := 0; i < count; i++ {
		scale := ratio
		if i == focused {
			scale += progress * (1 - ratio)
		}

		var tx, ty float64
		switch {
		case i < focused:
			tx = -progress * p.ShiftX
			ty = -progress * p.ShiftY
		case i > focused:
			tx = progress * p.ShiftX
			ty = -progress * p.ShiftY
		}

		if focus.Offset < 0 && i != focused && (!focus.Decelerating || liftedBelowRest(prev, i)) {
			ty = -focus.Offset * scale
		}

		out[i] = ItemAttributes{
			Index: i,
			Center: Point{
				X: bounds.W/2 + float64(i)*pitch,
				Y: bounds.H - scale*(size.H-0.5*size.H),
			},
			Size:        size,
			Scale:       scale,
			Translation: Point{X: tx, Y: ty},
		}
	}
	return out
}

func liftedBelowRest(prev []ItemAttributes, i int) bool {
	if i < 0 || i >= len(prev) {
		return false
	}
	return prev[i].Translation.Y > 0
}

func clampIndex(i, count int) int {
	if i < 0 {
		return 0
	}
	if i >= count {
		return count - 1
	}
	return i
}

// ContentExtent is the scrollable size needed to show every item, padded
// by the side inset and the offscreen margin on the trailing edge.
func ContentExtent(p Parameters, attrs []ItemAttributes) Size {
	var w, h float64
	for _, a := range attrs {
		w = math.Max(w, a.Center.X+0.5*a.Size.W*a.Scale)
		h = math.Max(h, a.Center.Y+0.5*a.Size.H*a.Scale)
	}
	return Size{W: w + p.SideInset + p.OffscreenMargin(), H: h}
}

// Visible returns the items whose frame intersects rect, in index order.
func Visible(attrs []ItemAttributes, rect Rect) []ItemAttributes {
	out := make([]ItemAttributes, 0, len(attrs))
	for _, a := range attrs {
		if a.Frame().Intersects(rect) {
			out = append(out, a)
		}
	}
	return out
}

// SnapTarget picks the page to settle on for a horizontal fling. Items
// behind the fling direction are never chosen; when nothing qualifies the
// proposed offset is returned unchanged.
func SnapTarget(proposed, velocity, current Point, container Size, leftInset float64, attrs []ItemAttributes) Point {
	window := Rect{
		X: proposed.X - container.W,
		Y: proposed.Y,
		W: container.W * 2,
		H: container.H,
	}
	candidates := make([]Rect, 0, 4)
	for _, a := range Visible(attrs, window) {
		f := a.Frame()
		if oppositeDirection(f, current, velocity) {
			continue
		}
		candidates = append(candidates, f)
	}
	if len(candidates) == 0 {
		return proposed
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return math.Abs(candidates[i].X-proposed.X) < math.Abs(candidates[j].X-proposed.X)
	})
	best := candidates[0]
	diff := best.X - proposed.X - leftInset
	return Point{
		X: proposed.X + diff + 0.5*(best.W-container.W),
		Y: proposed.Y,
	}
}

func oppositeDirection(f Rect, current, velocity Point) bool {
	return (f.X < current.X && velocity.X > 0) || (f.X > current.X && velocity.X < 0)
}
