package layout

import "github.com/fogleman/gg"

type Point struct {
	X float64
	Y float64
}

type Size struct {
	W float64
	H float64
}

type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

func (r Rect) MinX() float64 { return r.X }
func (r Rect) MaxX() float64 { return r.X + r.W }
func (r Rect) MinY() float64 { return r.Y }
func (r Rect) MaxY() float64 { return r.Y + r.H }

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Intersects reports whether the rects overlap. Rects that only share an
// edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.MaxX() && o.X < r.MaxX() && r.Y < o.MaxY() && o.Y < r.MaxY()
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.MaxX() && p.Y >= r.Y && p.Y < r.MaxY()
}

func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// FocusState is the single scalar driving a layout pass: which item is
// focused, how far its card is scrolled and whether that scroll is
// decelerating after a release.
type FocusState struct {
	Index        int
	Offset       float64
	Decelerating bool
}

type ItemAttributes struct {
	Index       int
	Center      Point
	Size        Size
	Scale       float64
	Translation Point
}

// Frame is the axis-aligned bounding box of the item after its scale and
// translation are applied around the center.
func (a ItemAttributes) Frame() Rect {
	w := a.Size.W * a.Scale
	h := a.Size.H * a.Scale
	return Rect{
		X: a.Center.X + a.Translation.X - w/2,
		Y: a.Center.Y + a.Translation.Y - h/2,
		W: w,
		H: h,
	}
}

// Transform maps item-local points (origin at the untransformed center)
// into container space: scale first, then translate.
func (a ItemAttributes) Transform() gg.Matrix {
	return gg.Matrix{
		XX: a.Scale,
		YY: a.Scale,
		X0: a.Center.X + a.Translation.X,
		Y0: a.Center.Y + a.Translation.Y,
	}
}

// Local maps a container point into item-local coordinates by inverting
// Transform. It reports false for an item with no scale.
func (a ItemAttributes) Local(p Point) (Point, bool) {
	if a.Scale <= 0 {
		return Point{}, false
	}
	m := a.Transform()
	inv := gg.Translate(-m.X0, -m.Y0).Multiply(gg.Scale(1/m.XX, 1/m.YY))
	x, y := inv.TransformPoint(p.X, p.Y)
	return Point{X: x, Y: y}, true
}
