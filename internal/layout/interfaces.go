package layout

// FrameSource is what the engine needs from the host surface.
type FrameSource interface {
	Bounds() Size
	ItemCount() int
	ContentOffset() Point
	ContentInset() float64
}

// Geometry is the query surface exposed to renderers and hit-testing.
type Geometry interface {
	Visible(rect Rect) []ItemAttributes
	At(index int) ItemAttributes
	ContentExtent() Size
	SnapTarget(proposed, velocity Point) Point
	OffscreenMargin() float64
	Snapshot() []ItemAttributes
}
