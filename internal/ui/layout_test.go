package ui

import (
	"testing"

	"carousel/internal/layout"
)

func TestDetermineLayoutMode(t *testing.T) {
	if got := DetermineLayoutMode(140, 30); got != LayoutWide {
		t.Fatalf("expected wide, got %v", got)
	}
	if got := DetermineLayoutMode(80, 24); got != LayoutCompact {
		t.Fatalf("expected compact, got %v", got)
	}
	if got := DetermineLayoutMode(39, 30); got != LayoutTooSmall {
		t.Fatalf("expected too-small, got %v", got)
	}
	if got := DetermineLayoutMode(100, 11); got != LayoutTooSmall {
		t.Fatalf("expected too-small by height, got %v", got)
	}
}

func TestGridCellsRoundTrip(t *testing.T) {
	g := DefaultGrid()
	if got := g.Viewport(10, 4); got != (layout.Size{W: 80, H: 64}) {
		t.Fatalf("unexpected viewport %+v", got)
	}
	p := g.PointAt(3, 2)
	if p.X != 28 || p.Y != 40 {
		t.Fatalf("unexpected cell center %+v", p)
	}
	c0, r0, c1, r1 := g.Cells(layout.Rect{X: 20, Y: 30, W: 40, H: 50})
	if c0 != 3 || c1 != 8 || r0 != 2 || r1 != 5 {
		t.Fatalf("unexpected cell range %d,%d..%d,%d", c0, r0, c1, r1)
	}
	if got := (Grid{}).normalized(); got != g {
		t.Fatalf("zero grid should normalize to default, got %+v", got)
	}
}
