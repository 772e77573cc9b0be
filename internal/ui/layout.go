package ui

import (
	"math"

	"carousel/internal/layout"
)

// Rows taken by the header and the status line.
const chromeRows = 2

func DetermineLayoutMode(cols, rows int) LayoutMode {
	if cols < 40 || rows < 12 {
		return LayoutTooSmall
	}
	if cols >= 100 && rows >= 30 {
		return LayoutWide
	}
	return LayoutCompact
}

// Grid maps layout points onto terminal cells.
type Grid struct {
	CellW float64
	CellH float64
}

func DefaultGrid() Grid {
	return Grid{CellW: 8, CellH: 16}
}

func (g Grid) normalized() Grid {
	d := DefaultGrid()
	if g.CellW <= 0 {
		g.CellW = d.CellW
	}
	if g.CellH <= 0 {
		g.CellH = d.CellH
	}
	return g
}

// Viewport is the point size of a cols x rows cell area.
func (g Grid) Viewport(cols, rows int) layout.Size {
	return layout.Size{W: float64(max(0, cols)) * g.CellW, H: float64(max(0, rows)) * g.CellH}
}

// PointAt is the center of a cell, in points.
func (g Grid) PointAt(col, row int) layout.Point {
	return layout.Point{X: (float64(col) + 0.5) * g.CellW, Y: (float64(row) + 0.5) * g.CellH}
}

func (g Grid) Cols(width float64) int {
	return int(math.Floor(width / g.CellW))
}

func (g Grid) Row(y float64) int {
	return int(math.Floor(y / g.CellH))
}

// Cells covers r with the cells whose centers it contains, as a
// half-open [c0,c1) x [r0,r1) range.
func (g Grid) Cells(r layout.Rect) (c0, r0, c1, r1 int) {
	c0 = int(math.Round(r.MinX() / g.CellW))
	c1 = int(math.Round(r.MaxX() / g.CellW))
	r0 = int(math.Round(r.MinY() / g.CellH))
	r1 = int(math.Round(r.MaxY() / g.CellH))
	return c0, r0, c1, r1
}
