package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
)

type cell struct {
	ch rune
	fg string
	bg string
	// bold marks title text.
	bold bool
}

// canvas is a cell grid the carousel is painted on before it is turned
// into styled lines.
type canvas struct {
	cols  int
	rows  int
	cells []cell
}

func newCanvas(cols, rows int, bg string) *canvas {
	c := &canvas{cols: max(0, cols), rows: max(0, rows)}
	c.cells = make([]cell, c.cols*c.rows)
	for i := range c.cells {
		c.cells[i] = cell{ch: ' ', bg: bg}
	}
	return c
}

func (c *canvas) at(col, row int) *cell {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return nil
	}
	return &c.cells[row*c.cols+col]
}

func (c *canvas) fill(c0, r0, c1, r1 int, bg string) {
	for row := max(0, r0); row < min(r1, c.rows); row++ {
		for col := max(0, c0); col < min(c1, c.cols); col++ {
			c.cells[row*c.cols+col] = cell{ch: ' ', bg: bg}
		}
	}
}

// text writes s from col, stopping before limit. The background of each
// cell is kept.
func (c *canvas) text(col, row, limit int, s, fg string, bold bool) {
	for _, ch := range s {
		if col >= limit {
			return
		}
		if dst := c.at(col, row); dst != nil {
			dst.ch = ch
			dst.fg = fg
			dst.bold = bold
		}
		col++
	}
}

func (c *canvas) put(col, row int, ch rune, fg string) {
	if dst := c.at(col, row); dst != nil {
		dst.ch = ch
		dst.fg = fg
	}
}

// lines renders the grid, one styled string per row, merging runs of
// cells that share a style.
func (c *canvas) lines() []string {
	styles := map[cell]lipgloss.Style{}
	styleFor := func(k cell) lipgloss.Style {
		k.ch = 0
		if st, ok := styles[k]; ok {
			return st
		}
		st := lipgloss.NewStyle().Background(hexColor(k.bg))
		if k.fg != "" {
			st = st.Foreground(hexColor(k.fg))
		}
		if k.bold {
			st = st.Bold(true)
		}
		styles[k] = st
		return st
	}

	out := make([]string, 0, c.rows)
	for row := 0; row < c.rows; row++ {
		var b strings.Builder
		var run []rune
		var runStyle cell
		flush := func() {
			if len(run) == 0 {
				return
			}
			b.WriteString(styleFor(runStyle).Render(string(run)))
			run = run[:0]
		}
		for col := 0; col < c.cols; col++ {
			cur := c.cells[row*c.cols+col]
			key := cell{fg: cur.fg, bg: cur.bg, bold: cur.bold}
			if len(run) > 0 && key != runStyle {
				flush()
			}
			runStyle = key
			run = append(run, cur.ch)
		}
		flush()
		out = append(out, b.String())
	}
	return out
}

// plain is the grid text without styling.
func (c *canvas) plain() []string {
	out := make([]string, 0, c.rows)
	for row := 0; row < c.rows; row++ {
		rs := make([]rune, c.cols)
		for col := range rs {
			rs[col] = c.cells[row*c.cols+col].ch
		}
		out = append(out, string(rs))
	}
	return out
}
