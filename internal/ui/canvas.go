package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type paint int

const (
	paintNone paint = iota
	paintItem
	paintSelected
	paintSeparator
	paintStatus
	paintError
)

type cell struct {
	text  string // "" marks the right half of a wide rune
	paint paint
}

// canvas is a grid of terminal cells that menus are composited onto
// before styling, so overlapping menus never split escape sequences.
type canvas struct {
	width, height int
	cells         [][]cell
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: width, height: height, cells: make([][]cell, height)}
	for y := range c.cells {
		row := make([]cell, width)
		for x := range row {
			row[x] = cell{text: " "}
		}
		c.cells[y] = row
	}
	return c
}

func (c *canvas) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.width && y < c.height
}

// fill paints a blank box.
func (c *canvas) fill(x, y, w, h int, p paint) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			if c.inside(col, row) {
				c.cells[row][col] = cell{text: " ", paint: p}
			}
		}
	}
}

// text writes s starting at (x, y) and returns the column after it.
func (c *canvas) text(x, y int, s string, p paint) int {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if c.inside(x, y) {
			c.cells[y][x] = cell{text: string(r), paint: p}
		}
		for i := 1; i < w; i++ {
			if c.inside(x+i, y) {
				c.cells[y][x+i] = cell{paint: p}
			}
		}
		x += w
	}
	return x
}

// render styles runs of equally painted cells and joins the rows.
func (c *canvas) render(styles map[paint]*lipgloss.Style) string {
	lines := make([]string, c.height)
	for y, row := range c.cells {
		var line, run strings.Builder
		current := paintNone
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if style := styles[current]; style != nil {
				line.WriteString(style.Render(run.String()))
			} else {
				line.WriteString(run.String())
			}
			run.Reset()
		}
		for _, cl := range row {
			if cl.paint != current {
				flush()
				current = cl.paint
			}
			run.WriteString(cl.text)
		}
		flush()
		lines[y] = line.String()
	}
	return strings.Join(lines, "\n")
}
