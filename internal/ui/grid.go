package ui

import (
	"path/filepath"
	"strings"

	"github.com/desertthunder/labelgrid/internal/models"
	"github.com/desertthunder/labelgrid/internal/selection"
)

const (
	headerHeight   = 3 // breadcrumbs, label bar, blank
	footerHeight   = 3 // prompt, status, help
	cellLines      = 2
	rowStride      = cellLines + 1
	cellGap        = 2
	minCellWidth   = 8
	labelBarRow    = 1
	labelBarPrefix = "Labels: "
)

// grid lays images out in rows of fixed-width cells and knows where each cell is on screen.
//
// items holds every image in display order, visible only the cells currently on screen.
// Bounds are in terminal cells, matching tea.MouseMsg coordinates.
type grid struct {
	cellWidth int
	cols      int
	rows      int // visible rows
	top       int // first visible row
	items     []selection.Item
	visible   []selection.Item
}

func newGrid(cellWidth int) grid {
	return grid{cellWidth: max(minCellWidth, cellWidth), cols: 1, rows: 1}
}

// layout recomputes bounds for images on a width x height screen, keeping cursor in view.
func (g *grid) layout(images []models.Image, width, height, cursor int) {
	g.cols = max(1, width/g.cellWidth)
	g.rows = max(1, (height-headerHeight-footerHeight)/rowStride)

	if row := cursor / g.cols; row < g.top {
		g.top = row
	} else if row >= g.top+g.rows {
		g.top = row - g.rows + 1
	}
	g.clampTop(len(images))

	g.items = make([]selection.Item, len(images))
	g.visible = make([]selection.Item, 0, g.cols*g.rows)
	for i, img := range images {
		item := selection.Item{ID: img.Path, Bounds: g.bounds(i)}
		g.items[i] = item
		if g.onScreen(i) {
			g.visible = append(g.visible, item)
		}
	}
}

func (g *grid) clampTop(total int) {
	lastRow := max(0, (total-1)/g.cols)
	g.top = min(g.top, max(0, lastRow-g.rows+1))
	g.top = max(0, g.top)
}

func (g *grid) bounds(i int) selection.Rect {
	row, col := i/g.cols, i%g.cols
	left := col * g.cellWidth
	top := headerHeight + (row-g.top)*rowStride
	return selection.Rect{Left: left, Top: top, Right: left + g.cellWidth - cellGap - 1, Bottom: top + cellLines - 1}
}

func (g *grid) onScreen(i int) bool {
	row := i / g.cols
	return row >= g.top && row < g.top+g.rows
}

// inArea reports whether y falls inside the grid rows.
func (g *grid) inArea(y int) bool {
	return y >= headerHeight && y < headerHeight+g.rows*rowStride
}

func (g *grid) index(id string) int {
	for i, item := range g.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// move returns the cursor after moving by dx columns and dy rows, clamped to the images.
func (g *grid) move(cursor, dx, dy, total int) int {
	if total == 0 {
		return 0
	}
	next := cursor + dx + dy*g.cols
	if next < 0 {
		return 0
	}
	if next >= total {
		return total - 1
	}
	return next
}

// labelBar returns the hit boxes of labels rendered in a single row after labelBarPrefix.
func labelBar(labels []models.Label) []selection.Item {
	items := make([]selection.Item, len(labels))
	x := len(labelBarPrefix)
	for i, l := range labels {
		w := len([]rune(labelChip(l.Name)))
		items[i] = selection.Item{ID: l.Path, Bounds: selection.Rect{Left: x, Top: labelBarRow, Right: x + w - 1, Bottom: labelBarRow}}
		x += w + 1
	}
	return items
}

func labelChip(name string) string { return " " + name + " " }

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func describe(img models.Image) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(img.Name)), ".")
	if ext == "" {
		return "image"
	}
	return ext
}
