package selection

// Rect is an axis-aligned rectangle in screen coordinates with inclusive edges.
type Rect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// NormalizeRect builds the rectangle spanned by two corner points regardless of drag direction.
func NormalizeRect(x0, y0, x1, y1 int) Rect {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return Rect{Left: x0, Top: y0, Right: x1, Bottom: y1}
}

// Intersects reports whether r and o overlap. Touching edges count as overlap.
func (r Rect) Intersects(o Rect) bool {
	return !(r.Right < o.Left || r.Left > o.Right || r.Bottom < o.Top || r.Top > o.Bottom)
}

// Contains reports whether the point (x, y) lies within r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}

// Item is an entry of the visible list: a stable identifier plus its current bounds.
type Item struct {
	ID     string
	Bounds Rect
}

// IDs returns the identifiers of items in display order.
func IDs(items []Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

// indexOf returns the position of id in items or -1.
func indexOf(items []Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// HitTest returns the identifier of the first item whose bounds contain (x, y).
func HitTest(items []Item, x, y int) (string, bool) {
	for _, it := range items {
		if it.Bounds.Contains(x, y) {
			return it.ID, true
		}
	}
	return "", false
}
