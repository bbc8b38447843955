package selection

import "sort"

// marquee is the transient drag state. It only exists between BeginMarquee and EndMarquee.
type marquee struct {
	originX  int
	originY  int
	currentX int
	currentY int
}

func (m *marquee) rect() Rect {
	return NormalizeRect(m.originX, m.originY, m.currentX, m.currentY)
}

// Engine owns the selected set, the shift-click anchor and the active marquee gesture.
type Engine struct {
	selected map[string]struct{}
	anchor   string
	anchored bool
	drag     *marquee
}

// New creates an [Engine] with an empty selection and no anchor.
func New() *Engine {
	return &Engine{selected: make(map[string]struct{})}
}

// SelectSingle replaces the selection with id and makes it the anchor.
func (e *Engine) SelectSingle(id string) {
	e.reset()
	e.selected[id] = struct{}{}
	e.setAnchor(id)
}

// Toggle flips membership of id. The anchor moves to id whether it was added or removed.
func (e *Engine) Toggle(id string) {
	if _, ok := e.selected[id]; ok {
		delete(e.selected, id)
	} else {
		e.selected[id] = struct{}{}
	}
	e.setAnchor(id)
}

// SelectRange selects every item between anchorID and targetID inclusive, in display order.
//
// An empty anchorID means no anchor is set and degrades to [Engine.SelectSingle] on targetID.
// If either id is missing from items the call changes nothing. The anchor is left as is so
// repeated shift-clicks keep extending from the same origin.
func (e *Engine) SelectRange(anchorID, targetID string, items []Item, additive bool) {
	if anchorID == "" {
		e.SelectSingle(targetID)
		return
	}

	from, to := indexOf(items, anchorID), indexOf(items, targetID)
	if from < 0 || to < 0 {
		return
	}
	if from > to {
		from, to = to, from
	}

	if !additive {
		e.reset()
	}
	for _, it := range items[from : to+1] {
		e.selected[it.ID] = struct{}{}
	}
}

// ExtendTo runs [Engine.SelectRange] from the current anchor to targetID.
func (e *Engine) ExtendTo(targetID string, items []Item, additive bool) {
	anchor, _ := e.Anchor()
	e.SelectRange(anchor, targetID, items, additive)
}

// BeginMarquee starts a drag gesture at (x, y). A non-additive gesture clears the selection first.
// Returns false without side effects when a gesture is already active.
func (e *Engine) BeginMarquee(x, y int, additive bool) bool {
	if e.drag != nil {
		return false
	}
	if !additive {
		e.reset()
	}
	e.drag = &marquee{originX: x, originY: y, currentX: x, currentY: y}
	return true
}

// UpdateMarquee moves the free corner of the active gesture to (x, y) and adds every item
// intersecting the normalized rectangle. Nothing is ever removed during a gesture.
//
// Returns the identifiers newly added by this update, in display order. Without an active
// gesture the call is ignored and returns nil.
func (e *Engine) UpdateMarquee(x, y int, items []Item) []string {
	if e.drag == nil {
		return nil
	}
	e.drag.currentX, e.drag.currentY = x, y
	area := e.drag.rect()

	var added []string
	for _, it := range items {
		if !area.Intersects(it.Bounds) {
			continue
		}
		if _, ok := e.selected[it.ID]; ok {
			continue
		}
		e.selected[it.ID] = struct{}{}
		added = append(added, it.ID)
	}
	return added
}

// EndMarquee discards the active gesture. Returns false if there was none.
func (e *Engine) EndMarquee() bool {
	if e.drag == nil {
		return false
	}
	e.drag = nil
	return true
}

// Clear empties the selection and unsets the anchor. An active gesture stays active until
// [Engine.EndMarquee].
func (e *Engine) Clear() {
	e.reset()
	e.anchor, e.anchored = "", false
}

// PruneToKnownIDs removes identifiers that are not present in items and returns them sorted.
// An anchor naming a vanished item is unset.
func (e *Engine) PruneToKnownIDs(items []Item) []string {
	known := make(map[string]struct{}, len(items))
	for _, it := range items {
		known[it.ID] = struct{}{}
	}

	var removed []string
	for id := range e.selected {
		if _, ok := known[id]; !ok {
			delete(e.selected, id)
			removed = append(removed, id)
		}
	}
	if _, ok := known[e.anchor]; e.anchored && !ok {
		e.anchor, e.anchored = "", false
	}

	sort.Strings(removed)
	return removed
}

// Selected returns the selected identifiers sorted lexically.
func (e *Engine) Selected() []string {
	ids := make([]string, 0, len(e.selected))
	for id := range e.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SelectedInOrder returns the selected identifiers in the display order of items.
func (e *Engine) SelectedInOrder(items []Item) []string {
	var ids []string
	for _, it := range items {
		if _, ok := e.selected[it.ID]; ok {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

func (e *Engine) IsSelected(id string) bool {
	_, ok := e.selected[id]
	return ok
}

func (e *Engine) Len() int { return len(e.selected) }

// Anchor returns the shift-click anchor and whether one is set.
func (e *Engine) Anchor() (string, bool) {
	return e.anchor, e.anchored
}

// Dragging reports whether a marquee gesture is active.
func (e *Engine) Dragging() bool { return e.drag != nil }

// Marquee returns the normalized rectangle of the active gesture.
func (e *Engine) Marquee() (Rect, bool) {
	if e.drag == nil {
		return Rect{}, false
	}
	return e.drag.rect(), true
}

func (e *Engine) reset() {
	e.selected = make(map[string]struct{})
}

func (e *Engine) setAnchor(id string) {
	e.anchor, e.anchored = id, true
}
