// Package selection maintains a set of selected item identifiers over an ordered list of visible items.
//
// # Operations
//
// The [Engine] turns click and drag input into selection changes:
//
//  1. [Engine.SelectSingle] : plain click, replaces the selection and sets the anchor
//  2. [Engine.Toggle] : modified click, flips membership and sets the anchor
//  3. [Engine.SelectRange] / [Engine.ExtendTo] : shift click, selects every item between the anchor and the target
//  4. [Engine.BeginMarquee], [Engine.UpdateMarquee], [Engine.EndMarquee] : drag-rectangle selection
//  5. [Engine.Clear] / [Engine.PruneToKnownIDs] : lifecycle when the item list changes
//
// # Marquee Gestures
//
// A gesture moves Idle → Dragging → Idle. Updates outside a gesture are ignored.
// During a gesture the selection only grows: items that leave a shrinking rectangle stay selected.
//
// # Items
//
// Callers supply the ordered item list ([Item] with its on-screen [Rect]) on every call that needs it,
// so the engine never queries a display tree and can be driven by any input modality.
//
// An [Engine] is owned by a single event loop and is not safe for concurrent use.
package selection
