// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI shows the images of one workspace folder as a grid of cells with the folder's labels in a bar above it:
//  1. [GridView] : browse, select and assign images
//  2. [LabelPickerView] : fuzzy-find a label when the bar is too long to cycle through
//
// Selection lives in a [selection.Engine] owned by the [Model] and is only touched from Update.
// Mouse events (enabled with tea.WithMouseCellMotion) are translated by the input adapter into engine calls:
// clicks select, toggle or extend, and a drag that starts on empty grid space draws a marquee.
// Cell bounds are recomputed on every layout, so a marquee keeps working while the grid scrolls.
//
// Keyboard navigation uses arrow or vim-style bindings with contextual help displayed via charmbracelet/bubbles/help.
// Leaving a folder clears the selection; refreshing or filtering drops only the images that are no longer listed.
package ui
