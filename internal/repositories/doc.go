// Package repositories implements SQLite persistence for the labelgrid journal.
//
// The journal is append-only: every file handled by an assign batch becomes a row in moves,
// and every label folder created through labelgrid becomes a row in labels. Nothing here is
// required to label images; it backs the history command.
//
// Key Implementations:
//   - [MoveRepository] : assign outcomes, listed newest first or grouped by batch
//   - [LabelRepository] : label folders created through the CLI, TUI or HTTP API
//   - [JournalAdapter] : bridges both repositories to workspace.Journal
//
// Sequence numbers provide stable, human-readable ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
