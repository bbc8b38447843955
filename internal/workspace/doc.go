// Package workspace exposes a folder of images as a labeling workspace.
//
// The workspace is the item source and the selection consumer for the selection engine:
//
//   - [Workspace.Content] lists the images of one folder in display order (by name), its label
//     subfolders and breadcrumbs
//   - [Workspace.Tree] builds the folder tree, cached until a label is created
//   - [Workspace.CreateLabel] adds a label folder
//   - [Workspace.Assign] moves a set of selected images into a label folder
//
// # Paths
//
// Every path crossing the package boundary is relative to the workspace root and slash-separated.
// [Workspace.Resolve] is the only way back to the filesystem and rejects anything escaping the root,
// including through symlinks.
//
// # Assign Semantics
//
// An empty selection is rejected with [ErrNoSelection] before anything is touched.
// Per-file failures (name taken at the destination, invalid path, rename error) do not stop the batch;
// they are collected verbatim in [models.AssignResult.Errors] and never retried.
// Every outcome is handed to the optional [Journal]; journal failures are logged and otherwise ignored.
//
// # Thumbnails
//
// When a [Thumbnailer] is configured, listed images get a cached thumbnail and images that cannot
// be decoded are left out of the listing.
package workspace
