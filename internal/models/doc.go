// Package models defines domain entities for the labelgrid image labeling tool.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): listings produced by the workspace and served as JSON
//   - [Image] : an image file in the current folder, identified by its slash-separated relative path
//   - [Label] : an immediate subfolder, the destination of an assign
//   - [Breadcrumb] : one segment of the current folder path
//   - [TreeNode] : recursive folder tree rooted at the workspace
//   - [Content] : everything needed to render one folder
//   - [AssignResult] : outcome of a bulk assign, with per-file failures reported verbatim
//
// 2. Persistent Entities: database-backed records with lifecycle metadata
//   - [Move] : one file handled by an assign batch, successful or not
//   - [LabelRecord] : a label folder created through labelgrid
//
// Persistent entities implement the [Model] interface providing ID, timestamps and validation.
package models
