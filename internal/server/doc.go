// Package server exposes a workspace over a small JSON API.
//
// # Routing
//
// [BasicRouter] sits on an [http.ServeMux]. Single endpoints are registered per method with
// [BasicRouter.Handle]; groups of endpoints such as [APIHandler] implement [Handler] and check
// methods themselves. Middleware wraps the mux as a whole, first registered outermost.
//
// # Routes
//
//	GET  /api/tree          → folder tree, a single root node named "Workspace"
//	GET  /api/content?path= → images, labels and breadcrumbs of one folder
//	POST /api/create_label  → {"name", "path"} creates a label folder
//	POST /api/assign_label  → {"files", "labelPath"} moves files, reports {"moved", "errors", "batchId"}
//	GET  /thumbnails/...    → cached thumbnails
//	GET  /healthz           → liveness
//
// Errors are always {"error": message}. An empty selection is rejected with 400 before any file is touched,
// while per-file failures of an assign are reported in the 200 response.
//
// # Middleware
//
// [RequestID] tags each request with a UUID, [Logging] writes one line per request through charmbracelet/log,
// [RateLimit] answers 429 once the token bucket is empty and [Recover] turns panics into 500s.
package server
