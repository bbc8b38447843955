package server

import "net/http"

// Middleware decorates a handler, e.g. with request ids or rate limiting.
type Middleware func(http.Handler) http.Handler

// Handler serves a group of related paths, such as the JSON API or the thumbnail files.
type Handler interface {
	http.Handler
	Routes() []string // mux patterns the handler is mounted on
}

// Router mounts handlers and wraps every request, matched or not, in its middleware.
type Router interface {
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler) // single method on one path
	Handler(handler Handler)                          // every route of handler, any method
	http.Handler
}

var _ Router = (*BasicRouter)(nil)
