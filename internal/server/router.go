package server

import (
	"net/http"
	"slices"
	"strings"
	"sync"
)

// BasicRouter routes requests by path, then by method, on top of an [http.ServeMux].
//
// Middleware wraps the whole mux, so unknown paths and rejected methods are tagged and logged
// like every other request. The chain is built on the first request: call [BasicRouter.Use] before serving.
type BasicRouter struct {
	mux         *http.ServeMux
	methods     map[string]map[string]http.Handler
	middlewares []Middleware

	once  sync.Once
	chain http.Handler
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{
		mux:     http.NewServeMux(),
		methods: map[string]map[string]http.Handler{},
	}
}

// Use appends [Middleware]. The first one added is the outermost.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers handler for one method on path. A path may carry several methods;
// HEAD falls back to GET.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	byMethod, ok := r.methods[path]
	if !ok {
		byMethod = map[string]http.Handler{}
		r.methods[path] = byMethod
		r.mux.Handle(path, r.dispatch(byMethod))
	}
	byMethod[strings.ToUpper(method)] = handler
}

func (r *BasicRouter) dispatch(byMethod map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		h, ok := byMethod[req.Method]
		if !ok && req.Method == http.MethodHead {
			h, ok = byMethod[http.MethodGet]
		}
		if !ok {
			allowed := make([]string, 0, len(byMethod))
			for m := range byMethod {
				allowed = append(allowed, m)
			}
			slices.Sort(allowed)
			methodNotAllowed(w, allowed...)
			return
		}
		h.ServeHTTP(w, req)
	})
}

// Handler mounts a [Handler] on every pattern it reports. Method checks are left to the handler.
func (r *BasicRouter) Handler(handler Handler) {
	for _, route := range handler.Routes() {
		r.mux.Handle(route, handler)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.once.Do(func() {
		r.chain = r.Apply(http.HandlerFunc(r.route))
	})
	r.chain.ServeHTTP(w, req)
}

// route answers unmatched paths with a JSON 404 instead of the mux's plain text one.
func (r *BasicRouter) route(w http.ResponseWriter, req *http.Request) {
	if _, pattern := r.mux.Handler(req); pattern == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	r.mux.ServeHTTP(w, req)
}

// Apply wraps handler with the registered middleware, last added innermost.
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}
	return wrapped
}
