package server

import (
	"net/http"
	"slices"
	"strings"
)

// BasicRouter dispatches on [http.ServeMux] method patterns ("GET /api/characters/{id}").
//
// A path registered for one method answers other methods with 405. Middleware added with [BasicRouter.Use]
// wraps every route registered after it.
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware
	patterns    []string
}

var _ Router = (*BasicRouter)(nil)
var _ Handler = (*BasicRouter)(nil)

func NewBasicRouter() *BasicRouter {
	return &BasicRouter{mux: http.NewServeMux()}
}

// Use appends middleware; the first added is the outermost.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers handler for method and path.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	r.register(strings.ToUpper(method)+" "+path, r.Apply(handler))
}

// Handler registers h once for every pattern in [Handler.Routes].
func (r *BasicRouter) Handler(h Handler) {
	wrapped := r.Apply(h)
	for _, pattern := range h.Routes() {
		r.register(pattern, wrapped)
	}
}

// Routes returns the registered patterns in sorted order.
func (r *BasicRouter) Routes() []string {
	out := slices.Clone(r.patterns)
	slices.Sort(out)
	return out
}

func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps handler in the middleware stack.
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	for _, mw := range slices.Backward(r.middlewares) {
		handler = mw(handler)
	}
	return handler
}

func (r *BasicRouter) register(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
	r.patterns = append(r.patterns, pattern)
}
