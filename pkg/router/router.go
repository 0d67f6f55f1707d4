package router

import (
	"log"
	"net/http"
	"strings"
	"time"
)

// --- ANSI color codes ---
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

type HandlerFunc func(http.ResponseWriter, *http.Request)

// Router matches METHOD:PATH exactly first, then wildcard patterns in registration order.
// A trailing "/*" matches any remaining segments; an inner "*" matches one segment.
type Router struct {
	routes   map[string]http.Handler // key = METHOD:PATH
	paths    map[string]bool         // track registered paths
	patterns []string                // wildcard paths, registration order
	logger   *log.Logger
}

func New() *Router {
	return &Router{
		routes: make(map[string]http.Handler),
		paths:  make(map[string]bool),
		logger: log.Default(),
	}
}

// SetLogger replaces the access logger; nil silences it.
func (r *Router) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

	r.dispatch(lrw, req)

	if r.logger == nil {
		return
	}
	duration := time.Since(start)
	r.logger.Printf("%s[%s]%s %s%s%s %s %s%d%s %s(%v)%s",
		colorCyan, start.Format("2006-01-02 15:04:05"), colorReset,
		methodColor(req.Method), req.Method, colorReset,
		req.URL.Path,
		statusColor(lrw.statusCode), lrw.statusCode, colorReset,
		colorBlue, duration, colorReset,
	)
}

func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path
	if h, ok := r.routes[req.Method+":"+path]; ok {
		h.ServeHTTP(w, req)
		return
	}

	pathMatched := r.paths[path]
	for _, pattern := range r.patterns {
		if !matchWildcardRoute(path, pattern) {
			continue
		}
		if h, ok := r.routes[req.Method+":"+pattern]; ok {
			h.ServeHTTP(w, req)
			return
		}
		pathMatched = true
	}

	if pathMatched {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	http.Error(w, "Not Found", http.StatusNotFound)
}

// matchWildcardRoute checks if a request path matches a wildcard route pattern
func matchWildcardRoute(requestPath, routePattern string) bool {
	requestSegments := strings.Split(strings.Trim(requestPath, "/"), "/")
	routeSegments := strings.Split(strings.Trim(routePattern, "/"), "/")

	// Trailing wildcard matches any number of remaining segments
	if last := len(routeSegments) - 1; routeSegments[last] == "*" {
		if len(requestSegments) < last {
			return false
		}
		for i := 0; i < last; i++ {
			if routeSegments[i] != "*" && requestSegments[i] != routeSegments[i] {
				return false
			}
		}
		return true
	}

	if len(requestSegments) != len(routeSegments) {
		return false
	}
	for i, routeSegment := range routeSegments {
		if routeSegment == "*" {
			if requestSegments[i] == "" {
				return false
			}
			continue
		}
		if requestSegments[i] != routeSegment {
			return false
		}
	}
	return true
}

// --- Register paths ---

// Handle registers h for method and path.
func (r *Router) Handle(method, path string, h http.Handler) {
	key := method + ":" + path
	if _, exists := r.routes[key]; !exists && strings.Contains(path, "*") && !r.paths[path] {
		r.patterns = append(r.patterns, path)
	}
	r.routes[key] = h
	r.paths[path] = true
}

func (r *Router) register(method, path string, handler HandlerFunc) {
	r.Handle(method, path, http.HandlerFunc(handler))
}

func (r *Router) GET(path string, handler HandlerFunc)   { r.register(http.MethodGet, path, handler) }
func (r *Router) POST(path string, handler HandlerFunc)  { r.register(http.MethodPost, path, handler) }
func (r *Router) PUT(path string, handler HandlerFunc)   { r.register(http.MethodPut, path, handler) }
func (r *Router) PATCH(path string, handler HandlerFunc) { r.register(http.MethodPatch, path, handler) }
func (r *Router) DELETE(path string, handler HandlerFunc) {
	r.register(http.MethodDelete, path, handler)
}

// Getter methods for testing
func (r *Router) Routes() map[string]http.Handler {
	return r.routes
}

func (r *Router) Paths() map[string]bool {
	return r.paths
}

// --- Logging response writer to capture status codes ---
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// --- Color helpers ---
func statusColor(code int) string {
	switch {
	case code >= 200 && code < 300:
		return colorGreen
	case code >= 300 && code < 400:
		return colorCyan
	case code >= 400 && code < 500:
		return colorYellow
	default:
		return colorRed
	}
}

func methodColor(method string) string {
	switch method {
	case http.MethodGet:
		return colorGreen
	case http.MethodPost:
		return colorBlue
	case http.MethodPut, http.MethodPatch:
		return colorYellow
	case http.MethodDelete:
		return colorRed
	default:
		return colorCyan
	}
}
