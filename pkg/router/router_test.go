package router

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func respond(body string) HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}
}

func serve(r *Router, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestMatchWildcardRoute(t *testing.T) {
	tests := []struct {
		path, pattern string
		want          bool
	}{
		{"/api/items/42", "/api/items/*", true},
		{"/api/items/42/extra", "/api/items/*", true},
		{"/api/items", "/api/items/*", true},
		{"/api/other/42", "/api/items/*", false},
		{"/api/articles/7/export", "/api/articles/*/export", true},
		{"/api/articles/7/import", "/api/articles/*/export", false},
		{"/api/articles//export", "/api/articles/*/export", false},
		{"/swagger/index.html", "/swagger/*", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchWildcardRoute(tt.path, tt.pattern), "%s ~ %s", tt.path, tt.pattern)
	}
}

func TestRouterDispatch(t *testing.T) {
	r := New()
	r.SetLogger(nil)
	r.GET("/api/items", respond("list"))
	r.POST("/api/items", respond("create"))
	r.GET("/api/items/*/export", respond("export"))
	r.GET("/api/items/*", respond("get"))
	r.DELETE("/api/items/*", respond("delete"))
	r.Handle(http.MethodGet, "/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	assert.Equal(t, "list", serve(r, http.MethodGet, "/api/items").Body.String())
	assert.Equal(t, "create", serve(r, http.MethodPost, "/api/items").Body.String())
	assert.Equal(t, "export", serve(r, http.MethodGet, "/api/items/9/export").Body.String())
	assert.Equal(t, "get", serve(r, http.MethodGet, "/api/items/9").Body.String())
	assert.Equal(t, "delete", serve(r, http.MethodDelete, "/api/items/9").Body.String())
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodGet, "/healthz").Code)

	assert.Equal(t, http.StatusMethodNotAllowed, serve(r, http.MethodPut, "/api/items/9").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(r, http.MethodDelete, "/healthz").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/nope").Code)

	assert.Len(t, r.Routes(), 6)
	assert.True(t, r.Paths()["/api/items/*"])
}

func TestRouterAccessLog(t *testing.T) {
	var buf bytes.Buffer
	r := New()
	r.SetLogger(log.New(&buf, "", 0))
	r.GET("/ping", respond("pong"))

	serve(r, http.MethodGet, "/ping")
	serve(r, http.MethodGet, "/missing")

	out := buf.String()
	assert.Contains(t, out, "/ping")
	assert.Contains(t, out, "200")
	assert.Contains(t, out, "/missing")
	assert.Contains(t, out, "404")
}
