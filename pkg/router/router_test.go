package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }

func TestGroupMiddlewareAndRoutes(t *testing.T) {
	r := New()
	var hits []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				hits = append(hits, name)
				next.ServeHTTP(w, req)
			})
		}
	}

	api := r.Group("/nfts", tag("outer"))
	api.Get("/{id}", "nfts.show", ok, tag("inner"))
	api.Patch("/{id}", "nfts.update", ok)
	api.Delete("/{id}", "nfts.destroy", ok)
	r.Post("/auth/login", "auth.login", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nfts/abc", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"outer", "inner"}, hits)

	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/nfts/abc", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	routes := r.Routes()
	require.Len(t, routes, 4)
	assert.Equal(t, RouteInfo{Method: http.MethodPost, Path: "/auth/login", Name: "auth.login"}, routes[0])
	assert.Equal(t, "/nfts/{id}", routes[1].Path)
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "/", joinPath())
	assert.Equal(t, "/a/b", joinPath("/a/", "/b"))
	assert.Equal(t, "/", normalizePath(""))
}
