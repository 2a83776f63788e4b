// Package ctx provides a request context for handlers.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a single *Context:
//
//	func (ctl *NFTController) Show(c *ctx.Context) {
//	    nft, err := ctl.catalog.Get(c.Context(), c.Param("id"))
//	    ...
//	    c.JSON(http.StatusOK, nft)
//	}
//
//	router.Get("/nfts/{id}", "nfts.show", ctx.Wrap(ctl.Show))
package ctx

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/nftlisting/pkg/bind"
	"github.com/shashiranjanraj/nftlisting/pkg/middleware"
	"github.com/shashiranjanraj/nftlisting/pkg/response"
	"github.com/shashiranjanraj/nftlisting/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W http.ResponseWriter
	R *http.Request
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// Param returns a URL path parameter.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// Header returns a request header.
func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// UserID returns the id admitted by the session guard.
func (c *Context) UserID() (string, bool) {
	return middleware.UserIDFromCtx(c.R)
}

// IsMultipart reports whether the body is multipart/form-data.
func (c *Context) IsMultipart() bool { return bind.IsMultipart(c.R) }

// BindJSON decodes the JSON body into dest and runs validation. On failure it
// writes a 400 and returns false.
//
//	var input RegisterInput
//	if !c.BindJSON(&input) {
//	    return
//	}
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	return c.bound(errs, err)
}

// BindForm is BindJSON for multipart bodies.
func (c *Context) BindForm(dest any) bool {
	errs, err := bind.Form(c.R, dest)
	return c.bound(errs, err)
}

func (c *Context) bound(errs map[string]string, err error) bool {
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if validate.HasErrors(errs) {
		c.ValidationError(errs)
		return false
	}
	return true
}

// SetHeader sets a response header.
func (c *Context) SetHeader(key, value string) {
	c.W.Header().Set(key, value)
}

// JSON writes v with the given status.
func (c *Context) JSON(code int, v any) {
	response.JSON(c.W, code, v)
}

// Message sends {"message": msg}.
func (c *Context) Message(code int, msg string) {
	response.Message(c.W, code, msg)
}

// Error sends {"message": msg} on a failure status.
func (c *Context) Error(code int, msg string) { c.Message(code, msg) }

// ValidationError sends a 400 with field-level errors.
func (c *Context) ValidationError(errs map[string]string) {
	response.ValidationError(c.W, errs)
}

// Unauthorized sends a 401.
func (c *Context) Unauthorized(msg string) { c.Error(http.StatusUnauthorized, msg) }

// Forbidden sends a 403.
func (c *Context) Forbidden() { response.Forbidden(c.W) }

// NotFound sends a 404.
func (c *Context) NotFound(msg string) { c.Error(http.StatusNotFound, msg) }

// InternalError sends a 500 without detail.
func (c *Context) InternalError() { response.InternalError(c.W) }
