package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/nftlisting/app/services"
	"github.com/shashiranjanraj/nftlisting/pkg/ctx"
	"github.com/shashiranjanraj/nftlisting/pkg/logger"
)

// fail maps a service error to its HTTP response. Anything outside the
// service taxonomy is logged and reported as a bare 500.
func fail(c *ctx.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.ValidationError(verr.Fields)
	case errors.Is(err, services.ErrAlreadyExists):
		c.Error(http.StatusBadRequest, "User already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Unauthorized("Invalid email or password")
	case errors.Is(err, services.ErrUnauthorized):
		c.Unauthorized("Token is not valid")
	case errors.Is(err, services.ErrNotFound):
		c.NotFound("NFT not found")
	case errors.Is(err, services.ErrPermissionDenied):
		c.Forbidden()
	default:
		logger.WithCtx(c.Context()).Error("request failed", "method", c.R.Method, "path", c.R.URL.Path, "error", err)
		c.InternalError()
	}
}
