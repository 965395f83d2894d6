package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/GregTMJ/Orders-API/internal/api"
	"github.com/GregTMJ/Orders-API/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// errorResponse maps an application error to its status code:
// not found is 404, a broken constraint is 422, anything else is 500.
func errorResponse(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, api.Error{
			Code:    http.StatusNotFound,
			Message: "Order not found",
		})
	case errs.IsConstraint(err):
		return ctx.JSON(http.StatusUnprocessableEntity, api.Error{
			Code:    http.StatusUnprocessableEntity,
			Message: err.Error(),
		})
	default:
		// the 5xx body never carries the cause
		ctx.Set(errorContextKey, err)
		return ctx.JSON(http.StatusInternalServerError, api.Error{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
		})
	}
}

const errorContextKey = "orders.error"

// NewHTTPErrorHandler renders echo errors (unknown routes, auth and validation
// failures) with the same Error body as the handlers.
func NewHTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	logger = logger.With("component", "http_error_handler")

	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "Internal server error"

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			code = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				message = msg
			} else {
				message = http.StatusText(code)
			}
		} else {
			logger.ErrorContext(ctx.Request().Context(), "Unhandled error", "error", err)
		}

		var writeErr error
		if ctx.Request().Method == http.MethodHead {
			writeErr = ctx.NoContent(code)
		} else {
			writeErr = ctx.JSON(code, api.Error{Code: code, Message: message})
		}
		if writeErr != nil {
			logger.ErrorContext(ctx.Request().Context(), "Failed to write error response", "error", writeErr)
		}
	}
}
