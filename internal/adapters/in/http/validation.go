package http

import (
	"errors"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	legacyrouter "github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
)

// OpenAPIValidator checks requests to documented routes against doc and
// answers 422 on a violation. Undocumented routes pass through untouched.
// Authentication is done by Authenticator, not here.
func OpenAPIValidator(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	// match on path only, whatever host the service runs behind
	doc.Servers = nil

	router, err := legacyrouter.NewRouter(doc)
	if err != nil {
		return nil, err
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()

			// no operation documented for this method and path
			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				return next(ctx)
			}

			err = openapi3filter.ValidateRequest(req.Context(), &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			})
			if err != nil {
				return echo.NewHTTPError(http.StatusUnprocessableEntity, validationMessage(err))
			}

			return next(ctx)
		}
	}, nil
}

// validationMessage keeps the reason and drops the echoed request details.
func validationMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) && reqErr.Err != nil {
		if reqErr.Parameter != nil {
			return "parameter " + reqErr.Parameter.Name + ": " + reqErr.Err.Error()
		}
		return "request body: " + reqErr.Err.Error()
	}
	return err.Error()
}
