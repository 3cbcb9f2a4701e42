package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
)

// newValidator returns a middleware rejecting requests that do not match the OpenAPI document.
// Paths outside the document (/openapi.yaml, /metrics) pass through untouched.
func newValidator(spec []byte, logger *slog.Logger) (func(http.Handler) http.Handler, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build OpenAPI router: %w", err)
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			route, pathParams, err := router.FindRoute(r)
			switch {
			case isRouteError(err, routers.ErrPathNotFound):
				next.ServeHTTP(w, r)
				return
			case isRouteError(err, routers.ErrMethodNotAllowed):
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			case err != nil:
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				logger.Debug("request failed validation", "path", r.URL.Path, "err", err)
				http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
				return
			}
			next.ServeHTTP(w, r)
		})
	}, nil
}

// isRouteError matches router errors by reason, since routers may return fresh values.
func isRouteError(err, target error) bool {
	if errors.Is(err, target) {
		return true
	}
	var re *routers.RouteError
	return errors.As(err, &re) && re.Reason == target.Error()
}
