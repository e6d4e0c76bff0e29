package handler

import (
	"context"
	"expvar"
	"net/http"

	"github.com/julienschmidt/httprouter"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Routes builds the router and middleware chain. Background work started by the
// middleware stops when ctx is cancelled.
func (h *Handler) Routes(ctx context.Context) http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(h.routeNotFound)
	router.MethodNotAllowed = http.HandlerFunc(h.methodNotAllowed)

	// Pages
	router.HandlerFunc(http.MethodGet, "/", h.homePageHandler)
	router.HandlerFunc(http.MethodGet, "/books/:bookId", h.bookPageHandler)

	// JSON API
	router.HandlerFunc(http.MethodGet, "/v1/rankings", h.listRankedBooksHandler)
	router.HandlerFunc(http.MethodGet, "/v1/new-arrivals", h.listNewBooksHandler)
	router.HandlerFunc(http.MethodGet, "/v1/books/:bookId", h.showBookHandler)
	router.HandlerFunc(http.MethodGet, "/v1/paths", h.listBookPathsHandler)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", h.healthcheckHandler)
	router.HandlerFunc(http.MethodGet, "/debug/vars", h.basicAuth(expvar.Handler().ServeHTTP))

	// Swagger routes
	router.HandlerFunc(http.MethodGet, "/spec", h.handleSwaggerFile())
	router.HandlerFunc(http.MethodGet, "/docs/*any", httpSwagger.Handler(httpSwagger.URL("/spec")))

	return h.recoverPanic(h.logRequest(h.metrics(h.enableCORS(h.rateLimit(ctx, router)))))
}
