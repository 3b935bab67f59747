package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type RouterConfig struct {
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
}

// NewHandler mounts the bookstore API and wraps it for tracing.
func NewHandler(catalog CatalogService, orders OrderService, cfg RouterConfig, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	catalogHandler := NewCatalogHandler(catalog, cfg.RequestTimeout, log)
	ordersHandler := NewOrdersHandler(orders, cfg.RequestTimeout, log)
	rs := newResponder(log)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(AccessLogMiddleware(log))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(MaxBodyMiddleware(cfg.MaxRequestBodySize))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		rs.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", catalogHandler.ListCategories)
			r.Get("/{category_id}", catalogHandler.GetCategory)
			r.Get("/{category_id}/books", catalogHandler.ListBooksByCategory)
			r.Get("/{category_id}/suggested-books", catalogHandler.ListSuggestedBooks)
			r.Get("/name/{category_name}", catalogHandler.GetCategoryByName)
			r.Get("/name/{category_name}/books", catalogHandler.ListBooksByCategoryName)
			r.Get("/name/{category_name}/suggested-books", catalogHandler.ListSuggestedBooksByCategoryName)
		})
		r.Get("/books/{book_id}", catalogHandler.GetBook)
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", ordersHandler.PlaceOrder)
			r.Get("/{order_id}", ordersHandler.GetOrder)
		})
	})

	return otelhttp.NewHandler(r, "bookstore-service")
}
