package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_cart/bookstore-service/internal/domain"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CatalogService interface {
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetCategory(ctx context.Context, categoryID int64) (*domain.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*domain.Category, error)
	GetBook(ctx context.Context, bookID int64) (*domain.Book, error)
	ListBooksByCategory(ctx context.Context, categoryID int64) ([]*domain.Book, error)
	ListBooksByCategoryName(ctx context.Context, name string) ([]*domain.Book, error)
	ListSuggestedBooks(ctx context.Context, categoryID int64, limit int) ([]*domain.Book, error)
	ListSuggestedBooksByCategoryName(ctx context.Context, name string, limit int) ([]*domain.Book, error)
}

type CatalogHandler struct {
	responder
	catalog CatalogService
	timeout time.Duration
}

func NewCatalogHandler(catalog CatalogService, timeout time.Duration, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		responder: newResponder(log),
		catalog:   catalog,
		timeout:   timeout,
	}
}

// GET /api/v1/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	categories, err := h.catalog.ListCategories(ctx)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, categories)
}

// GET /api/v1/categories/{category_id}
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	categoryID, ok := pathID(r, "category_id")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "invalid_category_id", "category_id must be a positive integer")
		return
	}

	category, err := h.catalog.GetCategory(ctx, categoryID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, category)
}

// GET /api/v1/categories/name/{category_name}
func (h *CatalogHandler) GetCategoryByName(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	category, err := h.catalog.GetCategoryByName(ctx, chi.URLParam(r, "category_name"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, category)
}

// GET /api/v1/categories/{category_id}/books
func (h *CatalogHandler) ListBooksByCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	categoryID, ok := pathID(r, "category_id")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "invalid_category_id", "category_id must be a positive integer")
		return
	}

	books, err := h.catalog.ListBooksByCategory(ctx, categoryID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, books)
}

// GET /api/v1/categories/name/{category_name}/books
func (h *CatalogHandler) ListBooksByCategoryName(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	books, err := h.catalog.ListBooksByCategoryName(ctx, chi.URLParam(r, "category_name"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, books)
}

// GET /api/v1/categories/{category_id}/suggested-books?limit=N
func (h *CatalogHandler) ListSuggestedBooks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	categoryID, ok := pathID(r, "category_id")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "invalid_category_id", "category_id must be a positive integer")
		return
	}
	limit, ok := queryLimit(r)
	if !ok {
		h.respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
		return
	}

	books, err := h.catalog.ListSuggestedBooks(ctx, categoryID, limit)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, books)
}

// GET /api/v1/categories/name/{category_name}/suggested-books?limit=N
func (h *CatalogHandler) ListSuggestedBooksByCategoryName(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	limit, ok := queryLimit(r)
	if !ok {
		h.respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
		return
	}

	books, err := h.catalog.ListSuggestedBooksByCategoryName(ctx, chi.URLParam(r, "category_name"), limit)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, books)
}

// GET /api/v1/books/{book_id}
func (h *CatalogHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	bookID, ok := pathID(r, "book_id")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "invalid_book_id", "book_id must be a positive integer")
		return
	}

	book, err := h.catalog.GetBook(ctx, bookID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, book)
}
