package service

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/bookstore-service/internal/domain"
	"github.com/fjod/go_cart/bookstore-service/internal/repository"
	"github.com/fjod/go_cart/bookstore-service/pkg/logger"
	"go.uber.org/zap"
)

const DefaultSuggestedBooksLimit = 3

type CatalogService struct {
	books      repository.BookRepository
	categories repository.CategoryRepository
	logger     *zap.Logger
}

func NewCatalogService(books repository.BookRepository, categories repository.CategoryRepository, log *zap.Logger) *CatalogService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogService{books: books, categories: categories, logger: log}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, s.readError(ctx, err, "list categories")
	}
	return categories, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, categoryID int64) (*domain.Category, error) {
	category, err := s.categories.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, s.readError(ctx, err, "get category")
	}
	return category, nil
}

func (s *CatalogService) GetCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	category, err := s.categories.GetCategoryByName(ctx, name)
	if err != nil {
		return nil, s.readError(ctx, err, "get category by name")
	}
	return category, nil
}

func (s *CatalogService) GetBook(ctx context.Context, bookID int64) (*domain.Book, error) {
	book, err := s.books.GetBook(ctx, bookID)
	if err != nil {
		return nil, s.readError(ctx, err, "get book")
	}
	return book, nil
}

// ListBooksByCategory fails with a not found error for an unknown category
// rather than returning an empty list.
func (s *CatalogService) ListBooksByCategory(ctx context.Context, categoryID int64) ([]*domain.Book, error) {
	if _, err := s.GetCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	books, err := s.books.ListBooksByCategory(ctx, categoryID)
	if err != nil {
		return nil, s.readError(ctx, err, "list books by category")
	}
	return books, nil
}

func (s *CatalogService) ListBooksByCategoryName(ctx context.Context, name string) ([]*domain.Book, error) {
	category, err := s.GetCategoryByName(ctx, name)
	if err != nil {
		return nil, err
	}
	books, err := s.books.ListBooksByCategory(ctx, category.CategoryID)
	if err != nil {
		return nil, s.readError(ctx, err, "list books by category")
	}
	return books, nil
}

// ListSuggestedBooks returns up to limit random books of the category. A
// non-positive limit means DefaultSuggestedBooksLimit.
func (s *CatalogService) ListSuggestedBooks(ctx context.Context, categoryID int64, limit int) ([]*domain.Book, error) {
	if _, err := s.GetCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.suggestedBooks(ctx, categoryID, limit)
}

func (s *CatalogService) ListSuggestedBooksByCategoryName(ctx context.Context, name string, limit int) ([]*domain.Book, error) {
	category, err := s.GetCategoryByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.suggestedBooks(ctx, category.CategoryID, limit)
}

func (s *CatalogService) suggestedBooks(ctx context.Context, categoryID int64, limit int) ([]*domain.Book, error) {
	if limit <= 0 {
		limit = DefaultSuggestedBooksLimit
	}
	books, err := s.books.ListSuggestedBooks(ctx, categoryID, limit)
	if err != nil {
		return nil, s.readError(ctx, err, "list suggested books")
	}
	return books, nil
}

func (s *CatalogService) readError(ctx context.Context, err error, op string) *Error {
	switch {
	case errors.Is(err, repository.ErrCategoryNotFound):
		return notFound("Category not found")
	case errors.Is(err, repository.ErrBookNotFound):
		return notFound("Book not found")
	}
	logger.FromContext(ctx, s.logger).Error("catalog read failed", zap.String("op", op), zap.Error(err))
	return operational("Failed to read catalog")
}
