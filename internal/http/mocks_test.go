package http

import (
	"context"

	"github.com/fjod/go_cart/bookstore-service/internal/domain"
	"github.com/fjod/go_cart/bookstore-service/internal/service"
	"github.com/shopspring/decimal"
)

type CatalogMock struct {
	categories []*domain.Category
	books      []*domain.Book
	err        error

	lastLimit int
}

func newCatalogMock() *CatalogMock {
	return &CatalogMock{
		categories: []*domain.Category{
			{CategoryID: 1, Name: "Classics"},
			{CategoryID: 2, Name: "Fantasy"},
		},
		books: []*domain.Book{
			{BookID: 1, Title: "Pride and Prejudice", Price: decimal.RequireFromString("9.99"), CategoryID: 1},
			{BookID: 2, Title: "Moby Dick", Price: decimal.RequireFromString("11.50"), CategoryID: 1},
			{BookID: 4, Title: "The Hobbit", Price: decimal.RequireFromString("14.99"), CategoryID: 2},
		},
	}
}

func (m *CatalogMock) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.categories, nil
}

func (m *CatalogMock) GetCategory(ctx context.Context, categoryID int64) (*domain.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, c := range m.categories {
		if c.CategoryID == categoryID {
			return c, nil
		}
	}
	return nil, &service.Error{Kind: service.KindNotFound, Message: "Category not found"}
}

func (m *CatalogMock) GetCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, c := range m.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, &service.Error{Kind: service.KindNotFound, Message: "Category not found"}
}

func (m *CatalogMock) GetBook(ctx context.Context, bookID int64) (*domain.Book, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, b := range m.books {
		if b.BookID == bookID {
			return b, nil
		}
	}
	return nil, &service.Error{Kind: service.KindNotFound, Message: "Book not found"}
}

func (m *CatalogMock) ListBooksByCategory(ctx context.Context, categoryID int64) ([]*domain.Book, error) {
	if _, err := m.GetCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	var books []*domain.Book
	for _, b := range m.books {
		if b.CategoryID == categoryID {
			books = append(books, b)
		}
	}
	return books, nil
}

func (m *CatalogMock) ListBooksByCategoryName(ctx context.Context, name string) ([]*domain.Book, error) {
	category, err := m.GetCategoryByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return m.ListBooksByCategory(ctx, category.CategoryID)
}

func (m *CatalogMock) ListSuggestedBooks(ctx context.Context, categoryID int64, limit int) ([]*domain.Book, error) {
	m.lastLimit = limit
	books, err := m.ListBooksByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(books) > limit {
		books = books[:limit]
	}
	return books, nil
}

func (m *CatalogMock) ListSuggestedBooksByCategoryName(ctx context.Context, name string, limit int) ([]*domain.Book, error) {
	category, err := m.GetCategoryByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return m.ListSuggestedBooks(ctx, category.CategoryID, limit)
}

type OrdersMock struct {
	orderID  int64
	placeErr error
	details  *domain.OrderDetails
	getErr   error

	placed   int
	lastForm *domain.CustomerForm
	lastCart *domain.ShoppingCart
}

func (m *OrdersMock) PlaceOrder(ctx context.Context, form *domain.CustomerForm, cart *domain.ShoppingCart) (int64, error) {
	m.placed++
	m.lastForm = form
	m.lastCart = cart
	if m.placeErr != nil {
		return 0, m.placeErr
	}
	return m.orderID, nil
}

func (m *OrdersMock) GetOrderDetails(ctx context.Context, orderID int64) (*domain.OrderDetails, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.details == nil || m.details.Order.OrderID != orderID {
		return nil, &service.Error{Kind: service.KindNotFound, Message: "Order not found"}
	}
	return m.details, nil
}
