package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fjod/go_cart/bookstore-service/internal/domain"
	"github.com/fjod/go_cart/bookstore-service/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// MockTx records how a transaction ended.
type MockTx struct {
	CommitErr   error
	RollbackErr error
	Committed   bool
	RolledBack  bool
}

func (m *MockTx) Commit() error {
	m.Committed = true
	return m.CommitErr
}

func (m *MockTx) Rollback() error {
	m.RolledBack = true
	return m.RollbackErr
}

// MockStore implements every store interface the services use, with canned
// results and call counters.
type MockStore struct {
	Books      map[int64]*domain.Book
	Categories map[int64]*domain.Category
	Customers  map[int64]*domain.Customer
	Orders     map[int64]*domain.Order
	LineItems  map[int64][]*domain.LineItem

	Tx          *MockTx
	BeginErr    error
	BookErr     error
	CustomerErr error
	OrderErr    error
	LineItemErr error
	ReadErr     error

	BeginCalls          int
	CreateCustomerCalls int
	CreateOrderCalls    int
	CreateLineItemCalls int
	LastAmount          decimal.Decimal
	LastConfirmation    int
	LastCustomer        *domain.Customer
}

func NewMockStore() *MockStore {
	m := &MockStore{
		Books:      make(map[int64]*domain.Book),
		Categories: make(map[int64]*domain.Category),
		Customers:  make(map[int64]*domain.Customer),
		Orders:     make(map[int64]*domain.Order),
		LineItems:  make(map[int64][]*domain.LineItem),
		Tx:         &MockTx{},
	}
	for _, b := range repository.SampleBooks() {
		m.Books[b.BookID] = b
	}
	for _, c := range repository.SampleCategories() {
		m.Categories[c.CategoryID] = c
	}
	return m
}

func (m *MockStore) BeginTx(_ context.Context) (repository.Tx, error) {
	m.BeginCalls++
	if m.BeginErr != nil {
		return nil, m.BeginErr
	}
	return m.Tx, nil
}

func (m *MockStore) GetBook(_ context.Context, bookID int64) (*domain.Book, error) {
	if m.BookErr != nil {
		return nil, m.BookErr
	}
	b, ok := m.Books[bookID]
	if !ok {
		return nil, repository.ErrBookNotFound
	}
	return b, nil
}

func (m *MockStore) ListBooksByCategory(_ context.Context, categoryID int64) ([]*domain.Book, error) {
	if m.BookErr != nil {
		return nil, m.BookErr
	}
	books := make([]*domain.Book, 0)
	for id := int64(1); id <= int64(len(m.Books)); id++ {
		if b, ok := m.Books[id]; ok && b.CategoryID == categoryID {
			books = append(books, b)
		}
	}
	return books, nil
}

func (m *MockStore) ListSuggestedBooks(ctx context.Context, categoryID int64, limit int) ([]*domain.Book, error) {
	books, err := m.ListBooksByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if len(books) > limit {
		books = books[:limit]
	}
	return books, nil
}

func (m *MockStore) ListCategories(_ context.Context) ([]*domain.Category, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	categories := make([]*domain.Category, 0, len(m.Categories))
	for id := int64(1); id <= int64(len(m.Categories)); id++ {
		if c, ok := m.Categories[id]; ok {
			categories = append(categories, c)
		}
	}
	return categories, nil
}

func (m *MockStore) GetCategory(_ context.Context, categoryID int64) (*domain.Category, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	c, ok := m.Categories[categoryID]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return c, nil
}

func (m *MockStore) GetCategoryByName(_ context.Context, name string) (*domain.Category, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	for _, c := range m.Categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

func (m *MockStore) CreateCustomer(_ context.Context, _ repository.Tx, customer *domain.Customer) (int64, error) {
	m.CreateCustomerCalls++
	m.LastCustomer = customer
	if m.CustomerErr != nil {
		return 0, m.CustomerErr
	}
	return 11, nil
}

func (m *MockStore) GetCustomer(_ context.Context, customerID int64) (*domain.Customer, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	c, ok := m.Customers[customerID]
	if !ok {
		return nil, repository.ErrCustomerNotFound
	}
	return c, nil
}

func (m *MockStore) CreateOrder(_ context.Context, _ repository.Tx, amount decimal.Decimal, confirmationNumber int, _ int64) (int64, error) {
	m.CreateOrderCalls++
	m.LastAmount = amount
	m.LastConfirmation = confirmationNumber
	if m.OrderErr != nil {
		return 0, m.OrderErr
	}
	return 21, nil
}

func (m *MockStore) GetOrder(_ context.Context, orderID int64) (*domain.Order, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	o, ok := m.Orders[orderID]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return o, nil
}

func (m *MockStore) CreateLineItem(_ context.Context, _ repository.Tx, _, _ int64, _ int) error {
	m.CreateLineItemCalls++
	return m.LineItemErr
}

func (m *MockStore) ListLineItems(_ context.Context, orderID int64) ([]*domain.LineItem, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	return m.LineItems[orderID], nil
}

func (m *MockStore) writes() int {
	return m.BeginCalls + m.CreateCustomerCalls + m.CreateOrderCalls + m.CreateLineItemCalls
}

// MockPublisher collects published events.
type MockPublisher struct {
	mu     sync.Mutex
	Events []*domain.OrderPlacedEvent
	Err    error
}

func (m *MockPublisher) PublishOrderPlaced(_ context.Context, event *domain.OrderPlacedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return m.Err
}

// failingLineItemStore wraps a real store, fails the line item write for one
// book and remembers the ids created inside the transaction.
type failingLineItemStore struct {
	repository.Store
	failBookID int64
	customerID int64
	orderID    int64
}

func (f *failingLineItemStore) CreateCustomer(ctx context.Context, tx repository.Tx, customer *domain.Customer) (int64, error) {
	id, err := f.Store.CreateCustomer(ctx, tx, customer)
	f.customerID = id
	return id, err
}

func (f *failingLineItemStore) CreateOrder(ctx context.Context, tx repository.Tx, amount decimal.Decimal, confirmationNumber int, customerID int64) (int64, error) {
	id, err := f.Store.CreateOrder(ctx, tx, amount, confirmationNumber, customerID)
	f.orderID = id
	return id, err
}

func (f *failingLineItemStore) CreateLineItem(ctx context.Context, tx repository.Tx, orderID, bookID int64, quantity int) error {
	if bookID == f.failBookID {
		return errors.New("connection reset by peer")
	}
	return f.Store.CreateLineItem(ctx, tx, orderID, bookID, quantity)
}

func newSQLiteStore(t *testing.T) repository.Store {
	t.Helper()
	creds := &repository.Credentials{
		Driver:            repository.DriverSQLite,
		Path:              filepath.Join(t.TempDir(), "bookstore.db"),
		MigrationsDirPath: "../repository/migrations/sqlite",
	}
	store, err := repository.NewRepository(creds)
	require.NoError(t, err)
	require.NoError(t, store.RunMigrations(creds))
	t.Cleanup(func() { store.Close() })
	return store
}

func newOrderServiceFor(store repository.Store, publisher OrderEventPublisher) *OrderService {
	svc := NewOrderService(store, store, store, store, store, publisher, nil)
	svc.now = fixedNow
	svc.confirmationNumber = func() int { return 42 }
	return svc
}
