package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fjod/go_cart/bookstore-service/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

var (
	ErrBookNotFound     = errors.New("book not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrUnknownBook      = errors.New("line item references an unknown book")
	ErrForeignTx        = errors.New("transaction was not opened by this store")

	// ErrTxDone is returned by every backend for Commit or Rollback on a
	// finished transaction.
	ErrTxDone = sql.ErrTxDone
)

type Credentials struct {
	Driver            string
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	Path              string
	MigrationsDirPath string
}

// Tx is one unit of work. A store only accepts transactions opened by its own
// TxBeginner.
type Tx interface {
	Commit() error
	Rollback() error
}

type TxBeginner interface {
	BeginTx(ctx context.Context) (Tx, error)
}

type BookRepository interface {
	GetBook(ctx context.Context, bookID int64) (*domain.Book, error)
	ListBooksByCategory(ctx context.Context, categoryID int64) ([]*domain.Book, error)
	ListSuggestedBooks(ctx context.Context, categoryID int64, limit int) ([]*domain.Book, error)
}

type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetCategory(ctx context.Context, categoryID int64) (*domain.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*domain.Category, error)
}

type CustomerRepository interface {
	CreateCustomer(ctx context.Context, tx Tx, customer *domain.Customer) (int64, error)
	GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, tx Tx, amount decimal.Decimal, confirmationNumber int, customerID int64) (int64, error)
	GetOrder(ctx context.Context, orderID int64) (*domain.Order, error)
}

type LineItemRepository interface {
	CreateLineItem(ctx context.Context, tx Tx, orderID, bookID int64, quantity int) error
	ListLineItems(ctx context.Context, orderID int64) ([]*domain.LineItem, error)
}

// Store is everything the service needs from one backend.
type Store interface {
	TxBeginner
	BookRepository
	CategoryRepository
	CustomerRepository
	OrderRepository
	LineItemRepository
	RunMigrations(*Credentials) error
	Close() error
}

// Open returns the backend selected by cred.Driver.
func Open(cred *Credentials) (Store, error) {
	if cred.Driver == DriverMemory {
		return NewMemoryRepository(), nil
	}
	return NewRepository(cred)
}
