package repository

import (
	"cmp"
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/fjod/go_cart/bookstore-service/internal/domain"
	"github.com/shopspring/decimal"
)

// MemoryRepository implements Store in process memory. Writes made through a
// memoryTx are staged and only become visible on Commit.
type MemoryRepository struct {
	mu         sync.RWMutex
	categories map[int64]*domain.Category
	books      map[int64]*domain.Book
	customers  map[int64]*domain.Customer
	orders     map[int64]*domain.Order
	lineItems  map[int64][]*domain.LineItem // orderID -> items in insertion order

	nextCustomerID int64
	nextOrderID    int64
}

// NewMemoryRepository creates a store seeded with the sample catalog.
func NewMemoryRepository() *MemoryRepository {
	s := &MemoryRepository{
		categories: make(map[int64]*domain.Category),
		books:      make(map[int64]*domain.Book),
		customers:  make(map[int64]*domain.Customer),
		orders:     make(map[int64]*domain.Order),
		lineItems:  make(map[int64][]*domain.LineItem),
	}
	for _, c := range SampleCategories() {
		s.categories[c.CategoryID] = c
	}
	for _, b := range SampleBooks() {
		s.books[b.BookID] = b
	}
	return s
}

func (s *MemoryRepository) RunMigrations(*Credentials) error {
	return nil
}

func (s *MemoryRepository) Close() error {
	return nil
}

type memoryTx struct {
	store     *MemoryRepository
	mu        sync.Mutex
	done      bool
	customers []*domain.Customer
	orders    []*domain.Order
	lineItems []*domain.LineItem
}

func (s *MemoryRepository) BeginTx(ctx context.Context) (Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &memoryTx{store: s}, nil
}

func (t *memoryTx) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return ErrTxDone
	}
	t.done = true

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	// validate references before applying anything
	for _, o := range t.orders {
		if !t.hasCustomer(o.CustomerID) {
			return ErrCustomerNotFound
		}
	}
	for _, item := range t.lineItems {
		if _, ok := s.books[item.BookID]; !ok {
			return ErrUnknownBook
		}
		if !t.hasOrder(item.OrderID) {
			return ErrOrderNotFound
		}
	}

	for _, c := range t.customers {
		s.customers[c.CustomerID] = c
	}
	now := time.Now().UTC()
	for _, o := range t.orders {
		o.DateCreated = now
		s.orders[o.OrderID] = o
	}
	for _, item := range t.lineItems {
		s.lineItems[item.OrderID] = append(s.lineItems[item.OrderID], item)
	}
	return nil
}

func (t *memoryTx) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return ErrTxDone
	}
	t.done = true
	t.customers, t.orders, t.lineItems = nil, nil, nil
	return nil
}

// hasCustomer and hasOrder are called with the store lock held.
func (t *memoryTx) hasCustomer(id int64) bool {
	if _, ok := t.store.customers[id]; ok {
		return true
	}
	for _, c := range t.customers {
		if c.CustomerID == id {
			return true
		}
	}
	return false
}

func (t *memoryTx) hasOrder(id int64) bool {
	if _, ok := t.store.orders[id]; ok {
		return true
	}
	for _, o := range t.orders {
		if o.OrderID == id {
			return true
		}
	}
	return false
}

func (s *MemoryRepository) txFrom(tx Tx) (*memoryTx, error) {
	t, ok := tx.(*memoryTx)
	if !ok || t == nil || t.store != s {
		return nil, ErrForeignTx
	}
	return t, nil
}

// stage runs fn with the tx lock held, unless the tx has already finished.
func (t *memoryTx) stage(fn func() error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return ErrTxDone
	}
	return fn()
}

func (s *MemoryRepository) CreateCustomer(ctx context.Context, tx Tx, customer *domain.Customer) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	t, err := s.txFrom(tx)
	if err != nil {
		return 0, err
	}

	var id int64
	err = t.stage(func() error {
		s.mu.Lock()
		s.nextCustomerID++
		id = s.nextCustomerID
		s.mu.Unlock()

		c := *customer
		c.CustomerID = id
		t.customers = append(t.customers, &c)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *MemoryRepository) CreateOrder(ctx context.Context, tx Tx, amount decimal.Decimal, confirmationNumber int, customerID int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	t, err := s.txFrom(tx)
	if err != nil {
		return 0, err
	}

	var id int64
	err = t.stage(func() error {
		s.mu.Lock()
		s.nextOrderID++
		id = s.nextOrderID
		s.mu.Unlock()

		t.orders = append(t.orders, &domain.Order{
			OrderID:            id,
			Amount:             amount,
			ConfirmationNumber: confirmationNumber,
			CustomerID:         customerID,
		})
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *MemoryRepository) CreateLineItem(ctx context.Context, tx Tx, orderID, bookID int64, quantity int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t, err := s.txFrom(tx)
	if err != nil {
		return err
	}

	return t.stage(func() error {
		for _, item := range t.lineItems {
			if item.OrderID == orderID && item.BookID == bookID {
				return errors.New("duplicate line item for book in order")
			}
		}
		t.lineItems = append(t.lineItems, &domain.LineItem{OrderID: orderID, BookID: bookID, Quantity: quantity})
		return nil
	})
}

func (s *MemoryRepository) GetBook(_ context.Context, bookID int64) (*domain.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.books[bookID]
	if !ok {
		return nil, ErrBookNotFound
	}
	book := *b
	return &book, nil
}

func (s *MemoryRepository) ListBooksByCategory(_ context.Context, categoryID int64) ([]*domain.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.booksInCategory(categoryID), nil
}

func (s *MemoryRepository) ListSuggestedBooks(_ context.Context, categoryID int64, limit int) ([]*domain.Book, error) {
	s.mu.RLock()
	books := s.booksInCategory(categoryID)
	s.mu.RUnlock()

	rand.Shuffle(len(books), func(i, j int) { books[i], books[j] = books[j], books[i] })
	if limit >= 0 && len(books) > limit {
		books = books[:limit]
	}
	return books, nil
}

// booksInCategory returns copies ordered by book id. Caller holds the read lock.
func (s *MemoryRepository) booksInCategory(categoryID int64) []*domain.Book {
	books := make([]*domain.Book, 0)
	for _, b := range s.books {
		if b.CategoryID != categoryID {
			continue
		}
		book := *b
		books = append(books, &book)
	}
	slices.SortFunc(books, func(a, b *domain.Book) int { return cmp.Compare(a.BookID, b.BookID) })
	return books
}

func (s *MemoryRepository) ListCategories(_ context.Context) ([]*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	categories := make([]*domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		category := *c
		categories = append(categories, &category)
	}
	slices.SortFunc(categories, func(a, b *domain.Category) int { return cmp.Compare(a.CategoryID, b.CategoryID) })
	return categories, nil
}

func (s *MemoryRepository) GetCategory(_ context.Context, categoryID int64) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[categoryID]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	category := *c
	return &category, nil
}

func (s *MemoryRepository) GetCategoryByName(_ context.Context, name string) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.Name == name {
			category := *c
			return &category, nil
		}
	}
	return nil, ErrCategoryNotFound
}

func (s *MemoryRepository) GetCustomer(_ context.Context, customerID int64) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[customerID]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	customer := *c
	return &customer, nil
}

func (s *MemoryRepository) GetOrder(_ context.Context, orderID int64) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	order := *o
	return &order, nil
}

func (s *MemoryRepository) ListLineItems(_ context.Context, orderID int64) ([]*domain.LineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]*domain.LineItem, 0, len(s.lineItems[orderID]))
	for _, item := range s.lineItems[orderID] {
		li := *item
		items = append(items, &li)
	}
	return items, nil
}
