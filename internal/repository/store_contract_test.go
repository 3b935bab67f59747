package repository

import (
	"context"
	"testing"
	"time"

	"github.com/fjod/go_cart/bookstore-service/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract checks the behaviour every backend must share. Stores are
// expected to carry the sample catalog.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("GetBook_Found", func(t *testing.T) {
		store := newStore(t)
		book, err := store.GetBook(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "The Hound of the Baskervilles", book.Title)
		assert.True(t, decimal.RequireFromString("8.99").Equal(book.Price))
		assert.Equal(t, int64(3), book.CategoryID)
		assert.True(t, book.IsPublic)
	})

	t.Run("GetBook_NotFound", func(t *testing.T) {
		store := newStore(t)
		_, err := store.GetBook(context.Background(), 9999)
		assert.ErrorIs(t, err, ErrBookNotFound)
	})

	t.Run("ListBooksByCategory", func(t *testing.T) {
		store := newStore(t)
		books, err := store.ListBooksByCategory(context.Background(), 2)
		require.NoError(t, err)
		require.Len(t, books, 3)
		assert.Equal(t, int64(4), books[0].BookID)
		assert.Equal(t, int64(5), books[1].BookID)
		assert.Equal(t, int64(6), books[2].BookID)
	})

	t.Run("ListBooksByCategory_Empty", func(t *testing.T) {
		store := newStore(t)
		books, err := store.ListBooksByCategory(context.Background(), 9999)
		require.NoError(t, err)
		assert.NotNil(t, books)
		assert.Empty(t, books)
	})

	t.Run("ListSuggestedBooks_RespectsLimit", func(t *testing.T) {
		store := newStore(t)
		books, err := store.ListSuggestedBooks(context.Background(), 1, 2)
		require.NoError(t, err)
		require.Len(t, books, 2)
		for _, b := range books {
			assert.Equal(t, int64(1), b.CategoryID)
		}
	})

	t.Run("Categories", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		categories, err := store.ListCategories(ctx)
		require.NoError(t, err)
		require.Len(t, categories, 4)
		assert.Equal(t, "Classics", categories[0].Name)

		byID, err := store.GetCategory(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "Mystery", byID.Name)

		byName, err := store.GetCategoryByName(ctx, "Science Fiction")
		require.NoError(t, err)
		assert.Equal(t, int64(4), byName.CategoryID)

		_, err = store.GetCategory(ctx, 9999)
		assert.ErrorIs(t, err, ErrCategoryNotFound)
		_, err = store.GetCategoryByName(ctx, "Poetry")
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})

	t.Run("OrderTransaction_Commit", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		expiry := time.Date(2031, time.March, 1, 0, 0, 0, 0, time.UTC)

		tx, err := store.BeginTx(ctx)
		require.NoError(t, err)

		customerID, err := store.CreateCustomer(ctx, tx, &domain.Customer{
			Name:      "Jane Doe",
			Address:   "1 Main St",
			Phone:     "5551234567",
			Email:     "jane@example.com",
			CCNumber:  "4111111111111111",
			CCExpDate: expiry,
		})
		require.NoError(t, err)
		assert.Positive(t, customerID)

		orderID, err := store.CreateOrder(ctx, tx, decimal.RequireFromString("22.98"), 42, customerID)
		require.NoError(t, err)
		assert.Positive(t, orderID)

		require.NoError(t, store.CreateLineItem(ctx, tx, orderID, 7, 2))
		require.NoError(t, store.CreateLineItem(ctx, tx, orderID, 1, 1))
		require.NoError(t, tx.Commit())

		order, err := store.GetOrder(ctx, orderID)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("22.98").Equal(order.Amount))
		assert.Equal(t, 42, order.ConfirmationNumber)
		assert.Equal(t, customerID, order.CustomerID)
		assert.False(t, order.DateCreated.IsZero())

		customer, err := store.GetCustomer(ctx, customerID)
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", customer.Name)
		assert.Equal(t, "4111111111111111", customer.CCNumber)
		assert.Equal(t, 2031, customer.CCExpDate.Year())
		assert.Equal(t, time.March, customer.CCExpDate.Month())

		items, err := store.ListLineItems(ctx, orderID)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, domain.LineItem{OrderID: orderID, BookID: 7, Quantity: 2}, *items[0])
		assert.Equal(t, domain.LineItem{OrderID: orderID, BookID: 1, Quantity: 1}, *items[1])
	})

	t.Run("OrderTransaction_Rollback", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		tx, err := store.BeginTx(ctx)
		require.NoError(t, err)

		customerID, err := store.CreateCustomer(ctx, tx, &domain.Customer{
			Name:      "John Roe",
			Address:   "2 Side St",
			Phone:     "5559876543",
			Email:     "john@example.com",
			CCNumber:  "41111111111111",
			CCExpDate: time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		orderID, err := store.CreateOrder(ctx, tx, decimal.RequireFromString("10.00"), 7, customerID)
		require.NoError(t, err)
		require.NoError(t, store.CreateLineItem(ctx, tx, orderID, 2, 1))
		require.NoError(t, tx.Rollback())

		_, err = store.GetCustomer(ctx, customerID)
		assert.ErrorIs(t, err, ErrCustomerNotFound)
		_, err = store.GetOrder(ctx, orderID)
		assert.ErrorIs(t, err, ErrOrderNotFound)
		items, err := store.ListLineItems(ctx, orderID)
		require.NoError(t, err)
		assert.Empty(t, items)

		assert.ErrorIs(t, tx.Rollback(), ErrTxDone)
	})

	t.Run("CreateCustomer_ForeignTx", func(t *testing.T) {
		store := newStore(t)
		_, err := store.CreateCustomer(context.Background(), foreignTx{}, &domain.Customer{Name: "Jane Doe"})
		assert.ErrorIs(t, err, ErrForeignTx)
	})

	t.Run("GetOrder_NotFound", func(t *testing.T) {
		store := newStore(t)
		_, err := store.GetOrder(context.Background(), 123456)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

type foreignTx struct{}

func (foreignTx) Commit() error   { return nil }
func (foreignTx) Rollback() error { return nil }
