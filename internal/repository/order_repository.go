package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fjod/go_cart/bookstore-service/internal/domain"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const pqForeignKeyViolation = "23503"

func (r *Repository) CreateCustomer(ctx context.Context, tx Tx, customer *domain.Customer) (int64, error) {
	t, err := sqlTx(tx)
	if err != nil {
		return 0, err
	}

	query := `INSERT INTO customer (customer_name, address, phone, email, cc_number, cc_exp_date)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING customer_id`

	var customerID int64
	err = t.QueryRowContext(ctx, query,
		customer.Name,
		customer.Address,
		customer.Phone,
		customer.Email,
		customer.CCNumber,
		customer.CCExpDate).Scan(&customerID)
	if err != nil {
		return 0, fmt.Errorf("insert customer: %w", err)
	}
	return customerID, nil
}

func (r *Repository) GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error) {
	query := `SELECT customer_id, customer_name, address, phone, email, cc_number, cc_exp_date
	          FROM customer WHERE customer_id = $1`

	var c domain.Customer
	err := r.db.QueryRowContext(ctx, query, customerID).Scan(
		&c.CustomerID,
		&c.Name,
		&c.Address,
		&c.Phone,
		&c.Email,
		&c.CCNumber,
		&c.CCExpDate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query customer by id: %w", err)
	}
	return &c, nil
}

func (r *Repository) CreateOrder(ctx context.Context, tx Tx, amount decimal.Decimal, confirmationNumber int, customerID int64) (int64, error) {
	t, err := sqlTx(tx)
	if err != nil {
		return 0, err
	}

	query := `INSERT INTO customer_order (amount, confirmation_number, customer_id)
	          VALUES ($1, $2, $3) RETURNING customer_order_id`

	var orderID int64
	if err := t.QueryRowContext(ctx, query, amount, confirmationNumber, customerID).Scan(&orderID); err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}
	return orderID, nil
}

func (r *Repository) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	query := `SELECT customer_order_id, amount, date_created, confirmation_number, customer_id
	          FROM customer_order WHERE customer_order_id = $1`

	var o domain.Order
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(
		&o.OrderID,
		&o.Amount,
		&o.DateCreated,
		&o.ConfirmationNumber,
		&o.CustomerID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}
	return &o, nil
}

func (r *Repository) CreateLineItem(ctx context.Context, tx Tx, orderID, bookID int64, quantity int) error {
	t, err := sqlTx(tx)
	if err != nil {
		return err
	}

	query := `INSERT INTO customer_order_line_item (customer_order_id, book_id, quantity)
	          VALUES ($1, $2, $3)`

	if _, err := t.ExecContext(ctx, query, orderID, bookID, quantity); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
			return ErrUnknownBook
		}
		return fmt.Errorf("insert line item: %w", err)
	}
	return nil
}

func (r *Repository) ListLineItems(ctx context.Context, orderID int64) ([]*domain.LineItem, error) {
	query := `SELECT customer_order_id, book_id, quantity
	          FROM customer_order_line_item WHERE customer_order_id = $1 ORDER BY line_item_id`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query line items by order id: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.LineItem, 0)
	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(&item.OrderID, &item.BookID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan line item row: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}
