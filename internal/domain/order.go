package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Order struct {
	OrderID            int64           `json:"order_id"`
	Amount             decimal.Decimal `json:"amount"`
	DateCreated        time.Time       `json:"date_created"`
	ConfirmationNumber int             `json:"confirmation_number"`
	CustomerID         int64           `json:"customer_id"`
}

type LineItem struct {
	OrderID  int64 `json:"order_id"`
	BookID   int64 `json:"book_id"`
	Quantity int   `json:"quantity"`
}

// OrderForm is the body of an order placement request.
type OrderForm struct {
	CustomerForm CustomerForm `json:"customer_form"`
	Cart         ShoppingCart `json:"cart"`
}

// OrderDetails is assembled on demand; Books[i] is the book of LineItems[i].
type OrderDetails struct {
	Order     *Order      `json:"order"`
	Customer  *Customer   `json:"customer"`
	LineItems []*LineItem `json:"line_items"`
	Books     []*Book     `json:"books"`
}

// OrderPlacedEvent is published after an order transaction commits.
type OrderPlacedEvent struct {
	EventID            uuid.UUID       `json:"event_id"`
	OrderID            int64           `json:"order_id"`
	CustomerID         int64           `json:"customer_id"`
	Amount             decimal.Decimal `json:"amount"`
	ConfirmationNumber int             `json:"confirmation_number"`
	LineItems          []LineItem      `json:"line_items"`
	PlacedAt           time.Time       `json:"placed_at"`
}
