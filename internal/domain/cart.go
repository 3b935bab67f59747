package domain

import "github.com/shopspring/decimal"

// BookForm is the client's echo of the book it put in the cart. It is only
// compared against the catalog, never trusted.
type BookForm struct {
	Price      decimal.Decimal `json:"price"`
	CategoryID int64           `json:"category_id"`
}

type ShoppingCartItem struct {
	BookID   int64    `json:"book_id"`
	Quantity int      `json:"quantity"`
	BookForm BookForm `json:"book_form"`
}

// ShoppingCart is submitted with an order and never persisted as such.
type ShoppingCart struct {
	Items     []ShoppingCartItem `json:"items"`
	Surcharge decimal.Decimal    `json:"surcharge"`
}

// ComputedSubtotal sums price * quantity over the echoed book prices.
func (c ShoppingCart) ComputedSubtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.BookForm.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal
}

// Total is the amount charged for the cart: subtotal plus surcharge.
func (c ShoppingCart) Total() decimal.Decimal {
	return c.ComputedSubtotal().Add(c.Surcharge)
}
