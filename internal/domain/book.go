package domain

import "github.com/shopspring/decimal"

type Category struct {
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
}

// Book is the catalog's authoritative view of a title, including the price
// and category a cart item is checked against.
type Book struct {
	BookID      int64           `json:"book_id"`
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Rating      int             `json:"rating"`
	IsPublic    bool            `json:"is_public"`
	IsFeatured  bool            `json:"is_featured"`
	CategoryID  int64           `json:"category_id"`
}
