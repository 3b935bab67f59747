package repository

import (
	"github.com/fjod/go_cart/bookstore-service/internal/domain"
	"github.com/shopspring/decimal"
)

// SampleCategories mirrors migrations/*/000002_seed_catalog.
func SampleCategories() []*domain.Category {
	return []*domain.Category{
		{CategoryID: 1, Name: "Classics"},
		{CategoryID: 2, Name: "Fantasy"},
		{CategoryID: 3, Name: "Mystery"},
		{CategoryID: 4, Name: "Science Fiction"},
	}
}

// SampleBooks mirrors migrations/*/000002_seed_catalog.
func SampleBooks() []*domain.Book {
	book := func(id int64, title, author, price string, rating int, featured bool, categoryID int64) *domain.Book {
		return &domain.Book{
			BookID:     id,
			Title:      title,
			Author:     author,
			Price:      decimal.RequireFromString(price),
			Rating:     rating,
			IsPublic:   true,
			IsFeatured: featured,
			CategoryID: categoryID,
		}
	}
	return []*domain.Book{
		book(1, "Pride and Prejudice", "Jane Austen", "9.99", 5, true, 1),
		book(2, "Moby-Dick", "Herman Melville", "12.50", 4, false, 1),
		book(3, "Great Expectations", "Charles Dickens", "10.95", 4, false, 1),
		book(4, "The Hobbit", "J.R.R. Tolkien", "14.99", 5, true, 2),
		book(5, "A Wizard of Earthsea", "Ursula K. Le Guin", "11.25", 4, false, 2),
		book(6, "The Name of the Wind", "Patrick Rothfuss", "16.00", 4, false, 2),
		book(7, "The Hound of the Baskervilles", "Arthur Conan Doyle", "8.99", 5, true, 3),
		book(8, "The Moonstone", "Wilkie Collins", "7.49", 3, false, 3),
		book(9, "Murder on the Orient Express", "Agatha Christie", "13.75", 5, false, 3),
		book(10, "Dune", "Frank Herbert", "18.99", 5, true, 4),
		book(11, "Foundation", "Isaac Asimov", "15.49", 4, false, 4),
		book(12, "The Left Hand of Darkness", "Ursula K. Le Guin", "14.25", 4, false, 4),
	}
}
