package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fjod/go_cart/bookstore-service/internal/domain"
)

const bookColumns = `book_id, title, author, description, price, rating, is_public, is_featured, category_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*domain.Book, error) {
	b := &domain.Book{}
	err := row.Scan(
		&b.BookID,
		&b.Title,
		&b.Author,
		&b.Description,
		&b.Price,
		&b.Rating,
		&b.IsPublic,
		&b.IsFeatured,
		&b.CategoryID,
	)
	return b, err
}

func (r *Repository) GetBook(ctx context.Context, bookID int64) (*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM book WHERE book_id = $1`

	book, err := scanBook(r.db.QueryRowContext(ctx, query, bookID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query book by id: %w", err)
	}
	return book, nil
}

func (r *Repository) ListBooksByCategory(ctx context.Context, categoryID int64) ([]*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM book WHERE category_id = $1 ORDER BY book_id`
	return r.queryBooks(ctx, query, categoryID)
}

func (r *Repository) ListSuggestedBooks(ctx context.Context, categoryID int64, limit int) ([]*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM book WHERE category_id = $1 ORDER BY RANDOM() LIMIT $2`
	return r.queryBooks(ctx, query, categoryID, limit)
}

func (r *Repository) queryBooks(ctx context.Context, query string, args ...any) ([]*domain.Book, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	books := make([]*domain.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book row: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return books, nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT category_id, name FROM category ORDER BY category_id`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*domain.Category, 0)
	for rows.Next() {
		c := &domain.Category{}
		if err := rows.Scan(&c.CategoryID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return categories, nil
}

func (r *Repository) GetCategory(ctx context.Context, categoryID int64) (*domain.Category, error) {
	return r.getCategory(ctx, `SELECT category_id, name FROM category WHERE category_id = $1`, categoryID)
}

func (r *Repository) GetCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	return r.getCategory(ctx, `SELECT category_id, name FROM category WHERE name = $1`, name)
}

func (r *Repository) getCategory(ctx context.Context, query string, arg any) (*domain.Category, error) {
	var c domain.Category
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&c.CategoryID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query category: %w", err)
	}
	return &c, nil
}
