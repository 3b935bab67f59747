package repository

import "github.com/fjod/go_cart/bookstore-service/internal/domain"

// PutBook inserts or replaces a catalog entry.
func (s *MemoryRepository) PutBook(book *domain.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := *book
	s.books[b.BookID] = &b
}

// Counts reports committed rows, used to check that nothing leaked from a
// rolled-back transaction.
func (s *MemoryRepository) Counts() (customers, orders, lineItems int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, items := range s.lineItems {
		lineItems += len(items)
	}
	return len(s.customers), len(s.orders), lineItems
}
