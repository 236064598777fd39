package store

import (
	"context"
	"fmt"
)

// sampleBooks is the starter inventory inserted by SeedBooks.
var sampleBooks = []struct {
	title, author      string
	price              float64
	isbn, genre, descr string
	quantity           int
}{
	{"To Kill a Mockingbird", "Harper Lee", 14.99, "978-0-06-112008-4", "Fiction",
		"A gripping tale of racial injustice and childhood innocence.", 5},
	{"1984", "George Orwell", 13.99, "978-0-452-28423-4", "Dystopian Fiction",
		"A dystopian social science fiction novel and cautionary tale.", 3},
	{"Pride and Prejudice", "Jane Austen", 12.99, "978-0-14-143951-8", "Romance",
		"A romantic novel of manners set in Georgian England.", 4},
	{"The Great Gatsby", "F. Scott Fitzgerald", 15.99, "978-0-7432-7356-5", "Fiction",
		"A classic American novel set in the Jazz Age.", 2},
	{"Harry Potter and the Sorcerer's Stone", "J.K. Rowling", 16.99, "978-0-439-70818-8", "Fantasy",
		"The first book in the beloved Harry Potter series.", 10},
}

// SeedBooks inserts the sample inventory if the books table is empty.
// Returns the number of rows inserted (zero when the table already has data).
func (s *SQLiteStore) SeedBooks(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM books").Scan(&count); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	inserted := 0
	for _, b := range sampleBooks {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO books (title, author, price, isbn, genre, description, quantity)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			b.title, b.author, b.price, b.isbn, b.genre, b.descr, b.quantity,
		)
		if err != nil {
			return inserted, fmt.Errorf("seed book %q: %w", b.title, err)
		}
		inserted++
	}
	return inserted, nil
}
