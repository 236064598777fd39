package testutil

import "github.com/shelfd/shelfd/pkg/models"

// NewBookInput returns a valid BookInput, suitable for test fixtures.
// Override individual fields via options as needed.
func NewBookInput(opts ...func(*models.BookInput)) *models.BookInput {
	isbn := "978-0-441-56956-9"
	genre := "Science Fiction"
	in := &models.BookInput{
		Title:  "Neuromancer",
		Author: "William Gibson",
		Price:  9.99,
		ISBN:   &isbn,
		Genre:  &genre,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// WithTitle sets the book title.
func WithTitle(title string) func(*models.BookInput) {
	return func(in *models.BookInput) { in.Title = title }
}

// WithAuthor sets the book author.
func WithAuthor(author string) func(*models.BookInput) {
	return func(in *models.BookInput) { in.Author = author }
}

// WithPrice sets the book price.
func WithPrice(price float64) func(*models.BookInput) {
	return func(in *models.BookInput) { in.Price = price }
}

// WithISBN sets the book isbn. Pass "" for a null isbn.
func WithISBN(isbn string) func(*models.BookInput) {
	return func(in *models.BookInput) {
		if isbn == "" {
			in.ISBN = nil
			return
		}
		in.ISBN = &isbn
	}
}

// WithGenre sets the book genre. Pass "" for a null genre.
func WithGenre(genre string) func(*models.BookInput) {
	return func(in *models.BookInput) {
		if genre == "" {
			in.Genre = nil
			return
		}
		in.Genre = &genre
	}
}

// WithQuantity sets the stocked quantity.
func WithQuantity(q int) func(*models.BookInput) {
	return func(in *models.BookInput) { in.Quantity = &q }
}
