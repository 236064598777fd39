// Package models defines the entities shared between the repositories and
// the HTTP layer.
package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Book is a single inventory record. ID and both timestamps are assigned by
// the store; isbn, genre, and description are nullable columns.
type Book struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Price       float64   `json:"price"`
	ISBN        *string   `json:"isbn"`
	Genre       *string   `json:"genre"`
	Description *string   `json:"description"`
	Quantity    int       `json:"quantity"`
	DateAdded   time.Time `json:"date_added"`
	DateUpdated time.Time `json:"date_updated"`
}

// BookInput is the client-supplied portion of a book, used for both create
// and full-replacement update. Quantity defaults to 1 when omitted.
type BookInput struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Author      string  `json:"author" validate:"required,max=255"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	ISBN        *string `json:"isbn"`
	Genre       *string `json:"genre"`
	Description *string `json:"description"`
	Quantity    *int    `json:"quantity"`
}

// ValidationError reports malformed or missing input. The message is safe to
// return to clients verbatim.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the input against the book constraints: title and author
// required and at most 255 characters, price strictly positive. Returns a
// *ValidationError on the first violation.
func (in *BookInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return &ValidationError{Msg: "Invalid book payload."}
	}

	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return &ValidationError{Msg: "Title, author, and price are required fields."}
	case "gt":
		return &ValidationError{Msg: "Price must be a positive number."}
	case "max":
		return &ValidationError{Msg: "Title and author must be less than 255 characters."}
	}
	return &ValidationError{Msg: "Invalid book payload."}
}

// NormalizedQuantity returns the quantity to store: the supplied value, or 1
// when the field was omitted.
func (in *BookInput) NormalizedQuantity() int {
	if in.Quantity == nil {
		return 1
	}
	return *in.Quantity
}
