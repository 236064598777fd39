package models

import (
	"testing"
)

func validInput() *BookInput {
	return &BookInput{
		Title:  "The Left Hand of Darkness",
		Author: "Ursula K. Le Guin",
		Price:  11.99,
	}
}

func TestBookInputValidateOK(t *testing.T) {
	if err := validInput().Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestBookInputValidateRequired(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*BookInput)
	}{
		{"missing title", func(in *BookInput) { in.Title = "" }},
		{"missing author", func(in *BookInput) { in.Author = "" }},
		{"zero price", func(in *BookInput) { in.Price = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(in)
			err := in.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			want := "Title, author, and price are required fields."
			if err.Error() != want {
				t.Errorf("Validate() = %q, want %q", err.Error(), want)
			}
		})
	}
}

func TestBookInputValidateNegativePrice(t *testing.T) {
	in := validInput()
	in.Price = -4.50
	err := in.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	if err.Error() != "Price must be a positive number." {
		t.Errorf("Validate() = %q", err.Error())
	}
}

func TestBookInputValidateTooLong(t *testing.T) {
	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}

	in := validInput()
	in.Title = string(long)
	err := in.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	if err.Error() != "Title and author must be less than 255 characters." {
		t.Errorf("Validate() = %q", err.Error())
	}
}

func TestNormalizedQuantity(t *testing.T) {
	in := validInput()
	if got := in.NormalizedQuantity(); got != 1 {
		t.Errorf("NormalizedQuantity() with nil = %d, want 1", got)
	}

	q := 7
	in.Quantity = &q
	if got := in.NormalizedQuantity(); got != 7 {
		t.Errorf("NormalizedQuantity() = %d, want 7", got)
	}
}
