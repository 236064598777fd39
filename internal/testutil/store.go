package testutil

import (
	"context"
	"testing"

	"github.com/shelfd/shelfd/internal/store"
)

// NewStore creates an in-memory SQLiteStore for testing.
// The store is automatically closed when the test completes.
func NewStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	db, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("testutil.NewStore: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// NewBooksStore creates an in-memory store with the books schema applied.
func NewBooksStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	db := NewStore(t)
	if err := db.Migrate(context.Background(), "books", store.BooksMigrations); err != nil {
		t.Fatalf("testutil.NewBooksStore: migrate: %v", err)
	}
	return db
}
