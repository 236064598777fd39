package books_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shelfd/shelfd/internal/books"
	"github.com/shelfd/shelfd/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) *books.SQLiteRepository {
	t.Helper()
	db := testutil.NewBooksStore(t)
	return books.NewSQLiteRepository(db.DB())
}

func TestCreateAndGet(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	in := testutil.NewBookInput(testutil.WithQuantity(3))
	created, err := repo.Create(ctx, in)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.Equal(t, in.Title, created.Title)
	assert.Equal(t, in.Author, created.Author)
	assert.Equal(t, in.Price, created.Price)
	require.NotNil(t, created.ISBN)
	assert.Equal(t, *in.ISBN, *created.ISBN)
	assert.Equal(t, 3, created.Quantity)
	assert.False(t, created.DateAdded.IsZero())
	assert.False(t, created.DateUpdated.Before(created.DateAdded))

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestGetNotFound(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.Get(context.Background(), 12345)
	assert.ErrorIs(t, err, books.ErrNotFound)
}

func TestCreateDefaultsQuantity(t *testing.T) {
	repo := newRepo(t)

	created, err := repo.Create(context.Background(), testutil.NewBookInput())
	require.NoError(t, err)
	assert.Equal(t, 1, created.Quantity)
}

func TestCreateDuplicateISBN(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, testutil.NewBookInput())
	require.NoError(t, err)

	_, err = repo.Create(ctx, testutil.NewBookInput(testutil.WithTitle("Another Copy")))
	assert.ErrorIs(t, err, books.ErrDuplicateISBN)
}

func TestCreateNullISBNNeverConflicts(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, testutil.NewBookInput(
			testutil.WithTitle(fmt.Sprintf("No ISBN %d", i)),
			testutil.WithISBN(""),
		))
		require.NoError(t, err)
	}
}

func TestUpdateRoundTrip(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, testutil.NewBookInput())
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	in := testutil.NewBookInput(testutil.WithTitle("Count Zero"), testutil.WithPrice(12.50))
	updated, err := repo.Update(ctx, created.ID, in)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Count Zero", updated.Title)
	assert.Equal(t, 12.50, updated.Price)
	assert.Equal(t, created.DateAdded, updated.DateAdded, "date_added must not change on update")
	assert.True(t, updated.DateUpdated.After(created.DateUpdated), "date_updated must strictly increase")
}

func TestUpdateNotFound(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.Update(context.Background(), 999, testutil.NewBookInput())
	assert.ErrorIs(t, err, books.ErrNotFound)
}

func TestUpdateKeepsOwnISBN(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, testutil.NewBookInput())
	require.NoError(t, err)

	// Writing the same isbn back to the same row is not a conflict.
	_, err = repo.Update(ctx, created.ID, testutil.NewBookInput(testutil.WithTitle("Renamed")))
	assert.NoError(t, err)
}

func TestUpdateConflictsWithOtherISBN(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, testutil.NewBookInput(testutil.WithISBN("isbn-a")))
	require.NoError(t, err)
	b, err := repo.Create(ctx, testutil.NewBookInput(
		testutil.WithTitle("Second"), testutil.WithISBN("isbn-b")))
	require.NoError(t, err)

	_, err = repo.Update(ctx, b.ID, testutil.NewBookInput(testutil.WithISBN("isbn-a")))
	assert.ErrorIs(t, err, books.ErrDuplicateISBN)
}

func TestDelete(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, testutil.NewBookInput())
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), books.ErrNotFound)

	_, err = repo.Get(ctx, created.ID)
	assert.ErrorIs(t, err, books.ErrNotFound)
}

// seedTitles inserts one book per title, each with a null isbn.
func seedTitles(t *testing.T, repo *books.SQLiteRepository, titles ...string) {
	t.Helper()
	for _, title := range titles {
		_, err := repo.Create(context.Background(), testutil.NewBookInput(
			testutil.WithTitle(title), testutil.WithISBN("")))
		require.NoError(t, err)
	}
}

func TestListPagination(t *testing.T) {
	repo := newRepo(t)
	seedTitles(t, repo, "Alpha", "Bravo", "Charlie", "Delta", "Echo")

	result, err := repo.List(context.Background(), books.BookFilter{}, books.ListOptions{
		Page: 2, Limit: 2, SortBy: "title", SortOrder: "asc",
	})
	require.NoError(t, err)

	require.Len(t, result.Books, 2)
	assert.Equal(t, "Charlie", result.Books[0].Title)
	assert.Equal(t, "Delta", result.Books[1].Title)
	assert.Equal(t, books.Pagination{Page: 2, Limit: 2, Total: 5, TotalPages: 3}, result.Pagination)
}

func TestListOutOfRangePage(t *testing.T) {
	repo := newRepo(t)
	seedTitles(t, repo, "Alpha", "Bravo")

	result, err := repo.List(context.Background(), books.BookFilter{}, books.ListOptions{
		Page: 99, Limit: 10,
	})
	require.NoError(t, err)

	assert.Empty(t, result.Books)
	assert.Equal(t, 2, result.Pagination.Total)
}

func TestListEmptyTable(t *testing.T) {
	repo := newRepo(t)

	result, err := repo.List(context.Background(), books.BookFilter{}, books.ListOptions{})
	require.NoError(t, err)

	assert.NotNil(t, result.Books)
	assert.Empty(t, result.Books)
	assert.Equal(t, books.Pagination{Page: 1, Limit: 10, Total: 0, TotalPages: 0}, result.Pagination)
}

func TestListDefaults(t *testing.T) {
	repo := newRepo(t)
	seedTitles(t, repo, "Alpha")

	result, err := repo.List(context.Background(), books.BookFilter{}, books.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pagination.Page)
	assert.Equal(t, 10, result.Pagination.Limit)
}

func TestListInvalidSort(t *testing.T) {
	repo := newRepo(t)

	cases := []books.ListOptions{
		{SortBy: "price; DROP TABLE books"},
		{SortBy: "isbn"},
		{SortOrder: "sideways"},
	}
	for _, opts := range cases {
		_, err := repo.List(context.Background(), books.BookFilter{}, opts)
		assert.ErrorIs(t, err, books.ErrInvalidSort, "opts %+v", opts)
	}
}

func TestListSortOrderCaseInsensitive(t *testing.T) {
	repo := newRepo(t)
	seedTitles(t, repo, "Alpha", "Bravo")

	result, err := repo.List(context.Background(), books.BookFilter{}, books.ListOptions{
		SortBy: "title", SortOrder: "aSc",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", result.Books[0].Title)
}

func TestListSearchFilter(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, testutil.NewBookInput(
		testutil.WithTitle("Dune"), testutil.WithAuthor("Frank Herbert"), testutil.WithISBN("isbn-dune")))
	require.NoError(t, err)
	_, err = repo.Create(ctx, testutil.NewBookInput(
		testutil.WithTitle("Hyperion"), testutil.WithAuthor("Dan Simmons"), testutil.WithISBN("isbn-hyp")))
	require.NoError(t, err)

	// Search matches title, author, or isbn, case-insensitively.
	for _, search := range []string{"dune", "herbert", "isbn-dune"} {
		result, err := repo.List(ctx, books.BookFilter{Search: search}, books.ListOptions{})
		require.NoError(t, err)
		require.Len(t, result.Books, 1, "search %q", search)
		assert.Equal(t, "Dune", result.Books[0].Title)
	}
}

func TestListGenreFilterCombinesWithSearch(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, testutil.NewBookInput(
		testutil.WithTitle("Dune"), testutil.WithGenre("Science Fiction"), testutil.WithISBN("")))
	require.NoError(t, err)
	_, err = repo.Create(ctx, testutil.NewBookInput(
		testutil.WithTitle("Dune Companion"), testutil.WithGenre("Reference"), testutil.WithISBN("")))
	require.NoError(t, err)

	result, err := repo.List(ctx, books.BookFilter{Search: "Dune", Genre: "Science"}, books.ListOptions{})
	require.NoError(t, err)
	require.Len(t, result.Books, 1)
	assert.Equal(t, "Dune", result.Books[0].Title)
}

func TestAllSortedByTitle(t *testing.T) {
	repo := newRepo(t)
	seedTitles(t, repo, "Charlie", "Alpha", "Bravo")

	list, err := repo.All(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Alpha", list[0].Title)
	assert.Equal(t, "Bravo", list[1].Title)
	assert.Equal(t, "Charlie", list[2].Title)
}
