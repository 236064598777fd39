// Package books provides the book repository and its REST handlers.
package books

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shelfd/shelfd/pkg/models"
	sqlite "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

// Sentinel errors returned by the repository.
var (
	ErrNotFound      = errors.New("book not found")
	ErrDuplicateISBN = errors.New("duplicate isbn")
	ErrInvalidSort   = errors.New("invalid sort parameters")
)

// SortColumns is the whitelist of columns a listing may be ordered by.
// Ordering identifiers cannot be parameterized, so anything outside this
// set is rejected before any query is built.
var SortColumns = map[string]bool{
	"title":      true,
	"author":     true,
	"price":      true,
	"date_added": true,
	"genre":      true,
	"quantity":   true,
}

// ListOptions controls pagination and ordering for List. Page numbers are
// 1-based; an out-of-range page yields an empty result set, not an error.
type ListOptions struct {
	Page      int    // Default 1.
	Limit     int    // Default 10.
	SortBy    string // Must be in SortColumns; default "date_added".
	SortOrder string // "asc" or "desc", case-insensitive; default "desc".
}

// BookFilter controls which books are returned by List. Both filters are
// substring matches; SQLite's LIKE makes them ASCII-case-insensitive.
type BookFilter struct {
	Search string // Matches title, author, or isbn (OR).
	Genre  string // Matches genre (AND with Search).
}

// Pagination describes the window a ListResult covers.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ListResult is a filtered page of books plus its pagination metadata.
// Total counts the whole filtered set, not just this page.
type ListResult struct {
	Books      []models.Book `json:"books"`
	Pagination Pagination    `json:"pagination"`
}

// Repository provides CRUD access to book records.
type Repository interface {
	// Get returns a single book by id.
	Get(ctx context.Context, id int64) (*models.Book, error)

	// List returns a filtered, sorted, paginated page of books.
	List(ctx context.Context, filter BookFilter, opts ListOptions) (*ListResult, error)

	// Create inserts a new book and returns it with id and timestamps assigned.
	Create(ctx context.Context, in *models.BookInput) (*models.Book, error)

	// Update replaces all mutable fields of an existing book.
	Update(ctx context.Context, id int64, in *models.BookInput) (*models.Book, error)

	// Delete removes a book by id.
	Delete(ctx context.Context, id int64) error

	// All returns every book ordered by title, for export snapshots.
	All(ctx context.Context) ([]models.Book, error)
}

// Compile-time interface guard.
var _ Repository = (*SQLiteRepository)(nil)

// SQLiteRepository implements Repository over the books table.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a Repository. The books table must already
// exist (created by store.BooksMigrations).
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Columns is the shared column list for book queries; CollectBooks expects
// rows selected in exactly this order.
const Columns = `id, title, author, price, isbn, genre, description,
	quantity, date_added, date_updated`

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*models.Book, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+Columns+` FROM books WHERE id = ?`, id)
	b, err := scanBook(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	return b, nil
}

// normalizeListOptions applies defaults and validates the ordering
// parameters against the whitelist. Returns ErrInvalidSort before any query
// text is assembled.
func normalizeListOptions(opts ListOptions) (ListOptions, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 10
	}
	if opts.SortBy == "" {
		opts.SortBy = "date_added"
	}
	if !SortColumns[opts.SortBy] {
		return opts, ErrInvalidSort
	}
	switch strings.ToUpper(opts.SortOrder) {
	case "", "DESC":
		opts.SortOrder = "DESC"
	case "ASC":
		opts.SortOrder = "ASC"
	default:
		return opts, ErrInvalidSort
	}
	return opts, nil
}

func (r *SQLiteRepository) List(ctx context.Context, filter BookFilter, opts ListOptions) (*ListResult, error) {
	opts, err := normalizeListOptions(opts)
	if err != nil {
		return nil, err
	}

	// Build WHERE clause with parameterized placeholders. The count and
	// data queries share it, so the reported total always matches the
	// filtered set regardless of the pagination window.
	where := "1=1"
	var args []any

	if filter.Search != "" {
		where += " AND (title LIKE ? OR author LIKE ? OR isbn LIKE ?)"
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if filter.Genre != "" {
		where += " AND genre LIKE ?"
		args = append(args, "%"+filter.Genre+"%")
	}

	var total int
	//nolint:gosec // where uses parameterized placeholders only
	err = r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM books WHERE "+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}

	offset := (opts.Page - 1) * opts.Limit

	queryArgs := make([]any, 0, len(args)+2)
	queryArgs = append(queryArgs, args...)
	queryArgs = append(queryArgs, opts.Limit, offset)

	//nolint:gosec // where is parameterized and sort identifiers are whitelisted above
	query := fmt.Sprintf(
		"SELECT %s FROM books WHERE %s ORDER BY %s %s LIMIT ? OFFSET ?",
		Columns, where, opts.SortBy, opts.SortOrder,
	)

	rows, err := r.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	list, err := CollectBooks(rows)
	if err != nil {
		return nil, err
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + opts.Limit - 1) / opts.Limit
	}

	return &ListResult{
		Books: list,
		Pagination: Pagination{
			Page:       opts.Page,
			Limit:      opts.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, in *models.BookInput) (*models.Book, error) {
	now := time.Now().UTC()

	// The UNIQUE index on isbn is the conflict authority; no pre-check, so
	// the uniqueness guarantee holds under concurrent writers.
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO books (title, author, price, isbn, genre, description, quantity, date_added, date_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Title, in.Author, in.Price, in.ISBN, in.Genre, in.Description,
		in.NormalizedQuantity(), now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateISBN
		}
		return nil, fmt.Errorf("create book: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create book: last insert id: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *SQLiteRepository) Update(ctx context.Context, id int64, in *models.BookInput) (*models.Book, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE books
		SET title = ?, author = ?, price = ?, isbn = ?, genre = ?, description = ?, quantity = ?, date_updated = ?
		WHERE id = ?`,
		in.Title, in.Author, in.Price, in.ISBN, in.Genre, in.Description,
		in.NormalizedQuantity(), time.Now().UTC(), id,
	)
	if err != nil {
		// Writing a row's own isbn back never collides; a collision here
		// means another record already holds the isbn.
		if isUniqueViolation(err) {
			return nil, ErrDuplicateISBN
		}
		return nil, fmt.Errorf("update book %d: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) All(ctx context.Context) ([]models.Book, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+Columns+` FROM books ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("export books: %w", err)
	}
	defer rows.Close()

	return CollectBooks(rows)
}

// scanBook scans a single row via the given Scan function.
func scanBook(scan func(dest ...any) error) (*models.Book, error) {
	var b models.Book
	err := scan(
		&b.ID, &b.Title, &b.Author, &b.Price, &b.ISBN, &b.Genre,
		&b.Description, &b.Quantity, &b.DateAdded, &b.DateUpdated,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CollectBooks drains rows from a query over Columns into a slice.
// Never returns a nil slice. Shared with the stats aggregator.
func CollectBooks(rows *sql.Rows) ([]models.Book, error) {
	var list []models.Book
	for rows.Next() {
		b, err := scanBook(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		list = append(list, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	if list == nil {
		list = []models.Book{}
	}
	return list, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure, in either primary or extended result code form.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlitelib.SQLITE_CONSTRAINT_UNIQUE ||
		se.Code() == sqlitelib.SQLITE_CONSTRAINT
}
