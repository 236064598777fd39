// Package stats computes the dashboard statistics over the whole book set.
package stats

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shelfd/shelfd/internal/books"
	"github.com/shelfd/shelfd/pkg/models"
	"golang.org/x/sync/errgroup"
)

// recentWindow is how many of the newest books the stats view includes.
const recentWindow = 5

// GenreCount is one row of the per-genre breakdown.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// Stats is the merged statistics payload. TotalValue sums price*quantity
// over every record; genres are ordered by count descending with null
// genres excluded.
type Stats struct {
	TotalBooks  int           `json:"totalBooks"`
	TotalValue  float64       `json:"totalValue"`
	Genres      []GenreCount  `json:"genres"`
	RecentBooks []models.Book `json:"recentBooks"`
}

// Aggregator runs the four statistics queries against the books table.
type Aggregator struct {
	db *sql.DB
}

// NewAggregator creates an Aggregator.
func NewAggregator(db *sql.DB) *Aggregator {
	return &Aggregator{db: db}
}

// Collect runs the four sub-queries concurrently and merges their results
// once all complete. Any single failure cancels the rest and fails the
// whole collection; there is no partial-stats response.
func (a *Aggregator) Collect(ctx context.Context) (*Stats, error) {
	var s Stats

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := a.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM books").Scan(&s.TotalBooks)
		if err != nil {
			return fmt.Errorf("total books: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		// COALESCE so an empty table yields 0, not NULL.
		err := a.db.QueryRowContext(ctx,
			"SELECT COALESCE(SUM(price * quantity), 0) FROM books").Scan(&s.TotalValue)
		if err != nil {
			return fmt.Errorf("total value: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		genres, err := a.genreCounts(ctx)
		if err != nil {
			return fmt.Errorf("genre counts: %w", err)
		}
		s.Genres = genres
		return nil
	})

	g.Go(func() error {
		recent, err := a.recentBooks(ctx)
		if err != nil {
			return fmt.Errorf("recent books: %w", err)
		}
		s.RecentBooks = recent
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (a *Aggregator) genreCounts(ctx context.Context) ([]GenreCount, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT genre, COUNT(*) AS count FROM books
		WHERE genre IS NOT NULL
		GROUP BY genre
		ORDER BY count DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	genres := []GenreCount{}
	for rows.Next() {
		var gc GenreCount
		if err := rows.Scan(&gc.Genre, &gc.Count); err != nil {
			return nil, err
		}
		genres = append(genres, gc)
	}
	return genres, rows.Err()
}

func (a *Aggregator) recentBooks(ctx context.Context) ([]models.Book, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT `+books.Columns+` FROM books ORDER BY date_added DESC LIMIT ?`,
		recentWindow)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return books.CollectBooks(rows)
}
