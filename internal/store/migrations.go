package store

import "database/sql"

// BooksMigrations is the schema history for the books table. The UNIQUE
// index on isbn is the authority for ISBN conflict detection; repositories
// rely on the constraint rather than a pre-check.
var BooksMigrations = []Migration{
	{
		Version:     1,
		Description: "create books table",
		Up: func(tx *sql.Tx) error {
			stmts := []string{
				`CREATE TABLE books (
					id           INTEGER PRIMARY KEY AUTOINCREMENT,
					title        TEXT NOT NULL,
					author       TEXT NOT NULL,
					price        REAL NOT NULL,
					isbn         TEXT UNIQUE,
					genre        TEXT,
					description  TEXT,
					quantity     INTEGER NOT NULL DEFAULT 1,
					date_added   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
					date_updated DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_books_genre ON books(genre)`,
				`CREATE INDEX idx_books_date_added ON books(date_added)`,
			}
			for _, stmt := range stmts {
				if _, err := tx.Exec(stmt); err != nil {
					return err
				}
			}
			return nil
		},
	},
}
