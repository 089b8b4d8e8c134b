package database

import (
	"database/sql"
	"fmt"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"presale/internal/model"
)

// Database holds the durable set of consumed payment references. It exists
// to close the replay window: without it, two requests claiming the same
// transaction could both pass verification and both trigger a distribution.
type Database struct {
	db *sql.DB
}

// New creates a new Database instance and initializes the schema
func New(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("error creating tables: %v", err)
	}

	return &Database{db: db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS consumed_payments (
			chain TEXT NOT NULL,
			reference TEXT NOT NULL,
			buyer TEXT NOT NULL,
			tokens INTEGER,
			signature TEXT,
			created_at INTEGER NOT NULL,
			PRIMARY KEY (chain, reference)
		)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query: %v\nQuery: %s", err, query)
		}
	}

	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// Consume atomically records a (chain, reference) pair as spent. The primary
// key makes the check-and-insert atomic; a second claim of the same
// reference fails with ErrAlreadyProcessed before any tokens move. The row
// is written before distribution, so a crash in between fails closed.
func (d *Database) Consume(chain, reference, buyer string) error {
	_, err := d.db.Exec(
		`INSERT INTO consumed_payments (chain, reference, buyer, created_at) VALUES (?, ?, ?, ?)`,
		chain, reference, buyer, time.Now().Unix(),
	)
	if err != nil {
		if e, ok := err.(sqlite3.Error); ok && e.Code == sqlite3.ErrConstraint {
			return model.ErrAlreadyProcessed
		}
		return fmt.Errorf("error recording consumed payment: %v", err)
	}
	return nil
}

// RecordReceipt stores the distribution outcome against a consumed
// reference for later reconciliation.
func (d *Database) RecordReceipt(chain, reference, signature string, tokens uint64) error {
	_, err := d.db.Exec(
		`UPDATE consumed_payments SET signature = ?, tokens = ? WHERE chain = ? AND reference = ?`,
		signature, tokens, chain, reference,
	)
	if err != nil {
		return fmt.Errorf("error recording receipt: %v", err)
	}
	return nil
}
