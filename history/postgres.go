package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS ipo_name_history (
	code         VARCHAR(16) PRIMARY KEY,
	display_name VARCHAR(255) NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresStore keeps the name history in a Postgres table for deployments
// that already run the database. Like the file store it loads everything at
// start and flushes at end; the engine never queries mid-run.
type PostgresStore struct {
	*MemoryStore
	db *sql.DB
}

// OpenPostgres connects, ensures the history table exists, and loads it.
func OpenPostgres(dbURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure name history table: %w", err)
	}

	store := &PostgresStore{MemoryStore: NewMemoryStore(), db: db}
	if err := store.load(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT code, display_name FROM ipo_name_history`)
	if err != nil {
		return fmt.Errorf("failed to load name history: %w", err)
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var code, name string
		if err := rows.Scan(&code, &name); err != nil {
			return fmt.Errorf("failed to scan name history row: %w", err)
		}
		names[code] = name
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read name history rows: %w", err)
	}
	s.replace(names)
	logrus.WithField("entries", len(names)).Info("Loaded name history from database")
	return nil
}

// Persist upserts the full mapping in one transaction.
func (s *PostgresStore) Persist() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ipo_name_history (code, display_name, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (code) DO UPDATE
		SET display_name = EXCLUDED.display_name, updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("failed to prepare history upsert: %w", err)
	}
	defer stmt.Close()

	for code, name := range s.Snapshot() {
		if _, err := stmt.ExecContext(ctx, code, name); err != nil {
			return fmt.Errorf("failed to upsert history entry %s: %w", code, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit name history: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
