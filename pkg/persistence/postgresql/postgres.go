// Package postgresql provides PostgreSQL-backed persistence. Entities are
// stored as JSONB documents with the columns needed for lookups and ordering
// promoted alongside.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"

	// PostgreSQL driver registration.
	_ "github.com/lib/pq"

	"github.com/voltway/weaver/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface on PostgreSQL.
type Persistence struct {
	db *sql.DB
}

// NewPersistence connects to the database and ensures the schema exists.
func NewPersistence(ctx context.Context, databaseURL string) (persistence.Persistence, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p := &Persistence{db: db}
	if err := p.ensureSchema(ctx); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Persistence) ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS workflows (
			id         TEXT PRIMARY KEY,
			data       JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS webhooks (
			id          TEXT PRIMARY KEY,
			workflow_id TEXT NOT NULL,
			data        JSONB NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			workflow_id TEXT NOT NULL,
			data        JSONB NOT NULL,
			started_at  TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS runs_workflow_id_idx ON runs (workflow_id, started_at DESC)`,
		`CREATE TABLE IF NOT EXISTS schedules (
			id          TEXT PRIMARY KEY,
			workflow_id TEXT NOT NULL,
			data        JSONB NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}

	return nil
}

// HealthCheck pings the database.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (p *Persistence) Close(_ context.Context) error {
	return p.db.Close()
}
