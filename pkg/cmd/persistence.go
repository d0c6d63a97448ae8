package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/voltway/weaver/pkg/persistence"
	"github.com/voltway/weaver/pkg/persistence/file"
	"github.com/voltway/weaver/pkg/persistence/postgresql"
	"github.com/voltway/weaver/pkg/persistence/redis"
)

// NewPersistence selects a persistence backend from the database URL scheme:
// postgres://, redis://, or a file path (optionally file://).
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) persistence.Persistence {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		p, err := postgresql.NewPersistence(ctx, databaseURL)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to initialize PostgreSQL persistence", "error", err)
			panic(err)
		}

		return p
	case strings.HasPrefix(databaseURL, "redis://"), strings.HasPrefix(databaseURL, "rediss://"):
		p, err := redis.NewPersistence(ctx, databaseURL)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to initialize Redis persistence", "error", err)
			panic(err)
		}

		return p
	default:
		return file.NewPersistence(databaseURL)
	}
}
