package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is a Store backed by a single kv table (see db/migrations).
// Safe for concurrent use; the pool handles connection management.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgres creates a Postgres store.
func NewPostgres(pool *pgxpool.Pool, logger *slog.Logger) (*Postgres, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Postgres{pool: pool, logger: logger}, nil
}

// Get returns the value for (ns, key), or ErrNotFound.
func (p *Postgres) Get(ctx context.Context, ns Namespace, key string) ([]byte, error) {
	var value []byte
	err := p.pool.QueryRow(ctx,
		`SELECT value FROM kv_store WHERE kind = $1 AND owner = $2 AND key = $3`,
		ns.Kind, ns.Owner, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s/%s: %w", ns.Kind, ns.Owner, key, err)
	}
	return value, nil
}

// Put upserts the value for (ns, key).
func (p *Postgres) Put(ctx context.Context, ns Namespace, key string, value []byte) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO kv_store (kind, owner, key, value, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (kind, owner, key)
		 DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		ns.Kind, ns.Owner, key, value,
	)
	if err != nil {
		return fmt.Errorf("put %s/%s/%s: %w", ns.Kind, ns.Owner, key, err)
	}
	p.logger.Debug("stored value", "kind", ns.Kind, "owner", ns.Owner, "key", key)
	return nil
}

// Delete removes (ns, key). Deleting an absent key is not an error.
func (p *Postgres) Delete(ctx context.Context, ns Namespace, key string) error {
	_, err := p.pool.Exec(ctx,
		`DELETE FROM kv_store WHERE kind = $1 AND owner = $2 AND key = $3`,
		ns.Kind, ns.Owner, key,
	)
	if err != nil {
		return fmt.Errorf("delete %s/%s/%s: %w", ns.Kind, ns.Owner, key, err)
	}
	return nil
}
