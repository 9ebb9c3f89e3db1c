package persist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres adapts a kv_entries table to the KV contract. Values are stored
// as jsonb; Append concatenates onto a jsonb array with the || operator, so
// the history log grows in place like an append-only journal.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a verified pgxpool connection and ensures the
// kv_entries table exists.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	_, err = pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS kv_entries (
		   key        text PRIMARY KEY,
		   value      jsonb NOT NULL,
		   updated_at timestamptz NOT NULL DEFAULT NOW()
		 )`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("create kv_entries: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() { p.pool.Close() }

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := p.pool.QueryRow(ctx,
		`SELECT value FROM kv_entries WHERE key = $1`, key,
	).Scan(&value)
	if err == pgx.ErrNoRows {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv get %q: %w", key, err)
	}
	return value, nil
}

func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO kv_entries (key, value, updated_at)
		 VALUES ($1, $2::jsonb, NOW())
		 ON CONFLICT (key) DO UPDATE
		 SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value)
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

func (p *Postgres) Append(ctx context.Context, key string, entry []byte) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO kv_entries (key, value, updated_at)
		 VALUES ($1, jsonb_build_array($2::jsonb), NOW())
		 ON CONFLICT (key) DO UPDATE
		 SET value      = kv_entries.value || EXCLUDED.value,
		     updated_at = NOW()`,
		key, entry)
	if err != nil {
		return fmt.Errorf("kv append %q: %w", key, err)
	}
	return nil
}
