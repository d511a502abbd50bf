package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-chatsync/internal/infrastructure/database"
	"go-chatsync/internal/infrastructure/kv/port"
)

// PostgresStore keeps keys as rows of the database.KVTable table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an already connected pool and makes sure the table exists.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, errors.New("PostgresStore: nil pool")
	}
	if err := database.EnsureKVSchema(ctx, pool); err != nil {
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

var _ port.Store = (*PostgresStore)(nil)

func (s *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.pool.QueryRow(ctx,
		"SELECT value FROM "+database.KVTable+" WHERE key = $1", key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", port.ErrMiss
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO `+database.KVTable+` (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value,
		              updated_at = EXCLUDED.updated_at
	`, key, value)
	return err
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
