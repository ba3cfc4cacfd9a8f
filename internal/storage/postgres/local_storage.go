package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	loadValueSQL   = `SELECT value FROM local_storage WHERE namespace = $1 AND key = $2`
	saveValueSQL   = `INSERT INTO local_storage (namespace, key, value, updated_at) VALUES ($1, $2, $3, NOW())
		ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	deleteValueSQL = `DELETE FROM local_storage WHERE namespace = $1 AND key = $2`
)

// LocalStorage is a durable key/value store partitioned by namespace, one
// namespace per browsing session.
type LocalStorage struct {
	pool *pgxpool.Pool
}

// NewLocalStorage returns a LocalStorage that uses the given pool.
func NewLocalStorage(pool *pgxpool.Pool) *LocalStorage {
	return &LocalStorage{pool: pool}
}

// Namespace returns a view of the store scoped to namespace.
func (s *LocalStorage) Namespace(namespace string) *Namespace {
	return &Namespace{pool: s.pool, namespace: namespace}
}

// Namespace is a LocalStorage scoped to one namespace.
type Namespace struct {
	pool      *pgxpool.Pool
	namespace string
}

// Load returns the stored value for key and whether it exists.
func (n *Namespace) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := n.pool.QueryRow(ctx, loadValueSQL, n.namespace, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "load %q", key)
	}
	return value, true, nil
}

// Save stores value under key, replacing any previous value.
func (n *Namespace) Save(ctx context.Context, key string, value []byte) error {
	if _, err := n.pool.Exec(ctx, saveValueSQL, n.namespace, key, value); err != nil {
		return errors.Wrapf(err, "save %q", key)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (n *Namespace) Delete(ctx context.Context, key string) error {
	if _, err := n.pool.Exec(ctx, deleteValueSQL, n.namespace, key); err != nil {
		return errors.Wrapf(err, "delete %q", key)
	}
	return nil
}
