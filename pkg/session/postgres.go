package session

import (
	"context"
	"database/sql"
	"time"

	"github.com/aqua-invoicing/pkg/ierr"
	_ "github.com/lib/pq" // Import the PostgreSQL driver
)

const schema = `
CREATE TABLE IF NOT EXISTS session_flags (
	key        TEXT PRIMARY KEY,
	value      BOOLEAN NOT NULL,
	expires_at TIMESTAMPTZ
)`

// PostgresStore keeps flags in the session_flags table so logins survive restarts.
type PostgresStore struct {
	db  *sql.DB
	ttl time.Duration
}

// OpenPostgres connects with dsn and ensures the table exists.
func OpenPostgres(ctx context.Context, dsn string, ttl time.Duration) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, ierr.WithError(err).WithHint("Error connecting to the database").Mark(ierr.ErrSystem)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, ierr.WithError(err).WithHint("Error connecting to the database").Mark(ierr.ErrSystem)
	}
	store := NewPostgresStore(db, ttl)
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewPostgresStore wraps an open handle. A zero ttl stores flags without expiry.
func NewPostgresStore(db *sql.DB, ttl time.Duration) *PostgresStore {
	return &PostgresStore{db: db, ttl: ttl}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return ierr.WithError(err).WithHint("could not create session_flags table").Mark(ierr.ErrSystem)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, key string) (bool, error) {
	var value bool
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM session_flags WHERE key = $1 AND (expires_at IS NULL OR expires_at > now())`,
		key).Scan(&value)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return value, nil
}

func (s *PostgresStore) Save(ctx context.Context, key string, value bool) error {
	var expires sql.NullTime
	if s.ttl > 0 {
		expires = sql.NullTime{Time: time.Now().Add(s.ttl), Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_flags (key, value, expires_at) VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`,
		key, value, expires)
	return err
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session_flags WHERE key = $1`, key)
	return err
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
