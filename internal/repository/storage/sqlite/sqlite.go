package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// import the SQLite driver to register it with the database/sql package.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rocketscienceinc/battleship-backend/internal/repository/storage"
)

type Storage struct {
	Connection *sql.DB
}

func New(path string) (*Storage, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	// one writer at a time; sqlite would answer "database is locked" otherwise
	conn.SetMaxOpenConns(1)

	if err = conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return &Storage{Connection: conn}, nil
}

func (that *Storage) Init(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS records (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`

	_, err := that.Connection.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("can't create table: %w", err)
	}

	return nil
}

func (that *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := that.Connection.QueryRowContext(ctx, `SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("can't select %s: %w", key, err)
	}

	return value, nil
}

// Put - a single upsert statement, atomic under sqlite's own transaction.
func (that *Storage) Put(ctx context.Context, key string, value []byte) error {
	query := `INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	if _, err := that.Connection.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("can't upsert %s: %w", key, err)
	}

	return nil
}

func (that *Storage) Delete(ctx context.Context, key string) error {
	result, err := that.Connection.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("can't delete %s: %w", key, err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("can't count deleted rows: %w", err)
	}

	if removed == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (that *Storage) Close() error {
	return that.Connection.Close()
}
