package account

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const timeFormat = time.RFC3339Nano

const schema = `CREATE TABLE IF NOT EXISTS players (
	identity   TEXT PRIMARY KEY,
	record     TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLiteStore keeps each player as a JSON record in a single key-value table.
type SQLiteStore struct {
	sqlDB *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens a SQLite store at path, creating the schema if needed.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, identity string) (Player, error) {
	if err := ctx.Err(); err != nil {
		return Player{}, err
	}
	var record string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT record FROM players WHERE identity = ?`, identity).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return Player{}, ErrNotFound
	}
	if err != nil {
		return Player{}, fmt.Errorf("get player: %w", err)
	}
	return decodePlayer(record)
}

func (s *SQLiteStore) Put(ctx context.Context, p Player) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(p.Identity) == "" {
		return fmt.Errorf("identity is required")
	}
	b, err := json.Marshal(p.normalize())
	if err != nil {
		return fmt.Errorf("encode player: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx, `
		INSERT INTO players (identity, record, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(identity) DO UPDATE SET record = excluded.record, updated_at = excluded.updated_at`,
		p.Identity, string(b), p.UpdatedAt.UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("put player: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT record FROM players ORDER BY identity`)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var out []Player
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		p, err := decodePlayer(record)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}
	return out, nil
}

func decodePlayer(record string) (Player, error) {
	var p Player
	if err := json.Unmarshal([]byte(record), &p); err != nil {
		return Player{}, fmt.Errorf("decode player: %w", err)
	}
	return p, nil
}
