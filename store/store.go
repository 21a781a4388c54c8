// Package store implements the frame archive: a SQLite-backed record of
// protected envelopes, keyed by their content hash. The CLI uses it to keep
// an audit trail of everything it has protected, and to recover payloads
// later without the original files.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Fantom-foundation/lachesis-base/hash"
	_ "github.com/mattn/go-sqlite3"

	"github.com/elxr-labs/go-elxr-ecc/msg"
)

var (
	// ErrNotFound is returned when no envelope carries the requested ID.
	ErrNotFound = errors.New("store: envelope not found")
)

// Store is the archive handle. Safe for concurrent use; database/sql pools
// connections underneath.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the archive at the given path and
// bootstraps the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal=wal&_sync=normal")
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	if err := setup(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("setup archive: %w", err)
	}

	return &Store{db: db}, nil
}

func setup(db *sql.DB) error {
	_, err := db.Exec(
		`
		create table if not exists envelope (
			id         text primary key,
			tier       int not null,
			raw_len    int not null,
			body       blob not null,
			created_at int not null
		)
		`,
	)
	if err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

// Put archives an envelope in its RLP storage form and returns its ID.
// Re-archiving an identical envelope is a no-op overwrite.
func (s *Store) Put(ctx context.Context, env *msg.Envelope) (hash.Hash, error) {
	id, err := env.ID()
	if err != nil {
		return hash.Hash{}, err
	}
	body, err := env.MarshalRLP()
	if err != nil {
		return hash.Hash{}, err
	}

	_, err = s.db.ExecContext(ctx,
		`
		insert or replace into envelope (id, tier, raw_len, body, created_at)
		values (:id, :tier, :raw_len, :body, :created_at)
		`,
		sql.Named("id", id.Hex()),
		sql.Named("tier", uint8(env.Tier)),
		sql.Named("raw_len", env.RawLen),
		sql.Named("body", body),
		sql.Named("created_at", time.Now().Unix()),
	)
	if err != nil {
		return hash.Hash{}, fmt.Errorf("put envelope: %w", err)
	}
	return id, nil
}

// Get loads the envelope with the given ID.
func (s *Store) Get(ctx context.Context, id hash.Hash) (*msg.Envelope, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		`select body from envelope where id = :id`,
		sql.Named("id", id.Hex()),
	).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get envelope: %w", err)
	}

	env := new(msg.Envelope)
	if err := env.UnmarshalRLP(body); err != nil {
		return nil, fmt.Errorf("decode archived envelope: %w", err)
	}
	return env, nil
}

// List returns up to limit archived IDs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]hash.Hash, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id from envelope order by created_at desc, id limit :limit`,
		sql.Named("limit", limit),
	)
	if err != nil {
		return nil, fmt.Errorf("list envelopes: %w", err)
	}
	defer rows.Close()

	var ids []hash.Hash
	for rows.Next() {
		var hex string
		if err := rows.Scan(&hex); err != nil {
			return nil, err
		}
		ids = append(ids, hash.HexToHash(hex))
	}
	return ids, rows.Err()
}

// Delete removes an archived envelope. Deleting a missing ID reports
// ErrNotFound.
func (s *Store) Delete(ctx context.Context, id hash.Hash) error {
	res, err := s.db.ExecContext(ctx,
		`delete from envelope where id = :id`,
		sql.Named("id", id.Hex()),
	)
	if err != nil {
		return fmt.Errorf("delete envelope: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
