// Package store is the optional read path into the hosted ticket database.
// The service runs without it; when a DATABASE_URL is configured, the
// validate endpoint checks scanned codes against real records instead of the
// legacy prefix heuristic.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store reads ticket records from the hosted Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// CodeExists reports whether a redemption code is on record for the event.
func (s *Store) CodeExists(ctx context.Context, eventID, code string) (bool, error) {
	var found string
	err := s.pool.QueryRow(ctx,
		`SELECT code FROM ticket_codes WHERE event_id = $1 AND code = $2`,
		eventID, code,
	).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup ticket code: %w", err)
	}
	return true, nil
}
