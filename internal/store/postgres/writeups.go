package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
)

// AddWriteup stores w and returns it with its assigned id.
func (s *Store) AddWriteup(ctx context.Context, w games.Writeup) (games.Writeup, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO writeups (state, outcome, text, disabled) VALUES ($1, $2, $3, $4) RETURNING id`,
		w.State, w.Outcome, w.Text, w.Disabled,
	).Scan(&w.ID)
	if err != nil {
		return games.Writeup{}, err
	}
	return w, nil
}

// GetWriteup retrieves a writeup by ID.
func (s *Store) GetWriteup(ctx context.Context, id int64) (games.Writeup, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	w, err := scanWriteup(s.db.QueryRowContext(ctx,
		`SELECT id, state, outcome, text, disabled FROM writeups WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return games.Writeup{}, games.NotFound("writeup", strconv.FormatInt(id, 10))
	}
	return w, err
}

// UpdateWriteup overwrites an existing writeup.
func (s *Store) UpdateWriteup(ctx context.Context, w games.Writeup) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`UPDATE writeups SET state = $1, outcome = $2, text = $3, disabled = $4 WHERE id = $5`,
		w.State, w.Outcome, w.Text, w.Disabled, w.ID)
	if err != nil {
		return err
	}
	return requireRow(res, "writeup", strconv.FormatInt(w.ID, 10))
}

// RandomWriteup picks one enabled writeup for the play.
func (s *Store) RandomWriteup(ctx context.Context, state games.State, outcome games.Outcome) (games.Writeup, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	w, err := scanWriteup(s.db.QueryRowContext(ctx, `
		SELECT id, state, outcome, text, disabled FROM writeups
			WHERE state = $1 AND outcome = $2 AND NOT disabled
			ORDER BY random()
			LIMIT 1`, state, outcome))
	if errors.Is(err, sql.ErrNoRows) {
		return games.Writeup{}, games.NotFound("writeup", string(state)+"/"+string(outcome))
	}
	return w, err
}

// SearchWriteups returns writeups whose text contains query, ignoring case.
func (s *Store) SearchWriteups(ctx context.Context, query string) ([]games.Writeup, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, state, outcome, text, disabled FROM writeups
			WHERE strpos(lower(text), lower($1)) > 0
			ORDER BY id ASC`, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []games.Writeup{}
	for rows.Next() {
		w, err := scanWriteup(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

func scanWriteup(row scanner) (games.Writeup, error) {
	var w games.Writeup
	err := row.Scan(&w.ID, &w.State, &w.Outcome, &w.Text, &w.Disabled)
	return w, err
}
