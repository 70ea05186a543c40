package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
	"github.com/preston-bernstein/fake-soccer-service/internal/domain/teams"
	"github.com/preston-bernstein/fake-soccer-service/internal/store"
)

// CreateTeam registers a team.
func (s *Store) CreateTeam(ctx context.Context, t teams.Team) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO teams (id, name, color, manager, substitute) VALUES ($1, $2, $3, $4, $5)`,
		t.ID, t.Name, t.Color, t.Manager, t.Substitute)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return store.ErrTeamExists
	}
	return err
}

// GetTeam retrieves a team by ID.
func (s *Store) GetTeam(ctx context.Context, id string) (teams.Team, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var t teams.Team
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, color, manager, substitute FROM teams WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.Color, &t.Manager, &t.Substitute)
	if errors.Is(err, sql.ErrNoRows) {
		return teams.Team{}, games.NotFound("team", id)
	}
	return t, err
}

// UpdateTeam overwrites an existing team.
func (s *Store) UpdateTeam(ctx context.Context, t teams.Team) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`UPDATE teams SET name = $1, color = $2, manager = $3, substitute = $4 WHERE id = $5`,
		t.Name, t.Color, t.Manager, t.Substitute, t.ID)
	if err != nil {
		return err
	}
	return requireRow(res, "team", t.ID)
}

// DeleteTeam removes a team.
func (s *Store) DeleteTeam(ctx context.Context, id string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res, "team", id)
}

// ListTeams returns every team ordered by id.
func (s *Store) ListTeams(ctx context.Context) ([]teams.Team, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, color, manager, substitute FROM teams ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []teams.Team{}
	for rows.Next() {
		var t teams.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Manager, &t.Substitute); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func requireRow(res sql.Result, kind, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return games.NotFound(kind, key)
	}
	return nil
}
