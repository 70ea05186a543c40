package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
	"github.com/preston-bernstein/fake-soccer-service/internal/store"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	defaultQueryTimeout = 3 * time.Second

	uniqueViolation = "23505"
	activeChannelIx = "games_one_active_per_channel"
)

// Store persists games, teams and writeups in Postgres.
type Store struct {
	db      *sql.DB
	timeout time.Duration
}

// Open connects to dsn, verifies the connection and applies pending migrations.
func Open(ctx context.Context, dsn string, timeout time.Duration) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return New(db, timeout), nil
}

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// New wraps an open database. A non-positive timeout uses the default.
func New(db *sql.DB, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return &Store{db: db, timeout: timeout}
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.db.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

const gameColumns = `id, channel_id, home_team, away_team, home_score, away_score,
	elapsed, stoppage1, stoppage2, second_half, overtime, scrimmage, default_chew,
	state, phase, waiting_on, first_half_kickoff, defense_number, home_delays, away_delays,
	deadline, warned_deadline, status, version, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(row scanner) (games.Game, error) {
	var (
		g        games.Game
		deadline sql.NullTime
		warned   sql.NullTime
	)
	err := row.Scan(
		&g.ID, &g.ChannelID, &g.HomeTeam, &g.AwayTeam, &g.HomeScore, &g.AwayScore,
		&g.Elapsed, &g.Stoppage1, &g.Stoppage2, &g.SecondHalf, &g.Overtime, &g.Scrimmage, &g.DefaultChew,
		&g.State, &g.Phase, &g.WaitingOn, &g.FirstHalfKickoff, &g.DefenseNumber, &g.HomeDelays, &g.AwayDelays,
		&deadline, &warned, &g.Status, &g.Version, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return games.Game{}, err
	}
	if deadline.Valid {
		g.Deadline = deadline.Time.UTC()
	}
	if warned.Valid {
		g.WarnedDeadline = warned.Time.UTC()
	}
	g.CreatedAt = g.CreatedAt.UTC()
	g.UpdatedAt = g.UpdatedAt.UTC()
	return g, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

// CreateGame inserts g at version 1.
func (s *Store) CreateGame(ctx context.Context, g games.Game) (games.Game, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	g.Version = 1
	stmt := `INSERT INTO games (` + gameColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`
	_, err := s.db.ExecContext(ctx, stmt,
		g.ID, g.ChannelID, g.HomeTeam, g.AwayTeam, g.HomeScore, g.AwayScore,
		g.Elapsed, g.Stoppage1, g.Stoppage2, g.SecondHalf, g.Overtime, g.Scrimmage, g.DefaultChew,
		g.State, g.Phase, g.WaitingOn, g.FirstHalfKickoff, g.DefenseNumber, g.HomeDelays, g.AwayDelays,
		nullTime(g.Deadline), nullTime(g.WarnedDeadline), g.Status, g.Version, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			if pqErr.Constraint == activeChannelIx {
				return games.Game{}, store.ErrChannelBusy
			}
			return games.Game{}, games.Invalid("Error: Game %s already exists.", g.ID)
		}
		return games.Game{}, err
	}
	return g, nil
}

// GetGame retrieves a game by ID.
func (s *Store) GetGame(ctx context.Context, id string) (games.Game, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	g, err := scanGame(s.db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return games.Game{}, games.NotFound("game", id)
	}
	return g, err
}

// UpdateGame writes g when its version is still current.
func (s *Store) UpdateGame(ctx context.Context, g games.Game) (games.Game, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	stmt := `
		UPDATE games
			SET home_score = $1, away_score = $2, elapsed = $3, stoppage1 = $4, stoppage2 = $5,
				second_half = $6, overtime = $7, scrimmage = $8, default_chew = $9,
				state = $10, phase = $11, waiting_on = $12, first_half_kickoff = $13,
				defense_number = $14, home_delays = $15, away_delays = $16,
				deadline = $17, warned_deadline = $18, status = $19, updated_at = $20, version = version + 1
			WHERE id = $21 AND version = $22
			RETURNING version`

	err := s.db.QueryRowContext(ctx, stmt,
		g.HomeScore, g.AwayScore, g.Elapsed, g.Stoppage1, g.Stoppage2,
		g.SecondHalf, g.Overtime, g.Scrimmage, g.DefaultChew,
		g.State, g.Phase, g.WaitingOn, g.FirstHalfKickoff,
		g.DefenseNumber, g.HomeDelays, g.AwayDelays,
		nullTime(g.Deadline), nullTime(g.WarnedDeadline), g.Status, g.UpdatedAt,
		g.ID, g.Version,
	).Scan(&g.Version)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return games.Game{}, err
		}
		if _, getErr := s.GetGame(ctx, g.ID); errors.Is(getErr, games.ErrNotFound) {
			return games.Game{}, getErr
		}
		return games.Game{}, games.ErrConcurrencyConflict
	}
	return g, nil
}

// ListGames returns games matching f, oldest first.
func (s *Store) ListGames(ctx context.Context, f games.Filter) ([]games.Game, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	stmt := `SELECT ` + gameColumns + ` FROM games
		WHERE ($1 = '' OR status = $1)
			AND ($2 = '' OR channel_id = $2)
			AND ($3 = '' OR home_team = $3 OR away_team = $3)
		ORDER BY created_at ASC, id ASC
		LIMIT NULLIF($4, 0)`

	rows, err := s.db.QueryContext(ctx, stmt, string(f.Status), f.ChannelID, f.TeamID, f.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []games.Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	return result, rows.Err()
}
