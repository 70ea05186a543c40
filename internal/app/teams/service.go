package teams

import (
	"context"
	"log/slog"
	"strings"

	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
	"github.com/preston-bernstein/fake-soccer-service/internal/domain/teams"
	"github.com/preston-bernstein/fake-soccer-service/internal/logging"
)

// PageSize is the number of teams per List page.
const PageSize = 10

// Store defines the contract for persisting and retrieving teams.
type Store interface {
	CreateTeam(ctx context.Context, t teams.Team) error
	GetTeam(ctx context.Context, id string) (teams.Team, error)
	UpdateTeam(ctx context.Context, t teams.Team) error
	DeleteTeam(ctx context.Context, id string) error
	ListTeams(ctx context.Context) ([]teams.Team, error)
}

// Directory receives every change to who manages a team.
type Directory interface {
	SetTeam(t teams.Team)
	RemoveTeam(id string)
}

// Service coordinates team operations using a Store.
type Service struct {
	store     Store
	directory Directory
	logger    *slog.Logger
}

// NewService constructs a Service. A nil directory skips cache updates.
func NewService(store Store, directory Directory, logger *slog.Logger) *Service {
	return &Service{store: store, directory: directory, logger: logger}
}

// Create registers a new team after normalizing its id.
func (s *Service) Create(ctx context.Context, t teams.Team) (teams.Team, error) {
	t.ID = teams.NormalizeID(t.ID)
	t.Name = strings.TrimSpace(t.Name)
	t.Substitute = ""
	if err := t.Validate(); err != nil {
		return teams.Team{}, err
	}
	if err := s.store.CreateTeam(ctx, t); err != nil {
		return teams.Team{}, err
	}
	s.publish(t)
	logging.Info(logging.FromContext(ctx, s.logger), "team created",
		logging.FieldTeamID, t.ID,
		logging.FieldUserID, t.Manager,
	)
	return t, nil
}

// Remove deletes a team. Games already running keep their team ids.
func (s *Service) Remove(ctx context.Context, id string) (teams.Team, error) {
	t, err := s.Info(ctx, id)
	if err != nil {
		return teams.Team{}, err
	}
	if err := s.store.DeleteTeam(ctx, t.ID); err != nil {
		return teams.Team{}, err
	}
	if s.directory != nil {
		s.directory.RemoveTeam(t.ID)
	}
	logging.Info(logging.FromContext(ctx, s.logger), "team removed", logging.FieldTeamID, t.ID)
	return t, nil
}

// Info returns a single team.
func (s *Service) Info(ctx context.Context, id string) (teams.Team, error) {
	return s.store.GetTeam(ctx, teams.NormalizeID(id))
}

// List returns one page of teams ordered by id. Pages start at 1.
func (s *Service) List(ctx context.Context, page int) ([]teams.Team, error) {
	if page < 1 {
		return nil, games.Invalid("Error: Page number out of range.")
	}
	all, err := s.store.ListTeams(ctx)
	if err != nil {
		return nil, err
	}
	from := (page - 1) * PageSize
	if from >= len(all) {
		return nil, games.Invalid("Error: Page number out of range.")
	}
	to := from + PageSize
	if to > len(all) {
		to = len(all)
	}
	return all[from:to], nil
}

// All returns every team.
func (s *Service) All(ctx context.Context) ([]teams.Team, error) {
	return s.store.ListTeams(ctx)
}

// AddSubstitute hands the team to userID until the substitute is removed.
func (s *Service) AddSubstitute(ctx context.Context, id, userID string) (teams.Team, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return teams.Team{}, games.Invalid("Error: A substitute is required.")
	}
	return s.update(ctx, id, func(t *teams.Team) { t.Substitute = userID })
}

// RemoveSubstitute reinstates the official manager.
func (s *Service) RemoveSubstitute(ctx context.Context, id string) (teams.Team, error) {
	return s.update(ctx, id, func(t *teams.Team) { t.Substitute = "" })
}

func (s *Service) update(ctx context.Context, id string, fn func(*teams.Team)) (teams.Team, error) {
	t, err := s.Info(ctx, id)
	if err != nil {
		return teams.Team{}, err
	}
	fn(&t)
	if err := s.store.UpdateTeam(ctx, t); err != nil {
		return teams.Team{}, err
	}
	s.publish(t)
	logging.Info(logging.FromContext(ctx, s.logger), "team manager changed",
		logging.FieldTeamID, t.ID,
		logging.FieldUserID, t.EffectiveManager(),
	)
	return t, nil
}

func (s *Service) publish(t teams.Team) {
	if s.directory != nil {
		s.directory.SetTeam(t)
	}
}
