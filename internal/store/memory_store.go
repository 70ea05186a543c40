package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
	"github.com/preston-bernstein/fake-soccer-service/internal/domain/teams"
	"github.com/preston-bernstein/fake-soccer-service/internal/engine"
)

// MemoryStore keeps games, teams and writeups in memory behind one lock.
// Records are values, so callers never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	games    map[string]games.Game
	teams    map[string]teams.Team
	writeups map[int64]games.Writeup
	nextID   int64
	rand     engine.Rand
}

// NewMemoryStore constructs an empty MemoryStore. r picks random writeups;
// nil falls back to a time-seeded source.
func NewMemoryStore(r engine.Rand) *MemoryStore {
	if r == nil {
		r = engine.NewRand(0)
	}
	return &MemoryStore{
		games:    make(map[string]games.Game),
		teams:    make(map[string]teams.Team),
		writeups: make(map[int64]games.Writeup),
		rand:     r,
	}
}

// CreateGame stores a new game at version 1. A channel holds one active game at a time.
func (s *MemoryStore) CreateGame(_ context.Context, g games.Game) (games.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[g.ID]; ok {
		return games.Game{}, games.Invalid("Error: Game %s already exists.", g.ID)
	}
	for _, existing := range s.games {
		if existing.Active() && existing.ChannelID == g.ChannelID {
			return games.Game{}, ErrChannelBusy
		}
	}
	g.Version = 1
	s.games[g.ID] = g
	return g, nil
}

// GetGame retrieves a game by ID.
func (s *MemoryStore) GetGame(_ context.Context, id string) (games.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[id]
	if !ok {
		return games.Game{}, games.NotFound("game", id)
	}
	return g, nil
}

// UpdateGame replaces g when its version matches the stored one and bumps the version.
func (s *MemoryStore) UpdateGame(_ context.Context, g games.Game) (games.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.games[g.ID]
	if !ok {
		return games.Game{}, games.NotFound("game", g.ID)
	}
	if current.Version != g.Version {
		return games.Game{}, games.ErrConcurrencyConflict
	}
	g.Version++
	s.games[g.ID] = g
	return g, nil
}

// ListGames returns the games matching f, oldest first.
func (s *MemoryStore) ListGames(_ context.Context, f games.Filter) ([]games.Game, error) {
	s.mu.RLock()
	result := make([]games.Game, 0, len(s.games))
	for _, g := range s.games {
		if f.Matches(g) {
			result = append(result, g)
		}
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	if f.Limit > 0 && len(result) > f.Limit {
		result = result[:f.Limit]
	}
	return result, nil
}

// CreateTeam registers a team. Ids are unique.
func (s *MemoryStore) CreateTeam(_ context.Context, t teams.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[t.ID]; ok {
		return ErrTeamExists
	}
	s.teams[t.ID] = t
	return nil
}

// GetTeam retrieves a team by ID.
func (s *MemoryStore) GetTeam(_ context.Context, id string) (teams.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.teams[id]
	if !ok {
		return teams.Team{}, games.NotFound("team", id)
	}
	return t, nil
}

// UpdateTeam overwrites an existing team.
func (s *MemoryStore) UpdateTeam(_ context.Context, t teams.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[t.ID]; !ok {
		return games.NotFound("team", t.ID)
	}
	s.teams[t.ID] = t
	return nil
}

// DeleteTeam removes a team.
func (s *MemoryStore) DeleteTeam(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[id]; !ok {
		return games.NotFound("team", id)
	}
	delete(s.teams, id)
	return nil
}

// ListTeams returns every team ordered by id.
func (s *MemoryStore) ListTeams(_ context.Context) ([]teams.Team, error) {
	s.mu.RLock()
	result := make([]teams.Team, 0, len(s.teams))
	for _, t := range s.teams {
		result = append(result, t)
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// AddWriteup stores w under the next id.
func (s *MemoryStore) AddWriteup(_ context.Context, w games.Writeup) (games.Writeup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	w.ID = s.nextID
	s.writeups[w.ID] = w
	return w, nil
}

// GetWriteup retrieves a writeup by ID.
func (s *MemoryStore) GetWriteup(_ context.Context, id int64) (games.Writeup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.writeups[id]
	if !ok {
		return games.Writeup{}, games.NotFound("writeup", formatID(id))
	}
	return w, nil
}

// UpdateWriteup overwrites an existing writeup.
func (s *MemoryStore) UpdateWriteup(_ context.Context, w games.Writeup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.writeups[w.ID]; !ok {
		return games.NotFound("writeup", formatID(w.ID))
	}
	s.writeups[w.ID] = w
	return nil
}

// RandomWriteup picks one enabled writeup for the pair.
func (s *MemoryStore) RandomWriteup(_ context.Context, state games.State, outcome games.Outcome) (games.Writeup, error) {
	s.mu.RLock()
	candidates := make([]games.Writeup, 0)
	for _, w := range s.writeups {
		if !w.Disabled && w.State == state && w.Outcome == outcome {
			candidates = append(candidates, w)
		}
	}
	s.mu.RUnlock()

	if len(candidates) == 0 {
		return games.Writeup{}, games.NotFound("writeup", string(state)+"/"+string(outcome))
	}
	// map iteration order is random; sort so the injected Rand alone decides.
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })
	return candidates[s.rand.Intn(len(candidates))], nil
}

// SearchWriteups returns writeups containing query, case-insensitive, ordered by id.
func (s *MemoryStore) SearchWriteups(_ context.Context, query string) ([]games.Writeup, error) {
	needle := strings.ToLower(query)

	s.mu.RLock()
	result := make([]games.Writeup, 0)
	for _, w := range s.writeups {
		if strings.Contains(strings.ToLower(w.Text), needle) {
			result = append(result, w)
		}
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
