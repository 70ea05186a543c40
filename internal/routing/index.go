package routing

import (
	"sort"
	"sync"

	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
	"github.com/preston-bernstein/fake-soccer-service/internal/domain/teams"
)

// Entry locates an active game waiting on one side.
type Entry struct {
	GameID    string
	ChannelID string
	HomeTeam  string
	AwayTeam  string
	WaitingOn games.Side
}

// WaitingTeam returns the team id expected to submit next.
func (e Entry) WaitingTeam() string {
	if e.WaitingOn == games.SideHome {
		return e.HomeTeam
	}
	return e.AwayTeam
}

func entryFor(g games.Game) Entry {
	return Entry{
		GameID:    g.ID,
		ChannelID: g.ChannelID,
		HomeTeam:  g.HomeTeam,
		AwayTeam:  g.AwayTeam,
		WaitingOn: g.WaitingOn,
	}
}

// Index caches which games wait on public and private submissions, and who
// manages each team. It is safe for concurrent use.
type Index struct {
	mu       sync.RWMutex
	offense  map[string]Entry // channel id -> game waiting on a public submission
	defense  map[string]Entry // channel id -> game waiting on a private submission
	managers map[string]string
}

// NewIndex constructs an empty Index.
func NewIndex() *Index {
	return &Index{
		offense:  make(map[string]Entry),
		defense:  make(map[string]Entry),
		managers: make(map[string]string),
	}
}

// Apply files g under the cache matching its phase. Terminal games are dropped.
func (i *Index) Apply(g games.Game) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.applyLocked(g)
}

func (i *Index) applyLocked(g games.Game) {
	if e, ok := i.offense[g.ChannelID]; ok && e.GameID == g.ID {
		delete(i.offense, g.ChannelID)
	}
	if e, ok := i.defense[g.ChannelID]; ok && e.GameID == g.ID {
		delete(i.defense, g.ChannelID)
	}
	if !g.Active() {
		return
	}
	if g.Phase == games.PhaseOffensePending {
		i.offense[g.ChannelID] = entryFor(g)
		return
	}
	i.defense[g.ChannelID] = entryFor(g)
}

// SetTeam records the effective manager of t.
func (i *Index) SetTeam(t teams.Team) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.managers[t.ID] = t.EffectiveManager()
}

// RemoveTeam forgets a team.
func (i *Index) RemoveTeam(id string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.managers, id)
}

// Rebuild replaces every cache from the given records.
func (i *Index) Rebuild(active []games.Game, all []teams.Team) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.offense = make(map[string]Entry, len(active))
	i.defense = make(map[string]Entry, len(active))
	for _, g := range active {
		i.applyLocked(g)
	}
	i.managers = make(map[string]string, len(all))
	for _, t := range all {
		i.managers[t.ID] = t.EffectiveManager()
	}
}

// LookupByChannel returns the game in channelID waiting on a public submission.
func (i *Index) LookupByChannel(channelID string) (Entry, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	e, ok := i.offense[channelID]
	return e, ok
}

// LookupByTeam returns the game waiting on a private defensive number from teamID.
func (i *Index) LookupByTeam(teamID string) (Entry, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	for _, e := range i.defense {
		if e.WaitingTeam() == teamID {
			return e, true
		}
	}
	return Entry{}, false
}

// TeamsForUser lists the teams userID currently submits for, sorted.
func (i *Index) TeamsForUser(userID string) []string {
	if userID == "" {
		return nil
	}
	i.mu.RLock()
	var out []string
	for team, manager := range i.managers {
		if manager == userID {
			out = append(out, team)
		}
	}
	i.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Manager returns the effective manager of teamID.
func (i *Index) Manager(teamID string) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	m, ok := i.managers[teamID]
	return m, ok
}

// Sizes reports how many games sit in the offense and defense caches.
func (i *Index) Sizes() (offense, defense int) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.offense), len(i.defense)
}
