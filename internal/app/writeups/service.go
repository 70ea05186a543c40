package writeups

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
	"github.com/preston-bernstein/fake-soccer-service/internal/logging"
)

// Store defines the contract for persisting writeups.
type Store interface {
	AddWriteup(ctx context.Context, w games.Writeup) (games.Writeup, error)
	GetWriteup(ctx context.Context, id int64) (games.Writeup, error)
	UpdateWriteup(ctx context.Context, w games.Writeup) error
	// RandomWriteup returns a random enabled writeup or an error matching games.ErrNotFound.
	RandomWriteup(ctx context.Context, state games.State, outcome games.Outcome) (games.Writeup, error)
	SearchWriteups(ctx context.Context, query string) ([]games.Writeup, error)
}

// Service manages writeups and picks one for each resolved play.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService constructs a Service with the provided Store.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Fallback is the text used when no enabled writeup exists for a play.
func Fallback(outcome games.Outcome) string {
	return fmt.Sprintf("If you're seeing this, no writeup could be found. The result was %s.", outcome)
}

// Fill substitutes the offense and defense names into writeup text.
func Fill(text, offense, defense string) string {
	return strings.NewReplacer("{offteam}", offense, "{defteam}", defense).Replace(text)
}

// Pick returns the text of a random enabled writeup for the play, or the fallback text.
// Store failures are logged and fall back so a play is never blocked on flavor text.
func (s *Service) Pick(ctx context.Context, state games.State, outcome games.Outcome) string {
	w, err := s.store.RandomWriteup(ctx, state, outcome)
	if err == nil && w.Text != "" {
		return w.Text
	}
	if err != nil && !errors.Is(err, games.ErrNotFound) {
		logging.Warn(logging.FromContext(ctx, s.logger), "writeup lookup failed",
			logging.FieldState, string(state),
			logging.FieldOutcome, string(outcome),
			"error", err,
		)
	}
	return Fallback(outcome)
}

// Add validates and stores a new writeup.
func (s *Service) Add(ctx context.Context, state games.State, outcome games.Outcome, text string) (games.Writeup, error) {
	w := games.Writeup{
		State:   games.State(strings.ToUpper(strings.TrimSpace(string(state)))),
		Outcome: games.Outcome(strings.ToUpper(strings.TrimSpace(string(outcome)))),
		Text:    strings.TrimSpace(text),
	}
	if err := validate(w); err != nil {
		return games.Writeup{}, err
	}
	return s.store.AddWriteup(ctx, w)
}

// Info returns a single writeup.
func (s *Service) Info(ctx context.Context, id int64) (games.Writeup, error) {
	return s.store.GetWriteup(ctx, id)
}

// Toggle flips whether the writeup can be picked.
func (s *Service) Toggle(ctx context.Context, id int64) (games.Writeup, error) {
	w, err := s.store.GetWriteup(ctx, id)
	if err != nil {
		return games.Writeup{}, err
	}
	w.Disabled = !w.Disabled
	if err := s.store.UpdateWriteup(ctx, w); err != nil {
		return games.Writeup{}, err
	}
	return w, nil
}

// Edit replaces the writeup text.
func (s *Service) Edit(ctx context.Context, id int64, text string) (games.Writeup, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return games.Writeup{}, games.Invalid("Error: Writeup text is required.")
	}
	w, err := s.store.GetWriteup(ctx, id)
	if err != nil {
		return games.Writeup{}, err
	}
	w.Text = text
	if err := s.store.UpdateWriteup(ctx, w); err != nil {
		return games.Writeup{}, err
	}
	return w, nil
}

// Search returns writeups whose text contains query, ordered by id.
func (s *Service) Search(ctx context.Context, query string) ([]games.Writeup, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, games.Invalid("Error: Search text is required.")
	}
	return s.store.SearchWriteups(ctx, query)
}

func validate(w games.Writeup) error {
	if !(w.State.Playable() || w.State == games.StateShootout) || !w.Outcome.Valid() {
		return games.Invalid("Error: either your gamestate, result, or both are not valid.")
	}
	if w.Text == "" {
		return games.Invalid("Error: Writeup text is required.")
	}
	return nil
}
