package games

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"

	domaingames "github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
	"github.com/preston-bernstein/fake-soccer-service/internal/domain/teams"
	"github.com/preston-bernstein/fake-soccer-service/internal/engine"
	"github.com/preston-bernstein/fake-soccer-service/internal/logging"
	"github.com/preston-bernstein/fake-soccer-service/internal/messages"
	"github.com/preston-bernstein/fake-soccer-service/internal/metrics"
	"github.com/preston-bernstein/fake-soccer-service/internal/notify"
	"github.com/preston-bernstein/fake-soccer-service/internal/results"
	"github.com/preston-bernstein/fake-soccer-service/internal/routing"
)

// Store defines the contract for persisting and retrieving games.
type Store interface {
	CreateGame(ctx context.Context, g domaingames.Game) (domaingames.Game, error)
	GetGame(ctx context.Context, id string) (domaingames.Game, error)
	// UpdateGame writes g if its Version is current and returns it with the next version,
	// or fails with domaingames.ErrConcurrencyConflict.
	UpdateGame(ctx context.Context, g domaingames.Game) (domaingames.Game, error)
	ListGames(ctx context.Context, f domaingames.Filter) ([]domaingames.Game, error)
}

// TeamLookup resolves team records for validation and mentions.
type TeamLookup interface {
	GetTeam(ctx context.Context, id string) (teams.Team, error)
}

// ResultRecorder keeps finished games.
type ResultRecorder interface {
	Record(ctx context.Context, e results.Entry) error
}

// Options wires a Service. Store, Teams and Machine are required.
type Options struct {
	Store    Store
	Teams    TeamLookup
	Machine  *engine.Machine
	Index    *routing.Index
	Renderer *messages.Renderer
	Notifier notify.Notifier
	Results  ResultRecorder
	Metrics  *metrics.Recorder
	Logger   *slog.Logger
	Now      func() time.Time
	NewID    func() string
}

// Service serializes every mutation of a game, commits it, and publishes what happened.
type Service struct {
	store    Store
	teams    TeamLookup
	machine  *engine.Machine
	index    *routing.Index
	renderer *messages.Renderer
	notifier notify.Notifier
	results  ResultRecorder
	metrics  *metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
	locks    *locker
}

// NewService constructs a Service from opts, filling optional collaborators with no-ops.
func NewService(opts Options) *Service {
	s := &Service{
		store:    opts.Store,
		teams:    opts.Teams,
		machine:  opts.Machine,
		index:    opts.Index,
		renderer: opts.Renderer,
		notifier: opts.Notifier,
		results:  opts.Results,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		now:      opts.Now,
		newID:    opts.NewID,
		locks:    newLocker(),
	}
	if s.machine == nil {
		s.machine = engine.NewMachine(nil, engine.Rules{})
	}
	if s.index == nil {
		s.index = routing.NewIndex()
	}
	if s.renderer == nil {
		s.renderer = messages.NewRenderer(nil)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// Outcome is a committed transition. NotifyErr carries delivery failures,
// which never undo the commit.
type Outcome struct {
	Game      domaingames.Game
	Events    []engine.Event
	Reply     string
	NotifyErr error
}

// StartRequest describes a game an operator wants to start.
type StartRequest struct {
	ChannelID string
	HomeTeam  string
	AwayTeam  string
	Scrimmage bool
	Overtime  bool
}

// StartGame creates a game between two registered teams. Without a channel id
// the game gets a generated one.
func (s *Service) StartGame(ctx context.Context, req StartRequest) (Outcome, error) {
	home, err := s.requireTeam(ctx, req.HomeTeam)
	if err != nil {
		return Outcome{}, err
	}
	away, err := s.requireTeam(ctx, req.AwayTeam)
	if err != nil {
		return Outcome{}, err
	}
	channel := req.ChannelID
	if channel == "" {
		channel = petname.Generate(3, "-")
	}

	now := s.now()
	res, err := s.machine.NewGame(engine.NewGameParams{
		ID:        s.newID(),
		ChannelID: channel,
		HomeTeam:  home.ID,
		AwayTeam:  away.ID,
		Scrimmage: req.Scrimmage,
		Overtime:  req.Overtime,
	}, now)
	if err != nil {
		s.metrics.RecordTransition(opStart, metrics.ResultRejected)
		return Outcome{}, err
	}
	created, err := s.store.CreateGame(ctx, res.Game)
	if err != nil {
		s.metrics.RecordTransition(opStart, resultFor(err))
		return Outcome{}, fmt.Errorf("create game: %w", err)
	}
	s.metrics.RecordTransition(opStart, metrics.ResultOK)
	s.index.Apply(created)

	logging.Info(s.log(ctx), "game started",
		logging.FieldGameID, created.ID,
		logging.FieldChannelID, created.ChannelID,
		"home", created.HomeTeam,
		"away", created.AwayTeam,
	)
	return s.publish(ctx, created, res.Events, now), nil
}

func (s *Service) requireTeam(ctx context.Context, id string) (teams.Team, error) {
	id = teams.NormalizeID(id)
	if id == "" {
		return teams.Team{}, domaingames.Invalid("Error: Both a home and an away team are required.")
	}
	t, err := s.teams.GetTeam(ctx, id)
	if errors.Is(err, domaingames.ErrNotFound) {
		return teams.Team{}, domaingames.Invalid("Error: Team %s does not exist.", id)
	}
	return t, err
}

// CallCoin settles the coin toss called by teamID.
func (s *Service) CallCoin(ctx context.Context, gameID, teamID string) (Outcome, error) {
	return s.transition(ctx, gameID, opCoinToss, func(g domaingames.Game, now time.Time) (engine.Result, error) {
		if err := requireTurn(g, teamID); err != nil {
			return engine.Result{}, err
		}
		return s.machine.CoinToss(g, now)
	})
}

// ChooseKickoff applies the toss winner's kick or defer choice.
func (s *Service) ChooseKickoff(ctx context.Context, gameID, teamID string, kick bool) (Outcome, error) {
	return s.transition(ctx, gameID, opKickoff, func(g domaingames.Game, now time.Time) (engine.Result, error) {
		if err := requireTurn(g, teamID); err != nil {
			return engine.Result{}, err
		}
		return s.machine.ChooseKickoff(g, now, kick)
	})
}

// SubmitDefense accepts teamID's private defensive number.
func (s *Service) SubmitDefense(ctx context.Context, gameID, teamID string, number int) (Outcome, error) {
	return s.transition(ctx, gameID, opDefense, func(g domaingames.Game, now time.Time) (engine.Result, error) {
		if err := requireTurn(g, teamID); err != nil {
			return engine.Result{}, err
		}
		return s.machine.SubmitDefense(g, now, number)
	})
}

// SubmitOffense resolves teamID's offensive number.
func (s *Service) SubmitOffense(ctx context.Context, gameID, teamID string, number int, use engine.ClockUse) (Outcome, error) {
	return s.transition(ctx, gameID, opOffense, func(g domaingames.Game, now time.Time) (engine.Result, error) {
		if err := requireTurn(g, teamID); err != nil {
			return engine.Result{}, err
		}
		return s.machine.SubmitOffense(g, now, number, use)
	})
}

// Rerun asks for the current play's defensive number again.
func (s *Service) Rerun(ctx context.Context, gameID string) (Outcome, error) {
	return s.transition(ctx, gameID, opRerun, s.machine.Rerun)
}

// AdjustScore adds delta goals (negative to remove) to side.
func (s *Service) AdjustScore(ctx context.Context, gameID string, side domaingames.Side, delta int) (Outcome, error) {
	return s.transition(ctx, gameID, opAdjustScore, func(g domaingames.Game, now time.Time) (engine.Result, error) {
		return s.machine.AdjustScore(g, now, side, delta)
	})
}

// ToggleDefaultChew flips chew-only mode.
func (s *Service) ToggleDefaultChew(ctx context.Context, gameID string) (Outcome, error) {
	return s.transition(ctx, gameID, opToggleChew, s.machine.ToggleDefaultChew)
}

// ForceEnd ends the game with the current score.
func (s *Service) ForceEnd(ctx context.Context, gameID string) (Outcome, error) {
	return s.transition(ctx, gameID, opForceEnd, s.machine.ForceEnd)
}

// Abandon closes the game without a result.
func (s *Service) Abandon(ctx context.Context, gameID string) (Outcome, error) {
	return s.transition(ctx, gameID, opAbandon, s.machine.Abandon)
}

// CheckDeadline re-reads the game under its lock and applies any warning,
// delay of game or forfeit now due. Nothing is written when nothing is due.
func (s *Service) CheckDeadline(ctx context.Context, gameID string) (Outcome, error) {
	return s.transition(ctx, gameID, opDeadline, func(g domaingames.Game, now time.Time) (engine.Result, error) {
		return s.machine.CheckDeadline(g, now), nil
	})
}

// Game returns a single game.
func (s *Service) Game(ctx context.Context, id string) (domaingames.Game, error) {
	return s.store.GetGame(ctx, id)
}

// Games lists games matching f.
func (s *Service) Games(ctx context.Context, f domaingames.Filter) ([]domaingames.Game, error) {
	return s.store.ListGames(ctx, f)
}

// ActiveGames lists every game still in play.
func (s *Service) ActiveGames(ctx context.Context) ([]domaingames.Game, error) {
	return s.store.ListGames(ctx, domaingames.Filter{Status: domaingames.StatusActive})
}

// ActiveGameInChannel returns the game running in channelID.
func (s *Service) ActiveGameInChannel(ctx context.Context, channelID string) (domaingames.Game, error) {
	found, err := s.store.ListGames(ctx, domaingames.Filter{Status: domaingames.StatusActive, ChannelID: channelID, Limit: 1})
	if err != nil {
		return domaingames.Game{}, err
	}
	if len(found) == 0 {
		return domaingames.Game{}, domaingames.NotFound("active game in channel", channelID)
	}
	return found[0], nil
}

type transitionFunc func(g domaingames.Game, now time.Time) (engine.Result, error)

// transition applies fn to the freshest copy of the game under its lock and
// commits the result. A version conflict is retried once with a re-read.
func (s *Service) transition(ctx context.Context, gameID, op string, fn transitionFunc) (Outcome, error) {
	unlock := s.locks.lock(gameID)
	defer unlock()

	var (
		saved domaingames.Game
		res   engine.Result
		now   time.Time
	)
	for attempt := 1; ; attempt++ {
		current, err := s.store.GetGame(ctx, gameID)
		if err != nil {
			s.metrics.RecordTransition(op, resultFor(err))
			return Outcome{}, err
		}
		now = s.now()
		res, err = fn(current, now)
		if err != nil {
			s.metrics.RecordTransition(op, resultFor(err))
			return Outcome{Game: current}, err
		}
		if len(res.Events) == 0 {
			return Outcome{Game: current}, nil
		}
		if !res.Changed(current) {
			saved = current
			break
		}

		saved, err = s.store.UpdateGame(ctx, res.Game)
		if err == nil {
			break
		}
		if errors.Is(err, domaingames.ErrConcurrencyConflict) && attempt < maxCommitAttempts {
			logging.Warn(s.log(ctx), "game changed underneath transition, retrying",
				logging.FieldGameID, gameID,
				logging.FieldAttempt, attempt,
				"op", op,
			)
			continue
		}
		s.metrics.RecordTransition(op, resultFor(err))
		return Outcome{Game: current}, fmt.Errorf("commit %s: %w", op, err)
	}

	s.metrics.RecordTransition(op, metrics.ResultOK)
	s.index.Apply(saved)
	for _, e := range res.Events {
		if e.Kind == engine.EventPlayResolved && e.Play != nil {
			s.metrics.RecordOutcome(string(e.Play.State), string(e.Play.Outcome))
		}
	}
	return s.publish(ctx, saved, res.Events, now), nil
}

// publish renders events, records a finished game, and sends notices in order.
func (s *Service) publish(ctx context.Context, g domaingames.Game, events []engine.Event, now time.Time) Outcome {
	logger := s.log(ctx)
	rendered := s.renderer.Render(ctx, g, s.teamsOf(ctx, g), events, now)

	if rendered.Result != nil && s.results != nil {
		if err := s.results.Record(ctx, *rendered.Result); err != nil {
			logging.Error(logger, "failed to record result", err, logging.FieldGameID, g.ID)
		}
	}

	var errs []error
	if s.notifier != nil {
		for _, n := range rendered.Notices {
			if err := s.notifier.Notify(ctx, n); err != nil {
				errs = append(errs, err)
				logging.Warn(logger, "notice not delivered",
					logging.FieldGameID, g.ID,
					logging.FieldNotice, string(n.Kind),
					"error", err,
				)
			}
		}
	}
	return Outcome{Game: g, Events: events, Reply: rendered.Reply, NotifyErr: errors.Join(errs...)}
}

func (s *Service) teamsOf(ctx context.Context, g domaingames.Game) messages.Teams {
	var t messages.Teams
	for _, side := range []domaingames.Side{domaingames.SideHome, domaingames.SideAway} {
		team, err := s.teams.GetTeam(ctx, g.TeamFor(side))
		if err != nil {
			if !errors.Is(err, domaingames.ErrNotFound) {
				logging.Warn(s.log(ctx), "team lookup failed", logging.FieldTeamID, g.TeamFor(side), "error", err)
			}
			continue
		}
		if side == domaingames.SideHome {
			t.Home = team
		} else {
			t.Away = team
		}
	}
	return t
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}

// requireTurn checks that teamID plays in g and is the side being waited on.
func requireTurn(g domaingames.Game, teamID string) error {
	side, ok := g.SideOf(teamID)
	if !ok {
		return domaingames.Invalid("Error: Your team is not playing in this game.")
	}
	if side != g.WaitingOn {
		return domaingames.Invalid("Error: It is not your turn.")
	}
	return nil
}

func resultFor(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, domaingames.ErrConcurrencyConflict):
		return metrics.ResultConflict
	case errors.Is(err, domaingames.ErrNotFound), errors.Is(err, engine.ErrInvalidFieldPosition):
		return metrics.ResultRejected
	}
	if _, ok := domaingames.AsValidationError(err); ok {
		return metrics.ResultRejected
	}
	return metrics.ResultError
}
