package dispatch

import (
	"context"
	"log/slog"
	"strings"

	appgames "github.com/preston-bernstein/fake-soccer-service/internal/app/games"
	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
	"github.com/preston-bernstein/fake-soccer-service/internal/engine"
	"github.com/preston-bernstein/fake-soccer-service/internal/logging"
	"github.com/preston-bernstein/fake-soccer-service/internal/routing"
)

// CommandPrefix marks operator commands, which are never read as submissions.
const CommandPrefix = "!"

// Message is an inbound chat message.
type Message struct {
	AuthorID  string `json:"authorId"`
	ChannelID string `json:"channelId"`
	// Private is set for direct messages to the bot.
	Private bool   `json:"private"`
	Content string `json:"content"`
}

// Result reports what a message did. Reply is addressed to the author only.
type Result struct {
	Handled bool   `json:"handled"`
	GameID  string `json:"gameId,omitempty"`
	Reply   string `json:"reply,omitempty"`
}

// Games is the slice of the game service the dispatcher drives.
type Games interface {
	Game(ctx context.Context, id string) (games.Game, error)
	CallCoin(ctx context.Context, gameID, teamID string) (appgames.Outcome, error)
	ChooseKickoff(ctx context.Context, gameID, teamID string, kick bool) (appgames.Outcome, error)
	SubmitDefense(ctx context.Context, gameID, teamID string, number int) (appgames.Outcome, error)
	SubmitOffense(ctx context.Context, gameID, teamID string, number int, use engine.ClockUse) (appgames.Outcome, error)
}

// Dispatcher routes chat messages from team managers to the game waiting on them.
type Dispatcher struct {
	index  *routing.Index
	games  Games
	logger *slog.Logger
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(index *routing.Index, g Games, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{index: index, games: g, logger: logger}
}

// Handle applies m to the first game waiting on one of the author's teams.
// Submissions the game rejects come back as a handled Result whose Reply
// carries the reason; only infrastructure failures return an error.
func (d *Dispatcher) Handle(ctx context.Context, m Message) (Result, error) {
	if strings.HasPrefix(m.Content, CommandPrefix) || strings.TrimSpace(m.Content) == "" {
		return Result{}, nil
	}
	for _, team := range d.index.TeamsForUser(m.AuthorID) {
		var (
			res Result
			ok  bool
			err error
		)
		if m.Private {
			res, ok, err = d.defense(ctx, team, m)
		} else {
			res, ok, err = d.offense(ctx, team, m)
		}
		if !ok {
			continue
		}
		if vErr, isValidation := games.AsValidationError(err); isValidation {
			res.Reply = vErr.Reason
			err = nil
		}
		if err != nil {
			logging.Error(logging.FromContext(ctx, d.logger), "submission failed", err,
				logging.FieldGameID, res.GameID,
				logging.FieldTeamID, team,
				logging.FieldUserID, m.AuthorID,
			)
		}
		return res, err
	}
	return Result{}, nil
}

func (d *Dispatcher) defense(ctx context.Context, team string, m Message) (Result, bool, error) {
	entry, ok := d.index.LookupByTeam(team)
	if !ok {
		return Result{}, false, nil
	}
	res := Result{Handled: true, GameID: entry.GameID}
	number, err := ParseNumber(m.Content)
	if err != nil {
		return res, true, err
	}
	out, err := d.games.SubmitDefense(ctx, entry.GameID, team, number)
	res.Reply = out.Reply
	return res, true, err
}

func (d *Dispatcher) offense(ctx context.Context, team string, m Message) (Result, bool, error) {
	entry, ok := d.index.LookupByChannel(m.ChannelID)
	if !ok || entry.WaitingTeam() != team {
		return Result{}, false, nil
	}
	res := Result{Handled: true, GameID: entry.GameID}

	g, err := d.games.Game(ctx, entry.GameID)
	if err != nil {
		return res, true, err
	}
	switch g.State {
	case games.StateCoinToss:
		if err := ParseCoinCall(m.Content); err != nil {
			return res, true, err
		}
		_, err = d.games.CallCoin(ctx, g.ID, team)
	case games.StateCoinTossChoice:
		kick, perr := ParseKickChoice(m.Content)
		if perr != nil {
			return res, true, perr
		}
		_, err = d.games.ChooseKickoff(ctx, g.ID, team, kick)
	default:
		number, perr := ParseNumber(m.Content)
		if perr != nil {
			return res, true, perr
		}
		use, perr := ParseClockUse(m.Content)
		if perr != nil {
			return res, true, perr
		}
		_, err = d.games.SubmitOffense(ctx, g.ID, team, number, use)
	}
	return res, true, err
}
