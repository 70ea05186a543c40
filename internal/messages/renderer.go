package messages

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/preston-bernstein/fake-soccer-service/internal/app/writeups"
	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
	"github.com/preston-bernstein/fake-soccer-service/internal/domain/teams"
	"github.com/preston-bernstein/fake-soccer-service/internal/engine"
	"github.com/preston-bernstein/fake-soccer-service/internal/notify"
	"github.com/preston-bernstein/fake-soccer-service/internal/results"
)

// WriteupPicker returns flavor text for a resolved play.
type WriteupPicker interface {
	Pick(ctx context.Context, state games.State, outcome games.Outcome) string
}

// Teams carries the team records of a game. Missing records render as the bare team id.
type Teams struct {
	Home teams.Team
	Away teams.Team
}

// For returns the record for side.
func (t Teams) For(side games.Side) teams.Team {
	if side == games.SideHome {
		return t.Home
	}
	return t.Away
}

// Rendered is the chat output of one transition. Reply is shown only to
// the submitter; everything else leaves as notices, in order.
type Rendered struct {
	Reply   string
	Notices []notify.Notice
	// Result is set when the transition ended the game.
	Result *results.Entry
}

// Renderer turns engine events into chat text.
type Renderer struct {
	picker WriteupPicker
}

// NewRenderer constructs a Renderer. A nil picker always uses the fallback writeup.
func NewRenderer(picker WriteupPicker) *Renderer {
	return &Renderer{picker: picker}
}

// Render builds the messages for events that produced g.
func (r *Renderer) Render(ctx context.Context, g games.Game, t Teams, events []engine.Event, now time.Time) Rendered {
	b := &builder{game: g, teams: t, open: -1}

	for _, e := range events {
		switch e.Kind {
		case engine.EventGameStarted:
			b.channel(fmt.Sprintf("Game has started between %s and %s\n\n%s\n\n%s, please call **heads** or **tails**.",
				b.mention(games.SideHome), b.mention(games.SideAway), Scoreline(g), b.mention(games.SideAway)))
		case engine.EventCoinTossWon:
			b.channel(fmt.Sprintf("%s won the coin toss. Please choose to **kick** off the ball now or to **defer** to the second half.\n%s",
				b.mention(e.Side), Scoreline(g)))
		case engine.EventKickoffChosen:
			b.channel(fmt.Sprintf("%s will kick off in the first half.\n\n%s\n\nWaiting on defensive number",
				b.mention(e.Side), Scoreline(g)))
		case engine.EventDefenseAccepted:
			b.reply = fmt.Sprintf("I've got %d as your number.", e.Number)
			b.channel(OffensivePrompt(g, b.mention(g.WaitingOn)))
		case engine.EventPlayResolved:
			b.channel(r.writeup(ctx, b, e.Play))
		case engine.EventStoppageStarted:
			half := "first"
			if e.Half == 2 {
				half = "second"
			}
			b.appendChannel(fmt.Sprintf("\n\nStoppage time for the %s half has started. There will be %d extra minutes.", half, e.Minutes))
		case engine.EventHalfTime:
			b.appendChannel(fmt.Sprintf("\n\nAnd that's the end of the first half! The second half will begin at midfield with %s getting the ball first.",
				b.mention(e.Side)))
		case engine.EventGameFinal:
			if e.Reason == engine.FinalForced {
				b.channel("The game was ended early by a bot operator.\n\n" + b.ending())
				b.result(results.LabelEndedEarly, now)
				continue
			}
			b.appendChannel("\n\n" + b.ending())
			label := results.LabelFinal
			if g.Scrimmage {
				label = results.LabelScrimmage
			}
			b.result(label, now)
		case engine.EventDefenseRequested:
			b.direct(e.Side, DefensivePrompt(g))
		case engine.EventDeadlineWarning:
			b.channel(fmt.Sprintf(deadlineWarning, b.mention(e.Side)))
		case engine.EventDelayOfGame:
			b.channel(fmt.Sprintf("%s has taken their %s delay of game.\n\nThey have automatically conceded a goal. Ball is placed back at midfield, %s kickoff.\n\n%s\n\nWaiting on %s for defensive number",
				b.mention(e.Side), ordinal(e.Number), b.mention(e.Side), Scoreline(g), b.mention(e.Side.Opposite())))
		case engine.EventForfeit:
			winner := e.Side.Opposite()
			if e.Shootout {
				b.channel(fmt.Sprintf("%s has surpassed the deadline during a shootout. The game has been automatically forfeited.\n\nThe game is over! %s has won!\n\nThe score is %d-%d.",
					b.mention(e.Side), b.mention(winner), g.HomeScore, g.AwayScore))
				b.result(results.LabelShootoutForfeit, now)
				continue
			}
			b.channel(fmt.Sprintf("%s has reached the limit of %d delays of game.\n\nThe game is over! %s has won!\n\nThe score is %d-%d.",
				b.mention(e.Side), g.Delays(e.Side), b.mention(winner), g.HomeScore, g.AwayScore))
			b.result(results.LabelForfeit, now)
		case engine.EventRerun:
			b.channel(fmt.Sprintf("%s %s Current play is being rerun. Awaiting defensive number.",
				b.mention(games.SideHome), b.mention(games.SideAway)))
		case engine.EventScoreAdjusted:
			if e.Number > 0 {
				b.channel(fmt.Sprintf("%s has been granted %s by a bot operator.", b.mention(e.Side), goals(e.Number)))
			} else {
				b.channel(fmt.Sprintf("%s has been removed of %s by a bot operator.", b.mention(e.Side), goals(-e.Number)))
			}
		case engine.EventDefaultChewToggle:
			mode := "now"
			if !e.Enabled {
				mode = "no longer"
			}
			b.channel(fmt.Sprintf("%s %s The game is %s in chew only mode.",
				b.mention(games.SideHome), b.mention(games.SideAway), mode))
		case engine.EventAbandoned:
			b.channel("Game Abandoned. You may delete this channel at any time.")
			b.result(results.LabelAbandoned, now)
		}
	}
	return b.done()
}

func (r *Renderer) writeup(ctx context.Context, b *builder, p *engine.Play) string {
	text := writeups.Fallback(p.Outcome)
	if r.picker != nil {
		text = r.picker.Pick(ctx, p.State, p.Outcome)
	}
	text = writeups.Fill(text, b.mention(p.Offense), b.mention(p.Offense.Opposite()))
	return fmt.Sprintf("%s\n\nOffensive Number: %d\nDefensive Number: %d\nDiff: %d\nResult: %s\n\n%s",
		text, p.OffenseNumber, p.DefenseNumber, p.Diff, p.Outcome, b.mention(b.game.WaitingOn))
}

type builder struct {
	game    games.Game
	teams   Teams
	reply   string
	notices []notify.Notice
	entry   *results.Entry
	// open is the index of the channel notice later events append to, or -1.
	open int
}

// Mention addresses the manager in charge of team, or falls back to its upper-cased id.
func Mention(t teams.Team, teamID string) string {
	if m := t.EffectiveManager(); m != "" {
		return "<@" + m + ">"
	}
	return cases.Upper(language.Und).String(teamID)
}

func (b *builder) mention(side games.Side) string {
	return Mention(b.teams.For(side), b.game.TeamFor(side))
}

func (b *builder) channel(text string) {
	b.notices = append(b.notices, notify.Notice{
		Kind:      notify.KindChannel,
		GameID:    b.game.ID,
		ChannelID: b.game.ChannelID,
		Text:      text,
	})
	b.open = len(b.notices) - 1
}

func (b *builder) appendChannel(text string) {
	if b.open < 0 {
		b.channel(strings.TrimLeft(text, "\n"))
		return
	}
	b.notices[b.open].Text += text
}

func (b *builder) direct(side games.Side, text string) {
	user := b.teams.For(side).EffectiveManager()
	if user == "" {
		return
	}
	b.notices = append(b.notices, notify.Notice{
		Kind:   notify.KindDirect,
		GameID: b.game.ID,
		UserID: user,
		Text:   text,
	})
}

func (b *builder) result(label string, now time.Time) {
	entry := results.NewEntry(b.game, label, now)
	b.entry = &entry
	b.notices = append(b.notices, notify.Notice{
		Kind:   notify.KindScores,
		GameID: b.game.ID,
		Text:   entry.Line(),
	})
	b.open = -1
}

func (b *builder) ending() string {
	g := b.game
	home, away := b.mention(games.SideHome), b.mention(games.SideAway)
	var line string
	switch {
	case g.HomeScore > g.AwayScore:
		line = fmt.Sprintf("%s has defeated %s by a score of %d-%d.", home, away, g.HomeScore, g.AwayScore)
	case g.AwayScore > g.HomeScore:
		line = fmt.Sprintf("%s has defeated %s by a score of %d-%d.", away, home, g.AwayScore, g.HomeScore)
	default:
		line = fmt.Sprintf("%s and %s drew by a score of %d-%d.", home, away, g.HomeScore, g.AwayScore)
	}
	return "And that's the end of the game! " + line + channelClosing
}

func (b *builder) done() Rendered {
	return Rendered{Reply: b.reply, Notices: b.notices, Result: b.entry}
}
