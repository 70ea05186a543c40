package results

import (
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
)

// Labels prefixed to score lines.
const (
	LabelFinal           = "FINAL"
	LabelScrimmage       = "SCRIMMAGE"
	LabelEndedEarly      = "GAME ENDED EARLY"
	LabelAbandoned       = "GAME ABANDONED"
	LabelForfeit         = "AUTOMATIC FORFEIT"
	LabelShootoutForfeit = "SHOOTOUT FORFEIT"
)

// Entry is one finished game as posted to the scores feed.
type Entry struct {
	GameID     string       `json:"gameId"`
	Label      string       `json:"label"`
	HomeTeam   string       `json:"homeTeam"`
	AwayTeam   string       `json:"awayTeam"`
	HomeScore  int          `json:"homeScore"`
	AwayScore  int          `json:"awayScore"`
	Status     games.Status `json:"status"`
	Scrimmage  bool         `json:"scrimmage"`
	RecordedAt time.Time    `json:"recordedAt"`
}

// NewEntry captures g under label at now.
func NewEntry(g games.Game, label string, now time.Time) Entry {
	return Entry{
		GameID:     g.ID,
		Label:      label,
		HomeTeam:   g.HomeTeam,
		AwayTeam:   g.AwayTeam,
		HomeScore:  g.HomeScore,
		AwayScore:  g.AwayScore,
		Status:     g.Status,
		Scrimmage:  g.Scrimmage,
		RecordedAt: now.UTC(),
	}
}

// Line renders the entry as "LABEL: HOME h-a AWAY".
func (e Entry) Line() string {
	// Casers keep state between calls; build one per line.
	upper := cases.Upper(language.Und)
	return fmt.Sprintf("%s: %s %d-%d %s", e.Label, upper.String(e.HomeTeam), e.HomeScore, e.AwayScore, upper.String(e.AwayTeam))
}

// Day is the ledger of one UTC date.
type Day struct {
	Date    string  `json:"date"`
	Entries []Entry `json:"entries"`
}
