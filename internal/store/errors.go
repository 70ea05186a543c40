package store

import (
	"strconv"

	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
)

var (
	// ErrChannelBusy is returned when a channel already hosts an active game.
	ErrChannelBusy = &games.ValidationError{Reason: "Error: There is already a game running in this channel."}
	// ErrTeamExists is returned when a team id is already registered.
	ErrTeamExists = &games.ValidationError{Reason: "Error: Team already exists."}
)

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
