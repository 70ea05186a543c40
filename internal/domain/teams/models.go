package teams

import (
	"strings"

	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
)

// MaxIDLength bounds team ids so they fit score lines.
const MaxIDLength = 7

// Team is a club managed by one person, optionally covered by a substitute.
type Team struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Manager    string `json:"manager"`
	Substitute string `json:"substitute,omitempty"`
}

// EffectiveManager returns the identity that submits numbers for the team.
func (t Team) EffectiveManager() string {
	if t.Substitute != "" {
		return t.Substitute
	}
	return t.Manager
}

// NormalizeID lowercases and trims a team id.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Validate checks the fields required to register a team.
func (t Team) Validate() error {
	switch {
	case t.ID == "":
		return games.Invalid("Error: Team ID is required.")
	case len(t.ID) > MaxIDLength:
		return games.Invalid("Error: Team ID too long.")
	case strings.TrimSpace(t.Name) == "":
		return games.Invalid("Error: Team name is required.")
	case t.Manager == "":
		return games.Invalid("Error: Team manager is required.")
	}
	if t.Color != "" && !isHexColor(t.Color) {
		return games.Invalid("Error: Color must be a hex value.")
	}
	return nil
}

func isHexColor(v string) bool {
	v = strings.TrimPrefix(v, "#")
	if len(v) == 0 || len(v) > 6 {
		return false
	}
	for _, r := range v {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
