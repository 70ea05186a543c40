package engine

import (
	"math/rand"
	"sync"

	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
)

// Rand is the randomness used for stoppage rolls and coin tosses.
// *rand.Rand satisfies it; tests pass a scripted source.
type Rand interface {
	Intn(n int) int
}

// NewRand returns a goroutine-safe Rand seeded with seed.
func NewRand(seed int64) Rand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// RollStoppage draws stoppage minutes (1..6) from a d1000, weighted toward 3 and 4.
func RollStoppage(r Rand) int {
	roll := r.Intn(1000) + 1
	switch {
	case roll <= 23:
		return 1
	case roll <= 46:
		return 6
	case roll <= 182:
		return 2
	case roll <= 318:
		return 5
	case roll <= 659:
		return 3
	default:
		return 4
	}
}

// TossCoin picks the coin toss winner uniformly.
func TossCoin(r Rand) games.Side {
	if r.Intn(2) == 0 {
		return games.SideHome
	}
	return games.SideAway
}
