package testutil

import (
	"testing"

	"github.com/preston-bernstein/fake-soccer-service/internal/results"
)

// NewTempLedger returns a results ledger rooted in a temp dir.
func NewTempLedger(t *testing.T, retention int) *results.Ledger {
	t.Helper()
	return results.NewLedger(t.TempDir(), retention, nil)
}
