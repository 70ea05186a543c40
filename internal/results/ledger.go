package results

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/preston-bernstein/fake-soccer-service/internal/logging"
)

const defaultRetentionDays = 30

// Ledger appends finished games to one JSON file per UTC day and prunes
// days older than the retention window.
type Ledger struct {
	basePath      string
	retentionDays int
	logger        *slog.Logger
	now           func() time.Time

	mu sync.Mutex
}

// NewLedger constructs a ledger rooted at basePath.
func NewLedger(basePath string, retentionDays int, logger *slog.Logger) *Ledger {
	if retentionDays <= 0 {
		retentionDays = defaultRetentionDays
	}
	return &Ledger{
		basePath:      basePath,
		retentionDays: retentionDays,
		logger:        logger,
		now:           time.Now,
	}
}

// BasePath exposes the ledger root path.
func (l *Ledger) BasePath() string {
	if l == nil {
		return ""
	}
	return l.basePath
}

// Record appends e to the ledger day of e.RecordedAt.
func (l *Ledger) Record(ctx context.Context, e Entry) error {
	if l == nil {
		return errors.New("results ledger not configured")
	}
	if e.GameID == "" {
		return errors.New("results entry requires a game id")
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = l.now().UTC()
	}
	date := FormatDate(e.RecordedAt)

	l.mu.Lock()
	defer l.mu.Unlock()

	target := DayPath(l.basePath, date)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	day, err := loadDay(target)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read ledger %s: %w", date, err)
	}
	day.Date = date
	day.Entries = upsert(day.Entries, e)

	if err := writeJSONAtomic(target, day); err != nil {
		return err
	}
	if err := l.updateManifest(date); err != nil {
		return err
	}

	logging.Info(logging.FromContext(ctx, l.logger), "result recorded",
		logging.FieldGameID, e.GameID,
		logging.FieldDate, date,
		"label", e.Label,
	)
	return nil
}

// upsert replaces an existing entry for the same game so a replayed commit stays idempotent.
func upsert(entries []Entry, e Entry) []Entry {
	for i := range entries {
		if entries[i].GameID == e.GameID {
			entries[i] = e
			return entries
		}
	}
	return append(entries, e)
}

func (l *Ledger) updateManifest(date string) error {
	m, _ := readManifest(manifestPath(l.basePath), l.retentionDays)

	dates, err := l.listDates()
	if err != nil {
		return err
	}
	if !containsDate(dates, date) {
		dates = append(dates, date)
	}

	now := l.now().UTC()
	m.Dates = l.prune(dates, now)
	m.RetentionDays = l.retentionDays
	m.LastWritten = now
	return writeManifest(l.basePath, m, now)
}

func containsDate(dates []string, date string) bool {
	for _, d := range dates {
		if d == date {
			return true
		}
	}
	return false
}

func (l *Ledger) listDates() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(l.basePath, daysDir))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	dates := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		dates = append(dates, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(dates)
	return dates, nil
}

func (l *Ledger) prune(dates []string, now time.Time) []string {
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -l.retentionDays)
	keep := make([]string, 0, len(dates))
	for _, d := range dates {
		parsed, err := ParseDate(d)
		if err == nil && parsed.Before(cutoff) {
			if rmErr := os.Remove(DayPath(l.basePath, d)); rmErr != nil && !os.IsNotExist(rmErr) {
				logging.Warn(l.logger, "failed to prune results day", logging.FieldDate, d, "error", rmErr)
			}
			continue
		}
		keep = append(keep, d)
	}
	sort.Strings(keep)
	return keep
}
