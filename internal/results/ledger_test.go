package results

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func sampleEntry(id string, at time.Time) Entry {
	return NewEntry(games.Game{
		ID:        id,
		HomeTeam:  "ars",
		AwayTeam:  "che",
		HomeScore: 2,
		AwayScore: 1,
		Status:    games.StatusFinal,
	}, LabelFinal, at)
}

func TestEntryLine(t *testing.T) {
	e := sampleEntry("g1", time.Now())
	if got := e.Line(); got != "FINAL: ARS 2-1 CHE" {
		t.Fatalf("unexpected line %q", got)
	}
}

func TestLedgerRecordsDayAndManifest(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 9, 18, 0, 0, 0, time.UTC)
	l := NewLedger(dir, 10, nil)
	l.now = fixedNow(now)

	if err := l.Record(context.Background(), sampleEntry("g1", now)); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := l.Record(context.Background(), sampleEntry("g2", now)); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	store := NewFSStore(dir)
	day, err := store.LoadDay("2024-03-09")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(day.Entries) != 2 || day.Entries[0].GameID != "g1" {
		t.Fatalf("unexpected day %+v", day)
	}

	m, err := store.Manifest()
	if err != nil {
		t.Fatalf("manifest failed: %v", err)
	}
	if len(m.Dates) != 1 || m.Dates[0] != "2024-03-09" || m.RetentionDays != 10 {
		t.Fatalf("unexpected manifest %+v", m)
	}
	if !m.LastWritten.Equal(now) {
		t.Fatalf("expected last written %v, got %v", now, m.LastWritten)
	}
}

func TestLedgerRecordIsIdempotentPerGame(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 9, 18, 0, 0, 0, time.UTC)
	l := NewLedger(dir, 10, nil)
	l.now = fixedNow(now)

	first := sampleEntry("g1", now)
	second := first
	second.HomeScore = 5

	for _, e := range []Entry{first, second} {
		if err := l.Record(context.Background(), e); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	day, _ := NewFSStore(dir).LoadDay("2024-03-09")
	if len(day.Entries) != 1 || day.Entries[0].HomeScore != 5 {
		t.Fatalf("expected replayed entry to replace the first, got %+v", day.Entries)
	}
}

func TestLedgerPrunesOldDays(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	l := NewLedger(dir, 1, nil)
	l.now = fixedNow(now)

	old := now.AddDate(0, 0, -5)
	if err := l.Record(context.Background(), sampleEntry("old", old)); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := l.Record(context.Background(), sampleEntry("new", now)); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	if _, err := os.Stat(DayPath(dir, FormatDate(old))); err == nil {
		t.Fatalf("expected old day to be pruned")
	}
	if _, err := os.Stat(DayPath(dir, FormatDate(now))); err != nil {
		t.Fatalf("expected current day to exist: %v", err)
	}
}

func TestLedgerRejectsNilAndMissingID(t *testing.T) {
	var l *Ledger
	if err := l.Record(context.Background(), Entry{GameID: "g1"}); err == nil {
		t.Fatalf("expected error for nil ledger")
	}
	if l.BasePath() != "" {
		t.Fatalf("expected empty base path for nil ledger")
	}

	l = NewLedger(t.TempDir(), 0, nil)
	if l.retentionDays != defaultRetentionDays {
		t.Fatalf("expected retention default, got %d", l.retentionDays)
	}
	if err := l.Record(context.Background(), Entry{}); err == nil {
		t.Fatalf("expected error for missing game id")
	}
}

func TestLedgerStampsMissingTimestamp(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC)
	l := NewLedger(dir, 5, nil)
	l.now = fixedNow(now)

	if err := l.Record(context.Background(), Entry{GameID: "g1", Label: LabelAbandoned}); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	day, _ := NewFSStore(dir).LoadDay("2024-07-01")
	if len(day.Entries) != 1 || !day.Entries[0].RecordedAt.Equal(now) {
		t.Fatalf("expected entry stamped with now, got %+v", day.Entries)
	}
}

func TestListDatesIgnoresNonJSONAndDirs(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, daysDir, "nested"), 0o755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}
	if err := os.WriteFile(DayPath(dir, "2024-01-01"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("failed to write day: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, daysDir, "ignore.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write extra file: %v", err)
	}

	dates, err := NewLedger(dir, 1, nil).listDates()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(dates) != 1 || dates[0] != "2024-01-01" {
		t.Fatalf("expected only json days, got %v", dates)
	}
}
