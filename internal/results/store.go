package results

import (
	"encoding/json"
	"errors"
	"os"
)

// Reader loads recorded results.
type Reader interface {
	LoadDay(date string) (Day, error)
	Manifest() (Manifest, error)
}

// FSStore loads ledger days from the filesystem.
type FSStore struct {
	basePath string
}

// NewFSStore constructs a filesystem reader rooted at basePath.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath}
}

// LoadDay reads the ledger for date (YYYY-MM-DD). A missing day is an empty ledger.
func (s *FSStore) LoadDay(date string) (Day, error) {
	if s == nil {
		return Day{}, errors.New("results store not configured")
	}
	if _, err := ParseDate(date); err != nil {
		return Day{}, err
	}
	day, err := loadDay(DayPath(s.basePath, date))
	if errors.Is(err, os.ErrNotExist) {
		return Day{Date: date, Entries: []Entry{}}, nil
	}
	if err != nil {
		return Day{}, err
	}
	if day.Date == "" {
		day.Date = date
	}
	return day, nil
}

// Manifest returns the current manifest, or an empty one when nothing was recorded yet.
func (s *FSStore) Manifest() (Manifest, error) {
	if s == nil {
		return Manifest{}, errors.New("results store not configured")
	}
	m, err := readManifest(manifestPath(s.basePath), 0)
	if errors.Is(err, os.ErrNotExist) {
		return m, nil
	}
	return m, err
}

func loadDay(path string) (Day, error) {
	f, err := os.Open(path)
	if err != nil {
		return Day{}, err
	}
	defer f.Close()

	var day Day
	if err := json.NewDecoder(f).Decode(&day); err != nil {
		return Day{}, err
	}
	return day, nil
}
