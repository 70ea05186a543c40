package results

import (
	"encoding/json"
	"os"
	"time"
)

// Manifest tracks which ledger days are on disk.
type Manifest struct {
	Version       int       `json:"version"`
	GeneratedAt   time.Time `json:"generatedAt"`
	RetentionDays int       `json:"retentionDays"`
	Dates         []string  `json:"dates"`
	LastWritten   time.Time `json:"lastWritten"`
}

func defaultManifest(retentionDays int) Manifest {
	return Manifest{
		Version:       1,
		GeneratedAt:   time.Now().UTC(),
		RetentionDays: retentionDays,
		Dates:         []string{},
	}
}

func readManifest(path string, retentionDays int) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return defaultManifest(retentionDays), err
	}
	defer f.Close()
	var m Manifest
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return defaultManifest(retentionDays), err
	}
	return m, nil
}

func writeManifest(basePath string, m Manifest, now time.Time) error {
	m.GeneratedAt = now.UTC()
	return writeJSONAtomic(manifestPath(basePath), m)
}

func writeJSONAtomic(path string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
