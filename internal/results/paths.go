package results

import (
	"fmt"
	"path/filepath"
)

const (
	daysDir      = "days"
	manifestFile = "manifest.json"
)

// DayPath builds the path to the ledger file for a given date.
func DayPath(basePath, date string) string {
	return filepath.Join(basePath, daysDir, fmt.Sprintf("%s.json", date))
}

func manifestPath(basePath string) string {
	return filepath.Join(basePath, manifestFile)
}
