// Package source loads review-session records from the export formats the
// review team hands around: CSV files and the SQLite mirror of the same
// table. Loaders validate what they read; records that reach the caller are
// well-formed.
package source

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/review"
)

// Supported input formats.
const (
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
)

var dateLayouts = []string{
	review.DateLayout,
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// Load reads all records from path. An empty format is inferred from the
// file extension.
func Load(path, format string) ([]review.Record, error) {
	if format == "" {
		format = DetectFormat(path)
	}
	switch format {
	case FormatCSV:
		return LoadCSV(path)
	case FormatSQLite:
		return LoadSQLite(path)
	default:
		return nil, fmt.Errorf("unsupported input format %q", format)
	}
}

// DetectFormat guesses the input format from the file extension.
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatCSV
	}
}

func parseDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}
