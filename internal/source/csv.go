package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/review"
)

// Column headers expected in the CSV export. Order is not significant.
const (
	colDeveloper    = "Developer"
	colDate         = "Date"
	colWeek         = "Week"
	colGeneral      = "General trends"
	colTDD          = "TDD trends"
	colRequirements = "Requirements gathering trends"
	colDebugging    = "Debugging trends"
	colSurprises    = "Surprises"
)

var requiredColumns = []string{
	colDeveloper, colDate, colWeek,
	colGeneral, colTDD, colRequirements, colDebugging,
	colSurprises,
}

// LoadCSV reads records from a CSV export at path.
func LoadCSV(path string) ([]review.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	records, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, nil
}

// ReadCSV parses a CSV export from r. The first row must name every column
// the report reads. A malformed row fails the whole load; silently dropping
// a record would skew every aggregate built on top of it.
func ReadCSV(r io.Reader) ([]review.Record, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("input is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	var records []review.Record
	for row := 2; ; row++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		date, err := parseDate(fields[idx[colDate]])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		// Trend fields are carried verbatim; tokenizing is the engine's job.
		records = append(records, review.Record{
			Developer:          fields[idx[colDeveloper]],
			Date:               date,
			Week:               fields[idx[colWeek]],
			GeneralTrends:      fields[idx[colGeneral]],
			TDDTrends:          fields[idx[colTDD]],
			RequirementsTrends: fields[idx[colRequirements]],
			DebuggingTrends:    fields[idx[colDebugging]],
			Surprise:           fields[idx[colSurprises]],
		})
	}
	return records, nil
}
