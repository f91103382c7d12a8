package source

import (
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/review"
)

// LoadSQLite reads records from the reviews table of a SQLite export. The
// connection is query-only; this loader never creates or alters anything.
func LoadSQLite(path string) ([]review.Record, error) {
	// sql.Open would happily create an empty database at a bad path.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Exec("PRAGMA query_only=ON"); err != nil {
		return nil, fmt.Errorf("setting query-only mode: %w", err)
	}

	rows, err := conn.Query(
		`SELECT developer, date, week, general_trends, tdd_trends,
		requirements_trends, debugging_trends, surprises
		FROM reviews ORDER BY date`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying reviews: %w", err)
	}
	defer rows.Close()

	records, err := scanReviews(rows)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, nil
}

func scanReviews(rows *sql.Rows) ([]review.Record, error) {
	var records []review.Record
	for rows.Next() {
		var (
			developer, date string
			week, surprise  sql.NullString
			general, tdd    sql.NullString
			reqs, debugging sql.NullString
		)
		if err := rows.Scan(&developer, &date, &week,
			&general, &tdd, &reqs, &debugging, &surprise); err != nil {
			return nil, err
		}

		when, err := parseDate(date)
		if err != nil {
			return nil, fmt.Errorf("review for %s: %w", developer, err)
		}

		records = append(records, review.Record{
			Developer:          developer,
			Date:               when,
			Week:               week.String,
			GeneralTrends:      general.String,
			TDDTrends:          tdd.String,
			RequirementsTrends: reqs.String,
			DebuggingTrends:    debugging.String,
			Surprise:           surprise.String,
		})
	}
	return records, rows.Err()
}
