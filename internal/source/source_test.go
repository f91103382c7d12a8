package source

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleCSV = `Developer,Date,Week,General trends,TDD trends,Requirements gathering trends,Debugging trends,Surprises
D1,2026-02-05,Week 6,"No-show,Late","Slow,Unprepared",Vague,Stuck,
D2,2026-02-12 14:30:00,Week 7,Notable improvement between sessions,,,,Paired really well
D3,20/02/2026,Week 8,,Slow,,,
`

func TestReadCSV(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	first := records[0]
	if first.Developer != "D1" {
		t.Errorf("unexpected developer %q", first.Developer)
	}
	if want := time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC); !first.Date.Equal(want) {
		t.Errorf("expected date %v, got %v", want, first.Date)
	}
	if first.GeneralTrends != "No-show,Late" {
		t.Errorf("expected trend field carried verbatim, got %q", first.GeneralTrends)
	}

	if want := time.Date(2026, 2, 12, 14, 30, 0, 0, time.UTC); !records[1].Date.Equal(want) {
		t.Errorf("expected timestamp layout parsed, got %v", records[1].Date)
	}
	if records[1].Surprise != "Paired really well" {
		t.Errorf("unexpected surprise %q", records[1].Surprise)
	}

	if want := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC); !records[2].Date.Equal(want) {
		t.Errorf("expected day/month/year layout parsed, got %v", records[2].Date)
	}
}

func TestReadCSVMissingColumn(t *testing.T) {
	input := "Developer,Date,Week\nD1,2026-02-05,Week 6\n"
	_, err := ReadCSV(strings.NewReader(input))
	if err == nil || !strings.Contains(err.Error(), "missing column") {
		t.Errorf("expected missing-column error, got %v", err)
	}
}

func TestReadCSVBadDate(t *testing.T) {
	input := strings.Join([]string{
		"Developer,Date,Week,General trends,TDD trends,Requirements gathering trends,Debugging trends,Surprises",
		"D1,2026-02-05,Week 6,,,,,",
		"D2,next tuesday,Week 6,,,,,",
	}, "\n")
	_, err := ReadCSV(strings.NewReader(input))
	if err == nil || !strings.Contains(err.Error(), "row 3") {
		t.Errorf("expected error naming row 3, got %v", err)
	}
}

func TestReadCSVEmptyInput(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestDetectFormat(t *testing.T) {
	cases := map[string]string{
		"reviews.csv":     FormatCSV,
		"reviews.txt":     FormatCSV,
		"reviews":         FormatCSV,
		"reviews.db":      FormatSQLite,
		"reviews.sqlite":  FormatSQLite,
		"reviews.sqlite3": FormatSQLite,
		"REVIEWS.DB":      FormatSQLite,
	}
	for path, want := range cases {
		if got := DetectFormat(path); got != want {
			t.Errorf("DetectFormat(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestLoadDispatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	records, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("expected 3 records, got %d", len(records))
	}

	if _, err := Load(path, "parquet"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestLoadCSVMissingFile(t *testing.T) {
	if _, err := LoadCSV(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func createReviewsDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "reviews.db")
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("opening fixture database: %v", err)
	}
	defer conn.Close()

	stmts := []string{
		`CREATE TABLE reviews (
			developer TEXT NOT NULL,
			date TEXT NOT NULL,
			week TEXT,
			general_trends TEXT,
			tdd_trends TEXT,
			requirements_trends TEXT,
			debugging_trends TEXT,
			surprises TEXT
		)`,
		`INSERT INTO reviews VALUES
			('D2', '2026-02-12 14:30:00', 'Week 7', 'Late', NULL, NULL, NULL, NULL),
			('D1', '2026-02-05', 'Week 6', 'No-show,Late', 'Slow,Unprepared', 'Vague', 'Stuck', '')`,
	}
	for _, stmt := range stmts {
		if _, err := conn.Exec(stmt); err != nil {
			t.Fatalf("preparing fixture database: %v", err)
		}
	}
	return path
}

func TestLoadSQLite(t *testing.T) {
	path := createReviewsDB(t)

	records, err := LoadSQLite(path)
	if err != nil {
		t.Fatalf("LoadSQLite: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	// ORDER BY date puts D1's earlier session first despite insert order.
	if records[0].Developer != "D1" || records[1].Developer != "D2" {
		t.Errorf("expected date ordering [D1 D2], got [%s %s]",
			records[0].Developer, records[1].Developer)
	}
	if records[0].TDDTrends != "Slow,Unprepared" {
		t.Errorf("unexpected TDD field %q", records[0].TDDTrends)
	}
	if records[1].TDDTrends != "" {
		t.Errorf("expected NULL trend field scanned as empty, got %q", records[1].TDDTrends)
	}
}

func TestLoadSQLiteMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.db")
	if _, err := LoadSQLite(path); err == nil {
		t.Error("expected error for missing database")
	}
	// The failed load must not have created an empty database.
	if _, err := os.Stat(path); err == nil {
		t.Error("expected no database file to be created")
	}
}
