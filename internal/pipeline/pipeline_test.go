package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/config"
	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/review"
)

const fixtureCSV = `Developer,Date,Week,General trends,TDD trends,Requirements gathering trends,Debugging trends,Surprises
D1,2026-01-10,Week 2,Late,Slow,,,
D1,2026-02-05,Week 6,"No-show,Late","Slow,Unprepared",Vague,Stuck,
D2,2026-02-12,Week 7,Notable improvement between sessions,,,,Paired really well
`

func fixtureConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	input := filepath.Join(dir, "reviews.csv")
	if err := os.WriteFile(input, []byte(fixtureCSV), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	return &config.Config{
		Input:   config.Input{Path: input},
		Reports: config.Reports{Dir: filepath.Join(dir, "reports")},
	}
}

func fixtureParams() Params {
	return Params{
		Start:         time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		End:           time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Cancellations: 2,
	}
}

func TestRun(t *testing.T) {
	cfg := fixtureConfig(t)

	result := New(cfg, nil).Run(fixtureParams())

	if len(result.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(result.Steps))
	}
	for _, step := range result.Steps {
		if step.Err != nil {
			t.Fatalf("step %s failed: %v", step.Name, step.Err)
		}
	}

	if result.PeriodID != "2026-02-01..2026-03-01" {
		t.Errorf("unexpected period id %q", result.PeriodID)
	}
	if result.Report == nil || result.Report.TotalReviews != 2 {
		t.Fatalf("unexpected report %+v", result.Report)
	}
	if len(result.Report.Flags) != 1 || result.Report.Flags[0] != "D1" {
		t.Errorf("expected flags [D1], got %v", result.Report.Flags)
	}

	data, err := os.ReadFile(result.ReportPath)
	if err != nil {
		t.Fatalf("reading written report: %v", err)
	}
	if !strings.Contains(string(data), "- D1") {
		t.Error("expected written report to list the flagged developer")
	}
}

func TestRunAppliesConfirmation(t *testing.T) {
	cfg := fixtureConfig(t)

	reject := func(candidates []string) []string { return nil }
	result := New(cfg, reject).Run(fixtureParams())

	if len(result.Report.Flags) != 0 {
		t.Errorf("expected rejected candidates absent, got %v", result.Report.Flags)
	}
}

func TestRunLoadFailure(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Input.Path = filepath.Join(t.TempDir(), "absent.csv")

	result := New(cfg, nil).Run(fixtureParams())

	if len(result.Steps) != 1 {
		t.Fatalf("expected run to stop after failed load, got %d steps", len(result.Steps))
	}
	if result.Steps[0].Err == nil {
		t.Error("expected load step error")
	}
	if result.Report != nil || result.ReportPath != "" {
		t.Error("expected no report on failed load")
	}
}

func TestRunInputOverride(t *testing.T) {
	cfg := fixtureConfig(t)
	override := cfg.Input.Path
	cfg.Input.Path = filepath.Join(t.TempDir(), "absent.csv")

	params := fixtureParams()
	params.InputPath = override

	result := New(cfg, nil).Run(params)
	for _, step := range result.Steps {
		if step.Err != nil {
			t.Fatalf("step %s failed: %v", step.Name, step.Err)
		}
	}
}

func TestDryRun(t *testing.T) {
	cfg := fixtureConfig(t)

	result := New(cfg, nil).DryRun(fixtureParams())

	if len(result.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(result.Steps))
	}
	if !strings.Contains(result.Steps[1].Summary, "[dry-run]") {
		t.Errorf("expected dry-run marker, got %q", result.Steps[1].Summary)
	}
	if !strings.Contains(result.Steps[1].Summary, "1 flag candidates") {
		t.Errorf("expected candidate preview, got %q", result.Steps[1].Summary)
	}

	if _, err := os.Stat(cfg.Reports.Dir); !os.IsNotExist(err) {
		t.Error("expected dry run to write nothing")
	}
}

func TestWindowMatchesArchiveOrdering(t *testing.T) {
	// The loader hands records in file order; NewArchive re-sorts so the
	// evaluator's "last record" lookups see chronology even if the export
	// was shuffled.
	records := []review.Record{
		{Developer: "D1", Date: time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC), GeneralTrends: "Notable improvement between sessions"},
		{Developer: "D1", Date: time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC), TDDTrends: "Slow,Unprepared,Stuck,Vague"},
	}
	archive := review.NewArchive(records)
	if !archive[0].Date.Before(archive[1].Date) {
		t.Fatal("expected archive sorted by date")
	}
}
