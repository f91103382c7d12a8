// Package pipeline orchestrates a report run: load the records, assemble
// the report, write the artifact.
package pipeline

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/config"
	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/flagging"
	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/render"
	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/report"
	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/review"
	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/source"
)

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// Result holds the results of a full report run.
type Result struct {
	PeriodID   string
	ReportPath string
	Report     *report.Report
	Steps      []StepResult
}

// Params carries the per-run inputs. InputPath and Format override the
// configured input when set.
type Params struct {
	InputPath     string
	Format        string
	Start         time.Time
	End           time.Time
	Cancellations int
}

// Pipeline orchestrates the 3-step report run.
type Pipeline struct {
	cfg     *config.Config
	confirm flagging.ConfirmFunc
}

// New creates a pipeline. confirm reviews flag candidates before they enter
// the report; nil approves all of them.
func New(cfg *config.Config, confirm flagging.ConfirmFunc) *Pipeline {
	return &Pipeline{cfg: cfg, confirm: confirm}
}

// Run executes the full pipeline for one reporting period.
func (p *Pipeline) Run(params Params) *Result {
	r := &Result{PeriodID: review.PeriodID(params.Start, params.End)}

	// Step 1: Load
	archive, step := p.runLoad(params)
	r.Steps = append(r.Steps, step)
	if step.Err != nil {
		return r
	}

	// Step 2: Assemble
	rep, step := p.runAssemble(archive, params)
	r.Steps = append(r.Steps, step)
	r.Report = rep

	// Step 3: Write
	path, step := p.runWrite(rep)
	r.Steps = append(r.Steps, step)
	if step.Err != nil {
		return r
	}
	r.ReportPath = path

	return r
}

// DryRun loads the records and reports what a run would produce, without
// prompting anyone or writing anything.
func (p *Pipeline) DryRun(params Params) *Result {
	r := &Result{PeriodID: review.PeriodID(params.Start, params.End)}

	archive, step := p.runLoad(params)
	r.Steps = append(r.Steps, step)
	if step.Err != nil {
		return r
	}

	window := archive.Window(params.Start, params.End)
	candidates := flagging.NewEvaluator(nil).Candidates(window, archive)
	r.Steps = append(r.Steps, StepResult{
		Name: "Assemble",
		Summary: fmt.Sprintf("[dry-run] %d reviews in window, %d flag candidates pending confirmation",
			len(window), len(candidates)),
	})

	target := filepath.Join(p.cfg.GetReportsDir(), render.Filename(r.PeriodID))
	r.Steps = append(r.Steps, StepResult{
		Name:    "Write",
		Summary: fmt.Sprintf("[dry-run] Would write %s", target),
	})

	return r
}

func (p *Pipeline) runLoad(params Params) (review.Archive, StepResult) {
	path := params.InputPath
	if path == "" {
		path = p.cfg.Input.Path
	}
	format := params.Format
	if format == "" {
		format = p.cfg.Input.Format
	}

	log.Printf("Step 1/3: Loading records from %s...", path)
	records, err := source.Load(path, format)
	if err != nil {
		return nil, StepResult{Name: "Load", Err: err}
	}

	archive := review.NewArchive(records)
	return archive, StepResult{
		Name:    "Load",
		Summary: fmt.Sprintf("Loaded %d records for %d developers", len(archive), len(archive.Developers())),
	}
}

func (p *Pipeline) runAssemble(archive review.Archive, params Params) (*report.Report, StepResult) {
	log.Println("Step 2/3: Assembling report...")
	window := archive.Window(params.Start, params.End)
	rep := report.Assemble(window, archive, report.Params{
		Start:         params.Start,
		End:           params.End,
		Cancellations: params.Cancellations,
		Confirm:       p.confirm,
	})
	return rep, StepResult{
		Name:    "Assemble",
		Summary: fmt.Sprintf("%d reviews in window, %d developers flagged", rep.TotalReviews, len(rep.Flags)),
	}
}

func (p *Pipeline) runWrite(rep *report.Report) (string, StepResult) {
	log.Println("Step 3/3: Writing report...")
	path, err := render.WriteFile(rep, p.cfg.GetReportsDir())
	if err != nil {
		return "", StepResult{Name: "Write", Err: err}
	}
	return path, StepResult{
		Name:    "Write",
		Summary: fmt.Sprintf("Report written to %s", path),
	}
}
