// Package report composes aggregation and flagging outputs into the
// immutable report value for one period.
package report

import (
	"time"

	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/flagging"
	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/review"
	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/trends"
)

// CancellationsKey is the reserved label under which the externally supplied
// cancellation count appears in the General frequency mapping.
const CancellationsKey = "Cancellations"

// Params carries the caller-side inputs that cannot be derived from the
// records: the period bounds, the cancellation count, and the confirmation
// filter applied to flag candidates.
type Params struct {
	Start         time.Time
	End           time.Time
	Cancellations int
	Confirm       flagging.ConfirmFunc
}

// Report is the terminal aggregate for one reporting period. It is produced
// once per run and never modified afterwards.
type Report struct {
	Start        time.Time
	End          time.Time
	TotalReviews int

	// Trends holds one label-to-count mapping per category. The General
	// mapping additionally carries the cancellation count under
	// CancellationsKey.
	Trends map[review.Category]map[string]int

	Weeks     map[string]int
	Surprises []string
	Flags     []string

	Cancellations int
	NoShows       int
	Improvements  int
}

// PeriodID returns the identifier used to name artifacts for this report.
func (r *Report) PeriodID() string {
	return review.PeriodID(r.Start, r.End)
}

// Assemble runs the frequency aggregator and the flag evaluator over the
// window and merges their outputs with the externally supplied scalars. The
// archive is consulted only by the evaluator's history check.
func Assemble(window, archive review.Archive, p Params) *Report {
	rep := &Report{
		Start:         p.Start,
		End:           p.End,
		TotalReviews:  len(window),
		Trends:        make(map[review.Category]map[string]int, len(review.Categories())),
		Cancellations: p.Cancellations,
	}

	for _, cat := range review.Categories() {
		rep.Trends[cat] = trends.CategoryFrequency(cat, window)
	}
	// The cancellation count arrives from outside the records. By convention
	// it is reported as one more General entry rather than a separate table.
	rep.Trends[review.General][CancellationsKey] = p.Cancellations

	rep.Weeks = trends.WeekFrequency(window)
	rep.Surprises = trends.Surprises(window)
	rep.NoShows = trends.LabelOccurrence(review.General, review.NoShowLabel, window)
	rep.Improvements = trends.LabelOccurrence(review.General, review.ImprovementLabel, window)

	rep.Flags = flagging.NewEvaluator(p.Confirm).Flags(window, archive)

	return rep
}
