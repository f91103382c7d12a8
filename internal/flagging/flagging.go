// Package flagging decides which developers need follow-up attention based on
// the concentration of negative trends in their review sessions.
package flagging

import (
	"strings"

	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/review"
	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/trends"
)

// scoreThreshold is the negative-trend count at which a single session makes
// its developer a raw flag candidate. The boundary is inclusive.
const scoreThreshold = 4

// ConfirmFunc filters flag candidates by human judgement. Implementations
// must return an order-preserving subsequence of the input.
type ConfirmFunc func(candidates []string) []string

// ApproveAll is the pass-through ConfirmFunc used by batch runs and tests.
func ApproveAll(candidates []string) []string { return candidates }

// NegativeScore counts the distinct negative trend labels in a single record
// across all four categories. Duplicate labels within one field count once;
// excluded administrative labels count never.
func NegativeScore(rec review.Record) int {
	score := 0
	for _, cat := range review.Categories() {
		distinct := make(map[string]struct{})
		for _, label := range trends.SplitTrends(rec.Trend(cat)) {
			if review.IsExcludedTrend(label) {
				continue
			}
			distinct[label] = struct{}{}
		}
		score += len(distinct)
	}
	return score
}

// Evaluator applies the negative-trend concentration rule over a reporting
// window, consulting the full archive for developer history.
type Evaluator struct {
	confirm ConfirmFunc
}

// NewEvaluator creates an Evaluator with the given confirmation filter.
// A nil filter approves every candidate.
func NewEvaluator(confirm ConfirmFunc) *Evaluator {
	if confirm == nil {
		confirm = ApproveAll
	}
	return &Evaluator{confirm: confirm}
}

// Candidates returns the developers with at least one window session scoring
// scoreThreshold or more, in first-encountered window order, deduplicated.
// Two exclusions apply per developer, not per row: a developer whose last
// window record documents an improvement between sessions is skipped, and so
// is a developer with exactly one record in the whole archive; a single
// observed session is not evidence of a pattern. Both window and archive must
// be in date order (review.NewArchive establishes it).
func (e *Evaluator) Candidates(window, archive []review.Record) []string {
	var out []string
	seen := make(map[string]bool)
	for _, rec := range window {
		if NegativeScore(rec) < scoreThreshold {
			continue
		}
		if seen[rec.Developer] {
			continue
		}
		seen[rec.Developer] = true
		if improvedSince(rec.Developer, window) || singleSession(rec.Developer, archive) {
			continue
		}
		out = append(out, rec.Developer)
	}
	return out
}

// Flags passes the raw candidate list through the confirmation filter,
// invoked exactly once per evaluation.
func (e *Evaluator) Flags(window, archive []review.Record) []string {
	return e.confirm(e.Candidates(window, archive))
}

// improvedSince reports whether the developer's most recent record in the
// window has the improvement label in its General field. The match is a
// substring test on the raw field, so padding around the label still counts.
func improvedSince(dev string, window []review.Record) bool {
	for i := len(window) - 1; i >= 0; i-- {
		if window[i].Developer != dev {
			continue
		}
		return strings.Contains(window[i].GeneralTrends, review.ImprovementLabel)
	}
	return false
}

// singleSession reports whether the archive holds exactly one record for dev.
func singleSession(dev string, archive []review.Record) bool {
	n := 0
	for _, rec := range archive {
		if rec.Developer == dev {
			n++
			if n > 1 {
				return false
			}
		}
	}
	return n == 1
}
