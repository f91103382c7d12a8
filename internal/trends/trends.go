// Package trends turns raw review-session trend fields into frequency counts.
package trends

import (
	"strings"

	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/review"
)

// SplitTrends splits a raw multi-value trend field on commas and drops tokens
// that are empty or whitespace-only. Surviving tokens are kept verbatim: the
// export's own spacing is part of the label. Aggregation and flagging both
// count trend occurrences through this function so their counts agree.
func SplitTrends(raw string) []string {
	if raw == "" {
		return nil
	}
	var labels []string
	for _, tok := range strings.Split(raw, ",") {
		if strings.TrimSpace(tok) == "" {
			continue
		}
		labels = append(labels, tok)
	}
	return labels
}

// CategoryFrequency counts every trend label of one category across rows.
// Excluded labels are counted like any other; labels absent from the input
// never appear in the result.
func CategoryFrequency(cat review.Category, rows []review.Record) map[string]int {
	freq := make(map[string]int)
	for _, r := range rows {
		accumulate(SplitTrends(r.Trend(cat)), freq)
	}
	return freq
}

// LabelOccurrence counts the rows whose raw field for cat contains label as a
// substring. Deliberately looser than token equality: it answers "how many
// sessions mention X" for a single named trend.
func LabelOccurrence(cat review.Category, label string, rows []review.Record) int {
	n := 0
	for _, r := range rows {
		if strings.Contains(r.Trend(cat), label) {
			n++
		}
	}
	return n
}

// WeekFrequency counts sessions per week label. The whole field is one label,
// never split; blank week labels are skipped.
func WeekFrequency(rows []review.Record) map[string]int {
	freq := make(map[string]int)
	for _, r := range rows {
		if strings.TrimSpace(r.Week) == "" {
			continue
		}
		accumulate([]string{r.Week}, freq)
	}
	return freq
}

// Surprises returns every non-blank surprise entry in row order, duplicates
// included.
func Surprises(rows []review.Record) []string {
	var out []string
	for _, r := range rows {
		if strings.TrimSpace(r.Surprise) != "" {
			out = append(out, r.Surprise)
		}
	}
	return out
}

func accumulate(labels []string, freq map[string]int) {
	for _, label := range labels {
		freq[label]++
	}
}
