// Package render turns an assembled report into its presentation forms: the
// Markdown artifact written to the reports directory and the terminal
// summary shown after a run.
package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/report"
	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/review"
)

type entry struct {
	Label string
	Count int
}

// sortedEntries orders a frequency mapping for presentation: highest count
// first, ties broken alphabetically.
func sortedEntries(freq map[string]int) []entry {
	entries := make([]entry, 0, len(freq))
	for label, count := range freq {
		entries = append(entries, entry{label, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Label < entries[j].Label
	})
	return entries
}

// Markdown renders the report as a Markdown document.
func Markdown(rep *report.Report) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Peer Review Trends: %s\n\n", review.FormatPeriodDisplay(rep.PeriodID()))
	fmt.Fprintf(&buf, "- **Period:** %s to %s\n",
		rep.Start.Format(review.DateLayout), rep.End.Format(review.DateLayout))
	fmt.Fprintf(&buf, "- **Total reviews:** %d\n", rep.TotalReviews)
	fmt.Fprintf(&buf, "- **Cancellations:** %d\n", rep.Cancellations)
	fmt.Fprintf(&buf, "- **No-shows:** %d\n", rep.NoShows)
	fmt.Fprintf(&buf, "- **Notable improvements:** %d\n\n", rep.Improvements)

	for _, cat := range review.Categories() {
		writeFrequencyTable(&buf, string(cat)+" trends", "Trend", rep.Trends[cat])
	}
	writeFrequencyTable(&buf, "Sessions per week", "Week", rep.Weeks)

	buf.WriteString("## Flagged developers\n\n")
	if len(rep.Flags) == 0 {
		buf.WriteString("No developers flagged this period.\n\n")
	} else {
		for _, dev := range rep.Flags {
			fmt.Fprintf(&buf, "- %s\n", dev)
		}
		buf.WriteString("\n")
	}

	buf.WriteString("## Surprises\n\n")
	if len(rep.Surprises) == 0 {
		buf.WriteString("None recorded.\n")
	} else {
		for _, s := range rep.Surprises {
			fmt.Fprintf(&buf, "- %s\n", s)
		}
	}

	return buf.Bytes()
}

func writeFrequencyTable(buf *bytes.Buffer, heading, keyHeader string, freq map[string]int) {
	fmt.Fprintf(buf, "## %s\n\n", heading)
	if len(freq) == 0 {
		buf.WriteString("None recorded.\n\n")
		return
	}
	fmt.Fprintf(buf, "| %s | Count |\n| --- | ---: |\n", keyHeader)
	for _, e := range sortedEntries(freq) {
		fmt.Fprintf(buf, "| %s | %d |\n", e.Label, e.Count)
	}
	buf.WriteString("\n")
}

// Filename returns the artifact name for a period.
func Filename(periodID string) string {
	return "trends-" + periodID + ".md"
}

// WriteFile renders rep into dir, creating the directory if needed, and
// returns the written path.
func WriteFile(rep *report.Report, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating reports directory: %w", err)
	}
	path := filepath.Join(dir, Filename(rep.PeriodID()))
	if err := os.WriteFile(path, Markdown(rep), 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}
