package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/report"
	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/review"
)

var (
	heading = color.New(color.FgHiCyan, color.Bold).SprintFunc()
	flagged = color.New(color.FgHiRed).SprintFunc()
	muted   = color.New(color.Faint).SprintFunc()
)

// Summary writes a compact terminal digest of the report to w.
func Summary(w io.Writer, rep *report.Report) {
	fmt.Fprintf(w, "%s\n", heading("Peer Review Trends: "+review.FormatPeriodDisplay(rep.PeriodID())))
	fmt.Fprintf(w, "Reviews: %d  Cancellations: %d  No-shows: %d  Improvements: %d\n\n",
		rep.TotalReviews, rep.Cancellations, rep.NoShows, rep.Improvements)

	for _, cat := range review.Categories() {
		summaryTable(w, string(cat)+" trends", "Trend", rep.Trends[cat])
	}
	summaryTable(w, "Sessions per week", "Week", rep.Weeks)

	fmt.Fprintf(w, "%s\n", heading("Flagged developers"))
	if len(rep.Flags) == 0 {
		fmt.Fprintf(w, "%s\n", muted("none"))
	} else {
		for _, dev := range rep.Flags {
			fmt.Fprintf(w, "  %s\n", flagged(dev))
		}
	}
}

func summaryTable(w io.Writer, title, keyHeader string, freq map[string]int) {
	fmt.Fprintf(w, "%s\n", heading(title))
	if len(freq) == 0 {
		fmt.Fprintf(w, "%s\n\n", muted("none"))
		return
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "", Right: "  "}),
	)
	table.Header([]string{keyHeader, "Count"})
	for _, e := range sortedEntries(freq) {
		table.Append([]string{e.Label, strconv.Itoa(e.Count)})
	}
	table.Render()
	fmt.Fprintln(w)
}
