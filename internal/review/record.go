// Package review defines the review-session record model shared by the
// aggregation and flagging engine.
package review

import (
	"sort"
	"time"
)

// DateLayout is the canonical date form used in prompts and period labels.
const DateLayout = "2006-01-02"

// Category identifies one of the four process-trend dimensions tracked per
// session. Each category maps to exactly one raw trend field on a record.
type Category string

const (
	General               Category = "General"
	TDD                   Category = "TDD"
	RequirementsGathering Category = "Requirements gathering"
	Debugging             Category = "Debugging"
)

// Categories returns the four categories in presentation order.
func Categories() []Category {
	return []Category{General, TDD, RequirementsGathering, Debugging}
}

// Administrative labels that appear in trend fields without describing a
// negative pattern. They stay in the reported distributions but never count
// toward a developer's negative-trend score.
const (
	NoShowLabel      = "No-show"
	NoUUIDLabel      = "No UUID provided"
	ImprovementLabel = "Notable improvement between sessions"
	UUIDErrorLabel   = "UUID error"
)

var excludedTrends = map[string]struct{}{
	NoShowLabel:      {},
	NoUUIDLabel:      {},
	ImprovementLabel: {},
	UUIDErrorLabel:   {},
}

// IsExcludedTrend reports whether label carries no negative signal.
func IsExcludedTrend(label string) bool {
	_, ok := excludedTrends[label]
	return ok
}

// Record is one review session row from the export. Each trend field is a
// raw comma-separated list of labels, possibly empty. Records are immutable
// once loaded.
type Record struct {
	Developer          string
	Date               time.Time
	Week               string
	GeneralTrends      string
	TDDTrends          string
	RequirementsTrends string
	DebuggingTrends    string
	Surprise           string
}

// Trend returns the raw trend field for a category.
func (r Record) Trend(c Category) string {
	switch c {
	case General:
		return r.GeneralTrends
	case TDD:
		return r.TDDTrends
	case RequirementsGathering:
		return r.RequirementsTrends
	case Debugging:
		return r.DebuggingTrends
	}
	return ""
}

// Archive is the full set of review records for all time, in date order.
type Archive []Record

// NewArchive sorts records by date ascending and returns them as an Archive.
// The sort is stable, so records sharing a timestamp keep their export order.
// Flagging reads "last record for a developer" as most recent, so the order
// is established here instead of trusted from the loader.
func NewArchive(records []Record) Archive {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return Archive(records)
}

// Window returns the records with date in [start, end), preserving order.
func (a Archive) Window(start, end time.Time) Archive {
	var w Archive
	for _, r := range a {
		if !r.Date.Before(start) && r.Date.Before(end) {
			w = append(w, r)
		}
	}
	return w
}

// Developers returns the distinct developer identifiers in first-seen order.
func (a Archive) Developers() []string {
	seen := make(map[string]bool)
	var devs []string
	for _, r := range a {
		if !seen[r.Developer] {
			seen[r.Developer] = true
			devs = append(devs, r.Developer)
		}
	}
	return devs
}

// Span returns the earliest and latest record dates, zero times when empty.
func (a Archive) Span() (first, last time.Time) {
	if len(a) == 0 {
		return time.Time{}, time.Time{}
	}
	return a[0].Date, a[len(a)-1].Date
}
