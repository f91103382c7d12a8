// Package prompt collects the interactive inputs a report run needs: the
// reporting period, the cancellation count, and per-developer confirmation
// of flag candidates.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/CoGrammarCodeReview/Makers-Trends-Report/internal/review"
)

var (
	highlight = color.New(color.FgHiCyan).SprintFunc()
	warn      = color.New(color.FgHiYellow).SprintFunc()
)

// Prompter asks questions on out and reads answers from a single buffered
// reader, so consecutive questions share one input stream.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New returns a Prompter over stdin and stdout.
func New() *Prompter {
	return NewWithIO(os.Stdin, os.Stdout)
}

// NewWithIO returns a Prompter over the given streams.
func NewWithIO(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// DateRange asks for the reporting period until it gets two valid dates
// with start strictly before end.
func (p *Prompter) DateRange() (start, end time.Time, err error) {
	for {
		start, err = p.date("Start date (YYYY-MM-DD): ")
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end, err = p.date("End date (YYYY-MM-DD): ")
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if start.Before(end) {
			return start, end, nil
		}
		fmt.Fprintln(p.out, warn("Start date must be before end date."))
	}
}

func (p *Prompter) date(question string) (time.Time, error) {
	for {
		fmt.Fprint(p.out, question)
		answer, err := p.readLine()
		if err != nil {
			return time.Time{}, fmt.Errorf("reading input: %w", err)
		}
		t, err := time.Parse(review.DateLayout, answer)
		if err == nil {
			return t, nil
		}
		fmt.Fprintln(p.out, warn(fmt.Sprintf("Not a valid date: %q. Use YYYY-MM-DD.", answer)))
	}
}

// Cancellations asks for the number of cancelled sessions in the period.
func (p *Prompter) Cancellations() (int, error) {
	for {
		fmt.Fprint(p.out, "Cancellations in this period: ")
		answer, err := p.readLine()
		if err != nil {
			return 0, fmt.Errorf("reading input: %w", err)
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 0 {
			return n, nil
		}
		fmt.Fprintln(p.out, warn(fmt.Sprintf("Not a non-negative number: %q.", answer)))
	}
}

// ConfirmFlags asks, per candidate, whether the developer really belongs in
// the flag list. Anything but y/yes drops the candidate; a read error drops
// the remaining candidates rather than flagging anyone unreviewed.
func (p *Prompter) ConfirmFlags(candidates []string) []string {
	var confirmed []string
	for _, dev := range candidates {
		fmt.Fprintf(p.out, "Flag %s for follow-up? [y/N]: ", highlight(dev))
		answer, err := p.readLine()
		if err != nil {
			return confirmed
		}
		answer = strings.ToLower(answer)
		if answer == "y" || answer == "yes" {
			confirmed = append(confirmed, dev)
		}
	}
	return confirmed
}
