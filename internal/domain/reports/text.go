package reports

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"teamstats/internal/domain/employees"
)

const ruleWidth = 70

// TextWriter stops writing after the first failed write and reports that error from Write.
type TextWriter struct {
	out     io.Writer
	heading *color.Color
	alert   *color.Color
	err     error
}

func NewTextWriter(out io.Writer) *TextWriter {
	return &TextWriter{
		out:     out,
		heading: color.New(color.FgCyan, color.Bold),
		alert:   color.New(color.FgRed),
	}
}

// Write prints the console analytics report: totals, top lists by tasks, delays and deviation,
// and the status distribution.
func (t *TextWriter) Write(list []employees.Employee, limit int) error {
	t.err = nil
	totals := employees.AggregateTotals(list)
	rule := strings.Repeat("=", ruleWidth)

	t.line(rule)
	t.headline("EMPLOYEE ANALYTICS")
	t.line(rule)
	t.line("")
	t.line(fmt.Sprintf("Employees: %d", len(list)))
	t.line("")
	t.headline("Overall:")
	t.line(fmt.Sprintf("  Tasks: %d", totals.Tasks))
	t.line(fmt.Sprintf("  Delayed: %d (%.1f%%)", totals.Delayed, employees.Percent(totals.Delayed, totals.Tasks)))
	t.line(fmt.Sprintf("  Postponed: %d (%.1f%%)", totals.Postponed, employees.Percent(totals.Postponed, totals.Tasks)))
	t.line("")
	t.line(rule)
	t.line("")

	t.headline(fmt.Sprintf("Top %d by task count:", limit))
	t.line("")
	for i, e := range employees.TopBy(list, employees.SortTotalTasks, limit) {
		t.line(fmt.Sprintf("%2d. %-30s - %3d task(s)", i+1, e.Name, e.TotalTasks))
	}
	t.line("")
	t.line(rule)
	t.line("")

	t.headline(fmt.Sprintf("Top %d by delayed tasks:", limit))
	t.line("")
	for i, e := range employees.TopBy(list, employees.SortDelayed, limit) {
		text := fmt.Sprintf("%2d. %-30s - %3d (%5.1f%%)", i+1, e.Name, e.Delayed, employees.DelayPercentage(e))
		if e.Delayed > 0 {
			t.alertLine(text)
			continue
		}
		t.line(text)
	}
	t.line("")
	t.line(rule)
	t.line("")

	t.headline(fmt.Sprintf("Top %d by average deviation:", limit))
	t.line("")
	for i, e := range employees.TopByPositiveDeviation(list, limit) {
		t.line(fmt.Sprintf("%2d. %-30s - %6.1f days", i+1, e.Name, e.AvgDeviation))
	}
	t.line("")
	t.line(rule)
	t.line("")

	t.headline("Status distribution:")
	t.line("")
	for _, s := range employees.StatusDistribution(list) {
		t.line(fmt.Sprintf("  %-20s - %3d (%.1f%%)", s.Status, s.Count, employees.Percent(s.Count, totals.Tasks)))
	}
	t.line("")
	t.line(rule)
	if t.err != nil {
		return fmt.Errorf("write text report: %w", t.err)
	}
	return nil
}

func (t *TextWriter) line(text string) {
	if t.err == nil {
		_, t.err = fmt.Fprintln(t.out, text)
	}
}

func (t *TextWriter) headline(text string) {
	if t.err == nil {
		_, t.err = t.heading.Fprintln(t.out, text)
	}
}

func (t *TextWriter) alertLine(text string) {
	if t.err == nil {
		_, t.err = t.alert.Fprintln(t.out, text)
	}
}

func WriteText(out io.Writer, list []employees.Employee, limit int) error {
	return NewTextWriter(out).Write(list, limit)
}
