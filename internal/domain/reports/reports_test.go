package reports

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"teamstats/internal/domain/employees"
)

func sampleEmployees() []employees.Employee {
	tasks := make([]employees.Task, 0, 20)
	for i := 0; i < 20; i++ {
		status := "Завершена"
		if i < 2 {
			status = "Просрочена"
		}
		tasks = append(tasks, employees.Task{Task: "task", Status: status, Deviation: "1"})
	}
	return []employees.Employee{
		{Name: "Alice", TotalTasks: 20, Delayed: 2, Postponed: 0, AvgDeviation: 1.5, Tasks: tasks},
		{Name: "Bob", TotalTasks: 5, Delayed: 0, Postponed: 1, AvgDeviation: -0.5,
			Tasks: []employees.Task{{Task: "t", Status: "Отложена"}}},
	}
}

func TestBuildSummary(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	summary := BuildSummary(sampleEmployees(), DefaultOptions(), now)

	if summary.EmployeeCount != 2 {
		t.Fatalf("expected 2 employees, got %d", summary.EmployeeCount)
	}
	if summary.Totals != (employees.Totals{Tasks: 25, Delayed: 2, Postponed: 1}) {
		t.Fatalf("unexpected totals %+v", summary.Totals)
	}
	if summary.DelayedPercent != 8 || summary.PostponedPercent != 4 {
		t.Fatalf("unexpected percentages %.2f %.2f", summary.DelayedPercent, summary.PostponedPercent)
	}
	if len(summary.Top) != 1 || summary.Top[0].Name != "Alice" || summary.Top[0].Efficiency.Score != 80 {
		t.Fatalf("unexpected top %+v", summary.Top)
	}
	if summary.Employees[0].Name != "Alice" || summary.Employees[0].Completed != 18 {
		t.Fatalf("unexpected employee lines %+v", summary.Employees)
	}
	if summary.Sort != employees.SortTotalTasks {
		t.Fatalf("expected default sort, got %s", summary.Sort)
	}
	if !summary.GeneratedAt.Equal(now) {
		t.Fatalf("unexpected generation time %s", summary.GeneratedAt)
	}
}

func TestBuildSummarySortsByRequestedField(t *testing.T) {
	opts := DefaultOptions()
	opts.Sort = employees.SortPostponed
	summary := BuildSummary(sampleEmployees(), opts, time.Now())
	if summary.Employees[0].Name != "Bob" {
		t.Fatalf("expected Bob first, got %s", summary.Employees[0].Name)
	}
}

func TestBuildSummaryEmpty(t *testing.T) {
	summary := BuildSummary(nil, DefaultOptions(), time.Now())
	if summary.DelayedPercent != 0 || summary.Top == nil || summary.Employees == nil {
		t.Fatalf("expected zeroed summary, got %+v", summary)
	}
}

func TestWriteText(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleEmployees(), 10); err != nil {
		t.Fatalf("write text: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Employees: 2",
		"Delayed: 2 (8.0%)",
		"Postponed: 1 (4.0%)",
		"Top 10 by task count:",
		" 1. Alice",
		"1.5 days",
		"Status distribution:",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in report:\n%s", want, out)
		}
	}
	if strings.Contains(out, "-0.5 days") {
		t.Fatal("negative deviations must not be listed")
	}
}

func TestWriteTextEmpty(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	if err := WriteText(&buf, nil, 10); err != nil {
		t.Fatalf("write text: %v", err)
	}
	if !strings.Contains(buf.String(), "Delayed: 0 (0.0%)") {
		t.Fatalf("expected guarded percentage, got:\n%s", buf.String())
	}
}

type failingWriter struct {
	writes int
}

func (f *failingWriter) Write(p []byte) (int, error) {
	f.writes++
	return 0, errors.New("disk full")
}

func TestWriteTextReportsWriteError(t *testing.T) {
	color.NoColor = true
	out := &failingWriter{}
	err := WriteText(out, sampleEmployees(), 10)
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected write error, got %v", err)
	}
	if out.writes != 1 {
		t.Fatalf("expected writing to stop after the first failure, got %d writes", out.writes)
	}
}

func TestWritePDF(t *testing.T) {
	summary := BuildSummary(sampleEmployees(), DefaultOptions(), time.Now())
	var buf bytes.Buffer
	if err := WritePDF(&buf, summary, PDFOptions{}); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatal("expected pdf header")
	}
}

func TestWritePDFMissingFont(t *testing.T) {
	summary := BuildSummary(nil, DefaultOptions(), time.Now())
	err := WritePDF(&bytes.Buffer{}, summary, PDFOptions{FontPath: "/nonexistent/font.ttf"})
	if err == nil {
		t.Fatal("expected font error")
	}
}
