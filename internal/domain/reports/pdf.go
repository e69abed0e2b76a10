package reports

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
)

const utf8Family = "report"

// PDFOptions configures the PDF export. FontPath points at a UTF-8 TrueType font; without it the core
// Helvetica font is used and characters outside cp1252 are replaced.
type PDFOptions struct {
	FontPath string
	Limit    int
}

type pdfWriter struct {
	pdf       *gofpdf.Fpdf
	family    string
	unicode   bool
	translate func(string) string
}

func newPDFWriter(opts PDFOptions) *pdfWriter {
	fontDir := ""
	if opts.FontPath != "" {
		fontDir = filepath.Dir(opts.FontPath)
	}
	pdf := gofpdf.New("P", "mm", "A4", fontDir)
	w := &pdfWriter{pdf: pdf, family: "Helvetica", translate: func(s string) string { return s }}
	if opts.FontPath != "" {
		pdf.AddUTF8Font(utf8Family, "", filepath.Base(opts.FontPath))
		w.family = utf8Family
		w.unicode = true
	} else {
		w.translate = pdf.UnicodeTranslatorFromDescriptor("")
	}
	return w
}

func (w *pdfWriter) font(bold bool, size float64) {
	style := ""
	if bold && !w.unicode {
		style = "B"
	}
	w.pdf.SetFont(w.family, style, size)
}

func (w *pdfWriter) text(width, height float64, s string) {
	w.pdf.Cell(width, height, w.translate(s))
}

func (w *pdfWriter) row(cells []string, widths []float64, header bool) {
	if header {
		w.pdf.SetFillColor(230, 230, 230)
	}
	for i, c := range cells {
		align := "L"
		if i > 0 {
			align = "R"
		}
		w.pdf.CellFormat(widths[i], 7, w.translate(c), "1", 0, align, header, 0, "")
	}
	w.pdf.Ln(-1)
}

// WritePDF renders the summary as an A4 report.
func WritePDF(out io.Writer, summary Summary, opts PDFOptions) error {
	w := newPDFWriter(opts)
	if err := w.pdf.Error(); err != nil {
		return fmt.Errorf("load report font: %w", err)
	}
	w.pdf.AddPage()

	w.font(true, 16)
	w.text(0, 10, "Employee analytics")
	w.pdf.Ln(12)

	w.font(false, 10)
	w.text(0, 6, fmt.Sprintf("Generated: %s", summary.GeneratedAt.Format("2006-01-02 15:04 MST")))
	w.pdf.Ln(6)
	w.text(0, 6, fmt.Sprintf("Employees: %d", summary.EmployeeCount))
	w.pdf.Ln(6)
	w.text(0, 6, fmt.Sprintf("Tasks: %d", summary.Totals.Tasks))
	w.pdf.Ln(6)
	w.text(0, 6, fmt.Sprintf("Delayed: %d (%.1f%%)", summary.Totals.Delayed, summary.DelayedPercent))
	w.pdf.Ln(6)
	w.text(0, 6, fmt.Sprintf("Postponed: %d (%.1f%%)", summary.Totals.Postponed, summary.PostponedPercent))
	w.pdf.Ln(10)

	w.font(true, 12)
	w.text(0, 8, "Top performers")
	w.pdf.Ln(9)
	w.font(false, 10)
	if len(summary.Top) == 0 {
		w.text(0, 6, "No employee qualifies yet.")
		w.pdf.Ln(6)
	}
	for _, t := range summary.Top {
		w.text(0, 6, fmt.Sprintf("%d. %s: score %.1f, completed %.1f%%, delayed %.1f%%",
			t.Rank, t.Name, t.Efficiency.Score, t.Efficiency.CompletedRate, t.Efficiency.DelayRate))
		w.pdf.Ln(6)
	}
	w.pdf.Ln(4)

	w.font(true, 12)
	w.text(0, 8, fmt.Sprintf("Employees by %s", summary.Sort.Label()))
	w.pdf.Ln(9)
	widths := []float64{70, 24, 24, 24, 24, 24}
	w.font(true, 9)
	w.row([]string{"Name", "Tasks", "Delayed", "Postponed", "Avg dev.", "Delay %"}, widths, true)
	w.font(false, 9)
	lines := summary.Employees
	if opts.Limit > 0 && len(lines) > opts.Limit {
		lines = lines[:opts.Limit]
	}
	for _, e := range lines {
		w.row([]string{
			e.Name,
			fmt.Sprintf("%d", e.TotalTasks),
			fmt.Sprintf("%d", e.Delayed),
			fmt.Sprintf("%d", e.Postponed),
			fmt.Sprintf("%.1f", e.AvgDeviation),
			fmt.Sprintf("%.1f", e.DelayPercent),
		}, widths, false)
	}

	if len(summary.Statuses) > 0 {
		w.pdf.Ln(6)
		w.font(true, 12)
		w.text(0, 8, "Status distribution")
		w.pdf.Ln(9)
		w.font(false, 10)
		for _, s := range summary.Statuses {
			w.text(0, 6, fmt.Sprintf("%s: %d", s.Status, s.Count))
			w.pdf.Ln(6)
		}
	}

	if err := w.pdf.Output(out); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
