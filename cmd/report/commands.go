package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"teamstats/internal/domain/employees"
	"teamstats/internal/domain/reports"
	"teamstats/internal/platform/config"
	"teamstats/internal/platform/sheets"
)

const defaultReportLimit = 10

type reportFlags struct {
	source   string
	limit    int
	timeout  time.Duration
	fontPath string
}

func newRootCmd() *cobra.Command {
	cfg := config.Load()
	flags := &reportFlags{
		source:   cfg.SourceURL,
		limit:    defaultReportLimit,
		timeout:  cfg.SourceTimeout,
		fontPath: cfg.PDFFontPath,
	}

	root := &cobra.Command{
		Use:   "report",
		Short: "Print employee task analytics from the task sheet",
		Long: `Load the task sheet export, aggregate it per employee and print the
analytics report.

Examples:
  report --source ./tasks.csv
  report text --limit 5
  report pdf --out employees.pdf`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runText(cmd, flags)
		},
	}
	root.PersistentFlags().StringVar(&flags.source, "source", flags.source, "CSV export URL or file path (default $SOURCE_URL)")
	root.PersistentFlags().IntVar(&flags.limit, "limit", flags.limit, "entries per top list")
	root.PersistentFlags().DurationVar(&flags.timeout, "timeout", flags.timeout, "sheet request timeout")

	root.AddCommand(&cobra.Command{
		Use:   "text",
		Short: "Print the report to stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runText(cmd, flags)
		},
	})

	var out string
	pdfCmd := &cobra.Command{
		Use:   "pdf",
		Short: "Write the report as a PDF document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPDF(cmd, flags, out)
		},
	}
	pdfCmd.Flags().StringVarP(&out, "out", "o", "employees.pdf", "output file")
	pdfCmd.Flags().StringVar(&flags.fontPath, "font", flags.fontPath, "UTF-8 TrueType font for non-Latin names (default $PDF_FONT_PATH)")
	root.AddCommand(pdfCmd)

	return root
}

func loadEmployees(ctx context.Context, flags *reportFlags) ([]employees.Employee, error) {
	if flags.source == "" {
		return nil, fmt.Errorf("no sheet source: set --source or SOURCE_URL")
	}
	if flags.limit <= 0 {
		return nil, fmt.Errorf("--limit must be positive")
	}
	source := sheets.New(sheets.Options{Location: flags.source, Timeout: flags.timeout})
	list, err := source.Employees(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sheet: %w", err)
	}
	return list, nil
}

func runText(cmd *cobra.Command, flags *reportFlags) error {
	list, err := loadEmployees(cmd.Context(), flags)
	if err != nil {
		return err
	}
	return reports.WriteText(cmd.OutOrStdout(), list, flags.limit)
}

func runPDF(cmd *cobra.Command, flags *reportFlags, out string) error {
	list, err := loadEmployees(cmd.Context(), flags)
	if err != nil {
		return err
	}
	summary := reports.BuildSummary(list, reports.DefaultOptions(), time.Now())

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := reports.WritePDF(f, summary, reports.PDFOptions{FontPath: flags.fontPath, Limit: flags.limit}); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", out, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s (%d employees)\n", out, summary.EmployeeCount)
	return nil
}
