package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"teamstats/internal/domain/dashboard"
	"teamstats/internal/platform/breaker"
	"teamstats/internal/platform/config"
	"teamstats/internal/platform/employeeapi"
	"teamstats/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Load()
	var (
		apiURL  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Interactive terminal dashboard over the employee API",
		Long: `Fetch per-employee statistics from GET {api}/api/employees and browse them:
top performers, sortable table, side-by-side comparison and task details.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := employeeapi.New(employeeapi.Options{
				BaseURL: apiURL,
				Timeout: timeout,
				Breaker: &breaker.Settings{
					Failures: uint32(cfg.BreakerFailures),
					Timeout:  cfg.BreakerTimeout,
				},
			})
			if err != nil {
				return err
			}

			// Log lines would corrupt the alternate screen.
			slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			model := tui.New(ctx, client, dashboard.Options{
				MinTasks:        cfg.TopMinTasks,
				TopLimit:        cfg.TopLimit,
				DetailTaskLimit: cfg.DetailTaskLimit,
			})
			if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
				return fmt.Errorf("run dashboard: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&apiURL, "api", cfg.EmployeeAPIURL, "employee API base URL (default $EMPLOYEE_API_URL)")
	cmd.Flags().DurationVar(&timeout, "timeout", cfg.APITimeout, "request timeout")
	return cmd
}
