package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"teamstats/internal/domain/dashboard"
	"teamstats/internal/domain/employees"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	sectionStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	lateStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	postStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
)

const (
	helpText    = "↑/↓ move · s sort · c compare · x clear · enter tasks · esc close · r refresh · q quit"
	nameWidth   = 28
	statusWidth = 12
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("📊 Employee analytics"))
	b.WriteString("\n")

	switch m.state.Phase {
	case dashboard.PhaseLoading, dashboard.PhaseIdle:
		if len(m.state.Employees) == 0 {
			fmt.Fprintf(&b, "\n%s Loading data...\n", m.spinner.View())
			return b.String()
		}
		fmt.Fprintf(&b, "%s Refreshing...\n", m.spinner.View())
	case dashboard.PhaseFailed:
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.state.Err))
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("Press r to retry, q to quit"))
		b.WriteString("\n")
		return b.String()
	}

	v := dashboard.Build(m.state, m.opts)
	m.writeStats(&b, v)
	m.writeTop(&b, v)
	m.writeCompare(&b, v)
	m.writeTable(&b, v)
	m.writeDetail(&b, v)

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(helpText))
	b.WriteString("\n")
	return b.String()
}

func (m Model) writeStats(b *strings.Builder, v dashboard.View) {
	fmt.Fprintf(b, "\nEmployees: %d   Tasks: %d   %s   %s\n",
		v.EmployeeCount,
		v.Totals.Tasks,
		lateStyle.Render(fmt.Sprintf("Delayed: %d (%.1f%%)", v.Totals.Delayed, v.DelayedPercent)),
		postStyle.Render(fmt.Sprintf("Postponed: %d (%.1f%%)", v.Totals.Postponed, v.PostponedPercent)),
	)
}

func (m Model) writeTop(b *strings.Builder, v dashboard.View) {
	if len(v.Top) == 0 {
		return
	}
	b.WriteString(sectionStyle.Render(fmt.Sprintf("🏆 Top by efficiency (at least %d tasks)", m.opts.MinTasks)))
	b.WriteString("\n")
	for _, r := range v.Top {
		fmt.Fprintf(b, "%2d. %-*s %5.1f%%  done %d (%.1f%%)  delayed %d (%.1f%%)\n",
			r.Rank, nameWidth, r.Employee.Name, r.Efficiency.Score,
			r.Efficiency.Completed, r.Efficiency.CompletedRate,
			r.Employee.Delayed, r.Efficiency.DelayRate)
	}
}

func (m Model) writeCompare(b *strings.Builder, v dashboard.View) {
	if len(v.CompareNames) == 0 {
		return
	}
	b.WriteString(sectionStyle.Render("⚖️  Comparison"))
	b.WriteString("\n")
	if v.AwaitingSecond {
		b.WriteString(mutedStyle.Render("Select a second employee to compare"))
		b.WriteString("\n")
	}
	cards := make([]string, 0, len(v.Compare))
	for _, c := range v.Compare {
		lines := []string{
			lipgloss.NewStyle().Bold(true).Render(c.Employee.Name),
			fmt.Sprintf("Tasks:      %d", c.Employee.TotalTasks),
			fmt.Sprintf("Delayed:    %d", c.Employee.Delayed),
			fmt.Sprintf("Postponed:  %d", c.Employee.Postponed),
			fmt.Sprintf("Avg dev.:   %.1f days", c.Employee.AvgDeviation),
			fmt.Sprintf("Efficiency: %.1f%%", c.Efficiency.Score),
		}
		for _, task := range c.Recent {
			lines = append(lines, mutedStyle.Render("• "+task.Task))
		}
		cards = append(cards, cardStyle.Render(strings.Join(lines, "\n")))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n")
}

func (m Model) writeTable(b *strings.Builder, v dashboard.View) {
	b.WriteString(sectionStyle.Render("Sort: " + v.Sort.Label()))
	b.WriteString("\n")
	fmt.Fprintf(b, "   %-4s %-5s %-*s %6s %8s %9s %8s\n", "#", "Rank", nameWidth, "Employee", "Tasks", "Delayed", "Postponed", "Avg dev")
	if len(v.Rows) == 0 {
		b.WriteString(mutedStyle.Render("   No data"))
		b.WriteString("\n")
		return
	}
	for i, row := range v.Rows {
		cursor, marker := " ", " "
		if i == m.cursor {
			cursor = "›"
		}
		if row.Compared {
			marker = "✓"
		}
		delayed := fmt.Sprintf("%d", row.Employee.Delayed)
		if row.ShowDelayPercent {
			delayed = fmt.Sprintf("%d (%.0f%%)", row.Employee.Delayed, row.DelayPercent)
		}
		line := fmt.Sprintf("%s%s %-4d %-5d %-*s %6d %8s %9d %8.1f",
			cursor, marker, row.Index, row.Rank, nameWidth, truncate(row.Employee.Name, nameWidth),
			row.Employee.TotalTasks, delayed, row.Employee.Postponed, row.Employee.AvgDeviation)
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func (m Model) writeDetail(b *strings.Builder, v dashboard.View) {
	d := v.Detail
	if d == nil {
		return
	}
	b.WriteString(sectionStyle.Render(fmt.Sprintf("Tasks of %s (%d)", d.Employee.Name, d.TaskCount)))
	b.WriteString("\n")
	for _, task := range d.Tasks {
		status := fmt.Sprintf("%-*s", statusWidth, task.Status)
		switch task.Kind {
		case employees.StatusOverdue:
			status = lateStyle.Render(status)
		case employees.StatusPostponed:
			status = postStyle.Render(status)
		}
		line := fmt.Sprintf("  %s %s", status, task.Task.Task)
		if task.Deadline != "" {
			line += mutedStyle.Render("  due " + task.Deadline)
		}
		if task.HasDeadline {
			line += mutedStyle.Render("  deviation " + task.Deviation)
		}
		if task.Link != "" {
			line += mutedStyle.Render("  " + task.Link)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if d.Truncated {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  showing first %d of %d", len(d.Tasks), d.TaskCount)))
		b.WriteString("\n")
	}
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
