package reports

import (
	"time"

	"teamstats/internal/domain/employees"
)

type Options struct {
	Sort     employees.SortField
	MinTasks int
	TopLimit int
}

func DefaultOptions() Options {
	return Options{
		Sort:     employees.DefaultSortField,
		MinTasks: employees.DefaultMinTasks,
		TopLimit: employees.DefaultTopLimit,
	}
}

type Summary struct {
	EmployeeCount    int                     `json:"employeeCount"`
	Totals           employees.Totals        `json:"totals"`
	DelayedPercent   float64                 `json:"delayedPercent"`
	PostponedPercent float64                 `json:"postponedPercent"`
	Top              []TopLine               `json:"top"`
	Sort             employees.SortField     `json:"sort"`
	Employees        []EmployeeLine          `json:"employees"`
	Statuses         []employees.StatusCount `json:"statuses"`
	GeneratedAt      time.Time               `json:"generatedAt"`
}

type TopLine struct {
	Rank       int                  `json:"rank"`
	Name       string               `json:"name"`
	TotalTasks int                  `json:"totalTasks"`
	Delayed    int                  `json:"delayed"`
	Efficiency employees.Efficiency `json:"efficiency"`
}

type EmployeeLine struct {
	Name         string  `json:"name"`
	TotalTasks   int     `json:"totalTasks"`
	Delayed      int     `json:"delayed"`
	Postponed    int     `json:"postponed"`
	AvgDeviation float64 `json:"avgDeviation"`
	DelayPercent float64 `json:"delayPercent"`
	Completed    int     `json:"completed"`
}

// BuildSummary projects the employee list into the dashboard summary. It never mutates list.
func BuildSummary(list []employees.Employee, opts Options, now time.Time) Summary {
	if opts.Sort == "" {
		opts.Sort = employees.DefaultSortField
	}
	totals := employees.AggregateTotals(list)
	summary := Summary{
		EmployeeCount:    len(list),
		Totals:           totals,
		DelayedPercent:   employees.Percent(totals.Delayed, totals.Tasks),
		PostponedPercent: employees.Percent(totals.Postponed, totals.Tasks),
		Top:              []TopLine{},
		Sort:             opts.Sort,
		Employees:        EmployeeLines(employees.SortBy(list, opts.Sort)),
		Statuses:         employees.StatusDistribution(list),
		GeneratedAt:      now.UTC(),
	}
	for _, r := range employees.TopByEfficiency(list, opts.MinTasks, opts.TopLimit) {
		summary.Top = append(summary.Top, TopLine{
			Rank:       r.Rank,
			Name:       r.Employee.Name,
			TotalTasks: r.Employee.TotalTasks,
			Delayed:    r.Employee.Delayed,
			Efficiency: r.Efficiency,
		})
	}
	return summary
}

func EmployeeLines(list []employees.Employee) []EmployeeLine {
	lines := make([]EmployeeLine, 0, len(list))
	for _, e := range list {
		lines = append(lines, EmployeeLine{
			Name:         e.Name,
			TotalTasks:   e.TotalTasks,
			Delayed:      e.Delayed,
			Postponed:    e.Postponed,
			AvgDeviation: e.AvgDeviation,
			DelayPercent: employees.DelayPercentage(e),
			Completed:    employees.CompletedTasks(e),
		})
	}
	return lines
}
