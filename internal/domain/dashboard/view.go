package dashboard

import (
	"teamstats/internal/domain/employees"
)

type Options struct {
	MinTasks        int
	TopLimit        int
	DetailTaskLimit int
}

func DefaultOptions() Options {
	return Options{
		MinTasks:        employees.DefaultMinTasks,
		TopLimit:        employees.DefaultTopLimit,
		DetailTaskLimit: employees.DefaultDetailTaskLimit,
	}
}

type View struct {
	Phase            Phase
	Err              string
	EmployeeCount    int
	Totals           employees.Totals
	DelayedPercent   float64
	PostponedPercent float64
	Top              []employees.Ranked
	Sort             employees.SortField
	SortOptions      []SortOption
	Rows             []Row
	Compare          []CompareEntry
	CompareNames     []string
	AwaitingSecond   bool
	Detail           *DetailView
}

type SortOption struct {
	Field    employees.SortField
	Label    string
	Selected bool
}

type Row struct {
	Index            int
	Rank             int
	Employee         employees.Employee
	DelayPercent     float64
	ShowDelayPercent bool
	Compared         bool
	Open             bool
}

type CompareEntry struct {
	Employee   employees.Employee
	Efficiency employees.Efficiency
	Recent     []employees.Task
}

type DetailView struct {
	Employee  employees.Employee
	TaskCount int
	Tasks     []TaskView
	Truncated bool
}

type TaskView struct {
	employees.Task
	Kind        employees.Status
	HasDeadline bool
}

// Build derives everything the dashboard renders from s.
func Build(s State, opts Options) View {
	if opts.DetailTaskLimit <= 0 {
		opts.DetailTaskLimit = employees.DefaultDetailTaskLimit
	}

	totals := employees.AggregateTotals(s.Employees)
	v := View{
		Phase:            s.Phase,
		Err:              s.Err,
		EmployeeCount:    len(s.Employees),
		Totals:           totals,
		DelayedPercent:   employees.Percent(totals.Delayed, totals.Tasks),
		PostponedPercent: employees.Percent(totals.Postponed, totals.Tasks),
		Top:              employees.TopByEfficiency(s.Employees, opts.MinTasks, opts.TopLimit),
		Sort:             s.Sort,
		CompareNames:     s.Compare.Names(),
		AwaitingSecond:   s.Compare.Len() == 1,
	}

	for _, field := range employees.SortFields() {
		v.SortOptions = append(v.SortOptions, SortOption{Field: field, Label: field.Label(), Selected: field == s.Sort})
	}

	ranks := map[string]int{}
	for _, r := range employees.RankByDeviation(s.Employees) {
		ranks[r.Employee.Name] = r.Rank
	}

	for i, e := range employees.SortBy(s.Employees, s.Sort) {
		v.Rows = append(v.Rows, Row{
			Index:            i + 1,
			Rank:             ranks[e.Name],
			Employee:         e,
			DelayPercent:     employees.DelayPercentage(e),
			ShowDelayPercent: e.Delayed > 0 && e.TotalTasks > 0,
			Compared:         s.Compare.Contains(e.Name),
			Open:             s.Detail == e.Name,
		})
	}

	for _, name := range s.Compare.Names() {
		e, err := employees.Find(s.Employees, name)
		if err != nil {
			continue
		}
		v.Compare = append(v.Compare, CompareEntry{
			Employee:   e,
			Efficiency: employees.ComputeEfficiency(e),
			Recent:     firstTasks(e.Tasks, employees.RecentTaskLimit),
		})
	}

	if s.Detail != "" {
		if e, err := employees.Find(s.Employees, s.Detail); err == nil {
			detail := NewDetailView(e, opts.DetailTaskLimit)
			v.Detail = &detail
		}
	}
	return v
}

// NewDetailView lists at most limit tasks of e.
func NewDetailView(e employees.Employee, limit int) DetailView {
	tasks := firstTasks(e.Tasks, limit)
	views := make([]TaskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, TaskView{Task: task, Kind: task.Kind(), HasDeadline: task.HasDeadline()})
	}
	return DetailView{
		Employee:  e,
		TaskCount: len(e.Tasks),
		Tasks:     views,
		Truncated: len(e.Tasks) > len(views),
	}
}

func firstTasks(tasks []employees.Task, limit int) []employees.Task {
	if limit < 0 {
		limit = 0
	}
	if len(tasks) > limit {
		return tasks[:limit]
	}
	return tasks
}
