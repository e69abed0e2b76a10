package employees

import (
	"math"
	"strconv"
	"strings"
)

type accumulator struct {
	employee   Employee
	deviations []float64
}

// BuildStats groups sheet rows by employee in first-seen order. Rows without an employee name are skipped.
// The average deviation only covers numeric deviation cells and is rounded to one decimal.
func BuildStats(rows []Row) []Employee {
	order := []string{}
	byName := map[string]*accumulator{}

	for _, row := range rows {
		name := strings.TrimSpace(row[ColumnEmployee])
		if name == "" {
			continue
		}
		acc, ok := byName[name]
		if !ok {
			acc = &accumulator{employee: Employee{Name: name, Tasks: []Task{}}}
			byName[name] = acc
			order = append(order, name)
		}

		status := row[ColumnStatus]
		acc.employee.TotalTasks++
		if Matches(status, StatusOverdue) {
			acc.employee.Delayed++
		}
		if Matches(status, StatusPostponed) {
			acc.employee.Postponed++
		}

		deviation := row[ColumnDeviation]
		if value, ok := parseDeviation(deviation); ok {
			acc.deviations = append(acc.deviations, value)
		}

		acc.employee.Tasks = append(acc.employee.Tasks, Task{
			Name:      name,
			Task:      row[ColumnTask],
			Status:    status,
			Deadline:  row[ColumnDeadline],
			Deviation: deviation,
			Link:      row[ColumnLink],
		})
	}

	out := make([]Employee, 0, len(order))
	for _, name := range order {
		acc := byName[name]
		acc.employee.AvgDeviation = roundTenth(mean(acc.deviations))
		out = append(out, acc.employee)
	}
	return out
}

func parseDeviation(raw string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// roundTenth rounds to one decimal, ties to even.
func roundTenth(value float64) float64 {
	return math.RoundToEven(value*10) / 10
}
