package employees

import (
	"fmt"
	"slices"
	"strings"
)

type SortField string

const (
	SortTotalTasks   SortField = "total_tasks"
	SortDelayed      SortField = "delayed"
	SortPostponed    SortField = "postponed"
	SortAvgDeviation SortField = "avg_deviation"

	DefaultSortField = SortTotalTasks
)

var sortFields = []SortField{SortTotalTasks, SortDelayed, SortPostponed, SortAvgDeviation}

func SortFields() []SortField {
	return slices.Clone(sortFields)
}

// ParseSortField maps a wire name to a SortField. An empty value selects DefaultSortField.
func ParseSortField(raw string) (SortField, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return DefaultSortField, nil
	}
	for _, field := range sortFields {
		if string(field) == value {
			return field, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortField, raw)
}

func (f SortField) Label() string {
	switch f {
	case SortDelayed:
		return "Delayed"
	case SortPostponed:
		return "Postponed"
	case SortAvgDeviation:
		return "Average deviation"
	default:
		return "Task count"
	}
}

// Next cycles through the sort fields in declaration order.
func (f SortField) Next() SortField {
	idx := slices.Index(sortFields, f)
	return sortFields[(idx+1)%len(sortFields)]
}

func (f SortField) value(e Employee) float64 {
	switch f {
	case SortDelayed:
		return float64(e.Delayed)
	case SortPostponed:
		return float64(e.Postponed)
	case SortAvgDeviation:
		return e.AvgDeviation
	default:
		return float64(e.TotalTasks)
	}
}

// SortBy returns a copy of employees ordered descending by field. Equal keys keep their input order.
func SortBy(employees []Employee, field SortField) []Employee {
	sorted := slices.Clone(employees)
	slices.SortStableFunc(sorted, func(a, b Employee) int {
		return compareDesc(field.value(a), field.value(b))
	})
	return sorted
}

// TopByEfficiency ranks employees with at least minTasks tasks by efficiency score, best first.
// Equal scores keep their input order.
func TopByEfficiency(employees []Employee, minTasks, limit int) []Ranked {
	if limit <= 0 {
		return []Ranked{}
	}
	ranked := make([]Ranked, 0, len(employees))
	for _, e := range employees {
		if e.TotalTasks < minTasks {
			continue
		}
		ranked = append(ranked, Ranked{Employee: e, Efficiency: ComputeEfficiency(e)})
	}
	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		return compareDesc(a.Efficiency.Score, b.Efficiency.Score)
	})
	return numbered(truncate(ranked, limit))
}

// TopBy returns the first limit employees ordered by field.
func TopBy(employees []Employee, field SortField, limit int) []Employee {
	return truncate(SortBy(employees, field), limit)
}

// TopByPositiveDeviation lists employees running late on average, the latest first.
func TopByPositiveDeviation(employees []Employee, limit int) []Employee {
	late := make([]Employee, 0, len(employees))
	for _, e := range employees {
		if e.AvgDeviation > 0 {
			late = append(late, e)
		}
	}
	return TopBy(late, SortAvgDeviation, limit)
}

// RankByDeviation orders employees by ascending average deviation and numbers them from 1.
func RankByDeviation(employees []Employee) []Ranked {
	sorted := slices.Clone(employees)
	slices.SortStableFunc(sorted, func(a, b Employee) int {
		return compareDesc(b.AvgDeviation, a.AvgDeviation)
	})
	ranked := make([]Ranked, 0, len(sorted))
	for _, e := range sorted {
		ranked = append(ranked, Ranked{Employee: e, Efficiency: ComputeEfficiency(e)})
	}
	return numbered(ranked)
}

func AggregateTotals(employees []Employee) Totals {
	var totals Totals
	for _, e := range employees {
		totals = totals.Add(Totals{Tasks: e.TotalTasks, Delayed: e.Delayed, Postponed: e.Postponed})
	}
	return totals
}

// StatusDistribution counts raw status strings across all tasks, most common first.
// Ties keep the order in which statuses first appear.
func StatusDistribution(employees []Employee) []StatusCount {
	index := map[string]int{}
	counts := []StatusCount{}
	for _, e := range employees {
		for _, task := range e.Tasks {
			status := strings.TrimSpace(task.Status)
			if status == "" {
				continue
			}
			if i, ok := index[status]; ok {
				counts[i].Count++
				continue
			}
			index[status] = len(counts)
			counts = append(counts, StatusCount{Status: status, Count: 1})
		}
	}
	slices.SortStableFunc(counts, func(a, b StatusCount) int {
		return b.Count - a.Count
	})
	return counts
}

// Find returns the employee with the given name.
func Find(employees []Employee, name string) (Employee, error) {
	for _, e := range employees {
		if e.Name == name {
			return e, nil
		}
	}
	return Employee{}, fmt.Errorf("%w: %q", ErrEmployeeNotFound, name)
}

func compareDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

func truncate[T any](items []T, limit int) []T {
	if limit < 0 {
		limit = 0
	}
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

func numbered(ranked []Ranked) []Ranked {
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
