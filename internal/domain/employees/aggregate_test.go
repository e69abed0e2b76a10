package employees_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamstats/internal/domain/employees"
)

func row(name, task, status, deviation string) employees.Row {
	return employees.Row{
		employees.ColumnEmployee:  name,
		employees.ColumnTask:      task,
		employees.ColumnStatus:    status,
		employees.ColumnDeadline:  "01.02.2025",
		employees.ColumnDeviation: deviation,
		employees.ColumnLink:      "https://tracker.example/" + task,
	}
}

func TestBuildStatsGroupsInFirstSeenOrder(t *testing.T) {
	rows := []employees.Row{
		row("Иванов", "t1", "Просрочена", "3"),
		row(" Петров ", "t2", "Завершена", "Нет срока"),
		row("Иванов", "t3", "ОТЛОЖЕНА", "-1"),
		row("", "orphan", "Завершена", "1"),
		row("Иванов", "t4", "Завершена", "abc"),
	}

	stats := employees.BuildStats(rows)
	require.Len(t, stats, 2)

	ivanov := stats[0]
	assert.Equal(t, "Иванов", ivanov.Name)
	assert.Equal(t, 3, ivanov.TotalTasks)
	assert.Equal(t, 1, ivanov.Delayed)
	assert.Equal(t, 1, ivanov.Postponed)
	assert.Equal(t, 1.0, ivanov.AvgDeviation)
	require.Len(t, ivanov.Tasks, 3)
	assert.Equal(t, "t1", ivanov.Tasks[0].Task)
	assert.Equal(t, "Иванов", ivanov.Tasks[0].Name)
	assert.Equal(t, "https://tracker.example/t1", ivanov.Tasks[0].Link)

	petrov := stats[1]
	assert.Equal(t, "Петров", petrov.Name)
	assert.Equal(t, 0.0, petrov.AvgDeviation)
	assert.Equal(t, employees.NoDeadline, petrov.Tasks[0].Deviation)
}

func TestBuildStatsRoundsAverageDeviation(t *testing.T) {
	rows := []employees.Row{
		row("a", "t1", "", "1"),
		row("a", "t2", "", "2"),
		row("a", "t3", "", "2"),
	}
	stats := employees.BuildStats(rows)
	require.Len(t, stats, 1)
	assert.Equal(t, 1.7, stats[0].AvgDeviation)
}

func TestBuildStatsRoundsTiesToEven(t *testing.T) {
	rows := []employees.Row{
		row("a", "t1", "", "2"),
		row("a", "t2", "", "2.5"),
	}
	stats := employees.BuildStats(rows)
	require.Len(t, stats, 1)
	assert.Equal(t, 2.2, stats[0].AvgDeviation)
}

func TestBuildStatsEmpty(t *testing.T) {
	stats := employees.BuildStats(nil)
	assert.NotNil(t, stats)
	assert.Empty(t, stats)
}
