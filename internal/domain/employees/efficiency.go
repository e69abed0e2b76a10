package employees

// ComputeEfficiency scores an employee as completion percentage minus delay percentage, floored at zero.
// Every field is zero when the employee has no tasks.
func ComputeEfficiency(e Employee) Efficiency {
	if e.TotalTasks <= 0 {
		return Efficiency{}
	}
	completed := CompletedTasks(e)
	completedRate := Percent(completed, e.TotalTasks)
	delayRate := Percent(e.Delayed, e.TotalTasks)
	return Efficiency{
		Score:         max(0, completedRate-delayRate),
		Completed:     completed,
		CompletedRate: completedRate,
		DelayRate:     delayRate,
	}
}

// CompletedTasks counts tasks whose status carries a completed marker, even when it also carries another one.
func CompletedTasks(e Employee) int {
	completed := 0
	for _, task := range e.Tasks {
		if Matches(task.Status, StatusCompleted) {
			completed++
		}
	}
	return completed
}

func CompletionRate(e Employee) float64 {
	return Percent(CompletedTasks(e), e.TotalTasks)
}

func DelayPercentage(e Employee) float64 {
	return Percent(e.Delayed, e.TotalTasks)
}

func PostponedPercentage(e Employee) float64 {
	return Percent(e.Postponed, e.TotalTasks)
}

// Percent returns 100*part/whole, or 0 when whole is not positive.
func Percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) * 100 / float64(whole)
}
