package employees

import "strings"

type Employee struct {
	Name         string  `json:"name"`
	TotalTasks   int     `json:"total_tasks"`
	Delayed      int     `json:"delayed"`
	Postponed    int     `json:"postponed"`
	AvgDeviation float64 `json:"avg_deviation"`
	Tasks        []Task  `json:"tasks"`
}

type Task struct {
	Name      string `json:"name,omitempty"`
	Task      string `json:"task"`
	Status    string `json:"status"`
	Deadline  string `json:"deadline"`
	Deviation string `json:"deviation"`
	Link      string `json:"link,omitempty"`
}

// Kind maps the free-text status onto the closed Status enumeration.
func (t Task) Kind() Status {
	return ParseStatus(t.Status)
}

// HasDeadline reports whether the deviation carries a value rather than the no-deadline sentinel.
func (t Task) HasDeadline() bool {
	deviation := strings.TrimSpace(t.Deviation)
	return deviation != "" && deviation != NoDeadline
}

type Efficiency struct {
	Score         float64 `json:"score"`
	Completed     int     `json:"completed"`
	CompletedRate float64 `json:"completedRate"`
	DelayRate     float64 `json:"delayRate"`
}

type Ranked struct {
	Employee   Employee   `json:"employee"`
	Efficiency Efficiency `json:"efficiency"`
	Rank       int        `json:"rank"`
}

type Totals struct {
	Tasks     int `json:"tasks"`
	Delayed   int `json:"delayed"`
	Postponed int `json:"postponed"`
}

// Add returns the field-wise sum of two totals.
func (t Totals) Add(other Totals) Totals {
	return Totals{
		Tasks:     t.Tasks + other.Tasks,
		Delayed:   t.Delayed + other.Delayed,
		Postponed: t.Postponed + other.Postponed,
	}
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// Row is one record of the upstream sheet, keyed by column header.
type Row map[string]string
