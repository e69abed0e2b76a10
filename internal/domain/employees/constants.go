package employees

const (
	DefaultMinTasks        = 10
	DefaultTopLimit        = 3
	DefaultDetailTaskLimit = 50
	RecentTaskLimit        = 3

	// NoDeadline is the deviation value the sheet uses for tasks without a deadline.
	NoDeadline = "Нет срока"

	ColumnEmployee  = "Фио сотрудника"
	ColumnTask      = "название задачи"
	ColumnStatus    = "статус"
	ColumnDeadline  = "срок"
	ColumnDeviation = "отклонение"
	ColumnLink      = "Ссылка"
)
