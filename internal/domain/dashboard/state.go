package dashboard

import (
	"teamstats/internal/domain/employees"
)

type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "failed"
)

// State holds everything the dashboard displays. It is only changed through Reduce.
type State struct {
	Phase      Phase
	Employees  []employees.Employee
	Err        string
	Sort       employees.SortField
	Compare    ComparisonSet
	Detail     string
	Generation uint64
}

func NewState() State {
	return State{Phase: PhaseIdle, Sort: employees.DefaultSortField}
}

type Event interface {
	apply(State) State
}

// LoadRequested starts a load or refresh. Responses to earlier requests become stale.
type LoadRequested struct{}

type LoadSucceeded struct {
	Generation uint64
	Employees  []employees.Employee
}

type LoadFailed struct {
	Generation uint64
	Err        error
}

type SortChanged struct {
	Field employees.SortField
}

type CompareToggled struct {
	Name string
}

type CompareCleared struct{}

type DetailOpened struct {
	Name string
}

type DetailClosed struct{}

// Reduce returns the state that results from applying event to s.
func Reduce(s State, event Event) State {
	if event == nil {
		return s
	}
	return event.apply(s)
}

// ReduceAll folds events over s in order.
func ReduceAll(s State, events ...Event) State {
	for _, event := range events {
		s = Reduce(s, event)
	}
	return s
}

func (LoadRequested) apply(s State) State {
	s.Phase = PhaseLoading
	s.Generation++
	return s
}

func (e LoadSucceeded) apply(s State) State {
	if e.Generation != s.Generation {
		return s
	}
	list := e.Employees
	if list == nil {
		list = []employees.Employee{}
	}
	s.Employees = list
	s.Err = ""
	s.Phase = PhaseReady

	known := make(map[string]struct{}, len(list))
	for _, emp := range list {
		known[emp.Name] = struct{}{}
	}
	s.Compare = s.Compare.Retain(func(name string) bool {
		_, ok := known[name]
		return ok
	})
	if _, ok := known[s.Detail]; !ok {
		s.Detail = ""
	}
	return s
}

func (e LoadFailed) apply(s State) State {
	if e.Generation != s.Generation {
		return s
	}
	s.Phase = PhaseFailed
	s.Err = "failed to load data"
	if e.Err != nil {
		s.Err = e.Err.Error()
	}
	return s
}

func (e SortChanged) apply(s State) State {
	if e.Field == "" {
		return s
	}
	s.Sort = e.Field
	return s
}

func (e CompareToggled) apply(s State) State {
	if !s.Compare.Contains(e.Name) {
		if _, err := employees.Find(s.Employees, e.Name); err != nil {
			return s
		}
	}
	s.Compare = s.Compare.Toggle(e.Name)
	return s
}

func (CompareCleared) apply(s State) State {
	s.Compare = ComparisonSet{}
	return s
}

func (e DetailOpened) apply(s State) State {
	if _, err := employees.Find(s.Employees, e.Name); err != nil {
		return s
	}
	s.Detail = e.Name
	return s
}

func (DetailClosed) apply(s State) State {
	s.Detail = ""
	return s
}
