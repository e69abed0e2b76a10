package dashboard

import (
	"context"

	"teamstats/internal/domain/employees"
)

type Fetcher interface {
	Employees(ctx context.Context) ([]employees.Employee, error)
}

// Load runs one synchronous fetch cycle. Calling it again on a failed state is the retry.
func Load(ctx context.Context, s State, f Fetcher) State {
	s = Reduce(s, LoadRequested{})
	generation := s.Generation
	list, err := f.Employees(ctx)
	if err != nil {
		return Reduce(s, LoadFailed{Generation: generation, Err: err})
	}
	return Reduce(s, LoadSucceeded{Generation: generation, Employees: list})
}
