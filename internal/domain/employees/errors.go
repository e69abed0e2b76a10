package employees

import "errors"

var (
	ErrUnknownSortField = errors.New("unknown sort field")
	ErrEmployeeNotFound = errors.New("employee not found")
)
