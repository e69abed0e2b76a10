package dashboardhandler

import (
	"net/url"

	"teamstats/internal/domain/dashboard"
	"teamstats/internal/domain/employees"
)

// Links builds dashboard URLs that carry the sort, comparison and detail selection.
type Links struct {
	path    string
	sort    employees.SortField
	compare dashboard.ComparisonSet
	detail  string
}

func newLinks(path string, s dashboard.State) Links {
	return Links{path: path, sort: s.Sort, compare: s.Compare, detail: s.Detail}
}

func (l Links) build(sort employees.SortField, compare dashboard.ComparisonSet, detail string) string {
	query := url.Values{}
	if sort != "" && sort != employees.DefaultSortField {
		query.Set("sort", string(sort))
	}
	for _, name := range compare.Names() {
		query.Add("compare", name)
	}
	if detail != "" {
		query.Set("detail", detail)
	}
	if len(query) == 0 {
		return l.path
	}
	return l.path + "?" + query.Encode()
}

func (l Links) Self() string {
	return l.build(l.sort, l.compare, l.detail)
}

func (l Links) Sort(field employees.SortField) string {
	return l.build(field, l.compare, l.detail)
}

func (l Links) Toggle(name string) string {
	return l.build(l.sort, l.compare.Toggle(name), l.detail)
}

func (l Links) ClearCompare() string {
	return l.build(l.sort, dashboard.ComparisonSet{}, l.detail)
}

func (l Links) Detail(name string) string {
	return l.build(l.sort, l.compare, name)
}

func (l Links) CloseDetail() string {
	return l.build(l.sort, l.compare, "")
}
