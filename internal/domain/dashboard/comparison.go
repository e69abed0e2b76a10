package dashboard

import "slices"

const ComparisonCapacity = 2

// ComparisonSet is an ordered set of at most ComparisonCapacity employee names.
// Adding to a full set evicts the most recently selected member.
type ComparisonSet struct {
	names []string
}

func NewComparisonSet(names ...string) ComparisonSet {
	var set ComparisonSet
	for _, name := range names {
		if !set.Contains(name) {
			set = set.add(name)
		}
	}
	return set
}

func (c ComparisonSet) Names() []string {
	return slices.Clone(c.names)
}

func (c ComparisonSet) Len() int {
	return len(c.names)
}

func (c ComparisonSet) Contains(name string) bool {
	return slices.Contains(c.names, name)
}

// Toggle removes name when present, otherwise adds it.
func (c ComparisonSet) Toggle(name string) ComparisonSet {
	if name == "" {
		return c
	}
	if c.Contains(name) {
		return c.Remove(name)
	}
	return c.add(name)
}

func (c ComparisonSet) Remove(name string) ComparisonSet {
	return ComparisonSet{names: slices.DeleteFunc(slices.Clone(c.names), func(n string) bool { return n == name })}
}

// Retain keeps only the members accepted by keep, preserving order.
func (c ComparisonSet) Retain(keep func(string) bool) ComparisonSet {
	return ComparisonSet{names: slices.DeleteFunc(slices.Clone(c.names), func(n string) bool { return !keep(n) })}
}

func (c ComparisonSet) add(name string) ComparisonSet {
	names := slices.Clone(c.names)
	if len(names) < ComparisonCapacity {
		return ComparisonSet{names: append(names, name)}
	}
	names[len(names)-1] = name
	return ComparisonSet{names: names}
}
