package domain

import "fmt"

// StatusFilter selects tasks by status in a listing.
type StatusFilter string

const (
	StatusFilterAll  StatusFilter = "all"
	StatusFilterOpen StatusFilter = "open"
	StatusFilterDone StatusFilter = "done"
)

// Match reports whether a task with status s passes the filter.
func (f StatusFilter) Match(s TaskStatus) bool {
	switch f {
	case StatusFilterOpen:
		return s == TaskStatusOpen
	case StatusFilterDone:
		return s == TaskStatusDone
	default:
		return true
	}
}

// SortKey names one of the total orders a listing can use.
type SortKey string

const (
	SortCreated  SortKey = "created"
	SortDue      SortKey = "due"
	SortPriority SortKey = "priority"
)

// ParseStatusFilter maps user input to a StatusFilter. Empty input means all.
func ParseStatusFilter(raw string) (StatusFilter, error) {
	switch f := StatusFilter(raw); f {
	case "":
		return StatusFilterAll, nil
	case StatusFilterAll, StatusFilterOpen, StatusFilterDone:
		return f, nil
	default:
		return "", fmt.Errorf("invalid status %q, use: all, open, done", raw)
	}
}

// ParseSortKey maps user input to a SortKey. Empty input means created.
func ParseSortKey(raw string) (SortKey, error) {
	switch k := SortKey(raw); k {
	case "":
		return SortCreated, nil
	case SortCreated, SortDue, SortPriority:
		return k, nil
	default:
		return "", fmt.Errorf("invalid sort %q, use: created, due, priority", raw)
	}
}

// ListQuery is the filter and order of a listing. The zero value lists
// every task in creation order.
type ListQuery struct {
	Status StatusFilter
	Tag    string // exact match; empty means no tag filter
	Sort   SortKey
}
