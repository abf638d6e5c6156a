package store

import (
	"fmt"
	"slices"
)

// TodoStatus is the lifecycle state of a Todo.
type TodoStatus string

const (
	TodoStatusBacklog    TodoStatus = "BACKLOG"
	TodoStatusInProgress TodoStatus = "IN_PROGRESS"
	TodoStatusBlocked    TodoStatus = "BLOCKED"
	TodoStatusCompleted  TodoStatus = "COMPLETED"
	TodoStatusArchived   TodoStatus = "ARCHIVED"
)

// TodoStatuses lists every TodoStatus in declaration order.
var TodoStatuses = []TodoStatus{
	TodoStatusBacklog,
	TodoStatusInProgress,
	TodoStatusBlocked,
	TodoStatusCompleted,
	TodoStatusArchived,
}

// Valid reports whether s is a declared TodoStatus.
func (s TodoStatus) Valid() bool { return slices.Contains(TodoStatuses, s) }

// ParseTodoStatus converts s into a TodoStatus.
func ParseTodoStatus(s string) (TodoStatus, error) {
	if v := TodoStatus(s); v.Valid() {
		return v, nil
	}
	return "", &ValidationError{Message: fmt.Sprintf("Invalid value for enum TodoStatus: %q", s)}
}

// Priority ranks a Todo.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// Priorities lists every Priority in declaration order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// Valid reports whether p is a declared Priority.
func (p Priority) Valid() bool { return slices.Contains(Priorities, p) }

// ParsePriority converts s into a Priority.
func ParsePriority(s string) (Priority, error) {
	if v := Priority(s); v.Valid() {
		return v, nil
	}
	return "", &ValidationError{Message: fmt.Sprintf("Invalid value for enum Priority: %q", s)}
}

// SortOrder is the direction of an ordering term.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// NullsOrder places NULL values before or after the others.
type NullsOrder string

const (
	NullsFirst NullsOrder = "first"
	NullsLast  NullsOrder = "last"
)

// QueryMode selects case sensitivity for string filters.
type QueryMode string

const (
	ModeDefault     QueryMode = "default"
	ModeInsensitive QueryMode = "insensitive"
)

// Aggregate names an aggregate function of Aggregate and GroupBy.
type Aggregate string

const (
	AggCount Aggregate = "_count"
	AggAvg   Aggregate = "_avg"
	AggSum   Aggregate = "_sum"
	AggMin   Aggregate = "_min"
	AggMax   Aggregate = "_max"
)

func (a Aggregate) function() string {
	switch a {
	case AggCount:
		return "COUNT"
	case AggAvg:
		return "AVG"
	case AggSum:
		return "SUM"
	case AggMin:
		return "MIN"
	case AggMax:
		return "MAX"
	}
	return ""
}

// CountAll selects the row count in aggregate count selections.
const CountAll = "_all"
