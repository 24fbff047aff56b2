// Package schedule decides which tasks are due within a viewing window and
// in what priority order. It is pure computation over data already loaded
// from the store.
package schedule

import (
	"sort"
	"time"

	"tidynest/internal/model"
)

type ViewMode string

const (
	ViewWeek    ViewMode = "week"
	ViewMonth   ViewMode = "month"
	ViewQuarter ViewMode = "3months"
)

// Entry is a due task annotated with its room for display.
type Entry struct {
	model.Task
	RoomName string `json:"room_name"`
	RoomIcon string `json:"room_icon"`
}

// FrequencyInDays converts a task frequency to days using the fixed
// approximation weeks=7, months=30. Deliberately not calendar-accurate;
// the due-date contract depends on this staying stable.
func FrequencyInDays(f model.Frequency) int {
	switch f.Unit {
	case model.FrequencyDays:
		return f.Value
	case model.FrequencyWeeks:
		return f.Value * 7
	case model.FrequencyMonths:
		return f.Value * 30
	default:
		return f.Value
	}
}

// Window returns the inclusive date range covered by a view mode anchored at
// ref. Unknown modes fall back to the week window.
func Window(ref time.Time, mode ViewMode) (start, end time.Time) {
	switch mode {
	case ViewMonth:
		start = time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		end = start.AddDate(0, 1, 0).Add(-time.Millisecond)
	case ViewQuarter:
		start = ref
		end = ref.AddDate(0, 3, 0)
	default:
		start = ref
		end = ref.AddDate(0, 0, 7)
	}
	return start, end
}

// NextDue returns the task's next due date. The second return is false for
// tasks with no completion history, which are due regardless of any window.
func NextDue(t model.Task) (time.Time, bool) {
	if t.LastCompletedAt == nil {
		return time.Time{}, false
	}
	return t.LastCompletedAt.AddDate(0, 0, FrequencyInDays(t.Config.Frequency)), true
}

// IsDue reports whether the task should appear in the window anchored at ref.
func IsDue(t model.Task, ref time.Time, mode ViewMode) bool {
	next, ok := NextDue(t)
	if !ok {
		return true
	}

	start, end := Window(ref, mode)
	return !next.Before(start) && !next.After(end)
}

// DaysOverdue returns how many whole days the task is past its due date as
// of now, or 0 if it is not overdue. Never-completed tasks report the
// maximum so they always outrank completed ones.
func DaysOverdue(t model.Task, now time.Time) int {
	if t.LastCompletedAt == nil {
		return int(^uint(0) >> 1)
	}

	daysSince := int(now.Sub(*t.LastCompletedAt).Hours() / 24)
	overdue := daysSince - FrequencyInDays(t.Config.Frequency)
	if overdue < 0 {
		return 0
	}
	return overdue
}

// SortByPriority orders entries in place: never-completed tasks first
// (most frequent chores leading), then completed tasks by how overdue they
// are, most overdue first. The sort is stable; ties keep input order.
func SortByPriority(entries []Entry, now time.Time) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]

		if a.LastCompletedAt == nil && b.LastCompletedAt == nil {
			return FrequencyInDays(a.Config.Frequency) < FrequencyInDays(b.Config.Frequency)
		}
		if a.LastCompletedAt == nil {
			return true
		}
		if b.LastCompletedAt == nil {
			return false
		}

		return DaysOverdue(a.Task, now) > DaysOverdue(b.Task, now)
	})
}

// ForRooms flattens rooms into the ordered due-task list for the window
// anchored at ref. Completed tasks are excluded unconditionally; ref also
// serves as "now" for overdue ordering.
func ForRooms(rooms []model.Room, ref time.Time, mode ViewMode) []Entry {
	var entries []Entry
	for _, room := range rooms {
		for _, task := range room.Tasks {
			if task.IsCompleted {
				continue
			}
			if !IsDue(task, ref, mode) {
				continue
			}
			entries = append(entries, Entry{
				Task:     task,
				RoomName: room.Name,
				RoomIcon: room.Icon,
			})
		}
	}

	SortByPriority(entries, ref)
	return entries
}
