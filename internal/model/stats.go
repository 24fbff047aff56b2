package model

import "time"

// Stats is the singleton aggregate row maintained as a side effect of room
// creation and task completion. It is never reset; counters only move forward
// except for the snapshot fields (today/weekly) which are overwritten on each
// completion.
type Stats struct {
	TotalPoints              int        `json:"total_points"`
	CurrentStreak            int        `json:"current_streak"`
	LongestStreak            int        `json:"longest_streak"`
	LastActivityDate         *time.Time `json:"last_activity_date"`
	TasksCompleted           int        `json:"tasks_completed"`
	EarlyBirdTasks           int        `json:"early_bird_tasks"`
	UniqueRoomTypes          int        `json:"unique_room_types"`
	PerfectDays              int        `json:"perfect_days"`
	RoomsCreated             int        `json:"rooms_created"`
	TasksCompletedToday      int        `json:"tasks_completed_today"`
	TotalScheduledTasksToday int        `json:"total_scheduled_tasks_today"`
	WeeklyCompletionRate     float64    `json:"weekly_completion_rate"`
}
