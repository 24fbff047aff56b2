package achievement

import (
	"math"

	"tidynest/internal/model"
)

type Category string

const (
	CategoryGeneral Category = "general"
	CategoryStreak  Category = "streak"
	CategoryPoints  Category = "points"
	CategoryTasks   Category = "tasks"
	CategoryTime    Category = "time"
)

// Status is the result of checking one achievement against a stats snapshot.
// Progress is always derived from the live snapshot and never persisted.
type Status struct {
	Unlocked bool
	Progress int
}

// Achievement is one entry of the static catalog. Points are credited to the
// stats total exactly once, when the entry is first persisted as unlocked.
type Achievement struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Points      int      `json:"points"`
	Total       int      `json:"total"`
	Category    Category `json:"category"`

	Check func(model.Stats) Status `json:"-"`
}

// Catalog is the fixed achievement set. IDs are stable; the unlock log in the
// database references them.
var Catalog = []Achievement{
	{
		ID:          "early_bird",
		Title:       "Early Bird",
		Description: "Complete 5 different tasks before 11 AM (each task counts once per day)",
		Icon:        "sunny-outline",
		Points:      100,
		Total:       5,
		Category:    CategoryTime,
		Check: func(s model.Stats) Status {
			return Status{Unlocked: s.EarlyBirdTasks >= 5, Progress: s.EarlyBirdTasks}
		},
	},
	{
		ID:          "clean_streak_7",
		Title:       "Clean Streak",
		Description: "Complete tasks for 7 days in a row",
		Icon:        "flame-outline",
		Points:      200,
		Total:       7,
		Category:    CategoryStreak,
		Check: func(s model.Stats) Status {
			return Status{Unlocked: s.CurrentStreak >= 7, Progress: s.CurrentStreak}
		},
	},
	{
		ID:          "clean_streak_30",
		Title:       "Clean Master",
		Description: "Complete tasks for 30 days in a row",
		Icon:        "flame",
		Points:      1000,
		Total:       30,
		Category:    CategoryStreak,
		Check: func(s model.Stats) Status {
			return Status{Unlocked: s.CurrentStreak >= 30, Progress: s.CurrentStreak}
		},
	},
	{
		ID:          "points_1000",
		Title:       "Point Collector",
		Description: "Earn 1,000 total points",
		Icon:        "trophy-outline",
		Points:      500,
		Total:       1000,
		Category:    CategoryPoints,
		Check: func(s model.Stats) Status {
			return Status{Unlocked: s.TotalPoints >= 1000, Progress: s.TotalPoints}
		},
	},
	{
		ID:          "points_5000",
		Title:       "Point Master",
		Description: "Earn 5,000 total points",
		Icon:        "trophy",
		Points:      1000,
		Total:       5000,
		Category:    CategoryPoints,
		Check: func(s model.Stats) Status {
			return Status{Unlocked: s.TotalPoints >= 5000, Progress: s.TotalPoints}
		},
	},
	{
		ID:          "tasks_50",
		Title:       "Task Enthusiast",
		Description: "Complete 50 tasks",
		Icon:        "checkmark-circle-outline",
		Points:      300,
		Total:       50,
		Category:    CategoryTasks,
		Check: func(s model.Stats) Status {
			return Status{Unlocked: s.TasksCompleted >= 50, Progress: s.TasksCompleted}
		},
	},
	{
		ID:          "tasks_100",
		Title:       "Task Master",
		Description: "Complete 100 tasks",
		Icon:        "checkmark-circle",
		Points:      500,
		Total:       100,
		Category:    CategoryTasks,
		Check: func(s model.Stats) Status {
			return Status{Unlocked: s.TasksCompleted >= 100, Progress: s.TasksCompleted}
		},
	},
	{
		ID:          "tasks_500",
		Title:       "Task Legend",
		Description: "Complete 500 tasks",
		Icon:        "checkmark-done-circle",
		Points:      2000,
		Total:       500,
		Category:    CategoryTasks,
		Check: func(s model.Stats) Status {
			return Status{Unlocked: s.TasksCompleted >= 500, Progress: s.TasksCompleted}
		},
	},
	{
		ID:          "all_rooms",
		Title:       "Room Collector",
		Description: "Complete at least 1 task in every room type (Bedroom, Bathroom, Kitchen, Living Room, Office, Garage, Outdoor, Other)",
		Icon:        "home-outline",
		Points:      300,
		Total:       8,
		Category:    CategoryGeneral,
		Check: func(s model.Stats) Status {
			return Status{Unlocked: s.UniqueRoomTypes >= 8, Progress: s.UniqueRoomTypes}
		},
	},
	{
		ID:          "perfect_week",
		Title:       "Perfect Week",
		Description: "Complete all scheduled tasks for 7 days straight",
		Icon:        "calendar",
		Points:      1000,
		Total:       7,
		Category:    CategoryStreak,
		Check: func(s model.Stats) Status {
			return Status{Unlocked: s.PerfectDays >= 7, Progress: s.PerfectDays}
		},
	},
	{
		ID:          "room_master",
		Title:       "Room Master",
		Description: "Create 10 different rooms",
		Icon:        "grid-outline",
		Points:      500,
		Total:       10,
		Category:    CategoryGeneral,
		Check: func(s model.Stats) Status {
			return Status{Unlocked: s.RoomsCreated >= 10, Progress: s.RoomsCreated}
		},
	},
	{
		ID:          "completion_rate_90",
		Title:       "Efficiency Expert",
		Description: "Maintain a 90% weekly completion rate",
		Icon:        "analytics-outline",
		Points:      1000,
		Total:       90,
		Category:    CategoryGeneral,
		Check: func(s model.Stats) Status {
			return Status{
				Unlocked: s.WeeklyCompletionRate >= 90,
				Progress: int(math.Round(s.WeeklyCompletionRate)),
			}
		},
	},
	{
		ID:          "longest_streak_50",
		Title:       "Unstoppable",
		Description: "Achieve a 50-day streak",
		Icon:        "infinite-outline",
		Points:      2000,
		Total:       50,
		Category:    CategoryStreak,
		Check: func(s model.Stats) Status {
			return Status{Unlocked: s.LongestStreak >= 50, Progress: s.LongestStreak}
		},
	},
}

// Find returns the catalog entry for id, or nil if the id is unknown.
func Find(id string) *Achievement {
	for i := range Catalog {
		if Catalog[i].ID == id {
			return &Catalog[i]
		}
	}
	return nil
}
