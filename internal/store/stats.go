package store

import (
	"database/sql"
	"fmt"

	"tidynest/internal/model"
)

type StatsStore struct {
	db *sql.DB
}

func NewStatsStore(db *sql.DB) *StatsStore {
	return &StatsStore{db: db}
}

// Get returns the stats snapshot. Before any room creation or task
// completion there is no row yet; that reads as all zeros rather than an
// error.
func (s *StatsStore) Get() (model.Stats, error) {
	var st model.Stats
	var lastActivity sql.NullInt64

	err := s.db.QueryRow(
		`SELECT current_streak, longest_streak, total_points, last_activity_date,
		        tasks_completed, early_bird_tasks, unique_room_types, perfect_days,
		        rooms_created, tasks_completed_today, total_scheduled_tasks_today,
		        weekly_completion_rate
		 FROM user_stats WHERE id = 'default'`,
	).Scan(
		&st.CurrentStreak, &st.LongestStreak, &st.TotalPoints, &lastActivity,
		&st.TasksCompleted, &st.EarlyBirdTasks, &st.UniqueRoomTypes, &st.PerfectDays,
		&st.RoomsCreated, &st.TasksCompletedToday, &st.TotalScheduledTasksToday,
		&st.WeeklyCompletionRate,
	)
	if err == sql.ErrNoRows {
		return model.Stats{}, nil
	}
	if err != nil {
		return model.Stats{}, fmt.Errorf("get stats: %w", err)
	}

	st.LastActivityDate = fromNullMillis(lastActivity)
	return st, nil
}
