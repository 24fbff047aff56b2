package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tidynest/internal/model"
)

type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

const taskCols = `id, room_id, name, frequency_value, frequency_unit, effort, current_state, is_completed, last_completed_at, created_at`

func scanTask(scanner interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	var completed int
	var lastCompletedAt sql.NullInt64
	var createdAt int64

	err := scanner.Scan(
		&t.ID, &t.RoomID, &t.Name,
		&t.Config.Frequency.Value, &t.Config.Frequency.Unit,
		&t.Config.Effort, &t.Config.CurrentState,
		&completed, &lastCompletedAt, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	t.IsCompleted = completed != 0
	t.LastCompletedAt = fromNullMillis(lastCompletedAt)
	t.CreatedAt = fromMillis(createdAt)
	return &t, nil
}

func listTasksByRoom(db *sql.DB, roomID string) ([]model.Task, error) {
	rows, err := db.Query(
		`SELECT `+taskCols+` FROM tasks WHERE room_id = ? ORDER BY created_at ASC, rowid ASC`,
		roomID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// TaskInput names a task to create together with its configuration.
type TaskInput struct {
	Name   string           `json:"name"`
	Config model.TaskConfig `json:"config"`
}

// Create inserts a task into a room. Creation has no stats side effect; only
// completion moves the aggregates.
func (s *TaskStore) Create(roomID, name string, config model.TaskConfig) (*model.Task, error) {
	id := uuid.NewString()
	now := time.Now()

	_, err := s.db.Exec(
		`INSERT INTO tasks (id, room_id, name, frequency_value, frequency_unit, effort, current_state, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, roomID, name,
		config.Frequency.Value, string(config.Frequency.Unit),
		config.Effort, config.CurrentState,
		toMillis(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	return &model.Task{
		ID:        id,
		RoomID:    roomID,
		Name:      name,
		Config:    config,
		CreatedAt: now,
	}, nil
}

// CreateBatch inserts tasks one at a time and stops at the first failure.
// Each insert stands alone; there is no batch-level atomicity.
func (s *TaskStore) CreateBatch(roomID string, inputs []TaskInput) ([]model.Task, error) {
	tasks := make([]model.Task, 0, len(inputs))
	for _, in := range inputs {
		t, err := s.Create(roomID, in.Name, in.Config)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

// GetByID returns a task or ErrNotFound.
func (s *TaskStore) GetByID(id string) (*model.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ListByRoom returns a room's tasks in creation order.
func (s *TaskStore) ListByRoom(roomID string) ([]model.Task, error) {
	return listTasksByRoom(s.db, roomID)
}

// UpdateConfig overwrites the task's frequency, effort, and cleanliness gauge
// in place. No stats side effect.
func (s *TaskStore) UpdateConfig(id string, config model.TaskConfig) error {
	_, err := s.db.Exec(
		`UPDATE tasks SET frequency_value = ?, frequency_unit = ?, effort = ?, current_state = ? WHERE id = ?`,
		config.Frequency.Value, string(config.Frequency.Unit),
		config.Effort, config.CurrentState, id,
	)
	if err != nil {
		return fmt.Errorf("update task config: %w", err)
	}
	return nil
}

// Complete marks the task completed as of the current wall clock.
func (s *TaskStore) Complete(id string) error {
	return s.CompleteAt(id, time.Now())
}

// CompleteAt marks the task completed as of now and folds the completion
// into the stats row: effort points, completion count, early-bird and
// perfect-day credit, the recomputed today/weekly snapshot counters, and the
// calendar-day streak. The statements run sequentially; a crash partway
// through can leave the task updated without the stats update, which is
// accepted for a single-user local database.
func (s *TaskStore) CompleteAt(id string, now time.Time) error {
	task, err := s.GetByID(id)
	if err != nil {
		return err
	}
	points := task.Config.Effort

	_, err = s.db.Exec(
		`UPDATE tasks SET is_completed = 1, last_completed_at = ?, current_state = 100 WHERE id = ?`,
		toMillis(now), id,
	)
	if err != nil {
		return fmt.Errorf("complete task: %w", err)
	}

	dayStart, dayEnd := dayBounds(now)

	// Early bird: before 11 AM and not already credited for this task today.
	var earlyBirdToday int
	err = s.db.QueryRow(
		`SELECT COUNT(*) FROM early_bird_completions WHERE task_id = ? AND completed_at >= ? AND completed_at <= ?`,
		id, toMillis(dayStart), toMillis(dayEnd),
	).Scan(&earlyBirdToday)
	if err != nil {
		return fmt.Errorf("check early bird: %w", err)
	}

	isEarlyBird := now.Hour() < 11 && earlyBirdToday == 0
	if isEarlyBird {
		_, err = s.db.Exec(
			`INSERT INTO early_bird_completions (task_id, completed_at) VALUES (?, ?)`,
			id, toMillis(now),
		)
		if err != nil {
			return fmt.Errorf("record early bird: %w", err)
		}
	}

	// Perfect day: every task created today is completed, and there was at
	// least one.
	var todayTotal, todayCompleted int
	err = s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(is_completed), 0) FROM tasks WHERE created_at >= ? AND created_at <= ?`,
		toMillis(dayStart), toMillis(dayEnd),
	).Scan(&todayTotal, &todayCompleted)
	if err != nil {
		return fmt.Errorf("count today's tasks: %w", err)
	}
	isPerfectDay := todayTotal > 0 && todayTotal == todayCompleted

	// Completion rate over tasks created in the trailing 7 days.
	var weekTotal, weekCompleted int
	err = s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(is_completed), 0) FROM tasks WHERE created_at >= ?`,
		toMillis(now.AddDate(0, 0, -7)),
	).Scan(&weekTotal, &weekCompleted)
	if err != nil {
		return fmt.Errorf("count weekly tasks: %w", err)
	}

	var weeklyRate float64
	if weekTotal > 0 {
		weeklyRate = float64(weekCompleted) / float64(weekTotal) * 100
	}

	earlyBirdInc := 0
	if isEarlyBird {
		earlyBirdInc = 1
	}
	perfectDayInc := 0
	if isPerfectDay {
		perfectDayInc = 1
	}

	var currentStreak, longestStreak int
	var lastActivity sql.NullInt64
	err = s.db.QueryRow(
		`SELECT current_streak, longest_streak, last_activity_date FROM user_stats WHERE id = 'default'`,
	).Scan(&currentStreak, &longestStreak, &lastActivity)

	if err == sql.ErrNoRows {
		// First activity ever: the streak starts at 1.
		_, err = s.db.Exec(
			`INSERT INTO user_stats (
				id, current_streak, longest_streak, total_points, last_activity_date,
				tasks_completed, early_bird_tasks, perfect_days,
				tasks_completed_today, total_scheduled_tasks_today, weekly_completion_rate
			) VALUES ('default', 1, 1, ?, ?, 1, ?, ?, ?, ?, ?)`,
			points, toMillis(now), earlyBirdInc, perfectDayInc,
			todayCompleted, todayTotal, weeklyRate,
		)
		if err != nil {
			return fmt.Errorf("init stats: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read stats: %w", err)
	}

	// Streak: unchanged within a day, +1 for the day directly after the last
	// activity, reset to 1 after any gap.
	newStreak := 1
	if last := fromNullMillis(lastActivity); last != nil {
		switch {
		case sameCalendarDay(*last, now):
			newStreak = currentStreak
		case previousCalendarDay(*last, now):
			newStreak = currentStreak + 1
		}
	}
	if newStreak > longestStreak {
		longestStreak = newStreak
	}

	_, err = s.db.Exec(
		`UPDATE user_stats SET
			current_streak = ?,
			longest_streak = ?,
			total_points = total_points + ?,
			last_activity_date = ?,
			tasks_completed = tasks_completed + 1,
			early_bird_tasks = early_bird_tasks + ?,
			perfect_days = perfect_days + ?,
			tasks_completed_today = ?,
			total_scheduled_tasks_today = ?,
			weekly_completion_rate = ?
		 WHERE id = 'default'`,
		newStreak, longestStreak, points, toMillis(now),
		earlyBirdInc, perfectDayInc,
		todayCompleted, todayTotal, weeklyRate,
	)
	if err != nil {
		return fmt.Errorf("update stats: %w", err)
	}

	return nil
}
