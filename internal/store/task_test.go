package store

import (
	"errors"
	"testing"
	"time"

	"tidynest/internal/database"
	"tidynest/internal/model"
)

func setupTestDB(t *testing.T) (*RoomStore, *TaskStore, *StatsStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRoomStore(db), NewTaskStore(db), NewStatsStore(db)
}

func dailyConfig(effort, state int) model.TaskConfig {
	return model.TaskConfig{
		Frequency:    model.Frequency{Value: 1, Unit: model.FrequencyDays},
		Effort:       effort,
		CurrentState: state,
	}
}

// todayAt returns today's date at the given hour in the local zone.
func todayAt(hour int) time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
}

func TestTaskCreateRoundTrip(t *testing.T) {
	rs, ts, _ := setupTestDB(t)

	room, err := rs.Create("Kitchen", model.RoomTypeKitchen)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	config := model.TaskConfig{
		Frequency:    model.Frequency{Value: 2, Unit: model.FrequencyWeeks},
		Effort:       3,
		CurrentState: 40,
	}
	created, err := ts.Create(room.ID, "Clean oven", config)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	tasks, err := ts.ListByRoom(room.ID)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}

	got := tasks[0]
	if got.ID != created.ID {
		t.Errorf("id = %q, want %q", got.ID, created.ID)
	}
	if got.Config != config {
		t.Errorf("config = %+v, want %+v", got.Config, config)
	}
	if got.IsCompleted {
		t.Error("new task should not be completed")
	}
	if got.LastCompletedAt != nil {
		t.Errorf("last_completed_at = %v, want nil", got.LastCompletedAt)
	}
}

func TestTaskCreateBatch(t *testing.T) {
	rs, ts, _ := setupTestDB(t)

	room, _ := rs.Create("Bedroom", model.RoomTypeBedroom)
	inputs := []TaskInput{
		{Name: "Change bed sheets", Config: dailyConfig(1, 50)},
		{Name: "Dust surfaces", Config: dailyConfig(2, 80)},
	}

	tasks, err := ts.CreateBatch(room.ID, inputs)
	if err != nil {
		t.Fatalf("create batch: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}

	stored, _ := ts.ListByRoom(room.ID)
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored tasks, got %d", len(stored))
	}
	if stored[0].Name != "Change bed sheets" || stored[1].Name != "Dust surfaces" {
		t.Errorf("unexpected order: %q, %q", stored[0].Name, stored[1].Name)
	}
}

func TestCompleteTaskNotFound(t *testing.T) {
	_, ts, _ := setupTestDB(t)

	err := ts.Complete("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCompleteTaskEarlyBird(t *testing.T) {
	rs, ts, ss := setupTestDB(t)

	room, _ := rs.Create("Kitchen", model.RoomTypeKitchen)
	task, _ := ts.Create(room.ID, "Wash dishes", dailyConfig(2, 50))

	if err := ts.CompleteAt(task.ID, todayAt(9)); err != nil {
		t.Fatalf("complete task: %v", err)
	}

	stats, err := ss.Get()
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if stats.TasksCompleted != 1 {
		t.Errorf("tasks_completed = %d, want 1", stats.TasksCompleted)
	}
	if stats.TotalPoints != 2 {
		t.Errorf("total_points = %d, want 2", stats.TotalPoints)
	}
	if stats.EarlyBirdTasks != 1 {
		t.Errorf("early_bird_tasks = %d, want 1", stats.EarlyBirdTasks)
	}
	if stats.CurrentStreak != 1 {
		t.Errorf("current_streak = %d, want 1", stats.CurrentStreak)
	}

	got, _ := ts.GetByID(task.ID)
	if !got.IsCompleted {
		t.Error("task should be completed")
	}
	if got.Config.CurrentState != 100 {
		t.Errorf("current_state = %d, want 100", got.Config.CurrentState)
	}
	if got.LastCompletedAt == nil {
		t.Fatal("last_completed_at should be set")
	}
}

func TestCompleteTaskEarlyBirdDedup(t *testing.T) {
	rs, ts, ss := setupTestDB(t)

	room, _ := rs.Create("Kitchen", model.RoomTypeKitchen)
	task, _ := ts.Create(room.ID, "Wash dishes", dailyConfig(2, 50))

	if err := ts.CompleteAt(task.ID, todayAt(9)); err != nil {
		t.Fatalf("first completion: %v", err)
	}
	if err := ts.CompleteAt(task.ID, todayAt(10)); err != nil {
		t.Fatalf("second completion: %v", err)
	}

	stats, _ := ss.Get()
	if stats.EarlyBirdTasks != 1 {
		t.Errorf("early_bird_tasks = %d, want 1 (same task, same day)", stats.EarlyBirdTasks)
	}
	if stats.TasksCompleted != 2 {
		t.Errorf("tasks_completed = %d, want 2", stats.TasksCompleted)
	}
}

func TestCompleteTaskEveningNotEarlyBird(t *testing.T) {
	rs, ts, ss := setupTestDB(t)

	room, _ := rs.Create("Kitchen", model.RoomTypeKitchen)
	task, _ := ts.Create(room.ID, "Wash dishes", dailyConfig(2, 50))

	if err := ts.CompleteAt(task.ID, todayAt(9)); err != nil {
		t.Fatalf("morning completion: %v", err)
	}
	if err := ts.CompleteAt(task.ID, todayAt(20)); err != nil {
		t.Fatalf("evening completion: %v", err)
	}

	stats, _ := ss.Get()
	if stats.EarlyBirdTasks != 1 {
		t.Errorf("early_bird_tasks = %d, want 1", stats.EarlyBirdTasks)
	}
	if stats.TasksCompleted != 2 {
		t.Errorf("tasks_completed = %d, want 2", stats.TasksCompleted)
	}
	if stats.TotalPoints != 4 {
		t.Errorf("total_points = %d, want 4 (re-completion awards points again)", stats.TotalPoints)
	}
}

func TestCompleteTaskStreakConsecutiveDays(t *testing.T) {
	rs, ts, ss := setupTestDB(t)

	room, _ := rs.Create("Bathroom", model.RoomTypeBathroom)
	task, _ := ts.Create(room.ID, "Clean sink", dailyConfig(1, 50))

	day1 := todayAt(15)
	for i := 0; i < 3; i++ {
		if err := ts.CompleteAt(task.ID, day1.AddDate(0, 0, i)); err != nil {
			t.Fatalf("completion on day %d: %v", i+1, err)
		}
		stats, _ := ss.Get()
		if stats.CurrentStreak != i+1 {
			t.Errorf("day %d: current_streak = %d, want %d", i+1, stats.CurrentStreak, i+1)
		}
	}

	stats, _ := ss.Get()
	if stats.LongestStreak != 3 {
		t.Errorf("longest_streak = %d, want 3", stats.LongestStreak)
	}
}

func TestCompleteTaskStreakSameDayUnchanged(t *testing.T) {
	rs, ts, ss := setupTestDB(t)

	room, _ := rs.Create("Bathroom", model.RoomTypeBathroom)
	task, _ := ts.Create(room.ID, "Clean sink", dailyConfig(1, 50))

	if err := ts.CompleteAt(task.ID, todayAt(9)); err != nil {
		t.Fatalf("first completion: %v", err)
	}
	if err := ts.CompleteAt(task.ID, todayAt(18)); err != nil {
		t.Fatalf("second completion: %v", err)
	}

	stats, _ := ss.Get()
	if stats.CurrentStreak != 1 {
		t.Errorf("current_streak = %d, want 1 (same day)", stats.CurrentStreak)
	}
}

func TestCompleteTaskStreakResetAfterGap(t *testing.T) {
	rs, ts, ss := setupTestDB(t)

	room, _ := rs.Create("Bathroom", model.RoomTypeBathroom)
	task, _ := ts.Create(room.ID, "Clean sink", dailyConfig(1, 50))

	day1 := todayAt(15)
	ts.CompleteAt(task.ID, day1)
	ts.CompleteAt(task.ID, day1.AddDate(0, 0, 1))

	stats, _ := ss.Get()
	if stats.CurrentStreak != 2 {
		t.Fatalf("current_streak = %d, want 2 before gap", stats.CurrentStreak)
	}

	// Skip a day.
	if err := ts.CompleteAt(task.ID, day1.AddDate(0, 0, 3)); err != nil {
		t.Fatalf("completion after gap: %v", err)
	}

	stats, _ = ss.Get()
	if stats.CurrentStreak != 1 {
		t.Errorf("current_streak = %d, want 1 after gap", stats.CurrentStreak)
	}
	if stats.LongestStreak != 2 {
		t.Errorf("longest_streak = %d, want 2", stats.LongestStreak)
	}
}

func TestCompleteTaskWeeklyCompletionRate(t *testing.T) {
	rs, ts, ss := setupTestDB(t)

	room, _ := rs.Create("Office", model.RoomTypeOffice)
	task1, _ := ts.Create(room.ID, "Clean desk", dailyConfig(1, 50))
	if _, err := ts.Create(room.ID, "Dust shelves", dailyConfig(1, 50)); err != nil {
		t.Fatalf("create second task: %v", err)
	}

	if err := ts.CompleteAt(task1.ID, time.Now()); err != nil {
		t.Fatalf("complete task: %v", err)
	}

	stats, _ := ss.Get()
	if stats.WeeklyCompletionRate != 50 {
		t.Errorf("weekly_completion_rate = %v, want 50", stats.WeeklyCompletionRate)
	}
}

func TestCompleteTaskPerfectDay(t *testing.T) {
	rs, ts, ss := setupTestDB(t)

	room, _ := rs.Create("Kitchen", model.RoomTypeKitchen)
	task, _ := ts.Create(room.ID, "Wash dishes", dailyConfig(1, 50))

	if err := ts.CompleteAt(task.ID, time.Now()); err != nil {
		t.Fatalf("complete task: %v", err)
	}

	stats, _ := ss.Get()
	if stats.PerfectDays != 1 {
		t.Errorf("perfect_days = %d, want 1 (only task created today is completed)", stats.PerfectDays)
	}
	if stats.TasksCompletedToday != 1 {
		t.Errorf("tasks_completed_today = %d, want 1", stats.TasksCompletedToday)
	}
	if stats.TotalScheduledTasksToday != 1 {
		t.Errorf("total_scheduled_tasks_today = %d, want 1", stats.TotalScheduledTasksToday)
	}
}

func TestCompleteTaskNoPerfectDayWhileTasksRemain(t *testing.T) {
	rs, ts, ss := setupTestDB(t)

	room, _ := rs.Create("Kitchen", model.RoomTypeKitchen)
	task, _ := ts.Create(room.ID, "Wash dishes", dailyConfig(1, 50))
	if _, err := ts.Create(room.ID, "Mop floor", dailyConfig(2, 30)); err != nil {
		t.Fatalf("create second task: %v", err)
	}

	if err := ts.CompleteAt(task.ID, time.Now()); err != nil {
		t.Fatalf("complete task: %v", err)
	}

	stats, _ := ss.Get()
	if stats.PerfectDays != 0 {
		t.Errorf("perfect_days = %d, want 0 (one task still open)", stats.PerfectDays)
	}
}

func TestUpdateTaskConfigNoStatsSideEffect(t *testing.T) {
	rs, ts, ss := setupTestDB(t)

	room, _ := rs.Create("Garage", model.RoomTypeGarage)
	task, _ := ts.Create(room.ID, "Sweep floor", dailyConfig(1, 20))

	before, _ := ss.Get()

	newConfig := model.TaskConfig{
		Frequency:    model.Frequency{Value: 3, Unit: model.FrequencyMonths},
		Effort:       3,
		CurrentState: 75,
	}
	if err := ts.UpdateConfig(task.ID, newConfig); err != nil {
		t.Fatalf("update config: %v", err)
	}

	got, _ := ts.GetByID(task.ID)
	if got.Config != newConfig {
		t.Errorf("config = %+v, want %+v", got.Config, newConfig)
	}

	after, _ := ss.Get()
	if after != before {
		t.Errorf("stats changed on config update: before %+v, after %+v", before, after)
	}
}
