package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"tidynest/internal/achievement"
	"tidynest/internal/model"
	"tidynest/internal/store"
	"tidynest/internal/websocket"
)

type TaskHandler struct {
	tasks     *store.TaskStore
	stats     *store.StatsStore
	settings  *store.SettingsStore
	evaluator *achievement.Evaluator
	hub       *websocket.Hub
	logger    *slog.Logger
}

func NewTaskHandler(ts *store.TaskStore, ss *store.StatsStore, settings *store.SettingsStore, ev *achievement.Evaluator, hub *websocket.Hub, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{tasks: ts, stats: ss, settings: settings, evaluator: ev, hub: hub, logger: logger}
}

func (h *TaskHandler) broadcast(ev websocket.Event) {
	if h.hub != nil {
		h.hub.Broadcast(ev)
	}
}

type taskRequest struct {
	Name   string           `json:"name"`
	Config model.TaskConfig `json:"config"`
}

func validTaskRequest(req *taskRequest) string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required"
	}
	if req.Config.Frequency.Value <= 0 {
		return "frequency value must be positive"
	}
	switch req.Config.Frequency.Unit {
	case model.FrequencyDays, model.FrequencyWeeks, model.FrequencyMonths:
	default:
		return "unknown frequency unit"
	}
	return ""
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := validTaskRequest(&req); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	task, err := h.tasks.Create(roomID, req.Name, req.Config)
	if err != nil {
		h.logger.Error("create task", "room_id", roomID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create task"})
		return
	}

	h.broadcast(websocket.NewEvent("task", "created", task.ID, nil))

	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")

	var reqs []taskRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if len(reqs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no tasks given"})
		return
	}

	inputs := make([]store.TaskInput, 0, len(reqs))
	for i := range reqs {
		if msg := validTaskRequest(&reqs[i]); msg != "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
			return
		}
		inputs = append(inputs, store.TaskInput{Name: reqs[i].Name, Config: reqs[i].Config})
	}

	tasks, err := h.tasks.CreateBatch(roomID, inputs)
	if err != nil {
		h.logger.Error("create tasks", "room_id", roomID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create tasks"})
		return
	}

	for _, t := range tasks {
		h.broadcast(websocket.NewEvent("task", "created", t.ID, nil))
	}

	writeJSON(w, http.StatusCreated, tasks)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	task, err := h.tasks.GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
			return
		}
		h.logger.Error("get task", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get task"})
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		Config model.TaskConfig `json:"config"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if _, err := h.tasks.GetByID(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
			return
		}
		h.logger.Error("get task", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get task"})
		return
	}

	if err := h.tasks.UpdateConfig(id, req.Config); err != nil {
		h.logger.Error("update task config", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update task"})
		return
	}

	h.broadcast(websocket.NewEvent("task", "updated", id, nil))

	task, err := h.tasks.GetByID(id)
	if err != nil {
		writeJSON(w, storeErrorStatus(err), map[string]string{"error": "failed to get task"})
		return
	}
	writeJSON(w, http.StatusOK, task)
}

type completeResponse struct {
	Task         *model.Task              `json:"task"`
	Stats        model.Stats              `json:"stats"`
	Achievements []achievement.Evaluation `json:"achievements,omitempty"`
}

// Complete marks a task done, refreshes the aggregates and reports any
// achievements that unlocked as a result.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.tasks.CompleteAt(id, timeNow()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
			return
		}
		h.logger.Error("complete task", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to complete task"})
		return
	}

	task, err := h.tasks.GetByID(id)
	if err != nil {
		writeJSON(w, storeErrorStatus(err), map[string]string{"error": "failed to get task"})
		return
	}

	stats, err := h.stats.Get()
	if err != nil {
		h.logger.Error("get stats", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get stats"})
		return
	}

	h.broadcast(websocket.NewEvent("task", "completed", id, nil))
	h.broadcast(websocket.NewEvent("stats", "updated", "", nil))

	resp := completeResponse{Task: task, Stats: stats}

	// Unlocks accrue even while gamification is hidden; only the payload
	// and the broadcast are suppressed.
	evals, newly, err := h.evaluator.Refresh(stats)
	if err != nil {
		h.logger.Error("refresh achievements", "error", err)
		writeJSON(w, http.StatusOK, resp)
		return
	}

	gamification, err := h.settings.GetBool("gamification_enabled")
	if err != nil {
		h.logger.Error("read gamification setting", "error", err)
		gamification = true
	}

	if gamification {
		for _, id := range newly {
			h.broadcast(websocket.NewEvent("achievement", "unlocked", id, nil))
		}
		if len(newly) > 0 {
			resp.Achievements = newlyUnlocked(evals, newly)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func newlyUnlocked(evals []achievement.Evaluation, ids []string) []achievement.Evaluation {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]achievement.Evaluation, 0, len(ids))
	for _, e := range evals {
		if want[e.ID] {
			out = append(out, e)
		}
	}
	return out
}

// Predefined returns the task name suggestion list.
func (h *TaskHandler) Predefined(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.PredefinedTasks)
}
