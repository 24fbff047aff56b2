package handler

import (
	"log/slog"
	"net/http"
	"time"

	"tidynest/internal/schedule"
	"tidynest/internal/store"
)

type ScheduleHandler struct {
	rooms  *store.RoomStore
	logger *slog.Logger
}

func NewScheduleHandler(rs *store.RoomStore, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{rooms: rs, logger: logger}
}

// Get returns the due tasks for a window anchored at ?date= (default today)
// in ?view= week, month or 3months.
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	// The window math is anchored at midnight either way: a parsed ?date=
	// starts at 00:00, and the default must too, or a task due earlier
	// today would drop out of the window as the day progresses.
	now := timeNow()
	ref := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if d := r.URL.Query().Get("date"); d != "" {
		parsed, err := time.ParseInLocation("2006-01-02", d, now.Location())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date, want YYYY-MM-DD"})
			return
		}
		ref = parsed
	}

	mode := schedule.ViewWeek
	switch v := r.URL.Query().Get("view"); v {
	case "", string(schedule.ViewWeek):
	case string(schedule.ViewMonth):
		mode = schedule.ViewMonth
	case string(schedule.ViewQuarter):
		mode = schedule.ViewQuarter
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown view mode"})
		return
	}

	rooms, err := h.rooms.List()
	if err != nil {
		h.logger.Error("list rooms", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load schedule"})
		return
	}

	entries := schedule.ForRooms(rooms, ref, mode)
	if entries == nil {
		entries = []schedule.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
