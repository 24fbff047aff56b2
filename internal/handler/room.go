package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"tidynest/internal/model"
	"tidynest/internal/store"
	"tidynest/internal/websocket"
)

type RoomHandler struct {
	rooms  *store.RoomStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewRoomHandler(rs *store.RoomStore, hub *websocket.Hub, logger *slog.Logger) *RoomHandler {
	return &RoomHandler{rooms: rs, hub: hub, logger: logger}
}

func (h *RoomHandler) broadcast(ev websocket.Event) {
	if h.hub != nil {
		h.hub.Broadcast(ev)
	}
}

type roomRequest struct {
	Name string         `json:"name"`
	Type model.RoomType `json:"type"`
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if !req.Type.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown room type"})
		return
	}

	room, err := h.rooms.Create(req.Name, req.Type)
	if err != nil {
		h.logger.Error("create room", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create room"})
		return
	}

	h.broadcast(websocket.NewEvent("room", "created", room.ID, nil))
	h.broadcast(websocket.NewEvent("stats", "updated", "", nil))

	writeJSON(w, http.StatusCreated, room)
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.List()
	if err != nil {
		h.logger.Error("list rooms", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list rooms"})
		return
	}
	if rooms == nil {
		rooms = []model.Room{}
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	room, err := h.rooms.GetWithTasks(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "room not found"})
			return
		}
		h.logger.Error("get room", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get room"})
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.rooms.Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "room not found"})
			return
		}
		h.logger.Error("delete room", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete room"})
		return
	}

	h.broadcast(websocket.NewEvent("room", "deleted", id, nil))
	h.broadcast(websocket.NewEvent("stats", "updated", "", nil))

	w.WriteHeader(http.StatusNoContent)
}

// Types returns the room type catalog with icons, for pickers.
func (h *RoomHandler) Types(w http.ResponseWriter, r *http.Request) {
	type roomType struct {
		Type model.RoomType `json:"type"`
		Icon string         `json:"icon"`
	}
	out := make([]roomType, 0, len(model.RoomTypes))
	for _, t := range model.RoomTypes {
		out = append(out, roomType{Type: t, Icon: model.RoomIcon(t)})
	}
	writeJSON(w, http.StatusOK, out)
}
