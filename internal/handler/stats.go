package handler

import (
	"log/slog"
	"net/http"

	"tidynest/internal/achievement"
	"tidynest/internal/model"
	"tidynest/internal/store"
)

type StatsHandler struct {
	stats        *store.StatsStore
	settings     *store.SettingsStore
	achievements *store.AchievementStore
	evaluator    *achievement.Evaluator
	logger       *slog.Logger
}

func NewStatsHandler(ss *store.StatsStore, settings *store.SettingsStore, as *store.AchievementStore, ev *achievement.Evaluator, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{stats: ss, settings: settings, achievements: as, evaluator: ev, logger: logger}
}

func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Get()
	if err != nil {
		h.logger.Error("get stats", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get stats"})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type achievementsResponse struct {
	Enabled      bool                     `json:"enabled"`
	Achievements []achievement.Evaluation `json:"achievements"`
}

// Achievements evaluates the catalog against the current stats. Hidden
// (empty) while the gamification setting is off.
func (h *StatsHandler) Achievements(w http.ResponseWriter, r *http.Request) {
	enabled, err := h.settings.GetBool("gamification_enabled")
	if err != nil {
		h.logger.Error("read gamification setting", "error", err)
		enabled = true
	}
	if !enabled {
		writeJSON(w, http.StatusOK, achievementsResponse{Enabled: false, Achievements: []achievement.Evaluation{}})
		return
	}

	stats, err := h.stats.Get()
	if err != nil {
		h.logger.Error("get stats", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get stats"})
		return
	}

	evals, _, err := h.evaluator.Refresh(stats)
	if err != nil {
		h.logger.Error("refresh achievements", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to evaluate achievements"})
		return
	}

	writeJSON(w, http.StatusOK, achievementsResponse{Enabled: true, Achievements: evals})
}

// Unlocks returns the persisted unlock log with timestamps, oldest first.
func (h *StatsHandler) Unlocks(w http.ResponseWriter, r *http.Request) {
	unlocks, err := h.achievements.Unlocks()
	if err != nil {
		h.logger.Error("list unlocks", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list unlocks"})
		return
	}
	if unlocks == nil {
		unlocks = []model.AchievementUnlock{}
	}
	writeJSON(w, http.StatusOK, unlocks)
}
