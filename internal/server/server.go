// Package server wires the stores, handlers and background services
// into an http.Handler.
package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"tidynest/internal/achievement"
	"tidynest/internal/backup"
	"tidynest/internal/config"
	"tidynest/internal/handler"
	"tidynest/internal/middleware"
	"tidynest/internal/push"
	"tidynest/internal/store"
	ws "tidynest/internal/websocket"
)

type Server struct {
	db  *sql.DB
	hub *ws.Hub

	roomH     *handler.RoomHandler
	taskH     *handler.TaskHandler
	scheduleH *handler.ScheduleHandler
	statsH    *handler.StatsHandler
	settingsH *handler.SettingsHandler
	pushH     *handler.PushHandler
	backupH   *handler.BackupHandler

	pushScheduler *push.Scheduler
	backupManager *backup.Manager
	logger        *slog.Logger
}

func New(db *sql.DB, cfg *config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	roomStore := store.NewRoomStore(db)
	taskStore := store.NewTaskStore(db)
	statsStore := store.NewStatsStore(db)
	achievementStore := store.NewAchievementStore(db)
	settingsStore := store.NewSettingsStore(db)
	pushStore := store.NewPushStore(db)
	backupStore := store.NewBackupStore(db)

	evaluator := achievement.NewEvaluator(achievementStore, logger.With("component", "achievements"))

	var pushSvc *push.Service
	var pushSched *push.Scheduler
	var pushH *handler.PushHandler
	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		pushSvc = push.NewService(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey)
		pushSched = push.NewScheduler(pushSvc, pushStore, roomStore, settingsStore, cfg.ReminderCheck, logger)
		pushH = handler.NewPushHandler(pushStore, pushSvc, logger.With("component", "push_handler"))
	}

	backupMgr := backup.NewManager(backup.Config{
		S3: backup.S3Config{
			Endpoint:  cfg.BackupEndpoint,
			Bucket:    cfg.BackupBucket,
			Region:    cfg.BackupRegion,
			AccessKey: cfg.BackupAccessKey,
			SecretKey: cfg.BackupSecretKey,
		},
		DBPath:     cfg.DBPath,
		Passphrase: cfg.BackupPassphrase,
		Interval:   cfg.BackupInterval,
		Keep:       cfg.BackupKeep,
	}, db, backupStore, logger)

	return &Server{
		db:            db,
		hub:           hub,
		roomH:         handler.NewRoomHandler(roomStore, hub, logger.With("component", "room")),
		taskH:         handler.NewTaskHandler(taskStore, statsStore, settingsStore, evaluator, hub, logger.With("component", "task")),
		scheduleH:     handler.NewScheduleHandler(roomStore, logger.With("component", "schedule")),
		statsH:        handler.NewStatsHandler(statsStore, settingsStore, achievementStore, evaluator, logger.With("component", "stats")),
		settingsH:     handler.NewSettingsHandler(settingsStore, hub, logger.With("component", "settings")),
		pushH:         pushH,
		backupH:       handler.NewBackupHandler(backupMgr, backupStore, logger.With("component", "backup_handler")),
		pushScheduler: pushSched,
		backupManager: backupMgr,
		logger:        logger,
	}
}

// PushScheduler returns the reminder scheduler, nil when push is not
// configured.
func (s *Server) PushScheduler() *push.Scheduler {
	return s.pushScheduler
}

// BackupManager returns the backup manager.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Room API routes
	mux.HandleFunc("POST /api/rooms", s.roomH.Create)
	mux.HandleFunc("GET /api/rooms", s.roomH.List)
	mux.HandleFunc("GET /api/rooms/{id}", s.roomH.Get)
	mux.HandleFunc("DELETE /api/rooms/{id}", s.roomH.Delete)
	mux.HandleFunc("GET /api/room-types", s.roomH.Types)

	// Task API routes
	mux.HandleFunc("POST /api/rooms/{id}/tasks", s.taskH.Create)
	mux.HandleFunc("POST /api/rooms/{id}/tasks/batch", s.taskH.CreateBatch)
	mux.HandleFunc("GET /api/tasks/{id}", s.taskH.Get)
	mux.HandleFunc("PUT /api/tasks/{id}/config", s.taskH.UpdateConfig)
	mux.HandleFunc("POST /api/tasks/{id}/complete", s.taskH.Complete)
	mux.HandleFunc("GET /api/tasks/predefined", s.taskH.Predefined)

	// Schedule, stats, achievements
	mux.HandleFunc("GET /api/schedule", s.scheduleH.Get)
	mux.HandleFunc("GET /api/stats", s.statsH.Get)
	mux.HandleFunc("GET /api/achievements", s.statsH.Achievements)
	mux.HandleFunc("GET /api/achievements/unlocks", s.statsH.Unlocks)

	// Settings
	mux.HandleFunc("GET /api/settings", s.settingsH.Get)
	mux.HandleFunc("PUT /api/settings", s.settingsH.Update)

	// Push notifications
	if s.pushH != nil {
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
		mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
		mux.HandleFunc("POST /api/push/unsubscribe", s.pushH.Unsubscribe)
		mux.HandleFunc("GET /api/push/subscriptions", s.pushH.List)
	}

	// Backups
	mux.HandleFunc("GET /api/backups", s.backupH.History)
	mux.HandleFunc("GET /api/backups/status", s.backupH.Status)
	mux.HandleFunc("POST /api/backups", s.backupH.Run)
	mux.HandleFunc("GET /api/backups/{id}/download", s.backupH.Download)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.Handler(s.hub))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
