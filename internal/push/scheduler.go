package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tidynest/internal/model"
	"tidynest/internal/schedule"
)

// Sender delivers one notification to one subscription.
type Sender interface {
	Send(sub *model.PushSubscription, payload Payload) error
}

// SubscriptionStore lists active subscriptions and drops expired ones.
type SubscriptionStore interface {
	List() ([]model.PushSubscription, error)
	DeleteByEndpoint(endpoint string) error
}

// RoomLister provides the rooms (with tasks) to scan for due work.
type RoomLister interface {
	List() ([]model.Room, error)
}

// Settings reads the notification preferences and tracks the last
// day a reminder was sent.
type Settings interface {
	GetBool(key string) (bool, error)
	Get(key string) (string, error)
	Set(key, value string) error
}

// Scheduler periodically checks for due tasks and sends at most one
// reminder per calendar day to every subscription.
type Scheduler struct {
	sender   Sender
	subs     SubscriptionStore
	rooms    RoomLister
	settings Settings
	interval time.Duration
	logger   *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(sender Sender, subs SubscriptionStore, rooms RoomLister, settings Settings, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		sender:   sender,
		subs:     subs,
		rooms:    rooms,
		settings: settings,
		interval: interval,
		logger:   logger.With("component", "push_scheduler"),
	}
}

// Start launches the reminder loop. Call Stop to shut it down.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("reminder scheduler started", "interval", s.interval)

		for {
			select {
			case <-ctx.Done():
				s.logger.Info("reminder scheduler stopped")
				return
			case <-ticker.C:
				if err := s.Tick(time.Now()); err != nil {
					s.logger.Error("reminder tick failed", "error", err)
				}
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

// Tick runs one reminder check. Exported so a tick can be triggered
// manually and tested without the loop.
func (s *Scheduler) Tick(now time.Time) error {
	enabled, err := s.settings.GetBool("notifications_enabled")
	if err != nil {
		return fmt.Errorf("read notification setting: %w", err)
	}
	if !enabled {
		return nil
	}

	vacation, err := s.settings.GetBool("vacation_mode")
	if err != nil {
		return fmt.Errorf("read vacation setting: %w", err)
	}
	if vacation {
		return nil
	}

	today := now.Format("2006-01-02")
	last, err := s.settings.Get("last_reminder_date")
	if err != nil {
		return fmt.Errorf("read last reminder date: %w", err)
	}
	if last == today {
		return nil
	}

	rooms, err := s.rooms.List()
	if err != nil {
		return fmt.Errorf("list rooms: %w", err)
	}

	due := schedule.ForRooms(rooms, now, schedule.ViewWeek)
	if len(due) == 0 {
		return nil
	}

	subs, err := s.subs.List()
	if err != nil {
		return fmt.Errorf("list subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return nil
	}

	payload := Payload{
		Title: "Tasks due",
		Body:  s.reminderBody(due),
		Tag:   "task-reminder",
	}

	sent := 0
	for i := range subs {
		sub := &subs[i]
		err := s.sender.Send(sub, payload)
		if errors.Is(err, ErrExpired) {
			if delErr := s.subs.DeleteByEndpoint(sub.Endpoint); delErr != nil {
				s.logger.Error("delete expired subscription", "error", delErr)
			}
			continue
		}
		if err != nil {
			s.logger.Error("send reminder", "endpoint", sub.Endpoint, "error", err)
			continue
		}
		sent++
	}

	if sent > 0 {
		if err := s.settings.Set("last_reminder_date", today); err != nil {
			return fmt.Errorf("record reminder date: %w", err)
		}
		s.logger.Info("reminders sent", "subscriptions", sent, "due_tasks", len(due))
	}

	return nil
}

func (s *Scheduler) reminderBody(due []schedule.Entry) string {
	if len(due) == 1 {
		return fmt.Sprintf("%s is due in %s", due[0].Name, due[0].RoomName)
	}
	return fmt.Sprintf("%d tasks are due this week", len(due))
}
