package push

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"tidynest/internal/model"
)

type fakeSender struct {
	sent      []Payload
	endpoints []string
	fail      map[string]error
}

func (f *fakeSender) Send(sub *model.PushSubscription, payload Payload) error {
	if err, ok := f.fail[sub.Endpoint]; ok {
		return err
	}
	f.sent = append(f.sent, payload)
	f.endpoints = append(f.endpoints, sub.Endpoint)
	return nil
}

type fakeSubs struct {
	subs    []model.PushSubscription
	deleted []string
}

func (f *fakeSubs) List() ([]model.PushSubscription, error) { return f.subs, nil }

func (f *fakeSubs) DeleteByEndpoint(endpoint string) error {
	f.deleted = append(f.deleted, endpoint)
	return nil
}

type fakeRooms struct {
	rooms []model.Room
}

func (f *fakeRooms) List() ([]model.Room, error) { return f.rooms, nil }

type fakeSettings struct {
	values map[string]string
}

func (f *fakeSettings) Get(key string) (string, error) { return f.values[key], nil }

func (f *fakeSettings) GetBool(key string) (bool, error) { return f.values[key] == "true", nil }

func (f *fakeSettings) Set(key, value string) error {
	f.values[key] = value
	return nil
}

func newTestScheduler(sender *fakeSender, subs *fakeSubs, rooms *fakeRooms, settings *fakeSettings) *Scheduler {
	logger := slog.New(slog.DiscardHandler)
	return NewScheduler(sender, subs, rooms, settings, time.Hour, logger)
}

func roomWithDueTask(name string) model.Room {
	return model.Room{
		ID:   "room-1",
		Name: name,
		Type: model.RoomTypeKitchen,
		Icon: model.RoomIcon(model.RoomTypeKitchen),
		Tasks: []model.Task{{
			ID:     "task-1",
			RoomID: "room-1",
			Name:   "Clean counters",
			Config: model.TaskConfig{
				Frequency: model.Frequency{Value: 1, Unit: model.FrequencyDays},
				Effort:    2,
			},
		}},
	}
}

func TestTickSendsReminderForDueTasks(t *testing.T) {
	sender := &fakeSender{}
	subs := &fakeSubs{subs: []model.PushSubscription{
		{Endpoint: "https://push.example/a"},
		{Endpoint: "https://push.example/b"},
	}}
	rooms := &fakeRooms{rooms: []model.Room{roomWithDueTask("Kitchen")}}
	settings := &fakeSettings{values: map[string]string{"notifications_enabled": "true"}}

	s := newTestScheduler(sender, subs, rooms, settings)

	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	if err := s.Tick(now); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	if len(sender.sent) != 2 {
		t.Fatalf("sent %d notifications, want 2", len(sender.sent))
	}
	if sender.sent[0].Body != "Clean counters is due in Kitchen" {
		t.Errorf("body = %q", sender.sent[0].Body)
	}
	if got := settings.values["last_reminder_date"]; got != "2025-06-10" {
		t.Errorf("last_reminder_date = %q, want 2025-06-10", got)
	}
}

func TestTickSkipsWhenNotificationsDisabled(t *testing.T) {
	sender := &fakeSender{}
	subs := &fakeSubs{subs: []model.PushSubscription{{Endpoint: "https://push.example/a"}}}
	rooms := &fakeRooms{rooms: []model.Room{roomWithDueTask("Kitchen")}}
	settings := &fakeSettings{values: map[string]string{"notifications_enabled": "false"}}

	s := newTestScheduler(sender, subs, rooms, settings)

	if err := s.Tick(time.Now()); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if len(sender.sent) != 0 {
		t.Errorf("sent %d notifications, want 0", len(sender.sent))
	}
}

func TestTickSkipsDuringVacation(t *testing.T) {
	sender := &fakeSender{}
	subs := &fakeSubs{subs: []model.PushSubscription{{Endpoint: "https://push.example/a"}}}
	rooms := &fakeRooms{rooms: []model.Room{roomWithDueTask("Kitchen")}}
	settings := &fakeSettings{values: map[string]string{
		"notifications_enabled": "true",
		"vacation_mode":         "true",
	}}

	s := newTestScheduler(sender, subs, rooms, settings)

	if err := s.Tick(time.Now()); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if len(sender.sent) != 0 {
		t.Errorf("sent %d notifications, want 0", len(sender.sent))
	}
}

func TestTickSendsAtMostOncePerDay(t *testing.T) {
	sender := &fakeSender{}
	subs := &fakeSubs{subs: []model.PushSubscription{{Endpoint: "https://push.example/a"}}}
	rooms := &fakeRooms{rooms: []model.Room{roomWithDueTask("Kitchen")}}
	settings := &fakeSettings{values: map[string]string{"notifications_enabled": "true"}}

	s := newTestScheduler(sender, subs, rooms, settings)

	morning := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	if err := s.Tick(morning); err != nil {
		t.Fatalf("first Tick() error = %v", err)
	}
	if err := s.Tick(morning.Add(4 * time.Hour)); err != nil {
		t.Fatalf("second Tick() error = %v", err)
	}
	if len(sender.sent) != 1 {
		t.Errorf("sent %d notifications across both ticks, want 1", len(sender.sent))
	}

	nextDay := morning.AddDate(0, 0, 1)
	if err := s.Tick(nextDay); err != nil {
		t.Fatalf("next-day Tick() error = %v", err)
	}
	if len(sender.sent) != 2 {
		t.Errorf("sent %d notifications after next day, want 2", len(sender.sent))
	}
}

func TestTickDeletesExpiredSubscriptions(t *testing.T) {
	sender := &fakeSender{fail: map[string]error{
		"https://push.example/gone": ErrExpired,
	}}
	subs := &fakeSubs{subs: []model.PushSubscription{
		{Endpoint: "https://push.example/gone"},
		{Endpoint: "https://push.example/live"},
	}}
	rooms := &fakeRooms{rooms: []model.Room{roomWithDueTask("Kitchen")}}
	settings := &fakeSettings{values: map[string]string{"notifications_enabled": "true"}}

	s := newTestScheduler(sender, subs, rooms, settings)

	if err := s.Tick(time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	if len(subs.deleted) != 1 || subs.deleted[0] != "https://push.example/gone" {
		t.Errorf("deleted = %v, want the expired endpoint", subs.deleted)
	}
	if len(sender.endpoints) != 1 || sender.endpoints[0] != "https://push.example/live" {
		t.Errorf("sent to %v, want only the live endpoint", sender.endpoints)
	}
}

func TestTickKeepsDateWhenAllSendsFail(t *testing.T) {
	sender := &fakeSender{fail: map[string]error{
		"https://push.example/a": errors.New("503"),
	}}
	subs := &fakeSubs{subs: []model.PushSubscription{{Endpoint: "https://push.example/a"}}}
	rooms := &fakeRooms{rooms: []model.Room{roomWithDueTask("Kitchen")}}
	settings := &fakeSettings{values: map[string]string{"notifications_enabled": "true"}}

	s := newTestScheduler(sender, subs, rooms, settings)

	if err := s.Tick(time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if got := settings.values["last_reminder_date"]; got != "" {
		t.Errorf("last_reminder_date = %q, want empty so the next tick retries", got)
	}
}
