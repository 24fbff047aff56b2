package model

import "time"

type FrequencyUnit string

const (
	FrequencyDays   FrequencyUnit = "days"
	FrequencyWeeks  FrequencyUnit = "weeks"
	FrequencyMonths FrequencyUnit = "months"
)

type Frequency struct {
	Value int           `json:"value"`
	Unit  FrequencyUnit `json:"unit"`
}

// TaskConfig holds the user-editable parameters of a task. Effort doubles as
// the point value awarded on completion. CurrentState is the 0-100 cleanliness
// gauge; completion forces it back to 100.
type TaskConfig struct {
	Frequency    Frequency `json:"frequency"`
	Effort       int       `json:"effort"`
	CurrentState int       `json:"current_state"`
}

type Task struct {
	ID              string     `json:"id"`
	RoomID          string     `json:"room_id"`
	Name            string     `json:"name"`
	Config          TaskConfig `json:"config"`
	IsCompleted     bool       `json:"is_completed"`
	LastCompletedAt *time.Time `json:"last_completed_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

// PredefinedTasks is the suggestion list shown when adding tasks to a room.
var PredefinedTasks = []string{
	"Change bed sheets",
	"Clean under bed",
	"Clean bedside table",
	"Tidy up wardrobe",
	"Clean TV",
	"Wash pillows",
	"Wash blankets",
	"Wash mattress pad",
	"Organize drawers",
	"Dust surfaces",
}
