package model

import "time"

// AchievementUnlock is one row of the append-only unlock log. The id refers
// to an entry in the static achievement catalog; an id appears at most once.
type AchievementUnlock struct {
	ID         string    `json:"id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}
