package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"tidynest/internal/achievement"
	"tidynest/internal/model"
)

type AchievementStore struct {
	db *sql.DB
}

func NewAchievementStore(db *sql.DB) *AchievementStore {
	return &AchievementStore{db: db}
}

// UnlockedIDs returns the ids of every persisted unlock.
func (s *AchievementStore) UnlockedIDs() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM achievements`)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Unlocks returns the full unlock log, oldest first.
func (s *AchievementStore) Unlocks() ([]model.AchievementUnlock, error) {
	rows, err := s.db.Query(`SELECT id, unlocked_at FROM achievements ORDER BY unlocked_at ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("list unlocks: %w", err)
	}
	defer rows.Close()

	var unlocks []model.AchievementUnlock
	for rows.Next() {
		var u model.AchievementUnlock
		var unlockedAt int64
		if err := rows.Scan(&u.ID, &unlockedAt); err != nil {
			return nil, fmt.Errorf("scan unlock: %w", err)
		}
		u.UnlockedAt = fromMillis(unlockedAt)
		unlocks = append(unlocks, u)
	}
	return unlocks, rows.Err()
}

// Unlock persists an unlock and credits the catalog points to the stats
// total. Already-unlocked ids are a no-op so points are never awarded twice.
// Ids missing from the catalog are logged and ignored; they indicate a
// catalog/database drift, not a user-facing failure.
func (s *AchievementStore) Unlock(id string) error {
	var existing int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM achievements WHERE id = ?`, id).Scan(&existing)
	if err != nil {
		return fmt.Errorf("check achievement: %w", err)
	}
	if existing > 0 {
		return nil
	}

	entry := achievement.Find(id)
	if entry == nil {
		slog.Error("achievement not in catalog", "id", id)
		return nil
	}

	_, err = s.db.Exec(
		`INSERT INTO achievements (id, unlocked_at) VALUES (?, ?)`,
		id, toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("insert achievement: %w", err)
	}

	_, err = s.db.Exec(
		`UPDATE user_stats SET total_points = total_points + ? WHERE id = 'default'`,
		entry.Points,
	)
	if err != nil {
		return fmt.Errorf("credit achievement points: %w", err)
	}

	return nil
}
