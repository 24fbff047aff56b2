package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Known preference keys and their defaults. Get falls back to the default
// until the user writes a value.
var settingDefaults = map[string]string{
	"sounds_enabled":        "true",
	"dark_mode":             "false",
	"language":              "English",
	"notifications_enabled": "false",
	"vacation_mode":         "false",
	"gamification_enabled":  "true",
	"last_reminder_date":    "",
}

type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get returns the stored value for key, or its default when unset. Unknown
// keys are an error.
func (s *SettingsStore) Get(key string) (string, error) {
	def, known := settingDefaults[key]

	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		if !known {
			return "", fmt.Errorf("setting %q not found", key)
		}
		return def, nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

// GetBool reads a boolean-valued setting; anything other than "true" is false.
func (s *SettingsStore) GetBool(key string) (bool, error) {
	value, err := s.Get(key)
	if err != nil {
		return false, err
	}
	return value == "true", nil
}

// GetAll returns every known setting, merging stored values over defaults.
func (s *SettingsStore) GetAll() (map[string]string, error) {
	settings := make(map[string]string, len(settingDefaults))
	for key, def := range settingDefaults {
		settings[key] = def
	}

	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("get all settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

// Set upserts a setting value.
func (s *SettingsStore) Set(key, value string) error {
	if _, known := settingDefaults[key]; !known {
		return fmt.Errorf("setting %q not found", key)
	}

	_, err := s.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}
