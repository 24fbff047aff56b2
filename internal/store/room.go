package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tidynest/internal/model"
)

type RoomStore struct {
	db *sql.DB
}

func NewRoomStore(db *sql.DB) *RoomStore {
	return &RoomStore{db: db}
}

const roomCols = `id, name, type, icon, created_at`

func scanRoom(scanner interface{ Scan(...any) error }) (*model.Room, error) {
	var r model.Room
	var createdAt int64

	if err := scanner.Scan(&r.ID, &r.Name, &r.Type, &r.Icon, &createdAt); err != nil {
		return nil, err
	}

	r.CreatedAt = fromMillis(createdAt)
	return &r, nil
}

// Create inserts a room with a generated id and the icon derived from its
// type, and folds the creation into the stats row (roomsCreated plus the
// recomputed distinct-type count). The stats row is created on first use.
func (s *RoomStore) Create(name string, roomType model.RoomType) (*model.Room, error) {
	id := uuid.NewString()
	now := time.Now()
	icon := model.RoomIcon(roomType)

	_, err := s.db.Exec(
		`INSERT INTO rooms (id, name, type, icon, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, name, string(roomType), icon, toMillis(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert room: %w", err)
	}

	uniqueTypes, err := s.countDistinctTypes()
	if err != nil {
		return nil, err
	}

	var exists int
	err = s.db.QueryRow(`SELECT COUNT(*) FROM user_stats WHERE id = 'default'`).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check stats row: %w", err)
	}

	if exists == 0 {
		_, err = s.db.Exec(
			`INSERT INTO user_stats (id, unique_room_types, rooms_created) VALUES ('default', ?, 1)`,
			uniqueTypes,
		)
	} else {
		_, err = s.db.Exec(
			`UPDATE user_stats SET rooms_created = rooms_created + 1, unique_room_types = ? WHERE id = 'default'`,
			uniqueTypes,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("update room stats: %w", err)
	}

	return &model.Room{
		ID:        id,
		Name:      name,
		Type:      roomType,
		Icon:      icon,
		Tasks:     []model.Task{},
		CreatedAt: now,
	}, nil
}

// List returns all rooms newest first, each with its tasks populated.
func (s *RoomStore) List() ([]model.Room, error) {
	rows, err := s.db.Query(`SELECT ` + roomCols + ` FROM rooms ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []model.Room
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range rooms {
		tasks, err := listTasksByRoom(s.db, rooms[i].ID)
		if err != nil {
			return nil, err
		}
		rooms[i].Tasks = tasks
	}

	return rooms, nil
}

// GetWithTasks returns one room with its tasks populated, or ErrNotFound.
func (s *RoomStore) GetWithTasks(id string) (*model.Room, error) {
	row := s.db.QueryRow(`SELECT `+roomCols+` FROM rooms WHERE id = ?`, id)
	r, err := scanRoom(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("room %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}

	tasks, err := listTasksByRoom(s.db, id)
	if err != nil {
		return nil, err
	}
	r.Tasks = tasks

	return r, nil
}

// Delete removes a room and, via the schema's cascade, its tasks, then
// recomputes the distinct-type count from whatever rooms remain. Uses the
// same read path as GetWithTasks so missing ids fail identically.
func (s *RoomStore) Delete(id string) error {
	if _, err := s.GetWithTasks(id); err != nil {
		return err
	}

	if _, err := s.db.Exec(`DELETE FROM rooms WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete room: %w", err)
	}

	uniqueTypes, err := s.countDistinctTypes()
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`UPDATE user_stats SET unique_room_types = ? WHERE id = 'default'`, uniqueTypes)
	if err != nil {
		return fmt.Errorf("update room stats: %w", err)
	}

	return nil
}

func (s *RoomStore) countDistinctTypes() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(DISTINCT type) FROM rooms`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count room types: %w", err)
	}
	return count, nil
}
