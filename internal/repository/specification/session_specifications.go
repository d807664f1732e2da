package specification

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByRoomCode matches a session's room code case-insensitively. Codes are
// stored uppercase, so the input is normalized rather than compared with
// LOWER() on the column.
type ByRoomCode struct {
	RoomCode string
}

func (s ByRoomCode) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("room_code = ?", strings.ToUpper(strings.TrimSpace(s.RoomCode)))
}

// BySessionID filters participants or stories by their owning session.
type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// ByName matches a participant display name exactly (case-sensitive).
type ByName struct {
	Name string
}

func (s ByName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name = ?", s.Name)
}

// JoinOrder sorts participants by join time; the stable order every client
// sees after each refetch.
type JoinOrder struct{}

func (s JoinOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("joined_at ASC, id ASC")
}

// StoryOrder sorts stories by order index. Duplicate indices are possible
// transiently, so created_at and id break ties deterministically.
type StoryOrder struct{}

func (s StoryOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("order_index ASC, created_at ASC, id ASC")
}
