package model

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	Id             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RoomCode       string     `gorm:"type:varchar(12);not null;uniqueIndex"`
	Name           string     `gorm:"type:varchar(255);not null"`
	OrganizerId    uuid.UUID  `gorm:"type:uuid;not null"`
	CurrentStoryId *uuid.UUID `gorm:"type:uuid"`
	VotesRevealed  bool       `gorm:"not null;default:false"`
	CreatedAt      time.Time  `gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime"`
}

func (Session) TableName() string {
	return "sessions"
}
