package model

import (
	"time"

	"github.com/google/uuid"
)

type Participant struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId   uuid.UUID `gorm:"type:uuid;not null;index"`
	Session     *Session  `gorm:"foreignKey:SessionId;constraint:OnDelete:CASCADE"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Avatar      *string   `gorm:"type:varchar(255)"`
	IsOrganizer bool      `gorm:"not null;default:false"`
	HasVoted    bool      `gorm:"not null;default:false"`
	Vote        *string   `gorm:"type:varchar(32)"`
	JoinedAt    time.Time `gorm:"autoCreateTime"`
	LastSeen    time.Time `gorm:"not null"`
}

func (Participant) TableName() string {
	return "participants"
}
