package model

import (
	"time"

	"github.com/google/uuid"
)

type Story struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId   uuid.UUID `gorm:"type:uuid;not null;index"`
	Session     *Session  `gorm:"foreignKey:SessionId;constraint:OnDelete:CASCADE"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description *string   `gorm:"type:text"`
	Status      string    `gorm:"type:story_status;not null;default:'pending'"`
	OrderIndex  int       `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Story) TableName() string {
	return "stories"
}
