package entities

import (
	"time"

	"github.com/google/uuid"
)

type Media struct {
	Key       string     `gorm:"primary_key;size:255" json:"key"`
	Name      string     `gorm:"not null" json:"name"`
	URL       string     `gorm:"not null" json:"url"`
	Size      int64      `gorm:"not null" json:"size"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	CustomID  *string    `gorm:"size:255;uniqueIndex" json:"custom_id,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Media) TableName() string {
	return "media"
}
