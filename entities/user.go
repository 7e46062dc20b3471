package entities

import (
	"github.com/google/uuid"
)

// User usernames are unique case-insensitively; the migration adds a unique
// index on LOWER(username) next to this column.
type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Username       string    `gorm:"size:15;not null" json:"username"`
	HashedPassword string    `gorm:"not null" json:"-"`

	Timestamp
}
