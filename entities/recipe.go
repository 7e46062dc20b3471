package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Ingredient struct {
	Content string `json:"content"`
}

type RecipeBody struct {
	Ingredients []Ingredient `json:"ingredients"`
	Content     string       `json:"content"`
}

type Recipe struct {
	ID       uuid.UUID                      `gorm:"type:uuid;primary_key" json:"id"`
	Title    string                         `gorm:"not null" json:"title"`
	Body     datatypes.JSONType[RecipeBody] `gorm:"not null" json:"body"`
	UserID   *uuid.UUID                     `gorm:"type:uuid;index" json:"user_id,omitempty"`
	MediaKey string                         `gorm:"size:255;not null;uniqueIndex" json:"media_key"`

	// Lowercased title, ingredients and visible content text.
	SearchText string `gorm:"not null;default:''" json:"-"`

	// Computed by the feed and detail queries, never stored.
	LikeCount    int64 `gorm:"->;-:migration" json:"likes"`
	UserHasLiked bool  `gorm:"->;-:migration" json:"user_has_liked"`

	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
	Media *Media `gorm:"foreignKey:MediaKey;references:Key" json:"media,omitempty"`
	Timestamp
}

// Like is the users-to-recipes join row. The composite primary key keeps one
// row per (user, recipe).
type Like struct {
	UserID    uuid.UUID `gorm:"type:uuid;primary_key" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;primary_key" json:"recipe_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Like) TableName() string {
	return "likes"
}
