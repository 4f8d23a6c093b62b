package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PostModel mirrors the 'posts' table. Tags are stored as a JSONB array and
// the generated search_vector column is read only through raw expressions.
type PostModel struct {
	ID        uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	Title     string                      `gorm:"type:varchar(200);not null"`
	Slug      string                      `gorm:"type:varchar(200);uniqueIndex:posts_slug_key;not null"`
	Content   string                      `gorm:"type:text;not null"`
	Tags      datatypes.JSONSlice[string] `gorm:"type:jsonb;not null"`
	Published bool                        `gorm:"not null"`
	AuthorID  uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Author    *UserModel                  `gorm:"foreignKey:AuthorID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (PostModel) TableName() string {
	return "posts"
}
