package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is an authored content row; mutations are restricted to the author.
type Post struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AuthorID  uuid.UUID `gorm:"column:author_id;type:uuid;not null;index"`
	Title     string    `gorm:"column:title;not null"`
	Content   string    `gorm:"column:content;not null"`
	ImageURL  *string   `gorm:"column:image_url"`
	VideoURL  *string   `gorm:"column:video_url"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
