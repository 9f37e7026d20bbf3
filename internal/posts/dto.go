package posts

import (
	"time"

	"github.com/google/uuid"

	"github.com/scraperite/storefront-backend/pkg/db/models"
)

// View is the API-facing projection of a post.
type View struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"authorId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"imageUrl,omitempty"`
	VideoURL  *string   `json:"videoUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateInput carries the fields for a new post.
type CreateInput struct {
	Title    string  `json:"title" validate:"required,max=300"`
	Content  string  `json:"content" validate:"required"`
	ImageURL *string `json:"imageUrl" validate:"omitempty,url"`
	VideoURL *string `json:"videoUrl" validate:"omitempty,url"`
}

// UpdateInput carries the editable fields; nil means leave unchanged.
type UpdateInput struct {
	Title    *string `json:"title" validate:"omitempty,max=300"`
	Content  *string `json:"content"`
	ImageURL *string `json:"imageUrl" validate:"omitempty,url"`
	VideoURL *string `json:"videoUrl" validate:"omitempty,url"`
}

// ListResult wraps a page of posts plus the cursor for the next page.
type ListResult struct {
	Posts      []View `json:"posts"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// NewView maps a persisted post into its API projection.
func NewView(post *models.Post) View {
	return View{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		Title:     post.Title,
		Content:   post.Content,
		ImageURL:  post.ImageURL,
		VideoURL:  post.VideoURL,
		CreatedAt: post.CreatedAt,
	}
}
