package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/scraperite/storefront-backend/pkg/db/models"
)

// View is the API-facing projection of a user.
type View struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// FromModel maps a persisted user into its API projection.
func FromModel(user *models.User) View {
	return View{
		ID:          user.ID,
		Email:       user.Email,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}
