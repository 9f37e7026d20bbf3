package resellers

import (
	"time"

	"github.com/google/uuid"

	"github.com/scraperite/storefront-backend/pkg/db/models"
	"github.com/scraperite/storefront-backend/pkg/enums"
)

// ProfileView is the API-facing projection of a reseller profile.
type ProfileView struct {
	ID           uuid.UUID            `json:"id"`
	UserID       uuid.UUID            `json:"userId"`
	CompanyName  *string              `json:"companyName,omitempty"`
	ContactName  *string              `json:"contactName,omitempty"`
	PhoneNumber  *string              `json:"phoneNumber,omitempty"`
	Address      *string              `json:"address,omitempty"`
	City         *string              `json:"city,omitempty"`
	Country      *string              `json:"country,omitempty"`
	VATNumber    *string              `json:"vatNumber,omitempty"`
	BusinessType *string              `json:"businessType,omitempty"`
	Status       enums.ResellerStatus `json:"status"`
	CreatedAt    time.Time            `json:"createdAt"`
}

// UpdateProfileInput carries the fields a reseller may edit. Status is
// deliberately absent; approval happens out of band.
type UpdateProfileInput struct {
	CompanyName  *string `json:"companyName" validate:"omitempty,max=200"`
	ContactName  *string `json:"contactName" validate:"omitempty,max=200"`
	PhoneNumber  *string `json:"phoneNumber" validate:"omitempty,max=50"`
	Address      *string `json:"address" validate:"omitempty,max=500"`
	City         *string `json:"city" validate:"omitempty,max=100"`
	Country      *string `json:"country" validate:"omitempty,max=100"`
	VATNumber    *string `json:"vatNumber" validate:"omitempty,max=50"`
	BusinessType *string `json:"businessType" validate:"omitempty,max=100"`
}

// NewProfileView maps a persisted profile into its API projection.
func NewProfileView(profile *models.ResellerProfile) ProfileView {
	return ProfileView{
		ID:           profile.ID,
		UserID:       profile.UserID,
		CompanyName:  profile.CompanyName,
		ContactName:  profile.ContactName,
		PhoneNumber:  profile.PhoneNumber,
		Address:      profile.Address,
		City:         profile.City,
		Country:      profile.Country,
		VATNumber:    profile.VATNumber,
		BusinessType: profile.BusinessType,
		Status:       profile.Status,
		CreatedAt:    profile.CreatedAt,
	}
}
