package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/scraperite/storefront-backend/pkg/enums"
)

// ResellerProfile holds the B2B onboarding data captured at signup. Accounts
// stay in status "pending" until approved out of band.
type ResellerProfile struct {
	ID           uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID            `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	CompanyName  *string              `gorm:"column:company_name"`
	ContactName  *string              `gorm:"column:contact_name"`
	PhoneNumber  *string              `gorm:"column:phone_number"`
	Address      *string              `gorm:"column:address"`
	City         *string              `gorm:"column:city"`
	Country      *string              `gorm:"column:country"`
	VATNumber    *string              `gorm:"column:vat_number"`
	BusinessType *string              `gorm:"column:business_type"`
	Status       enums.ResellerStatus `gorm:"column:status;not null;default:'pending'"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
