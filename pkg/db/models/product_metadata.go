package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/scraperite/storefront-backend/pkg/enums"
	"github.com/scraperite/storefront-backend/pkg/types"
)

// ProductMetadata carries the per-language copy layered over the Stripe
// product catalog. ProductID is the Stripe product identifier.
type ProductMetadata struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID      string         `gorm:"column:product_id;not null;uniqueIndex:uq_product_metadata_product_lang,priority:1"`
	Lang           enums.Language `gorm:"column:lang;not null;uniqueIndex:uq_product_metadata_product_lang,priority:2"`
	Title          string         `gorm:"column:title;not null"`
	Description    string         `gorm:"column:description;not null"`
	Features       []string       `gorm:"column:features;type:jsonb;serializer:json"`
	Specifications types.JSONMap  `gorm:"column:specifications;type:jsonb;serializer:json"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the singular-free name used by the storefront schema.
func (ProductMetadata) TableName() string {
	return "product_metadata"
}
