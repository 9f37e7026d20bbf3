package products

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/scraperite/storefront-backend/pkg/db/models"
	"github.com/scraperite/storefront-backend/pkg/enums"
)

// MetadataRepository stores the per-language copy layered over the Stripe catalog.
type MetadataRepository interface {
	FindByProductAndLang(ctx context.Context, productID string, lang enums.Language) (*models.ProductMetadata, error)
	ListByLang(ctx context.Context, lang enums.Language) ([]models.ProductMetadata, error)
	Upsert(ctx context.Context, metadata *models.ProductMetadata) error
}

type metadataRepository struct {
	db *gorm.DB
}

// NewMetadataRepository builds a metadata repository bound to the provided DB.
func NewMetadataRepository(db *gorm.DB) MetadataRepository {
	return &metadataRepository{db: db}
}

func (r *metadataRepository) FindByProductAndLang(ctx context.Context, productID string, lang enums.Language) (*models.ProductMetadata, error) {
	var row models.ProductMetadata
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND lang = ?", productID, lang).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *metadataRepository) ListByLang(ctx context.Context, lang enums.Language) ([]models.ProductMetadata, error) {
	var rows []models.ProductMetadata
	err := r.db.WithContext(ctx).
		Where("lang = ?", lang).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *metadataRepository) Upsert(ctx context.Context, metadata *models.ProductMetadata) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}, {Name: "lang"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "description", "features", "specifications", "updated_at",
			}),
		}).
		Create(metadata).Error
}
