package resellers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scraperite/storefront-backend/pkg/db/models"
)

// Repository defines persistence operations for reseller profiles.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, profile *models.ResellerProfile) (*models.ResellerProfile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.ResellerProfile, error)
	Update(ctx context.Context, profile *models.ResellerProfile) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reseller profile repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, profile *models.ResellerProfile) (*models.ResellerProfile, error) {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.ResellerProfile, error) {
	var profile models.ResellerProfile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repository) Update(ctx context.Context, profile *models.ResellerProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
