package resellers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/scraperite/storefront-backend/pkg/errors"
)

// Service exposes profile reads and edits for authenticated resellers.
type Service struct {
	repo Repository
}

func NewService(repo Repository) (*Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "reseller repository required")
	}
	return &Service{repo: repo}, nil
}

// GetProfile returns the profile belonging to the authenticated user.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileView, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reseller profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reseller profile")
	}
	view := NewProfileView(profile)
	return &view, nil
}

// UpdateProfile applies the provided edits to the caller's own profile.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*ProfileView, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reseller profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reseller profile")
	}

	if input.CompanyName != nil {
		profile.CompanyName = input.CompanyName
	}
	if input.ContactName != nil {
		profile.ContactName = input.ContactName
	}
	if input.PhoneNumber != nil {
		profile.PhoneNumber = input.PhoneNumber
	}
	if input.Address != nil {
		profile.Address = input.Address
	}
	if input.City != nil {
		profile.City = input.City
	}
	if input.Country != nil {
		profile.Country = input.Country
	}
	if input.VATNumber != nil {
		profile.VATNumber = input.VATNumber
	}
	if input.BusinessType != nil {
		profile.BusinessType = input.BusinessType
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update reseller profile")
	}
	view := NewProfileView(profile)
	return &view, nil
}
