package resellers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/scraperite/storefront-backend/pkg/db/models"
	"github.com/scraperite/storefront-backend/pkg/enums"
	pkgerrors "github.com/scraperite/storefront-backend/pkg/errors"
)

type fakeResellerRepo struct {
	byUser  map[uuid.UUID]*models.ResellerProfile
	updates int
}

func newFakeResellerRepo() *fakeResellerRepo {
	return &fakeResellerRepo{byUser: map[uuid.UUID]*models.ResellerProfile{}}
}

func (f *fakeResellerRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeResellerRepo) Create(ctx context.Context, profile *models.ResellerProfile) (*models.ResellerProfile, error) {
	profile.ID = uuid.New()
	f.byUser[profile.UserID] = profile
	return profile, nil
}

func (f *fakeResellerRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.ResellerProfile, error) {
	if profile, ok := f.byUser[userID]; ok {
		return profile, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeResellerRepo) Update(ctx context.Context, profile *models.ResellerProfile) error {
	f.byUser[profile.UserID] = profile
	f.updates++
	return nil
}

func seedProfile(t *testing.T, repo *fakeResellerRepo, userID uuid.UUID) *models.ResellerProfile {
	t.Helper()
	company := "Blad AB"
	profile, err := repo.Create(context.Background(), &models.ResellerProfile{
		UserID:      userID,
		CompanyName: &company,
		Status:      enums.ResellerStatusPending,
	})
	require.NoError(t, err)
	return profile
}

func TestGetProfile(t *testing.T) {
	repo := newFakeResellerRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	userID := uuid.New()
	seedProfile(t, repo, userID)

	view, err := svc.GetProfile(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, view.UserID)
	require.NotNil(t, view.CompanyName)
	assert.Equal(t, "Blad AB", *view.CompanyName)
	assert.Equal(t, enums.ResellerStatusPending, view.Status)
}

func TestGetProfileMissing(t *testing.T) {
	svc, err := NewService(newFakeResellerRepo())
	require.NoError(t, err)

	_, err = svc.GetProfile(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestUpdateProfilePartialEdit(t *testing.T) {
	repo := newFakeResellerRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	userID := uuid.New()
	seedProfile(t, repo, userID)

	city := "Göteborg"
	vat := "SE556677889901"
	view, err := svc.UpdateProfile(context.Background(), userID, UpdateProfileInput{
		City:      &city,
		VATNumber: &vat,
	})
	require.NoError(t, err)
	require.NotNil(t, view.City)
	assert.Equal(t, "Göteborg", *view.City)
	require.NotNil(t, view.VATNumber)
	assert.Equal(t, "SE556677889901", *view.VATNumber)
	require.NotNil(t, view.CompanyName)
	assert.Equal(t, "Blad AB", *view.CompanyName, "untouched fields survive the edit")
	assert.Equal(t, 1, repo.updates)
}

func TestUpdateProfileKeepsStatus(t *testing.T) {
	repo := newFakeResellerRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	userID := uuid.New()
	seedProfile(t, repo, userID)

	company := "Nya Blad AB"
	view, err := svc.UpdateProfile(context.Background(), userID, UpdateProfileInput{CompanyName: &company})
	require.NoError(t, err)
	assert.Equal(t, enums.ResellerStatusPending, view.Status, "self-service edits never change approval status")
}
