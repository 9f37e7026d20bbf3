package products

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/scraperite/storefront-backend/pkg/db/models"
	"github.com/scraperite/storefront-backend/pkg/enums"
	"github.com/scraperite/storefront-backend/pkg/logger"
	pkgredis "github.com/scraperite/storefront-backend/pkg/redis"
)

type fakeCatalog struct {
	products  []*stripe.Product
	listCalls int
	getCalls  int
	err       error
}

func (f *fakeCatalog) ListProducts(ctx context.Context) ([]*stripe.Product, error) {
	f.listCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeCatalog) GetProduct(ctx context.Context, id string) (*stripe.Product, error) {
	f.getCalls++
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, errors.New("no such product")
}

type fakeMetadataRepo struct {
	rows     []models.ProductMetadata
	upserted []*models.ProductMetadata
}

func (f *fakeMetadataRepo) FindByProductAndLang(ctx context.Context, productID string, lang enums.Language) (*models.ProductMetadata, error) {
	for i := range f.rows {
		if f.rows[i].ProductID == productID && f.rows[i].Lang == lang {
			return &f.rows[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMetadataRepo) ListByLang(ctx context.Context, lang enums.Language) ([]models.ProductMetadata, error) {
	var out []models.ProductMetadata
	for _, row := range f.rows {
		if row.Lang == lang {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeMetadataRepo) Upsert(ctx context.Context, metadata *models.ProductMetadata) error {
	f.upserted = append(f.upserted, metadata)
	return nil
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string]string{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.data[key]
	if !ok {
		return "", pkgredis.ErrNotFound
	}
	return value, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value.(string)
	return nil
}

func (c *memoryCache) CacheKey(parts ...string) string {
	return "scraperite:cache:" + strings.Join(parts, ":")
}

func bladesProduct() *stripe.Product {
	return &stripe.Product{
		ID:          "prod_blades",
		Name:        "Plastic Razor Blades",
		Description: "General purpose plastic blades",
		Images:      []string{"https://cdn.example.com/blades.jpg"},
		DefaultPrice: &stripe.Price{
			ID:         "price_blades",
			UnitAmount: 29900,
			Currency:   stripe.CurrencySEK,
		},
	}
}

func newProductsService(t *testing.T, catalog CatalogClient, repo MetadataRepository, cache cacheStore) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Catalog:      catalog,
		MetadataRepo: repo,
		Cache:        cache,
		CacheTTL:     time.Minute,
		Logger:       logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc
}

func TestListLocalizedOverridesStripeCopy(t *testing.T) {
	catalog := &fakeCatalog{products: []*stripe.Product{bladesProduct()}}
	repo := &fakeMetadataRepo{rows: []models.ProductMetadata{
		{
			ProductID:   "prod_blades",
			Lang:        enums.LanguageSwedish,
			Title:       "Skrapblad i plast",
			Description: "Skonsamma blad för känsliga ytor",
			Features:    []string{"Repar inte glas"},
		},
	}}

	svc := newProductsService(t, catalog, repo, newMemoryCache())

	views, err := svc.List(context.Background(), enums.LanguageSwedish)
	require.NoError(t, err)
	require.Len(t, views, 1)

	view := views[0]
	assert.Equal(t, "prod_blades", view.ID)
	assert.Equal(t, "Skrapblad i plast", view.Title)
	assert.Equal(t, "Skonsamma blad för känsliga ytor", view.Description)
	assert.Equal(t, []string{"Repar inte glas"}, view.Features)
	require.NotNil(t, view.DefaultPrice)
	assert.EqualValues(t, 29900, view.DefaultPrice.UnitAmount)
	assert.Equal(t, "sek", view.DefaultPrice.Currency)
}

func TestListFallsBackToStripeCopy(t *testing.T) {
	catalog := &fakeCatalog{products: []*stripe.Product{bladesProduct()}}
	svc := newProductsService(t, catalog, &fakeMetadataRepo{}, newMemoryCache())

	views, err := svc.List(context.Background(), enums.LanguageEnglish)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Plastic Razor Blades", views[0].Title)
	assert.Equal(t, "General purpose plastic blades", views[0].Description)
}

func TestListServesSecondCallFromCache(t *testing.T) {
	catalog := &fakeCatalog{products: []*stripe.Product{bladesProduct()}}
	svc := newProductsService(t, catalog, &fakeMetadataRepo{}, newMemoryCache())
	ctx := context.Background()

	_, err := svc.List(ctx, enums.LanguageEnglish)
	require.NoError(t, err)
	require.Equal(t, 1, catalog.listCalls)

	views, err := svc.List(ctx, enums.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, 1, catalog.listCalls, "second call must not reach Stripe")
	require.Len(t, views, 1)
	assert.Equal(t, "Plastic Razor Blades", views[0].Title)
}

func TestListCachesPerLanguage(t *testing.T) {
	catalog := &fakeCatalog{products: []*stripe.Product{bladesProduct()}}
	cache := newMemoryCache()
	svc := newProductsService(t, catalog, &fakeMetadataRepo{}, cache)
	ctx := context.Background()

	_, err := svc.List(ctx, enums.LanguageEnglish)
	require.NoError(t, err)
	_, err = svc.List(ctx, enums.LanguageSwedish)
	require.NoError(t, err)

	assert.Equal(t, 2, catalog.listCalls)
	assert.Contains(t, cache.data, "scraperite:cache:products:en")
	assert.Contains(t, cache.data, "scraperite:cache:products:sv")
}

func TestGetProduct(t *testing.T) {
	catalog := &fakeCatalog{products: []*stripe.Product{bladesProduct()}}
	repo := &fakeMetadataRepo{rows: []models.ProductMetadata{
		{ProductID: "prod_blades", Lang: enums.LanguageSwedish, Title: "Skrapblad i plast", Description: "Beskrivning"},
	}}
	svc := newProductsService(t, catalog, repo, newMemoryCache())
	ctx := context.Background()

	view, err := svc.Get(ctx, "prod_blades", enums.LanguageSwedish)
	require.NoError(t, err)
	assert.Equal(t, "Skrapblad i plast", view.Title)

	view, err = svc.Get(ctx, "prod_blades", enums.LanguageSwedish)
	require.NoError(t, err)
	assert.Equal(t, 1, catalog.getCalls)
	assert.Equal(t, "Skrapblad i plast", view.Title)

	_, err = svc.Get(ctx, "", enums.LanguageEnglish)
	require.Error(t, err)
}

func TestGetWithoutLocalizedCopy(t *testing.T) {
	catalog := &fakeCatalog{products: []*stripe.Product{bladesProduct()}}
	svc := newProductsService(t, catalog, &fakeMetadataRepo{}, newMemoryCache())

	view, err := svc.Get(context.Background(), "prod_blades", enums.LanguageSwedish)
	require.NoError(t, err)
	assert.Equal(t, "Plastic Razor Blades", view.Title)
}

func TestUpsertMetadata(t *testing.T) {
	repo := &fakeMetadataRepo{}
	svc := newProductsService(t, &fakeCatalog{}, repo, newMemoryCache())

	err := svc.UpsertMetadata(context.Background(), MetadataInput{
		ProductID:   "prod_blades",
		Lang:        "sv",
		Title:       "Skrapblad i plast",
		Description: "Beskrivning",
	})
	require.NoError(t, err)
	require.Len(t, repo.upserted, 1)
	assert.Equal(t, enums.LanguageSwedish, repo.upserted[0].Lang)
}
