package products

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/scraperite/storefront-backend/pkg/db/models"
	"github.com/scraperite/storefront-backend/pkg/enums"
	pkgerrors "github.com/scraperite/storefront-backend/pkg/errors"
	"github.com/scraperite/storefront-backend/pkg/logger"
	pkgredis "github.com/scraperite/storefront-backend/pkg/redis"
)

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(parts ...string) string
}

// Service serves the localized product catalog with a short-lived Redis cache
// in front of Stripe.
type Service struct {
	catalog  CatalogClient
	metadata MetadataRepository
	cache    cacheStore
	cacheTTL time.Duration
	logg     *logger.Logger
}

type ServiceParams struct {
	Catalog      CatalogClient
	MetadataRepo MetadataRepository
	Cache        cacheStore
	CacheTTL     time.Duration
	Logger       *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "catalog client required")
	}
	if params.MetadataRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "metadata repository required")
	}
	if params.Cache == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cache store required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{
		catalog:  params.Catalog,
		metadata: params.MetadataRepo,
		cache:    params.Cache,
		cacheTTL: params.CacheTTL,
		logg:     params.Logger,
	}, nil
}

// List returns every active product in the requested language.
func (s *Service) List(ctx context.Context, lang enums.Language) ([]View, error) {
	lang = lang.OrDefault()
	cacheKey := s.cache.CacheKey("products", string(lang))

	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var views []View
		if err := json.Unmarshal([]byte(cached), &views); err == nil {
			return views, nil
		}
	} else if !errors.Is(err, pkgredis.ErrNotFound) {
		s.logg.Warn(ctx, "product cache read failed")
	}

	stripeProducts, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stripe products")
	}

	localized, err := s.metadata.ListByLang(ctx, lang)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product metadata")
	}
	byProduct := make(map[string]*models.ProductMetadata, len(localized))
	for i := range localized {
		byProduct[localized[i].ProductID] = &localized[i]
	}

	views := make([]View, 0, len(stripeProducts))
	for _, p := range stripeProducts {
		views = append(views, newView(p, byProduct[p.ID]))
	}

	s.storeCache(ctx, cacheKey, views)
	return views, nil
}

// Get returns one product in the requested language.
func (s *Service) Get(ctx context.Context, productID string, lang enums.Language) (*View, error) {
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	lang = lang.OrDefault()
	cacheKey := s.cache.CacheKey("product", productID, string(lang))

	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var view View
		if err := json.Unmarshal([]byte(cached), &view); err == nil {
			return &view, nil
		}
	}

	stripeProduct, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch stripe product")
	}

	localized, err := s.metadata.FindByProductAndLang(ctx, productID, lang)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product metadata")
	}

	view := newView(stripeProduct, localized)
	s.storeCache(ctx, cacheKey, view)
	return &view, nil
}

// UpsertMetadata replaces the localized copy for one product+language pair.
func (s *Service) UpsertMetadata(ctx context.Context, input MetadataInput) error {
	row := &models.ProductMetadata{
		ProductID:      input.ProductID,
		Lang:           enums.Language(input.Lang),
		Title:          input.Title,
		Description:    input.Description,
		Features:       input.Features,
		Specifications: input.Specifications,
	}
	if err := s.metadata.Upsert(ctx, row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert product metadata")
	}
	return nil
}

func (s *Service) storeCache(ctx context.Context, key string, value any) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(encoded), s.cacheTTL); err != nil {
		s.logg.Warn(ctx, "product cache write failed")
	}
}
