package cart

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/scraperite/storefront-backend/pkg/errors"
	pkgredis "github.com/scraperite/storefront-backend/pkg/redis"
)

const cartTTL = 30 * 24 * time.Hour

// Item is one cart line. Price is in major currency units, matching what the
// storefront displays and what checkout accepts.
type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	PriceID     string          `json:"priceId,omitempty"`
	Image       string          `json:"image,omitempty"`
	Quantity    int64           `json:"quantity"`
}

// Cart is the stored state for one cart token.
type Cart struct {
	Items []Item `json:"items"`
}

type cartStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(cartToken string) string
}

// Service keeps per-token carts in Redis. Adding an item that is already in
// the cart merges quantities instead of duplicating the line.
type Service struct {
	store cartStore
}

func NewService(store cartStore) (*Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart store required")
	}
	return &Service{store: store}, nil
}

// Get returns the cart for the token, empty if none exists yet.
func (s *Service) Get(ctx context.Context, token string) (*Cart, error) {
	if err := validateToken(token); err != nil {
		return nil, err
	}

	raw, err := s.store.Get(ctx, s.store.CartKey(token))
	if err != nil {
		if errors.Is(err, pkgredis.ErrNotFound) {
			return &Cart{Items: []Item{}}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cart")
	}
	if cart.Items == nil {
		cart.Items = []Item{}
	}
	return &cart, nil
}

// AddItem appends the item, merging quantity when the product already exists.
func (s *Service) AddItem(ctx context.Context, token string, item Item) (*Cart, error) {
	if item.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	cart, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ID == item.ID {
			cart.Items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, item)
	}

	if err := s.save(ctx, token, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity sets the quantity for one line; zero removes it.
func (s *Service) UpdateQuantity(ctx context.Context, token, itemID string, quantity int64) (*Cart, error) {
	if itemID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}

	cart, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	found := false
	items := cart.Items[:0]
	for _, line := range cart.Items {
		if line.ID == itemID {
			found = true
			if quantity == 0 {
				continue
			}
			line.Quantity = quantity
		}
		items = append(items, line)
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
	}
	cart.Items = items

	if err := s.save(ctx, token, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem drops one line from the cart.
func (s *Service) RemoveItem(ctx context.Context, token, itemID string) (*Cart, error) {
	return s.UpdateQuantity(ctx, token, itemID, 0)
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context, token string) error {
	if err := validateToken(token); err != nil {
		return err
	}
	if err := s.store.Del(ctx, s.store.CartKey(token)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *Service) save(ctx context.Context, token string, cart *Cart) error {
	encoded, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.store.Set(ctx, s.store.CartKey(token), string(encoded), cartTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store cart")
	}
	return nil
}

func validateToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	return nil
}
