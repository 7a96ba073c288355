package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/catalog-service/internal/config"
	"github.com/spec-kit/catalog-service/internal/domain"
	"github.com/spec-kit/catalog-service/internal/events"
	"github.com/spec-kit/catalog-service/internal/persistence"
	"github.com/spec-kit/catalog-service/internal/repository"
	apperrors "github.com/spec-kit/catalog-service/pkg/util"
)

const (
	productCachePrefix = "product:"
	defaultListLimit   = 50
	maxListLimit       = 200
)

// ProductCreateInput describes a full product payload.
type ProductCreateInput struct {
	SKU         string
	Name        string
	Description string
	PriceCents  int64
}

// ProductUpdateInput describes a partial product payload; nil fields are
// left unchanged.
type ProductUpdateInput struct {
	SKU         *string
	Name        *string
	Description *string
	PriceCents  *int64
}

// ProductService coordinates catalog workflows with a read-through cache.
type ProductService struct {
	products   repository.ProductRepository
	cache      *persistence.Redis
	cacheTTL   time.Duration
	dispatcher events.Dispatcher
}

// ProductDependencies bundles collaborators for the product service.
type ProductDependencies struct {
	ProductRepo repository.ProductRepository
	Cache       *persistence.Redis
	Dispatcher  events.Dispatcher
}

// NewProductService constructs the service.
func NewProductService(cfg config.Config, deps ProductDependencies) *ProductService {
	return &ProductService{
		products:   deps.ProductRepo,
		cache:      deps.Cache,
		cacheTTL:   cfg.Redis.CacheTTL(),
		dispatcher: deps.Dispatcher,
	}
}

// Create stores a new catalog entry.
func (s *ProductService) Create(ctx context.Context, input ProductCreateInput) (*domain.Product, error) {
	if _, err := s.products.GetBySKU(ctx, input.SKU); err == nil {
		return nil, apperrors.NewConflict("sku already exists", map[string]any{"sku": input.SKU})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	product := &domain.Product{
		SKU:         input.SKU,
		Name:        input.Name,
		Description: input.Description,
		PriceCents:  input.PriceCents,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventProductCreated, product.ID, events.ProductCreatedPayload{
		SKU:        product.SKU,
		Name:       product.Name,
		PriceCents: product.PriceCents,
	})
	return product, nil
}

// Get returns a product by id, consulting the cache first.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	if cached, err := s.cache.Get(ctx, productCachePrefix+id); err == nil {
		var product domain.Product
		if err := json.Unmarshal(cached, &product); err == nil {
			return &product, nil
		}
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product", map[string]any{"id": id})
		}
		return nil, err
	}

	if payload, err := json.Marshal(product); err == nil {
		_ = s.cache.Set(ctx, productCachePrefix+id, payload, s.cacheTTL)
	}
	return product, nil
}

// List returns a page of products.
func (s *ProductService) List(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.products.List(ctx, limit, offset)
}

// Replace overwrites every field of an existing product.
func (s *ProductService) Replace(ctx context.Context, id string, input ProductCreateInput) (*domain.Product, error) {
	product, err := s.getStored(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.SKU != product.SKU {
		if err := s.ensureSKUFree(ctx, input.SKU, id); err != nil {
			return nil, err
		}
	}

	oldPrice := product.PriceCents
	product.SKU = input.SKU
	product.Name = input.Name
	product.Description = input.Description
	product.PriceCents = input.PriceCents

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	s.publish(ctx, events.EventProductUpdated, product.ID, events.ProductUpdatedPayload{
		SKU:           product.SKU,
		Name:          product.Name,
		OldPriceCents: oldPrice,
		NewPriceCents: product.PriceCents,
	})
	return product, nil
}

// Update applies the non-nil fields of a partial payload.
func (s *ProductService) Update(ctx context.Context, id string, input ProductUpdateInput) (*domain.Product, error) {
	product, err := s.getStored(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.SKU != nil && *input.SKU != product.SKU {
		if err := s.ensureSKUFree(ctx, *input.SKU, id); err != nil {
			return nil, err
		}
	}

	oldPrice := product.PriceCents
	if input.SKU != nil {
		product.SKU = *input.SKU
	}
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.PriceCents != nil {
		product.PriceCents = *input.PriceCents
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	s.publish(ctx, events.EventProductUpdated, product.ID, events.ProductUpdatedPayload{
		SKU:           product.SKU,
		Name:          product.Name,
		OldPriceCents: oldPrice,
		NewPriceCents: product.PriceCents,
	})
	return product, nil
}

// Delete removes a product and drops its cache entry.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	product, err := s.getStored(ctx, id)
	if err != nil {
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("product", map[string]any{"id": id})
		}
		return err
	}
	s.invalidate(ctx, id)
	s.publish(ctx, events.EventProductDeleted, id, events.ProductDeletedPayload{SKU: product.SKU})
	return nil
}

func (s *ProductService) getStored(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product", map[string]any{"id": id})
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) ensureSKUFree(ctx context.Context, sku, excludeID string) error {
	existing, err := s.products.GetBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	if existing.ID != excludeID {
		return apperrors.NewConflict("sku already exists", map[string]any{"sku": sku})
	}
	return nil
}

func (s *ProductService) invalidate(ctx context.Context, id string) {
	_ = s.cache.Delete(ctx, productCachePrefix+id)
}

func (s *ProductService) publish(ctx context.Context, eventType events.EventType, entityID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		EntityID:  entityID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
