package service_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/catalog-service/internal/domain"
	"github.com/spec-kit/catalog-service/internal/events"
	"github.com/spec-kit/catalog-service/internal/service"
	apperrors "github.com/spec-kit/catalog-service/pkg/util"
)

// MockProductRepository implements repository.ProductRepository for testing.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newProductService(repo *MockProductRepository, dispatcher events.Dispatcher) *service.ProductService {
	return service.NewProductService(testConfig(), service.ProductDependencies{
		ProductRepo: repo,
		Dispatcher:  dispatcher,
	})
}

func TestProductService_Create(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("GetBySKU", mock.Anything, "SKU-1").Return(nil, pgx.ErrNoRows)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Product).ID = "prod-1"
		}).
		Return(nil)

	dispatcher := events.NewInMemoryDispatcher(nil)
	var published []events.Event
	dispatcher.Subscribe(events.EventProductCreated, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	svc := newProductService(repo, dispatcher)
	product, err := svc.Create(context.Background(), service.ProductCreateInput{
		SKU:        "SKU-1",
		Name:       "Widget",
		PriceCents: 1999,
	})
	require.NoError(t, err)

	assert.Equal(t, "prod-1", product.ID)
	require.Len(t, published, 1)
	assert.Equal(t, "prod-1", published[0].EntityID)
	repo.AssertExpectations(t)
}

func TestProductService_CreateDuplicateSKU(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("GetBySKU", mock.Anything, "SKU-1").Return(&domain.Product{ID: "prod-1", SKU: "SKU-1"}, nil)

	svc := newProductService(repo, nil)
	_, err := svc.Create(context.Background(), service.ProductCreateInput{SKU: "SKU-1", Name: "Widget"})
	require.Error(t, err)
	assert.Equal(t, 409, apperrors.ToDomainError(err).HTTPStatus)
}

func TestProductService_GetNotFound(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("GetByID", mock.Anything, "missing").Return(nil, pgx.ErrNoRows)

	svc := newProductService(repo, nil)
	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)
}

func TestProductService_UpdatePartial(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("GetByID", mock.Anything, "prod-1").Return(&domain.Product{
		ID:          "prod-1",
		SKU:         "SKU-1",
		Name:        "Widget",
		Description: "old",
		PriceCents:  1999,
	}, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	svc := newProductService(repo, nil)
	newPrice := int64(2499)
	product, err := svc.Update(context.Background(), "prod-1", service.ProductUpdateInput{
		PriceCents: &newPrice,
	})
	require.NoError(t, err)

	// untouched fields survive the patch
	assert.Equal(t, "SKU-1", product.SKU)
	assert.Equal(t, "Widget", product.Name)
	assert.Equal(t, "old", product.Description)
	assert.Equal(t, int64(2499), product.PriceCents)
}

func TestProductService_UpdateSKUConflict(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("GetByID", mock.Anything, "prod-1").Return(&domain.Product{ID: "prod-1", SKU: "SKU-1"}, nil)
	repo.On("GetBySKU", mock.Anything, "SKU-2").Return(&domain.Product{ID: "prod-2", SKU: "SKU-2"}, nil)

	svc := newProductService(repo, nil)
	taken := "SKU-2"
	_, err := svc.Update(context.Background(), "prod-1", service.ProductUpdateInput{SKU: &taken})
	require.Error(t, err)
	assert.Equal(t, 409, apperrors.ToDomainError(err).HTTPStatus)
}

func TestProductService_Delete(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("GetByID", mock.Anything, "prod-1").Return(&domain.Product{ID: "prod-1", SKU: "SKU-1"}, nil)
	repo.On("Delete", mock.Anything, "prod-1").Return(nil)

	dispatcher := events.NewInMemoryDispatcher(nil)
	var published []events.Event
	dispatcher.Subscribe(events.EventProductDeleted, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	svc := newProductService(repo, dispatcher)
	require.NoError(t, svc.Delete(context.Background(), "prod-1"))
	require.Len(t, published, 1)
	assert.Equal(t, events.ProductDeletedPayload{SKU: "SKU-1"}, published[0].Payload)
}

func TestProductService_DeleteNotFound(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("GetByID", mock.Anything, "missing").Return(nil, pgx.ErrNoRows)

	svc := newProductService(repo, nil)
	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)
}
