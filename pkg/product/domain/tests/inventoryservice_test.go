package tests

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicolasdelfino-123/vape-store/pkg/common/domain"
	"github.com/nicolasdelfino-123/vape-store/pkg/product/domain/model"
	"github.com/nicolasdelfino-123/vape-store/pkg/product/domain/service"
)

func setup(t *testing.T) (service.InventoryService, *mockProductRepository, *mockEventDispatcher) {
	repo := &mockProductRepository{store: make(map[uuid.UUID]*model.Product)}
	dispatcher := &mockEventDispatcher{}
	inventoryService := service.NewInventoryService(repo, dispatcher)
	return inventoryService, repo, dispatcher
}

func seedProduct(repo *mockProductRepository, product *model.Product) *model.Product {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	repo.store[product.ID] = product
	return product
}

func TestApplyPurchaseDecrementsStock(t *testing.T) {
	inventoryService, repo, dispatcher := setup(t)
	product := seedProduct(repo, &model.Product{Name: "Vape Pen", StockQuantity: 10})

	applied, err := inventoryService.ApplyPurchase([]service.PurchasedLine{{
		ProductID:  product.ID.String(),
		Title:      "Vape Pen",
		Quantity:   2,
		PriceCents: 1500,
	}})

	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, product.ID, applied[0].ProductID)
	assert.Equal(t, 8, repo.store[product.ID].StockQuantity)

	require.Len(t, dispatcher.events, 1)
	event, ok := dispatcher.events[0].(model.ProductStockReconciled)
	require.True(t, ok)
	assert.Equal(t, 2, event.QuantityRequested)
	assert.Equal(t, 2, event.QuantityApplied)
	assert.Equal(t, 8, event.NewStock)
}

func TestApplyPurchaseClampsAtZero(t *testing.T) {
	inventoryService, repo, dispatcher := setup(t)
	product := seedProduct(repo, &model.Product{Name: "Last Unit", StockQuantity: 1})

	applied, err := inventoryService.ApplyPurchase([]service.PurchasedLine{{
		ProductID: product.ID.String(),
		Title:     "Last Unit",
		Quantity:  2,
	}})

	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, 2, applied[0].Quantity)
	assert.Equal(t, 0, repo.store[product.ID].StockQuantity)

	require.Len(t, dispatcher.events, 1)
	event := dispatcher.events[0].(model.ProductStockReconciled)
	assert.Equal(t, 2, event.QuantityRequested)
	assert.Equal(t, 1, event.QuantityApplied)
	assert.Equal(t, 0, event.NewStock)
}

func TestApplyPurchaseVariantDecrement(t *testing.T) {
	inventoryService, repo, _ := setup(t)
	product := seedProduct(repo, &model.Product{
		Name:          "Pod",
		StockQuantity: 10,
		FlavorEnabled: true,
		Variants: []model.Variant{
			{Name: "Mint", Active: true, StockQuantity: 6, Position: 0},
			{Name: "Berry", Active: true, StockQuantity: 4, Position: 1},
		},
	})

	_, err := inventoryService.ApplyPurchase([]service.PurchasedLine{{
		ProductID: product.ID.String(),
		Title:     "Pod",
		Quantity:  2,
		Flavor:    "Mint",
	}})

	require.NoError(t, err)
	saved := repo.store[product.ID]
	assert.Equal(t, 8, saved.StockQuantity)
	assert.Equal(t, 4, saved.Variant("Mint").StockQuantity)
	assert.Equal(t, 4, saved.Variant("Berry").StockQuantity)
}

func TestApplyPurchaseFlavorStockModeRecomputesTotal(t *testing.T) {
	inventoryService, repo, _ := setup(t)
	product := seedProduct(repo, &model.Product{
		Name:            "Derived",
		StockQuantity:   99,
		FlavorEnabled:   true,
		FlavorStockMode: true,
		Variants: []model.Variant{
			{Name: "Mint", Active: true, StockQuantity: 5},
			{Name: "Berry", Active: true, StockQuantity: 3},
			{Name: "Retired", Active: false, StockQuantity: 7},
		},
	})

	_, err := inventoryService.ApplyPurchase([]service.PurchasedLine{{
		ProductID: product.ID.String(),
		Title:     "Derived",
		Quantity:  1,
		Flavor:    "Mint",
	}})

	require.NoError(t, err)
	// 4 Mint + 3 Berry, inactive variant excluded.
	assert.Equal(t, 7, repo.store[product.ID].StockQuantity)
}

func TestApplyPurchaseUnknownFlavorLeavesVariantsAlone(t *testing.T) {
	inventoryService, repo, _ := setup(t)
	product := seedProduct(repo, &model.Product{
		Name:          "Pod",
		StockQuantity: 10,
		FlavorEnabled: true,
		Variants:      []model.Variant{{Name: "Mint", Active: true, StockQuantity: 6}},
	})

	applied, err := inventoryService.ApplyPurchase([]service.PurchasedLine{{
		ProductID: product.ID.String(),
		Title:     "Pod",
		Quantity:  1,
		Flavor:    "Mango",
	}})

	require.NoError(t, err)
	require.Len(t, applied, 1)
	saved := repo.store[product.ID]
	assert.Equal(t, 9, saved.StockQuantity)
	assert.Equal(t, 6, saved.Variant("Mint").StockQuantity)
}

func TestApplyPurchaseSkipsUnresolvableLines(t *testing.T) {
	inventoryService, repo, dispatcher := setup(t)
	product := seedProduct(repo, &model.Product{Name: "Real", StockQuantity: 5})

	applied, err := inventoryService.ApplyPurchase([]service.PurchasedLine{
		{ProductID: "not-a-uuid", Title: "Garbage", Quantity: 1},
		{ProductID: uuid.NewString(), Title: "Deleted", Quantity: 1},
		{ProductID: product.ID.String(), Title: "Real", Quantity: 1, PriceCents: 900},
	})

	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, product.ID, applied[0].ProductID)
	assert.Equal(t, 4, repo.store[product.ID].StockQuantity)
	require.Len(t, dispatcher.events, 1)
}

func TestApplyPurchaseTouchesUpdatedAt(t *testing.T) {
	inventoryService, repo, _ := setup(t)
	stale := time.Now().UTC().Add(-time.Hour)
	product := seedProduct(repo, &model.Product{Name: "Pen", StockQuantity: 3, UpdatedAt: stale})

	_, err := inventoryService.ApplyPurchase([]service.PurchasedLine{{
		ProductID: product.ID.String(),
		Quantity:  1,
	}})

	require.NoError(t, err)
	assert.True(t, repo.store[product.ID].UpdatedAt.After(stale))
}

type mockProductRepository struct {
	store map[uuid.UUID]*model.Product
}

func (m *mockProductRepository) NextID() (uuid.UUID, error) { return uuid.New(), nil }
func (m *mockProductRepository) Create(product *model.Product) error {
	m.store[product.ID] = product
	return nil
}
func (m *mockProductRepository) Update(product *model.Product) error {
	m.store[product.ID] = product
	return nil
}
func (m *mockProductRepository) Find(id uuid.UUID) (*model.Product, error) {
	if product, ok := m.store[id]; ok {
		return product, nil
	}
	return nil, model.ErrProductNotFound
}

type mockEventDispatcher struct {
	events []domain.Event
}

func (m *mockEventDispatcher) Dispatch(event domain.Event) error {
	m.events = append(m.events, event)
	return nil
}
