package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/nicolasdelfino-123/vape-store/pkg/common/domain"
	"github.com/nicolasdelfino-123/vape-store/pkg/product/domain/model"
)

// PurchasedLine is one paid line item as extracted from the payment
// metadata. ProductID is the raw gateway string and may not resolve.
type PurchasedLine struct {
	ProductID  string
	Title      string
	Quantity   int
	PriceCents int64
	Flavor     string
}

// AppliedLine is a purchased line whose product resolved and whose stock
// decrement has been applied.
type AppliedLine struct {
	ProductID  uuid.UUID
	Title      string
	Quantity   int
	PriceCents int64
	Flavor     string
}

// InventoryService decrements stock for an already-completed payment. It is
// a post-hoc reconciliation, not a reservation: decrements clamp at zero and
// a shortfall is absorbed rather than rejected.
type InventoryService interface {
	// ApplyPurchase decrements stock per line and returns the lines whose
	// product resolved. Lines referencing unknown products are logged and
	// skipped, never aborting the purchase.
	ApplyPurchase(lines []PurchasedLine) ([]AppliedLine, error)
}

func NewInventoryService(repo model.ProductRepository, dispatcher domain.EventDispatcher) InventoryService {
	return &inventoryService{repo: repo, dispatcher: dispatcher}
}

type inventoryService struct {
	repo       model.ProductRepository
	dispatcher domain.EventDispatcher
}

func (s *inventoryService) ApplyPurchase(lines []PurchasedLine) ([]AppliedLine, error) {
	applied := make([]AppliedLine, 0, len(lines))
	for _, line := range lines {
		productID, ok, err := s.applyLine(line)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		applied = append(applied, AppliedLine{
			ProductID:  productID,
			Title:      line.Title,
			Quantity:   line.Quantity,
			PriceCents: line.PriceCents,
			Flavor:     line.Flavor,
		})
	}
	return applied, nil
}

func (s *inventoryService) applyLine(line PurchasedLine) (uuid.UUID, bool, error) {
	productID, err := uuid.Parse(line.ProductID)
	if err != nil {
		log.WithField("product_id", line.ProductID).Warn("skipping line item with malformed product id")
		return uuid.Nil, false, nil
	}

	product, err := s.repo.Find(productID)
	if errors.Is(err, model.ErrProductNotFound) {
		log.WithField("product_id", line.ProductID).Warn("skipping line item for unknown product")
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}

	appliedQty := decrement(&product.StockQuantity, line.Quantity)

	if line.Flavor != "" {
		if variant := product.Variant(line.Flavor); variant != nil {
			decrement(&variant.StockQuantity, line.Quantity)
		} else {
			log.WithFields(log.Fields{"product_id": line.ProductID, "flavor": line.Flavor}).
				Warn("purchased flavor not in variant catalog")
		}
	}

	if product.FlavorStockMode {
		product.StockQuantity = product.ActiveVariantStock()
	}

	product.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(product); err != nil {
		return uuid.Nil, false, err
	}

	_ = s.dispatcher.Dispatch(model.ProductStockReconciled{
		ProductID:         productID,
		Flavor:            line.Flavor,
		QuantityRequested: line.Quantity,
		QuantityApplied:   appliedQty,
		NewStock:          product.StockQuantity,
	})

	return productID, true, nil
}

// decrement applies a clamped stock decrement and reports how much of the
// requested quantity was actually covered.
func decrement(stock *int, quantity int) int {
	applied := quantity
	if applied > *stock {
		applied = *stock
	}
	*stock -= applied
	return applied
}
