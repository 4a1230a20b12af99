package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/nicolasdelfino-123/vape-store/pkg/common/domain"
	"github.com/nicolasdelfino-123/vape-store/pkg/order/domain/model"
)

// PurchasedItem is a resolved, stock-reconciled line to be recorded on the
// order.
type PurchasedItem struct {
	ProductID  uuid.UUID
	Title      string
	Quantity   int
	PriceCents int64
	Flavor     string
}

type NewOrderInput struct {
	PaymentID         string
	ExternalReference string
	CustomerEmail     string
	CustomerName      string
	ShippingAddress   string
	PaymentMethod     string
	// FallbackTotalCents is the gateway transaction amount, used only when
	// the payment carried no resolvable line items.
	FallbackTotalCents int64
}

type OrderService interface {
	CreateFromPayment(userID *uuid.UUID, input NewOrderInput, items []PurchasedItem) (*model.Order, error)
}

func NewOrderService(repo model.OrderRepository, dispatcher domain.EventDispatcher) OrderService {
	return &orderService{repo: repo, dispatcher: dispatcher}
}

type orderService struct {
	repo       model.OrderRepository
	dispatcher domain.EventDispatcher
}

// CreateFromPayment persists the order header and its line items as one
// unit. The total is the sum of the recorded lines, not the gateway figure,
// so an order can never disagree with its own items.
func (s *orderService) CreateFromPayment(userID *uuid.UUID, input NewOrderInput, items []PurchasedItem) (*model.Order, error) {
	orderID, err := s.repo.NextID()
	if err != nil {
		return nil, err
	}

	var total int64
	lineItems := make([]model.LineItem, 0, len(items))
	for _, item := range items {
		itemID, err := s.repo.NextID()
		if err != nil {
			return nil, err
		}
		total += int64(item.Quantity) * item.PriceCents
		lineItems = append(lineItems, model.LineItem{
			ID:         itemID,
			OrderID:    orderID,
			ProductID:  item.ProductID,
			Title:      item.Title,
			Quantity:   item.Quantity,
			PriceCents: item.PriceCents,
			Flavor:     item.Flavor,
		})
	}
	if len(lineItems) == 0 {
		total = input.FallbackTotalCents
	}

	now := time.Now().UTC()
	order := &model.Order{
		ID:                orderID,
		UserID:            userID,
		TotalCents:        total,
		Status:            model.Paid,
		ShippingAddress:   input.ShippingAddress,
		PaymentMethod:     input.PaymentMethod,
		PaymentID:         input.PaymentID,
		ExternalReference: input.ExternalReference,
		CustomerEmail:     input.CustomerEmail,
		CustomerName:      input.CustomerName,
		Items:             lineItems,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Create(order); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.OrderReconciled{
		OrderID:    orderID,
		PaymentID:  input.PaymentID,
		TotalCents: total,
		ItemCount:  len(lineItems),
	})

	return order, nil
}
