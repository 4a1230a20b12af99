package reconciliation

import (
	"context"
	"errors"
	"math"
	"strconv"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/nicolasdelfino-123/vape-store/pkg/common/domain"
	gatewaymodel "github.com/nicolasdelfino-123/vape-store/pkg/gateway/domain/model"
	notificationservice "github.com/nicolasdelfino-123/vape-store/pkg/notification/domain/service"
	ordermodel "github.com/nicolasdelfino-123/vape-store/pkg/order/domain/model"
	orderservice "github.com/nicolasdelfino-123/vape-store/pkg/order/domain/service"
	productmodel "github.com/nicolasdelfino-123/vape-store/pkg/product/domain/model"
	productservice "github.com/nicolasdelfino-123/vape-store/pkg/product/domain/service"
	usermodel "github.com/nicolasdelfino-123/vape-store/pkg/user/domain/model"
	userservice "github.com/nicolasdelfino-123/vape-store/pkg/user/domain/service"
)

const (
	// NotificationTypePayment is the only webhook notification type that
	// triggers a payment lookup.
	NotificationTypePayment = "payment"

	paymentMethodTag = "mercadopago"
)

// Repositories are the stores that participate in one reconciliation
// transaction.
type Repositories interface {
	Orders() ordermodel.OrderRepository
	Products() productmodel.ProductRepository
}

// UnitOfWork runs fn against repositories bound to a transaction opened for
// this invocation only. Any error rolls the whole unit back.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(r Repositories) error) error
}

// Service converts an asynchronous payment notification into a durable,
// correctly-priced order.
type Service interface {
	ProcessNotification(ctx context.Context, notificationType, paymentID string) error
}

func NewService(
	gateway gatewaymodel.PaymentProvider,
	identity userservice.IdentityService,
	orders ordermodel.OrderRepository,
	uow UnitOfWork,
	dispatcher domain.EventDispatcher,
	notifier notificationservice.NotificationService,
) Service {
	return &service{
		gateway:    gateway,
		identity:   identity,
		orders:     orders,
		uow:        uow,
		dispatcher: dispatcher,
		notifier:   notifier,
	}
}

type service struct {
	gateway    gatewaymodel.PaymentProvider
	identity   userservice.IdentityService
	orders     ordermodel.OrderRepository
	uow        UnitOfWork
	dispatcher domain.EventDispatcher
	notifier   notificationservice.NotificationService
}

func (s *service) ProcessNotification(ctx context.Context, notificationType, paymentID string) error {
	if notificationType != NotificationTypePayment {
		log.WithField("type", notificationType).Debug("ignoring non-payment notification")
		return nil
	}
	if paymentID == "" {
		log.Warn("payment notification without payment id")
		return nil
	}

	payment, err := s.gateway.FetchPayment(ctx, paymentID)
	if err != nil {
		return err
	}

	if payment.Status != gatewaymodel.StatusApproved {
		log.WithFields(log.Fields{"payment_id": paymentID, "status": payment.Status}).
			Info("payment not approved, nothing to reconcile")
		return nil
	}

	return s.reconcile(ctx, payment)
}

func (s *service) reconcile(ctx context.Context, payment *gatewaymodel.PaymentRecord) error {
	paymentID := strconv.FormatInt(payment.ID, 10)

	// Fast path only; the unique payment_id index is the real arbiter.
	if _, err := s.orders.FindByPaymentID(paymentID); err == nil {
		log.WithField("payment_id", paymentID).Info("payment already reconciled")
		return nil
	} else if !errors.Is(err, ordermodel.ErrOrderNotFound) {
		return err
	}

	buyer, err := s.identity.ResolveBuyer(payment.ExternalReference, userservice.PayerInfo{
		Email:      payment.Payer.Email,
		FirstName:  payment.Payer.FirstName,
		LastName:   payment.Payer.LastName,
		StreetName: payment.Payer.Address.StreetName,
	})
	if err != nil {
		return err
	}

	var userID *uuid.UUID
	if buyer != nil {
		userID = &buyer.ID
	}

	lines := purchasedLines(payment)

	var created *ordermodel.Order
	err = s.uow.Execute(ctx, func(r Repositories) error {
		inventory := productservice.NewInventoryService(r.Products(), s.dispatcher)
		applied, err := inventory.ApplyPurchase(lines)
		if err != nil {
			return err
		}

		assembler := orderservice.NewOrderService(r.Orders(), s.dispatcher)
		created, err = assembler.CreateFromPayment(userID, orderservice.NewOrderInput{
			PaymentID:          paymentID,
			ExternalReference:  payment.ExternalReference,
			CustomerEmail:      payment.Payer.Email,
			CustomerName:       payment.FullName(),
			ShippingAddress:    payment.Payer.Address.StreetName,
			PaymentMethod:      paymentMethodTag,
			FallbackTotalCents: toCents(payment.TransactionAmount),
		}, orderItems(applied))
		return err
	})
	if errors.Is(err, ordermodel.ErrDuplicatePayment) {
		// A concurrent delivery won the insert; the transaction rolled back
		// and neither order nor stock changed twice.
		log.WithField("payment_id", paymentID).Info("duplicate payment notification, order already exists")
		return nil
	}
	if err != nil {
		return err
	}

	s.notify(buyer, payment, created)
	return nil
}

func (s *service) notify(buyer *usermodel.User, payment *gatewaymodel.PaymentRecord, order *ordermodel.Order) {
	if payment.Payer.Email == "" {
		return
	}

	var userID *uuid.UUID
	if buyer != nil {
		userID = &buyer.ID
	}

	lines := make([]notificationservice.OrderLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, notificationservice.OrderLine{
			Title:      item.Title,
			Quantity:   item.Quantity,
			PriceCents: item.PriceCents,
			Flavor:     item.Flavor,
		})
	}

	err := s.notifier.SendOrderConfirmation(userID, payment.Payer.Email, notificationservice.OrderConfirmation{
		OrderID:       order.ID,
		RecipientName: order.CustomerName,
		Lines:         lines,
		TotalCents:    order.TotalCents,
	})
	if err != nil {
		log.WithError(err).WithField("order_id", order.ID).Error("order confirmation failed")
	}
}

// purchasedLines pairs line items with their selected flavors. An explicit
// per-item flavor wins; otherwise the side-channel metadata entry at the
// same index is used. The index pairing assumes the gateway preserved list
// order across the round trip.
func purchasedLines(payment *gatewaymodel.PaymentRecord) []productservice.PurchasedLine {
	flavors := payment.Metadata.Flavors
	lines := make([]productservice.PurchasedLine, 0, len(payment.AdditionalInfo.Items))
	for i, item := range payment.AdditionalInfo.Items {
		flavor := item.Flavor
		if flavor == "" && i < len(flavors) {
			flavor = flavors[i].Flavor
		}
		lines = append(lines, productservice.PurchasedLine{
			ProductID:  item.ID,
			Title:      item.Title,
			Quantity:   item.Quantity,
			PriceCents: toCents(item.UnitPrice),
			Flavor:     flavor,
		})
	}
	return lines
}

func orderItems(applied []productservice.AppliedLine) []orderservice.PurchasedItem {
	items := make([]orderservice.PurchasedItem, 0, len(applied))
	for _, line := range applied {
		items = append(items, orderservice.PurchasedItem{
			ProductID:  line.ProductID,
			Title:      line.Title,
			Quantity:   line.Quantity,
			PriceCents: line.PriceCents,
			Flavor:     line.Flavor,
		})
	}
	return items
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
