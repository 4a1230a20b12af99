package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/nicolasdelfino-123/vape-store/pkg/common/domain"
	"github.com/nicolasdelfino-123/vape-store/pkg/notification/domain/model"
)

type OrderLine struct {
	Title      string
	Quantity   int
	PriceCents int64
	Flavor     string
}

type OrderConfirmation struct {
	OrderID       uuid.UUID
	RecipientName string
	Lines         []OrderLine
	TotalCents    int64
}

// NotificationService composes and delivers order confirmations. Delivery
// failure is recorded and logged, never escalated: the order it confirms is
// already committed.
type NotificationService interface {
	SendOrderConfirmation(userID *uuid.UUID, email string, confirmation OrderConfirmation) error
}

func NewNotificationService(repo model.NotificationRepository, sender model.NotificationSender, dispatcher domain.EventDispatcher) NotificationService {
	return &notificationService{repo: repo, sender: sender, dispatcher: dispatcher}
}

type notificationService struct {
	repo       model.NotificationRepository
	sender     model.NotificationSender
	dispatcher domain.EventDispatcher
}

func (s *notificationService) SendOrderConfirmation(userID *uuid.UUID, email string, confirmation OrderConfirmation) error {
	subject := fmt.Sprintf("Your order %s has been confirmed!", confirmation.OrderID)
	body := composeBody(confirmation)

	notifID, err := s.repo.NextID()
	if err != nil {
		return err
	}
	notification := &model.Notification{
		ID:               notifID,
		UserID:           userID,
		RecipientAddress: email,
		Subject:          subject,
		Body:             body,
		Status:           model.Pending,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.repo.Create(notification); err != nil {
		return err
	}

	if err := s.sender.Send(email, subject, body); err != nil {
		log.WithError(err).WithField("recipient", email).Error("order confirmation delivery failed")
		notification.Status = model.Failed
		notification.FailureReason = err.Error()
		_ = s.dispatcher.Dispatch(model.NotificationFailed{
			NotificationID: notifID, Recipient: email, Reason: err.Error(),
		})
	} else {
		now := time.Now().UTC()
		notification.Status = model.Sent
		notification.SentAt = &now
		_ = s.dispatcher.Dispatch(model.NotificationSent{NotificationID: notifID, Recipient: email})
	}

	return s.repo.Update(notification)
}

func composeBody(confirmation OrderConfirmation) string {
	var b strings.Builder
	name := confirmation.RecipientName
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&b, "Hi %s,\n\nThanks for your purchase! Here is your order summary:\n\n", name)
	for _, line := range confirmation.Lines {
		subtotal := int64(line.Quantity) * line.PriceCents
		fmt.Fprintf(&b, "  %d x %s", line.Quantity, line.Title)
		if line.Flavor != "" {
			fmt.Fprintf(&b, " (%s)", line.Flavor)
		}
		fmt.Fprintf(&b, " @ %s = %s\n", formatCents(line.PriceCents), formatCents(subtotal))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n\nWe will process your order shortly.\n", formatCents(confirmation.TotalCents))
	return b.String()
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
