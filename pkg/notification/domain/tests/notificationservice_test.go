package tests

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicolasdelfino-123/vape-store/pkg/common/domain"
	"github.com/nicolasdelfino-123/vape-store/pkg/notification/domain/model"
	"github.com/nicolasdelfino-123/vape-store/pkg/notification/domain/service"
)

func setup(t *testing.T) (service.NotificationService, *mockNotificationRepository, *mockSender, *mockEventDispatcher) {
	repo := &mockNotificationRepository{store: make(map[uuid.UUID]*model.Notification)}
	sender := &mockSender{}
	dispatcher := &mockEventDispatcher{}
	notificationService := service.NewNotificationService(repo, sender, dispatcher)
	return notificationService, repo, sender, dispatcher
}

func TestSendOrderConfirmation(t *testing.T) {
	notificationService, repo, sender, dispatcher := setup(t)
	userID := uuid.New()
	orderID := uuid.New()

	err := notificationService.SendOrderConfirmation(&userID, "buyer@example.com", service.OrderConfirmation{
		OrderID:       orderID,
		RecipientName: "Buyer Person",
		Lines: []service.OrderLine{
			{Title: "Vape Pen", Quantity: 2, PriceCents: 1500},
			{Title: "Pod", Quantity: 1, PriceCents: 800, Flavor: "Mint"},
		},
		TotalCents: 3800,
	})

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "buyer@example.com", sender.sent[0].recipient)
	assert.Contains(t, sender.sent[0].subject, orderID.String())
	assert.Contains(t, sender.sent[0].body, "Hi Buyer Person")
	assert.Contains(t, sender.sent[0].body, "2 x Vape Pen @ $15.00 = $30.00")
	assert.Contains(t, sender.sent[0].body, "1 x Pod (Mint) @ $8.00 = $8.00")
	assert.Contains(t, sender.sent[0].body, "Total: $38.00")

	require.Len(t, repo.store, 1)
	for _, saved := range repo.store {
		assert.Equal(t, model.Sent, saved.Status)
		require.NotNil(t, saved.SentAt)
		assert.Equal(t, &userID, saved.UserID)
	}

	require.Len(t, dispatcher.events, 1)
	_, ok := dispatcher.events[0].(model.NotificationSent)
	assert.True(t, ok)
}

func TestSendOrderConfirmationDeliveryFailure(t *testing.T) {
	notificationService, repo, sender, dispatcher := setup(t)
	sender.err = errors.New("smtp: connection refused")

	err := notificationService.SendOrderConfirmation(nil, "buyer@example.com", service.OrderConfirmation{
		OrderID:    uuid.New(),
		TotalCents: 1000,
	})

	require.NoError(t, err)
	require.Len(t, repo.store, 1)
	for _, saved := range repo.store {
		assert.Equal(t, model.Failed, saved.Status)
		assert.Equal(t, "smtp: connection refused", saved.FailureReason)
		assert.Nil(t, saved.SentAt)
		assert.Nil(t, saved.UserID)
	}

	require.Len(t, dispatcher.events, 1)
	event, ok := dispatcher.events[0].(model.NotificationFailed)
	require.True(t, ok)
	assert.Equal(t, "smtp: connection refused", event.Reason)
}

func TestSendOrderConfirmationAnonymousRecipient(t *testing.T) {
	notificationService, _, sender, _ := setup(t)

	err := notificationService.SendOrderConfirmation(nil, "guest@example.com", service.OrderConfirmation{
		OrderID:    uuid.New(),
		TotalCents: 500,
	})

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].body, "Hi there")
}

type sentMail struct {
	recipient string
	subject   string
	body      string
}

type mockSender struct {
	sent []sentMail
	err  error
}

func (m *mockSender) Send(recipient, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{recipient: recipient, subject: subject, body: body})
	return nil
}

type mockNotificationRepository struct {
	store map[uuid.UUID]*model.Notification
}

func (m *mockNotificationRepository) NextID() (uuid.UUID, error) { return uuid.New(), nil }
func (m *mockNotificationRepository) Create(n *model.Notification) error {
	m.store[n.ID] = n
	return nil
}
func (m *mockNotificationRepository) Update(n *model.Notification) error {
	m.store[n.ID] = n
	return nil
}

type mockEventDispatcher struct {
	events []domain.Event
}

func (m *mockEventDispatcher) Dispatch(event domain.Event) error {
	m.events = append(m.events, event)
	return nil
}
