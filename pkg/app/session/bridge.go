package session

import (
	"errors"

	"github.com/google/uuid"

	ordermodel "github.com/nicolasdelfino-123/vape-store/pkg/order/domain/model"
	usermodel "github.com/nicolasdelfino-123/vape-store/pkg/user/domain/model"
)

// ErrNoSessionUser means the order exists but belongs to no account, so
// there is no session to bridge into.
var ErrNoSessionUser = errors.New("order has no associated user")

type Profile struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

type BridgeResult struct {
	AccessToken string  `json:"access_token"`
	User        Profile `json:"user"`
}

// Service converts a completed payment into an authenticated session
// without a password step.
type Service interface {
	BridgeFromPayment(paymentID, externalReference string) (*BridgeResult, error)
}

func NewService(orders ordermodel.OrderRepository, users usermodel.UserRepository, tokens TokenIssuer) Service {
	return &bridgeService{orders: orders, users: users, tokens: tokens}
}

type bridgeService struct {
	orders ordermodel.OrderRepository
	users  usermodel.UserRepository
	tokens TokenIssuer
}

func (s *bridgeService) BridgeFromPayment(paymentID, externalReference string) (*BridgeResult, error) {
	order, err := s.orders.FindByPaymentID(paymentID)
	if errors.Is(err, ordermodel.ErrOrderNotFound) && externalReference != "" {
		order, err = s.orders.FindByExternalReference(externalReference)
	}
	if err != nil {
		return nil, err
	}

	if order.UserID == nil {
		return nil, ErrNoSessionUser
	}

	user, err := s.users.Find(*order.UserID)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		return nil, err
	}

	return &BridgeResult{
		AccessToken: token,
		User:        Profile{ID: user.ID, Email: user.Email, Name: user.Name},
	}, nil
}
