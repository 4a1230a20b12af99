package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nicolasdelfino-123/vape-store/pkg/common/domain"
	"github.com/nicolasdelfino-123/vape-store/pkg/user/domain/model"
)

// PayerInfo is the buyer block of a gateway payment record.
type PayerInfo struct {
	Email      string
	FirstName  string
	LastName   string
	StreetName string
}

// IdentityService maps a payment's payer information to an account. A nil
// user with a nil error means the order proceeds fully anonymous.
type IdentityService interface {
	ResolveBuyer(externalRef string, payer PayerInfo) (*model.User, error)
}

func NewIdentityService(repo model.UserRepository, passwords model.PasswordManager, dispatcher domain.EventDispatcher) IdentityService {
	return &identityService{repo: repo, passwords: passwords, dispatcher: dispatcher}
}

type identityService struct {
	repo       model.UserRepository
	passwords  model.PasswordManager
	dispatcher domain.EventDispatcher
}

// ResolveBuyer resolves in priority order: external reference set at
// preference-creation time, payer email, then guest provisioning when an
// email is present at all.
func (s *identityService) ResolveBuyer(externalRef string, payer PayerInfo) (*model.User, error) {
	if id, err := uuid.Parse(externalRef); err == nil {
		if user, err := s.repo.Find(id); err == nil {
			return user, nil
		}
	}

	email := strings.ToLower(strings.TrimSpace(payer.Email))
	if email == "" {
		return nil, nil
	}

	user, err := s.repo.FindByEmail(email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	return s.provisionGuest(email, payer)
}

func (s *identityService) provisionGuest(email string, payer PayerInfo) (*model.User, error) {
	tempPassword, err := temporaryPassword()
	if err != nil {
		return nil, err
	}
	hashed, err := s.passwords.Hash(tempPassword)
	if err != nil {
		return nil, err
	}

	userID, err := s.repo.NextID()
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(payer.FirstName + " " + payer.LastName)
	if name == "" {
		name = email
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:                userID,
		Email:             email,
		HashedPassword:    hashed,
		Name:              name,
		ShippingAddress:   payer.StreetName,
		IsActive:          true,
		MustResetPassword: true,
		LastLogin:         now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.UserProvisioned{UserID: userID, Email: email})

	return user, nil
}

func temporaryPassword() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
