package bcrypt

import (
	"errors"

	gobcrypt "golang.org/x/crypto/bcrypt"

	"github.com/nicolasdelfino-123/vape-store/pkg/user/domain/model"
)

type passwordManager struct {
	cost int
}

func NewPasswordManager() model.PasswordManager {
	return &passwordManager{cost: gobcrypt.DefaultCost}
}

func (m *passwordManager) Hash(plainTextPassword string) (string, error) {
	hashed, err := gobcrypt.GenerateFromPassword([]byte(plainTextPassword), m.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (m *passwordManager) Check(hashedPassword, plainTextPassword string) (bool, error) {
	err := gobcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainTextPassword))
	if errors.Is(err, gobcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
