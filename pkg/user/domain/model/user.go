package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email is already taken")
)

type User struct {
	ID                uuid.UUID
	Email             string
	HashedPassword    string
	Name              string
	Phone             string
	ShippingAddress   string
	BillingAddress    string
	DNI               string
	IsActive          bool
	IsAdmin           bool
	MustResetPassword bool
	LastLogin         time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type UserRepository interface {
	NextID() (uuid.UUID, error)
	Create(user *User) error
	Update(user *User) error
	Find(id uuid.UUID) (*User, error)
	// FindByEmail matches case-insensitively.
	FindByEmail(email string) (*User, error)
}

type PasswordManager interface {
	Hash(plainTextPassword string) (string, error)
	Check(hashedPassword, plainTextPassword string) (bool, error)
}
