package model

import "github.com/google/uuid"

type UserProvisioned struct {
	UserID uuid.UUID
	Email  string
}

func (e UserProvisioned) Type() string { return "UserProvisioned" }
