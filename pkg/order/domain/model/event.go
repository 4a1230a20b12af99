package model

import "github.com/google/uuid"

type OrderReconciled struct {
	OrderID    uuid.UUID
	PaymentID  string
	TotalCents int64
	ItemCount  int
}

func (e OrderReconciled) Type() string { return "OrderReconciled" }
