package model

import "github.com/google/uuid"

type ProductStockReconciled struct {
	ProductID         uuid.UUID
	Flavor            string
	QuantityRequested int
	QuantityApplied   int
	NewStock          int
}

func (e ProductStockReconciled) Type() string { return "ProductStockReconciled" }
