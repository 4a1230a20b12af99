package model

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

// StatusApproved is the only payment status that triggers reconciliation.
const StatusApproved = "approved"

// PaymentRecord is the authoritative, gateway-fetched description of a
// payment. It is read-only: the webhook payload supplies nothing but the
// payment identifier, every financial field must come from this record.
type PaymentRecord struct {
	ID                int64          `json:"id"`
	Status            string         `json:"status"`
	TransactionAmount float64        `json:"transaction_amount"`
	ExternalReference string         `json:"external_reference"`
	Payer             Payer          `json:"payer"`
	Metadata          Metadata       `json:"metadata"`
	AdditionalInfo    AdditionalInfo `json:"additional_info"`
}

type Payer struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   Address `json:"address"`
}

type Address struct {
	StreetName string `json:"street_name"`
}

// Metadata is the provider-specific bag attached at preference-creation
// time. Flavors is an ordered side-channel list: the gateway strips custom
// fields from line items but preserves this list, so entries pair with
// items by index only.
type Metadata struct {
	Flavors []FlavorSelection `json:"flavors"`
}

type FlavorSelection struct {
	ProductID string `json:"product_id"`
	Flavor    string `json:"flavor"`
}

type AdditionalInfo struct {
	Items []LineItem `json:"items"`
}

type LineItem struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Flavor    string  `json:"flavor,omitempty"`
}

func (p *PaymentRecord) FullName() string {
	return strings.TrimSpace(p.Payer.FirstName + " " + p.Payer.LastName)
}

// PaymentProvider fetches authoritative payment records from the external
// gateway.
type PaymentProvider interface {
	FetchPayment(ctx context.Context, paymentID string) (*PaymentRecord, error)
}
