package services

import "context"

// ClientToken is what the browser needs to tokenise a card into a nonce.
type ClientToken struct {
	ClientKey   string `json:"clientKey"`
	Environment string `json:"environment"`
}

type SaleItem struct {
	ID       string
	Name     string
	Price    int64
	Quantity int32
}

type SaleCustomer struct {
	Name  string
	Email string
	Phone string
}

// SaleRequest is a charge submitted for immediate settlement.
type SaleRequest struct {
	OrderCode string
	Nonce     string
	Amount    int64
	Items     []SaleItem
	Customer  *SaleCustomer
}

type SaleResult struct {
	TransactionID string
	Status        string
	PaymentType   string
	Raw           []byte
}

// PaymentGateway is the payment processor. Sale returns a *PaymentError
// when the processor declines or fails the charge.
type PaymentGateway interface {
	ClientToken(ctx context.Context) (*ClientToken, error)
	Sale(ctx context.Context, req SaleRequest) (*SaleResult, error)
	// Void reverses a settled sale, cancelling it or refunding it in full.
	Void(ctx context.Context, orderCode string, amount int64, reason string) error
}
