package services

import (
	"errors"
	"fmt"

	"github.com/Rakhulsr/ecommerce-api/app/repositories"
)

var (
	ErrNotFound           = repositories.ErrNotFound
	ErrInsufficientStock  = repositories.ErrInsufficientStock
	ErrCategoryExists     = errors.New("category already exists")
	ErrCategoryInUse      = errors.New("category is still used by products")
	ErrUnknownProduct     = errors.New("cart references an unknown product")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// FieldError is a rejected input. Only the first failing field is reported.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

func newFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

// PaymentError is a decline or failure reported by the payment processor.
// Code and Message are safe to show to the buyer.
type PaymentError struct {
	Code    string
	Message string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment failed (%s): %s", e.Code, e.Message)
}

// SettlementError means the charge went through but the order could not be
// stored. Compensated reports whether the charge was voided or refunded.
type SettlementError struct {
	TransactionID string
	OrderCode     string
	Compensated   bool
	Err           error
}

func (e *SettlementError) Error() string {
	state := "compensation failed"
	if e.Compensated {
		state = "charge reversed"
	}
	return fmt.Sprintf("order %s not stored after charge %s (%s): %v", e.OrderCode, e.TransactionID, state, e.Err)
}

func (e *SettlementError) Unwrap() error {
	return e.Err
}
