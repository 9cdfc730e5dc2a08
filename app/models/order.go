package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusNotProcess OrderStatus = "Not Process"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNotProcess, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID        string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"_id"`
	OrderCode string          `gorm:"type:varchar(64);unique;not null" json:"order_code"`
	BuyerID   string          `gorm:"size:36;not null;index" json:"-"`
	Buyer     *User           `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	Items     []OrderItem     `gorm:"foreignKey:OrderID" json:"products"`
	Total     decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"total"`
	Status    OrderStatus     `gorm:"size:32;not null;default:'Not Process'" json:"status"`

	// ChargedAmount is the whole-unit gross amount sent to the processor.
	ChargedAmount int64 `gorm:"not null;default:0" json:"charged_amount"`

	PaymentTransactionID string `gorm:"size:255;index" json:"-"`
	PaymentStatus        string `gorm:"size:100" json:"-"`
	PaymentType          string `gorm:"size:100" json:"-"`
	PaymentPayload       string `gorm:"type:text" json:"-"`

	Payment *OrderPayment `gorm:"-" json:"payment,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrderPayment is the client-facing view of the stored processor result.
type OrderPayment struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	Type          string `json:"type"`
	Success       bool   `json:"success"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.Status == "" {
		o.Status = OrderStatusNotProcess
	}
	return
}

// AfterFind fills the payment view so stored payloads never leave the server.
func (o *Order) AfterFind(tx *gorm.DB) (err error) {
	o.FillPaymentView()
	return
}

func (o *Order) FillPaymentView() {
	if o.PaymentTransactionID == "" {
		return
	}
	o.Payment = &OrderPayment{
		TransactionID: o.PaymentTransactionID,
		Status:        o.PaymentStatus,
		Type:          o.PaymentType,
		Success:       true,
	}
}
