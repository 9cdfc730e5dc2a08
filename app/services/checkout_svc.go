package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Rakhulsr/ecommerce-api/app/models"
	"github.com/Rakhulsr/ecommerce-api/app/repositories"
	"github.com/Rakhulsr/ecommerce-api/app/utils/calc"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CartLine is one entry of the client cart. Any client-side price is ignored.
type CartLine struct {
	ProductID string `json:"_id"`
	Quantity  int    `json:"quantity"`
}

type CheckoutInput struct {
	Nonce string     `json:"nonce"`
	Cart  []CartLine `json:"cart"`
}

// ReceiptTimeout bounds one receipt delivery.
const ReceiptTimeout = 30 * time.Second

type CheckoutService struct {
	products repositories.ProductRepository
	orders   repositories.OrderRepository
	users    repositories.UserRepository
	gateway  PaymentGateway
	notifier ReceiptNotifier
	logger   zerolog.Logger

	receipts       sync.WaitGroup
	receiptTimeout time.Duration
}

func NewCheckoutService(
	products repositories.ProductRepository,
	orders repositories.OrderRepository,
	users repositories.UserRepository,
	gateway PaymentGateway,
	notifier ReceiptNotifier,
	logger zerolog.Logger,
) *CheckoutService {
	if notifier == nil {
		notifier = NoopReceiptNotifier{}
	}
	return &CheckoutService{
		products: products,
		orders:   orders,
		users:    users,
		gateway:  gateway,
		notifier: notifier,
		logger:   logger,

		receiptTimeout: ReceiptTimeout,
	}
}

func (s *CheckoutService) ClientToken(ctx context.Context) (*ClientToken, error) {
	return s.gateway.ClientToken(ctx)
}

// Checkout prices the cart from stored products, charges the buyer and
// stores the order. The order is committed, with stock decremented, before
// Checkout returns; if that fails the charge is reversed and a
// *SettlementError is returned.
func (s *CheckoutService) Checkout(ctx context.Context, buyerID string, in CheckoutInput) (*models.Order, error) {
	if strings.TrimSpace(in.Nonce) == "" {
		return nil, newFieldError("nonce", "Invalid payment request")
	}
	if len(in.Cart) == 0 {
		return nil, newFieldError("cart", "Invalid payment request")
	}

	buyer, err := s.users.FindByID(ctx, buyerID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}

	items, total, err := s.priceCart(ctx, in.Cart)
	if err != nil {
		return nil, err
	}

	orderCode := fmt.Sprintf("INV-%s-%s", time.Now().Format("20060102"), uuid.New().String()[:8])
	amount := calc.GrossAmount(total)

	saleItems := make([]SaleItem, 0, len(items))
	for _, item := range items {
		saleItems = append(saleItems, SaleItem{
			ID:       item.ProductID,
			Name:     item.ProductName,
			Price:    calc.GrossAmount(item.Price),
			Quantity: int32(item.Quantity),
		})
	}

	sale, err := s.gateway.Sale(ctx, SaleRequest{
		OrderCode: orderCode,
		Nonce:     in.Nonce,
		Amount:    amount,
		Items:     saleItems,
		Customer:  &SaleCustomer{Name: buyer.Name, Email: buyer.Email, Phone: buyer.Phone},
	})
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderCode:            orderCode,
		BuyerID:              buyer.ID,
		Items:                items,
		Total:                total,
		ChargedAmount:        amount,
		Status:               models.OrderStatusNotProcess,
		PaymentTransactionID: sale.TransactionID,
		PaymentStatus:        sale.Status,
		PaymentType:          sale.PaymentType,
		PaymentPayload:       string(sale.Raw),
	}

	// the buyer has been charged: a dropped client connection must not abort
	// the write or its compensation
	persistCtx := context.WithoutCancel(ctx)
	if err := s.orders.CreateWithStock(persistCtx, order); err != nil {
		s.logger.Error().Err(err).
			Str("order_code", orderCode).
			Str("transaction_id", sale.TransactionID).
			Msg("order not stored after charge, reversing")

		verr := s.gateway.Void(persistCtx, orderCode, amount, "order could not be stored")
		if verr != nil {
			s.logger.Error().Err(verr).Str("order_code", orderCode).Msg("charge reversal failed")
		}
		return nil, &SettlementError{
			TransactionID: sale.TransactionID,
			OrderCode:     orderCode,
			Compensated:   verr == nil,
			Err:           err,
		}
	}

	order.Buyer = buyer
	order.FillPaymentView()
	s.logger.Info().Str("order_id", order.ID).Str("order_code", orderCode).Str("total", total.String()).Msg("order placed")

	s.sendReceipt(persistCtx, buyer, order)
	return order, nil
}

// sendReceipt mails the receipt in the background. Delivery is best effort
// and never delays or fails the checkout.
func (s *CheckoutService) sendReceipt(ctx context.Context, buyer *models.User, order *models.Order) {
	s.receipts.Add(1)
	go func() {
		defer s.receipts.Done()
		ctx, cancel := context.WithTimeout(ctx, s.receiptTimeout)
		defer cancel()
		if err := s.notifier.SendOrderReceipt(ctx, buyer, order); err != nil {
			s.logger.Warn().Err(err).Str("order_code", order.OrderCode).Msg("order receipt not sent")
		}
	}()
}

// WaitReceipts blocks until every receipt started so far has finished or
// ctx is done.
func (s *CheckoutService) WaitReceipts(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.receipts.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// priceCart merges repeated lines and prices them from stored products.
func (s *CheckoutService) priceCart(ctx context.Context, cart []CartLine) ([]models.OrderItem, decimal.Decimal, error) {
	ids := make([]string, 0, len(cart))
	qty := make(map[string]int, len(cart))
	for _, line := range cart {
		id := strings.TrimSpace(line.ProductID)
		if id == "" {
			return nil, decimal.Zero, fmt.Errorf("%w: missing product id", ErrUnknownProduct)
		}
		n := line.Quantity
		if n < 1 {
			n = 1
		}
		if _, seen := qty[id]; !seen {
			ids = append(ids, id)
		}
		qty[id] += n
	}

	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, err
	}
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]models.OrderItem, 0, len(ids))
	total := decimal.Zero
	for _, id := range ids {
		product, ok := byID[id]
		if !ok {
			return nil, decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownProduct, id)
		}
		if product.Quantity < qty[id] {
			return nil, decimal.Zero, fmt.Errorf("%w: %s has %d left, %d requested", ErrInsufficientStock, product.Name, product.Quantity, qty[id])
		}

		line := calc.LineTotal(product.Price, qty[id])
		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Price:       product.Price,
			Quantity:    qty[id],
			LineTotal:   line,
		})
		total = total.Add(line)
	}
	return items, total, nil
}
