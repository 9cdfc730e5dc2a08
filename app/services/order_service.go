package services

import (
	"context"
	"strings"

	"github.com/Rakhulsr/ecommerce-api/app/models"
	"github.com/Rakhulsr/ecommerce-api/app/repositories"
	"github.com/rs/zerolog"
)

type OrderService struct {
	orders repositories.OrderRepository
	logger zerolog.Logger
}

func NewOrderService(orders repositories.OrderRepository, logger zerolog.Logger) *OrderService {
	return &OrderService{orders: orders, logger: logger}
}

func (s *OrderService) BuyerOrders(ctx context.Context, buyerID string) ([]models.Order, error) {
	return s.orders.FindByBuyerID(ctx, buyerID)
}

func (s *OrderService) AllOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders.GetAllOrders(ctx)
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	next := models.OrderStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return nil, newFieldError("status", "Status must be one of: Not Process, Processing, Shipped, Delivered, Cancelled")
	}
	if err := s.orders.UpdateStatus(ctx, orderID, next); err != nil {
		return nil, err
	}

	s.logger.Info().Str("order_id", orderID).Str("status", string(next)).Msg("order status updated")
	return s.orders.GetByID(ctx, orderID)
}
