package services

import (
	"context"
	"sync"
	"testing"

	"github.com/Rakhulsr/ecommerce-api/app/models"
	"github.com/Rakhulsr/ecommerce-api/app/repositories/repotest"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var nopLogger = zerolog.Nop()

type fakeGateway struct {
	mu      sync.Mutex
	sales   []SaleRequest
	voided  []string
	saleErr error
	voidErr error
	onSale  func()
}

func (g *fakeGateway) ClientToken(context.Context) (*ClientToken, error) {
	return &ClientToken{ClientKey: "client-key", Environment: "sandbox"}, nil
}

func (g *fakeGateway) Sale(_ context.Context, req SaleRequest) (*SaleResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sales = append(g.sales, req)
	if g.onSale != nil {
		g.onSale()
	}
	if g.saleErr != nil {
		return nil, g.saleErr
	}
	return &SaleResult{
		TransactionID: "trx-" + req.OrderCode,
		Status:        "capture",
		PaymentType:   "credit_card",
		Raw:           []byte(`{"transaction_status":"capture"}`),
	}, nil
}

func (g *fakeGateway) Void(_ context.Context, orderCode string, amount int64, reason string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.voided = append(g.voided, orderCode)
	return g.voidErr
}

type fakeNotifier struct {
	mu     sync.Mutex
	orders []string
	err    error
	// block, when set, holds every delivery until it is closed or the
	// delivery context ends
	block chan struct{}
}

func (n *fakeNotifier) SendOrderReceipt(ctx context.Context, buyer *models.User, order *models.Order) error {
	if n.block != nil {
		select {
		case <-n.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orders = append(n.orders, order.OrderCode)
	return n.err
}

func (n *fakeNotifier) sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.orders...)
}

func seedCategory(t *testing.T, store *repotest.Store, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name, Slug: name}
	require.NoError(t, store.CategoryRepo().Create(context.Background(), c))
	return c
}

func seedProduct(t *testing.T, store *repotest.Store, category *models.Category, name, price string, qty int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:        name,
		Slug:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		CategoryID:  category.ID,
		Quantity:    qty,
	}
	require.NoError(t, store.ProductRepo().Create(context.Background(), p))
	return p
}

func seedUser(t *testing.T, store *repotest.Store, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Name: "Buyer", Email: email, Password: "x", Role: role}
	require.NoError(t, store.UserRepo().Create(context.Background(), u))
	return u
}
