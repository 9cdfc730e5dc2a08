package services

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCoreAPI struct {
	charges   []*coreapi.ChargeReq
	chargeRes *coreapi.ChargeResponse
	chargeErr *midtrans.Error
	cancelled []string
	cancelErr *midtrans.Error
	refunds   []*coreapi.RefundReq
	refundErr *midtrans.Error
}

func (f *fakeCoreAPI) ChargeTransaction(req *coreapi.ChargeReq) (*coreapi.ChargeResponse, *midtrans.Error) {
	f.charges = append(f.charges, req)
	return f.chargeRes, f.chargeErr
}

func (f *fakeCoreAPI) CancelTransaction(orderID string) (*coreapi.CancelResponse, *midtrans.Error) {
	f.cancelled = append(f.cancelled, orderID)
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	return &coreapi.CancelResponse{}, nil
}

func (f *fakeCoreAPI) RefundTransaction(orderID string, req *coreapi.RefundReq) (*coreapi.RefundResponse, *midtrans.Error) {
	f.refunds = append(f.refunds, req)
	if f.refundErr != nil {
		return nil, f.refundErr
	}
	return &coreapi.RefundResponse{}, nil
}

func captured() *coreapi.ChargeResponse {
	return &coreapi.ChargeResponse{
		StatusCode:        "200",
		StatusMessage:     "Success, Credit Card transaction is successful",
		TransactionID:     "trx-1",
		TransactionStatus: "capture",
		FraudStatus:       "accept",
		PaymentType:       "credit_card",
	}
}

func TestMidtransSale(t *testing.T) {
	api := &fakeCoreAPI{chargeRes: captured()}
	gw := NewMidtransGateway(api, "client-key", "sandbox", nopLogger)

	res, err := gw.Sale(context.Background(), SaleRequest{
		OrderCode: "INV-1",
		Nonce:     "card-token",
		Amount:    100,
		Items: []SaleItem{
			{ID: "p1", Name: strings.Repeat("x", 60), Price: 33, Quantity: 3},
		},
		Customer: &SaleCustomer{Name: "Rina", Email: "rina@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, "trx-1", res.TransactionID)
	assert.Equal(t, "capture", res.Status)
	assert.Equal(t, "credit_card", res.PaymentType)
	assert.Contains(t, string(res.Raw), "trx-1")

	require.Len(t, api.charges, 1)
	req := api.charges[0]
	assert.Equal(t, coreapi.PaymentTypeCreditCard, req.PaymentType)
	assert.Equal(t, "card-token", req.CreditCard.TokenID)
	assert.Equal(t, "INV-1", req.TransactionDetails.OrderID)
	assert.Equal(t, int64(100), req.TransactionDetails.GrossAmt)
	assert.Equal(t, "rina@example.com", req.CustomerDetails.Email)

	items := *req.Items
	require.Len(t, items, 2)
	assert.Len(t, items[0].Name, maxItemNameLen)
	assert.Equal(t, "ADJUSTMENT", items[1].ID)
	assert.Equal(t, int64(1), items[1].Price)

	var sum int64
	for _, item := range items {
		sum += item.Price * int64(item.Qty)
	}
	assert.Equal(t, req.TransactionDetails.GrossAmt, sum)
}

func TestMidtransSaleNoAdjustmentWhenExact(t *testing.T) {
	api := &fakeCoreAPI{chargeRes: captured()}
	gw := NewMidtransGateway(api, "client-key", "sandbox", nopLogger)

	_, err := gw.Sale(context.Background(), SaleRequest{
		OrderCode: "INV-2",
		Nonce:     "card-token",
		Amount:    99,
		Items:     []SaleItem{{ID: "p1", Name: "lamp", Price: 33, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Len(t, *api.charges[0].Items, 1)
	assert.Nil(t, api.charges[0].CustomerDetails)
}

func TestMidtransSaleFailures(t *testing.T) {
	denied := captured()
	denied.StatusCode = "202"
	denied.StatusMessage = "Deny by Bank"
	denied.TransactionStatus = "deny"

	challenged := captured()
	challenged.FraudStatus = "challenge"

	pending := captured()
	pending.StatusCode = "201"
	pending.StatusMessage = "Success, Credit Card transaction is successful"
	pending.TransactionStatus = "pending"
	pending.FraudStatus = ""

	tests := []struct {
		name      string
		api       *fakeCoreAPI
		code      string
		message   string
		cancelled []string
	}{
		{"processor error", &fakeCoreAPI{chargeErr: &midtrans.Error{StatusCode: 401, Message: "unauthorized"}}, "401", "unauthorized", nil},
		{"denied", &fakeCoreAPI{chargeRes: denied}, "202", "Deny by Bank", nil},
		{"fraud challenge", &fakeCoreAPI{chargeRes: challenged}, "200", "Payment not completed", []string{"INV-3"}},
		{"pending", &fakeCoreAPI{chargeRes: pending}, "201", "Payment not completed", []string{"INV-3"}},
		{"empty response", &fakeCoreAPI{}, "500", "empty response from payment processor", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := NewMidtransGateway(tt.api, "client-key", "sandbox", nopLogger)
			_, err := gw.Sale(context.Background(), SaleRequest{OrderCode: "INV-3", Nonce: "tok", Amount: 10})
			var payErr *PaymentError
			require.ErrorAs(t, err, &payErr)
			assert.Equal(t, tt.code, payErr.Code)
			assert.Equal(t, tt.message, payErr.Message)
			assert.Equal(t, tt.cancelled, tt.api.cancelled)
			assert.Empty(t, tt.api.refunds)
		})
	}
}

func TestMidtransSaleRefundsOpenChargeWhenCancelRefused(t *testing.T) {
	challenged := captured()
	challenged.FraudStatus = "challenge"
	api := &fakeCoreAPI{
		chargeRes: challenged,
		cancelErr: &midtrans.Error{StatusCode: 412, Message: "cannot cancel"},
	}
	gw := NewMidtransGateway(api, "client-key", "sandbox", nopLogger)

	_, err := gw.Sale(context.Background(), SaleRequest{OrderCode: "INV-4", Nonce: "tok", Amount: 10})
	var payErr *PaymentError
	require.ErrorAs(t, err, &payErr)
	assert.Equal(t, "Payment not completed", payErr.Message)
	require.Len(t, api.refunds, 1)
	assert.Equal(t, "refund-INV-4", api.refunds[0].RefundKey)
	assert.Equal(t, int64(10), api.refunds[0].Amount)
}

func TestTruncateNameKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "lamp", truncateName("lamp", maxItemNameLen))

	name := strings.Repeat("a", maxItemNameLen-1) + "é" + "tail"
	cut := truncateName(name, maxItemNameLen)
	assert.True(t, utf8.ValidString(cut))
	assert.Equal(t, strings.Repeat("a", maxItemNameLen-1), cut)

	cut = truncateName(strings.Repeat("灯", 30), maxItemNameLen)
	assert.True(t, utf8.ValidString(cut))
	assert.LessOrEqual(t, len(cut), maxItemNameLen)
	assert.Equal(t, strings.Repeat("灯", 16), cut)
}

func TestMidtransVoid(t *testing.T) {
	t.Run("cancel", func(t *testing.T) {
		api := &fakeCoreAPI{}
		gw := NewMidtransGateway(api, "client-key", "sandbox", nopLogger)
		require.NoError(t, gw.Void(context.Background(), "INV-1", 100, "order could not be stored"))
		assert.Equal(t, []string{"INV-1"}, api.cancelled)
		assert.Empty(t, api.refunds)
	})

	t.Run("falls back to refund", func(t *testing.T) {
		api := &fakeCoreAPI{cancelErr: &midtrans.Error{StatusCode: 412, Message: "cannot cancel settled transaction"}}
		gw := NewMidtransGateway(api, "client-key", "sandbox", nopLogger)
		require.NoError(t, gw.Void(context.Background(), "INV-1", 100, "order could not be stored"))
		require.Len(t, api.refunds, 1)
		assert.Equal(t, "refund-INV-1", api.refunds[0].RefundKey)
		assert.Equal(t, int64(100), api.refunds[0].Amount)
	})

	t.Run("both fail", func(t *testing.T) {
		api := &fakeCoreAPI{
			cancelErr: &midtrans.Error{StatusCode: 412, Message: "cannot cancel"},
			refundErr: &midtrans.Error{StatusCode: 500, Message: "refund unavailable"},
		}
		gw := NewMidtransGateway(api, "client-key", "sandbox", nopLogger)
		err := gw.Void(context.Background(), "INV-1", 100, "order could not be stored")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "refund unavailable")
	})
}

func TestMidtransClientToken(t *testing.T) {
	token, err := NewMidtransGateway(&fakeCoreAPI{}, "client-key", "production", nopLogger).ClientToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &ClientToken{ClientKey: "client-key", Environment: "production"}, token)

	_, err = NewMidtransGateway(&fakeCoreAPI{}, "", "sandbox", nopLogger).ClientToken(context.Background())
	var payErr *PaymentError
	assert.ErrorAs(t, err, &payErr)
}
