package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/rs/zerolog"
)

const maxItemNameLen = 50

// coreAPI is the subset of coreapi.Client the gateway calls.
type coreAPI interface {
	ChargeTransaction(req *coreapi.ChargeReq) (*coreapi.ChargeResponse, *midtrans.Error)
	CancelTransaction(orderID string) (*coreapi.CancelResponse, *midtrans.Error)
	RefundTransaction(orderID string, req *coreapi.RefundReq) (*coreapi.RefundResponse, *midtrans.Error)
}

type MidtransGateway struct {
	client      coreAPI
	clientKey   string
	environment string
	logger      zerolog.Logger
}

func NewMidtransGateway(client coreAPI, clientKey, environment string, logger zerolog.Logger) *MidtransGateway {
	return &MidtransGateway{
		client:      client,
		clientKey:   clientKey,
		environment: environment,
		logger:      logger,
	}
}

func (g *MidtransGateway) ClientToken(ctx context.Context) (*ClientToken, error) {
	if g.clientKey == "" {
		return nil, &PaymentError{Code: "500", Message: "payment client key is not configured"}
	}
	return &ClientToken{ClientKey: g.clientKey, Environment: g.environment}, nil
}

func (g *MidtransGateway) Sale(ctx context.Context, req SaleRequest) (*SaleResult, error) {
	items := make([]midtrans.ItemDetails, 0, len(req.Items)+1)
	var itemsTotal int64
	for _, item := range req.Items {
		name := truncateName(item.Name, maxItemNameLen)
		items = append(items, midtrans.ItemDetails{
			ID:    item.ID,
			Name:  name,
			Price: item.Price,
			Qty:   item.Quantity,
		})
		itemsTotal += item.Price * int64(item.Quantity)
	}
	// item prices are rounded individually, the processor requires they sum to the gross amount
	if diff := req.Amount - itemsTotal; diff != 0 {
		items = append(items, midtrans.ItemDetails{
			ID:    "ADJUSTMENT",
			Name:  "Rounding adjustment",
			Price: diff,
			Qty:   1,
		})
	}

	chargeReq := &coreapi.ChargeReq{
		PaymentType: coreapi.PaymentTypeCreditCard,
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderCode,
			GrossAmt: req.Amount,
		},
		CreditCard: &coreapi.CreditCardDetails{
			TokenID: req.Nonce,
		},
		Items: &items,
	}
	if req.Customer != nil {
		chargeReq.CustomerDetails = &midtrans.CustomerDetails{
			FName: req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		}
	}

	resp, merr := g.client.ChargeTransaction(chargeReq)
	if merr != nil {
		g.logger.Error().Str("order_code", req.OrderCode).Int("status_code", merr.StatusCode).Msg("midtrans charge failed")
		return nil, &PaymentError{Code: strconv.Itoa(merr.StatusCode), Message: merr.Message}
	}
	if resp == nil {
		return nil, &PaymentError{Code: "500", Message: "empty response from payment processor"}
	}
	if !chargeSettled(resp) {
		g.logger.Warn().
			Str("order_code", req.OrderCode).
			Str("status_code", resp.StatusCode).
			Str("transaction_status", resp.TransactionStatus).
			Str("fraud_status", resp.FraudStatus).
			Msg("midtrans charge not settled")
		if !chargeOpen(resp) {
			return nil, &PaymentError{Code: resp.StatusCode, Message: resp.StatusMessage}
		}
		// no order will reference this charge, it must not stay open
		if err := g.Void(ctx, req.OrderCode, req.Amount, "payment not completed"); err != nil {
			g.logger.Error().Err(err).Str("order_code", req.OrderCode).Str("transaction_id", resp.TransactionID).Msg("open midtrans charge left unreversed")
		}
		return nil, &PaymentError{Code: resp.StatusCode, Message: "Payment not completed"}
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encode charge response: %w", err)
	}
	return &SaleResult{
		TransactionID: resp.TransactionID,
		Status:        resp.TransactionStatus,
		PaymentType:   resp.PaymentType,
		Raw:           raw,
	}, nil
}

func chargeSettled(resp *coreapi.ChargeResponse) bool {
	if resp.StatusCode != "200" && resp.StatusCode != "201" {
		return false
	}
	switch resp.TransactionStatus {
	case "capture", "settlement":
		return resp.FraudStatus == "" || resp.FraudStatus == "accept"
	}
	return false
}

// chargeOpen reports a charge the processor may still complete, such as a
// capture held for fraud review or a pending authorization.
func chargeOpen(resp *coreapi.ChargeResponse) bool {
	if resp.TransactionID == "" {
		return false
	}
	switch resp.TransactionStatus {
	case "capture", "settlement", "pending", "authorize":
		return true
	}
	return false
}

// truncateName cuts s to at most n bytes without splitting a rune.
func truncateName(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// Void cancels the charge and falls back to a full refund once the processor
// no longer allows cancellation.
func (g *MidtransGateway) Void(ctx context.Context, orderCode string, amount int64, reason string) error {
	_, cerr := g.client.CancelTransaction(orderCode)
	if cerr == nil {
		g.logger.Info().Str("order_code", orderCode).Msg("midtrans charge cancelled")
		return nil
	}
	g.logger.Warn().Str("order_code", orderCode).Str("error", cerr.Message).Msg("midtrans cancel failed, refunding")

	_, rerr := g.client.RefundTransaction(orderCode, &coreapi.RefundReq{
		RefundKey: "refund-" + orderCode,
		Amount:    amount,
		Reason:    reason,
	})
	if rerr != nil {
		return fmt.Errorf("reverse charge %s: cancel: %s; refund: %s", orderCode, cerr.Message, rerr.Message)
	}
	g.logger.Info().Str("order_code", orderCode).Msg("midtrans charge refunded")
	return nil
}
