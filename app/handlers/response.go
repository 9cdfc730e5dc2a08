package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Rakhulsr/ecommerce-api/app/helpers"
	"github.com/Rakhulsr/ecommerce-api/app/middlewares"
	"github.com/Rakhulsr/ecommerce-api/app/services"
	"github.com/Rakhulsr/ecommerce-api/app/utils/renderer"
	"github.com/rs/zerolog"
	"github.com/unrolled/render"
)

const maxJSONBody = 1 << 20

// H is a JSON object response.
type H map[string]interface{}

func respond(rnd *render.Render, w http.ResponseWriter, status int, message string, payload H) {
	body := H{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	_ = rnd.JSON(w, status, body)
}

// respondError maps service errors onto status codes. Internal error text is logged,
// never sent.
func respondError(rnd *render.Render, logger zerolog.Logger, w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var (
		fieldErr      *services.FieldError
		paymentErr    *services.PaymentError
		settlementErr *services.SettlementError
	)

	switch {
	case errors.As(err, &fieldErr):
		renderer.Error(rnd, w, http.StatusBadRequest, "validation_error", fieldErr.Message,
			helpers.FieldError{Field: fieldErr.Field, Error: fieldErr.Message})
	case errors.As(err, &paymentErr):
		_ = rnd.JSON(w, http.StatusInternalServerError, H{
			"success": false,
			"message": "Payment failed",
			"code":    "payment_failed",
			"error":   H{"code": paymentErr.Code, "message": paymentErr.Message},
		})
	case errors.As(err, &settlementErr):
		logger.Error().Err(err).Str("request_id", middlewares.GetRequestID(r.Context())).Msg("checkout settlement failed")
		_ = rnd.JSON(w, http.StatusInternalServerError, H{
			"success":        false,
			"message":        "Payment received but the order could not be saved",
			"code":           "settlement_failed",
			"transaction_id": settlementErr.TransactionID,
			"order_code":     settlementErr.OrderCode,
			"reversed":       settlementErr.Compensated,
		})
	case errors.Is(err, services.ErrNotFound):
		renderer.Error(rnd, w, http.StatusNotFound, "not_found", "Not Found")
	case errors.Is(err, services.ErrCategoryExists):
		renderer.Error(rnd, w, http.StatusConflict, "category_exists", "Category Already Exists")
	case errors.Is(err, services.ErrCategoryInUse):
		renderer.Error(rnd, w, http.StatusConflict, "category_in_use", "Category is still used by products")
	case errors.Is(err, services.ErrInsufficientStock):
		renderer.Error(rnd, w, http.StatusConflict, "insufficient_stock", "Insufficient product stock")
	case errors.Is(err, services.ErrUnknownProduct):
		renderer.Error(rnd, w, http.StatusBadRequest, "unknown_product", "Cart contains an unknown product")
	case errors.Is(err, services.ErrEmailTaken):
		renderer.Error(rnd, w, http.StatusConflict, "email_taken", "Email is already registered")
	case errors.Is(err, services.ErrInvalidCredentials):
		renderer.Error(rnd, w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
	case errors.Is(err, services.ErrInvalidToken):
		renderer.Error(rnd, w, http.StatusUnauthorized, "invalid_token", "Unauthorized")
	default:
		logger.Error().Err(err).
			Str("request_id", middlewares.GetRequestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg(fallback)
		renderer.Error(rnd, w, http.StatusInternalServerError, "internal_error", fallback)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return &services.FieldError{Field: "body", Message: "Request body must be valid JSON"}
	}
	return nil
}
