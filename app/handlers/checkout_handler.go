package handlers

import (
	"net/http"

	"github.com/Rakhulsr/ecommerce-api/app/middlewares"
	"github.com/Rakhulsr/ecommerce-api/app/services"
	"github.com/rs/zerolog"
	"github.com/unrolled/render"
)

type CheckoutHandler struct {
	service *services.CheckoutService
	render  *render.Render
	logger  zerolog.Logger
}

func NewCheckoutHandler(service *services.CheckoutService, rnd *render.Render, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{service: service, render: rnd, logger: logger}
}

func (h *CheckoutHandler) Token(w http.ResponseWriter, r *http.Request) {
	token, err := h.service.ClientToken(r.Context())
	if err != nil {
		respondError(h.render, h.logger, w, r, err, "Error while generating payment token")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, token)
}

func (h *CheckoutHandler) Payment(w http.ResponseWriter, r *http.Request) {
	claims, found := middlewares.GetClaims(r.Context())
	if !found {
		respondError(h.render, h.logger, w, r, services.ErrInvalidToken, "Error in processing payment")
		return
	}

	var in services.CheckoutInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(h.render, h.logger, w, r, &services.FieldError{Field: "body", Message: "Invalid payment request"}, "Error in processing payment")
		return
	}

	order, err := h.service.Checkout(r.Context(), claims.UserID, in)
	if err != nil {
		respondError(h.render, h.logger, w, r, err, "Error in processing payment")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, H{"ok": true, "success": true, "order": order})
}
