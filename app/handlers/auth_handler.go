package handlers

import (
	"net/http"

	"github.com/Rakhulsr/ecommerce-api/app/middlewares"
	"github.com/Rakhulsr/ecommerce-api/app/services"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/unrolled/render"
)

type AuthHandler struct {
	auth   *services.AuthService
	orders *services.OrderService
	render *render.Render
	logger zerolog.Logger
}

func NewAuthHandler(auth *services.AuthService, orders *services.OrderService, rnd *render.Render, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, orders: orders, render: rnd, logger: logger}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(h.render, h.logger, w, r, err, "Error in Registration")
		return
	}

	user, err := h.auth.Register(r.Context(), in)
	if err != nil {
		respondError(h.render, h.logger, w, r, err, "Error in Registration")
		return
	}
	respond(h.render, w, http.StatusCreated, "User Registered Successfully", H{"user": user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(h.render, h.logger, w, r, err, "Error in login")
		return
	}

	user, token, err := h.auth.Login(r.Context(), in)
	if err != nil {
		respondError(h.render, h.logger, w, r, err, "Error in login")
		return
	}
	respond(h.render, w, http.StatusOK, "Login successfully", H{"user": user, "token": token})
}

// Authorized answers the storefront's route guards.
func (h *AuthHandler) Authorized(w http.ResponseWriter, r *http.Request) {
	_ = h.render.JSON(w, http.StatusOK, H{"ok": true})
}

func (h *AuthHandler) Orders(w http.ResponseWriter, r *http.Request) {
	claims, found := middlewares.GetClaims(r.Context())
	if !found {
		respondError(h.render, h.logger, w, r, services.ErrInvalidToken, "Error while getting orders")
		return
	}

	orders, err := h.orders.BuyerOrders(r.Context(), claims.UserID)
	if err != nil {
		respondError(h.render, h.logger, w, r, err, "Error while getting orders")
		return
	}
	respond(h.render, w, http.StatusOK, "", H{"orders": orders})
}

func (h *AuthHandler) AllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.AllOrders(r.Context())
	if err != nil {
		respondError(h.render, h.logger, w, r, err, "Error while getting orders")
		return
	}
	respond(h.render, w, http.StatusOK, "", H{"orders": orders})
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

func (h *AuthHandler) OrderStatus(w http.ResponseWriter, r *http.Request) {
	var req orderStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(h.render, h.logger, w, r, err, "Error while updating order")
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), mux.Vars(r)["orderId"], req.Status)
	if err != nil {
		respondError(h.render, h.logger, w, r, err, "Error while updating order")
		return
	}
	respond(h.render, w, http.StatusOK, "Order Status Updated", H{"order": order})
}
