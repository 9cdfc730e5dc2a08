package handlers

import (
	"errors"
	"net/http"

	"github.com/Rakhulsr/ecommerce-api/app/services"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/unrolled/render"
)

type categoryRequest struct {
	Name string `json:"name"`
}

type CategoryHandler struct {
	service *services.CategoryService
	render  *render.Render
	logger  zerolog.Logger
}

func NewCategoryHandler(service *services.CategoryService, rnd *render.Render, logger zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{service: service, render: rnd, logger: logger}
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(h.render, h.logger, w, r, err, "Error in Category")
		return
	}

	category, err := h.service.Create(r.Context(), req.Name)
	if errors.Is(err, services.ErrCategoryExists) {
		respond(h.render, w, http.StatusOK, "Category Already Exists", nil)
		return
	}
	if err != nil {
		respondError(h.render, h.logger, w, r, err, "Error in Category")
		return
	}
	respond(h.render, w, http.StatusCreated, "New category created", H{"category": category})
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(h.render, h.logger, w, r, err, "Error while updating category")
		return
	}

	category, err := h.service.Update(r.Context(), mux.Vars(r)["id"], req.Name)
	if err != nil {
		respondError(h.render, h.logger, w, r, err, "Error while updating category")
		return
	}
	respond(h.render, w, http.StatusOK, "Category Updated Successfully", H{"category": category})
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		respondError(h.render, h.logger, w, r, err, "Error while getting all categories")
		return
	}
	respond(h.render, w, http.StatusOK, "All Categories List", H{"category": categories})
}

func (h *CategoryHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	category, err := h.service.GetBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		respondError(h.render, h.logger, w, r, err, "Error while getting single category")
		return
	}
	respond(h.render, w, http.StatusOK, "Get Single Category Successful", H{"category": category})
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(h.render, h.logger, w, r, err, "Error while deleting category")
		return
	}
	respond(h.render, w, http.StatusOK, "Category Deleted Successfully", nil)
}
