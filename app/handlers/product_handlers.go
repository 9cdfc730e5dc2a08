package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/Rakhulsr/ecommerce-api/app/models"
	"github.com/Rakhulsr/ecommerce-api/app/services"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

const (
	maxFormMemory = 2 << 20
	// room for the multipart framing and text fields around an oversized photo
	maxFormBody = 8 << 20
)

type ProductHandler struct {
	service *services.ProductService
	render  *render.Render
	logger  zerolog.Logger
}

func NewProductHandler(service *services.ProductService, rnd *render.Render, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{service: service, render: rnd, logger: logger}
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := parseProductForm(w, r)
	if err != nil {
		respondError(h.render, h.logger, w, r, err, "Error in creating product")
		return
	}

	product, err := h.service.Create(r.Context(), form)
	if err != nil {
		respondError(h.render, h.logger, w, r, err, "Error in creating product")
		return
	}
	respond(h.render, w, http.StatusCreated, "Product Created Successfully", H{"products": product})
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	form, err := parseProductForm(w, r)
	if err != nil {
		respondError(h.render, h.logger, w, r, err, "Error in updating product")
		return
	}

	product, err := h.service.Update(r.Context(), mux.Vars(r)["pid"], form)
	if err != nil {
		respondError(h.render, h.logger, w, r, err, "Error in updating product")
		return
	}
	respond(h.render, w, http.StatusOK, "Product Updated Successfully", H{"products": product})
}

func parseProductForm(w http.ResponseWriter, r *http.Request) (services.ProductForm, error) {
	var form services.ProductForm

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return form, &services.FieldError{Field: "photo", Message: "Photo should be less than 1mb"}
		case errors.Is(err, http.ErrNotMultipart):
			if err := r.ParseForm(); err != nil {
				return form, &services.FieldError{Field: "body", Message: "Invalid form data"}
			}
		default:
			return form, &services.FieldError{Field: "body", Message: "Invalid form data"}
		}
	}

	form.Name = r.FormValue("name")
	form.Description = r.FormValue("description")
	form.Price = r.FormValue("price")
	form.Category = r.FormValue("category")
	form.Quantity = r.FormValue("quantity")
	form.Shipping = r.FormValue("shipping")

	photo, err := readPhoto(r)
	if err != nil {
		return form, err
	}
	form.Photo = photo
	return form, nil
}

// readPhoto reads at most one byte past the size limit, which is enough for
// the service to reject the upload.
func readPhoto(r *http.Request) (*services.PhotoUpload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, &services.FieldError{Field: "photo", Message: "Invalid photo upload"}
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, models.MaxPhotoSize+1))
	if err != nil {
		return nil, &services.FieldError{Field: "photo", Message: "Invalid photo upload"}
	}
	if len(data) == 0 {
		return nil, nil
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return &services.PhotoUpload{Data: data, ContentType: contentType, Size: header.Size}, nil
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		respondError(h.render, h.logger, w, r, err, "Error in getting products")
		return
	}
	respond(h.render, w, http.StatusOK, "All Products received", H{
		"counTotal": len(products),
		"products":  products,
	})
}

func (h *ProductHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		respondError(h.render, h.logger, w, r, err, "Error while getting single product")
		return
	}
	respond(h.render, w, http.StatusOK, "Single Product Fetched", H{"product": product})
}

func (h *ProductHandler) Photo(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Photo(r.Context(), mux.Vars(r)["pid"])
	if err != nil {
		respondError(h.render, h.logger, w, r, err, "Error while getting photo")
		return
	}

	contentType := product.PhotoContentType
	if contentType == "" {
		contentType = http.DetectContentType(product.Photo)
	}
	w.Header().Set("Content-Type", contentType)
	_ = h.render.Data(w, http.StatusOK, product.Photo)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["pid"]); err != nil {
		respondError(h.render, h.logger, w, r, err, "Error while deleting product")
		return
	}
	respond(h.render, w, http.StatusOK, "Product Deleted successfully", nil)
}

type filterRequest struct {
	Checked    []string          `json:"checked"`
	CheckedArr []string          `json:"checkedArr"`
	Radio      []decimal.Decimal `json:"radio"`
}

func (h *ProductHandler) Filter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(h.render, h.logger, w, r, err, "Error while filtering products")
		return
	}

	products, err := h.service.Filter(r.Context(), services.FilterInput{
		Checked: append(req.Checked, req.CheckedArr...),
		Radio:   req.Radio,
	})
	if err != nil {
		respondError(h.render, h.logger, w, r, err, "Error while filtering products")
		return
	}
	if len(products) == 0 {
		respond(h.render, w, http.StatusOK, "No product matches the filters.", H{"products": products})
		return
	}
	respond(h.render, w, http.StatusOK, "", H{"products": products})
}

func (h *ProductHandler) Count(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.Count(r.Context())
	if err != nil {
		respondError(h.render, h.logger, w, r, err, "Error in product counting")
		return
	}
	respond(h.render, w, http.StatusOK, "", H{"total": total})
}

func (h *ProductHandler) Page(w http.ResponseWriter, r *http.Request) {
	page, err := services.ParsePage(mux.Vars(r)["page"])
	if err != nil {
		respondError(h.render, h.logger, w, r, err, "Error in getting products based on per page")
		return
	}

	products, err := h.service.Page(r.Context(), page)
	if err != nil {
		respondError(h.render, h.logger, w, r, err, "Error in getting products based on per page")
		return
	}
	respond(h.render, w, http.StatusOK, "", H{"products": products})
}

func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Search(r.Context(), mux.Vars(r)["keyword"])
	if err != nil {
		respondError(h.render, h.logger, w, r, err, "Error in searching products")
		return
	}
	respond(h.render, w, http.StatusOK, "Searching successful!", H{"results": results})
}

func (h *ProductHandler) Related(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	products, err := h.service.Related(r.Context(), vars["pid"], vars["cid"])
	if err != nil {
		respondError(h.render, h.logger, w, r, err, "Error while getting related products")
		return
	}
	respond(h.render, w, http.StatusOK, "", H{"products": products})
}

func (h *ProductHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	category, products, err := h.service.ByCategory(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		respondError(h.render, h.logger, w, r, err, "Error while getting products")
		return
	}
	respond(h.render, w, http.StatusOK, "", H{"category": category, "products": products})
}
