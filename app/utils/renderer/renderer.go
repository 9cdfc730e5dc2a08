package renderer

import (
	"net/http"

	"github.com/Rakhulsr/ecommerce-api/app/helpers"
	"github.com/unrolled/render"
)

// ErrorBody is the envelope of every failed request.
type ErrorBody struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Code    string               `json:"code"`
	Errors  []helpers.FieldError `json:"errors,omitempty"`
}

func New(indent bool) *render.Render {
	return render.New(render.Options{
		IndentJSON:   indent,
		UnEscapeHTML: true,
	})
}

func Error(rnd *render.Render, w http.ResponseWriter, status int, code, message string, fields ...helpers.FieldError) {
	_ = rnd.JSON(w, status, ErrorBody{
		Success: false,
		Message: message,
		Code:    code,
		Errors:  fields,
	})
}
