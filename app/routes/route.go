package routes

import (
	"net/http"

	"github.com/Rakhulsr/ecommerce-api/app/handlers"
	"github.com/Rakhulsr/ecommerce-api/app/middlewares"
	"github.com/Rakhulsr/ecommerce-api/app/models"
	"github.com/Rakhulsr/ecommerce-api/app/utils/renderer"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/unrolled/render"
)

const APIPrefix = "/api/v1"

type Handlers struct {
	Category *handlers.CategoryHandler
	Product  *handlers.ProductHandler
	Auth     *handlers.AuthHandler
	Checkout *handlers.CheckoutHandler
}

type Options struct {
	Handlers       Handlers
	Auth           *middlewares.AuthMiddleware
	Roles          middlewares.RoleResolver
	Render         *render.Render
	Logger         zerolog.Logger
	AllowedOrigins []string
	// RateLimiter is optional.
	RateLimiter *middlewares.RateLimiter
}

func NewRouter(opts Options) http.Handler {
	router := mux.NewRouter()
	api := router.PathPrefix(APIPrefix).Subrouter()

	signedIn := opts.Auth.RequireSignIn
	can := func(perm models.Permission, h http.HandlerFunc) http.Handler {
		return signedIn(opts.Auth.RequirePermission(perm, opts.Roles)(h))
	}
	catalog := func(h http.HandlerFunc) http.Handler { return can(models.PermManageCatalog, h) }

	auth := opts.Handlers.Auth
	api.HandleFunc("/auth/register", auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", auth.Login).Methods(http.MethodPost)
	api.Handle("/auth/user-auth", signedIn(http.HandlerFunc(auth.Authorized))).Methods(http.MethodGet)
	api.Handle("/auth/admin-auth", can(models.PermManageCatalog, auth.Authorized)).Methods(http.MethodGet)
	api.Handle("/auth/orders", can(models.PermViewOwnOrders, auth.Orders)).Methods(http.MethodGet)
	api.Handle("/auth/all-orders", can(models.PermManageOrders, auth.AllOrders)).Methods(http.MethodGet)
	api.Handle("/auth/order-status/{orderId}", can(models.PermManageOrders, auth.OrderStatus)).Methods(http.MethodPut)

	category := opts.Handlers.Category
	api.Handle("/category", catalog(category.Create)).Methods(http.MethodPost)
	api.HandleFunc("/category", category.List).Methods(http.MethodGet)
	api.Handle("/category/{id}", catalog(category.Update)).Methods(http.MethodPut)
	api.Handle("/category/{id}", catalog(category.Delete)).Methods(http.MethodDelete)
	api.HandleFunc("/category/{slug}", category.GetBySlug).Methods(http.MethodGet)

	// fixed /product/... paths go before /product/{slug}
	product := opts.Handlers.Product
	api.Handle("/product", catalog(product.Create)).Methods(http.MethodPost)
	api.HandleFunc("/product", product.List).Methods(http.MethodGet)
	api.HandleFunc("/product/count", product.Count).Methods(http.MethodGet)
	api.HandleFunc("/product/filters", product.Filter).Methods(http.MethodPost)
	api.HandleFunc("/product/photo/{pid}", product.Photo).Methods(http.MethodGet)
	api.HandleFunc("/product/list/{page}", product.Page).Methods(http.MethodGet)
	api.HandleFunc("/product/search/{keyword}", product.Search).Methods(http.MethodGet)
	api.HandleFunc("/product/related/{pid}/{cid}", product.Related).Methods(http.MethodGet)
	api.HandleFunc("/product/category/{slug}", product.ByCategory).Methods(http.MethodGet)
	api.HandleFunc("/product/{slug}", product.GetBySlug).Methods(http.MethodGet)
	api.Handle("/product/{pid}", catalog(product.Update)).Methods(http.MethodPut)
	api.Handle("/product/{pid}", catalog(product.Delete)).Methods(http.MethodDelete)

	checkout := opts.Handlers.Checkout
	api.HandleFunc("/payment/token", checkout.Token).Methods(http.MethodGet)
	api.Handle("/payment/checkout", can(models.PermPlaceOrder, checkout.Payment)).Methods(http.MethodPost)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		renderer.Error(opts.Render, w, http.StatusNotFound, "route_not_found", "Route not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		renderer.Error(opts.Render, w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	})

	// RequestID ends up outermost
	var handler http.Handler = router
	if opts.RateLimiter != nil {
		handler = opts.RateLimiter.Middleware(handler)
	}
	handler = middlewares.CORS(opts.AllowedOrigins)(handler)
	handler = middlewares.SecurityHeaders(handler)
	handler = middlewares.RequestLogging(opts.Logger)(handler)
	handler = middlewares.Recover(opts.Render, opts.Logger)(handler)
	handler = middlewares.RequestID(handler)
	return handler
}
