package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/Rakhulsr/ecommerce-api/app/configs"
	"github.com/Rakhulsr/ecommerce-api/app/handlers"
	"github.com/Rakhulsr/ecommerce-api/app/middlewares"
	"github.com/Rakhulsr/ecommerce-api/app/repositories"
	"github.com/Rakhulsr/ecommerce-api/app/services"
	"github.com/Rakhulsr/ecommerce-api/app/utils/format"
	"github.com/Rakhulsr/ecommerce-api/app/utils/renderer"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// App is the routed handler plus the checkout service whose background
// receipts must finish before the process exits.
type App struct {
	http.Handler
	checkout *services.CheckoutService
}

// Drain waits for in-flight receipt deliveries until ctx is done.
func (a *App) Drain(ctx context.Context) error {
	return a.checkout.WaitReceipts(ctx)
}

// NewApp wires repositories, services and handlers on top of db.
func NewApp(db *gorm.DB, env configs.ENV, logger zerolog.Logger) *App {
	rnd := renderer.New(!env.IsProduction())

	categoryRepo := repositories.NewCategoryRepository(db)
	productRepo := repositories.NewProductRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	userRepo := repositories.NewUserRepository(db)

	authService := services.NewAuthService(userRepo, env.JWTSecret, time.Duration(env.JWTTTLHours)*time.Hour, logger)
	orderService := services.NewOrderService(orderRepo, logger)

	gateway := services.NewMidtransGateway(
		configs.NewMidtransCoreAPIClient(env),
		env.MidtransClientKey,
		env.MidtransEnv,
		logger.With().Str("component", "midtrans").Logger(),
	)

	var notifier services.ReceiptNotifier = services.NoopReceiptNotifier{}
	if env.MailEnabled() {
		mailer := services.NewMailer(services.Config{
			Host:     env.EmailHost,
			Port:     env.EmailPort,
			Username: env.EmailUsername,
			Password: env.EmailPassword,
			From:     env.EmailFrom,
			Timeout:  services.DefaultMailTimeout,
		}, logger)
		notifier = services.NewMailReceiptNotifier(mailer, format.NewMoney(env.CurrencySymbol, env.CurrencyPrecision), env.AppName)
	}

	var roles middlewares.RoleResolver = middlewares.TokenRoleResolver{}
	if env.AuthRoleSource == configs.RoleSourceDatabase {
		roles = services.NewUserRoleResolver(userRepo)
	}

	checkout := services.NewCheckoutService(productRepo, orderRepo, userRepo, gateway, notifier, logger)

	router := NewRouter(Options{
		Handlers: Handlers{
			Category: handlers.NewCategoryHandler(services.NewCategoryService(categoryRepo, logger), rnd, logger),
			Product:  handlers.NewProductHandler(services.NewProductService(productRepo, categoryRepo, logger), rnd, logger),
			Auth:     handlers.NewAuthHandler(authService, orderService, rnd, logger),
			Checkout: handlers.NewCheckoutHandler(checkout, rnd, logger),
		},
		Auth:           middlewares.NewAuthMiddleware(authService, rnd, logger),
		Roles:          roles,
		Render:         rnd,
		Logger:         logger,
		AllowedOrigins: env.AllowedOrigins(),
		RateLimiter:    middlewares.NewRateLimiter(env.RateLimitRPS, env.RateLimitBurst, rnd),
	})
	return &App{Handler: router, checkout: checkout}
}
