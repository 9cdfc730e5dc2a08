package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Rakhulsr/ecommerce-api/app/configs"
	"github.com/Rakhulsr/ecommerce-api/app/db/seeders"
	"github.com/Rakhulsr/ecommerce-api/app/models/migrations"
	"github.com/Rakhulsr/ecommerce-api/app/repositories"
	"github.com/Rakhulsr/ecommerce-api/app/routes"
	"github.com/Rakhulsr/ecommerce-api/app/services"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

func NewCli() *cli.Command {
	return &cli.Command{
		Name:   "ecommerce-api",
		Usage:  "E-commerce REST API",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP server",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withDB(ctx, func(db *gorm.DB, env configs.ENV, log zerolog.Logger) error {
						if err := migrations.AutoMigrate(db); err != nil {
							return err
						}
						log.Info().Msg("migration complete")
						return nil
					})
				},
			},
			{
				Name:  "seed",
				Usage: "Seed demo categories and products",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "categories", Value: 4, Usage: "number of categories"},
					&cli.IntFlag{Name: "products", Value: 6, Usage: "products per category"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withDB(ctx, func(db *gorm.DB, env configs.ENV, log zerolog.Logger) error {
						return seeders.DBSeed(ctx, db, int(c.Int("categories")), int(c.Int("products")), log)
					})
				},
			},
			{
				Name:  "create-admin",
				Usage: "Create an admin user, or promote an existing one",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Value: "Admin"},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "phone", Value: "-"},
					&cli.StringFlag{Name: "address", Value: "-"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withDB(ctx, func(db *gorm.DB, env configs.ENV, log zerolog.Logger) error {
						auth := services.NewAuthService(repositories.NewUserRepository(db), env.JWTSecret, time.Duration(env.JWTTTLHours)*time.Hour, log)
						user, err := auth.PromoteToAdmin(ctx, services.RegisterInput{
							Name:     c.String("name"),
							Email:    c.String("email"),
							Password: c.String("password"),
							Phone:    c.String("phone"),
							Address:  c.String("address"),
						})
						if err != nil {
							return err
						}
						log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("admin ready")
						return nil
					})
				},
			},
			{
				Name:  "generate-secret",
				Usage: "Print a random JWT_SECRET for .env",
				Action: func(ctx context.Context, c *cli.Command) error {
					secret, err := configs.GenerateJWTSecret()
					if err != nil {
						return err
					}
					fmt.Printf("JWT_SECRET=%s\n", secret)
					return nil
				},
			},
		},
	}
}

func RunCli(ctx context.Context, args []string) error {
	return NewCli().Run(ctx, args)
}

func withDB(ctx context.Context, fn func(db *gorm.DB, env configs.ENV, log zerolog.Logger) error) error {
	env, err := configs.LoadEnv()
	if err != nil {
		return err
	}
	log := configs.NewLogger(env)

	db, err := configs.OpenConnection(ctx, env, log)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	return fn(db, env, log)
}

func serve(ctx context.Context, c *cli.Command) error {
	return withDB(ctx, func(db *gorm.DB, env configs.ENV, log zerolog.Logger) error {
		app := routes.NewApp(db, env, log)
		server := &http.Server{
			Addr:              env.Addr(),
			Handler:           app,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("addr", server.Addr).Str("env", env.AppEnv).Msg("server starting")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		if err := app.Drain(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("pending order receipts abandoned")
		}
		log.Info().Msg("server stopped")
		return nil
	})
}

// Exit prints err and exits with a non-zero status.
func Exit(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
