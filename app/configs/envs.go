package configs

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const (
	RoleSourceToken    = "token"
	RoleSourceDatabase = "database"
)

// ENV is the flat runtime configuration. Keys are the lower-cased
// environment variable names, e.g. DB_HOST -> db_host.
type ENV struct {
	AppEnv  string `koanf:"app_env"`
	AppName string `koanf:"app_name"`
	Port    string `koanf:"app_port"`

	DBHost       string `koanf:"db_host" validate:"required"`
	DBPort       string `koanf:"db_port" validate:"required"`
	DBUser       string `koanf:"db_user" validate:"required"`
	DBPassword   string `koanf:"db_password"`
	DBName       string `koanf:"db_name" validate:"required"`
	DBMaxRetries int    `koanf:"db_max_retries"`

	JWTSecret      string `koanf:"jwt_secret" validate:"required,min=16"`
	JWTTTLHours    int    `koanf:"jwt_ttl_hours"`
	AuthRoleSource string `koanf:"auth_role_source" validate:"omitempty,oneof=token database"`

	MidtransServerKey string `koanf:"midtrans_server_key" validate:"required"`
	MidtransClientKey string `koanf:"midtrans_client_key" validate:"required"`
	MidtransEnv       string `koanf:"midtrans_env" validate:"omitempty,oneof=sandbox production"`

	CurrencySymbol    string `koanf:"currency_symbol"`
	CurrencyPrecision int    `koanf:"currency_precision"`

	CORSAllowedOrigins string  `koanf:"cors_allowed_origins"`
	RateLimitRPS       float64 `koanf:"rate_limit_rps"`
	RateLimitBurst     int     `koanf:"rate_limit_burst"`

	EmailHost     string `koanf:"email_host"`
	EmailPort     string `koanf:"email_port"`
	EmailUsername string `koanf:"email_username"`
	EmailPassword string `koanf:"email_password"`
	EmailFrom     string `koanf:"email_from"`
}

// LoadEnv reads .env (if present) and the process environment into ENV,
// applies defaults and validates required keys.
func LoadEnv() (ENV, error) {
	var cfg ENV

	// a missing .env is normal outside local development
	_ = godotenv.Load(".env")

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return cfg, fmt.Errorf("load environment: %w", err)
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("decode environment: %w", err)
	}

	cfg.applyDefaults()

	if err := validator.New().Struct(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (e *ENV) applyDefaults() {
	if e.AppEnv == "" {
		e.AppEnv = "development"
	}
	if e.AppName == "" {
		e.AppName = "ecommerce-api"
	}
	if e.Port == "" {
		e.Port = "7000"
	}
	if e.DBMaxRetries <= 0 {
		e.DBMaxRetries = 10
	}
	if e.JWTTTLHours <= 0 {
		e.JWTTTLHours = 24 * 7
	}
	if e.AuthRoleSource == "" {
		e.AuthRoleSource = RoleSourceToken
	}
	if e.MidtransEnv == "" {
		e.MidtransEnv = "sandbox"
	}
	if e.CurrencySymbol == "" {
		e.CurrencySymbol = "Rp "
	}
	if e.CORSAllowedOrigins == "" {
		e.CORSAllowedOrigins = "*"
	}
	if e.RateLimitRPS <= 0 {
		e.RateLimitRPS = 20
	}
	if e.RateLimitBurst <= 0 {
		e.RateLimitBurst = 40
	}
	if e.EmailFrom == "" {
		e.EmailFrom = e.EmailUsername
	}
}

func (e ENV) IsProduction() bool {
	return e.AppEnv == "production"
}

func (e ENV) Addr() string {
	if strings.HasPrefix(e.Port, ":") {
		return e.Port
	}
	return ":" + e.Port
}

func (e ENV) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(e.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (e ENV) MailEnabled() bool {
	return e.EmailHost != "" && e.EmailPort != "" && e.EmailFrom != ""
}
