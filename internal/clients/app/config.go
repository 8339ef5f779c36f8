package app

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/aussiebroadwan/clientdesk/pkg/httpx"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// productionSecretLength is the shortest SECRET_KEY accepted with DEBUG off.
	productionSecretLength = 32
)

type Config struct {
	SecretKey          string   `env:"SECRET_KEY" validate:"required,min=16"`
	Debug              bool     `env:"DEBUG"`
	AllowedHosts       []string `env:"ALLOWED_HOSTS" envSeparator:","`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	// DatabaseDriver is inferred when empty: postgres if DATABASE_URL or
	// DB_NAME is set, sqlite otherwise.
	DatabaseDriver string `env:"DATABASE_DRIVER" validate:"omitempty,oneof=sqlite postgres"`
	DatabaseFile   string `env:"DATABASE_FILE" envDefault:"clients.db"`
	DatabaseURL    string `env:"DATABASE_URL"`
	DBName         string `env:"DB_NAME"`
	DBUser         string `env:"DB_USER"`
	DBPassword     string `env:"DB_PASSWORD"`
	DBHost         string `env:"DB_HOST" envDefault:"localhost"`
	DBPort         int    `env:"DB_PORT" envDefault:"5432"`
	DBSSLMode      string `env:"DB_SSLMODE" envDefault:"disable"`

	AccessTokenLifetime  time.Duration `env:"ACCESS_TOKEN_LIFETIME" envDefault:"5m" validate:"gt=0"`
	RefreshTokenLifetime time.Duration `env:"REFRESH_TOKEN_LIFETIME" envDefault:"24h" validate:"gtfield=AccessTokenLifetime"`
	JWTIssuer            string        `env:"JWT_ISSUER" envDefault:"clientdesk" validate:"required"`
	JWTLeeway            time.Duration `env:"JWT_LEEWAY" envDefault:"0s" validate:"gte=0"`

	PageSize    int `env:"PAGE_SIZE" envDefault:"10" validate:"gt=0"`
	MaxPageSize int `env:"MAX_PAGE_SIZE" envDefault:"100" validate:"gtefield=PageSize"`

	BootstrapAdminUsername string `env:"BOOTSTRAP_ADMIN_USERNAME"`
	BootstrapAdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
	PepperFile             string `env:"PEPPER_FILE" envDefault:"pepper"`

	Env                 string        `env:"ENV" envDefault:"dev"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogFormat           string        `env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json text"`
	Port                int           `env:"PORT" envDefault:"8080" validate:"gt=0,lte=65535"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	MetricsEnabled      bool          `env:"METRICS_ENABLED" envDefault:"true"`

	RateLimits httpx.RateLimits `envPrefix:"RATELIMIT_"`
}

// LoadConfig reads an optional .env file, then the environment. Variables
// already set in the environment win over .env entries.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{RateLimits: httpx.DefaultRateLimits()}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Debug {
		return nil
	}

	var errs []error
	if len(c.SecretKey) < productionSecretLength {
		errs = append(errs, fmt.Errorf("SECRET_KEY must be at least %d characters when DEBUG is off", productionSecretLength))
	}
	if len(c.AllowedHosts) == 0 {
		errs = append(errs, errors.New("ALLOWED_HOSTS is required when DEBUG is off"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c Config) Driver() string {
	switch {
	case c.DatabaseDriver != "":
		return c.DatabaseDriver
	case c.DatabaseURL != "", c.DBName != "":
		return DriverPostgres
	default:
		return DriverSQLite
	}
}

// PostgresDSN returns DATABASE_URL, or a URL assembled from the DB_* parts.
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.DBSSLMode}}.Encode(),
	}
	if c.DBUser != "" {
		u.User = url.UserPassword(c.DBUser, c.DBPassword)
	}
	return u.String()
}

// CORSAllowAll mirrors the development default of accepting any origin.
func (c Config) CORSAllowAll() bool {
	return c.Debug
}
