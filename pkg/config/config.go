package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	Stripe       StripeConfig
	Checkout     CheckoutConfig
	Mail         MailConfig
	Catalog      CatalogConfig
	Webhook      WebhookConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
		if cfg.DB.DSN == "" {
			cfg.DB.DSN = SQLiteDevDSN
		}
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SCRAPERITE_APP_ENV" required:"true"`
	Port         string `envconfig:"SCRAPERITE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SCRAPERITE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SCRAPERITE_LOG_WARN_STACK" default:"false"`
	SiteURL      string `envconfig:"SCRAPERITE_SITE_URL" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SCRAPERITE_DB_DSN"`
	Driver string `envconfig:"SCRAPERITE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SCRAPERITE_DB_HOST"`
	LegacyPort     int    `envconfig:"SCRAPERITE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SCRAPERITE_DB_USER"`
	LegacyPassword string `envconfig:"SCRAPERITE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SCRAPERITE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SCRAPERITE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SCRAPERITE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SCRAPERITE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SCRAPERITE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SCRAPERITE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SCRAPERITE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SCRAPERITE_REDIS_ADDR"`
	Password     string        `envconfig:"SCRAPERITE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SCRAPERITE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SCRAPERITE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SCRAPERITE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SCRAPERITE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SCRAPERITE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SCRAPERITE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SCRAPERITE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SCRAPERITE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SCRAPERITE_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"SCRAPERITE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SCRAPERITE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SCRAPERITE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SCRAPERITE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SCRAPERITE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SCRAPERITE_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SCRAPERITE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SCRAPERITE_AUTO_MIGRATE" default:"false"`
}

type StripeConfig struct {
	APIKey        string `envconfig:"SCRAPERITE_STRIPE_API_KEY"`
	WebhookSecret string `envconfig:"SCRAPERITE_STRIPE_WEBHOOK_SECRET"`
	Env           string `envconfig:"SCRAPERITE_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type CheckoutConfig struct {
	Currency           string   `envconfig:"SCRAPERITE_CHECKOUT_CURRENCY" default:"sek"`
	AllowedCountries   []string `envconfig:"SCRAPERITE_CHECKOUT_ALLOWED_COUNTRIES" default:"SE,NO,DK,FI"`
	ShippingName       string   `envconfig:"SCRAPERITE_CHECKOUT_SHIPPING_NAME" default:"Standard shipping"`
	ShippingAmount     int64    `envconfig:"SCRAPERITE_CHECKOUT_SHIPPING_AMOUNT" default:"4900"`
	ShippingMinDays    int64    `envconfig:"SCRAPERITE_CHECKOUT_SHIPPING_MIN_DAYS" default:"3"`
	ShippingMaxDays    int64    `envconfig:"SCRAPERITE_CHECKOUT_SHIPPING_MAX_DAYS" default:"5"`
	PaymentMethodTypes []string `envconfig:"SCRAPERITE_CHECKOUT_PAYMENT_METHODS" default:"card"`
}

type MailConfig struct {
	AdminEmail string `envconfig:"SCRAPERITE_ADMIN_EMAIL"`
	FromName   string `envconfig:"SCRAPERITE_MAIL_FROM_NAME" default:"Scraperite"`
	FromEmail  string `envconfig:"SCRAPERITE_MAIL_FROM_EMAIL" default:"noreply@scraperite.com"`

	EmailitAPIKey  string `envconfig:"SCRAPERITE_EMAILIT_API_KEY"`
	EmailitAPIURL  string `envconfig:"SCRAPERITE_EMAILIT_API_URL" default:"https://api.emailit.com/v1/emails"`
	EmailitSMTPKey string `envconfig:"SCRAPERITE_EMAILIT_SMTP_KEY"`
	EmailitHost    string `envconfig:"SCRAPERITE_EMAILIT_SMTP_HOST" default:"smtp.emailit.co"`
	EmailitPort    int    `envconfig:"SCRAPERITE_EMAILIT_SMTP_PORT" default:"587"`

	SMTPHost   string `envconfig:"SCRAPERITE_SMTP_HOST"`
	SMTPPort   int    `envconfig:"SCRAPERITE_SMTP_PORT" default:"587"`
	SMTPUser   string `envconfig:"SCRAPERITE_SMTP_USER"`
	SMTPPass   string `envconfig:"SCRAPERITE_SMTP_PASS"`
	SMTPSecure bool   `envconfig:"SCRAPERITE_SMTP_SECURE" default:"false"`

	GmailUser        string `envconfig:"SCRAPERITE_GMAIL_USER"`
	GmailAppPassword string `envconfig:"SCRAPERITE_GMAIL_APP_PASSWORD"`
}

type CatalogConfig struct {
	CacheTTL time.Duration `envconfig:"SCRAPERITE_CATALOG_CACHE_TTL" default:"5m"`
}

type WebhookConfig struct {
	IdempotencyTTL time.Duration `envconfig:"SCRAPERITE_WEBHOOK_IDEMPOTENCY_TTL" default:"720h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
