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
	Shopify      ShopifyConfig
	Reconcile    ReconcileConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Shopify.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"APP_ENV" required:"true"`
	Port         string `envconfig:"APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DB_DSN"`
	Driver string `envconfig:"DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"DB_HOST"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig backs the optional idempotency store. Leaving URL and Address
// empty disables idempotency handling on bundle creation.
type RedisConfig struct {
	URL          string        `envconfig:"REDIS_URL"`
	Address      string        `envconfig:"REDIS_ADDR"`
	Password     string        `envconfig:"REDIS_PASSWORD"`
	DB           int           `envconfig:"REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

// ShopifyConfig carries the Admin API endpoint and credential. It is injected
// into the Shopify client at construction; nothing reads it ambiently.
type ShopifyConfig struct {
	StoreDomain string        `envconfig:"SHOPIFY_STORE" required:"true"`
	AccessToken string        `envconfig:"SHOPIFY_ADMIN_API_ACCESS_TOKEN" required:"true"`
	APIVersion  string        `envconfig:"SHOPIFY_API_VERSION" default:"2025-07"`
	HTTPTimeout time.Duration `envconfig:"SHOPIFY_HTTP_TIMEOUT" default:"15s"`
}

// AdminBaseURL returns the versioned Admin API root for the configured shop,
// e.g. https://my-shop.myshopify.com/admin/api/2025-07.
func (s ShopifyConfig) AdminBaseURL() string {
	domain := strings.TrimSpace(s.StoreDomain)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimSuffix(domain, "/")
	return fmt.Sprintf("https://%s/admin/api/%s", domain, s.apiVersion())
}

func (s ShopifyConfig) apiVersion() string {
	v := strings.TrimSpace(s.APIVersion)
	if v == "" {
		return DefaultShopifyAPIVersion
	}
	return v
}

func (s ShopifyConfig) validate() error {
	if strings.TrimSpace(s.StoreDomain) == "" {
		return fmt.Errorf("%s is required", EnvShopifyStore)
	}
	if strings.TrimSpace(s.AccessToken) == "" {
		return fmt.Errorf("%s is required", EnvShopifyToken)
	}
	return nil
}

type ReconcileConfig struct {
	DryRun bool `envconfig:"RECONCILE_DRY_RUN" default:"false"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	parts := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range []string{EnvDBHost, EnvDBUser, EnvDBName} {
		if parts[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
