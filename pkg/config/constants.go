package config

// EnvPrefix is prepended by envconfig to every tag in this package, so
// BXGY_APP_ENV configures AppConfig.Env and so on.
const EnvPrefix = "bxgy"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const DefaultShopifyAPIVersion = "2025-07"

// Fully-qualified variable names, used in error messages and tests.
const (
	EnvAppEnv       = "BXGY_APP_ENV"
	EnvAppPort      = "BXGY_APP_PORT"
	EnvDBDSN        = "BXGY_DB_DSN"
	EnvDBHost       = "BXGY_DB_HOST"
	EnvDBUser       = "BXGY_DB_USER"
	EnvDBName       = "BXGY_DB_NAME"
	EnvRedisURL     = "BXGY_REDIS_URL"
	EnvShopifyStore = "BXGY_SHOPIFY_STORE"
	EnvShopifyToken = "BXGY_SHOPIFY_ADMIN_API_ACCESS_TOKEN"
)
