package config

const (
	// EnvPrefix is passed to envconfig; every field carries an explicit name.
	EnvPrefix = "POS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	EnvAppEnv      = "POS_APP_ENV"
	EnvPort        = "POS_APP_PORT"
	EnvLogLevel    = "POS_LOG_LEVEL"
	EnvLogFormat   = "POS_LOG_FORMAT"
	EnvCORSOrigins = "POS_CORS_ORIGINS"
	EnvDBDriver    = "POS_DB_DRIVER"
	EnvDBPath      = "POS_DB_PATH"
	EnvDBDSN       = "POS_DB_DSN"
	EnvRedisURL    = "POS_REDIS_URL"
	EnvJWTSecret   = "POS_JWT_SECRET"
	EnvJWTIssuer   = "POS_JWT_ISSUER"
	EnvStoreID     = "POS_STORE_ID"
	EnvCartTTL     = "POS_CART_TTL_MINUTES"
	EnvCartCleanup = "POS_CART_CLEANUP_INTERVAL"
	EnvCartVATRate = "POS_CART_VAT_RATE"
)
