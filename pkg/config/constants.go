package config

// EnvPrefix namespaces every environment variable read by envconfig.
const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv    = "STOREFRONT_APP_ENV"
	EnvAppPort   = "STOREFRONT_APP_PORT"
	EnvJWTSecret = "STOREFRONT_JWT_SECRET"
	EnvRedisURL  = "STOREFRONT_REDIS_URL"

	EnvDBDSN  = "STOREFRONT_DB_DSN"
	EnvDBHost = "STOREFRONT_DB_HOST"
	EnvDBUser = "STOREFRONT_DB_USER"
	EnvDBName = "STOREFRONT_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
