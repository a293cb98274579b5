package config

// Environment variable names shared across config parsing and tests.
const (
	EnvPrefix = "SIPES"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv     = "SIPES_APP_ENV"
	EnvPort       = "SIPES_APP_PORT"
	EnvRedisURL   = "SIPES_REDIS_URL"
	EnvJWTSecret  = "SIPES_JWT_SECRET"
	EnvJWTIssuer  = "SIPES_JWT_ISSUER"
	EnvJWTExpMins = "SIPES_JWT_EXPIRATION_MINUTES"

	EnvDBDSN  = "SIPES_DB_DSN"
	EnvDBHost = "SIPES_DB_HOST"
	EnvDBUser = "SIPES_DB_USER"
	EnvDBName = "SIPES_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
