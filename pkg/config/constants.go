package config

const (
	EnvPrefix = "PANTRYFLOW"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv = "PANTRYFLOW_APP_ENV"
	EnvPort   = "PANTRYFLOW_APP_PORT"

	EnvDBDSN  = "PANTRYFLOW_DB_DSN"
	EnvDBHost = "PANTRYFLOW_DB_HOST"
	EnvDBUser = "PANTRYFLOW_DB_USER"
	EnvDBName = "PANTRYFLOW_DB_NAME"

	EnvRedisURL   = "PANTRYFLOW_REDIS_URL"
	EnvJWTSecret  = "PANTRYFLOW_JWT_SECRET"
	EnvJWTIssuer  = "PANTRYFLOW_JWT_ISSUER"
	EnvJWTExpMins = "PANTRYFLOW_JWT_EXPIRATION_MINUTES"
)

var fallbackDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
