package config

const (
	EnvPrefix = "MERCHANT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DateLayout           = "2006-01-02"
	DefaultReferenceDate = "2024-12-29"

	EnvAppEnv                 = "MERCHANT_APP_ENV"
	EnvPort                   = "MERCHANT_APP_PORT"
	EnvDBDSN                  = "MERCHANT_DB_DSN"
	EnvDBSQLitePath           = "MERCHANT_DB_SQLITE_PATH"
	EnvDBHost                 = "MERCHANT_DB_HOST"
	EnvDBUser                 = "MERCHANT_DB_USER"
	EnvDBName                 = "MERCHANT_DB_NAME"
	EnvUseSQLite              = "MERCHANT_USE_SQLITE"
	EnvRedisURL               = "MERCHANT_REDIS_URL"
	EnvJWTSecret              = "MERCHANT_JWT_SECRET"
	EnvDashboardReferenceDate = "MERCHANT_DASHBOARD_REFERENCE_DATE"
)

var dbPartEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
