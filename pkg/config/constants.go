package config

// EnvPrefix scopes every environment variable read by Load.
const EnvPrefix = "CARTIFY"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "CARTIFY_APP_ENV"
	EnvDBDSN  = "CARTIFY_DB_DSN"
	EnvDBHost = "CARTIFY_DB_HOST"
	EnvDBUser = "CARTIFY_DB_USER"
	EnvDBName = "CARTIFY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
