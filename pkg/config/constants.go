package config

// EnvPrefix scopes all environment variables consumed by envconfig.
const EnvPrefix = "temankemah"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "TEMANKEMAH_DB_DSN"
	EnvDBHost = "TEMANKEMAH_DB_HOST"
	EnvDBUser = "TEMANKEMAH_DB_USER"
	EnvDBName = "TEMANKEMAH_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
