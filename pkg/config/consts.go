package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "SCRAPERITE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	// SQLiteDevDSN is the file the dev sqlite toggle writes to.
	SQLiteDevDSN = "file:scraperite_dev.db?_pragma=foreign_keys(1)"
)

const (
	EnvDBDSN  = "SCRAPERITE_DB_DSN"
	EnvDBHost = "SCRAPERITE_DB_HOST"
	EnvDBUser = "SCRAPERITE_DB_USER"
	EnvDBName = "SCRAPERITE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
