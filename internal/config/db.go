package config

// GormEngine selects which gorm driver the daemon opens.
type GormEngine string

const (
	// EnginePostgres is the default production engine.
	EnginePostgres GormEngine = "postgres"
	// EngineMySQL is kept for installations that already run MariaDB/MySQL.
	EngineMySQL GormEngine = "mysql"
	// EngineSQLite is a file or in-memory database for dev setups.
	EngineSQLite GormEngine = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Extras     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	Path       string // file path when GormEngine is sqlite
	GormEngine GormEngine
}
