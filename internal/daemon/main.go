// Package daemon wires the database, seeding, scheduler and web service
// together into the running application.
package daemon

import (
	"errors"
	"fmt"

	"github.com/gofiber/storage"
	sessionmemory "github.com/gofiber/storage/memory/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GoCadetAdmin/GoCadetAdmin/internal/config"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/dsn"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/models"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web"
	"github.com/GoCadetAdmin/GoCadetAdmin/internal/web/session"
)

// errNilConfig is returned when New is called without a configuration.
var errNilConfig = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	webService *web.Service
	scheduler  *Scheduler
	cfg        *config.Config
}

// Start starts the scheduler and the web service, then blocks until the
// web service stops.
func (d *Daemon) Start() error {
	if err := d.scheduler.Start(); err != nil {
		return err
	}
	defer d.scheduler.Stop()

	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errNilConfig
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.RolePermission{},
		&models.UserRole{},
		&models.ParentChild{},
		&models.Activity{},
		&models.ActivityEquipment{},
		&models.Attendance{},
		&models.EvaluationType{},
		&models.UserNote{},
		&models.Badge{},
		&models.InventoryItem{},
		&models.EquipmentAssignment{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err = Seed(db); err != nil {
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	session.Init(newSessionStorage(cfg))

	return &Daemon{
		webService: web.New(cfg, db),
		scheduler:  NewScheduler(db),
		cfg:        cfg,
	}, nil
}

// openDatabase opens the gorm connection matching the configured engine.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return gorm.Open(gormmysql.Open(dsn.Create(cfg)), &gorm.Config{})
	case config.EngineSQLite:
		return gorm.Open(sqlite.Open(cfg.DB.Path), &gorm.Config{})
	default:
		return gorm.Open(gormpostgres.Open(dsn.Create(cfg)), &gorm.Config{})
	}
}

// newSessionStorage creates the fiber session storage matching the engine.
// SQLite deployments keep sessions in memory; they are single node anyway.
func newSessionStorage(cfg *config.Config) storage.Storage {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.CreateMySQL(cfg),
			Table:         "sessions",
		})
	case config.EngineSQLite:
		log.Warn().Msg("sqlite engine selected: sessions are kept in memory")
		return sessionmemory.New()
	default:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: postgresConnectionURI(cfg),
			Table:         "sessions",
		})
	}
}

func postgresConnectionURI(cfg *config.Config) string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%d/%s",
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.Name,
	)
}
