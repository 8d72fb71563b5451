package bootstrap

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/pasofino/ventabot/core/config"
	coredatabase "github.com/pasofino/ventabot/core/database"
	"github.com/pasofino/ventabot/core/logger"
)

// Options control the generic bootstrap pipeline.
type Options struct {
	Config *coreconfig.Config

	LoggerInit func(*coreconfig.Config) error
	Connect    func(coreconfig.DatabaseConfig) (*sqlx.DB, error)
	Migrate    func(coreconfig.DatabaseConfig) error
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
// DB is nil when no journal database is configured.
type Result struct {
	DB *sqlx.DB
}

// Run initializes the logger and, when configured, connects the sales journal
// database and applies migrations.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	if !opts.Config.Database.Enabled() {
		logger.DB.Info("sales journal disabled, orders go to the feed only")
		return &Result{}, nil
	}

	connect := opts.Connect
	if connect == nil {
		connect = coredatabase.Connect
	}
	db, err := connect(opts.Config.Database)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: database initialization failed: %w", err)
	}

	migrate := opts.Migrate
	if migrate == nil {
		migrate = coredatabase.RunMigrations
	}
	if err := migrate(opts.Config.Database); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: migrations failed: %w", err)
	}

	return &Result{DB: db}, nil
}
