package cmd

import (
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/office-management/internal"
	"github.com/frahmantamala/office-management/internal/store"
	kvstore "github.com/frahmantamala/office-management/internal/store/postgres"
)

// openedStore is the record store plus whatever must be closed on shutdown.
type openedStore struct {
	store.Store
	name  string
	close func() error
}

func (o *openedStore) Close() error {
	if o.close == nil {
		return nil
	}
	return o.close()
}

// Pinger returns the store's health probe, or nil when it has none.
func (o *openedStore) Pinger() store.Pinger {
	if p, ok := o.Store.(store.Pinger); ok {
		return p
	}
	return nil
}

func openStore(cfg internal.DatabaseConfig, logger *slog.Logger) (*openedStore, error) {
	switch cfg.Driver {
	case internal.DriverMemory:
		logger.Warn("using in-memory record store, data is lost on exit")
		return &openedStore{Store: store.NewMemoryStore(), name: "memory"}, nil

	case internal.DriverSQLite:
		gdb, err := gorm.Open(sqlite.Open(cfg.GetDSN()), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		// goose migrations target postgres; sqlite files are created on demand.
		if err := kvstore.AutoMigrate(gdb); err != nil {
			return nil, fmt.Errorf("failed to migrate sqlite: %w", err)
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		return &openedStore{Store: kvstore.NewKVStore(gdb), name: "sqlite", close: sqlDB.Close}, nil

	default:
		db, err := initDB(cfg)
		if err != nil {
			return nil, err
		}
		gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to open gorm on postgres: %w", err)
		}
		return &openedStore{Store: kvstore.NewKVStore(gdb), name: "postgres", close: db.Close}, nil
	}
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return dbConn, nil
}
