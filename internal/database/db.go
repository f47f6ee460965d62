package database

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/justsurfingit/ejobs/internal/config"
	"github.com/justsurfingit/ejobs/internal/models"
)

// Connect opens the database described by settings. Unique and foreign key
// violations are translated to gorm.ErrDuplicatedKey and
// gorm.ErrForeignKeyViolated.
func Connect(settings config.DatabaseSettings) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	}

	switch settings.Type {
	case config.PostgresDbType:
		db, err := gorm.Open(postgres.Open(settings.DSN), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		return db, nil
	case config.SqliteDbType:
		return connectSQLite(settings.DSN, gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", settings.Type)
	}
}

func connectSQLite(dsn string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(withForeignKeys(dsn)), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
	}

	// Every new connection to :memory: is a fresh empty database.
	if strings.Contains(dsn, ":memory:") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get raw DB connection: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// withForeignKeys turns on foreign key enforcement, which SQLite leaves off
// for every new connection unless the DSN asks for it.
func withForeignKeys(dsn string) string {
	sep := "?"
	if _, query, ok := strings.Cut(dsn, "?"); ok {
		params, _ := url.ParseQuery(query)
		if params.Has("_foreign_keys") || params.Has("_fk") {
			return dsn
		}
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=1"
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB, log *slog.Logger) error {
	log.Info("running migrations")
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// Close closes the database connection.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}

// NewTestDB opens a migrated in-memory SQLite database.
func NewTestDB() (*gorm.DB, error) {
	db, err := Connect(config.DatabaseSettings{Type: config.SqliteDbType, DSN: ":memory:"})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return db, nil
}
