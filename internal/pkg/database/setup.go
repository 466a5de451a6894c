package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ManuelReschke/ContractorHub/app/models"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/env"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Config describes how to reach the database.
type Config struct {
	Driver       string
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SQLitePath   string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

// ConfigFromEnv reads the DB_* keys.
func ConfigFromEnv() Config {
	return Config{
		Driver:       strings.ToLower(env.GetEnv("DB_DRIVER", DriverMySQL)),
		Host:         env.GetEnv("DB_HOST", "127.0.0.1"),
		Port:         env.GetEnv("DB_PORT", "3306"),
		User:         env.GetEnv("DB_USER", ""),
		Password:     env.GetEnv("DB_PASSWORD", ""),
		Name:         env.GetEnv("DB_NAME", ""),
		SQLitePath:   env.GetEnv("DB_SQLITE_PATH", "contractorhub.db"),
		MaxOpenConns: env.GetEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns: env.GetEnvInt("DB_MAX_IDLE_CONNS", 10),
		AutoMigrate:  env.GetEnvBool("DB_AUTO_MIGRATE", env.IsDev()),
	}
}

func (c Config) dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case DriverMySQL, "":
		// "user:pass@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local"
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.User, c.Password, c.Host, c.Port, c.Name)
		return mysql.New(mysql.Config{
			DSN:                       dsn,
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		}), nil
	case DriverSQLite:
		return sqlite.Open(c.SQLitePath), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", c.Driver)
	}
}

// GormConfig is shared by the server and tests. TranslateError turns
// driver-specific unique and foreign key failures into gorm sentinels.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

// Open connects with retries, configures the pool and optionally
// auto-migrates. The returned handle is shared process-wide.
func Open(cfg Config, logger *zap.SugaredLogger) (*gorm.DB, error) {
	dialector, err := cfg.dialector()
	if err != nil {
		return nil, err
	}

	var db *gorm.DB
	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(dialector, GormConfig())
		if err == nil {
			break
		}
		logger.Warnw("failed to connect to database", "attempt", i+1, "max", maxRetries, "error", err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == DriverSQLite {
		// SQLite serializes writers; one connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if cfg.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, err
		}
		logger.Infow("database schema auto-migrated", "driver", cfg.Driver)
	}
	return db, nil
}

// AutoMigrate creates or updates every table from the models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// Close releases the pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
