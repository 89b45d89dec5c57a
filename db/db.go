package db

import (
	"errors"
	"strings"

	mysqlerr "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"nikodex/config"
)

var Instance *gorm.DB

const mysqlDuplicateEntry = 1062

// Dialector picks the database from the configuration: MySQL first, then PostgreSQL, then SQLite
func Dialector() gorm.Dialector {
	if config.MYSQL_DSN != "" {
		return mysql.Open(config.MYSQL_DSN)
	}
	if config.POSTGRES_DSN != "" {
		return postgres.Open(config.POSTGRES_DSN)
	}
	dsn := config.SQLITE_FILE
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on"
	}
	return sqlite.Open(dsn)
}

func Init() error {
	return Open(Dialector())
}

func Open(dialector gorm.Dialector) error {
	logLevel := logger.Silent
	if config.DEBUG_MODE {
		logLevel = logger.Warn
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return err
	}
	if db.Dialector.Name() == "sqlite" {
		// SQLite allows a single writer; serialize everything through one connection
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	Instance = db
	return nil
}

func Close() error {
	if Instance == nil {
		return nil
	}
	sqlDB, err := Instance.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func Ping() error {
	if Instance == nil {
		return errors.New("database not initialised")
	}
	sqlDB, err := Instance.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// IsDuplicateKey reports unique constraint violations from any of the supported drivers
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysqlerr.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
