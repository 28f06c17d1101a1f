// Package db opens the MySQL connection and manages the schema.
package db

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"graphql-crm/internal/config"
	"graphql-crm/internal/models"
)

// Open returns a gorm DB using the provided configuration. TranslateError
// is enabled so unique-key violations surface as gorm.ErrDuplicatedKey.
func Open(cfg config.DB) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.Params,
	)

	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	gdb, err := gorm.Open(mysql.Open(dsn), gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return gdb, nil
}

// EnsureSchema applies the required database schema.
func EnsureSchema(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&models.Customer{}, &models.Product{}, &models.Order{})
}
