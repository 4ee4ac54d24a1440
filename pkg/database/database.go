// Package database 数据库操作
package database

import (
	"database/sql"
	"fmt"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB 对象
var DB *gorm.DB
var SQLDB *sql.DB

// Connect 连接数据库
func Connect(dbConfig gorm.Dialector, _logger gormlogger.Interface) error {
	// 使用 gorm.Open 连接数据库
	db, err := gorm.Open(dbConfig, &gorm.Config{
		Logger: _logger,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	// 获取底层的 sqlDB
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}

	DB, SQLDB = db, sqlDB
	return nil
}

// AutoMigrate 自动迁移所有数据表
func AutoMigrate(db *gorm.DB, tables []interface{}) error {
	return db.AutoMigrate(tables...)
}
