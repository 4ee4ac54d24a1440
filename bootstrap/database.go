package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ecell/pkg/config"
	"ecell/pkg/database"
	"ecell/pkg/database/migrations"
	"ecell/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupDB 初始化数据库和 ORM
func SetupDB() error {
	// 根据配置文件选择数据库类型
	var dbConfig gorm.Dialector
	connection := config.Get("database.connection")
	switch connection {
	case "postgresql":
		dbConfig = setupPostgreSQL()
	case "sqlite":
		d, err := setupSQLite()
		if err != nil {
			return err
		}
		dbConfig = d
	default:
		return fmt.Errorf("unsupported database connection %q", connection)
	}

	// 连接数据库，并设置 GORM 的日志模式
	if err := database.Connect(dbConfig, logger.NewGormLogger()); err != nil {
		return err
	}

	// 设置连接池，SQLite 使用默认设置
	if connection == "postgresql" {
		setupDBPool()
	}

	// 自动迁移数据库结构
	if err := database.AutoMigrate(database.DB, migrations.RegisterTables()); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logger.InfoString("Database", "AutoMigrate", "tables migrated")
	return nil
}

// setupPostgreSQL 配置 PostgreSQL 连接
func setupPostgreSQL() gorm.Dialector {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		config.Get("database.postgresql.host"),
		config.Get("database.postgresql.port"),
		config.Get("database.postgresql.username"),
		config.Get("database.postgresql.password"),
		config.Get("database.postgresql.database"),
		config.Get("database.postgresql.sslmode", "disable"),
		config.Get("app.timezone", "Asia/Kolkata"),
	)
	return postgres.New(postgres.Config{
		DSN: dsn,
	})
}

// setupSQLite 配置 SQLite 连接，自动创建数据文件目录
func setupSQLite() (gorm.Dialector, error) {
	file := config.Get("database.sqlite.database")
	if dir := filepath.Dir(file); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	return sqlite.Open(file), nil
}

// setupDBPool 配置数据库连接池
func setupDBPool() {
	database.SQLDB.SetMaxOpenConns(config.GetInt("database.postgresql.max_open_connections"))
	database.SQLDB.SetMaxIdleConns(config.GetInt("database.postgresql.max_idle_connections"))
	database.SQLDB.SetConnMaxLifetime(time.Duration(config.GetInt("database.postgresql.max_life_seconds")) * time.Second)
}
