package database

import (
	"Amem/internal/api/config"
	"Amem/internal/model"
	"Amem/internal/pkg/logger"
	"fmt"
	log "log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewGormDB 初始化并返回 *gorm.DB 实例，处理连接池配置
func NewGormDB(cfg *config.DBConfig) (*gorm.DB, error) {
	dialector, name, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.NewGormLogger(name),
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}

	if cfg.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	}
	if cfg.MaxOpen > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	}
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Minute)

	if err = sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database connection check failed: %w", err)
	}

	if cfg.AutoMigrate {
		if err = db.AutoMigrate(model.AllModels()...); err != nil {
			return nil, fmt.Errorf("auto migrate failed: %w", err)
		}
	}

	log.Info("Database connection established successfully.", "driver", name)
	return db, nil
}

func openDialector(cfg *config.DBConfig) (gorm.Dialector, string, error) {
	switch cfg.Driver {
	case "", "mysql":
		return mysql.Open(cfg.DSN), "MySQL", nil
	case "postgres":
		return postgres.Open(cfg.DSN), "Postgres", nil
	case "sqlite":
		return sqlite.Open(cfg.DSN), "SQLite", nil
	default:
		return nil, "", fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}
