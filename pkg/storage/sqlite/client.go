package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"btcticker/config"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type SqliteClient struct {
	DB *gorm.DB
}

// NewClient opens (creating if absent) the single database file at path.
func NewClient(path string) (*SqliteClient, error) {
	// SQLite creates the file on open, but not its parent directory.
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}

	return &SqliteClient{DB: db}, nil
}

// InitializeAndMigrateTradeRecord opens the database file and ensures the
// trades table exists. Idempotent: safe to call on every startup.
func InitializeAndMigrateTradeRecord(cfg config.SqliteConfig) (*SqliteClient, error) {
	client, err := NewClient(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if err := client.AutoMigrateTradeRecord(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return client, nil
}

func (s *SqliteClient) AutoMigrateTradeRecord() error {
	if err := s.DB.AutoMigrate(&TradeRecord{}); err != nil {
		return fmt.Errorf("auto-migrate trades table: %w", err)
	}
	return nil
}

func (s *SqliteClient) IsHealthy(ctx context.Context) bool {
	db, err := s.DB.DB()
	if err != nil {
		return false
	}
	return db.PingContext(ctx) == nil
}

func (s *SqliteClient) Close() error {
	db, err := s.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to retrieve raw DB: %w", err)
	}
	return db.Close()
}
