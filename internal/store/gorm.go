package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// StateBlob is the single-row-per-key snapshot table.
type StateBlob struct {
	Key       string    `gorm:"primaryKey;size:64"`
	Data      []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// GormStore persists the snapshot in a relational database.
type GormStore struct {
	db  *gorm.DB
	key string
}

// NewGormStore binds a store to the given connection and snapshot key.
func NewGormStore(db *gorm.DB, key string) (*GormStore, error) {
	if err := db.AutoMigrate(&StateBlob{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &GormStore{db: db, key: key}, nil
}

func (s *GormStore) Load(ctx context.Context) ([]byte, error) {
	var row StateBlob
	err := s.db.WithContext(ctx).First(&row, "`key` = ?", s.key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.Data, nil
}

func (s *GormStore) Save(ctx context.Context, blob []byte) error {
	row := StateBlob{Key: s.key, Data: blob}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&row).Error
}

// OpenSQLite opens (or creates) the snapshot database at path.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	return db, nil
}

// OpenMySQL connects using the given DSN.
func OpenMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql db: %w", err)
	}
	return db, nil
}
