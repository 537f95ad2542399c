// Package profile persists the visitor's local state (cart snapshot, visitor
// id, admin session) in a per-profile sqlite database, mirroring one browser
// profile's durable storage.
package profile

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Well-known storage keys.
const (
	KeyCart          = "cart"
	KeyCheckoutData  = "checkoutData"
	KeyVisitorID     = "visitorId"
	KeyAdminToken    = "adminToken"
	KeyAdminUsername = "adminUsername"
)

type entry struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}

func (entry) TableName() string { return "profile_entries" }

// Store is a durable key-value holder. All operations are synchronous and
// single-writer from the caller's point of view.
type Store struct {
	conn *gorm.DB
}

// DefaultDir returns the profile directory used when none is configured.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home dir: %w", err)
	}
	return filepath.Join(home, ".onepct"), nil
}

// Open creates the profile directory if needed and boots the backing store.
func Open(dir string) (*Store, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating profile dir: %w", err)
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(filepath.Join(dir, "profile.db")), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening profile store: %w", err)
	}
	if err := conn.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("migrating profile store: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Get returns the raw value for key and whether it was present.
func (s *Store) Get(key string) (string, bool, error) {
	var e entry
	err := s.conn.First(&e, "key = ?", key).Error
	if err == gorm.ErrRecordNotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %q: %w", key, err)
	}
	return e.Value, true, nil
}

// Put overwrites the value for key.
func (s *Store) Put(key, value string) error {
	e := entry{Key: key, Value: value, UpdatedAt: time.Now()}
	if err := s.conn.Save(&e).Error; err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}

// Delete removes the given keys. Missing keys are not an error.
func (s *Store) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.conn.Delete(&entry{}, "key IN ?", keys).Error; err != nil {
		return fmt.Errorf("deleting keys: %w", err)
	}
	return nil
}

// GetJSON decodes the stored value into dest. Malformed content is treated
// as absent, never as an error: the caller sees the same thing as an unset
// key and the next write repairs the entry.
func (s *Store) GetJSON(key string, dest any) (bool, error) {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if json.Unmarshal([]byte(raw), dest) != nil {
		return false, nil
	}
	return true, nil
}

// PutJSON encodes value and stores it under key.
func (s *Store) PutJSON(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	return s.Put(key, string(raw))
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
