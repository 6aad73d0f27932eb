// Package keyring stores named cipher secrets so that operators can refer
// to keys by name instead of passing raw key material around.
package keyring

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrMissingName is returned when creating a key with an empty name.
var ErrMissingName = errors.New("keyring: key name must not be empty")

// ErrMissingSecret is returned when creating a key with an empty secret.
// The cipher itself accepts empty secrets; a stored empty secret is almost
// certainly an operator mistake, so the ring rejects it.
var ErrMissingSecret = errors.New("keyring: key secret must not be empty")

// Key is a named cipher secret registered in the key ring.
type Key struct {
	ID        uint64 `gorm:"primaryKey"`
	Name      string `gorm:"unique; not null"`
	Secret    []byte `gorm:"not null"`
	CreatedAt time.Time
	DeletedAt gorm.DeletedAt
}

// Initialize opens the database behind dialector and runs the schema
// migrations for the key ring. By default only errors are logged but debug
// enables full SQL query prints-to-console.
func Initialize(dialector gorm.Dialector, debug bool) (*gorm.DB, error) {
	log := logger.Default.LogMode(logger.Error)
	if debug {
		log = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: log})
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := db.AutoMigrate(&Key{}); err != nil {
		return nil, fmt.Errorf("error auto migrating db: %w", err)
	}
	return db, nil
}

// Shutdown closes the underlying database connection.
func Shutdown(db *gorm.DB) error {
	database, err := db.DB()
	if err != nil {
		return fmt.Errorf("error while getting current connection: %w", err)
	}
	if err := database.Close(); err != nil {
		return fmt.Errorf("error while closing database connection: %w", err)
	}
	return nil
}

// CreateKey persists the Key record to the database.
func CreateKey(db *gorm.DB, key *Key) error {
	if key.Name == "" {
		return ErrMissingName
	}
	if len(key.Secret) == 0 {
		return ErrMissingSecret
	}
	return db.Create(key).Error
}

// FindKeyByName searches for a key with the specified name, returning the
// *Key instance if found or nil if there is no match.
func FindKeyByName(db *gorm.DB, name string) (*Key, error) {
	var key Key
	err := db.Where("name = ?", name).First(&key).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &key, nil
}

// FindUnscopedKey searches for a potentially soft-deleted key with the
// specified name, returning the *Key instance if found or nil if there
// is no match.
func FindUnscopedKey(db *gorm.DB, name string) (*Key, error) {
	var key Key
	err := db.Unscoped().Where("name = ?", name).First(&key).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &key, nil
}

// ListKeys returns all active keys in the ring ordered by name.
func ListKeys(db *gorm.DB) ([]Key, error) {
	var keys []Key
	if err := db.Order("name").Find(&keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

// DeleteKey soft-deletes a Key record from the database.
func DeleteKey(db *gorm.DB, key *Key) error {
	return db.Delete(key).Error
}

// PermanentlyDeleteKey hard-deletes a Key record from the database.
func PermanentlyDeleteKey(db *gorm.DB, key *Key) error {
	return db.Unscoped().Delete(key).Error
}
