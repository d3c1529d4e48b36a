// Package offline keeps a local sqlite snapshot of the last known-good
// server state. It is a read cache only: writes never land here first. When
// the primary store is unreachable the failed operation is queued with an
// explicit pending marker so the divergence stays visible instead of silent.
package offline

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrNotCached = errors.New("not_cached")

// Snapshot is one cached entity, keyed by (entity, public id).
type Snapshot struct {
	ID        uint   `gorm:"primaryKey"`
	Entity    string `gorm:"size:30;not null;uniqueIndex:idx_snapshot_key,priority:1"`
	PublicID  string `gorm:"size:36;not null;uniqueIndex:idx_snapshot_key,priority:2"`
	Data      string `gorm:"not null"` // JSON
	UpdatedAt time.Time
}

// PendingOp is a write that could not reach the primary store.
type PendingOp struct {
	ID        uint   `gorm:"primaryKey"`
	Entity    string `gorm:"size:30;not null"`
	Action    string `gorm:"size:20;not null"`
	Payload   string `gorm:"not null"` // JSON
	CreatedAt time.Time
}

type Cache struct {
	db *gorm.DB
}

// Open creates or opens the cache file. ":memory:" works for tests.
func Open(path string) (*Cache, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Snapshot{}, &PendingOp{}); err != nil {
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Put upserts a snapshot. Idempotent: re-putting the same value is a no-op
// apart from the timestamp, so concurrent sync runs are safe.
func (c *Cache) Put(entity, publicID string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var snap Snapshot
	err = c.db.Where("entity = ? AND public_id = ?", entity, publicID).First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.db.Create(&Snapshot{Entity: entity, PublicID: publicID, Data: string(data)}).Error
	}
	if err != nil {
		return err
	}
	return c.db.Model(&snap).Update("data", string(data)).Error
}

// Get loads a snapshot into dst.
func (c *Cache) Get(entity, publicID string, dst any) error {
	var snap Snapshot
	err := c.db.Where("entity = ? AND public_id = ?", entity, publicID).First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotCached
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(snap.Data), dst)
}

// Enqueue records a write that must be retried against the primary store.
func (c *Cache) Enqueue(entity, action string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.db.Create(&PendingOp{Entity: entity, Action: action, Payload: string(data)}).Error
}

// PendingCount is surfaced to the user as the "pending sync" marker.
func (c *Cache) PendingCount() (int64, error) {
	var n int64
	err := c.db.Model(&PendingOp{}).Count(&n).Error
	return n, err
}

// Dequeue removes a pending op after a successful retry.
func (c *Cache) Dequeue(id uint) error {
	return c.db.Delete(&PendingOp{}, id).Error
}

// Pending returns queued ops, oldest first.
func (c *Cache) Pending(limit int) ([]PendingOp, error) {
	var ops []PendingOp
	err := c.db.Order("id asc").Limit(limit).Find(&ops).Error
	return ops, err
}
